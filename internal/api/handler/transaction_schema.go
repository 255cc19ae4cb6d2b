package handler

import (
	"github.com/shopspring/decimal"

	"github.com/ledgerdesk/backoffice/internal/core/domain"
)

type createTransactionRequest struct {
	Type        string           `json:"type"        validate:"required,oneof=revenue expense"`
	Amount      *decimal.Decimal `json:"amount"      validate:"required" swaggertype:"string" example:"150.00"`
	Description string           `json:"description" validate:"required"`
	Date        *domain.Date     `json:"date"        validate:"required" swaggertype:"string" example:"2024-01-03"`
}

// updateTransactionRequest is a partial update; absent fields stay unchanged.
type updateTransactionRequest struct {
	Type        *string          `json:"type"        validate:"omitempty,oneof=revenue expense"`
	Amount      *decimal.Decimal `json:"amount"      swaggertype:"string" example:"150.00"`
	Description *string          `json:"description"`
	Date        *domain.Date     `json:"date"        swaggertype:"string" example:"2024-01-03"`
}
