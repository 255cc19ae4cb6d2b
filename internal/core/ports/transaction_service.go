package ports

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/ledgerdesk/backoffice/internal/core/domain"
)

// CreateTransactionInput carries the fields of a new ledger entry. All are required.
type CreateTransactionInput struct {
	Type        domain.TransactionType
	Amount      decimal.Decimal
	Description string
	Date        domain.Date
}

// TransactionService defines the owner-scoped ledger use cases.
type TransactionService interface {
	// ListTransactions returns entries newest date first.
	ListTransactions(ctx context.Context, userID string) ([]domain.Transaction, error)
	CreateTransaction(ctx context.Context, userID string, input CreateTransactionInput) (*domain.Transaction, error)
	UpdateTransaction(ctx context.Context, userID, transactionID string, patch domain.TransactionPatch) (*domain.Transaction, error)
	DeleteTransaction(ctx context.Context, userID, transactionID string) error
}
