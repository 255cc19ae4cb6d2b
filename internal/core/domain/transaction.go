package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType distinguishes money coming in from money going out.
type TransactionType string

const (
	Revenue TransactionType = "revenue"
	Expense TransactionType = "expense"
)

// Valid reports whether t is a known transaction type.
func (t TransactionType) Valid() bool {
	return t == Revenue || t == Expense
}

// DefaultAmountScale is the number of fractional digits an amount may carry
// when no currency says otherwise.
const DefaultAmountScale int32 = 2

// Transaction is a single revenue or expense entry owned by one user.
type Transaction struct {
	ID          string          `json:"id"`
	UserID      string          `json:"user_id"`
	Type        TransactionType `json:"type"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	Date        Date            `json:"date"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// ValidateAmount requires a strictly positive value with at most scale decimals.
func ValidateAmount(d decimal.Decimal, scale int32) error {
	if !d.IsPositive() {
		return Invalid("amount", "must be greater than 0")
	}
	if !d.Equal(d.Truncate(scale)) {
		if scale == 0 {
			return Invalid("amount", "must be a whole number")
		}
		return Invalid("amount", fmt.Sprintf("must have at most %d decimal places", scale))
	}
	return nil
}

// Validate checks a fully populated transaction before it is first stored.
// scale is the number of fractional digits of the ledger currency.
func (t *Transaction) Validate(scale int32) error {
	if !t.Type.Valid() {
		return Invalid("type", "must be revenue or expense")
	}
	if err := ValidateAmount(t.Amount, scale); err != nil {
		return err
	}
	if strings.TrimSpace(t.Description) == "" {
		return Invalid("description", "is required")
	}
	if t.Date.IsZero() {
		return Invalid("date", "is required")
	}
	return nil
}

// TransactionPatch is a partial update: nil fields are left untouched.
type TransactionPatch struct {
	Type        *TransactionType
	Amount      *decimal.Decimal
	Description *string
	Date        *Date
}

// Validate checks every field that is set.
func (p TransactionPatch) Validate(scale int32) error {
	if p.Type != nil && !p.Type.Valid() {
		return Invalid("type", "must be revenue or expense")
	}
	if p.Amount != nil {
		if err := ValidateAmount(*p.Amount, scale); err != nil {
			return err
		}
	}
	if p.Description != nil && strings.TrimSpace(*p.Description) == "" {
		return Invalid("description", "must not be empty")
	}
	if p.Date != nil && p.Date.IsZero() {
		return Invalid("date", "must not be empty")
	}
	return nil
}

// Apply merges the set fields onto t.
func (p TransactionPatch) Apply(t *Transaction) {
	if p.Type != nil {
		t.Type = *p.Type
	}
	if p.Amount != nil {
		t.Amount = *p.Amount
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.Date != nil {
		t.Date = *p.Date
	}
}
