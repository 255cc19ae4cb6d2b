package relational

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/ledgerdesk/backoffice/internal/core/domain"
)

type userRow struct {
	ID           string `gorm:"primaryKey;size:36"`
	Email        string `gorm:"uniqueIndex;not null"`
	Name         string
	PasswordHash string `gorm:"not null"`
	CreatedAt    time.Time
}

func (userRow) TableName() string { return "users" }

func (r userRow) toDomain() *domain.User {
	return &domain.User{
		ID:           r.ID,
		Email:        r.Email,
		Name:         r.Name,
		PasswordHash: r.PasswordHash,
		CreatedAt:    r.CreatedAt.UTC(),
	}
}

// Seq is the insertion order; ID is the public identifier.
type clientRow struct {
	Seq            uint64 `gorm:"primaryKey;autoIncrement"`
	ID             string `gorm:"uniqueIndex;size:36;not null"`
	UserID         string `gorm:"index;size:36;not null"`
	Name           string `gorm:"not null"`
	Email          string `gorm:"not null"`
	Phone          string `gorm:"not null"`
	Status         string `gorm:"size:16;not null"`
	SensitiveNotes string `gorm:"type:text"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (clientRow) TableName() string { return "clients" }

func newClientRow(c *domain.Client) clientRow {
	return clientRow{
		ID:             c.ID,
		UserID:         c.UserID,
		Name:           c.Name,
		Email:          c.Email,
		Phone:          c.Phone,
		Status:         string(c.Status),
		SensitiveNotes: c.SensitiveNotes,
		CreatedAt:      c.CreatedAt,
		UpdatedAt:      c.UpdatedAt,
	}
}

func (r clientRow) toDomain() domain.Client {
	return domain.Client{
		ID:             r.ID,
		UserID:         r.UserID,
		Name:           r.Name,
		Email:          r.Email,
		Phone:          r.Phone,
		Status:         domain.ClientStatus(r.Status),
		SensitiveNotes: r.SensitiveNotes,
		CreatedAt:      r.CreatedAt.UTC(),
		UpdatedAt:      r.UpdatedAt.UTC(),
	}
}

type transactionRow struct {
	Seq         uint64          `gorm:"primaryKey;autoIncrement"`
	ID          string          `gorm:"uniqueIndex;size:36;not null"`
	UserID      string          `gorm:"index;size:36;not null"`
	Type        string          `gorm:"size:16;not null"`
	Amount      decimal.Decimal `gorm:"type:numeric(18,4);not null"`
	Description string          `gorm:"not null"`
	Date        domain.Date     `gorm:"type:date;not null"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (transactionRow) TableName() string { return "transactions" }

func newTransactionRow(t *domain.Transaction) transactionRow {
	return transactionRow{
		ID:          t.ID,
		UserID:      t.UserID,
		Type:        string(t.Type),
		Amount:      t.Amount,
		Description: t.Description,
		Date:        t.Date,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

func (r transactionRow) toDomain() domain.Transaction {
	return domain.Transaction{
		ID:          r.ID,
		UserID:      r.UserID,
		Type:        domain.TransactionType(r.Type),
		Amount:      r.Amount,
		Description: r.Description,
		Date:        r.Date,
		CreatedAt:   r.CreatedAt.UTC(),
		UpdatedAt:   r.UpdatedAt.UTC(),
	}
}
