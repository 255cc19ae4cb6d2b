package relational

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ledgerdesk/backoffice/internal/core/domain"
)

type TransactionRepository struct {
	db *gorm.DB
}

func NewTransactionRepository(db *gorm.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

func (r *TransactionRepository) Create(ctx context.Context, t *domain.Transaction) error {
	row := newTransactionRow(t)
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return domain.NewStorageError("sql.transactions.create", err)
	}
	return nil
}

func (r *TransactionRepository) ListByOwner(ctx context.Context, ownerID string) ([]domain.Transaction, error) {
	var rows []transactionRow
	if err := r.db.WithContext(ctx).Where("user_id = ?", ownerID).Order("seq").Find(&rows).Error; err != nil {
		return nil, domain.NewStorageError("sql.transactions.list", err)
	}

	out := make([]domain.Transaction, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *TransactionRepository) Update(ctx context.Context, ownerID, id string, mutate func(*domain.Transaction) error) (*domain.Transaction, error) {
	var updated domain.Transaction
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row transactionRow
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ? AND user_id = ?", id, ownerID).
			Order("seq").
			First(&row).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrTransactionNotFound
		}
		if err != nil {
			return domain.NewStorageError("sql.transactions.find", err)
		}

		t := row.toDomain()
		if err := mutate(&t); err != nil {
			return err
		}

		next := newTransactionRow(&t)
		next.Seq, next.ID, next.UserID = row.Seq, row.ID, row.UserID
		if err := tx.Save(&next).Error; err != nil {
			return domain.NewStorageError("sql.transactions.save", err)
		}
		updated = next.toDomain()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (r *TransactionRepository) Delete(ctx context.Context, ownerID, id string) error {
	res := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, ownerID).Delete(&transactionRow{})
	if res.Error != nil {
		return domain.NewStorageError("sql.transactions.delete", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrTransactionNotFound
	}
	return nil
}
