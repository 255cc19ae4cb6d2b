package relational

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ledgerdesk/backoffice/internal/core/domain"
)

type ClientRepository struct {
	db *gorm.DB
}

func NewClientRepository(db *gorm.DB) *ClientRepository {
	return &ClientRepository{db: db}
}

func (r *ClientRepository) Create(ctx context.Context, c *domain.Client) error {
	row := newClientRow(c)
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return domain.NewStorageError("sql.clients.create", err)
	}
	return nil
}

func (r *ClientRepository) ListByOwner(ctx context.Context, ownerID string) ([]domain.Client, error) {
	var rows []clientRow
	if err := r.db.WithContext(ctx).Where("user_id = ?", ownerID).Order("seq").Find(&rows).Error; err != nil {
		return nil, domain.NewStorageError("sql.clients.list", err)
	}

	out := make([]domain.Client, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *ClientRepository) CountByOwner(ctx context.Context, ownerID string) (int, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&clientRow{}).Where("user_id = ?", ownerID).Count(&n).Error; err != nil {
		return 0, domain.NewStorageError("sql.clients.count", err)
	}
	return int(n), nil
}

// Update locks the owner's row inside a transaction, applies mutate and saves.
func (r *ClientRepository) Update(ctx context.Context, ownerID, id string, mutate func(*domain.Client) error) (*domain.Client, error) {
	var updated domain.Client
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row clientRow
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ? AND user_id = ?", id, ownerID).
			Order("seq").
			First(&row).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrClientNotFound
		}
		if err != nil {
			return domain.NewStorageError("sql.clients.find", err)
		}

		c := row.toDomain()
		if err := mutate(&c); err != nil {
			return err
		}

		next := newClientRow(&c)
		next.Seq, next.ID, next.UserID = row.Seq, row.ID, row.UserID
		if err := tx.Save(&next).Error; err != nil {
			return domain.NewStorageError("sql.clients.save", err)
		}
		updated = next.toDomain()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (r *ClientRepository) Delete(ctx context.Context, ownerID, id string) error {
	res := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, ownerID).Delete(&clientRow{})
	if res.Error != nil {
		return domain.NewStorageError("sql.clients.delete", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrClientNotFound
	}
	return nil
}
