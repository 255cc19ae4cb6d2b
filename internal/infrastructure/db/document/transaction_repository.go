package document

import (
	"context"

	"github.com/ledgerdesk/backoffice/internal/core/domain"
)

// TransactionRepository implements ports.TransactionRepository on a Store.
type TransactionRepository struct {
	store *Store
}

func NewTransactionRepository(store *Store) *TransactionRepository {
	return &TransactionRepository{store: store}
}

func (r *TransactionRepository) Create(ctx context.Context, t *domain.Transaction) error {
	return r.store.Update(ctx, func(doc *Document) error {
		doc.Transactions = append(doc.Transactions, *t)
		return nil
	})
}

func (r *TransactionRepository) ListByOwner(ctx context.Context, ownerID string) ([]domain.Transaction, error) {
	out := []domain.Transaction{}
	err := r.store.View(ctx, func(doc *Document) error {
		for _, t := range doc.Transactions {
			if t.UserID == ownerID {
				out = append(out, t)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *TransactionRepository) Update(ctx context.Context, ownerID, id string, mutate func(*domain.Transaction) error) (*domain.Transaction, error) {
	var updated domain.Transaction
	err := r.store.Update(ctx, func(doc *Document) error {
		i := indexOfTransaction(doc.Transactions, ownerID, id)
		if i < 0 {
			return domain.ErrTransactionNotFound
		}

		t := doc.Transactions[i]
		if err := mutate(&t); err != nil {
			return err
		}
		t.ID, t.UserID = doc.Transactions[i].ID, doc.Transactions[i].UserID

		doc.Transactions[i] = t
		updated = t
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (r *TransactionRepository) Delete(ctx context.Context, ownerID, id string) error {
	return r.store.Update(ctx, func(doc *Document) error {
		i := indexOfTransaction(doc.Transactions, ownerID, id)
		if i < 0 {
			return domain.ErrTransactionNotFound
		}
		doc.Transactions = append(doc.Transactions[:i], doc.Transactions[i+1:]...)
		return nil
	})
}

func indexOfTransaction(txs []domain.Transaction, ownerID, id string) int {
	for i, t := range txs {
		if t.ID == id && t.UserID == ownerID {
			return i
		}
	}
	return -1
}
