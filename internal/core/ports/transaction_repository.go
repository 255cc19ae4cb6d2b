package ports

import (
	"context"

	"github.com/ledgerdesk/backoffice/internal/core/domain"
)

// TransactionRepository mirrors ClientRepository for ledger entries.
type TransactionRepository interface {
	Create(ctx context.Context, t *domain.Transaction) error
	// ListByOwner returns the owner's transactions in creation order.
	ListByOwner(ctx context.Context, ownerID string) ([]domain.Transaction, error)
	Update(ctx context.Context, ownerID, id string, mutate func(*domain.Transaction) error) (*domain.Transaction, error)
	Delete(ctx context.Context, ownerID, id string) error
}
