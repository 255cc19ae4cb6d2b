package ports

import (
	"context"

	"github.com/ledgerdesk/backoffice/internal/core/domain"
)

// ClientRepository persists clients. Every method except Create is scoped by
// ownerID: a client owned by someone else is reported as domain.ErrClientNotFound.
type ClientRepository interface {
	Create(ctx context.Context, c *domain.Client) error
	// ListByOwner returns the owner's clients in creation order.
	ListByOwner(ctx context.Context, ownerID string) ([]domain.Client, error)
	CountByOwner(ctx context.Context, ownerID string) (int, error)
	// Update loads the client, runs mutate on it and persists the result as one
	// atomic step. Nothing is written when mutate returns an error.
	Update(ctx context.Context, ownerID, id string, mutate func(*domain.Client) error) (*domain.Client, error)
	Delete(ctx context.Context, ownerID, id string) error
}
