package ports

import (
	"context"

	"github.com/ledgerdesk/backoffice/internal/core/domain"
)

// CreateClientInput carries the fields of a new client. Status and
// SensitiveNotes are optional.
type CreateClientInput struct {
	Name           string
	Email          string
	Phone          string
	Status         domain.ClientStatus
	SensitiveNotes string
}

// ClientService defines the owner-scoped client use cases.
type ClientService interface {
	ListClients(ctx context.Context, userID string) ([]domain.Client, error)
	CreateClient(ctx context.Context, userID string, input CreateClientInput) (*domain.Client, error)
	UpdateClient(ctx context.Context, userID, clientID string, patch domain.ClientPatch) (*domain.Client, error)
	DeleteClient(ctx context.Context, userID, clientID string) error
}
