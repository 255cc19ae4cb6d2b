package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ledgerdesk/backoffice/internal/core/domain"
	"github.com/ledgerdesk/backoffice/internal/core/ports"
)

type ClientService struct {
	repo   ports.ClientRepository
	logger zerolog.Logger
}

func NewClientService(repo ports.ClientRepository, logger zerolog.Logger) *ClientService {
	return &ClientService{repo: repo, logger: logger}
}

// ListClients returns the caller's clients in creation order.
func (s *ClientService) ListClients(ctx context.Context, userID string) ([]domain.Client, error) {
	clients, err := s.repo.ListByOwner(ctx, userID)
	if err != nil {
		return nil, err
	}
	if clients == nil {
		clients = []domain.Client{}
	}
	return clients, nil
}

// CreateClient stores a new client owned by userID. Status defaults to Active.
func (s *ClientService) CreateClient(ctx context.Context, userID string, input ports.CreateClientInput) (*domain.Client, error) {
	if err := validateCreateClient(input); err != nil {
		return nil, err
	}

	status := input.Status
	if status == "" {
		status = domain.ClientActive
	}

	now := time.Now().UTC()
	client := &domain.Client{
		ID:             uuid.NewString(),
		UserID:         userID,
		Name:           strings.TrimSpace(input.Name),
		Email:          strings.TrimSpace(input.Email),
		Phone:          strings.TrimSpace(input.Phone),
		Status:         status,
		SensitiveNotes: input.SensitiveNotes,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.repo.Create(ctx, client); err != nil {
		s.logger.Error().Err(err).Str("user_id", userID).Msg("failed to create client")
		return nil, err
	}

	s.logger.Info().Str("user_id", userID).Str("client_id", client.ID).Msg("client created")
	return client, nil
}

// UpdateClient merges patch onto the caller's client.
func (s *ClientService) UpdateClient(ctx context.Context, userID, clientID string, patch domain.ClientPatch) (*domain.Client, error) {
	if err := patch.Validate(); err != nil {
		return nil, err
	}

	updated, err := s.repo.Update(ctx, userID, clientID, func(c *domain.Client) error {
		patch.Apply(c)
		c.UpdatedAt = time.Now().UTC()
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("user_id", userID).Str("client_id", clientID).Msg("client updated")
	return updated, nil
}

func (s *ClientService) DeleteClient(ctx context.Context, userID, clientID string) error {
	if err := s.repo.Delete(ctx, userID, clientID); err != nil {
		return err
	}
	s.logger.Info().Str("user_id", userID).Str("client_id", clientID).Msg("client deleted")
	return nil
}

func validateCreateClient(in ports.CreateClientInput) error {
	if strings.TrimSpace(in.Name) == "" {
		return domain.Invalid("name", "is required")
	}
	if strings.TrimSpace(in.Email) == "" {
		return domain.Invalid("email", "is required")
	}
	if strings.TrimSpace(in.Phone) == "" {
		return domain.Invalid("phone", "is required")
	}
	if in.Status != "" && !in.Status.Valid() {
		return domain.Invalid("status", "must be Active or Inactive")
	}
	return nil
}
