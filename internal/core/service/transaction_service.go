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

type TransactionService struct {
	repo   ports.TransactionRepository
	logger zerolog.Logger
	scale  int32
}

// TransactionOption customizes a TransactionService.
type TransactionOption func(*TransactionService)

// WithAmountScale sets how many fractional digits amounts may carry, normally
// domain.AmountScale of the configured currency. The default is
// domain.DefaultAmountScale.
func WithAmountScale(scale int32) TransactionOption {
	return func(s *TransactionService) { s.scale = scale }
}

func NewTransactionService(repo ports.TransactionRepository, logger zerolog.Logger, opts ...TransactionOption) *TransactionService {
	s := &TransactionService{repo: repo, logger: logger, scale: domain.DefaultAmountScale}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ListTransactions returns the caller's entries, newest date first.
func (s *TransactionService) ListTransactions(ctx context.Context, userID string) ([]domain.Transaction, error) {
	txs, err := s.repo.ListByOwner(ctx, userID)
	if err != nil {
		return nil, err
	}
	if txs == nil {
		txs = []domain.Transaction{}
	}
	domain.SortByDateDesc(txs)
	return txs, nil
}

func (s *TransactionService) CreateTransaction(ctx context.Context, userID string, input ports.CreateTransactionInput) (*domain.Transaction, error) {
	now := time.Now().UTC()
	tx := &domain.Transaction{
		ID:          uuid.NewString(),
		UserID:      userID,
		Type:        input.Type,
		Amount:      input.Amount,
		Description: strings.TrimSpace(input.Description),
		Date:        input.Date,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := tx.Validate(s.scale); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, tx); err != nil {
		s.logger.Error().Err(err).Str("user_id", userID).Msg("failed to create transaction")
		return nil, err
	}

	s.logger.Info().
		Str("user_id", userID).
		Str("transaction_id", tx.ID).
		Str("type", string(tx.Type)).
		Msg("transaction created")
	return tx, nil
}

func (s *TransactionService) UpdateTransaction(ctx context.Context, userID, transactionID string, patch domain.TransactionPatch) (*domain.Transaction, error) {
	if err := patch.Validate(s.scale); err != nil {
		return nil, err
	}

	updated, err := s.repo.Update(ctx, userID, transactionID, func(t *domain.Transaction) error {
		patch.Apply(t)
		t.UpdatedAt = time.Now().UTC()
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("user_id", userID).Str("transaction_id", transactionID).Msg("transaction updated")
	return updated, nil
}

func (s *TransactionService) DeleteTransaction(ctx context.Context, userID, transactionID string) error {
	if err := s.repo.Delete(ctx, userID, transactionID); err != nil {
		return err
	}
	s.logger.Info().Str("user_id", userID).Str("transaction_id", transactionID).Msg("transaction deleted")
	return nil
}
