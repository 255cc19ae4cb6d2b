package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/ledgerdesk/backoffice/internal/core/domain"
	"github.com/ledgerdesk/backoffice/internal/core/ports"
)

type dashboardService struct {
	clients      ports.ClientRepository
	transactions ports.TransactionRepository
	log          zerolog.Logger
}

// NewDashboardService returns a DashboardService implementation.
func NewDashboardService(
	clients ports.ClientRepository,
	transactions ports.TransactionRepository,
	log zerolog.Logger,
) ports.DashboardService {
	return &dashboardService{
		clients:      clients,
		transactions: transactions,
		log:          log,
	}
}

// GetDashboard totals the caller's book. It never writes.
func (s *dashboardService) GetDashboard(ctx context.Context, userID string) (*domain.Dashboard, error) {
	count, err := s.clients.CountByOwner(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("dashboard: count clients: %w", err)
	}

	txs, err := s.transactions.ListByOwner(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("dashboard: list transactions: %w", err)
	}

	d := domain.Summarize(count, txs)

	s.log.Debug().
		Str("user_id", userID).
		Int("clients", d.TotalClients).
		Int("transactions", len(d.Transactions)).
		Msg("dashboard built")

	return &d, nil
}
