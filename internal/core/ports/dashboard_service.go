package ports

import (
	"context"

	"github.com/ledgerdesk/backoffice/internal/core/domain"
)

type DashboardService interface {
	GetDashboard(ctx context.Context, userID string) (*domain.Dashboard, error)
}
