package ports

import (
	"context"

	"github.com/ledgerdesk/backoffice/internal/core/domain"
)

// UserRepository persists accounts. Create must reject a duplicate email with
// domain.ErrEmailTaken; lookups miss with domain.ErrUserNotFound.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
}
