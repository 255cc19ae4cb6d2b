package document

import (
	"context"

	"github.com/ledgerdesk/backoffice/internal/core/domain"
)

// UserRepository implements ports.UserRepository on a Store.
type UserRepository struct {
	store *Store
}

func NewUserRepository(store *Store) *UserRepository {
	return &UserRepository{store: store}
}

// Create appends the user. Email uniqueness is an exact, case-sensitive match.
func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	return r.store.Update(ctx, func(doc *Document) error {
		for _, u := range doc.Users {
			if u.Email == user.Email {
				return domain.ErrEmailTaken
			}
		}
		doc.Users = append(doc.Users, userRecord{
			ID:           user.ID,
			Email:        user.Email,
			Name:         user.Name,
			PasswordHash: user.PasswordHash,
			CreatedAt:    user.CreatedAt,
		})
		return nil
	})
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.find(ctx, func(u userRecord) bool { return u.Email == email })
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	return r.find(ctx, func(u userRecord) bool { return u.ID == id })
}

func (r *UserRepository) find(ctx context.Context, match func(userRecord) bool) (*domain.User, error) {
	var found *domain.User
	err := r.store.View(ctx, func(doc *Document) error {
		for _, u := range doc.Users {
			if match(u) {
				found = u.toDomain()
				return nil
			}
		}
		return domain.ErrUserNotFound
	})
	if err != nil {
		return nil, err
	}
	return found, nil
}
