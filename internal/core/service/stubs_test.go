package service

import (
	"context"
	"sync"

	"github.com/ledgerdesk/backoffice/internal/core/domain"
)

// ---------------------------------------------------------------------------
// In-memory stub repositories. They mirror the ownership rules of the real
// stores: a foreign record looks exactly like a missing one.
// ---------------------------------------------------------------------------

type stubUserRepo struct {
	mu        sync.Mutex
	users     []domain.User
	createErr error
	findErr   error
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	for _, u := range r.users {
		if u.Email == user.Email {
			return domain.ErrEmailTaken
		}
	}
	r.users = append(r.users, *user)
	return nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	return r.find(func(u domain.User) bool { return u.Email == email })
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	return r.find(func(u domain.User) bool { return u.ID == id })
}

func (r *stubUserRepo) find(match func(domain.User) bool) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.findErr != nil {
		return nil, r.findErr
	}
	for _, u := range r.users {
		if match(u) {
			clone := u
			return &clone, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

type stubClientRepo struct {
	clients  []domain.Client
	err      error
	updates  int
	lastSave *domain.Client
}

func (r *stubClientRepo) Create(_ context.Context, c *domain.Client) error {
	if r.err != nil {
		return r.err
	}
	r.clients = append(r.clients, *c)
	return nil
}

func (r *stubClientRepo) ListByOwner(_ context.Context, ownerID string) ([]domain.Client, error) {
	if r.err != nil {
		return nil, r.err
	}
	var out []domain.Client
	for _, c := range r.clients {
		if c.UserID == ownerID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *stubClientRepo) CountByOwner(ctx context.Context, ownerID string) (int, error) {
	list, err := r.ListByOwner(ctx, ownerID)
	return len(list), err
}

func (r *stubClientRepo) Update(_ context.Context, ownerID, id string, mutate func(*domain.Client) error) (*domain.Client, error) {
	if r.err != nil {
		return nil, r.err
	}
	for i := range r.clients {
		if r.clients[i].ID != id || r.clients[i].UserID != ownerID {
			continue
		}
		next := r.clients[i]
		if err := mutate(&next); err != nil {
			return nil, err
		}
		next.ID, next.UserID = r.clients[i].ID, r.clients[i].UserID
		r.clients[i] = next
		r.updates++
		r.lastSave = &next
		out := next
		return &out, nil
	}
	return nil, domain.ErrClientNotFound
}

func (r *stubClientRepo) Delete(_ context.Context, ownerID, id string) error {
	if r.err != nil {
		return r.err
	}
	for i, c := range r.clients {
		if c.ID == id && c.UserID == ownerID {
			r.clients = append(r.clients[:i], r.clients[i+1:]...)
			return nil
		}
	}
	return domain.ErrClientNotFound
}

type stubTransactionRepo struct {
	txs []domain.Transaction
	err error
}

func (r *stubTransactionRepo) Create(_ context.Context, t *domain.Transaction) error {
	if r.err != nil {
		return r.err
	}
	r.txs = append(r.txs, *t)
	return nil
}

func (r *stubTransactionRepo) ListByOwner(_ context.Context, ownerID string) ([]domain.Transaction, error) {
	if r.err != nil {
		return nil, r.err
	}
	var out []domain.Transaction
	for _, t := range r.txs {
		if t.UserID == ownerID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (r *stubTransactionRepo) Update(_ context.Context, ownerID, id string, mutate func(*domain.Transaction) error) (*domain.Transaction, error) {
	if r.err != nil {
		return nil, r.err
	}
	for i := range r.txs {
		if r.txs[i].ID != id || r.txs[i].UserID != ownerID {
			continue
		}
		next := r.txs[i]
		if err := mutate(&next); err != nil {
			return nil, err
		}
		next.ID, next.UserID = r.txs[i].ID, r.txs[i].UserID
		r.txs[i] = next
		out := next
		return &out, nil
	}
	return nil, domain.ErrTransactionNotFound
}

func (r *stubTransactionRepo) Delete(_ context.Context, ownerID, id string) error {
	if r.err != nil {
		return r.err
	}
	for i, t := range r.txs {
		if t.ID == id && t.UserID == ownerID {
			r.txs = append(r.txs[:i], r.txs[i+1:]...)
			return nil
		}
	}
	return domain.ErrTransactionNotFound
}

// stubThrottle allows up to max failures per email.
type stubThrottle struct {
	max      int
	failures map[string]int
	resets   int
	allowErr error
}

func newStubThrottle(max int) *stubThrottle {
	return &stubThrottle{max: max, failures: make(map[string]int)}
}

func (s *stubThrottle) Allow(_ context.Context, email string) (bool, error) {
	if s.allowErr != nil {
		return false, s.allowErr
	}
	return s.failures[email] < s.max, nil
}

func (s *stubThrottle) Fail(_ context.Context, email string) error {
	s.failures[email]++
	return nil
}

func (s *stubThrottle) Reset(_ context.Context, email string) error {
	delete(s.failures, email)
	s.resets++
	return nil
}
