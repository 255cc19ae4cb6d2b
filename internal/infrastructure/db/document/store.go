// Package document implements the record store as one JSON document holding
// every collection, guarded by a single write lock. A Backend decides where
// the bytes live (process memory, a file, a Redis key).
package document

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/ledgerdesk/backoffice/internal/core/domain"
)

// Backend loads and saves the raw document. Load returns nil data when nothing
// has been saved yet. Save must replace the previous document as a whole.
type Backend interface {
	Load(ctx context.Context) ([]byte, error)
	Save(ctx context.Context, data []byte) error
}

// AtomicBackend is a Backend shared between processes. Modify loads the
// document, passes it to fn and saves the result only if nobody else wrote in
// between, retrying fn on conflict. An error from fn aborts without saving.
type AtomicBackend interface {
	Backend
	Modify(ctx context.Context, fn func(data []byte) ([]byte, error)) error
}

// Document is the persisted shape: {"users": [...], "clients": [...], "transactions": [...]}.
type Document struct {
	Users        []userRecord         `json:"users"`
	Clients      []domain.Client      `json:"clients"`
	Transactions []domain.Transaction `json:"transactions"`
}

// userRecord keeps the password hash, which domain.User hides from JSON.
type userRecord struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name,omitempty"`
	PasswordHash string    `json:"password_hash"`
	CreatedAt    time.Time `json:"created_at"`
}

func (u userRecord) toDomain() *domain.User {
	return &domain.User{
		ID:           u.ID,
		Email:        u.Email,
		Name:         u.Name,
		PasswordHash: u.PasswordHash,
		CreatedAt:    u.CreatedAt,
	}
}

// Store serializes every read-modify-write on the document.
type Store struct {
	mu      sync.Mutex
	backend Backend
}

func NewStore(backend Backend) *Store {
	return &Store{backend: backend}
}

// View runs fn on a freshly loaded document. Changes made by fn are discarded.
func (s *Store) View(ctx context.Context, fn func(*Document) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load(ctx)
	if err != nil {
		return err
	}
	return fn(doc)
}

// Update loads the document, runs fn and saves the result. When fn fails
// nothing is saved and its error is returned unchanged. On an AtomicBackend fn
// may run more than once, each time on a freshly loaded document.
func (s *Store) Update(ctx context.Context, fn func(*Document) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if ab, ok := s.backend.(AtomicBackend); ok {
		return s.modify(ctx, ab, fn)
	}

	doc, err := s.load(ctx)
	if err != nil {
		return err
	}
	if err := fn(doc); err != nil {
		return err
	}

	data, err := json.Marshal(doc)
	if err != nil {
		return domain.NewStorageError("document.encode", err)
	}
	if err := s.backend.Save(ctx, data); err != nil {
		return domain.NewStorageError("document.save", err)
	}
	return nil
}

// Ping checks that the document can be loaded and decoded.
func (s *Store) Ping(ctx context.Context) error {
	return s.View(ctx, func(*Document) error { return nil })
}

func (s *Store) modify(ctx context.Context, ab AtomicBackend, fn func(*Document) error) error {
	var fnErr error
	err := ab.Modify(ctx, func(data []byte) ([]byte, error) {
		fnErr = nil
		doc, err := decode(data)
		if err == nil {
			err = fn(doc)
		}
		if err != nil {
			fnErr = err
			return nil, err
		}

		out, err := json.Marshal(doc)
		if err != nil {
			fnErr = domain.NewStorageError("document.encode", err)
			return nil, fnErr
		}
		return out, nil
	})
	if fnErr != nil {
		return fnErr
	}
	if err != nil {
		return domain.NewStorageError("document.modify", err)
	}
	return nil
}

func (s *Store) load(ctx context.Context) (*Document, error) {
	data, err := s.backend.Load(ctx)
	if err != nil {
		return nil, domain.NewStorageError("document.load", err)
	}
	return decode(data)
}

func decode(data []byte) (*Document, error) {
	doc := &Document{}
	if len(data) > 0 {
		if err := json.Unmarshal(data, doc); err != nil {
			return nil, domain.NewStorageError("document.decode", fmt.Errorf("corrupt document: %w", err))
		}
	}
	return doc, nil
}
