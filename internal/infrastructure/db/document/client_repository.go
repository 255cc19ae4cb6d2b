package document

import (
	"context"

	"github.com/ledgerdesk/backoffice/internal/core/domain"
)

// ClientRepository implements ports.ClientRepository on a Store.
type ClientRepository struct {
	store *Store
}

func NewClientRepository(store *Store) *ClientRepository {
	return &ClientRepository{store: store}
}

func (r *ClientRepository) Create(ctx context.Context, c *domain.Client) error {
	return r.store.Update(ctx, func(doc *Document) error {
		doc.Clients = append(doc.Clients, *c)
		return nil
	})
}

// ListByOwner returns clients in storage order, which is creation order.
func (r *ClientRepository) ListByOwner(ctx context.Context, ownerID string) ([]domain.Client, error) {
	out := []domain.Client{}
	err := r.store.View(ctx, func(doc *Document) error {
		for _, c := range doc.Clients {
			if c.UserID == ownerID {
				out = append(out, c)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *ClientRepository) CountByOwner(ctx context.Context, ownerID string) (int, error) {
	n := 0
	err := r.store.View(ctx, func(doc *Document) error {
		for _, c := range doc.Clients {
			if c.UserID == ownerID {
				n++
			}
		}
		return nil
	})
	return n, err
}

func (r *ClientRepository) Update(ctx context.Context, ownerID, id string, mutate func(*domain.Client) error) (*domain.Client, error) {
	var updated domain.Client
	err := r.store.Update(ctx, func(doc *Document) error {
		i := indexOfClient(doc.Clients, ownerID, id)
		if i < 0 {
			return domain.ErrClientNotFound
		}

		c := doc.Clients[i]
		if err := mutate(&c); err != nil {
			return err
		}
		c.ID, c.UserID = doc.Clients[i].ID, doc.Clients[i].UserID

		doc.Clients[i] = c
		updated = c
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (r *ClientRepository) Delete(ctx context.Context, ownerID, id string) error {
	return r.store.Update(ctx, func(doc *Document) error {
		i := indexOfClient(doc.Clients, ownerID, id)
		if i < 0 {
			return domain.ErrClientNotFound
		}
		doc.Clients = append(doc.Clients[:i], doc.Clients[i+1:]...)
		return nil
	})
}

// indexOfClient returns the first match in storage order, or -1.
func indexOfClient(clients []domain.Client, ownerID, id string) int {
	for i, c := range clients {
		if c.ID == id && c.UserID == ownerID {
			return i
		}
	}
	return -1
}
