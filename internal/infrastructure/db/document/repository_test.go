package document

import (
	"context"
	"errors"
	"testing"

	"github.com/ledgerdesk/backoffice/internal/core/domain"
)

func TestUserRepository_UniqueEmail(t *testing.T) {
	repo := NewUserRepository(NewStore(NewMemoryBackend()))
	ctx := context.Background()

	if err := repo.Create(ctx, &domain.User{ID: "1", Email: "a@b.co"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := repo.Create(ctx, &domain.User{ID: "2", Email: "a@b.co"}); !errors.Is(err, domain.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
	if err := repo.Create(ctx, &domain.User{ID: "3", Email: "A@b.co"}); err != nil {
		t.Fatalf("case-different email should be accepted: %v", err)
	}
	if _, err := repo.FindByID(ctx, "missing"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestClientRepository_OwnershipAndOrder(t *testing.T) {
	repo := NewClientRepository(NewStore(NewMemoryBackend()))
	ctx := context.Background()

	for _, c := range []*domain.Client{
		newClient("u1", "c1", "First"),
		newClient("u2", "c2", "Foreign"),
		newClient("u1", "c3", "Second"),
	} {
		if err := repo.Create(ctx, c); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	list, _ := repo.ListByOwner(ctx, "u1")
	if len(list) != 2 || list[0].ID != "c1" || list[1].ID != "c3" {
		t.Fatalf("expected [c1 c3] in creation order, got %+v", list)
	}
	if n, _ := repo.CountByOwner(ctx, "u1"); n != 2 {
		t.Fatalf("expected count 2, got %d", n)
	}

	_, err := repo.Update(ctx, "u1", "c2", func(c *domain.Client) error {
		c.Name = "Hijacked"
		return nil
	})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for foreign update, got %v", err)
	}
	if err := repo.Delete(ctx, "u1", "c2"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for foreign delete, got %v", err)
	}

	foreign, _ := repo.ListByOwner(ctx, "u2")
	if len(foreign) != 1 || foreign[0].Name != "Foreign" {
		t.Fatalf("foreign record changed: %+v", foreign)
	}
}

func TestClientRepository_UpdateCannotChangeIdentity(t *testing.T) {
	repo := NewClientRepository(NewStore(NewMemoryBackend()))
	ctx := context.Background()
	_ = repo.Create(ctx, newClient("u1", "c1", "Acme"))

	updated, err := repo.Update(ctx, "u1", "c1", func(c *domain.Client) error {
		c.ID = "other"
		c.UserID = "u2"
		c.Name = "Acme Inc"
		return nil
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.ID != "c1" || updated.UserID != "u1" || updated.Name != "Acme Inc" {
		t.Fatalf("unexpected result: %+v", updated)
	}
}

func TestTransactionRepository_DeleteTwice(t *testing.T) {
	repo := NewTransactionRepository(NewStore(NewMemoryBackend()))
	ctx := context.Background()
	_ = repo.Create(ctx, &domain.Transaction{ID: "t1", UserID: "u1"})

	if err := repo.Delete(ctx, "u1", "t1"); err != nil {
		t.Fatalf("first delete: %v", err)
	}
	if err := repo.Delete(ctx, "u1", "t1"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestIndexOf_FirstMatchWins(t *testing.T) {
	clients := []domain.Client{
		{ID: "dup", UserID: "u1", Name: "first"},
		{ID: "dup", UserID: "u1", Name: "second"},
	}
	if i := indexOfClient(clients, "u1", "dup"); i != 0 {
		t.Fatalf("expected first match, got %d", i)
	}
	if i := indexOfClient(clients, "u2", "dup"); i != -1 {
		t.Fatalf("expected -1 for foreign owner, got %d", i)
	}
}
