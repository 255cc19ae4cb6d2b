package relational

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/ledgerdesk/backoffice/internal/core/domain"
)

// openTestDB returns a private in-memory SQLite database.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)

	db, err := Open(context.Background(), Config{Driver: DriverSQLite, DSN: dsn}, zerolog.Nop())
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = Close(db) })
	return db
}

func testClient(owner, id, name string) *domain.Client {
	now := time.Now().UTC().Truncate(time.Millisecond)
	return &domain.Client{
		ID: id, UserID: owner, Name: name, Email: id + "@example.com", Phone: "555",
		Status: domain.ClientActive, CreatedAt: now, UpdatedAt: now,
	}
}

func testTransaction(owner, id string, amount, date string) *domain.Transaction {
	return &domain.Transaction{
		ID: id, UserID: owner, Type: domain.Revenue,
		Amount:      decimal.RequireFromString(amount),
		Description: id,
		Date:        domain.MustParseDate(date),
	}
}

func TestOpen_UnknownDriver(t *testing.T) {
	if _, err := Open(context.Background(), Config{Driver: "oracle"}, zerolog.Nop()); err == nil {
		t.Fatal("expected error for unknown driver")
	}
}

func TestUserRepository(t *testing.T) {
	repo := NewUserRepository(openTestDB(t))
	ctx := context.Background()

	user := &domain.User{ID: "u1", Email: "a@b.co", Name: "Alice", PasswordHash: "hash", CreatedAt: time.Now().UTC()}
	if err := repo.Create(ctx, user); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := repo.Create(ctx, &domain.User{ID: "u2", Email: "a@b.co", PasswordHash: "x"}); !errors.Is(err, domain.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}

	got, err := repo.FindByEmail(ctx, "a@b.co")
	if err != nil {
		t.Fatalf("find by email: %v", err)
	}
	if got.ID != "u1" || got.PasswordHash != "hash" || got.Name != "Alice" {
		t.Fatalf("unexpected user: %+v", got)
	}
	if _, err := repo.FindByID(ctx, "nope"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestClientRepository_CRUD(t *testing.T) {
	repo := NewClientRepository(openTestDB(t))
	ctx := context.Background()

	for _, c := range []*domain.Client{
		testClient("u1", "c1", "First"),
		testClient("u2", "c2", "Foreign"),
		testClient("u1", "c3", "Second"),
	} {
		if err := repo.Create(ctx, c); err != nil {
			t.Fatalf("create %s: %v", c.ID, err)
		}
	}

	list, err := repo.ListByOwner(ctx, "u1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 || list[0].ID != "c1" || list[1].ID != "c3" {
		t.Fatalf("expected [c1 c3], got %+v", list)
	}
	if n, _ := repo.CountByOwner(ctx, "u1"); n != 2 {
		t.Fatalf("expected count 2, got %d", n)
	}

	updated, err := repo.Update(ctx, "u1", "c1", func(c *domain.Client) error {
		c.Status = domain.ClientInactive
		c.UserID = "u2"
		return nil
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Status != domain.ClientInactive || updated.UserID != "u1" || updated.Name != "First" {
		t.Fatalf("unexpected update result: %+v", updated)
	}

	// Order survives updates.
	list, _ = repo.ListByOwner(ctx, "u1")
	if list[0].ID != "c1" || list[0].Status != domain.ClientInactive {
		t.Fatalf("unexpected list after update: %+v", list)
	}

	if _, err := repo.Update(ctx, "u1", "c2", func(*domain.Client) error { return nil }); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for foreign update, got %v", err)
	}
	if err := repo.Delete(ctx, "u1", "c2"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for foreign delete, got %v", err)
	}

	if err := repo.Delete(ctx, "u1", "c3"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := repo.Delete(ctx, "u1", "c3"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestClientRepository_MutateErrorRollsBack(t *testing.T) {
	repo := NewClientRepository(openTestDB(t))
	ctx := context.Background()
	_ = repo.Create(ctx, testClient("u1", "c1", "Acme"))

	sentinel := errors.New("abort")
	_, err := repo.Update(ctx, "u1", "c1", func(c *domain.Client) error {
		c.Name = "Changed"
		return sentinel
	})
	if !errors.Is(err, sentinel) {
		t.Fatalf("expected sentinel, got %v", err)
	}

	list, _ := repo.ListByOwner(ctx, "u1")
	if list[0].Name != "Acme" {
		t.Fatalf("failed mutation was persisted: %+v", list[0])
	}
}

func TestTransactionRepository_DecimalAndDate(t *testing.T) {
	repo := NewTransactionRepository(openTestDB(t))
	ctx := context.Background()

	if err := repo.Create(ctx, testTransaction("u1", "t1", "1250.75", "2024-01-03")); err != nil {
		t.Fatalf("create: %v", err)
	}

	list, err := repo.ListByOwner(ctx, "u1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("expected 1 transaction, got %d", len(list))
	}
	got := list[0]
	if !got.Amount.Equal(decimal.RequireFromString("1250.75")) {
		t.Fatalf("amount changed: %s", got.Amount)
	}
	if got.Date.String() != "2024-01-03" {
		t.Fatalf("date changed: %s", got.Date)
	}

	date := domain.MustParseDate("2024-02-29")
	updated, err := repo.Update(ctx, "u1", "t1", func(tx *domain.Transaction) error {
		tx.Date = date
		return nil
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Date.String() != "2024-02-29" || !updated.Amount.Equal(got.Amount) {
		t.Fatalf("unexpected update result: %+v", updated)
	}

	if err := repo.Delete(ctx, "u2", "t1"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for foreign delete, got %v", err)
	}
}

func TestClientRepository_ConcurrentUpdates(t *testing.T) {
	repo := NewClientRepository(openTestDB(t))
	ctx := context.Background()
	_ = repo.Create(ctx, testClient("u1", "a", "A"))
	_ = repo.Create(ctx, testClient("u1", "b", "B"))

	var wg sync.WaitGroup
	for _, id := range []string{"a", "b"} {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			if _, err := repo.Update(ctx, "u1", id, func(c *domain.Client) error {
				c.SensitiveNotes = "touched-" + id
				return nil
			}); err != nil {
				t.Errorf("update %s: %v", id, err)
			}
		}(id)
	}
	wg.Wait()

	list, _ := repo.ListByOwner(ctx, "u1")
	for _, c := range list {
		if c.SensitiveNotes != "touched-"+c.ID {
			t.Fatalf("lost write on %s: %+v", c.ID, c)
		}
	}
}

func TestTransactionRepository_ThreeDecimalAmount(t *testing.T) {
	repo := NewTransactionRepository(openTestDB(t))
	ctx := context.Background()

	if err := repo.Create(ctx, testTransaction("u1", "t1", "1.125", "2024-01-03")); err != nil {
		t.Fatalf("create: %v", err)
	}
	list, err := repo.ListByOwner(ctx, "u1")
	if err != nil || len(list) != 1 || !list[0].Amount.Equal(decimal.RequireFromString("1.125")) {
		t.Fatalf("three-decimal amount not preserved: %+v (%v)", list, err)
	}
}
