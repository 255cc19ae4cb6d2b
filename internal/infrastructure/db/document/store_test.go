package document

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ledgerdesk/backoffice/internal/core/domain"
)

type failingBackend struct {
	loadErr, saveErr error
	saves            int
}

func (b *failingBackend) Load(context.Context) ([]byte, error) { return nil, b.loadErr }

func (b *failingBackend) Save(context.Context, []byte) error {
	b.saves++
	return b.saveErr
}

func newClient(owner, id, name string) *domain.Client {
	now := time.Now().UTC()
	return &domain.Client{
		ID: id, UserID: owner, Name: name, Email: id + "@example.com", Phone: "555",
		Status: domain.ClientActive, CreatedAt: now, UpdatedAt: now,
	}
}

func TestStore_ConcurrentUpdatesKeepEveryWrite(t *testing.T) {
	store := NewStore(NewMemoryBackend())
	repo := NewClientRepository(store)
	ctx := context.Background()

	if err := repo.Create(ctx, newClient("u1", "a", "A")); err != nil {
		t.Fatalf("create a: %v", err)
	}
	if err := repo.Create(ctx, newClient("u1", "b", "B")); err != nil {
		t.Fatalf("create b: %v", err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			_, _ = repo.Update(ctx, "u1", "a", func(c *domain.Client) error {
				c.SensitiveNotes = fmt.Sprintf("a-%d", i)
				return nil
			})
		}(i)
		go func(i int) {
			defer wg.Done()
			_, _ = repo.Update(ctx, "u1", "b", func(c *domain.Client) error {
				c.Phone = fmt.Sprintf("b-%d", i)
				return nil
			})
		}(i)
	}
	wg.Wait()

	list, err := repo.ListByOwner(ctx, "u1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 clients, got %d", len(list))
	}
	if list[0].SensitiveNotes == "" || list[1].Phone == "555" {
		t.Fatalf("a concurrent write was lost: %+v", list)
	}
}

func TestStore_UpdateErrorWritesNothing(t *testing.T) {
	backend := &failingBackend{}
	store := NewStore(backend)

	sentinel := errors.New("abort")
	err := store.Update(context.Background(), func(doc *Document) error {
		doc.Clients = append(doc.Clients, *newClient("u1", "x", "X"))
		return sentinel
	})
	if !errors.Is(err, sentinel) {
		t.Fatalf("expected callback error unchanged, got %v", err)
	}
	if backend.saves != 0 {
		t.Fatalf("expected no save, got %d", backend.saves)
	}
}

// racingBackend is an AtomicBackend whose first Modify attempt loses to a
// write from another process.
type racingBackend struct {
	MemoryBackend
	rival    []byte
	attempts int
}

func (b *racingBackend) Modify(ctx context.Context, fn func([]byte) ([]byte, error)) error {
	for {
		b.attempts++
		data, _ := b.Load(ctx)
		out, err := fn(data)
		if err != nil {
			return err
		}
		if b.rival != nil {
			_ = b.Save(ctx, b.rival)
			b.rival = nil
			continue
		}
		return b.Save(ctx, out)
	}
}

func TestStore_AtomicBackendRetriesOnConflict(t *testing.T) {
	ctx := context.Background()

	other := NewMemoryBackend()
	if err := NewClientRepository(NewStore(other)).Create(ctx, newClient("u1", "r", "Rival")); err != nil {
		t.Fatalf("seed rival: %v", err)
	}
	rival, _ := other.Load(ctx)

	backend := &racingBackend{rival: rival}
	repo := NewClientRepository(NewStore(backend))
	if err := repo.Create(ctx, newClient("u1", "a", "A")); err != nil {
		t.Fatalf("create: %v", err)
	}

	if backend.attempts != 2 {
		t.Fatalf("expected a retry after the conflict, got %d attempts", backend.attempts)
	}
	list, err := repo.ListByOwner(ctx, "u1")
	if err != nil || len(list) != 2 || list[0].ID != "r" || list[1].ID != "a" {
		t.Fatalf("both writers must survive, got %+v (%v)", list, err)
	}
}

func TestStore_AtomicBackendCallbackErrorWritesNothing(t *testing.T) {
	ctx := context.Background()
	backend := &racingBackend{}
	repo := NewClientRepository(NewStore(backend))

	_, err := repo.Update(ctx, "u1", "missing", func(*domain.Client) error { return nil })
	if !errors.Is(err, domain.ErrClientNotFound) {
		t.Fatalf("expected ErrClientNotFound unchanged, got %v", err)
	}
	if data, _ := backend.Load(ctx); data != nil {
		t.Fatalf("nothing should be saved, got %s", data)
	}
}

func TestStore_BackendFaultsAreStorageErrors(t *testing.T) {
	ctx := context.Background()

	loadFail := NewStore(&failingBackend{loadErr: errors.New("io")})
	if _, err := NewUserRepository(loadFail).FindByEmail(ctx, "a@b.co"); !errors.Is(err, domain.ErrStorage) {
		t.Fatalf("expected ErrStorage on load, got %v", err)
	}

	saveFail := NewStore(&failingBackend{saveErr: errors.New("quota exceeded")})
	err := NewClientRepository(saveFail).Create(ctx, newClient("u1", "a", "A"))
	var se *domain.StorageError
	if !errors.As(err, &se) || se.Op != "document.save" {
		t.Fatalf("expected document.save StorageError, got %v", err)
	}
}

func TestStore_CorruptDocument(t *testing.T) {
	backend := NewMemoryBackend()
	_ = backend.Save(context.Background(), []byte("{not json"))

	err := NewStore(backend).Ping(context.Background())
	var se *domain.StorageError
	if !errors.As(err, &se) || se.Op != "document.decode" {
		t.Fatalf("expected decode StorageError, got %v", err)
	}
}

func TestFileBackend_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "db.json")
	ctx := context.Background()

	first := NewStore(NewFileBackend(path))
	if err := NewUserRepository(first).Create(ctx, &domain.User{ID: "u1", Email: "a@b.co", PasswordHash: "hash"}); err != nil {
		t.Fatalf("create user: %v", err)
	}
	if err := NewTransactionRepository(first).Create(ctx, &domain.Transaction{
		ID: "t1", UserID: "u1", Type: domain.Revenue, Amount: decimal.RequireFromString("150.50"),
		Description: "Retainer", Date: domain.MustParseDate("2024-01-03"),
	}); err != nil {
		t.Fatalf("create transaction: %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read file: %v", err)
	}
	var shape map[string]json.RawMessage
	if err := json.Unmarshal(raw, &shape); err != nil {
		t.Fatalf("file is not json: %v", err)
	}
	for _, key := range []string{"users", "clients", "transactions"} {
		if _, ok := shape[key]; !ok {
			t.Fatalf("persisted document missing %q: %s", key, raw)
		}
	}

	// A fresh store over the same file sees the same data.
	second := NewStore(NewFileBackend(path))
	user, err := NewUserRepository(second).FindByEmail(ctx, "a@b.co")
	if err != nil || user.PasswordHash != "hash" {
		t.Fatalf("user did not survive reload: %+v (%v)", user, err)
	}
	txs, err := NewTransactionRepository(second).ListByOwner(ctx, "u1")
	if err != nil || len(txs) != 1 {
		t.Fatalf("transactions did not survive reload: %v (%v)", txs, err)
	}
	if !txs[0].Amount.Equal(decimal.RequireFromString("150.5")) || txs[0].Date.String() != "2024-01-03" {
		t.Fatalf("transaction changed on reload: %+v", txs[0])
	}

	matches, _ := filepath.Glob(filepath.Join(filepath.Dir(path), "*.tmp"))
	if len(matches) != 0 {
		t.Fatalf("temp files left behind: %v", matches)
	}
}

func TestFileBackend_MissingFileIsEmpty(t *testing.T) {
	data, err := NewFileBackend(filepath.Join(t.TempDir(), "absent.json")).Load(context.Background())
	if err != nil || data != nil {
		t.Fatalf("expected nil data and no error, got %q (%v)", data, err)
	}
}
