package redis

import (
	"context"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ledgerdesk/backoffice/internal/core/domain"
	"github.com/ledgerdesk/backoffice/internal/infrastructure/db/document"
)

// testClient connects to REDIS_TEST_ADDR or skips.
func testClient(t *testing.T) *redis.Client {
	t.Helper()
	addr := os.Getenv("REDIS_TEST_ADDR")
	if addr == "" {
		t.Skip("REDIS_TEST_ADDR not set")
	}
	client, err := Connect(context.Background(), Config{Addr: addr, DB: 15})
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(func() {
		_ = client.FlushDB(context.Background()).Err()
		_ = client.Close()
	})
	return client
}

func TestLoginThrottle(t *testing.T) {
	client := testClient(t)
	throttle := NewLoginThrottle(client, 2, time.Minute)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		ok, err := throttle.Allow(ctx, "a@b.co")
		if err != nil || !ok {
			t.Fatalf("attempt %d should be allowed: %v %v", i, ok, err)
		}
		if err := throttle.Fail(ctx, "a@b.co"); err != nil {
			t.Fatalf("fail: %v", err)
		}
	}

	if ok, _ := throttle.Allow(ctx, "a@b.co"); ok {
		t.Fatal("expected throttle after max failures")
	}
	if ok, _ := throttle.Allow(ctx, "other@b.co"); !ok {
		t.Fatal("other emails must not be throttled")
	}

	ttl, err := client.TTL(ctx, throttle.key("a@b.co")).Result()
	if err != nil || ttl <= 0 || ttl > time.Minute {
		t.Fatalf("unexpected ttl %v (%v)", ttl, err)
	}

	if err := throttle.Reset(ctx, "a@b.co"); err != nil {
		t.Fatalf("reset: %v", err)
	}
	if ok, _ := throttle.Allow(ctx, "a@b.co"); !ok {
		t.Fatal("expected allow after reset")
	}
}

func TestLoginThrottle_KeyHidesEmail(t *testing.T) {
	th := NewLoginThrottle(nil, 0, 0)
	if th.maxAttempts != defaultMaxAttempts || th.window != defaultWindow {
		t.Fatalf("defaults not applied: %+v", th)
	}
	key := th.key("alice@example.com")
	if key == "login_fail:alice@example.com" || len(key) != len("login_fail:")+64 {
		t.Fatalf("unexpected key %q", key)
	}
}

func TestDocumentBackend_RoundTrip(t *testing.T) {
	client := testClient(t)
	backend := NewDocumentBackend(client, "backoffice:test")
	ctx := context.Background()

	data, err := backend.Load(ctx)
	if err != nil || data != nil {
		t.Fatalf("expected empty load, got %q (%v)", data, err)
	}

	if err := backend.Save(ctx, []byte(`{"users":[]}`)); err != nil {
		t.Fatalf("save: %v", err)
	}
	data, err = backend.Load(ctx)
	if err != nil || string(data) != `{"users":[]}` {
		t.Fatalf("unexpected load %q (%v)", data, err)
	}
}

func TestDocumentBackend_ModifyRetriesAfterForeignWrite(t *testing.T) {
	client := testClient(t)
	backend := NewDocumentBackend(client, "backoffice:test")
	ctx := context.Background()

	calls := 0
	err := backend.Modify(ctx, func(data []byte) ([]byte, error) {
		calls++
		if calls == 1 {
			if err := client.Set(ctx, "backoffice:test", "rival", 0).Err(); err != nil {
				t.Fatalf("rival write: %v", err)
			}
		}
		return append(data, '+'), nil
	})
	if err != nil {
		t.Fatalf("modify: %v", err)
	}
	if calls != 2 {
		t.Fatalf("expected one retry, got %d calls", calls)
	}
	if data, _ := backend.Load(ctx); string(data) != "rival+" {
		t.Fatalf("expected the retry to build on the rival write, got %q", data)
	}
}

func TestDocumentBackend_ReplicasKeepEveryWrite(t *testing.T) {
	client := testClient(t)
	ctx := context.Background()

	// Two stores stand in for two server replicas sharing one key.
	replicas := []*document.ClientRepository{
		document.NewClientRepository(document.NewStore(NewDocumentBackend(client, "backoffice:test"))),
		document.NewClientRepository(document.NewStore(NewDocumentBackend(client, "backoffice:test"))),
	}

	var wg sync.WaitGroup
	for r, repo := range replicas {
		for i := 0; i < 10; i++ {
			wg.Add(1)
			go func(repo *document.ClientRepository, id string) {
				defer wg.Done()
				now := time.Now().UTC()
				c := &domain.Client{ID: id, UserID: "u1", Name: id, Email: "e", Phone: "p", Status: domain.ClientActive, CreatedAt: now, UpdatedAt: now}
				if err := repo.Create(ctx, c); err != nil {
					t.Errorf("create %s: %v", id, err)
				}
			}(repo, fmt.Sprintf("r%d-%d", r, i))
		}
	}
	wg.Wait()

	n, err := replicas[0].CountByOwner(ctx, "u1")
	if err != nil || n != 20 {
		t.Fatalf("expected 20 clients, got %d (%v)", n, err)
	}
}
