package sessions

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fbedev/diary-ai2/internal/common"
	"github.com/fbedev/diary-ai2/internal/kvstore"
	"github.com/fbedev/diary-ai2/internal/server/models"
)

func TestCreateFindDelete(t *testing.T) {
	repo := NewKVRepository(kvstore.NewMemoryStore())
	ctx := context.Background()

	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	session := &models.Session{
		Token:     "tok-1",
		Username:  "ana",
		CreatedAt: now,
		ExpiresAt: now.Add(12 * time.Hour),
	}
	if err := repo.Create(ctx, session, time.Hour); err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := repo.Find(ctx, "tok-1")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if got.Username != "ana" {
		t.Fatalf("expected username ana, got %q", got.Username)
	}
	if !got.ExpiresAt.Equal(session.ExpiresAt) {
		t.Fatalf("expected expires_at %v, got %v", session.ExpiresAt, got.ExpiresAt)
	}

	if err := repo.Delete(ctx, "tok-1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := repo.Find(ctx, "tok-1"); !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("expected ErrorNotFound after delete, got %v", err)
	}
}

func TestDelete_AbsentIsIdempotent(t *testing.T) {
	repo := NewKVRepository(kvstore.NewMemoryStore())

	if err := repo.Delete(context.Background(), "never-issued"); err != nil {
		t.Fatalf("expected nil for absent token, got %v", err)
	}
}

func TestFind_PhysicalTTLEviction(t *testing.T) {
	repo := NewKVRepository(kvstore.NewMemoryStore())
	ctx := context.Background()

	now := time.Now().UTC()
	session := &models.Session{Token: "tok-ttl", Username: "ana", CreatedAt: now, ExpiresAt: now.Add(time.Hour)}
	if err := repo.Create(ctx, session, 10*time.Millisecond); err != nil {
		t.Fatalf("create: %v", err)
	}
	time.Sleep(20 * time.Millisecond)

	if _, err := repo.Find(ctx, "tok-ttl"); !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("expected ErrorNotFound after ttl, got %v", err)
	}
}

func TestList(t *testing.T) {
	repo := NewKVRepository(kvstore.NewMemoryStore())
	ctx := context.Background()

	now := time.Now().UTC()
	for _, tok := range []string{"t1", "t2"} {
		s := &models.Session{Token: tok, Username: "ana", CreatedAt: now, ExpiresAt: now.Add(time.Hour)}
		if err := repo.Create(ctx, s, time.Hour); err != nil {
			t.Fatalf("create %s: %v", tok, err)
		}
	}

	list, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 sessions, got %d", len(list))
	}
}
