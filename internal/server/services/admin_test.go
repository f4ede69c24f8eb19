package services

import (
	"context"
	"testing"
	"time"

	"github.com/fbedev/diary-ai2/internal/server/models"
)

func TestDashboard_Counts(t *testing.T) {
	f := newFixture(t)
	auth := f.authService()
	diary := f.diaryService(&fakeGenerator{})
	admin := NewAdminService(f.users, f.sessions, f.messages)
	ctx := context.Background()

	for _, name := range []string{"ana", "bob"} {
		if err := auth.Register(ctx, name, "secret1"); err != nil {
			t.Fatalf("register %s: %v", name, err)
		}
	}
	if _, err := auth.Login(ctx, "ana", "secret1"); err != nil {
		t.Fatalf("login: %v", err)
	}
	if _, err := diary.AddMessage(ctx, "ana", models.RoleUser, "hello"); err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, err := diary.AddMessage(ctx, "bob", models.RoleUser, "hi"); err != nil {
		t.Fatalf("add: %v", err)
	}

	stats, err := admin.Dashboard(ctx)
	if err != nil {
		t.Fatalf("dashboard: %v", err)
	}
	if stats.TotalUsers != 2 {
		t.Fatalf("expected 2 users, got %d", stats.TotalUsers)
	}
	if stats.ActiveSessions != 1 {
		t.Fatalf("expected 1 active session, got %d", stats.ActiveSessions)
	}
	if stats.StoredMessages != 2 {
		t.Fatalf("expected 2 stored messages, got %d", stats.StoredMessages)
	}
}

func TestActiveSessions_FiltersExpiredAndSorts(t *testing.T) {
	f := newFixture(t)
	admin := NewAdminService(f.users, f.sessions, f.messages)
	ctx := context.Background()

	now := time.Now().UTC()
	sessions := []*models.Session{
		{Token: "old", Username: "ana", CreatedAt: now.Add(-2 * time.Hour), ExpiresAt: now.Add(10 * time.Hour)},
		{Token: "new", Username: "ana", CreatedAt: now.Add(-time.Minute), ExpiresAt: now.Add(11 * time.Hour)},
		{Token: "dead", Username: "bob", CreatedAt: now.Add(-13 * time.Hour), ExpiresAt: now.Add(-time.Hour)},
	}
	for _, s := range sessions {
		if err := f.sessions.Create(ctx, s, time.Hour); err != nil {
			t.Fatalf("create session %s: %v", s.Token, err)
		}
	}

	active, err := admin.ActiveSessions(ctx)
	if err != nil {
		t.Fatalf("active sessions: %v", err)
	}
	if len(active) != 2 {
		t.Fatalf("expected 2 active sessions, got %d", len(active))
	}
	if active[0].Token != "new" || active[1].Token != "old" {
		t.Fatalf("expected created_at descending order, got %s then %s", active[0].Token, active[1].Token)
	}
}

func TestUsernames(t *testing.T) {
	f := newFixture(t)
	auth := f.authService()
	admin := NewAdminService(f.users, f.sessions, f.messages)
	ctx := context.Background()

	for _, name := range []string{"zoe", "ana"} {
		if err := auth.Register(ctx, name, "secret1"); err != nil {
			t.Fatalf("register: %v", err)
		}
	}

	names, err := admin.Usernames(ctx)
	if err != nil {
		t.Fatalf("usernames: %v", err)
	}
	if len(names) != 2 || names[0] != "ana" || names[1] != "zoe" {
		t.Fatalf("expected sorted usernames, got %v", names)
	}
}
