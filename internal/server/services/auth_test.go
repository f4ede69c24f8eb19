package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/fbedev/diary-ai2/internal/common"
	"github.com/fbedev/diary-ai2/internal/server/models"
)

func TestRegister_ThenDuplicateFails(t *testing.T) {
	f := newFixture(t)
	svc := f.authService()
	ctx := context.Background()

	if err := svc.Register(ctx, "ana", "secret1"); err != nil {
		t.Fatalf("register: %v", err)
	}

	err := svc.Register(ctx, "ana", "other12")
	requireErrorIs(t, err, common.ErrAlreadyExists)
}

func TestRegister_InputValidation(t *testing.T) {
	f := newFixture(t)
	svc := f.authService()
	ctx := context.Background()

	tests := []struct {
		name     string
		username string
		password string
	}{
		{"username too short", "ab", "secret1"},
		{"username too long", strings.Repeat("a", 65), "secret1"},
		{"password too short", "ana", "12345"},
		{"password too long", "ana", strings.Repeat("p", 129)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := svc.Register(ctx, tc.username, tc.password)
			requireErrorIs(t, err, common.ErrInvalidInput)
		})
	}

	// nothing was written
	exists, err := f.users.Exists(ctx, "ab")
	if err != nil {
		t.Fatalf("exists: %v", err)
	}
	if exists {
		t.Fatalf("invalid registration must not touch storage")
	}
}

func TestLogin_ValidateLogoutLifecycle(t *testing.T) {
	f := newFixture(t)
	svc := f.authService()
	ctx := context.Background()

	if err := svc.Register(ctx, "ana", "secret1"); err != nil {
		t.Fatalf("register: %v", err)
	}

	token, err := svc.Login(ctx, "ana", "secret1")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if len(token) != 32 {
		t.Fatalf("expected 32-char hex token, got %q", token)
	}

	username, err := svc.Validate(ctx, token)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if username != "ana" {
		t.Fatalf("expected username ana, got %q", username)
	}

	if err := svc.Logout(ctx, token); err != nil {
		t.Fatalf("logout: %v", err)
	}
	_, err = svc.Validate(ctx, token)
	requireErrorIs(t, err, common.ErrUnauthenticated)
}

func TestLogin_UniformFailure(t *testing.T) {
	f := newFixture(t)
	svc := f.authService()
	ctx := context.Background()

	if err := svc.Register(ctx, "ana", "secret1"); err != nil {
		t.Fatalf("register: %v", err)
	}

	_, err := svc.Login(ctx, "ana", "wrongpass")
	requireErrorIs(t, err, common.ErrInvalidCredentials)

	_, err = svc.Login(ctx, "ghost", "secret1")
	requireErrorIs(t, err, common.ErrInvalidCredentials)
}

func TestLogin_IssuesDistinctTokens(t *testing.T) {
	f := newFixture(t)
	svc := f.authService()
	ctx := context.Background()

	if err := svc.Register(ctx, "ana", "secret1"); err != nil {
		t.Fatalf("register: %v", err)
	}

	t1, err := svc.Login(ctx, "ana", "secret1")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	t2, err := svc.Login(ctx, "ana", "secret1")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if t1 == t2 {
		t.Fatalf("two logins must issue distinct tokens")
	}

	// both remain valid
	if _, err := svc.Validate(ctx, t1); err != nil {
		t.Fatalf("validate t1: %v", err)
	}
	if _, err := svc.Validate(ctx, t2); err != nil {
		t.Fatalf("validate t2: %v", err)
	}
}

func TestValidate_ExpiryRegardlessOfEviction(t *testing.T) {
	f := newFixture(t)
	svc := f.authService()
	ctx := context.Background()

	now := time.Now().UTC()

	// not yet expired
	fresh := &models.Session{Token: "fresh", Username: "ana", CreatedAt: now, ExpiresAt: now.Add(time.Second)}
	if err := f.sessions.Create(ctx, fresh, time.Hour); err != nil {
		t.Fatalf("create session: %v", err)
	}
	if _, err := svc.Validate(ctx, "fresh"); err != nil {
		t.Fatalf("expected valid session, got %v", err)
	}

	// expired by timestamp but not physically evicted (store ttl far in the future)
	stale := &models.Session{Token: "stale", Username: "ana", CreatedAt: now.Add(-13 * time.Hour), ExpiresAt: now.Add(-time.Second)}
	if err := f.sessions.Create(ctx, stale, time.Hour); err != nil {
		t.Fatalf("create session: %v", err)
	}
	_, err := svc.Validate(ctx, "stale")
	requireErrorIs(t, err, common.ErrUnauthenticated)
}

func TestValidate_MissingUsernameField(t *testing.T) {
	f := newFixture(t)
	svc := f.authService()
	ctx := context.Background()

	// record exists but carries no username field
	if err := f.store.HSet(ctx, "session:broken", map[string]string{"created_at": time.Now().UTC().Format(time.RFC3339)}); err != nil {
		t.Fatalf("hset: %v", err)
	}

	_, err := svc.Validate(ctx, "broken")
	requireErrorIs(t, err, common.ErrUnauthenticated)
}

func TestValidate_EmptyToken(t *testing.T) {
	f := newFixture(t)
	svc := f.authService()

	_, err := svc.Validate(context.Background(), "")
	requireErrorIs(t, err, common.ErrUnauthenticated)
}

func TestProfile(t *testing.T) {
	f := newFixture(t)
	svc := f.authService()
	ctx := context.Background()

	if err := svc.Register(ctx, "ana", "secret1"); err != nil {
		t.Fatalf("register: %v", err)
	}

	user, err := svc.Profile(ctx, "ana")
	if err != nil {
		t.Fatalf("profile: %v", err)
	}
	if user.Username != "ana" {
		t.Fatalf("unexpected user: %+v", user)
	}
	if user.CreatedAt.IsZero() {
		t.Fatalf("expected created_at to be set")
	}

	_, err = svc.Profile(ctx, "ghost")
	requireErrorIs(t, err, common.ErrorNotFound)
}
