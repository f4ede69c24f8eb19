// Package services contains the diary server's business logic. This file
// implements AuthService: registration, login with opaque bearer tokens,
// logout, and token validation used to gate every other operation.
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/fbedev/diary-ai2/internal/common"
	"github.com/fbedev/diary-ai2/internal/logging"
	"github.com/fbedev/diary-ai2/internal/server/models"
	"github.com/fbedev/diary-ai2/internal/server/repositories/sessions"
	"github.com/fbedev/diary-ai2/internal/server/repositories/users"
)

const (
	minUsernameLen = 3
	maxUsernameLen = 64
	minPasswordLen = 6
	maxPasswordLen = 128

	// 128-bit tokens, hex encoded.
	tokenByteLen = 16
)

// dummyHash is compared against when the username is absent so login takes
// roughly the same time whether the username exists or not.
var dummyHash = []byte("$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy")

type AuthService struct {
	users      users.Repository
	sessions   sessions.Repository
	sessionTTL time.Duration
	logger     logging.Logger
}

func NewAuthService(u users.Repository, s sessions.Repository, sessionTTL time.Duration, logger logging.Logger) *AuthService {
	return &AuthService{
		users:      u,
		sessions:   s,
		sessionTTL: sessionTTL,
		logger:     logger.With("module", "auth_service"),
	}
}

// Register creates a credential record with a bcrypt hash of the password.
// Field-constraint violations fail with ErrInvalidInput before touching
// storage; a duplicate username fails with ErrAlreadyExists.
func (s *AuthService) Register(ctx context.Context, username string, password string) error {

	if len(username) < minUsernameLen || len(username) > maxUsernameLen {
		return fmt.Errorf("username must be %d-%d characters: %w", minUsernameLen, maxUsernameLen, common.ErrInvalidInput)
	}
	if len(password) < minPasswordLen || len(password) > maxPasswordLen {
		return fmt.Errorf("password must be %d-%d characters: %w", minPasswordLen, maxPasswordLen, common.ErrInvalidInput)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}

	user := &models.User{
		Username:     username,
		PasswordHash: string(hash),
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, common.ErrAlreadyExists) {
			return common.ErrAlreadyExists
		}
		return fmt.Errorf("error creating user: %w", err)
	}

	s.logger.Info(ctx, "user registered", "username", username)
	return nil
}

// Login verifies the credentials and, on success, issues a fresh session
// token. The failure is uniform: an unknown username and a wrong password
// both yield ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, username string, password string) (string, error) {

	user, err := s.users.Get(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			// burn comparable time before rejecting
			_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
			return "", common.ErrInvalidCredentials
		}
		return "", fmt.Errorf("error loading user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", common.ErrInvalidCredentials
	}

	token, err := common.MakeRandHexString(tokenByteLen)
	if err != nil {
		return "", fmt.Errorf("generating token: %w", err)
	}

	now := time.Now().UTC()
	session := &models.Session{
		Token:     token,
		Username:  username,
		CreatedAt: now,
		ExpiresAt: now.Add(s.sessionTTL),
	}
	if err := s.sessions.Create(ctx, session, s.sessionTTL); err != nil {
		return "", fmt.Errorf("error creating session: %w", err)
	}

	s.logger.Info(ctx, "session issued", "username", username)
	return token, nil
}

// Logout revokes the session. Revoking an absent token is not an error.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	if err := s.sessions.Delete(ctx, token); err != nil {
		return fmt.Errorf("error deleting session: %w", err)
	}
	return nil
}

// Validate resolves the username for a token. The expiry timestamp stored in
// the record is checked against the clock even though the backing key
// carries a TTL, so a not-yet-evicted record can never validate past expiry.
func (s *AuthService) Validate(ctx context.Context, token string) (string, error) {

	if token == "" {
		return "", common.ErrUnauthenticated
	}

	session, err := s.sessions.Find(ctx, token)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return "", common.ErrUnauthenticated
		}
		return "", fmt.Errorf("error loading session: %w", err)
	}

	if session.Username == "" {
		return "", common.ErrUnauthenticated
	}
	if time.Now().UTC().After(session.ExpiresAt) {
		return "", common.ErrUnauthenticated
	}

	return session.Username, nil
}

// Profile returns the credential record for an authenticated username.
func (s *AuthService) Profile(ctx context.Context, username string) (*models.User, error) {
	user, err := s.users.Get(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("error loading user: %w", err)
	}
	return user, nil
}

// SessionTTL reports the configured token lifetime.
func (s *AuthService) SessionTTL() time.Duration {
	return s.sessionTTL
}
