package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/fbedev/diary-ai2/internal/server/models"
	"github.com/fbedev/diary-ai2/internal/server/repositories/messages"
	"github.com/fbedev/diary-ai2/internal/server/repositories/sessions"
	"github.com/fbedev/diary-ai2/internal/server/repositories/users"
)

// Stats aggregates the admin dashboard counters.
type Stats struct {
	TotalUsers     int   `json:"total_users"`
	ActiveSessions int   `json:"active_sessions"`
	StoredMessages int64 `json:"stored_messages"`
}

// AdminService provides read-only views over the store's key prefixes.
type AdminService struct {
	users    users.Repository
	sessions sessions.Repository
	messages messages.Repository
}

func NewAdminService(u users.Repository, s sessions.Repository, m messages.Repository) *AdminService {
	return &AdminService{users: u, sessions: s, messages: m}
}

func (s *AdminService) Dashboard(ctx context.Context) (*Stats, error) {

	usernames, err := s.users.ListUsernames(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing users: %w", err)
	}

	active, err := s.ActiveSessions(ctx)
	if err != nil {
		return nil, err
	}

	stored, err := s.messages.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("error counting messages: %w", err)
	}

	return &Stats{
		TotalUsers:     len(usernames),
		ActiveSessions: len(active),
		StoredMessages: stored,
	}, nil
}

// Usernames returns all registered usernames, sorted.
func (s *AdminService) Usernames(ctx context.Context) ([]string, error) {
	names, err := s.users.ListUsernames(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing users: %w", err)
	}
	return names, nil
}

// ActiveSessions returns non-expired sessions sorted by creation time
// descending. Records the store has not physically evicted yet are filtered
// by their expiry timestamp.
func (s *AdminService) ActiveSessions(ctx context.Context) ([]models.Session, error) {

	list, err := s.sessions.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing sessions: %w", err)
	}

	now := time.Now().UTC()
	active := make([]models.Session, 0, len(list))
	for _, session := range list {
		if now.After(session.ExpiresAt) {
			continue
		}
		active = append(active, session)
	}

	sort.Slice(active, func(i, j int) bool { return active[i].CreatedAt.After(active[j].CreatedAt) })
	return active, nil
}
