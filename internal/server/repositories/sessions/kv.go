package sessions

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/fbedev/diary-ai2/internal/common"
	"github.com/fbedev/diary-ai2/internal/kvstore"
	"github.com/fbedev/diary-ai2/internal/server/models"
)

const keyPrefix = "session:"

type KVRepository struct {
	store kvstore.Store
}

func NewKVRepository(store kvstore.Store) *KVRepository {
	return &KVRepository{store: store}
}

func sessionKey(token string) string {
	return keyPrefix + token
}

func (r *KVRepository) Create(ctx context.Context, session *models.Session, ttl time.Duration) error {

	key := sessionKey(session.Token)

	fields := map[string]string{
		"username":   session.Username,
		"created_at": session.CreatedAt.UTC().Format(time.RFC3339),
		"expires_at": session.ExpiresAt.UTC().Format(time.RFC3339),
	}
	if err := r.store.HSet(ctx, key, fields); err != nil {
		return fmt.Errorf("kv error: %w", err)
	}
	if err := r.store.Expire(ctx, key, ttl); err != nil {
		return fmt.Errorf("kv error: %w", err)
	}

	return nil
}

func (r *KVRepository) Find(ctx context.Context, token string) (*models.Session, error) {

	data, err := r.store.HGetAll(ctx, sessionKey(token))
	if err != nil {
		return nil, fmt.Errorf("kv error: %w", err)
	}
	if len(data) == 0 {
		return nil, common.ErrorNotFound
	}

	return sessionFromFields(token, data), nil
}

func (r *KVRepository) Delete(ctx context.Context, token string) error {
	if err := r.store.Delete(ctx, sessionKey(token)); err != nil {
		return fmt.Errorf("kv error: %w", err)
	}
	return nil
}

func (r *KVRepository) List(ctx context.Context) ([]models.Session, error) {

	keys, err := r.store.ScanKeys(ctx, keyPrefix+"*")
	if err != nil {
		return nil, fmt.Errorf("kv error: %w", err)
	}

	out := make([]models.Session, 0, len(keys))
	for _, key := range keys {
		data, err := r.store.HGetAll(ctx, key)
		if err != nil {
			return nil, fmt.Errorf("kv error: %w", err)
		}
		if len(data) == 0 {
			// evicted between scan and read
			continue
		}
		out = append(out, *sessionFromFields(strings.TrimPrefix(key, keyPrefix), data))
	}

	return out, nil
}

func sessionFromFields(token string, data map[string]string) *models.Session {
	s := &models.Session{
		Token:    token,
		Username: data["username"],
	}
	if t, err := time.Parse(time.RFC3339, data["created_at"]); err == nil {
		s.CreatedAt = t
	}
	if t, err := time.Parse(time.RFC3339, data["expires_at"]); err == nil {
		s.ExpiresAt = t
	}
	return s
}

var _ Repository = (*KVRepository)(nil)
