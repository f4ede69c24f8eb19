package users

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/fbedev/diary-ai2/internal/common"
	"github.com/fbedev/diary-ai2/internal/kvstore"
	"github.com/fbedev/diary-ai2/internal/server/models"
)

const keyPrefix = "user:"

type KVRepository struct {
	store kvstore.Store
}

func NewKVRepository(store kvstore.Store) *KVRepository {
	return &KVRepository{store: store}
}

func userKey(username string) string {
	return keyPrefix + username
}

func (r *KVRepository) Create(ctx context.Context, user *models.User) error {

	key := userKey(user.Username)

	exists, err := r.store.Exists(ctx, key)
	if err != nil {
		return fmt.Errorf("kv error: %w", err)
	}
	if exists {
		return common.ErrAlreadyExists
	}

	fields := map[string]string{
		"password":   user.PasswordHash,
		"created_at": user.CreatedAt.UTC().Format(time.RFC3339),
	}
	if err := r.store.HSet(ctx, key, fields); err != nil {
		return fmt.Errorf("kv error: %w", err)
	}

	return nil
}

func (r *KVRepository) Get(ctx context.Context, username string) (*models.User, error) {

	data, err := r.store.HGetAll(ctx, userKey(username))
	if err != nil {
		return nil, fmt.Errorf("kv error: %w", err)
	}
	if len(data) == 0 {
		return nil, common.ErrorNotFound
	}

	user := &models.User{
		Username:     username,
		PasswordHash: data["password"],
	}
	if createdAt, err := time.Parse(time.RFC3339, data["created_at"]); err == nil {
		user.CreatedAt = createdAt
	}

	return user, nil
}

func (r *KVRepository) Exists(ctx context.Context, username string) (bool, error) {
	exists, err := r.store.Exists(ctx, userKey(username))
	if err != nil {
		return false, fmt.Errorf("kv error: %w", err)
	}
	return exists, nil
}

func (r *KVRepository) ListUsernames(ctx context.Context) ([]string, error) {

	keys, err := r.store.ScanKeys(ctx, keyPrefix+"*")
	if err != nil {
		return nil, fmt.Errorf("kv error: %w", err)
	}

	usernames := make([]string, 0, len(keys))
	for _, key := range keys {
		usernames = append(usernames, strings.TrimPrefix(key, keyPrefix))
	}
	sort.Strings(usernames)

	return usernames, nil
}

var _ Repository = (*KVRepository)(nil)
