package messages

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/fbedev/diary-ai2/internal/kvstore"
	"github.com/fbedev/diary-ai2/internal/logging"
	"github.com/fbedev/diary-ai2/internal/server/models"
)

const keyPrefix = "chat:"

type KVRepository struct {
	store  kvstore.Store
	logger logging.Logger
}

func NewKVRepository(store kvstore.Store, logger logging.Logger) *KVRepository {
	return &KVRepository{store: store, logger: logger.With("module", "messages_repository")}
}

func chatKey(username string, day string) string {
	return keyPrefix + username + ":" + day
}

func (r *KVRepository) Append(ctx context.Context, username string, msg *models.ChatMessage) error {

	raw, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshaling message: %w", err)
	}

	if err := r.store.ListAppend(ctx, chatKey(username, msg.Day()), string(raw)); err != nil {
		return fmt.Errorf("kv error: %w", err)
	}

	return nil
}

func (r *KVRepository) ListByDay(ctx context.Context, username string, day string) ([]models.ChatMessage, error) {

	raw, err := r.store.ListRange(ctx, chatKey(username, day), 0, -1)
	if err != nil {
		return nil, fmt.Errorf("kv error: %w", err)
	}

	out := make([]models.ChatMessage, 0, len(raw))
	for _, entry := range raw {
		var msg models.ChatMessage
		if err := json.Unmarshal([]byte(entry), &msg); err != nil {
			// corrupt entries are tolerated, not fatal
			r.logger.Warn(ctx, "skipping corrupt message record", "username", username, "day", day, "error", err.Error())
			continue
		}
		out = append(out, msg)
	}

	return out, nil
}

func (r *KVRepository) Days(ctx context.Context, username string) ([]string, error) {

	prefix := keyPrefix + username + ":"
	keys, err := r.store.ScanKeys(ctx, prefix+"*")
	if err != nil {
		return nil, fmt.Errorf("kv error: %w", err)
	}

	days := make([]string, 0, len(keys))
	for _, key := range keys {
		days = append(days, strings.TrimPrefix(key, prefix))
	}
	sort.Strings(days)

	return days, nil
}

func (r *KVRepository) RawAll(ctx context.Context, username string) ([]string, error) {

	keys, err := r.store.ScanKeys(ctx, keyPrefix+username+":*")
	if err != nil {
		return nil, fmt.Errorf("kv error: %w", err)
	}

	var out []string
	for _, key := range keys {
		entries, err := r.store.ListRange(ctx, key, 0, -1)
		if err != nil {
			return nil, fmt.Errorf("kv error: %w", err)
		}
		for _, entry := range entries {
			if entry != "" {
				out = append(out, entry)
			}
		}
	}

	return out, nil
}

func (r *KVRepository) Count(ctx context.Context) (int64, error) {

	keys, err := r.store.ScanKeys(ctx, keyPrefix+"*")
	if err != nil {
		return 0, fmt.Errorf("kv error: %w", err)
	}

	var total int64
	for _, key := range keys {
		n, err := r.store.ListLen(ctx, key)
		if err != nil {
			return 0, fmt.Errorf("kv error: %w", err)
		}
		total += n
	}

	return total, nil
}

var _ Repository = (*KVRepository)(nil)
