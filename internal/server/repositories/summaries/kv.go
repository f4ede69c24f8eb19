package summaries

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/fbedev/diary-ai2/internal/common"
	"github.com/fbedev/diary-ai2/internal/kvstore"
	"github.com/fbedev/diary-ai2/internal/logging"
	"github.com/fbedev/diary-ai2/internal/server/models"
)

const keyPrefix = "summary:"

type KVRepository struct {
	store  kvstore.Store
	logger logging.Logger
}

func NewKVRepository(store kvstore.Store, logger logging.Logger) *KVRepository {
	return &KVRepository{store: store, logger: logger.With("module", "summaries_repository")}
}

func summaryKey(username string, day string) string {
	return keyPrefix + username + ":" + day
}

func (r *KVRepository) Save(ctx context.Context, username string, summary *models.DiarySummary) error {

	raw, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("marshaling summary: %w", err)
	}

	if err := r.store.Set(ctx, summaryKey(username, summary.Date), string(raw), 0); err != nil {
		return fmt.Errorf("kv error: %w", err)
	}

	return nil
}

func (r *KVRepository) Get(ctx context.Context, username string, day string) (*models.DiarySummary, error) {

	raw, err := r.store.Get(ctx, summaryKey(username, day))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("kv error: %w", err)
	}

	var summary models.DiarySummary
	if err := json.Unmarshal([]byte(raw), &summary); err != nil {
		// malformed stored record is treated as absent
		r.logger.Warn(ctx, "discarding corrupt summary record", "username", username, "day", day, "error", err.Error())
		return nil, common.ErrorNotFound
	}

	return &summary, nil
}

func (r *KVRepository) List(ctx context.Context, username string) ([]models.DiarySummary, error) {

	raw, err := r.RawList(ctx, username)
	if err != nil {
		return nil, err
	}

	out := make([]models.DiarySummary, 0, len(raw))
	for _, entry := range raw {
		var summary models.DiarySummary
		if err := json.Unmarshal([]byte(entry), &summary); err != nil {
			r.logger.Warn(ctx, "discarding corrupt summary record", "username", username, "error", err.Error())
			continue
		}
		out = append(out, summary)
	}

	return out, nil
}

func (r *KVRepository) RawList(ctx context.Context, username string) ([]string, error) {

	keys, err := r.store.ScanKeys(ctx, keyPrefix+username+":*")
	if err != nil {
		return nil, fmt.Errorf("kv error: %w", err)
	}

	var out []string
	for _, key := range keys {
		value, err := r.store.Get(ctx, key)
		if err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				continue
			}
			return nil, fmt.Errorf("kv error: %w", err)
		}
		if value != "" {
			out = append(out, value)
		}
	}

	return out, nil
}

var _ Repository = (*KVRepository)(nil)
