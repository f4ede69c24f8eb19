package messages

import (
	"context"

	"github.com/fbedev/diary-ai2/internal/server/models"
)

type Repository interface {
	// Append adds a message to the bucket derived from its own timestamp.
	Append(ctx context.Context, username string, msg *models.ChatMessage) error

	// ListByDay returns the day's messages in insertion order. A missing
	// bucket yields an empty slice; entries that fail to parse are skipped.
	ListByDay(ctx context.Context, username string, day string) ([]models.ChatMessage, error)

	// Days enumerates the calendar days that have at least one message.
	Days(ctx context.Context, username string) ([]string, error)

	// RawAll returns every stored message entry for the user as raw JSON,
	// bucket by bucket in scan order.
	RawAll(ctx context.Context, username string) ([]string, error)

	// Count returns the total number of stored messages across all users.
	Count(ctx context.Context) (int64, error)
}
