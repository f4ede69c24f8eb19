package summaries

import (
	"context"

	"github.com/fbedev/diary-ai2/internal/server/models"
)

type Repository interface {
	// Save writes the summary for (username, summary.Date), overwriting any
	// prior value in a single operation.
	Save(ctx context.Context, username string, summary *models.DiarySummary) error

	// Get returns the stored summary, or common.ErrorNotFound when the key
	// is absent or the stored record fails to parse.
	Get(ctx context.Context, username string, day string) (*models.DiarySummary, error)

	// List returns every parseable summary for the user in scan order.
	List(ctx context.Context, username string) ([]models.DiarySummary, error)

	// RawList returns the stored summary values as raw JSON in scan order.
	RawList(ctx context.Context, username string) ([]string, error)
}
