package sessions

import (
	"context"
	"time"

	"github.com/fbedev/diary-ai2/internal/server/models"
)

type Repository interface {
	// Create stores a session record whose backing key expires after ttl.
	Create(ctx context.Context, session *models.Session, ttl time.Duration) error

	// Find returns the session for a token or common.ErrorNotFound.
	Find(ctx context.Context, token string) (*models.Session, error)

	// Delete removes a session. Deleting an absent token is not an error.
	Delete(ctx context.Context, token string) error

	// List enumerates all stored sessions in scan order.
	List(ctx context.Context) ([]models.Session, error)
}
