package users

import (
	"context"

	"github.com/fbedev/diary-ai2/internal/server/models"
)

type Repository interface {
	// Create stores a new credential record. Returns common.ErrAlreadyExists
	// when a record for the username is already present.
	Create(ctx context.Context, user *models.User) error

	// Get returns the credential record or common.ErrorNotFound.
	Get(ctx context.Context, username string) (*models.User, error)

	Exists(ctx context.Context, username string) (bool, error)

	// ListUsernames enumerates all registered usernames, sorted.
	ListUsernames(ctx context.Context) ([]string, error)
}
