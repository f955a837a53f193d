// Package shares implements share creation and role-based
// authentication against a share's passwords.
package shares

import (
	"context"

	"github.com/dmitrijs2005/sharedrop/internal/server/models"
)

// Repository persists shares.
type Repository interface {
	Create(ctx context.Context, share *models.Share) error
	GetByID(ctx context.Context, id string) (*models.Share, error)
}
