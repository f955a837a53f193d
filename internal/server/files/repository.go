// Package files implements the file lifecycle inside a share: issuing
// upload capabilities, tracking multipart sessions, listing and deleting.
package files

import (
	"context"

	"github.com/dmitrijs2005/sharedrop/internal/server/models"
)

// Repository persists file records.
type Repository interface {
	Create(ctx context.Context, file *models.File) error
	GetByShareAndID(ctx context.Context, shareID, id string) (*models.File, error)
	GetByUploadID(ctx context.Context, shareID, uploadID string) (*models.File, error)
	ListCompleted(ctx context.Context, shareID string) ([]*models.File, error)
	MarkCompleted(ctx context.Context, id string, size int64) error
	Delete(ctx context.Context, id string) error
}
