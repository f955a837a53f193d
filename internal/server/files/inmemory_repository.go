package files

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/dmitrijs2005/sharedrop/internal/common"
	"github.com/dmitrijs2005/sharedrop/internal/server/models"
)

// InMemoryRepository keeps file records in a map. Used when no database
// DSN is configured and in tests.
type InMemoryRepository struct {
	mu    sync.RWMutex
	files map[string]models.File
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{files: make(map[string]models.File)}
}

func (r *InMemoryRepository) Create(ctx context.Context, file *models.File) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if file.CreatedAt.IsZero() {
		file.CreatedAt = time.Now()
	}
	r.files[file.ID] = *file
	return nil
}

func (r *InMemoryRepository) GetByShareAndID(ctx context.Context, shareID, id string) (*models.File, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	f, ok := r.files[id]
	if !ok || f.ShareID != shareID {
		return nil, common.ErrorNotFound
	}
	return &f, nil
}

func (r *InMemoryRepository) GetByUploadID(ctx context.Context, shareID, uploadID string) (*models.File, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if uploadID == "" {
		return nil, common.ErrorNotFound
	}
	for _, f := range r.files {
		if f.ShareID == shareID && f.UploadID == uploadID {
			result := f
			return &result, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r *InMemoryRepository) ListCompleted(ctx context.Context, shareID string) ([]*models.File, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []*models.File
	for _, f := range r.files {
		if f.ShareID == shareID && f.Completed {
			file := f
			result = append(result, &file)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result, nil
}

func (r *InMemoryRepository) MarkCompleted(ctx context.Context, id string, size int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	f, ok := r.files[id]
	if !ok {
		return common.ErrorNotFound
	}
	f.Completed = true
	f.Size = size
	f.UploadID = ""
	r.files[id] = f
	return nil
}

func (r *InMemoryRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.files[id]; !ok {
		return common.ErrorNotFound
	}
	delete(r.files, id)
	return nil
}

var _ Repository = (*InMemoryRepository)(nil)
