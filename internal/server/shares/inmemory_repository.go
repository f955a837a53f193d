package shares

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrijs2005/sharedrop/internal/common"
	"github.com/dmitrijs2005/sharedrop/internal/server/models"
)

// InMemoryRepository keeps shares in a map. Used when no database DSN is
// configured and in tests.
type InMemoryRepository struct {
	mu     sync.RWMutex
	shares map[string]models.Share
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{shares: make(map[string]models.Share)}
}

func (r *InMemoryRepository) Create(ctx context.Context, share *models.Share) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if share.CreatedAt.IsZero() {
		share.CreatedAt = time.Now()
	}
	r.shares[share.ID] = *share
	return nil
}

func (r *InMemoryRepository) GetByID(ctx context.Context, id string) (*models.Share, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	share, ok := r.shares[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &share, nil
}

var _ Repository = (*InMemoryRepository)(nil)
