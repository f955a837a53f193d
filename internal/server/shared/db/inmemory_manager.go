package db

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/sharedrop/internal/server/files"
	"github.com/dmitrijs2005/sharedrop/internal/server/shares"
)

// InMemoryRepositoryManager backs the repositories with process-local
// maps. Data does not survive a restart.
type InMemoryRepositoryManager struct {
	shares shares.Repository
	files  files.Repository
}

func (m InMemoryRepositoryManager) Conn() *sql.DB {
	return nil
}

func (m InMemoryRepositoryManager) RunMigrations(ctx context.Context) error {
	return nil
}

func (m InMemoryRepositoryManager) Shares() shares.Repository {
	return m.shares
}

func (m InMemoryRepositoryManager) Files() files.Repository {
	return m.files
}

func (m InMemoryRepositoryManager) Close() error {
	return nil
}

func NewInMemoryRepositoryManager() RepositoryManager {
	return InMemoryRepositoryManager{
		shares: shares.NewInMemoryRepository(),
		files:  files.NewInMemoryRepository(),
	}
}
