// Package db wires the metadata repositories to a backing store: either
// PostgreSQL or an in-memory implementation for development and tests.
package db

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/sharedrop/internal/server/files"
	"github.com/dmitrijs2005/sharedrop/internal/server/shares"
)

type RepositoryManager interface {
	RunMigrations(context.Context) error
	Conn() *sql.DB
	Shares() shares.Repository
	Files() files.Repository
	Close() error
}
