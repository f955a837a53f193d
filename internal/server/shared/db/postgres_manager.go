package db

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/dmitrijs2005/sharedrop/internal/server/files"
	"github.com/dmitrijs2005/sharedrop/internal/server/migrations"
	"github.com/dmitrijs2005/sharedrop/internal/server/shares"
)

type PostgresRepositoryManager struct {
	db     *sql.DB
	shares shares.Repository
	files  files.Repository
}

func (m *PostgresRepositoryManager) Conn() *sql.DB {
	return m.db
}

func (m *PostgresRepositoryManager) Shares() shares.Repository {
	return m.shares
}

func (m *PostgresRepositoryManager) Files() files.Repository {
	return m.files
}

func (m *PostgresRepositoryManager) Close() error {
	return m.db.Close()
}

func (m *PostgresRepositoryManager) RunMigrations(ctx context.Context) error {
	goose.SetBaseFS(migrations.Migrations)

	if err := goose.UpContext(ctx, m.db, "."); err != nil {
		return err
	}

	return nil
}

func NewPostgresRepositoryManager(dsn string) (RepositoryManager, error) {

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}

	shareRepo, err := shares.NewPostgresRepository(db)
	if err != nil {
		return nil, fmt.Errorf("share repo creation error: %w", err)
	}

	fileRepo, err := files.NewPostgresRepository(db)
	if err != nil {
		return nil, fmt.Errorf("file repo creation error: %w", err)
	}

	m := &PostgresRepositoryManager{
		db:     db,
		shares: shareRepo,
		files:  fileRepo,
	}

	err = m.RunMigrations(context.Background())
	if err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	return m, nil
}
