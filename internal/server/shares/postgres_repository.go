package shares

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/sharedrop/internal/common"
	"github.com/dmitrijs2005/sharedrop/internal/dbx"
	"github.com/dmitrijs2005/sharedrop/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) (*PostgresRepository, error) {
	return &PostgresRepository{db: db}, nil
}

func (r *PostgresRepository) Create(ctx context.Context, share *models.Share) error {

	query :=
		`INSERT INTO shares (id, name, password_hash, download_password_hash)
		 VALUES ($1, $2, $3, $4)
		 RETURNING created_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		share.ID, share.Name, share.PasswordHash, share.DownloadPasswordHash).Scan(&share.CreatedAt)

	if err != nil {
		return fmt.Errorf("error performing sql request: %w", err)
	}

	return nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Share, error) {

	query :=
		`SELECT id, name, password_hash, download_password_hash, created_at FROM shares
		 WHERE id = $1
		 `

	share := &models.Share{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&share.ID, &share.Name, &share.PasswordHash, &share.DownloadPasswordHash, &share.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("error performing sql request: %w", err)
	}

	return share, nil
}

var _ Repository = (*PostgresRepository)(nil)
