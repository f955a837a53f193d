package files

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

const fileColumns = `id, share_id, key, original_name, content_type, size, upload_id, completed, created_at`

func scanFile(row interface{ Scan(...any) error }) (*models.File, error) {
	f := &models.File{}
	err := row.Scan(&f.ID, &f.ShareID, &f.Key, &f.OriginalName, &f.ContentType,
		&f.Size, &f.UploadID, &f.Completed, &f.CreatedAt)
	if err != nil {
		return nil, err
	}
	return f, nil
}

func (r *PostgresRepository) Create(ctx context.Context, file *models.File) error {

	query :=
		`INSERT INTO files (id, share_id, key, original_name, content_type, size, upload_id, completed)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING created_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		file.ID, file.ShareID, file.Key, file.OriginalName, file.ContentType,
		file.Size, file.UploadID, file.Completed).Scan(&file.CreatedAt)

	if err != nil {
		return fmt.Errorf("error performing sql request: %w", err)
	}

	return nil
}

func (r *PostgresRepository) GetByShareAndID(ctx context.Context, shareID, id string) (*models.File, error) {

	query := `SELECT ` + fileColumns + ` FROM files
		 WHERE share_id = $1 AND id = $2
		 `

	f, err := scanFile(r.db.QueryRowContext(ctx, query, shareID, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("error performing sql request: %w", err)
	}

	return f, nil
}

func (r *PostgresRepository) GetByUploadID(ctx context.Context, shareID, uploadID string) (*models.File, error) {

	query := `SELECT ` + fileColumns + ` FROM files
		 WHERE share_id = $1 AND upload_id = $2
		 `

	f, err := scanFile(r.db.QueryRowContext(ctx, query, shareID, uploadID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("error performing sql request: %w", err)
	}

	return f, nil
}

func (r *PostgresRepository) ListCompleted(ctx context.Context, shareID string) ([]*models.File, error) {

	query := `SELECT ` + fileColumns + ` FROM files
		 WHERE share_id = $1 AND completed = true
		 ORDER BY created_at
		 `

	rows, err := r.db.QueryContext(ctx, query, shareID)
	if err != nil {
		return nil, fmt.Errorf("error performing sql request: %w", err)
	}
	defer rows.Close()

	var result []*models.File
	for rows.Next() {
		f, err := scanFile(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		result = append(result, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) MarkCompleted(ctx context.Context, id string, size int64) error {

	query :=
		`UPDATE files SET completed = true, size = $2, upload_id = ''
		 WHERE id = $1
		 `

	res, err := r.db.ExecContext(ctx, query, id, size)
	if err != nil {
		return fmt.Errorf("error performing sql request: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return common.ErrorNotFound
	}

	return nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {

	query := `DELETE FROM files WHERE id = $1`

	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("error performing sql request: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return common.ErrorNotFound
	}

	return nil
}

var _ Repository = (*PostgresRepository)(nil)
