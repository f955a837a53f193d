package files

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/sharedrop/internal/common"
	"github.com/dmitrijs2005/sharedrop/internal/server/models"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	repo, err := NewPostgresRepository(db)
	if err != nil {
		t.Fatalf("NewPostgresRepository error: %v", err)
	}
	return repo, mock, db
}

func mockFileRows(files ...*models.File) *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{"id", "share_id", "key", "original_name", "content_type", "size", "upload_id", "completed", "created_at"})
	for _, f := range files {
		rows.AddRow(f.ID, f.ShareID, f.Key, f.OriginalName, f.ContentType, f.Size, f.UploadID, f.Completed, f.CreatedAt)
	}
	return rows
}

func TestPostgresCreateFile(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	created := time.Now()
	mock.ExpectQuery(`INSERT\s+INTO\s+files`).
		WithArgs("f-1", "s-1", "shares/s-1/abc", "doc.pdf", "application/pdf", int64(100), "", false).
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(created))

	f := &models.File{
		ID: "f-1", ShareID: "s-1", Key: "shares/s-1/abc",
		OriginalName: "doc.pdf", ContentType: "application/pdf", Size: 100,
	}
	if err := repo.Create(context.Background(), f); err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if !f.CreatedAt.Equal(created) {
		t.Fatalf("created_at not populated: %v", f.CreatedAt)
	}
}

func TestPostgresGetByUploadID(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	f := &models.File{ID: "f-1", ShareID: "s-1", Key: "k", OriginalName: "n", ContentType: "c", UploadID: "mp-1", CreatedAt: time.Now()}
	mock.ExpectQuery(`SELECT\s+.*FROM\s+files\s+WHERE\s+share_id\s*=\s*\$1\s+AND\s+upload_id\s*=\s*\$2`).
		WithArgs("s-1", "mp-1").
		WillReturnRows(mockFileRows(f))

	got, err := repo.GetByUploadID(context.Background(), "s-1", "mp-1")
	if err != nil {
		t.Fatalf("GetByUploadID error: %v", err)
	}
	if got.ID != "f-1" || got.UploadID != "mp-1" {
		t.Fatalf("unexpected file: %+v", got)
	}
}

func TestPostgresListCompleted(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	f1 := &models.File{ID: "f-1", ShareID: "s-1", Key: "k1", OriginalName: "a", ContentType: "c", Completed: true, CreatedAt: time.Now()}
	f2 := &models.File{ID: "f-2", ShareID: "s-1", Key: "k2", OriginalName: "b", ContentType: "c", Completed: true, CreatedAt: time.Now()}
	mock.ExpectQuery(`SELECT\s+.*FROM\s+files\s+WHERE\s+share_id\s*=\s*\$1\s+AND\s+completed\s*=\s*true`).
		WithArgs("s-1").
		WillReturnRows(mockFileRows(f1, f2))

	got, err := repo.ListCompleted(context.Background(), "s-1")
	if err != nil {
		t.Fatalf("ListCompleted error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 files, got %d", len(got))
	}
}

func TestPostgresMarkCompleted_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`UPDATE\s+files\s+SET\s+completed`).
		WithArgs("missing", int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.MarkCompleted(context.Background(), "missing", 5)
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("expected ErrorNotFound, got %v", err)
	}
}

func TestPostgresDeleteFile(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`DELETE\s+FROM\s+files\s+WHERE\s+id\s*=\s*\$1`).
		WithArgs("f-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.Delete(context.Background(), "f-1"); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
}
