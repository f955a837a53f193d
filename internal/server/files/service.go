package files

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/sharedrop/internal/common"
	"github.com/dmitrijs2005/sharedrop/internal/logging"
	"github.com/dmitrijs2005/sharedrop/internal/server/capability"
	"github.com/dmitrijs2005/sharedrop/internal/server/models"
	"github.com/dmitrijs2005/sharedrop/internal/server/storage"
)

const (
	maxFileNameLen    = 255
	maxContentTypeLen = 100
)

// Content types that browsers may execute when served back. Uploads
// declaring them are rejected.
var dangerousContentTypes = map[string]bool{
	"application/x-msdownload":    true,
	"application/x-msdos-program": true,
}

// staleSessionAge is how old a multipart session directory must be
// before the reaper removes it.
const staleSessionAge = time.Hour

// UploadTicket is returned when an upload slot is created: the file
// record plus the pre-signed URL the client PUTs bytes to.
type UploadTicket struct {
	File      *models.File
	SignedURL *capability.SignedURL
}

// MultipartTicket is returned when a multipart session is opened.
type MultipartTicket struct {
	File     *models.File
	UploadID string
}

type Service struct {
	repo   Repository
	store  storage.Store
	issuer *capability.Issuer
	logger logging.Logger
}

func NewService(repo Repository, store storage.Store, issuer *capability.Issuer, logger logging.Logger) *Service {
	return &Service{
		repo:   repo,
		store:  store,
		issuer: issuer,
		logger: logger.With("module", "files_service"),
	}
}

// sanitizeFileName strips path separators and parent references from a
// client-supplied name and caps its length. An empty result falls back
// to "file".
func sanitizeFileName(name string) string {
	name = strings.ReplaceAll(name, "..", "")
	name = strings.ReplaceAll(name, "/", "")
	name = strings.ReplaceAll(name, "\\", "")
	name = strings.TrimSpace(name)
	if len(name) > maxFileNameLen {
		name = name[:maxFileNameLen]
	}
	if name == "" {
		name = "file"
	}
	return name
}

func sanitizeContentType(contentType string) (string, error) {
	if contentType == "" {
		return "application/octet-stream", nil
	}
	if len(contentType) > maxContentTypeLen {
		return "", fmt.Errorf("%w: content type too long", common.ErrorValidation)
	}
	if dangerousContentTypes[strings.ToLower(contentType)] {
		return "", fmt.Errorf("%w: content type not allowed", common.ErrorValidation)
	}
	return contentType, nil
}

// CreateUploadURL registers a single-part upload slot in the share and
// returns a pre-signed upload URL for it.
func (s *Service) CreateUploadURL(ctx context.Context, shareID, fileName, contentType string, size int64) (*UploadTicket, error) {

	if size < 0 {
		return nil, fmt.Errorf("%w: negative size", common.ErrorValidation)
	}
	sanitizedType, err := sanitizeContentType(contentType)
	if err != nil {
		return nil, err
	}

	key, err := storage.GenerateKey("shares/" + shareID)
	if err != nil {
		return nil, fmt.Errorf("error generating object key: %w", err)
	}

	file := &models.File{
		ID:           uuid.NewString(),
		ShareID:      shareID,
		Key:          key,
		OriginalName: sanitizeFileName(fileName),
		ContentType:  sanitizedType,
		Size:         size,
	}

	if err := s.repo.Create(ctx, file); err != nil {
		return nil, fmt.Errorf("error creating file record: %w", err)
	}

	signed, err := s.issuer.SignedUploadURL(file.Key)
	if err != nil {
		return nil, common.ErrorInternal
	}

	return &UploadTicket{File: file, SignedURL: signed}, nil
}

// CompleteUpload marks a single-part upload finished, recording the size
// the client reports after the transfer. Multipart records must go
// through CompleteMultipart instead.
func (s *Service) CompleteUpload(ctx context.Context, shareID, fileID string, size int64) (*models.File, error) {

	if size < 0 {
		return nil, fmt.Errorf("%w: negative size", common.ErrorValidation)
	}

	file, err := s.repo.GetByShareAndID(ctx, shareID, fileID)
	if err != nil {
		return nil, err
	}
	if file.UploadID != "" {
		return nil, fmt.Errorf("%w: file belongs to a multipart session", common.ErrorValidation)
	}

	if err := s.repo.MarkCompleted(ctx, file.ID, size); err != nil {
		return nil, err
	}

	file.Completed = true
	file.Size = size
	return file, nil
}

// InitMultipart opens a multipart session for a new file in the share.
func (s *Service) InitMultipart(ctx context.Context, shareID, fileName, contentType string) (*MultipartTicket, error) {

	sanitizedType, err := sanitizeContentType(contentType)
	if err != nil {
		return nil, err
	}

	key, err := storage.GenerateKey("shares/" + shareID)
	if err != nil {
		return nil, fmt.Errorf("error generating object key: %w", err)
	}
	uploadID, err := storage.NewUploadID()
	if err != nil {
		return nil, fmt.Errorf("error generating upload id: %w", err)
	}

	file := &models.File{
		ID:           uuid.NewString(),
		ShareID:      shareID,
		Key:          key,
		OriginalName: sanitizeFileName(fileName),
		ContentType:  sanitizedType,
		UploadID:     uploadID,
	}

	if err := s.repo.Create(ctx, file); err != nil {
		return nil, fmt.Errorf("error creating file record: %w", err)
	}

	return &MultipartTicket{File: file, UploadID: file.UploadID}, nil
}

// PartURL returns a pre-signed URL for one part of an open multipart
// session.
func (s *Service) PartURL(ctx context.Context, shareID, uploadID string, partNumber int) (*capability.SignedURL, error) {

	if partNumber < 1 {
		return nil, fmt.Errorf("%w: part number must be positive", common.ErrorValidation)
	}

	file, err := s.repo.GetByUploadID(ctx, shareID, uploadID)
	if err != nil {
		return nil, err
	}

	signed, err := s.issuer.SignedPartURL(uploadID, file.Key, partNumber)
	if err != nil {
		return nil, common.ErrorInternal
	}

	return signed, nil
}

// CompleteMultipart assembles the uploaded parts into the final object,
// marks the file completed with the assembled size, and kicks off a reap
// of stale sessions in the background.
func (s *Service) CompleteMultipart(ctx context.Context, shareID, uploadID string, partNumbers []int) (*models.File, error) {

	if len(partNumbers) == 0 {
		return nil, fmt.Errorf("%w: no parts listed", common.ErrorValidation)
	}

	file, err := s.repo.GetByUploadID(ctx, shareID, uploadID)
	if err != nil {
		return nil, err
	}

	size, err := s.store.CompleteMultipart(ctx, uploadID, file.Key, partNumbers)
	if err != nil {
		s.logger.Error(ctx, "multipart assembly failed", "upload_id", uploadID, "error", err.Error())
		return nil, common.ErrorInternal
	}

	if err := s.repo.MarkCompleted(ctx, file.ID, size); err != nil {
		return nil, err
	}

	s.runAsync("stale session reap", func(ctx context.Context) error {
		return s.store.ReapStale(ctx, staleSessionAge)
	})

	file.Completed = true
	file.Size = size
	file.UploadID = ""
	return file, nil
}

// List returns the completed files of a share.
func (s *Service) List(ctx context.Context, shareID string) ([]*models.File, error) {
	return s.repo.ListCompleted(ctx, shareID)
}

// DownloadURL returns a pre-signed download URL for a completed file.
func (s *Service) DownloadURL(ctx context.Context, shareID, fileID string) (*models.File, *capability.SignedURL, error) {

	file, err := s.repo.GetByShareAndID(ctx, shareID, fileID)
	if err != nil {
		return nil, nil, err
	}
	if !file.Completed {
		return nil, nil, common.ErrorNotFound
	}

	signed, err := s.issuer.SignedDownloadURL(file.Key)
	if err != nil {
		return nil, nil, common.ErrorInternal
	}

	return file, signed, nil
}

// Delete removes the file record and then the stored bytes. The object
// delete runs in the background and is best effort.
func (s *Service) Delete(ctx context.Context, shareID, fileID string) error {

	file, err := s.repo.GetByShareAndID(ctx, shareID, fileID)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, file.ID); err != nil {
		return err
	}

	key := file.Key
	s.runAsync("object delete", func(ctx context.Context) error {
		return s.store.Delete(ctx, key)
	})

	return nil
}

// runAsync runs fn on a fresh goroutine with its own timeout, logging
// failures instead of surfacing them.
func (s *Service) runAsync(name string, fn func(ctx context.Context) error) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		if err := fn(ctx); err != nil && !errors.Is(err, context.Canceled) {
			s.logger.Warn(ctx, "background task failed", "task", name, "error", err.Error())
		}
	}()
}
