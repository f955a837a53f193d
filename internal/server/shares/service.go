package shares

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/sharedrop/internal/common"
	"github.com/dmitrijs2005/sharedrop/internal/server/auth"
	"github.com/dmitrijs2005/sharedrop/internal/server/config"
	"github.com/dmitrijs2005/sharedrop/internal/server/models"
)

const minPasswordLen = 8

// CreateResult is returned on share creation: the stored share plus the
// two links handed to the creator.
type CreateResult struct {
	Share        *models.Share
	UploadLink   string
	DownloadLink string
}

type Service struct {
	repo           Repository
	jwtSecret      []byte
	credentialTTL  time.Duration
	frontendOrigin string
}

func NewService(repo Repository, cfg *config.Config) *Service {
	return &Service{
		repo:           repo,
		jwtSecret:      []byte(cfg.SecretKey),
		credentialTTL:  cfg.CredentialTTL,
		frontendOrigin: cfg.FrontendOrigin,
	}
}

// Create registers a new share with the two password slots hashed. Both
// passwords must be at least eight characters.
func (s *Service) Create(ctx context.Context, name, password, downloadPassword string) (*CreateResult, error) {

	if len(password) < minPasswordLen {
		return nil, fmt.Errorf("%w: password must be at least %d characters", common.ErrorValidation, minPasswordLen)
	}
	if len(downloadPassword) < minPasswordLen {
		return nil, fmt.Errorf("%w: download password must be at least %d characters", common.ErrorValidation, minPasswordLen)
	}

	share := &models.Share{
		ID:                   uuid.NewString(),
		Name:                 name,
		PasswordHash:         auth.HashPassword(password),
		DownloadPasswordHash: auth.HashPassword(downloadPassword),
	}

	if err := s.repo.Create(ctx, share); err != nil {
		return nil, fmt.Errorf("error creating share: %w", err)
	}

	return &CreateResult{
		Share:        share,
		UploadLink:   s.frontendOrigin + "/share/" + share.ID,
		DownloadLink: s.frontendOrigin + "/share/" + share.ID + "/download",
	}, nil
}

// Get loads a share by id, mapping absence to common.ErrorNotFound.
func (s *Service) Get(ctx context.Context, id string) (*models.Share, error) {
	share, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, common.ErrorInternal
	}
	return share, nil
}

// AuthenticateUploader checks the candidate against the upload password
// slot and mints an uploader credential for the share.
func (s *Service) AuthenticateUploader(ctx context.Context, shareID, password string) (string, error) {
	return s.authenticate(ctx, shareID, password, auth.RoleUploader)
}

// AuthenticateViewer checks the candidate against the download password
// slot and mints a viewer credential for the share.
func (s *Service) AuthenticateViewer(ctx context.Context, shareID, password string) (string, error) {
	return s.authenticate(ctx, shareID, password, auth.RoleViewer)
}

func (s *Service) authenticate(ctx context.Context, shareID, password, role string) (string, error) {

	share, err := s.repo.GetByID(ctx, shareID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return "", common.ErrorNotFound
		}
		return "", common.ErrorInternal
	}

	hash := share.PasswordHash
	if role == auth.RoleViewer {
		hash = share.DownloadPasswordHash
	}

	if !auth.VerifyPassword(password, hash) {
		return "", common.ErrorUnauthorized
	}

	token, err := auth.GenerateToken(share.ID, role, s.jwtSecret, s.credentialTTL)
	if err != nil {
		return "", common.ErrorInternal
	}

	return token, nil
}
