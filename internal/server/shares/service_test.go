package shares

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/sharedrop/internal/common"
	"github.com/dmitrijs2005/sharedrop/internal/server/auth"
	"github.com/dmitrijs2005/sharedrop/internal/server/config"
)

func newTestService() *Service {
	cfg := &config.Config{
		SecretKey:      "test-secret",
		CredentialTTL:  time.Hour,
		FrontendOrigin: "http://localhost:3000",
	}
	return NewService(NewInMemoryRepository(), cfg)
}

func TestServiceCreate(t *testing.T) {
	s := newTestService()
	ctx := context.Background()

	res, err := s.Create(ctx, "my drop", "uploadpass", "downloadpass")
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if res.Share.ID == "" {
		t.Error("share id is empty")
	}
	if res.Share.PasswordHash == "uploadpass" || res.Share.PasswordHash == "" {
		t.Error("upload password not hashed")
	}
	if res.Share.DownloadPasswordHash == "downloadpass" || res.Share.DownloadPasswordHash == "" {
		t.Error("download password not hashed")
	}
	if !strings.HasSuffix(res.UploadLink, "/share/"+res.Share.ID) {
		t.Errorf("unexpected upload link %q", res.UploadLink)
	}
	if !strings.HasSuffix(res.DownloadLink, "/share/"+res.Share.ID+"/download") {
		t.Errorf("unexpected download link %q", res.DownloadLink)
	}
}

func TestServiceCreate_ShortPasswords(t *testing.T) {
	s := newTestService()
	ctx := context.Background()

	tests := []struct {
		name             string
		password         string
		downloadPassword string
	}{
		{"short upload password", "short", "downloadpass"},
		{"short download password", "uploadpass", "short"},
		{"both empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Create(ctx, "drop", tt.password, tt.downloadPassword)
			if !errors.Is(err, common.ErrorValidation) {
				t.Fatalf("expected ErrorValidation, got %v", err)
			}
		})
	}
}

func TestServiceAuthenticate(t *testing.T) {
	s := newTestService()
	ctx := context.Background()

	res, err := s.Create(ctx, "drop", "uploadpass", "downloadpass")
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	id := res.Share.ID

	token, err := s.AuthenticateUploader(ctx, id, "uploadpass")
	if err != nil {
		t.Fatalf("AuthenticateUploader error: %v", err)
	}
	claims, err := auth.ParseToken(token, []byte("test-secret"))
	if err != nil {
		t.Fatalf("ParseToken error: %v", err)
	}
	if claims.ShareID != id || claims.Role != auth.RoleUploader {
		t.Fatalf("unexpected claims: %+v", claims)
	}

	token, err = s.AuthenticateViewer(ctx, id, "downloadpass")
	if err != nil {
		t.Fatalf("AuthenticateViewer error: %v", err)
	}
	claims, err = auth.ParseToken(token, []byte("test-secret"))
	if err != nil {
		t.Fatalf("ParseToken error: %v", err)
	}
	if claims.Role != auth.RoleViewer {
		t.Fatalf("unexpected role %q", claims.Role)
	}
}

func TestServiceAuthenticate_WrongPassword(t *testing.T) {
	s := newTestService()
	ctx := context.Background()

	res, err := s.Create(ctx, "drop", "uploadpass", "downloadpass")
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	id := res.Share.ID

	if _, err := s.AuthenticateUploader(ctx, id, "wrong"); !errors.Is(err, common.ErrorUnauthorized) {
		t.Fatalf("expected ErrorUnauthorized, got %v", err)
	}
	// The slots are independent: the upload password must not satisfy
	// the download slot.
	if _, err := s.AuthenticateViewer(ctx, id, "uploadpass"); !errors.Is(err, common.ErrorUnauthorized) {
		t.Fatalf("expected ErrorUnauthorized, got %v", err)
	}
}

func TestServiceAuthenticate_UnknownShare(t *testing.T) {
	s := newTestService()

	_, err := s.AuthenticateUploader(context.Background(), "no-such-share", "uploadpass")
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("expected ErrorNotFound, got %v", err)
	}
}
