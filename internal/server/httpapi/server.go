// Package httpapi exposes the share API and the store transfer endpoints
// over HTTP.
package httpapi

import (
	"net/http"

	"github.com/dmitrijs2005/sharedrop/internal/logging"
	"github.com/dmitrijs2005/sharedrop/internal/server/capability"
	"github.com/dmitrijs2005/sharedrop/internal/server/files"
	"github.com/dmitrijs2005/sharedrop/internal/server/shares"
	"github.com/dmitrijs2005/sharedrop/internal/server/storage"
)

// Body size caps. JSON request bodies on the share API are small; raw
// transfers against the store are capped at the maximum object size.
const (
	maxJSONBody  = 1 << 20
	maxStoreBody = 100 << 20
)

type Server struct {
	shares         *shares.Service
	files          *files.Service
	store          storage.Store
	issuer         *capability.Issuer
	secret         []byte
	frontendOrigin string
	limiter        *RateLimiter
	logger         logging.Logger
}

func NewServer(
	shareSvc *shares.Service,
	fileSvc *files.Service,
	store storage.Store,
	issuer *capability.Issuer,
	secret []byte,
	frontendOrigin string,
	logger logging.Logger,
) *Server {
	return &Server{
		shares:         shareSvc,
		files:          fileSvc,
		store:          store,
		issuer:         issuer,
		secret:         secret,
		frontendOrigin: frontendOrigin,
		limiter:        NewRateLimiter(),
		logger:         logger.With("module", "httpapi"),
	}
}

// Handler builds the route table. Share API routes pass through rate
// limiting and role checks; store routes are authorized by the
// capability token they carry.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	// Share lifecycle. Creation and the two password checks count
	// against the tighter auth-class rate budget.
	mux.Handle("POST /shares", s.rateLimit(true, http.HandlerFunc(s.handleCreateShare)))
	mux.Handle("POST /shares/{id}/auth", s.rateLimit(true, s.withShareID(s.handleAuthUploader)))
	mux.Handle("POST /shares/{id}/auth-download", s.rateLimit(true, s.withShareID(s.handleAuthViewer)))

	// Uploader-gated routes.
	mux.Handle("POST /shares/{id}/upload-url", s.rateLimit(false, s.withRole(roleUploader, s.handleUploadURL)))
	mux.Handle("POST /shares/{id}/upload-complete", s.rateLimit(false, s.withRole(roleUploader, s.handleUploadComplete)))
	mux.Handle("POST /shares/{id}/multipart/init", s.rateLimit(false, s.withRole(roleUploader, s.handleMultipartInit)))
	mux.Handle("POST /shares/{id}/multipart/{uploadId}/part-url", s.rateLimit(false, s.withRole(roleUploader, s.handleMultipartPartURL)))
	mux.Handle("POST /shares/{id}/multipart/{uploadId}/complete", s.rateLimit(false, s.withRole(roleUploader, s.handleMultipartComplete)))
	mux.Handle("DELETE /shares/{id}/files/{fileId}", s.rateLimit(false, s.withRole(roleUploader, s.handleDeleteFile)))

	// Viewer-gated routes. Uploader credentials also pass.
	mux.Handle("GET /shares/{id}/files", s.rateLimit(false, s.withRole(roleViewer, s.handleListFiles)))
	mux.Handle("GET /shares/{id}/download-url/{fileId}", s.rateLimit(false, s.withRole(roleViewer, s.handleDownloadURL)))

	// Store transfer endpoints, authorized by capability token.
	mux.HandleFunc("PUT /store/upload", s.handleStoreUpload)
	mux.HandleFunc("PUT /store/multipart/part", s.handleStorePart)
	mux.HandleFunc("GET /store/download", s.handleStoreDownload)

	mux.HandleFunc("GET /health", s.handleHealth)

	return s.accessLog(s.cors(mux))
}
