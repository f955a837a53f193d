package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/dmitrijs2005/sharedrop/internal/common"
	"github.com/dmitrijs2005/sharedrop/internal/server/auth"
	"github.com/dmitrijs2005/sharedrop/internal/server/models"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeServiceError maps service-layer sentinel errors onto HTTP status
// codes.
func writeServiceError(w http.ResponseWriter, err error) {
	var maxBytes *http.MaxBytesError
	switch {
	case errors.Is(err, common.ErrorValidation):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, common.ErrorUnauthorized):
		writeError(w, http.StatusUnauthorized, "invalid password")
	case errors.Is(err, common.ErrorForbidden):
		writeError(w, http.StatusForbidden, "forbidden")
	case errors.Is(err, common.ErrorNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.As(err, &maxBytes):
		writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
	default:
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

// decodeJSON parses the request body into v. A body over the configured
// cap surfaces as 413, any other parse failure as 400.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var maxBytes *http.MaxBytesError
		if errors.As(err, &maxBytes) {
			writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
		} else {
			writeError(w, http.StatusBadRequest, "malformed json body")
		}
		return false
	}
	return true
}

type fileResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	ContentType string    `json:"contentType"`
	Size        int64     `json:"size"`
	CreatedAt   time.Time `json:"createdAt"`
}

func toFileResponse(f *models.File) fileResponse {
	return fileResponse{
		ID:          f.ID,
		Name:        f.OriginalName,
		ContentType: f.ContentType,
		Size:        f.Size,
		CreatedAt:   f.CreatedAt,
	}
}

func (s *Server) handleCreateShare(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name             string `json:"name"`
		Password         string `json:"password"`
		DownloadPassword string `json:"downloadPassword"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	res, err := s.shares.Create(r.Context(), req.Name, req.Password, req.DownloadPassword)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{
		"shareId":      res.Share.ID,
		"name":         res.Share.Name,
		"uploadLink":   res.UploadLink,
		"downloadLink": res.DownloadLink,
	})
}

func (s *Server) handleAuthUploader(w http.ResponseWriter, r *http.Request, shareID string) {
	s.handleAuth(w, r, shareID, s.shares.AuthenticateUploader)
}

func (s *Server) handleAuthViewer(w http.ResponseWriter, r *http.Request, shareID string) {
	s.handleAuth(w, r, shareID, s.shares.AuthenticateViewer)
}

func (s *Server) handleAuth(w http.ResponseWriter, r *http.Request, shareID string,
	authenticate func(ctx context.Context, shareID, password string) (string, error)) {

	var req struct {
		Password string `json:"password"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	token, err := authenticate(r.Context(), shareID, req.Password)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}

func (s *Server) handleUploadURL(w http.ResponseWriter, r *http.Request, shareID string, _ *auth.Claims) {
	var req struct {
		FileName    string `json:"fileName"`
		ContentType string `json:"contentType"`
		Size        int64  `json:"size"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	ticket, err := s.files.CreateUploadURL(r.Context(), shareID, req.FileName, req.ContentType, req.Size)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"fileId":    ticket.File.ID,
		"url":       ticket.SignedURL.URL,
		"method":    ticket.SignedURL.Method,
		"expiresIn": ticket.SignedURL.ExpiresIn,
	})
}

func (s *Server) handleUploadComplete(w http.ResponseWriter, r *http.Request, shareID string, _ *auth.Claims) {
	var req struct {
		FileID string `json:"fileId"`
		Size   int64  `json:"size"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	file, err := s.files.CompleteUpload(r.Context(), shareID, req.FileID, req.Size)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toFileResponse(file))
}

func (s *Server) handleMultipartInit(w http.ResponseWriter, r *http.Request, shareID string, _ *auth.Claims) {
	var req struct {
		FileName    string `json:"fileName"`
		ContentType string `json:"contentType"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	ticket, err := s.files.InitMultipart(r.Context(), shareID, req.FileName, req.ContentType)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"fileId":   ticket.File.ID,
		"uploadId": ticket.UploadID,
	})
}

func (s *Server) handleMultipartPartURL(w http.ResponseWriter, r *http.Request, shareID string, _ *auth.Claims) {
	uploadID := r.PathValue("uploadId")

	var req struct {
		PartNumber int `json:"partNumber"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	signed, err := s.files.PartURL(r.Context(), shareID, uploadID, req.PartNumber)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"url":       signed.URL,
		"method":    signed.Method,
		"expiresIn": signed.ExpiresIn,
	})
}

func (s *Server) handleMultipartComplete(w http.ResponseWriter, r *http.Request, shareID string, _ *auth.Claims) {
	uploadID := r.PathValue("uploadId")

	var req struct {
		Parts []int `json:"parts"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	file, err := s.files.CompleteMultipart(r.Context(), shareID, uploadID, req.Parts)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toFileResponse(file))
}

func (s *Server) handleListFiles(w http.ResponseWriter, r *http.Request, shareID string, _ *auth.Claims) {
	list, err := s.files.List(r.Context(), shareID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	out := make([]fileResponse, 0, len(list))
	for _, f := range list {
		out = append(out, toFileResponse(f))
	}
	writeJSON(w, http.StatusOK, map[string]any{"files": out})
}

func (s *Server) handleDownloadURL(w http.ResponseWriter, r *http.Request, shareID string, _ *auth.Claims) {
	fileID := r.PathValue("fileId")

	file, signed, err := s.files.DownloadURL(r.Context(), shareID, fileID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"url":         signed.URL,
		"method":      signed.Method,
		"expiresIn":   signed.ExpiresIn,
		"fileName":    file.OriginalName,
		"contentType": file.ContentType,
		"size":        file.Size,
	})
}

func (s *Server) handleDeleteFile(w http.ResponseWriter, r *http.Request, shareID string, _ *auth.Claims) {
	fileID := r.PathValue("fileId")

	if err := s.files.Delete(r.Context(), shareID, fileID); err != nil {
		writeServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
