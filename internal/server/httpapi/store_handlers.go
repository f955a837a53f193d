package httpapi

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/dmitrijs2005/sharedrop/internal/server/capability"
)

// verifyCapability checks the token query parameter against the expected
// action. Missing tokens are a 400, invalid or expired ones a 403.
func (s *Server) verifyCapability(w http.ResponseWriter, r *http.Request, action string) (*capability.Claims, bool) {
	token := r.URL.Query().Get("token")
	if token == "" {
		writeError(w, http.StatusBadRequest, "missing token")
		return nil, false
	}
	claims, err := s.issuer.Verify(token, action)
	if err != nil {
		s.logger.Debug(r.Context(), "capability rejected", "error", err.Error())
		writeError(w, http.StatusForbidden, "invalid or expired token")
		return nil, false
	}
	return claims, true
}

// readStoreBody reads a raw transfer body under the object size cap.
func readStoreBody(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxStoreBody))
	if err != nil {
		var maxBytes *http.MaxBytesError
		if errors.As(err, &maxBytes) {
			writeError(w, http.StatusRequestEntityTooLarge, "object too large")
		} else {
			writeError(w, http.StatusBadRequest, "error reading body")
		}
		return nil, false
	}
	return body, true
}

func (s *Server) handleStoreUpload(w http.ResponseWriter, r *http.Request) {
	key := r.URL.Query().Get("key")
	if key == "" {
		writeError(w, http.StatusBadRequest, "missing key")
		return
	}

	claims, ok := s.verifyCapability(w, r, capability.ActionUpload)
	if !ok {
		return
	}
	// The token authorizes exactly the key it was minted for.
	if claims.Key != key {
		writeError(w, http.StatusForbidden, "token does not match key")
		return
	}

	body, ok := readStoreBody(w, r)
	if !ok {
		return
	}

	if err := s.store.Store(r.Context(), key, body); err != nil {
		s.logger.Error(r.Context(), "store write failed", "key", key, "error", err.Error())
		writeError(w, http.StatusInternalServerError, "storage error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (s *Server) handleStorePart(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	key := q.Get("key")
	uploadID := q.Get("uploadId")
	if key == "" || uploadID == "" {
		writeError(w, http.StatusBadRequest, "missing key or uploadId")
		return
	}
	partNumber, err := strconv.Atoi(q.Get("partNumber"))
	if err != nil || partNumber < 1 {
		writeError(w, http.StatusBadRequest, "invalid partNumber")
		return
	}

	claims, ok := s.verifyCapability(w, r, capability.ActionUploadPart)
	if !ok {
		return
	}
	if claims.Key != key || claims.UploadID != uploadID || claims.PartNumber != partNumber {
		writeError(w, http.StatusForbidden, "token does not match part coordinates")
		return
	}

	body, ok := readStoreBody(w, r)
	if !ok {
		return
	}

	if err := s.store.AppendPart(r.Context(), uploadID, partNumber, body); err != nil {
		s.logger.Error(r.Context(), "part write failed", "upload_id", uploadID, "part_number", partNumber, "error", err.Error())
		writeError(w, http.StatusInternalServerError, "storage error")
		return
	}

	etag := fmt.Sprintf("%q", fmt.Sprintf("%d-%d", len(body), partNumber))
	w.Header().Set("ETag", etag)
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "etag": etag})
}

func (s *Server) handleStoreDownload(w http.ResponseWriter, r *http.Request) {
	key := r.URL.Query().Get("key")
	if key == "" {
		writeError(w, http.StatusBadRequest, "missing key")
		return
	}

	claims, ok := s.verifyCapability(w, r, capability.ActionDownload)
	if !ok {
		return
	}
	if claims.Key != key {
		writeError(w, http.StatusForbidden, "token does not match key")
		return
	}

	data, err := s.store.Read(r.Context(), key)
	if err != nil {
		s.logger.Error(r.Context(), "store read failed", "key", key, "error", err.Error())
		writeError(w, http.StatusInternalServerError, "storage error")
		return
	}
	if data == nil {
		writeError(w, http.StatusNotFound, "object not found")
		return
	}

	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}
