package httpapi

import (
	"context"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/sharedrop/internal/server/auth"
)

// Role requirements for gated routes. Uploader credentials satisfy
// viewer-gated routes, viewer credentials never satisfy uploader-gated
// ones.
const (
	roleUploader = auth.RoleUploader
	roleViewer   = auth.RoleViewer
)

type shareHandler func(w http.ResponseWriter, r *http.Request, shareID string)

type roleHandler func(w http.ResponseWriter, r *http.Request, shareID string, claims *auth.Claims)

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (sr *statusRecorder) WriteHeader(code int) {
	sr.status = code
	sr.ResponseWriter.WriteHeader(code)
}

func (s *Server) accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Info(r.Context(), "request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start).String(),
		)
	})
}

func (s *Server) cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", s.frontendOrigin)
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// clientIP extracts the client identifier used for rate limiting: the
// first X-Forwarded-For hop when present, else the remote address.
func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		if ip, _, ok := strings.Cut(fwd, ","); ok {
			return strings.TrimSpace(ip)
		}
		return strings.TrimSpace(fwd)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// rateLimit rejects requests over the per-IP budget before any work is
// done, and caps JSON request bodies on the share API.
func (s *Server) rateLimit(authClass bool, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.limiter.Allow(clientIP(r), authClass) {
			writeError(w, http.StatusTooManyRequests, "too many requests")
			return
		}
		r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
		next.ServeHTTP(w, r)
	})
}

// withShareID validates the share id path segment before the handler
// runs. Malformed ids are rejected with 400 before any credential is
// looked at.
func (s *Server) withShareID(next shareHandler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		if _, err := uuid.Parse(id); err != nil {
			writeError(w, http.StatusBadRequest, "invalid share id")
			return
		}
		next(w, r, id)
	})
}

// withRole validates the share id, then the bearer credential, then the
// role, in that order: 400 for a malformed id, 401 for a missing or
// invalid credential, 403 for a valid credential with the wrong scope.
func (s *Server) withRole(requiredRole string, next roleHandler) http.Handler {
	return s.withShareID(func(w http.ResponseWriter, r *http.Request, shareID string) {
		claims, ok := s.bearerClaims(r.Context(), r)
		if !ok {
			writeError(w, http.StatusUnauthorized, "missing or invalid credential")
			return
		}
		if claims.ShareID != shareID {
			writeError(w, http.StatusForbidden, "credential is for a different share")
			return
		}
		if requiredRole == roleUploader && claims.Role != roleUploader {
			writeError(w, http.StatusForbidden, "uploader credential required")
			return
		}
		next(w, r, shareID, claims)
	})
}

func (s *Server) bearerClaims(ctx context.Context, r *http.Request) (*auth.Claims, bool) {
	header := r.Header.Get("Authorization")
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || token == "" {
		return nil, false
	}
	claims, err := auth.ParseToken(token, s.secret)
	if err != nil {
		s.logger.Debug(ctx, "credential rejected", "error", err.Error())
		return nil, false
	}
	return claims, true
}
