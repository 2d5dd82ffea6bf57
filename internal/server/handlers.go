package server

import (
	"encoding/json"
	"errors"
	"io"
	"io/fs"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/opsboard-labs/opsboard/internal/assets"
)

// maxUploadBytes caps a single multipart upload.
const maxUploadBytes = 32 << 20 // 32 MiB

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, map[string]string{"error": msg})
}

// handleListUsers forwards to the database pool.
func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	if s.users == nil {
		respondError(w, http.StatusServiceUnavailable, "database not configured")
		return
	}
	users, err := s.users.ListUsers(r.Context())
	if err != nil {
		s.logger.Error("list users failed", "error", err)
		respondError(w, http.StatusInternalServerError, "list users failed")
		return
	}
	respondJSON(w, http.StatusOK, users)
}

// handleUpload stores a multipart file in the object store under a
// fresh uuid-based key and returns the key.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	if s.objects == nil {
		respondError(w, http.StatusServiceUnavailable, "object storage not configured")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	f, header, err := r.FormFile("file")
	if err != nil {
		respondError(w, http.StatusBadRequest, "missing file field")
		return
	}
	defer func() { _ = f.Close() }()

	key := uuid.NewString() + safeExt(header.Filename)
	n, err := s.objects.Put(r.Context(), key, f)
	if err != nil {
		s.logger.Error("upload failed", "key", key, "error", err)
		respondError(w, http.StatusInternalServerError, "upload failed")
		return
	}
	if s.metrics != nil {
		s.metrics.UploadBytes(n)
	}
	s.logger.Info("stored upload", "key", key, "bytes", n)
	respondJSON(w, http.StatusCreated, map[string]any{"key": key, "size": n})
}

// handleGetUpload streams a stored object back. The content type comes
// from the same fixed extension table the asset service uses.
func (s *Server) handleGetUpload(w http.ResponseWriter, r *http.Request) {
	if s.objects == nil {
		respondError(w, http.StatusServiceUnavailable, "object storage not configured")
		return
	}
	key := chi.URLParam(r, "key")
	rc, err := s.objects.Open(r.Context(), key)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			respondError(w, http.StatusNotFound, "object not found")
			return
		}
		respondError(w, http.StatusBadRequest, "invalid object key")
		return
	}
	defer func() { _ = rc.Close() }()

	w.Header().Set("Content-Type", assets.TypeByPath(key))
	w.Header().Set("X-Content-Type-Options", "nosniff")
	if _, err := io.Copy(w, rc); err != nil {
		s.logger.Debug("object stream interrupted", "key", key, "error", err)
	}
}

// handleDeleteUpload forwards to the object store.
func (s *Server) handleDeleteUpload(w http.ResponseWriter, r *http.Request) {
	if s.objects == nil {
		respondError(w, http.StatusServiceUnavailable, "object storage not configured")
		return
	}
	key := chi.URLParam(r, "key")
	if err := s.objects.Delete(r.Context(), key); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			respondError(w, http.StatusNotFound, "object not found")
			return
		}
		respondError(w, http.StatusBadRequest, "invalid object key")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleImageProxy forwards to the outbound fetcher.
func (s *Server) handleImageProxy(w http.ResponseWriter, r *http.Request) {
	if s.imageProxy == nil {
		respondError(w, http.StatusNotFound, "image proxy not configured")
		return
	}
	s.imageProxy.ServeHTTP(w, r)
}

// safeExt returns a lower-cased extension safe to append to a generated
// object key. Anything suspicious is dropped rather than sanitized.
func safeExt(filename string) string {
	ext := strings.ToLower(filepath.Ext(filepath.Base(filename)))
	if ext == "." || strings.ContainsAny(ext, "/\\") {
		return ""
	}
	return ext
}
