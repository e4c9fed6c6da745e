package filestore

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	apperrors "github.com/rentgrid/registry-middleware/pkg/app/errors"
	apphttp "github.com/rentgrid/registry-middleware/pkg/app/http"
)

// HTTP serves upload and download endpoints for proof documents.
type HTTP struct {
	store    Store
	maxBytes int64
	logger   *zap.Logger
}

// RegisterRoutes registers the upload endpoints on the given chi router.
func RegisterRoutes(r chi.Router, store Store, maxBytes int64, logger *zap.Logger) {
	h := &HTTP{store: store, maxBytes: maxBytes, logger: logger}

	r.Route("/uploads", func(r chi.Router) {
		r.Post("/", apphttp.HandleError(h.upload))
		r.Get("/{filename}", apphttp.HandleError(h.download))
	})
}

func (h *HTTP) upload(w http.ResponseWriter, r *http.Request) error {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes)
	if err := r.ParseMultipartForm(h.maxBytes); err != nil {
		return apperrors.BadRequestError(err, "invalid multipart request")
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		return apperrors.BadRequestError(err, "missing file field")
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		return apperrors.BadRequestError(err, "failed to read file")
	}
	if int64(len(content)) > h.maxBytes {
		return apperrors.BadRequestError(nil, fmt.Sprintf("file exceeds %d bytes", h.maxBytes))
	}

	stored, err := h.store.Save(r.Context(), header.Filename, content)
	if err != nil {
		return apperrors.GeneralError(fmt.Errorf("failed to store upload: %w", err))
	}

	h.logger.Info("Stored proof document",
		zap.String("name", stored.Name),
		zap.String("hash", stored.Hash),
		zap.Int64("size", stored.Size))

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(stored); err != nil {
		h.logger.Warn("Failed to encode response", zap.Error(err))
	}
	return nil
}

func (h *HTTP) download(w http.ResponseWriter, r *http.Request) error {
	name := chi.URLParam(r, "filename")

	f, err := h.store.Open(r.Context(), name)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return apperrors.ResourceNotFoundError(err, "file not found")
		}
		return apperrors.GeneralError(fmt.Errorf("failed to open upload: %w", err))
	}
	defer f.Close()

	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=%q", name))
	if _, err := io.Copy(w, f); err != nil {
		h.logger.Warn("Failed to stream upload", zap.Error(err))
	}
	return nil
}
