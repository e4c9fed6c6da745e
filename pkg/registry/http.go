package registry

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	apperrors "github.com/rentgrid/registry-middleware/pkg/app/errors"
	apphttp "github.com/rentgrid/registry-middleware/pkg/app/http"
)

// requestBodyLimit bounds API request bodies.
const requestBodyLimit = 1 << 20

// HTTP wraps the Service to provide HTTP endpoints
type HTTP struct {
	service Service
	logger  *zap.Logger
}

// RegisterRoutes registers the registry REST endpoints on the given chi router.
func RegisterRoutes(r chi.Router, service Service, logger *zap.Logger) {
	h := &HTTP{
		service: service,
		logger:  logger,
	}

	r.Route("/events", func(r chi.Router) {
		r.Post("/", apphttp.HandleError(h.submitEvent))
		r.Get("/", apphttp.HandleError(h.listEvents))
		r.Get("/{id}", apphttp.HandleError(h.getEvent))
	})

	r.Route("/processes", func(r chi.Router) {
		r.Post("/", apphttp.HandleError(h.createProcess))
		r.Get("/", apphttp.HandleError(h.listProcesses))
		r.Get("/{id}", apphttp.HandleError(h.getProcess))
		r.Patch("/{id}", apphttp.HandleError(h.updateProcessTerms))
	})

	r.Route("/templates", func(r chi.Router) {
		r.Post("/", apphttp.HandleError(h.createTemplate))
		r.Get("/", apphttp.HandleError(h.listTemplates))
		r.Get("/{id}", apphttp.HandleError(h.getTemplate))
		r.Put("/{id}", apphttp.HandleError(h.updateTemplate))
		r.Delete("/{id}", apphttp.HandleError(h.deleteTemplate))
	})

	r.Route("/assets", func(r chi.Router) {
		r.Get("/", apphttp.HandleError(h.listAssets))
		r.Get("/{assetId}", apphttp.HandleError(h.getAsset))
		r.Patch("/{assetId}", apphttp.HandleError(h.updateAssetMetadata))
	})
}

func (h *HTTP) submitEvent(w http.ResponseWriter, r *http.Request) error {
	var req SubmitEventRequest
	if err := h.readJSON(r, &req); err != nil {
		return err
	}
	resp, err := h.service.SubmitEvent(r.Context(), &req)
	if err != nil {
		return err
	}
	h.writeJSON(w, http.StatusCreated, resp)
	return nil
}

func (h *HTTP) listEvents(w http.ResponseWriter, r *http.Request) error {
	q := EventQuery{
		ProcessID: r.URL.Query().Get("process_id"),
		Type:      r.URL.Query().Get("type"),
		Source:    r.URL.Query().Get("source"),
		Sender:    r.URL.Query().Get("sender"),
	}
	assetID, err := optionalInt64(r, "asset_id")
	if err != nil {
		return err
	}
	q.AssetID = assetID
	q.Limit, q.Offset, err = pagination(r)
	if err != nil {
		return err
	}

	resp, err := h.service.ListEvents(r.Context(), q)
	if err != nil {
		return err
	}
	h.writeJSON(w, http.StatusOK, resp)
	return nil
}

func (h *HTTP) getEvent(w http.ResponseWriter, r *http.Request) error {
	resp, err := h.service.GetEvent(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		return err
	}
	h.writeJSON(w, http.StatusOK, resp)
	return nil
}

func (h *HTTP) createProcess(w http.ResponseWriter, r *http.Request) error {
	var req CreateProcessRequest
	if err := h.readJSON(r, &req); err != nil {
		return err
	}
	resp, err := h.service.CreateProcess(r.Context(), &req)
	if err != nil {
		return err
	}
	h.writeJSON(w, http.StatusCreated, resp)
	return nil
}

func (h *HTTP) listProcesses(w http.ResponseWriter, r *http.Request) error {
	q := ProcessQuery{
		Status:      r.URL.Query().Get("status"),
		Participant: r.URL.Query().Get("participant"),
	}
	assetID, err := optionalInt64(r, "asset_id")
	if err != nil {
		return err
	}
	q.AssetID = assetID
	q.Limit, q.Offset, err = pagination(r)
	if err != nil {
		return err
	}

	resp, err := h.service.ListProcesses(r.Context(), q)
	if err != nil {
		return err
	}
	h.writeJSON(w, http.StatusOK, resp)
	return nil
}

func (h *HTTP) getProcess(w http.ResponseWriter, r *http.Request) error {
	resp, err := h.service.GetProcess(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		return err
	}
	h.writeJSON(w, http.StatusOK, resp)
	return nil
}

func (h *HTTP) updateProcessTerms(w http.ResponseWriter, r *http.Request) error {
	var req UpdateProcessTermsRequest
	if err := h.readJSON(r, &req); err != nil {
		return err
	}
	resp, err := h.service.UpdateProcessTerms(r.Context(), chi.URLParam(r, "id"), &req)
	if err != nil {
		return err
	}
	h.writeJSON(w, http.StatusOK, resp)
	return nil
}

func (h *HTTP) createTemplate(w http.ResponseWriter, r *http.Request) error {
	var req TemplateRequest
	if err := h.readJSON(r, &req); err != nil {
		return err
	}
	resp, err := h.service.CreateTemplate(r.Context(), &req)
	if err != nil {
		return err
	}
	h.writeJSON(w, http.StatusCreated, resp)
	return nil
}

func (h *HTTP) listTemplates(w http.ResponseWriter, r *http.Request) error {
	q := TemplateQuery{
		Creator: r.URL.Query().Get("creator"),
		Type:    r.URL.Query().Get("type"),
	}
	resp, err := h.service.ListTemplates(r.Context(), q)
	if err != nil {
		return err
	}
	h.writeJSON(w, http.StatusOK, resp)
	return nil
}

func (h *HTTP) getTemplate(w http.ResponseWriter, r *http.Request) error {
	resp, err := h.service.GetTemplate(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		return err
	}
	h.writeJSON(w, http.StatusOK, resp)
	return nil
}

func (h *HTTP) updateTemplate(w http.ResponseWriter, r *http.Request) error {
	var req TemplateRequest
	if err := h.readJSON(r, &req); err != nil {
		return err
	}
	resp, err := h.service.UpdateTemplate(r.Context(), chi.URLParam(r, "id"), &req)
	if err != nil {
		return err
	}
	h.writeJSON(w, http.StatusOK, resp)
	return nil
}

func (h *HTTP) deleteTemplate(w http.ResponseWriter, r *http.Request) error {
	if err := h.service.DeleteTemplate(r.Context(), chi.URLParam(r, "id")); err != nil {
		return err
	}
	w.WriteHeader(http.StatusNoContent)
	return nil
}

func (h *HTTP) listAssets(w http.ResponseWriter, r *http.Request) error {
	q := AssetQuery{
		Creator:  r.URL.Query().Get("creator"),
		Category: r.URL.Query().Get("category"),
	}
	var err error
	q.Limit, q.Offset, err = pagination(r)
	if err != nil {
		return err
	}

	resp, err := h.service.ListAssets(r.Context(), q)
	if err != nil {
		return err
	}
	h.writeJSON(w, http.StatusOK, resp)
	return nil
}

func (h *HTTP) getAsset(w http.ResponseWriter, r *http.Request) error {
	assetID, err := assetIDParam(r)
	if err != nil {
		return err
	}
	resp, err := h.service.GetAsset(r.Context(), assetID)
	if err != nil {
		return err
	}
	h.writeJSON(w, http.StatusOK, resp)
	return nil
}

func (h *HTTP) updateAssetMetadata(w http.ResponseWriter, r *http.Request) error {
	assetID, err := assetIDParam(r)
	if err != nil {
		return err
	}
	var req UpdateAssetMetadataRequest
	if err := h.readJSON(r, &req); err != nil {
		return err
	}
	resp, err := h.service.UpdateAssetMetadata(r.Context(), assetID, &req)
	if err != nil {
		return err
	}
	h.writeJSON(w, http.StatusOK, resp)
	return nil
}

func (h *HTTP) readJSON(r *http.Request, dst any) error {
	body, err := io.ReadAll(io.LimitReader(r.Body, requestBodyLimit))
	if err != nil {
		return apperrors.BadRequestError(err, "failed to read request")
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return apperrors.BadRequestError(err, "invalid JSON")
	}
	return nil
}

func (h *HTTP) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Warn("Failed to encode response", zap.Error(err))
	}
}

func assetIDParam(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "assetId")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.BadRequestError(err, "assetId must be a positive integer")
	}
	return id, nil
}

func optionalInt64(r *http.Request, key string) (*int64, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, apperrors.BadRequestError(err, key+" must be an integer")
	}
	return &v, nil
}

func pagination(r *http.Request) (limit, offset int, err error) {
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil || limit < 0 {
			return 0, 0, apperrors.BadRequestError(err, "limit must be a non-negative integer")
		}
	}
	if raw := r.URL.Query().Get("offset"); raw != "" {
		offset, err = strconv.Atoi(raw)
		if err != nil || offset < 0 {
			return 0, 0, apperrors.BadRequestError(err, "offset must be a non-negative integer")
		}
	}
	return limit, offset, nil
}
