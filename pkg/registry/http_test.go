package registry

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/rentgrid/registry-middleware/pkg/event"
	"github.com/rentgrid/registry-middleware/pkg/eventstore"
)

func newTestRouter(svc Service) http.Handler {
	r := chi.NewRouter()
	RegisterRoutes(r, svc, zap.NewNop())
	return r
}

func TestSubmitEventHTTP(t *testing.T) {
	events := &MockEventStore{}
	handler := newTestRouter(newTestService(events, nil, nil, nil))

	body := `{"type":"CREATED","assetId":7,"sender":"` + ownerAddr + `"}`
	req := httptest.NewRequest(http.MethodPost, "/events", bytes.NewBufferString(body))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	var got EventResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if got.Type != event.TypeCreated || got.AssetID != 7 || got.Source != string(event.SourceOffChain) {
		t.Fatalf("unexpected response: %+v", got)
	}
}

func TestSubmitEventHTTP_InvalidJSON(t *testing.T) {
	handler := newTestRouter(newTestService(nil, nil, nil, nil))

	req := httptest.NewRequest(http.MethodPost, "/events", bytes.NewBufferString("{invalid"))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}

	var got struct {
		Error string `json:"error"`
		Code  int    `json:"code"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode error response: %v", err)
	}
	if got.Error != "invalid JSON" || got.Code != http.StatusBadRequest {
		t.Fatalf("unexpected error body: %+v", got)
	}
}

func TestSubmitEventHTTP_RejectedNothingStored(t *testing.T) {
	events := &MockEventStore{}
	handler := newTestRouter(newTestService(events, nil, nil, nil))

	body := `{"type":"CREATED","assetId":7,"sender":"` + ownerAddr + `","proofHash":"0xnot"}`
	req := httptest.NewRequest(http.MethodPost, "/events", bytes.NewBufferString(body))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if len(events.Inserted) != 0 {
		t.Fatalf("rejected submission must not store an event")
	}
}

func TestListEventsHTTP_Filters(t *testing.T) {
	events := &MockEventStore{
		ListFunc: func(_ context.Context, opts ...eventstore.QueryOption) ([]*event.Event, error) {
			var q eventstore.QueryOptions
			for _, opt := range opts {
				opt(&q)
			}
			if q.AssetID == nil || *q.AssetID != 7 {
				t.Fatalf("asset filter not forwarded: %+v", q)
			}
			if q.ProcessID == nil || *q.ProcessID != "6898f1cb8f8bd0b4d6678932" {
				t.Fatalf("process filter not forwarded: %+v", q)
			}
			return []*event.Event{{ID: "e1", Type: event.TypeCreated, Source: event.SourceOnChain, AssetID: 7}}, nil
		},
		CountFunc: func(context.Context, ...eventstore.QueryOption) (int, error) {
			return 1, nil
		},
	}
	handler := newTestRouter(newTestService(events, nil, nil, nil))

	req := httptest.NewRequest(http.MethodGet, "/events?asset_id=7&process_id=6898f1cb8f8bd0b4d6678932", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var got EventListResult
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if got.Total != 1 || len(got.Events) != 1 {
		t.Fatalf("unexpected listing: %+v", got)
	}
}

func TestGetAssetHTTP_BadID(t *testing.T) {
	handler := newTestRouter(newTestService(nil, nil, nil, nil))

	req := httptest.NewRequest(http.MethodGet, "/assets/not-a-number", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestGetProcessHTTP_NotFound(t *testing.T) {
	handler := newTestRouter(newTestService(nil, nil, nil, nil))

	req := httptest.NewRequest(http.MethodGet, "/processes/6898f1cb8f8bd0b4d6678932", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestDeleteTemplateHTTP(t *testing.T) {
	processes := &MockProcessStore{
		DeleteTemplateFunc: func(context.Context, string) error { return nil },
	}
	handler := newTestRouter(newTestService(nil, nil, processes, nil))

	req := httptest.NewRequest(http.MethodDelete, "/templates/"+templateID, nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", rec.Code)
	}
}
