package projector

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/rentgrid/registry-middleware/pkg/asset"
	"github.com/rentgrid/registry-middleware/pkg/event"
	"github.com/rentgrid/registry-middleware/pkg/process"
	"github.com/rentgrid/registry-middleware/pkg/processstore"
	"github.com/rentgrid/registry-middleware/pkg/template"
)

func TestProjector_AppliesTransition(t *testing.T) {
	ctx := context.Background()

	store := &MockProcessStore{Process: newTestProcess(process.StatusDraft)}
	pr := New(&MockAssetStore{}, store, &MockTemplateGetter{}, zap.NewNop())

	if err := pr.Apply(ctx, newProcessEvent(event.TypeRentalInitiated, renterAddr)); err != nil {
		t.Fatalf("Apply() failed: %v", err)
	}
	if store.Process.Status != process.StatusPendingRenter {
		t.Fatalf("transition not applied: %s", store.Process.Status)
	}

	// Redelivery of the same event is a no-op against the new status.
	if err := pr.Apply(ctx, newProcessEvent(event.TypeRentalInitiated, renterAddr)); err != nil {
		t.Fatalf("Apply(redelivery) failed: %v", err)
	}
	if store.Process.Status != process.StatusPendingRenter {
		t.Fatalf("redelivery corrupted state: %s", store.Process.Status)
	}
}

func TestProjector_FetchesTemplateForParticipation(t *testing.T) {
	ctx := context.Background()

	p := newTestProcess(process.StatusPendingRenter)
	p.AgreedTerms = nil
	store := &MockProcessStore{Process: p}

	templates := &MockTemplateGetter{
		GetTemplateFunc: func(_ context.Context, id string) (*template.Template, error) {
			if id != p.TemplateID {
				t.Fatalf("unexpected template lookup: %s", id)
			}
			return &template.Template{
				ID:    id,
				Terms: template.Terms{Duration: 7, DurationUnit: template.UnitDays, Currency: "EUR"},
			}, nil
		},
	}
	pr := New(&MockAssetStore{}, store, templates, zap.NewNop())

	if err := pr.Apply(ctx, newProcessEvent(event.TypeParticipationConfirmed, renterAddr)); err != nil {
		t.Fatalf("Apply() failed: %v", err)
	}
	if store.Process.Status != process.StatusTermsAgreed {
		t.Fatalf("expected TERMS_AGREED, got %s", store.Process.Status)
	}
	if store.Process.AgreedTerms == nil {
		t.Fatalf("terms snapshot not persisted")
	}
}

func TestProjector_UnknownProcessIsSkipped(t *testing.T) {
	ctx := context.Background()

	pr := New(&MockAssetStore{}, &MockProcessStore{}, &MockTemplateGetter{}, zap.NewNop())

	// No process in the store: the event is logged and dropped.
	if err := pr.Apply(ctx, newProcessEvent(event.TypeRentalInitiated, renterAddr)); err != nil {
		t.Fatalf("unknown process must not be an error, got %v", err)
	}
}

func TestProjector_EventWithoutProcessSkipsStateMachine(t *testing.T) {
	ctx := context.Background()

	store := &MockProcessStore{
		MutateFunc: func(context.Context, string, processstore.MutateFunc) (*process.Process, error) {
			t.Fatalf("state machine must not run without a process reference")
			return nil, nil
		},
	}
	pr := New(&MockAssetStore{}, store, &MockTemplateGetter{}, zap.NewNop())

	evt := newAssetEvent(event.TypeCreated, 9, "")
	if err := pr.Apply(ctx, evt); err != nil {
		t.Fatalf("Apply() failed: %v", err)
	}
}

func TestProjector_ReportsProjectionFailure(t *testing.T) {
	ctx := context.Background()

	boom := errors.New("store down")
	assets := &MockAssetStore{
		CreateIfAbsentFunc: func(context.Context, *asset.Asset) (bool, error) {
			return false, boom
		},
	}
	pr := New(assets, &MockProcessStore{}, &MockTemplateGetter{}, zap.NewNop())

	err := pr.Apply(ctx, newAssetEvent(event.TypeCreated, 1, ""))
	if !errors.Is(err, boom) {
		t.Fatalf("expected projection failure to surface, got %v", err)
	}
}
