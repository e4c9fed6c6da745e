package registry

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	apperrors "github.com/rentgrid/registry-middleware/pkg/app/errors"
	"github.com/rentgrid/registry-middleware/pkg/event"
	"github.com/rentgrid/registry-middleware/pkg/process"
	"github.com/rentgrid/registry-middleware/pkg/processstore"
	"github.com/rentgrid/registry-middleware/pkg/template"
)

const (
	ownerAddr  = "0x1111111111111111111111111111111111111111"
	renterAddr = "0x2222222222222222222222222222222222222222"
	templateID = "7a0e8a6e-60c3-4f34-9f4e-111111111111"
)

func rentalTemplate() *template.Template {
	return &template.Template{
		ID:   templateID,
		Name: "Rental",
		Type: "rental",
		Roles: []template.Role{
			{Name: process.RoleOwner, Label: "Owner"},
			{Name: process.RoleRenter, Label: "Renter"},
		},
		Terms: template.Terms{
			Price:        decimal.NewFromInt(100),
			Currency:     "EUR",
			Duration:     7,
			DurationUnit: template.UnitDays,
			Deposit:      decimal.NewFromInt(50),
		},
	}
}

func newTestService(events *MockEventStore, assets *MockAssetStore, processes *MockProcessStore, pr *MockProjector) Service {
	if events == nil {
		events = &MockEventStore{}
	}
	if assets == nil {
		assets = &MockAssetStore{}
	}
	if processes == nil {
		processes = &MockProcessStore{}
	}
	if pr == nil {
		pr = &MockProjector{}
	}
	return NewService(events, assets, processes, pr, zap.NewNop())
}

func TestSubmitEvent(t *testing.T) {
	events := &MockEventStore{}
	pr := &MockProjector{}
	svc := newTestService(events, nil, nil, pr)

	resp, err := svc.SubmitEvent(context.Background(), &SubmitEventRequest{
		Type:    event.TypeReturnVerified,
		AssetID: 7,
		Sender:  ownerAddr,
	})
	if err != nil {
		t.Fatalf("SubmitEvent() failed: %v", err)
	}
	if resp.Source != string(event.SourceOffChain) {
		t.Errorf("source = %s, want off-chain", resp.Source)
	}
	if resp.ID == "" {
		t.Errorf("stored event has no id")
	}
	if resp.Timestamp == 0 {
		t.Errorf("timestamp not defaulted")
	}
	if len(pr.Applied) != 1 {
		t.Fatalf("event not projected")
	}
}

func TestSubmitEvent_Validation(t *testing.T) {
	events := &MockEventStore{}
	svc := newTestService(events, nil, nil, nil)

	cases := []struct {
		name string
		req  SubmitEventRequest
	}{
		{"missing type", SubmitEventRequest{AssetID: 1, Sender: ownerAddr}},
		{"missing sender", SubmitEventRequest{Type: event.TypeCreated, AssetID: 1}},
		{"bad sender", SubmitEventRequest{Type: event.TypeCreated, AssetID: 1, Sender: "not-an-address"}},
		{"bad process ref", SubmitEventRequest{Type: event.TypeCreated, AssetID: 1, Sender: ownerAddr, ProcessID: "zz"}},
		{"bad proof hash", SubmitEventRequest{Type: event.TypeCreated, AssetID: 1, Sender: ownerAddr, ProofHash: "0x1234"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.SubmitEvent(context.Background(), &tc.req)
			if !apperrors.Is(err, apperrors.CategoryDataError) {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
	if len(events.Inserted) != 0 {
		t.Fatalf("rejected submissions must not store events")
	}
}

func TestSubmitEvent_ProjectionFailureDoesNotFail(t *testing.T) {
	pr := &MockProjector{
		ApplyFunc: func(context.Context, *event.Event) error {
			return processstore.ErrProcessNotFound
		},
	}
	svc := newTestService(nil, nil, nil, pr)

	_, err := svc.SubmitEvent(context.Background(), &SubmitEventRequest{
		Type:    event.TypeCreated,
		AssetID: 1,
		Sender:  ownerAddr,
	})
	if err != nil {
		t.Fatalf("projection failure must not fail submission: %v", err)
	}
}

func TestCreateProcess(t *testing.T) {
	processes := &MockProcessStore{
		GetTemplateFunc: func(_ context.Context, id string) (*template.Template, error) {
			if id != templateID {
				return nil, processstore.ErrTemplateNotFound
			}
			return rentalTemplate(), nil
		},
	}
	svc := newTestService(nil, nil, processes, nil)

	resp, err := svc.CreateProcess(context.Background(), &CreateProcessRequest{
		AssetID:    7,
		TemplateID: templateID,
		Owner:      ownerAddr,
		Participants: []process.Participant{
			{Role: process.RoleOwner, Address: ownerAddr},
			{Role: process.RoleRenter, Address: renterAddr},
		},
	})
	if err != nil {
		t.Fatalf("CreateProcess() failed: %v", err)
	}
	if resp.Status != process.StatusDraft {
		t.Errorf("status = %s, want DRAFT", resp.Status)
	}
	if len(resp.ID) != 24 {
		t.Errorf("process id %q is not a 24-char reference", resp.ID)
	}
}

func TestCreateProcess_ParticipantMismatch(t *testing.T) {
	processes := &MockProcessStore{
		GetTemplateFunc: func(context.Context, string) (*template.Template, error) {
			return rentalTemplate(), nil
		},
		CreateFunc: func(context.Context, *process.Process) error {
			t.Fatal("mismatched participants must not create a process")
			return nil
		},
	}
	svc := newTestService(nil, nil, processes, nil)

	_, err := svc.CreateProcess(context.Background(), &CreateProcessRequest{
		AssetID:    7,
		TemplateID: templateID,
		Owner:      ownerAddr,
		Participants: []process.Participant{
			{Role: process.RoleOwner, Address: ownerAddr},
		},
	})
	if !apperrors.Is(err, apperrors.CategoryDataError) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestCreateProcess_UnknownTemplate(t *testing.T) {
	svc := newTestService(nil, nil, &MockProcessStore{}, nil)

	_, err := svc.CreateProcess(context.Background(), &CreateProcessRequest{
		AssetID:    7,
		TemplateID: templateID,
		Owner:      ownerAddr,
		Participants: []process.Participant{
			{Role: process.RoleOwner, Address: ownerAddr},
			{Role: process.RoleRenter, Address: renterAddr},
		},
	})
	if !apperrors.Is(err, apperrors.CategoryDataError) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestUpdateProcessTerms_ErrorMapping(t *testing.T) {
	terms := TermsRequest{
		Price:        decimal.NewFromInt(120),
		Currency:     "EUR",
		Duration:     7,
		DurationUnit: template.UnitDays,
		Deposit:      decimal.NewFromInt(50),
	}

	svc := newTestService(nil, nil, &MockProcessStore{
		UpdateTermsFunc: func(context.Context, string, process.Terms) (*process.Process, error) {
			return nil, processstore.ErrNotNegotiating
		},
	}, nil)
	_, err := svc.UpdateProcessTerms(context.Background(), "abc", &UpdateProcessTermsRequest{Terms: terms})
	if !apperrors.Is(err, apperrors.CategoryDataConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}

	svc = newTestService(nil, nil, &MockProcessStore{}, nil)
	_, err = svc.UpdateProcessTerms(context.Background(), "abc", &UpdateProcessTermsRequest{Terms: terms})
	if !apperrors.Is(err, apperrors.CategoryResourceNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	bad := terms
	bad.DurationUnit = "fortnights"
	_, err = svc.UpdateProcessTerms(context.Background(), "abc", &UpdateProcessTermsRequest{Terms: bad})
	if !apperrors.Is(err, apperrors.CategoryDataError) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestCreateTemplate_Validation(t *testing.T) {
	svc := newTestService(nil, nil, &MockProcessStore{}, nil)

	req := &TemplateRequest{
		Name: "Rental",
		Type: "rental",
		Roles: []template.Role{
			{Name: process.RoleOwner},
			{Name: process.RoleOwner},
		},
		Terms: TemplateTermsRequest{
			Currency:     "EUR",
			Duration:     7,
			DurationUnit: template.UnitDays,
		},
	}
	// Duplicate role names fail the template's own validation.
	if _, err := svc.CreateTemplate(context.Background(), req); !apperrors.Is(err, apperrors.CategoryDataError) {
		t.Fatalf("expected validation error, got %v", err)
	}

	req.Roles[1].Name = process.RoleRenter
	resp, err := svc.CreateTemplate(context.Background(), req)
	if err != nil {
		t.Fatalf("CreateTemplate() failed: %v", err)
	}
	if resp.ID == "" {
		t.Fatalf("template has no id")
	}
}

func TestAssetMetadata_NotFound(t *testing.T) {
	svc := newTestService(nil, &MockAssetStore{}, nil, nil)

	_, err := svc.UpdateAssetMetadata(context.Background(), 99, &UpdateAssetMetadataRequest{Title: "Bike"})
	if !apperrors.Is(err, apperrors.CategoryResourceNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
