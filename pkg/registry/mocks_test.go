package registry

import (
	"context"

	"github.com/google/uuid"

	"github.com/rentgrid/registry-middleware/pkg/asset"
	"github.com/rentgrid/registry-middleware/pkg/assetstore"
	"github.com/rentgrid/registry-middleware/pkg/event"
	"github.com/rentgrid/registry-middleware/pkg/eventstore"
	"github.com/rentgrid/registry-middleware/pkg/process"
	"github.com/rentgrid/registry-middleware/pkg/processstore"
	"github.com/rentgrid/registry-middleware/pkg/template"
)

// MockEventStore is a mock implementation of eventstore.Store
type MockEventStore struct {
	InsertFunc  func(ctx context.Context, evt *event.Event) (*event.Event, bool, error)
	GetByIDFunc func(ctx context.Context, id string) (*event.Event, error)
	ListFunc    func(ctx context.Context, opts ...eventstore.QueryOption) ([]*event.Event, error)
	CountFunc   func(ctx context.Context, opts ...eventstore.QueryOption) (int, error)

	Inserted []*event.Event
}

func (m *MockEventStore) Insert(ctx context.Context, evt *event.Event) (*event.Event, bool, error) {
	if m.InsertFunc != nil {
		return m.InsertFunc(ctx, evt)
	}
	evt.ID = uuid.NewString()
	m.Inserted = append(m.Inserted, evt)
	return evt, true, nil
}

func (m *MockEventStore) GetByID(ctx context.Context, id string) (*event.Event, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, eventstore.ErrEventNotFound
}

func (m *MockEventStore) List(ctx context.Context, opts ...eventstore.QueryOption) ([]*event.Event, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, opts...)
	}
	return nil, nil
}

func (m *MockEventStore) Count(ctx context.Context, opts ...eventstore.QueryOption) (int, error) {
	if m.CountFunc != nil {
		return m.CountFunc(ctx, opts...)
	}
	return 0, nil
}

// MockAssetStore is a mock implementation of assetstore.Store
type MockAssetStore struct {
	CreateIfAbsentFunc     func(ctx context.Context, a *asset.Asset) (bool, error)
	GetByIDFunc            func(ctx context.Context, id int64) (*asset.Asset, error)
	ListFunc               func(ctx context.Context, opts ...assetstore.QueryOption) ([]*asset.Asset, error)
	SetLatestProofHashFunc func(ctx context.Context, id int64, proofHash string) error
	SetMetadataFunc        func(ctx context.Context, id int64, md asset.Metadata) error
}

func (m *MockAssetStore) CreateIfAbsent(ctx context.Context, a *asset.Asset) (bool, error) {
	if m.CreateIfAbsentFunc != nil {
		return m.CreateIfAbsentFunc(ctx, a)
	}
	return false, nil
}

func (m *MockAssetStore) GetByID(ctx context.Context, id int64) (*asset.Asset, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, assetstore.ErrAssetNotFound
}

func (m *MockAssetStore) List(ctx context.Context, opts ...assetstore.QueryOption) ([]*asset.Asset, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, opts...)
	}
	return nil, nil
}

func (m *MockAssetStore) SetLatestProofHash(ctx context.Context, id int64, proofHash string) error {
	if m.SetLatestProofHashFunc != nil {
		return m.SetLatestProofHashFunc(ctx, id, proofHash)
	}
	return nil
}

func (m *MockAssetStore) SetMetadata(ctx context.Context, id int64, md asset.Metadata) error {
	if m.SetMetadataFunc != nil {
		return m.SetMetadataFunc(ctx, id, md)
	}
	return nil
}

// MockProcessStore is a mock implementation of processstore.Store
type MockProcessStore struct {
	CreateFunc      func(ctx context.Context, p *process.Process) error
	GetByIDFunc     func(ctx context.Context, id string) (*process.Process, error)
	ListFunc        func(ctx context.Context, opts ...processstore.QueryOption) ([]*process.Process, error)
	MutateFunc      func(ctx context.Context, id string, fn processstore.MutateFunc) (*process.Process, error)
	UpdateTermsFunc func(ctx context.Context, id string, terms process.Terms) (*process.Process, error)

	CreateTemplateFunc func(ctx context.Context, t *template.Template) error
	GetTemplateFunc    func(ctx context.Context, id string) (*template.Template, error)
	ListTemplatesFunc  func(ctx context.Context, opts ...processstore.TemplateQueryOption) ([]*template.Template, error)
	UpdateTemplateFunc func(ctx context.Context, t *template.Template) error
	DeleteTemplateFunc func(ctx context.Context, id string) error
}

func (m *MockProcessStore) Create(ctx context.Context, p *process.Process) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, p)
	}
	p.ID = event.NewProcessRef()
	p.Status = process.StatusDraft
	return nil
}

func (m *MockProcessStore) GetByID(ctx context.Context, id string) (*process.Process, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, processstore.ErrProcessNotFound
}

func (m *MockProcessStore) List(ctx context.Context, opts ...processstore.QueryOption) ([]*process.Process, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, opts...)
	}
	return nil, nil
}

func (m *MockProcessStore) Mutate(ctx context.Context, id string, fn processstore.MutateFunc) (*process.Process, error) {
	if m.MutateFunc != nil {
		return m.MutateFunc(ctx, id, fn)
	}
	return nil, processstore.ErrProcessNotFound
}

func (m *MockProcessStore) UpdateTerms(ctx context.Context, id string, terms process.Terms) (*process.Process, error) {
	if m.UpdateTermsFunc != nil {
		return m.UpdateTermsFunc(ctx, id, terms)
	}
	return nil, processstore.ErrProcessNotFound
}

func (m *MockProcessStore) CreateTemplate(ctx context.Context, t *template.Template) error {
	if m.CreateTemplateFunc != nil {
		return m.CreateTemplateFunc(ctx, t)
	}
	t.ID = uuid.NewString()
	return nil
}

func (m *MockProcessStore) GetTemplate(ctx context.Context, id string) (*template.Template, error) {
	if m.GetTemplateFunc != nil {
		return m.GetTemplateFunc(ctx, id)
	}
	return nil, processstore.ErrTemplateNotFound
}

func (m *MockProcessStore) ListTemplates(ctx context.Context, opts ...processstore.TemplateQueryOption) ([]*template.Template, error) {
	if m.ListTemplatesFunc != nil {
		return m.ListTemplatesFunc(ctx, opts...)
	}
	return nil, nil
}

func (m *MockProcessStore) UpdateTemplate(ctx context.Context, t *template.Template) error {
	if m.UpdateTemplateFunc != nil {
		return m.UpdateTemplateFunc(ctx, t)
	}
	return processstore.ErrTemplateNotFound
}

func (m *MockProcessStore) DeleteTemplate(ctx context.Context, id string) error {
	if m.DeleteTemplateFunc != nil {
		return m.DeleteTemplateFunc(ctx, id)
	}
	return processstore.ErrTemplateNotFound
}

// MockProjector is a mock implementation of EventProjector
type MockProjector struct {
	ApplyFunc func(ctx context.Context, evt *event.Event) error

	Applied []*event.Event
}

func (m *MockProjector) Apply(ctx context.Context, evt *event.Event) error {
	if m.ApplyFunc != nil {
		return m.ApplyFunc(ctx, evt)
	}
	m.Applied = append(m.Applied, evt)
	return nil
}
