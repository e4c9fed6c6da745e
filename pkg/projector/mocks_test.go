package projector

import (
	"context"

	"github.com/rentgrid/registry-middleware/pkg/asset"
	"github.com/rentgrid/registry-middleware/pkg/process"
	"github.com/rentgrid/registry-middleware/pkg/processstore"
	"github.com/rentgrid/registry-middleware/pkg/template"
)

// MockAssetStore is a mock implementation of AssetStore
type MockAssetStore struct {
	CreateIfAbsentFunc     func(ctx context.Context, a *asset.Asset) (bool, error)
	SetLatestProofHashFunc func(ctx context.Context, id int64, proofHash string) error
}

func (m *MockAssetStore) CreateIfAbsent(ctx context.Context, a *asset.Asset) (bool, error) {
	if m.CreateIfAbsentFunc != nil {
		return m.CreateIfAbsentFunc(ctx, a)
	}
	return false, nil
}

func (m *MockAssetStore) SetLatestProofHash(ctx context.Context, id int64, proofHash string) error {
	if m.SetLatestProofHashFunc != nil {
		return m.SetLatestProofHashFunc(ctx, id, proofHash)
	}
	return nil
}

// MockProcessStore is a mock implementation of ProcessStore. It keeps a
// single in-memory process and applies updates the way the real store does.
type MockProcessStore struct {
	Process    *process.Process
	MutateFunc func(ctx context.Context, id string, fn processstore.MutateFunc) (*process.Process, error)
}

func (m *MockProcessStore) Mutate(ctx context.Context, id string, fn processstore.MutateFunc) (*process.Process, error) {
	if m.MutateFunc != nil {
		return m.MutateFunc(ctx, id, fn)
	}
	if m.Process == nil || m.Process.ID != id {
		return nil, processstore.ErrProcessNotFound
	}
	update, err := fn(m.Process)
	if err != nil {
		return nil, err
	}
	applyToProcess(m.Process, update)
	return m.Process, nil
}

func applyToProcess(p *process.Process, update process.Update) {
	if update.Status != nil {
		p.Status = *update.Status
	}
	if update.AgreedTerms != nil {
		terms := *update.AgreedTerms
		p.AgreedTerms = &terms
	}
	if update.OwnerAccepted != nil {
		p.OwnerAccepted = *update.OwnerAccepted
	}
	if update.RenterAccepted != nil {
		p.RenterAccepted = *update.RenterAccepted
	}
	if update.NegotiationDeadline != nil {
		deadline := *update.NegotiationDeadline
		p.NegotiationDeadline = &deadline
	}
	if update.StartDate != nil {
		start := *update.StartDate
		p.StartDate = &start
	}
	if update.EndDate != nil {
		end := *update.EndDate
		p.EndDate = &end
	}
	if update.DepositResolution != nil {
		p.DepositResolution = *update.DepositResolution
	}
}

// MockTemplateGetter is a mock implementation of TemplateGetter
type MockTemplateGetter struct {
	GetTemplateFunc func(ctx context.Context, id string) (*template.Template, error)
}

func (m *MockTemplateGetter) GetTemplate(ctx context.Context, id string) (*template.Template, error) {
	if m.GetTemplateFunc != nil {
		return m.GetTemplateFunc(ctx, id)
	}
	return nil, processstore.ErrTemplateNotFound
}
