package webhook

import (
	"context"

	"github.com/google/uuid"

	"github.com/rentgrid/registry-middleware/pkg/event"
	"github.com/rentgrid/registry-middleware/pkg/eventstore"
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
