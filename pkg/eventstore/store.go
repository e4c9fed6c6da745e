// Package eventstore persists the append-only event log.
package eventstore

import (
	"context"
	"errors"

	"github.com/rentgrid/registry-middleware/pkg/event"
)

// ErrEventNotFound is returned when an event lookup finds no matching record.
var ErrEventNotFound = errors.New("event not found")

// Store defines the interface for event log persistence. Events are append
// only: there are no update or delete operations.
type Store interface {
	// Insert stores an event and returns it with its assigned identifier.
	// On-chain events carrying a transaction hash are deduplicated on
	// (transaction_hash, type, asset_id); a duplicate returns the stored
	// event with inserted=false and is otherwise a no-op.
	Insert(ctx context.Context, evt *event.Event) (stored *event.Event, inserted bool, err error)
	GetByID(ctx context.Context, id string) (*event.Event, error)
	List(ctx context.Context, opts ...QueryOption) ([]*event.Event, error)
	Count(ctx context.Context, opts ...QueryOption) (int, error)
}

// QueryOptions defines options for querying events
type QueryOptions struct {
	AssetID   *int64
	ProcessID *string
	Type      *string
	Source    *event.Source
	Sender    *string
	Limit     int
	Offset    int
}

// QueryOption is a functional option for querying events
type QueryOption func(*QueryOptions)

// WithAssetID filters events by asset
func WithAssetID(assetID int64) QueryOption {
	return func(opts *QueryOptions) {
		opts.AssetID = &assetID
	}
}

// WithProcessID filters events by process reference
func WithProcessID(processID string) QueryOption {
	return func(opts *QueryOptions) {
		opts.ProcessID = &processID
	}
}

// WithType filters events by type
func WithType(eventType string) QueryOption {
	return func(opts *QueryOptions) {
		opts.Type = &eventType
	}
}

// WithSource filters events by delivery channel
func WithSource(source event.Source) QueryOption {
	return func(opts *QueryOptions) {
		opts.Source = &source
	}
}

// WithSender filters events by sender address
func WithSender(sender string) QueryOption {
	return func(opts *QueryOptions) {
		opts.Sender = &sender
	}
}

// WithPagination sets result window boundaries
func WithPagination(limit, offset int) QueryOption {
	return func(opts *QueryOptions) {
		opts.Limit = limit
		opts.Offset = offset
	}
}
