// Package assetstore persists the asset projection.
package assetstore

import (
	"context"
	"errors"

	"github.com/rentgrid/registry-middleware/pkg/asset"
)

// ErrAssetNotFound is returned when an asset lookup finds no matching record.
var ErrAssetNotFound = errors.New("asset not found")

// Store defines the interface for asset projection persistence.
type Store interface {
	// CreateIfAbsent inserts the asset unless a row with its id already
	// exists. Returns true when the row was created.
	CreateIfAbsent(ctx context.Context, a *asset.Asset) (bool, error)
	GetByID(ctx context.Context, id int64) (*asset.Asset, error)
	List(ctx context.Context, opts ...QueryOption) ([]*asset.Asset, error)
	// SetLatestProofHash unconditionally overwrites the stored proof hash.
	SetLatestProofHash(ctx context.Context, id int64, proofHash string) error
	// SetMetadata replaces the owner-editable display fields.
	SetMetadata(ctx context.Context, id int64, md asset.Metadata) error
}

// QueryOptions defines options for querying assets
type QueryOptions struct {
	Creator  *string
	Category *string
	Limit    int
	Offset   int
}

// QueryOption is a functional option for querying assets
type QueryOption func(*QueryOptions)

// WithCreator filters assets by creator address
func WithCreator(creator string) QueryOption {
	return func(opts *QueryOptions) {
		opts.Creator = &creator
	}
}

// WithCategory filters assets by display category
func WithCategory(category string) QueryOption {
	return func(opts *QueryOptions) {
		opts.Category = &category
	}
}

// WithPagination sets result window boundaries
func WithPagination(limit, offset int) QueryOption {
	return func(opts *QueryOptions) {
		opts.Limit = limit
		opts.Offset = offset
	}
}
