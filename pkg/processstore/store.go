// Package processstore persists processes and their templates.
//
// Process mutations are linearized per process: Mutate takes a row lock
// before invoking its callback, so two events for the same process can never
// interleave their read-evaluate-write cycles.
package processstore

import (
	"context"
	"errors"

	"github.com/rentgrid/registry-middleware/pkg/process"
	"github.com/rentgrid/registry-middleware/pkg/template"
)

// ErrProcessNotFound is returned when a process lookup finds no matching record.
var ErrProcessNotFound = errors.New("process not found")

// ErrTemplateNotFound is returned when a template lookup finds no matching record.
var ErrTemplateNotFound = errors.New("template not found")

// ErrNotNegotiating is returned when terms are edited outside the
// negotiation phase.
var ErrNotNegotiating = errors.New("terms can only change while negotiating")

// MutateFunc inspects a locked process and returns the update to apply.
// Returning a zero Update leaves the process untouched.
type MutateFunc func(p *process.Process) (process.Update, error)

// Store defines the interface for process and template persistence.
type Store interface {
	TemplateStore

	Create(ctx context.Context, p *process.Process) error
	GetByID(ctx context.Context, id string) (*process.Process, error)
	List(ctx context.Context, opts ...QueryOption) ([]*process.Process, error)

	// Mutate loads the process under a row lock, passes it to fn and applies
	// the returned update in the same transaction.
	Mutate(ctx context.Context, id string, fn MutateFunc) (*process.Process, error)

	// UpdateTerms replaces the agreed terms while the process is negotiating.
	// When any negotiated field changes, both acceptance flags reset.
	UpdateTerms(ctx context.Context, id string, terms process.Terms) (*process.Process, error)
}

// TemplateStore defines the interface for template persistence.
type TemplateStore interface {
	CreateTemplate(ctx context.Context, t *template.Template) error
	GetTemplate(ctx context.Context, id string) (*template.Template, error)
	ListTemplates(ctx context.Context, opts ...TemplateQueryOption) ([]*template.Template, error)
	UpdateTemplate(ctx context.Context, t *template.Template) error
	DeleteTemplate(ctx context.Context, id string) error
}

// QueryOptions defines options for querying processes
type QueryOptions struct {
	AssetID     *int64
	Status      *process.Status
	Participant *string
	Limit       int
	Offset      int
}

// QueryOption is a functional option for querying processes
type QueryOption func(*QueryOptions)

// WithAssetID filters processes by asset
func WithAssetID(assetID int64) QueryOption {
	return func(opts *QueryOptions) {
		opts.AssetID = &assetID
	}
}

// WithStatus filters processes by status
func WithStatus(status process.Status) QueryOption {
	return func(opts *QueryOptions) {
		opts.Status = &status
	}
}

// WithParticipant filters processes where the address fills any role
func WithParticipant(address string) QueryOption {
	return func(opts *QueryOptions) {
		opts.Participant = &address
	}
}

// WithPagination sets result window boundaries
func WithPagination(limit, offset int) QueryOption {
	return func(opts *QueryOptions) {
		opts.Limit = limit
		opts.Offset = offset
	}
}

// TemplateQueryOptions defines options for querying templates
type TemplateQueryOptions struct {
	Creator *string
	Type    *string
}

// TemplateQueryOption is a functional option for querying templates
type TemplateQueryOption func(*TemplateQueryOptions)

// WithCreator filters templates by creator address
func WithCreator(creator string) TemplateQueryOption {
	return func(opts *TemplateQueryOptions) {
		opts.Creator = &creator
	}
}

// WithTemplateType filters templates by type
func WithTemplateType(templateType string) TemplateQueryOption {
	return func(opts *TemplateQueryOptions) {
		opts.Type = &templateType
	}
}
