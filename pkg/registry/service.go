// Package registry exposes the off-chain REST surface: direct event
// submission, event queries, process and template management and the asset
// projection read side.
package registry

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/rentgrid/registry-middleware/internal/metrics"
	apperrors "github.com/rentgrid/registry-middleware/pkg/app/errors"
	"github.com/rentgrid/registry-middleware/pkg/assetstore"
	"github.com/rentgrid/registry-middleware/pkg/event"
	"github.com/rentgrid/registry-middleware/pkg/eventstore"
	"github.com/rentgrid/registry-middleware/pkg/process"
	"github.com/rentgrid/registry-middleware/pkg/processstore"
)

// EventProjector applies a stored event to the asset and process projections.
type EventProjector interface {
	Apply(ctx context.Context, evt *event.Event) error
}

// Service defines the registry API business logic.
type Service interface {
	SubmitEvent(ctx context.Context, req *SubmitEventRequest) (*EventResponse, error)
	GetEvent(ctx context.Context, id string) (*EventResponse, error)
	ListEvents(ctx context.Context, q EventQuery) (*EventListResult, error)

	CreateProcess(ctx context.Context, req *CreateProcessRequest) (*ProcessResponse, error)
	GetProcess(ctx context.Context, id string) (*ProcessResponse, error)
	ListProcesses(ctx context.Context, q ProcessQuery) ([]*ProcessResponse, error)
	UpdateProcessTerms(ctx context.Context, id string, req *UpdateProcessTermsRequest) (*ProcessResponse, error)

	CreateTemplate(ctx context.Context, req *TemplateRequest) (*TemplateResponse, error)
	GetTemplate(ctx context.Context, id string) (*TemplateResponse, error)
	ListTemplates(ctx context.Context, q TemplateQuery) ([]*TemplateResponse, error)
	UpdateTemplate(ctx context.Context, id string, req *TemplateRequest) (*TemplateResponse, error)
	DeleteTemplate(ctx context.Context, id string) error

	GetAsset(ctx context.Context, id int64) (*AssetResponse, error)
	ListAssets(ctx context.Context, q AssetQuery) ([]*AssetResponse, error)
	UpdateAssetMetadata(ctx context.Context, id int64, req *UpdateAssetMetadataRequest) (*AssetResponse, error)
}

type registryService struct {
	events    eventstore.Store
	assets    assetstore.Store
	processes processstore.Store
	projector EventProjector
	logger    *zap.Logger
}

// NewService creates the registry service.
func NewService(
	events eventstore.Store,
	assets assetstore.Store,
	processes processstore.Store,
	projector EventProjector,
	logger *zap.Logger,
) Service {
	return &registryService{
		events:    events,
		assets:    assets,
		processes: processes,
		projector: projector,
		logger:    logger,
	}
}

// SubmitEvent validates and stores a direct off-chain event and runs the
// projections over it. Validation failures reject the request before
// anything is stored; a projection failure after the insert does not, since
// the event is already committed and the projection can be replayed.
func (s *registryService) SubmitEvent(ctx context.Context, req *SubmitEventRequest) (*EventResponse, error) {
	if err := validate.Struct(req); err != nil {
		return nil, apperrors.BadRequestError(err, "invalid event submission")
	}
	if req.ProofHash != "" && !event.ValidProofHash(req.ProofHash) {
		return nil, apperrors.BadRequestError(nil, "proofHash must be a 0x-prefixed 32-byte hex string")
	}

	timestamp := req.Timestamp
	if timestamp == 0 {
		timestamp = time.Now().Unix()
	}

	evt := &event.Event{
		Type:      req.Type,
		Source:    event.SourceOffChain,
		AssetID:   req.AssetID,
		ProcessID: req.ProcessID,
		Sender:    req.Sender,
		ProofHash: req.ProofHash,
		Timestamp: timestamp,
		Validator: req.Validator,
		Metadata:  req.Metadata,
	}

	stored, _, err := s.events.Insert(ctx, evt)
	if err != nil {
		return nil, fmt.Errorf("failed to store event: %w", err)
	}
	metrics.EventsIngested.WithLabelValues(string(event.SourceOffChain), stored.Type).Inc()

	if err := s.projector.Apply(ctx, stored); err != nil {
		s.logger.Error("Projection failed for submitted event",
			zap.Error(err),
			zap.String("event_id", stored.ID),
			zap.String("event_type", stored.Type),
		)
	}

	return toEventResponse(stored), nil
}

func (s *registryService) GetEvent(ctx context.Context, id string) (*EventResponse, error) {
	evt, err := s.events.GetByID(ctx, id)
	if errors.Is(err, eventstore.ErrEventNotFound) {
		return nil, apperrors.ResourceNotFoundError(err, "event not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load event: %w", err)
	}
	return toEventResponse(evt), nil
}

func (s *registryService) ListEvents(ctx context.Context, q EventQuery) (*EventListResult, error) {
	opts := eventQueryOptions(q)

	events, err := s.events.List(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	total, err := s.events.Count(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to count events: %w", err)
	}
	return &EventListResult{Events: toEventResponses(events), Total: total}, nil
}

func eventQueryOptions(q EventQuery) []eventstore.QueryOption {
	var opts []eventstore.QueryOption
	if q.AssetID != nil {
		opts = append(opts, eventstore.WithAssetID(*q.AssetID))
	}
	if q.ProcessID != "" {
		opts = append(opts, eventstore.WithProcessID(q.ProcessID))
	}
	if q.Type != "" {
		opts = append(opts, eventstore.WithType(q.Type))
	}
	if q.Source != "" {
		opts = append(opts, eventstore.WithSource(event.Source(q.Source)))
	}
	if q.Sender != "" {
		opts = append(opts, eventstore.WithSender(q.Sender))
	}
	if q.Limit > 0 || q.Offset > 0 {
		opts = append(opts, eventstore.WithPagination(q.Limit, q.Offset))
	}
	return opts
}

// CreateProcess instantiates a template as a DRAFT process. Participants
// must fill exactly the template's role set.
func (s *registryService) CreateProcess(ctx context.Context, req *CreateProcessRequest) (*ProcessResponse, error) {
	if err := validate.Struct(req); err != nil {
		return nil, apperrors.BadRequestError(err, "invalid process request")
	}

	tpl, err := s.processes.GetTemplate(ctx, req.TemplateID)
	if errors.Is(err, processstore.ErrTemplateNotFound) {
		return nil, apperrors.BadRequestError(err, "unknown template")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load template: %w", err)
	}

	if err := process.ValidateParticipants(req.Participants, tpl); err != nil {
		return nil, apperrors.BadRequestError(err, err.Error())
	}

	p := &process.Process{
		AssetID:      req.AssetID,
		TemplateID:   tpl.ID,
		Owner:        req.Owner,
		Participants: req.Participants,
	}
	if err := s.processes.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to create process: %w", err)
	}

	s.logger.Info("Process created",
		zap.String("process_id", p.ID),
		zap.Int64("asset_id", p.AssetID),
		zap.String("template_id", p.TemplateID),
	)
	return toProcessResponse(p), nil
}

func (s *registryService) GetProcess(ctx context.Context, id string) (*ProcessResponse, error) {
	p, err := s.processes.GetByID(ctx, id)
	if errors.Is(err, processstore.ErrProcessNotFound) {
		return nil, apperrors.ResourceNotFoundError(err, "process not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load process: %w", err)
	}
	return toProcessResponse(p), nil
}

func (s *registryService) ListProcesses(ctx context.Context, q ProcessQuery) ([]*ProcessResponse, error) {
	var opts []processstore.QueryOption
	if q.AssetID != nil {
		opts = append(opts, processstore.WithAssetID(*q.AssetID))
	}
	if q.Status != "" {
		status := process.Status(q.Status)
		if !status.Valid() {
			return nil, apperrors.BadRequestError(nil, fmt.Sprintf("unknown status %q", q.Status))
		}
		opts = append(opts, processstore.WithStatus(status))
	}
	if q.Participant != "" {
		opts = append(opts, processstore.WithParticipant(q.Participant))
	}
	if q.Limit > 0 || q.Offset > 0 {
		opts = append(opts, processstore.WithPagination(q.Limit, q.Offset))
	}

	processes, err := s.processes.List(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to list processes: %w", err)
	}
	return toProcessResponses(processes), nil
}

// UpdateProcessTerms replaces the agreed terms of a negotiating process.
// The store's guard resets both acceptance flags when any negotiated field
// actually changes.
func (s *registryService) UpdateProcessTerms(ctx context.Context, id string, req *UpdateProcessTermsRequest) (*ProcessResponse, error) {
	if err := validate.Struct(req); err != nil {
		return nil, apperrors.BadRequestError(err, "invalid terms")
	}
	if !req.Terms.DurationUnit.Valid() {
		return nil, apperrors.BadRequestError(nil, fmt.Sprintf("unknown duration unit %q", req.Terms.DurationUnit))
	}
	if req.Terms.Price.IsNegative() || req.Terms.Deposit.IsNegative() {
		return nil, apperrors.BadRequestError(nil, "price and deposit must not be negative")
	}

	p, err := s.processes.UpdateTerms(ctx, id, req.Terms.toTerms())
	switch {
	case errors.Is(err, processstore.ErrProcessNotFound):
		return nil, apperrors.ResourceNotFoundError(err, "process not found")
	case errors.Is(err, processstore.ErrNotNegotiating):
		return nil, apperrors.ConflictError(err, "terms can only change while negotiating")
	case err != nil:
		return nil, fmt.Errorf("failed to update terms: %w", err)
	}
	return toProcessResponse(p), nil
}

func (s *registryService) CreateTemplate(ctx context.Context, req *TemplateRequest) (*TemplateResponse, error) {
	if err := validate.Struct(req); err != nil {
		return nil, apperrors.BadRequestError(err, "invalid template")
	}

	tpl := req.toTemplate()
	if err := tpl.Validate(); err != nil {
		return nil, apperrors.BadRequestError(err, err.Error())
	}
	if err := s.processes.CreateTemplate(ctx, tpl); err != nil {
		return nil, fmt.Errorf("failed to create template: %w", err)
	}

	s.logger.Info("Template created",
		zap.String("template_id", tpl.ID),
		zap.String("name", tpl.Name),
	)
	return toTemplateResponse(tpl), nil
}

func (s *registryService) GetTemplate(ctx context.Context, id string) (*TemplateResponse, error) {
	tpl, err := s.processes.GetTemplate(ctx, id)
	if errors.Is(err, processstore.ErrTemplateNotFound) {
		return nil, apperrors.ResourceNotFoundError(err, "template not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load template: %w", err)
	}
	return toTemplateResponse(tpl), nil
}

func (s *registryService) ListTemplates(ctx context.Context, q TemplateQuery) ([]*TemplateResponse, error) {
	var opts []processstore.TemplateQueryOption
	if q.Creator != "" {
		opts = append(opts, processstore.WithCreator(q.Creator))
	}
	if q.Type != "" {
		opts = append(opts, processstore.WithTemplateType(q.Type))
	}

	templates, err := s.processes.ListTemplates(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to list templates: %w", err)
	}
	return toTemplateResponses(templates), nil
}

func (s *registryService) UpdateTemplate(ctx context.Context, id string, req *TemplateRequest) (*TemplateResponse, error) {
	if err := validate.Struct(req); err != nil {
		return nil, apperrors.BadRequestError(err, "invalid template")
	}

	tpl := req.toTemplate()
	tpl.ID = id
	if err := tpl.Validate(); err != nil {
		return nil, apperrors.BadRequestError(err, err.Error())
	}

	err := s.processes.UpdateTemplate(ctx, tpl)
	if errors.Is(err, processstore.ErrTemplateNotFound) {
		return nil, apperrors.ResourceNotFoundError(err, "template not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update template: %w", err)
	}
	return s.GetTemplate(ctx, id)
}

func (s *registryService) DeleteTemplate(ctx context.Context, id string) error {
	err := s.processes.DeleteTemplate(ctx, id)
	if errors.Is(err, processstore.ErrTemplateNotFound) {
		return apperrors.ResourceNotFoundError(err, "template not found")
	}
	if err != nil {
		return fmt.Errorf("failed to delete template: %w", err)
	}
	return nil
}

func (s *registryService) GetAsset(ctx context.Context, id int64) (*AssetResponse, error) {
	a, err := s.assets.GetByID(ctx, id)
	if errors.Is(err, assetstore.ErrAssetNotFound) {
		return nil, apperrors.ResourceNotFoundError(err, "asset not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load asset: %w", err)
	}
	return toAssetResponse(a), nil
}

func (s *registryService) ListAssets(ctx context.Context, q AssetQuery) ([]*AssetResponse, error) {
	var opts []assetstore.QueryOption
	if q.Creator != "" {
		opts = append(opts, assetstore.WithCreator(q.Creator))
	}
	if q.Category != "" {
		opts = append(opts, assetstore.WithCategory(q.Category))
	}
	if q.Limit > 0 || q.Offset > 0 {
		opts = append(opts, assetstore.WithPagination(q.Limit, q.Offset))
	}

	assets, err := s.assets.List(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to list assets: %w", err)
	}
	return toAssetResponses(assets), nil
}

// UpdateAssetMetadata replaces the display metadata of an asset. The
// projection-owned fields (creator, latestProofHash) are not touchable here.
func (s *registryService) UpdateAssetMetadata(ctx context.Context, id int64, req *UpdateAssetMetadataRequest) (*AssetResponse, error) {
	if err := validate.Struct(req); err != nil {
		return nil, apperrors.BadRequestError(err, "invalid metadata")
	}

	err := s.assets.SetMetadata(ctx, id, req.toMetadata())
	if errors.Is(err, assetstore.ErrAssetNotFound) {
		return nil, apperrors.ResourceNotFoundError(err, "asset not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update asset metadata: %w", err)
	}
	return s.GetAsset(ctx, id)
}
