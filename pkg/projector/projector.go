// Package projector reacts to newly stored events and maintains the asset
// and process projections over the event log.
package projector

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/rentgrid/registry-middleware/internal/metrics"
	"github.com/rentgrid/registry-middleware/pkg/event"
	"github.com/rentgrid/registry-middleware/pkg/process"
	"github.com/rentgrid/registry-middleware/pkg/processstore"
	"github.com/rentgrid/registry-middleware/pkg/template"
)

// ProcessStore defines the process operations the projector needs.
type ProcessStore interface {
	Mutate(ctx context.Context, id string, fn processstore.MutateFunc) (*process.Process, error)
}

// TemplateGetter resolves the template a process was instantiated from.
type TemplateGetter interface {
	GetTemplate(ctx context.Context, id string) (*template.Template, error)
}

// Projector applies every stored event to the asset and process projections.
// Projection failures never unwind the event insert: the event log is the
// source of truth and projections can be replayed from it.
type Projector struct {
	assets    AssetStore
	processes ProcessStore
	templates TemplateGetter
	logger    *zap.Logger
}

// New creates a projector over the given stores.
func New(assets AssetStore, processes ProcessStore, templates TemplateGetter, logger *zap.Logger) *Projector {
	return &Projector{
		assets:    assets,
		processes: processes,
		templates: templates,
		logger:    logger,
	}
}

// Apply runs both projections for one stored event. The returned error is
// diagnostic: callers that already acknowledged the event to its producer
// should log it rather than propagate it.
func (pr *Projector) Apply(ctx context.Context, evt *event.Event) error {
	var errs []error

	start := time.Now()
	if err := pr.projectAsset(ctx, evt); err != nil {
		metrics.ProjectionErrors.WithLabelValues("asset").Inc()
		pr.logger.Error("Asset projection failed",
			zap.String("event_id", evt.ID),
			zap.Int64("asset_id", evt.AssetID),
			zap.Error(err),
		)
		errs = append(errs, err)
	}
	metrics.ProjectionDuration.WithLabelValues("asset").Observe(time.Since(start).Seconds())

	if evt.ProcessID != "" {
		start = time.Now()
		if err := pr.projectProcess(ctx, evt); err != nil {
			metrics.ProjectionErrors.WithLabelValues("process").Inc()
			pr.logger.Error("Process projection failed",
				zap.String("event_id", evt.ID),
				zap.String("process_id", evt.ProcessID),
				zap.Error(err),
			)
			errs = append(errs, err)
		}
		metrics.ProjectionDuration.WithLabelValues("process").Observe(time.Since(start).Seconds())
	}

	return errors.Join(errs...)
}

// projectProcess applies the state machine under the process row lock, so
// concurrent events for one process serialize their read-evaluate-write.
func (pr *Projector) projectProcess(ctx context.Context, evt *event.Event) error {
	result, err := pr.processes.Mutate(ctx, evt.ProcessID, func(p *process.Process) (process.Update, error) {
		var tpl *template.Template
		if evt.Type == event.TypeParticipationConfirmed {
			var err error
			tpl, err = pr.templates.GetTemplate(ctx, p.TemplateID)
			if err != nil {
				return process.Update{}, err
			}
		}

		update, applied, err := NextState(p, tpl, evt)
		if err != nil {
			return process.Update{}, err
		}
		if !applied {
			metrics.TransitionsIgnored.WithLabelValues(evt.Type, string(p.Status)).Inc()
			pr.logger.Debug("Event ignored for current process status",
				zap.String("event_id", evt.ID),
				zap.String("event_type", evt.Type),
				zap.String("process_id", p.ID),
				zap.String("status", string(p.Status)),
			)
			return process.Update{}, nil
		}
		return update, nil
	})
	if err != nil {
		if errors.Is(err, processstore.ErrProcessNotFound) {
			// An on-chain reference to a process this store never created.
			pr.logger.Warn("Event references unknown process",
				zap.String("event_id", evt.ID),
				zap.String("process_id", evt.ProcessID),
			)
			return nil
		}
		return err
	}

	metrics.Transitions.WithLabelValues(evt.Type, string(result.Status)).Inc()
	return nil
}
