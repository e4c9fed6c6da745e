package webhook

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/rentgrid/registry-middleware/internal/metrics"
	apperrors "github.com/rentgrid/registry-middleware/pkg/app/errors"
	"github.com/rentgrid/registry-middleware/pkg/config"
	"github.com/rentgrid/registry-middleware/pkg/event"
	"github.com/rentgrid/registry-middleware/pkg/eventstore"
)

// maxBodySize bounds webhook request bodies. Deliveries batch at most a few
// hundred logs, well under this.
const maxBodySize = 4 << 20

// EventProjector applies a stored event to the asset and process projections.
type EventProjector interface {
	Apply(ctx context.Context, evt *event.Event) error
}

// Handler receives signed webhook deliveries from the log provider.
type Handler struct {
	events          eventstore.Store
	projector       EventProjector
	signingKey      string
	contractAddress string
	logger          *zap.Logger
}

// NewHandler creates a webhook handler.
func NewHandler(events eventstore.Store, pr EventProjector, cfg *config.Config, logger *zap.Logger) *Handler {
	return &Handler{
		events:          events,
		projector:       pr,
		signingKey:      cfg.Webhook.SigningKey,
		contractAddress: cfg.Registry.ContractAddress,
		logger:          logger,
	}
}

// deliveryResponse acknowledges a processed delivery. events is the number of
// decoded registry events, including redeliveries already in the log.
type deliveryResponse struct {
	Received bool `json:"received"`
	Events   int  `json:"events"`
}

// HandleDelivery processes one webhook delivery. The signature is checked
// over the raw body before anything is parsed. Decoded events are appended to
// the event log and projected; a projection failure is logged but never fails
// the delivery, since the event is already committed and redelivery would
// only collapse against the dedup key.
func (h *Handler) HandleDelivery(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize))
	if err != nil {
		metrics.WebhookDeliveries.WithLabelValues("read_error").Inc()
		return apperrors.BadRequestError(err, "failed to read request body")
	}

	if h.signingKey == "" {
		metrics.WebhookDeliveries.WithLabelValues("unconfigured").Inc()
		return apperrors.GeneralError(errors.New("webhook signing key not configured"))
	}
	if h.contractAddress == "" {
		metrics.WebhookDeliveries.WithLabelValues("unconfigured").Inc()
		return apperrors.GeneralError(errors.New("registry contract address not configured"))
	}
	if !VerifySignature(body, r.Header.Get(SignatureHeader), h.signingKey) {
		metrics.WebhookDeliveries.WithLabelValues("invalid_signature").Inc()
		return apperrors.UnAuthorizedError(nil, "invalid webhook signature")
	}

	var payload Payload
	if err := json.Unmarshal(body, &payload); err != nil {
		metrics.WebhookDeliveries.WithLabelValues("invalid_payload").Inc()
		return apperrors.BadRequestError(err, "invalid JSON payload")
	}

	logs := CollectContractLogs(&payload, h.contractAddress)
	events := DecodeEvents(logs, h.logger)

	for _, evt := range events {
		stored, inserted, err := h.events.Insert(ctx, evt)
		if err != nil {
			h.logger.Error("Failed to store webhook event",
				zap.Error(err),
				zap.String("event_type", evt.Type),
				zap.String("tx_hash", evt.TransactionHash),
			)
			continue
		}
		if !inserted {
			metrics.EventsDeduplicated.WithLabelValues(stored.Type).Inc()
			continue
		}
		metrics.EventsIngested.WithLabelValues(string(event.SourceOnChain), stored.Type).Inc()

		if err := h.projector.Apply(ctx, stored); err != nil {
			h.logger.Error("Projection failed for webhook event",
				zap.Error(err),
				zap.String("event_id", stored.ID),
				zap.String("event_type", stored.Type),
			)
		}
	}

	metrics.WebhookDeliveries.WithLabelValues("accepted").Inc()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	return json.NewEncoder(w).Encode(&deliveryResponse{Received: true, Events: len(events)})
}
