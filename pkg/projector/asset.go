package projector

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/rentgrid/registry-middleware/pkg/asset"
	"github.com/rentgrid/registry-middleware/pkg/assetstore"
	"github.com/rentgrid/registry-middleware/pkg/event"
)

// AssetStore defines the asset operations the projector needs.
type AssetStore interface {
	CreateIfAbsent(ctx context.Context, a *asset.Asset) (bool, error)
	SetLatestProofHash(ctx context.Context, id int64, proofHash string) error
}

// projectAsset maintains the asset row for one stored event: the first
// CREATED event materializes the asset, and any later non-zero proof hash
// overwrites the stored one. No recency check is made against the event
// timestamp; the last processed hash wins.
func (pr *Projector) projectAsset(ctx context.Context, evt *event.Event) error {
	hasProof := !event.IsZeroProofHash(evt.ProofHash)

	if evt.Type == event.TypeCreated {
		a := &asset.Asset{
			ID:      evt.AssetID,
			Creator: evt.Sender,
		}
		if hasProof {
			a.LatestProofHash = evt.ProofHash
		}

		created, err := pr.assets.CreateIfAbsent(ctx, a)
		if err != nil {
			return err
		}
		if created {
			pr.logger.Info("Asset created",
				zap.Int64("asset_id", evt.AssetID),
				zap.String("creator", evt.Sender),
			)
			return nil
		}
		// Redelivered CREATED: fall through so a proof hash still lands.
	}

	if !hasProof {
		return nil
	}

	err := pr.assets.SetLatestProofHash(ctx, evt.AssetID, evt.ProofHash)
	if errors.Is(err, assetstore.ErrAssetNotFound) {
		// A proof for an asset whose CREATED event has not arrived yet.
		pr.logger.Debug("Proof hash for unknown asset",
			zap.Int64("asset_id", evt.AssetID),
			zap.String("event_id", evt.ID),
		)
		return nil
	}
	return err
}
