package registrydb

import (
	"context"
	"log"

	"github.com/uptrace/bun"

	"github.com/rentgrid/registry-middleware/pkg/eventstore"
	mghelper "github.com/rentgrid/registry-middleware/pkg/pgutil/migrations"
)

// On-chain events are deduplicated by (transaction_hash, type, asset_id) so a
// redelivered webhook cannot insert the same log twice. Off-chain events carry
// no transaction hash and are exempt from the constraint.
const onChainDedupIndex = `
CREATE UNIQUE INDEX IF NOT EXISTS idx_events_onchain_dedup
ON events (transaction_hash, type, asset_id)
WHERE source = 'on-chain'`

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		log.Println("creating events table...")
		if err := mghelper.CreateSchema(ctx, db, &eventstore.EventDao{}); err != nil {
			return err
		}
		if err := mghelper.CreateModelIndexes(ctx, db, &eventstore.EventDao{}, "asset_id", "process_id", "type"); err != nil {
			return err
		}
		_, err := db.ExecContext(ctx, onChainDedupIndex)
		return err
	}, func(ctx context.Context, db *bun.DB) error {
		log.Println("dropping events table...")
		return mghelper.DropTables(ctx, db, &eventstore.EventDao{})
	})
}
