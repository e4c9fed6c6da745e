package registrydb

import (
	"context"
	"log"

	"github.com/uptrace/bun"

	"github.com/rentgrid/registry-middleware/pkg/assetstore"
	mghelper "github.com/rentgrid/registry-middleware/pkg/pgutil/migrations"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		log.Println("creating assets table...")
		if err := mghelper.CreateSchema(ctx, db, &assetstore.AssetDao{}); err != nil {
			return err
		}
		return mghelper.CreateModelIndexes(ctx, db, &assetstore.AssetDao{}, "creator", "category")
	}, func(ctx context.Context, db *bun.DB) error {
		log.Println("dropping assets table...")
		return mghelper.DropTables(ctx, db, &assetstore.AssetDao{})
	})
}
