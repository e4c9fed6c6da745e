package registrydb

import (
	"context"
	"log"

	"github.com/uptrace/bun"

	mghelper "github.com/rentgrid/registry-middleware/pkg/pgutil/migrations"
	"github.com/rentgrid/registry-middleware/pkg/processstore"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		log.Println("creating processes table...")
		if err := mghelper.CreateSchema(ctx, db, &processstore.ProcessDao{}); err != nil {
			return err
		}
		return mghelper.CreateModelIndexes(ctx, db, &processstore.ProcessDao{}, "asset_id", "template_id", "status")
	}, func(ctx context.Context, db *bun.DB) error {
		log.Println("dropping processes table...")
		return mghelper.DropTables(ctx, db, &processstore.ProcessDao{})
	})
}
