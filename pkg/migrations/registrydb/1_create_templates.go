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
		log.Println("creating templates table...")
		if err := mghelper.CreateSchema(ctx, db, &processstore.TemplateDao{}); err != nil {
			return err
		}
		return mghelper.CreateModelIndexes(ctx, db, &processstore.TemplateDao{}, "type", "creator")
	}, func(ctx context.Context, db *bun.DB) error {
		log.Println("dropping templates table...")
		return mghelper.DropTables(ctx, db, &processstore.TemplateDao{})
	})
}
