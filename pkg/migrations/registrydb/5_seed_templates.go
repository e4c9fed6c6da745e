package registrydb

import (
	"context"
	_ "embed"
	"fmt"
	"log"

	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"
	"gopkg.in/yaml.v3"

	"github.com/rentgrid/registry-middleware/pkg/processstore"
	"github.com/rentgrid/registry-middleware/pkg/template"
)

//go:embed seed_templates.yaml
var seedTemplatesYAML []byte

type seedFile struct {
	Templates []seedTemplate `yaml:"templates"`
}

type seedTemplate struct {
	ID          string          `yaml:"id"`
	Name        string          `yaml:"name"`
	Type        string          `yaml:"type"`
	Description string          `yaml:"description"`
	Creator     string          `yaml:"creator"`
	Roles       []template.Role `yaml:"roles"`
	Terms       seedTerms       `yaml:"terms"`
}

type seedTerms struct {
	Price               string                `yaml:"price"`
	Currency            string                `yaml:"currency"`
	Duration            int64                 `yaml:"duration"`
	DurationUnit        template.DurationUnit `yaml:"duration_unit"`
	Deposit             string                `yaml:"deposit"`
	Negotiable          bool                  `yaml:"negotiable"`
	NegotiationDuration int64                 `yaml:"negotiation_duration"`
}

func (s seedTemplate) toDao() (*processstore.TemplateDao, error) {
	price, err := decimal.NewFromString(s.Terms.Price)
	if err != nil {
		return nil, fmt.Errorf("template %q: invalid price: %w", s.Name, err)
	}
	deposit, err := decimal.NewFromString(s.Terms.Deposit)
	if err != nil {
		return nil, fmt.Errorf("template %q: invalid deposit: %w", s.Name, err)
	}

	tpl := &template.Template{
		ID:          s.ID,
		Name:        s.Name,
		Type:        s.Type,
		Description: s.Description,
		Creator:     s.Creator,
		Roles:       s.Roles,
		Terms: template.Terms{
			Price:               price,
			Currency:            s.Terms.Currency,
			Duration:            s.Terms.Duration,
			DurationUnit:        s.Terms.DurationUnit,
			Deposit:             deposit,
			Negotiable:          s.Terms.Negotiable,
			NegotiationDuration: s.Terms.NegotiationDuration,
		},
	}
	if err := tpl.Validate(); err != nil {
		return nil, fmt.Errorf("template %q: %w", s.Name, err)
	}

	return &processstore.TemplateDao{
		ID:          tpl.ID,
		Name:        tpl.Name,
		Type:        tpl.Type,
		Description: tpl.Description,
		Creator:     tpl.Creator,
		Roles:       tpl.Roles,
		Terms:       tpl.Terms,
	}, nil
}

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		log.Println("seeding default templates...")

		var seeds seedFile
		if err := yaml.Unmarshal(seedTemplatesYAML, &seeds); err != nil {
			return fmt.Errorf("failed to parse template seed data: %w", err)
		}

		for _, seed := range seeds.Templates {
			dao, err := seed.toDao()
			if err != nil {
				return err
			}
			// Re-running the migration must not duplicate or overwrite
			// templates an operator has since edited.
			if _, err := db.NewInsert().
				Model(dao).
				On("CONFLICT (id) DO NOTHING").
				Exec(ctx); err != nil {
				return fmt.Errorf("failed to seed template %q: %w", seed.Name, err)
			}
		}
		return nil
	}, func(ctx context.Context, db *bun.DB) error {
		log.Println("removing seeded templates...")

		var seeds seedFile
		if err := yaml.Unmarshal(seedTemplatesYAML, &seeds); err != nil {
			return fmt.Errorf("failed to parse template seed data: %w", err)
		}

		ids := make([]string, 0, len(seeds.Templates))
		for _, seed := range seeds.Templates {
			ids = append(ids, seed.ID)
		}
		if len(ids) == 0 {
			return nil
		}
		_, err := db.NewDelete().
			Model((*processstore.TemplateDao)(nil)).
			Where("id IN (?)", bun.In(ids)).
			Exec(ctx)
		return err
	})
}
