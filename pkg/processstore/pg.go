package processstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/rentgrid/registry-middleware/pkg/event"
	"github.com/rentgrid/registry-middleware/pkg/process"
	"github.com/rentgrid/registry-middleware/pkg/template"
)

type pgStore struct {
	db *bun.DB
}

// NewStore creates a new postgres implementation of the process store
func NewStore(db *bun.DB) *pgStore {
	return &pgStore{db: db}
}

func (s *pgStore) Create(ctx context.Context, p *process.Process) error {
	if p.ID == "" {
		p.ID = event.NewProcessRef()
	}
	if p.Status == "" {
		p.Status = process.StatusDraft
	}

	dao := toProcessDao(p)
	_, err := s.db.NewInsert().
		Model(dao).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to create process: %w", err)
	}
	return nil
}

func (s *pgStore) GetByID(ctx context.Context, id string) (*process.Process, error) {
	dao := new(ProcessDao)
	err := s.db.NewSelect().
		Model(dao).
		Where("id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProcessNotFound
		}
		return nil, fmt.Errorf("failed to get process: %w", err)
	}
	return toProcess(dao), nil
}

func (s *pgStore) List(ctx context.Context, opts ...QueryOption) ([]*process.Process, error) {
	options := &QueryOptions{}
	for _, opt := range opts {
		opt(options)
	}

	var daos []ProcessDao
	query := s.db.NewSelect().Model(&daos).Order("created_at DESC")

	if options.AssetID != nil {
		query = query.Where("asset_id = ?", *options.AssetID)
	}
	if options.Status != nil {
		query = query.Where("status = ?", string(*options.Status))
	}
	if options.Participant != nil {
		query = query.Where(
			"EXISTS (SELECT 1 FROM jsonb_array_elements(participants) AS part WHERE LOWER(part->>'address') = LOWER(?))",
			*options.Participant,
		)
	}
	if options.Limit > 0 {
		query = query.Limit(options.Limit)
	}
	if options.Offset > 0 {
		query = query.Offset(options.Offset)
	}

	if err := query.Scan(ctx); err != nil {
		return nil, fmt.Errorf("failed to list processes: %w", err)
	}

	processes := make([]*process.Process, len(daos))
	for i := range daos {
		processes[i] = toProcess(&daos[i])
	}
	return processes, nil
}

func (s *pgStore) Mutate(ctx context.Context, id string, fn MutateFunc) (*process.Process, error) {
	var result *process.Process

	err := s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		dao := new(ProcessDao)
		err := tx.NewSelect().
			Model(dao).
			Where("id = ?", id).
			For("UPDATE").
			Scan(ctx)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrProcessNotFound
			}
			return fmt.Errorf("failed to lock process: %w", err)
		}

		p := toProcess(dao)
		update, err := fn(p)
		if err != nil {
			return err
		}
		if update.IsZero() {
			result = p
			return nil
		}

		if err := applyUpdate(ctx, tx, id, update); err != nil {
			return err
		}

		result = applied(p, update)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *pgStore) UpdateTerms(ctx context.Context, id string, terms process.Terms) (*process.Process, error) {
	return s.Mutate(ctx, id, func(p *process.Process) (process.Update, error) {
		if p.Status != process.StatusNegotiating {
			return process.Update{}, ErrNotNegotiating
		}

		update := process.Update{AgreedTerms: &terms}
		if p.AgreedTerms == nil || !p.AgreedTerms.Equal(terms) {
			// Changed terms invalidate prior approvals from both sides.
			unaccepted := false
			update.OwnerAccepted = &unaccepted
			update.RenterAccepted = &unaccepted
		}
		return update, nil
	})
}

func applyUpdate(ctx context.Context, tx bun.Tx, id string, update process.Update) error {
	q := tx.NewUpdate().
		Model((*ProcessDao)(nil)).
		Set("updated_at = NOW()").
		Where("id = ?", id)

	if update.Status != nil {
		q = q.Set("status = ?", string(*update.Status))
	}
	if update.AgreedTerms != nil {
		b, err := json.Marshal(update.AgreedTerms)
		if err != nil {
			return fmt.Errorf("failed to encode agreed terms: %w", err)
		}
		q = q.Set("agreed_terms = ?::jsonb", string(b))
	}
	if update.OwnerAccepted != nil {
		q = q.Set("owner_accepted = ?", *update.OwnerAccepted)
	}
	if update.RenterAccepted != nil {
		q = q.Set("renter_accepted = ?", *update.RenterAccepted)
	}
	if update.NegotiationDeadline != nil {
		q = q.Set("negotiation_deadline = ?", *update.NegotiationDeadline)
	}
	if update.StartDate != nil {
		q = q.Set("start_date = ?", *update.StartDate)
	}
	if update.EndDate != nil {
		q = q.Set("end_date = ?", *update.EndDate)
	}
	if update.DepositResolution != nil {
		q = q.Set("deposit_resolution = ?", string(*update.DepositResolution))
	}

	if _, err := q.Exec(ctx); err != nil {
		return fmt.Errorf("failed to update process: %w", err)
	}
	return nil
}

// applied projects an update onto the in-memory process so callers see the
// post-transaction state without a reload.
func applied(p *process.Process, update process.Update) *process.Process {
	if update.Status != nil {
		p.Status = *update.Status
	}
	if update.AgreedTerms != nil {
		terms := *update.AgreedTerms
		p.AgreedTerms = &terms
	}
	if update.OwnerAccepted != nil {
		p.OwnerAccepted = *update.OwnerAccepted
	}
	if update.RenterAccepted != nil {
		p.RenterAccepted = *update.RenterAccepted
	}
	if update.NegotiationDeadline != nil {
		deadline := *update.NegotiationDeadline
		p.NegotiationDeadline = &deadline
	}
	if update.StartDate != nil {
		start := *update.StartDate
		p.StartDate = &start
	}
	if update.EndDate != nil {
		end := *update.EndDate
		p.EndDate = &end
	}
	if update.DepositResolution != nil {
		p.DepositResolution = *update.DepositResolution
	}
	return p
}

func (s *pgStore) CreateTemplate(ctx context.Context, t *template.Template) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}

	dao := toTemplateDao(t)
	_, err := s.db.NewInsert().
		Model(dao).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to create template: %w", err)
	}
	return nil
}

func (s *pgStore) GetTemplate(ctx context.Context, id string) (*template.Template, error) {
	dao := new(TemplateDao)
	err := s.db.NewSelect().
		Model(dao).
		Where("id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTemplateNotFound
		}
		return nil, fmt.Errorf("failed to get template: %w", err)
	}
	return toTemplate(dao), nil
}

func (s *pgStore) ListTemplates(ctx context.Context, opts ...TemplateQueryOption) ([]*template.Template, error) {
	options := &TemplateQueryOptions{}
	for _, opt := range opts {
		opt(options)
	}

	var daos []TemplateDao
	query := s.db.NewSelect().Model(&daos).Order("created_at DESC")

	if options.Creator != nil {
		query = query.Where("LOWER(creator) = LOWER(?)", *options.Creator)
	}
	if options.Type != nil {
		query = query.Where("type = ?", *options.Type)
	}

	if err := query.Scan(ctx); err != nil {
		return nil, fmt.Errorf("failed to list templates: %w", err)
	}

	templates := make([]*template.Template, len(daos))
	for i := range daos {
		templates[i] = toTemplate(&daos[i])
	}
	return templates, nil
}

func (s *pgStore) UpdateTemplate(ctx context.Context, t *template.Template) error {
	dao := toTemplateDao(t)
	res, err := s.db.NewUpdate().
		Model(dao).
		Column("name", "type", "description", "roles", "terms").
		Set("updated_at = NOW()").
		WherePK().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to update template: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read update result: %w", err)
	}
	if rows == 0 {
		return ErrTemplateNotFound
	}
	return nil
}

func (s *pgStore) DeleteTemplate(ctx context.Context, id string) error {
	_, err := s.db.NewDelete().
		Model((*TemplateDao)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete template: %w", err)
	}
	return nil
}
