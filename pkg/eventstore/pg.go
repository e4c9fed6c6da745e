package eventstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/rentgrid/registry-middleware/pkg/event"
)

type pgStore struct {
	db *bun.DB
}

// NewStore creates a new postgres implementation of the event store
func NewStore(db *bun.DB) *pgStore {
	return &pgStore{db: db}
}

func (s *pgStore) Insert(ctx context.Context, evt *event.Event) (*event.Event, bool, error) {
	dao := toEventDao(evt)
	if dao.ID == "" {
		dao.ID = uuid.NewString()
	}

	query := s.db.NewInsert().Model(dao)

	dedup := evt.Source == event.SourceOnChain && evt.TransactionHash != ""
	if dedup {
		query = query.On("CONFLICT (transaction_hash, type, asset_id) WHERE source = 'on-chain' DO NOTHING")
	}

	res, err := query.Exec(ctx)
	if err != nil {
		return nil, false, fmt.Errorf("failed to insert event: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return nil, false, fmt.Errorf("failed to read insert result: %w", err)
	}
	if rows > 0 {
		return toEvent(dao), true, nil
	}

	// Conflict path: return the event already stored under this key.
	existing := new(EventDao)
	err = s.db.NewSelect().
		Model(existing).
		Where("transaction_hash = ?", evt.TransactionHash).
		Where("type = ?", evt.Type).
		Where("asset_id = ?", evt.AssetID).
		Where("source = ?", event.SourceOnChain).
		Scan(ctx)
	if err != nil {
		return nil, false, fmt.Errorf("failed to load duplicate event: %w", err)
	}
	return toEvent(existing), false, nil
}

func (s *pgStore) GetByID(ctx context.Context, id string) (*event.Event, error) {
	dao := new(EventDao)
	err := s.db.NewSelect().
		Model(dao).
		Where("id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to get event: %w", err)
	}
	return toEvent(dao), nil
}

func (s *pgStore) List(ctx context.Context, opts ...QueryOption) ([]*event.Event, error) {
	options := &QueryOptions{}
	for _, opt := range opts {
		opt(options)
	}

	var daos []EventDao
	query := applyFilters(s.db.NewSelect().Model(&daos), options).
		OrderExpr("timestamp DESC, created_at DESC")

	if options.Limit > 0 {
		query = query.Limit(options.Limit)
	}
	if options.Offset > 0 {
		query = query.Offset(options.Offset)
	}

	if err := query.Scan(ctx); err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}

	events := make([]*event.Event, len(daos))
	for i := range daos {
		events[i] = toEvent(&daos[i])
	}
	return events, nil
}

func (s *pgStore) Count(ctx context.Context, opts ...QueryOption) (int, error) {
	options := &QueryOptions{}
	for _, opt := range opts {
		opt(options)
	}

	count, err := applyFilters(s.db.NewSelect().Model((*EventDao)(nil)), options).Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count events: %w", err)
	}
	return count, nil
}

func applyFilters(query *bun.SelectQuery, options *QueryOptions) *bun.SelectQuery {
	if options.AssetID != nil {
		query = query.Where("asset_id = ?", *options.AssetID)
	}
	if options.ProcessID != nil {
		query = query.Where("process_id = ?", *options.ProcessID)
	}
	if options.Type != nil {
		query = query.Where("type = ?", *options.Type)
	}
	if options.Source != nil {
		query = query.Where("source = ?", string(*options.Source))
	}
	if options.Sender != nil {
		query = query.Where("LOWER(sender) = LOWER(?)", *options.Sender)
	}
	return query
}
