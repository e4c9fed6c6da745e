package assetstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/uptrace/bun"

	"github.com/rentgrid/registry-middleware/pkg/asset"
)

type pgStore struct {
	db *bun.DB
}

// NewStore creates a new postgres implementation of the asset store
func NewStore(db *bun.DB) *pgStore {
	return &pgStore{db: db}
}

func (s *pgStore) CreateIfAbsent(ctx context.Context, a *asset.Asset) (bool, error) {
	dao := toAssetDao(a)

	res, err := s.db.NewInsert().
		Model(dao).
		On("CONFLICT (id) DO NOTHING").
		Exec(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to create asset: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read insert result: %w", err)
	}
	return rows > 0, nil
}

func (s *pgStore) GetByID(ctx context.Context, id int64) (*asset.Asset, error) {
	dao := new(AssetDao)
	err := s.db.NewSelect().
		Model(dao).
		Where("id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAssetNotFound
		}
		return nil, fmt.Errorf("failed to get asset: %w", err)
	}
	return toAsset(dao), nil
}

func (s *pgStore) List(ctx context.Context, opts ...QueryOption) ([]*asset.Asset, error) {
	options := &QueryOptions{}
	for _, opt := range opts {
		opt(options)
	}

	var daos []AssetDao
	query := s.db.NewSelect().Model(&daos).Order("id ASC")

	if options.Creator != nil {
		query = query.Where("LOWER(creator) = LOWER(?)", *options.Creator)
	}
	if options.Category != nil {
		query = query.Where("category = ?", *options.Category)
	}
	if options.Limit > 0 {
		query = query.Limit(options.Limit)
	}
	if options.Offset > 0 {
		query = query.Offset(options.Offset)
	}

	if err := query.Scan(ctx); err != nil {
		return nil, fmt.Errorf("failed to list assets: %w", err)
	}

	assets := make([]*asset.Asset, len(daos))
	for i := range daos {
		assets[i] = toAsset(&daos[i])
	}
	return assets, nil
}

func (s *pgStore) SetLatestProofHash(ctx context.Context, id int64, proofHash string) error {
	res, err := s.db.NewUpdate().
		Model((*AssetDao)(nil)).
		Set("latest_proof_hash = ?", proofHash).
		Set("updated_at = NOW()").
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to set proof hash: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read update result: %w", err)
	}
	if rows == 0 {
		return ErrAssetNotFound
	}
	return nil
}

func (s *pgStore) SetMetadata(ctx context.Context, id int64, md asset.Metadata) error {
	tags, err := json.Marshal(md.Tags)
	if err != nil {
		return fmt.Errorf("failed to encode tags: %w", err)
	}

	res, err := s.db.NewUpdate().
		Model((*AssetDao)(nil)).
		Set("title = ?", nullable(md.Title)).
		Set("description = ?", nullable(md.Description)).
		Set("category = ?", nullable(md.Category)).
		Set("tags = ?::jsonb", string(tags)).
		Set("url = ?", nullable(md.URL)).
		Set("updated_at = NOW()").
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to set asset metadata: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read update result: %w", err)
	}
	if rows == 0 {
		return ErrAssetNotFound
	}
	return nil
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
