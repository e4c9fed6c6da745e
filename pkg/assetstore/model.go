package assetstore

import (
	"time"

	"github.com/uptrace/bun"

	"github.com/rentgrid/registry-middleware/pkg/asset"
)

// AssetDao is a data access object that maps directly to the 'assets' table in PostgreSQL.
// The primary key is the registry contract's asset id, not a generated one.
type AssetDao struct {
	bun.BaseModel   `bun:"table:assets,alias:a"`
	ID              int64     `bun:"id,pk"`
	Creator         string    `bun:"creator,notnull,type:varchar(42)"`
	Title           *string   `bun:"title,type:varchar(255)"`
	Description     *string   `bun:"description,type:text"`
	Category        *string   `bun:"category,type:varchar(64)"`
	Tags            []string  `bun:"tags,type:jsonb"`
	URL             *string   `bun:"url,type:varchar(2048)"`
	LatestProofHash *string   `bun:"latest_proof_hash,type:varchar(66)"`
	CreatedAt       time.Time `bun:"created_at,nullzero,default:current_timestamp"`
	UpdatedAt       time.Time `bun:"updated_at,nullzero,default:current_timestamp"`
}

func toAssetDao(a *asset.Asset) *AssetDao {
	dao := &AssetDao{
		ID:        a.ID,
		Creator:   a.Creator,
		Tags:      a.Tags,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
	if a.Title != "" {
		dao.Title = &a.Title
	}
	if a.Description != "" {
		dao.Description = &a.Description
	}
	if a.Category != "" {
		dao.Category = &a.Category
	}
	if a.URL != "" {
		dao.URL = &a.URL
	}
	if a.LatestProofHash != "" {
		dao.LatestProofHash = &a.LatestProofHash
	}
	return dao
}

func toAsset(dao *AssetDao) *asset.Asset {
	a := &asset.Asset{
		ID:        dao.ID,
		Creator:   dao.Creator,
		Tags:      dao.Tags,
		CreatedAt: dao.CreatedAt,
		UpdatedAt: dao.UpdatedAt,
	}
	if dao.Title != nil {
		a.Title = *dao.Title
	}
	if dao.Description != nil {
		a.Description = *dao.Description
	}
	if dao.Category != nil {
		a.Category = *dao.Category
	}
	if dao.URL != nil {
		a.URL = *dao.URL
	}
	if dao.LatestProofHash != nil {
		a.LatestProofHash = *dao.LatestProofHash
	}
	return a
}
