package eventstore

import (
	"time"

	"github.com/uptrace/bun"

	"github.com/rentgrid/registry-middleware/pkg/event"
)

// EventDao is a data access object that maps directly to the 'events' table in PostgreSQL.
type EventDao struct {
	bun.BaseModel   `bun:"table:events,alias:e"`
	ID              string         `bun:"id,pk,type:uuid"`
	Type            string         `bun:"type,notnull,type:varchar(64)"`
	Source          string         `bun:"source,notnull,type:varchar(16)"`
	AssetID         int64          `bun:"asset_id,notnull"`
	ProcessID       *string        `bun:"process_id,type:varchar(24)"`
	Sender          string         `bun:"sender,notnull,type:varchar(42)"`
	ProofHash       *string        `bun:"proof_hash,type:varchar(66)"`
	Timestamp       int64          `bun:"timestamp,notnull"`
	Validator       *string        `bun:"validator,type:varchar(42)"`
	TransactionHash *string        `bun:"transaction_hash,type:varchar(66)"`
	BlockNumber     *string        `bun:"block_number,type:varchar(78)"`
	Metadata        map[string]any `bun:"metadata,type:jsonb"`
	CreatedAt       time.Time      `bun:"created_at,nullzero,default:current_timestamp"`
}

// toEventDao converts an event.Event to EventDao.
func toEventDao(evt *event.Event) *EventDao {
	dao := &EventDao{
		ID:        evt.ID,
		Type:      evt.Type,
		Source:    string(evt.Source),
		AssetID:   evt.AssetID,
		Sender:    evt.Sender,
		Timestamp: evt.Timestamp,
		Metadata:  evt.Metadata,
		CreatedAt: evt.CreatedAt,
	}

	if evt.ProcessID != "" {
		dao.ProcessID = &evt.ProcessID
	}
	if evt.ProofHash != "" {
		dao.ProofHash = &evt.ProofHash
	}
	if evt.Validator != "" {
		dao.Validator = &evt.Validator
	}
	if evt.TransactionHash != "" {
		dao.TransactionHash = &evt.TransactionHash
	}
	if evt.BlockNumber != "" {
		dao.BlockNumber = &evt.BlockNumber
	}

	return dao
}

// toEvent converts an EventDao to event.Event.
func toEvent(dao *EventDao) *event.Event {
	evt := &event.Event{
		ID:        dao.ID,
		Type:      dao.Type,
		Source:    event.Source(dao.Source),
		AssetID:   dao.AssetID,
		Sender:    dao.Sender,
		Timestamp: dao.Timestamp,
		Metadata:  dao.Metadata,
		CreatedAt: dao.CreatedAt,
	}

	if dao.ProcessID != nil {
		evt.ProcessID = *dao.ProcessID
	}
	if dao.ProofHash != nil {
		evt.ProofHash = *dao.ProofHash
	}
	if dao.Validator != nil {
		evt.Validator = *dao.Validator
	}
	if dao.TransactionHash != nil {
		evt.TransactionHash = *dao.TransactionHash
	}
	if dao.BlockNumber != nil {
		evt.BlockNumber = *dao.BlockNumber
	}

	return evt
}
