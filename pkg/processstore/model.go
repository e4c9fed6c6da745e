package processstore

import (
	"time"

	"github.com/uptrace/bun"

	"github.com/rentgrid/registry-middleware/pkg/process"
	"github.com/rentgrid/registry-middleware/pkg/template"
)

// ProcessDao is a data access object that maps directly to the 'processes' table in PostgreSQL.
// The primary key is the 24-hex process reference that also travels on chain.
type ProcessDao struct {
	bun.BaseModel       `bun:"table:processes,alias:p"`
	ID                  string                `bun:"id,pk,type:varchar(24)"`
	AssetID             int64                 `bun:"asset_id,notnull"`
	TemplateID          string                `bun:"template_id,notnull,type:uuid"`
	Owner               string                `bun:"owner,notnull,type:varchar(42)"`
	Participants        []process.Participant `bun:"participants,notnull,type:jsonb"`
	Status              string                `bun:"status,notnull,type:varchar(32)"`
	AgreedTerms         *process.Terms        `bun:"agreed_terms,type:jsonb"`
	OwnerAccepted       bool                  `bun:"owner_accepted,notnull,default:false"`
	RenterAccepted      bool                  `bun:"renter_accepted,notnull,default:false"`
	NegotiationDeadline *time.Time            `bun:"negotiation_deadline"`
	StartDate           *time.Time            `bun:"start_date"`
	EndDate             *time.Time            `bun:"end_date"`
	DepositResolution   *string               `bun:"deposit_resolution,type:varchar(16)"`
	CreatedAt           time.Time             `bun:"created_at,nullzero,default:current_timestamp"`
	UpdatedAt           time.Time             `bun:"updated_at,nullzero,default:current_timestamp"`
}

func toProcessDao(p *process.Process) *ProcessDao {
	dao := &ProcessDao{
		ID:                  p.ID,
		AssetID:             p.AssetID,
		TemplateID:          p.TemplateID,
		Owner:               p.Owner,
		Participants:        p.Participants,
		Status:              string(p.Status),
		AgreedTerms:         p.AgreedTerms,
		OwnerAccepted:       p.OwnerAccepted,
		RenterAccepted:      p.RenterAccepted,
		NegotiationDeadline: p.NegotiationDeadline,
		StartDate:           p.StartDate,
		EndDate:             p.EndDate,
		CreatedAt:           p.CreatedAt,
		UpdatedAt:           p.UpdatedAt,
	}
	if p.DepositResolution != "" {
		res := string(p.DepositResolution)
		dao.DepositResolution = &res
	}
	return dao
}

func toProcess(dao *ProcessDao) *process.Process {
	p := &process.Process{
		ID:                  dao.ID,
		AssetID:             dao.AssetID,
		TemplateID:          dao.TemplateID,
		Owner:               dao.Owner,
		Participants:        dao.Participants,
		Status:              process.Status(dao.Status),
		AgreedTerms:         dao.AgreedTerms,
		OwnerAccepted:       dao.OwnerAccepted,
		RenterAccepted:      dao.RenterAccepted,
		NegotiationDeadline: dao.NegotiationDeadline,
		StartDate:           dao.StartDate,
		EndDate:             dao.EndDate,
		CreatedAt:           dao.CreatedAt,
		UpdatedAt:           dao.UpdatedAt,
	}
	if dao.DepositResolution != nil {
		p.DepositResolution = process.DepositResolution(*dao.DepositResolution)
	}
	return p
}

// TemplateDao is a data access object that maps directly to the 'templates' table in PostgreSQL.
type TemplateDao struct {
	bun.BaseModel `bun:"table:templates,alias:t"`
	ID            string          `bun:"id,pk,type:uuid"`
	Name          string          `bun:"name,notnull,type:varchar(255)"`
	Type          string          `bun:"type,notnull,type:varchar(64)"`
	Description   string          `bun:"description,type:text"`
	Creator       string          `bun:"creator,notnull,type:varchar(42)"`
	Roles         []template.Role `bun:"roles,notnull,type:jsonb"`
	Terms         template.Terms  `bun:"terms,notnull,type:jsonb"`
	CreatedAt     time.Time       `bun:"created_at,nullzero,default:current_timestamp"`
	UpdatedAt     time.Time       `bun:"updated_at,nullzero,default:current_timestamp"`
}

func toTemplateDao(t *template.Template) *TemplateDao {
	return &TemplateDao{
		ID:          t.ID,
		Name:        t.Name,
		Type:        t.Type,
		Description: t.Description,
		Creator:     t.Creator,
		Roles:       t.Roles,
		Terms:       t.Terms,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

func toTemplate(dao *TemplateDao) *template.Template {
	return &template.Template{
		ID:          dao.ID,
		Name:        dao.Name,
		Type:        dao.Type,
		Description: dao.Description,
		Creator:     dao.Creator,
		Roles:       dao.Roles,
		Terms:       dao.Terms,
		CreatedAt:   dao.CreatedAt,
		UpdatedAt:   dao.UpdatedAt,
	}
}
