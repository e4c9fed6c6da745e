package registry

import (
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/rentgrid/registry-middleware/pkg/asset"
	"github.com/rentgrid/registry-middleware/pkg/process"
	"github.com/rentgrid/registry-middleware/pkg/template"
)

var validate = validator.New()

// SubmitEventRequest is a direct off-chain event submission.
type SubmitEventRequest struct {
	Type      string         `json:"type" validate:"required"`
	AssetID   int64          `json:"assetId" validate:"required,gt=0"`
	ProcessID string         `json:"processId,omitempty" validate:"omitempty,len=24,hexadecimal"`
	Sender    string         `json:"sender" validate:"required,eth_addr"`
	ProofHash string         `json:"proofHash,omitempty"`
	Timestamp int64          `json:"timestamp,omitempty" validate:"omitempty,gt=0"`
	Validator string         `json:"validator,omitempty" validate:"omitempty,eth_addr"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

// TermsRequest carries economic terms in requests. Price and deposit accept
// JSON numbers or numeric strings.
type TermsRequest struct {
	Price        decimal.Decimal       `json:"price"`
	Currency     string                `json:"currency" validate:"required"`
	Duration     int64                 `json:"duration" validate:"required,gt=0"`
	DurationUnit template.DurationUnit `json:"durationUnit" validate:"required"`
	Deposit      decimal.Decimal       `json:"deposit"`
}

func (r *TermsRequest) toTerms() process.Terms {
	return process.Terms{
		Price:        r.Price,
		Currency:     r.Currency,
		Duration:     r.Duration,
		DurationUnit: r.DurationUnit,
		Deposit:      r.Deposit,
	}
}

// CreateProcessRequest instantiates a template against an asset.
type CreateProcessRequest struct {
	AssetID      int64                 `json:"assetId" validate:"required,gt=0"`
	TemplateID   string                `json:"templateId" validate:"required,uuid"`
	Owner        string                `json:"owner" validate:"required,eth_addr"`
	Participants []process.Participant `json:"participants" validate:"required,min=1,dive"`
}

// UpdateProcessTermsRequest replaces the agreed terms during negotiation.
type UpdateProcessTermsRequest struct {
	Terms TermsRequest `json:"terms" validate:"required"`
}

// TemplateRequest creates or replaces a process template.
type TemplateRequest struct {
	Name        string                `json:"name" validate:"required"`
	Type        string                `json:"type" validate:"required"`
	Description string                `json:"description,omitempty"`
	Creator     string                `json:"creator,omitempty" validate:"omitempty,eth_addr"`
	Roles       []template.Role       `json:"roles" validate:"required,min=1"`
	Terms       TemplateTermsRequest  `json:"terms" validate:"required"`
}

// TemplateTermsRequest mirrors template.Terms with the negotiation fields.
type TemplateTermsRequest struct {
	Price               decimal.Decimal       `json:"price"`
	Currency            string                `json:"currency" validate:"required"`
	Duration            int64                 `json:"duration" validate:"required,gt=0"`
	DurationUnit        template.DurationUnit `json:"durationUnit" validate:"required"`
	Deposit             decimal.Decimal       `json:"deposit"`
	Negotiable          bool                  `json:"negotiable"`
	NegotiationDuration int64                 `json:"negotiationDuration,omitempty" validate:"omitempty,gt=0"`
}

func (r *TemplateRequest) toTemplate() *template.Template {
	return &template.Template{
		Name:        r.Name,
		Type:        r.Type,
		Description: r.Description,
		Creator:     r.Creator,
		Roles:       r.Roles,
		Terms: template.Terms{
			Price:               r.Terms.Price,
			Currency:            r.Terms.Currency,
			Duration:            r.Terms.Duration,
			DurationUnit:        r.Terms.DurationUnit,
			Deposit:             r.Terms.Deposit,
			Negotiable:          r.Terms.Negotiable,
			NegotiationDuration: r.Terms.NegotiationDuration,
		},
	}
}

// UpdateAssetMetadataRequest replaces the owner-editable display fields.
type UpdateAssetMetadataRequest struct {
	Title       string   `json:"title,omitempty"`
	Description string   `json:"description,omitempty"`
	Category    string   `json:"category,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	URL         string   `json:"url,omitempty" validate:"omitempty,url"`
}

func (r *UpdateAssetMetadataRequest) toMetadata() asset.Metadata {
	return asset.Metadata{
		Title:       r.Title,
		Description: r.Description,
		Category:    r.Category,
		Tags:        r.Tags,
		URL:         r.URL,
	}
}

// EventQuery filters event listings.
type EventQuery struct {
	AssetID   *int64
	ProcessID string
	Type      string
	Source    string
	Sender    string
	Limit     int
	Offset    int
}

// ProcessQuery filters process listings.
type ProcessQuery struct {
	AssetID     *int64
	Status      string
	Participant string
	Limit       int
	Offset      int
}

// TemplateQuery filters template listings.
type TemplateQuery struct {
	Creator string
	Type    string
}

// AssetQuery filters asset listings.
type AssetQuery struct {
	Creator  string
	Category string
	Limit    int
	Offset   int
}
