package registry

import (
	"time"

	"github.com/rentgrid/registry-middleware/pkg/asset"
	"github.com/rentgrid/registry-middleware/pkg/event"
	"github.com/rentgrid/registry-middleware/pkg/process"
	"github.com/rentgrid/registry-middleware/pkg/template"
)

// EventResponse is the wire form of a stored event.
type EventResponse struct {
	ID              string         `json:"id"`
	Type            string         `json:"type"`
	Source          string         `json:"source"`
	AssetID         int64          `json:"assetId"`
	ProcessID       string         `json:"processId,omitempty"`
	Sender          string         `json:"sender"`
	ProofHash       string         `json:"proofHash,omitempty"`
	Timestamp       int64          `json:"timestamp"`
	Validator       string         `json:"validator,omitempty"`
	TransactionHash string         `json:"transactionHash,omitempty"`
	BlockNumber     string         `json:"blockNumber,omitempty"`
	Metadata        map[string]any `json:"metadata,omitempty"`
	CreatedAt       time.Time      `json:"createdAt"`
}

func toEventResponse(e *event.Event) *EventResponse {
	return &EventResponse{
		ID:              e.ID,
		Type:            e.Type,
		Source:          string(e.Source),
		AssetID:         e.AssetID,
		ProcessID:       e.ProcessID,
		Sender:          e.Sender,
		ProofHash:       e.ProofHash,
		Timestamp:       e.Timestamp,
		Validator:       e.Validator,
		TransactionHash: e.TransactionHash,
		BlockNumber:     e.BlockNumber,
		Metadata:        e.Metadata,
		CreatedAt:       e.CreatedAt,
	}
}

func toEventResponses(events []*event.Event) []*EventResponse {
	out := make([]*EventResponse, len(events))
	for i, e := range events {
		out[i] = toEventResponse(e)
	}
	return out
}

// EventListResult is a paged event listing.
type EventListResult struct {
	Events []*EventResponse `json:"events"`
	Total  int              `json:"total"`
}

// ProcessResponse is the wire form of a rental process.
type ProcessResponse struct {
	ID                  string                `json:"id"`
	AssetID             int64                 `json:"assetId"`
	TemplateID          string                `json:"templateId"`
	Owner               string                `json:"owner"`
	Participants        []process.Participant `json:"participants"`
	Status              process.Status        `json:"status"`
	AgreedTerms         *process.Terms        `json:"agreedTerms,omitempty"`
	OwnerAccepted       bool                  `json:"ownerAccepted"`
	RenterAccepted      bool                  `json:"renterAccepted"`
	NegotiationDeadline *time.Time            `json:"negotiationDeadline,omitempty"`
	StartDate           *time.Time            `json:"startDate,omitempty"`
	EndDate             *time.Time            `json:"endDate,omitempty"`
	DepositResolution   string                `json:"depositResolution,omitempty"`
	CreatedAt           time.Time             `json:"createdAt"`
	UpdatedAt           time.Time             `json:"updatedAt"`
}

func toProcessResponse(p *process.Process) *ProcessResponse {
	return &ProcessResponse{
		ID:                  p.ID,
		AssetID:             p.AssetID,
		TemplateID:          p.TemplateID,
		Owner:               p.Owner,
		Participants:        p.Participants,
		Status:              p.Status,
		AgreedTerms:         p.AgreedTerms,
		OwnerAccepted:       p.OwnerAccepted,
		RenterAccepted:      p.RenterAccepted,
		NegotiationDeadline: p.NegotiationDeadline,
		StartDate:           p.StartDate,
		EndDate:             p.EndDate,
		DepositResolution:   string(p.DepositResolution),
		CreatedAt:           p.CreatedAt,
		UpdatedAt:           p.UpdatedAt,
	}
}

func toProcessResponses(processes []*process.Process) []*ProcessResponse {
	out := make([]*ProcessResponse, len(processes))
	for i, p := range processes {
		out[i] = toProcessResponse(p)
	}
	return out
}

// TemplateResponse is the wire form of a process template.
type TemplateResponse struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Type        string          `json:"type"`
	Description string          `json:"description,omitempty"`
	Creator     string          `json:"creator,omitempty"`
	Roles       []template.Role `json:"roles"`
	Terms       template.Terms  `json:"terms"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

func toTemplateResponse(t *template.Template) *TemplateResponse {
	return &TemplateResponse{
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

func toTemplateResponses(templates []*template.Template) []*TemplateResponse {
	out := make([]*TemplateResponse, len(templates))
	for i, t := range templates {
		out[i] = toTemplateResponse(t)
	}
	return out
}

// AssetResponse is the wire form of a registered asset.
type AssetResponse struct {
	ID              int64     `json:"id"`
	Creator         string    `json:"creator"`
	Title           string    `json:"title,omitempty"`
	Description     string    `json:"description,omitempty"`
	Category        string    `json:"category,omitempty"`
	Tags            []string  `json:"tags,omitempty"`
	URL             string    `json:"url,omitempty"`
	LatestProofHash string    `json:"latestProofHash,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

func toAssetResponse(a *asset.Asset) *AssetResponse {
	return &AssetResponse{
		ID:              a.ID,
		Creator:         a.Creator,
		Title:           a.Title,
		Description:     a.Description,
		Category:        a.Category,
		Tags:            a.Tags,
		URL:             a.URL,
		LatestProofHash: a.LatestProofHash,
		CreatedAt:       a.CreatedAt,
		UpdatedAt:       a.UpdatedAt,
	}
}

func toAssetResponses(assets []*asset.Asset) []*AssetResponse {
	out := make([]*AssetResponse, len(assets))
	for i, a := range assets {
		out[i] = toAssetResponse(a)
	}
	return out
}
