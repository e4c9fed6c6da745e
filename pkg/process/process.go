// Package process defines the stateful rental process entity and the fixed
// status enumeration its lifecycle moves through.
package process

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rentgrid/registry-middleware/pkg/template"
)

// Status is a process lifecycle state. The set is closed: every status a
// process can ever hold is listed here.
type Status string

const (
	StatusDraft            Status = "DRAFT"
	StatusPendingRenter    Status = "PENDING_RENTER"
	StatusNegotiating      Status = "NEGOTIATING"
	StatusTermsAgreed      Status = "TERMS_AGREED"
	StatusDepositPending   Status = "DEPOSIT_PENDING"
	StatusDepositDeclared  Status = "DEPOSIT_DECLARED"
	StatusActive           Status = "ACTIVE"
	StatusReturnPending    Status = "RETURN_PENDING"
	StatusReturnVerified   Status = "RETURN_VERIFIED"
	StatusDepositResolving Status = "DEPOSIT_RESOLVING"
	StatusCompleted        Status = "COMPLETED"
	StatusRejected         Status = "REJECTED"
	StatusExpired          Status = "EXPIRED"
)

// Statuses lists every status in lifecycle order, side exits last.
var Statuses = []Status{
	StatusDraft, StatusPendingRenter, StatusNegotiating, StatusTermsAgreed,
	StatusDepositPending, StatusDepositDeclared, StatusActive,
	StatusReturnPending, StatusReturnVerified, StatusDepositResolving,
	StatusCompleted, StatusRejected, StatusExpired,
}

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	for _, known := range Statuses {
		if s == known {
			return true
		}
	}
	return false
}

// DepositResolution records how the deposit was settled.
type DepositResolution string

const (
	ResolutionReturned DepositResolution = "returned"
	ResolutionPartial  DepositResolution = "partial"
	ResolutionWithheld DepositResolution = "withheld"
)

// Valid reports whether r is a known resolution.
func (r DepositResolution) Valid() bool {
	switch r {
	case ResolutionReturned, ResolutionPartial, ResolutionWithheld:
		return true
	}
	return false
}

// Role names with lifecycle meaning: acceptance flags belong to these two.
const (
	RoleOwner  = "owner"
	RoleRenter = "renter"
)

// Participant binds a template role to a wallet address.
type Participant struct {
	Role    string `json:"role"`
	Address string `json:"address"`
}

// Terms is the agreed-terms snapshot carried by a process. Same shape as
// template terms minus the negotiable flag.
type Terms struct {
	Price        decimal.Decimal       `json:"price"`
	Currency     string                `json:"currency"`
	Duration     int64                 `json:"duration"`
	DurationUnit template.DurationUnit `json:"durationUnit"`
	Deposit      decimal.Decimal       `json:"deposit"`
}

// SnapshotTerms derives a process terms snapshot from template terms.
func SnapshotTerms(t template.Terms) Terms {
	return Terms{
		Price:        t.Price,
		Currency:     t.Currency,
		Duration:     t.Duration,
		DurationUnit: t.DurationUnit,
		Deposit:      t.Deposit,
	}
}

// Equal reports whether two term snapshots agree on every negotiated field.
// Price and deposit compare numerically.
func (t Terms) Equal(other Terms) bool {
	return t.Price.Equal(other.Price) &&
		t.Deposit.Equal(other.Deposit) &&
		t.Duration == other.Duration &&
		t.Currency == other.Currency &&
		t.DurationUnit == other.DurationUnit
}

// RentalSeconds returns the rental length in seconds.
func (t Terms) RentalSeconds() (int64, error) {
	unit, err := t.DurationUnit.Seconds()
	if err != nil {
		return 0, err
	}
	return t.Duration * unit, nil
}

// Process is one instantiation of a Template against an Asset. Every field
// change after creation flows through the event projector, except direct
// term edits which pass through the store's acceptance-reset guard.
type Process struct {
	ID                  string
	AssetID             int64
	TemplateID          string
	Owner               string
	Participants        []Participant
	Status              Status
	AgreedTerms         *Terms
	OwnerAccepted       bool
	RenterAccepted      bool
	NegotiationDeadline *time.Time
	StartDate           *time.Time
	EndDate             *time.Time
	DepositResolution   DepositResolution
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// RoleOf resolves the role held by the given wallet address. Address
// comparison is case-insensitive. Returns "" when the address holds no role.
func (p *Process) RoleOf(address string) string {
	for _, part := range p.Participants {
		if strings.EqualFold(part.Address, address) {
			return part.Role
		}
	}
	return ""
}

// ValidateParticipants checks that the participant role set exactly matches
// the template's role set, with no duplicates and no missing addresses.
func ValidateParticipants(participants []Participant, tpl *template.Template) error {
	want := append([]string(nil), tpl.RoleNames()...)
	got := make([]string, 0, len(participants))
	for _, p := range participants {
		if p.Address == "" {
			return fmt.Errorf("participant role %q has no address", p.Role)
		}
		got = append(got, p.Role)
	}
	sort.Strings(want)
	sort.Strings(got)
	if len(want) != len(got) {
		return fmt.Errorf("participants must fill exactly the template roles %v", tpl.RoleNames())
	}
	for i := range want {
		if want[i] != got[i] {
			return fmt.Errorf("participants must fill exactly the template roles %v", tpl.RoleNames())
		}
	}
	return nil
}

// Update is the set of field changes a transition produces. Nil pointers
// leave the corresponding process field untouched; the store applies the
// whole update atomically.
type Update struct {
	Status              *Status
	AgreedTerms         *Terms
	OwnerAccepted       *bool
	RenterAccepted      *bool
	NegotiationDeadline *time.Time
	StartDate           *time.Time
	EndDate             *time.Time
	DepositResolution   *DepositResolution
}

// IsZero reports whether the update changes nothing.
func (u Update) IsZero() bool {
	return u.Status == nil && u.AgreedTerms == nil &&
		u.OwnerAccepted == nil && u.RenterAccepted == nil &&
		u.NegotiationDeadline == nil && u.StartDate == nil &&
		u.EndDate == nil && u.DepositResolution == nil
}
