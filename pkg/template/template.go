// Package template defines reusable process blueprints: the roles a process
// needs filled and the terms it starts from.
package template

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// DurationUnit is the unit of a rental duration.
type DurationUnit string

const (
	UnitHours  DurationUnit = "hours"
	UnitDays   DurationUnit = "days"
	UnitWeeks  DurationUnit = "weeks"
	UnitMonths DurationUnit = "months"
)

// Seconds returns the length of one unit in seconds. Months are a fixed
// 30-day approximation, not calendar months.
func (u DurationUnit) Seconds() (int64, error) {
	switch u {
	case UnitHours:
		return 3600, nil
	case UnitDays:
		return 86400, nil
	case UnitWeeks:
		return 604800, nil
	case UnitMonths:
		return 30 * 86400, nil
	default:
		return 0, fmt.Errorf("unknown duration unit %q", u)
	}
}

// Valid reports whether u is a known duration unit.
func (u DurationUnit) Valid() bool {
	_, err := u.Seconds()
	return err == nil
}

// DefaultNegotiationDuration applies when a negotiable template does not set
// its own negotiation window.
const DefaultNegotiationDuration = 30 * time.Minute

// Role is a named slot a participant must fill.
type Role struct {
	Name  string `json:"name"`
	Label string `json:"label"`
}

// Terms are the economic terms of a template. Price and deposit use decimal
// arithmetic so term comparison is numeric, not textual.
type Terms struct {
	Price               decimal.Decimal `json:"price"`
	Currency            string          `json:"currency"`
	Duration            int64           `json:"duration"`
	DurationUnit        DurationUnit    `json:"durationUnit"`
	Deposit             decimal.Decimal `json:"deposit"`
	Negotiable          bool            `json:"negotiable"`
	NegotiationDuration int64           `json:"negotiationDuration,omitempty"` // minutes, 0 = default
}

// NegotiationWindow returns the window for this template's negotiation phase.
func (t Terms) NegotiationWindow() time.Duration {
	if t.NegotiationDuration <= 0 {
		return DefaultNegotiationDuration
	}
	return time.Duration(t.NegotiationDuration) * time.Minute
}

// Template is an owner-authored blueprint a Process is instantiated from.
type Template struct {
	ID          string
	Name        string
	Type        string
	Description string
	Creator     string
	Roles       []Role
	Terms       Terms
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// RoleNames returns the template's role names in declaration order.
func (t *Template) RoleNames() []string {
	names := make([]string, len(t.Roles))
	for i, r := range t.Roles {
		names[i] = r.Name
	}
	return names
}

// HasRole reports whether the template declares a role with the given name.
func (t *Template) HasRole(name string) bool {
	for _, r := range t.Roles {
		if r.Name == name {
			return true
		}
	}
	return false
}

// Validate checks structural invariants: at least one role, unique role
// names, a known duration unit and non-negative amounts.
func (t *Template) Validate() error {
	if len(t.Roles) == 0 {
		return fmt.Errorf("template needs at least one role")
	}
	seen := make(map[string]struct{}, len(t.Roles))
	for _, r := range t.Roles {
		if r.Name == "" {
			return fmt.Errorf("role name must not be empty")
		}
		if _, dup := seen[r.Name]; dup {
			return fmt.Errorf("duplicate role name %q", r.Name)
		}
		seen[r.Name] = struct{}{}
	}
	if !t.Terms.DurationUnit.Valid() {
		return fmt.Errorf("unknown duration unit %q", t.Terms.DurationUnit)
	}
	if t.Terms.Duration < 1 {
		return fmt.Errorf("duration must be at least 1")
	}
	if t.Terms.Price.IsNegative() || t.Terms.Deposit.IsNegative() {
		return fmt.Errorf("price and deposit must not be negative")
	}
	return nil
}
