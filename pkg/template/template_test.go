package template

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func validTemplate() *Template {
	return &Template{
		ID:   "tpl-1",
		Name: "Rental",
		Type: "rental",
		Roles: []Role{
			{Name: "owner", Label: "Owner"},
			{Name: "renter", Label: "Renter"},
		},
		Terms: Terms{
			Price:        decimal.NewFromInt(100),
			Currency:     "EUR",
			Duration:     7,
			DurationUnit: UnitDays,
			Deposit:      decimal.NewFromInt(50),
		},
	}
}

func TestDurationUnitSeconds(t *testing.T) {
	cases := []struct {
		unit DurationUnit
		want int64
	}{
		{UnitHours, 3600},
		{UnitDays, 86400},
		{UnitWeeks, 604800},
		{UnitMonths, 30 * 86400},
	}
	for _, tc := range cases {
		got, err := tc.unit.Seconds()
		if err != nil {
			t.Fatalf("Seconds(%s) failed: %v", tc.unit, err)
		}
		if got != tc.want {
			t.Errorf("Seconds(%s) = %d, want %d", tc.unit, got, tc.want)
		}
	}

	if _, err := DurationUnit("years").Seconds(); err == nil {
		t.Error("unknown unit must fail")
	}
}

func TestNegotiationWindow(t *testing.T) {
	terms := Terms{NegotiationDuration: 45}
	if got := terms.NegotiationWindow(); got != 45*time.Minute {
		t.Errorf("NegotiationWindow() = %s, want 45m", got)
	}

	terms.NegotiationDuration = 0
	if got := terms.NegotiationWindow(); got != DefaultNegotiationDuration {
		t.Errorf("NegotiationWindow() = %s, want default %s", got, DefaultNegotiationDuration)
	}
}

func TestTemplateValidate(t *testing.T) {
	if err := validTemplate().Validate(); err != nil {
		t.Fatalf("valid template rejected: %v", err)
	}

	cases := []struct {
		name   string
		mutate func(*Template)
	}{
		{"no roles", func(tpl *Template) { tpl.Roles = nil }},
		{"empty role name", func(tpl *Template) { tpl.Roles[0].Name = "" }},
		{"duplicate role", func(tpl *Template) { tpl.Roles[1].Name = tpl.Roles[0].Name }},
		{"bad unit", func(tpl *Template) { tpl.Terms.DurationUnit = "fortnights" }},
		{"zero duration", func(tpl *Template) { tpl.Terms.Duration = 0 }},
		{"negative price", func(tpl *Template) { tpl.Terms.Price = decimal.NewFromInt(-1) }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tpl := validTemplate()
			tc.mutate(tpl)
			if err := tpl.Validate(); err == nil {
				t.Fatal("expected validation to fail")
			}
		})
	}
}

func TestRoleHelpers(t *testing.T) {
	tpl := validTemplate()

	names := tpl.RoleNames()
	if len(names) != 2 || names[0] != "owner" || names[1] != "renter" {
		t.Errorf("RoleNames() = %v", names)
	}
	if !tpl.HasRole("renter") {
		t.Error("HasRole(renter) = false")
	}
	if tpl.HasRole("janitor") {
		t.Error("HasRole(janitor) = true")
	}
}
