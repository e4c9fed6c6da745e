package process

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/rentgrid/registry-middleware/pkg/template"
)

func twoRoleTemplate() *template.Template {
	return &template.Template{
		ID:   "tpl-1",
		Name: "Rental",
		Type: "rental",
		Roles: []template.Role{
			{Name: RoleOwner, Label: "Owner"},
			{Name: RoleRenter, Label: "Renter"},
		},
		Terms: template.Terms{
			Price:        decimal.NewFromInt(100),
			Currency:     "EUR",
			Duration:     7,
			DurationUnit: template.UnitDays,
			Deposit:      decimal.NewFromInt(50),
		},
	}
}

func TestStatusValid(t *testing.T) {
	for _, s := range Statuses {
		if !s.Valid() {
			t.Errorf("status %q should be valid", s)
		}
	}
	if Status("SHIPPED").Valid() {
		t.Error("unknown status must not validate")
	}
}

func TestRoleOf_CaseInsensitive(t *testing.T) {
	p := &Process{
		Participants: []Participant{
			{Role: RoleOwner, Address: "0xAbCd000000000000000000000000000000000001"},
			{Role: RoleRenter, Address: "0x0000000000000000000000000000000000000002"},
		},
	}

	if got := p.RoleOf("0xabcd000000000000000000000000000000000001"); got != RoleOwner {
		t.Errorf("RoleOf() = %q, want owner", got)
	}
	if got := p.RoleOf("0x0000000000000000000000000000000000000099"); got != "" {
		t.Errorf("RoleOf() for stranger = %q, want empty", got)
	}
}

func TestValidateParticipants(t *testing.T) {
	tpl := twoRoleTemplate()

	ok := []Participant{
		{Role: RoleRenter, Address: "0x02"},
		{Role: RoleOwner, Address: "0x01"},
	}
	if err := ValidateParticipants(ok, tpl); err != nil {
		t.Fatalf("order must not matter: %v", err)
	}

	cases := []struct {
		name         string
		participants []Participant
	}{
		{"missing role", []Participant{{Role: RoleOwner, Address: "0x01"}}},
		{"duplicate role", []Participant{
			{Role: RoleOwner, Address: "0x01"},
			{Role: RoleOwner, Address: "0x02"},
		}},
		{"unknown role", []Participant{
			{Role: RoleOwner, Address: "0x01"},
			{Role: "janitor", Address: "0x02"},
		}},
		{"empty address", []Participant{
			{Role: RoleOwner, Address: "0x01"},
			{Role: RoleRenter, Address: ""},
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := ValidateParticipants(tc.participants, tpl); err == nil {
				t.Fatal("expected validation to fail")
			}
		})
	}
}

func TestTermsEqual(t *testing.T) {
	base := SnapshotTerms(twoRoleTemplate().Terms)

	same := base
	same.Price = decimal.RequireFromString("100.00")
	if !base.Equal(same) {
		t.Error("numerically equal prices must compare equal")
	}

	changed := base
	changed.Deposit = decimal.NewFromInt(60)
	if base.Equal(changed) {
		t.Error("different deposits must not compare equal")
	}
}

func TestRentalSeconds(t *testing.T) {
	terms := Terms{Duration: 2, DurationUnit: template.UnitDays}
	got, err := terms.RentalSeconds()
	if err != nil {
		t.Fatalf("RentalSeconds() failed: %v", err)
	}
	if got != 2*86400 {
		t.Errorf("RentalSeconds() = %d, want %d", got, 2*86400)
	}

	terms.DurationUnit = "fortnights"
	if _, err := terms.RentalSeconds(); err == nil {
		t.Error("unknown unit must fail")
	}
}

func TestUpdateIsZero(t *testing.T) {
	if !(Update{}).IsZero() {
		t.Error("empty update must be zero")
	}
	status := StatusActive
	if (Update{Status: &status}).IsZero() {
		t.Error("update with a status change must not be zero")
	}
}
