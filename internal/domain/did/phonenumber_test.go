package did

import (
	"errors"
	"testing"
)

func newUnassignedNumber(t *testing.T) *PhoneNumber {
	t.Helper()
	p, err := NewPhoneNumber("+15551234567", "telco-one")
	if err != nil {
		t.Fatalf("NewPhoneNumber() unexpected error = %v", err)
	}
	return p
}

// TestValidateE164 verifies the number format gate used by import.
func TestValidateE164(t *testing.T) {
	valid := []string{"+15551234567", "+442071838750", "+12", "+861038765432"}
	for _, n := range valid {
		if err := ValidateE164(n); err != nil {
			t.Errorf("ValidateE164(%q) unexpected error = %v", n, err)
		}
	}

	invalid := []string{"", "15551234567", "+0555123456", "+1", "+1555123456789012", "+1555-1234", "plus15551234567"}
	for _, n := range invalid {
		if err := ValidateE164(n); err == nil {
			t.Errorf("ValidateE164(%q) expected error", n)
		}
	}
}

// TestLifecycle_HappyPath walks the full UNASSIGNED -> ALLOCATED -> ASSIGNED
// -> ALLOCATED -> UNASSIGNED cycle.
func TestLifecycle_HappyPath(t *testing.T) {
	p := newUnassignedNumber(t)

	if p.Status() != StatusUnassigned {
		t.Fatalf("new number status = %v, want %v", p.Status(), StatusUnassigned)
	}
	if p.TenantID() != 0 {
		t.Fatalf("new number tenantID = %d, want 0", p.TenantID())
	}

	if err := p.AllocateToTenant(7); err != nil {
		t.Fatalf("AllocateToTenant() unexpected error = %v", err)
	}
	if p.Status() != StatusAllocated || p.TenantID() != 7 {
		t.Fatalf("after allocate: status = %v tenantID = %d", p.Status(), p.TenantID())
	}

	if err := p.Assign(); err != nil {
		t.Fatalf("Assign() unexpected error = %v", err)
	}
	if p.Status() != StatusAssigned {
		t.Fatalf("after assign: status = %v", p.Status())
	}

	if err := p.Unassign(); err != nil {
		t.Fatalf("Unassign() unexpected error = %v", err)
	}
	if p.Status() != StatusAllocated || p.TenantID() != 7 {
		t.Fatalf("after unassign: status = %v tenantID = %d", p.Status(), p.TenantID())
	}

	if err := p.Deallocate(); err != nil {
		t.Fatalf("Deallocate() unexpected error = %v", err)
	}
	if p.Status() != StatusUnassigned || p.TenantID() != 0 {
		t.Fatalf("after deallocate: status = %v tenantID = %d", p.Status(), p.TenantID())
	}
}

// TestLifecycle_InvalidTransitions verifies every operation rejects calls
// from a state other than its documented predecessor, with a typed error
// naming current and expected state.
func TestLifecycle_InvalidTransitions(t *testing.T) {
	tests := []struct {
		name     string
		setup    func(t *testing.T) *PhoneNumber
		op       func(p *PhoneNumber) error
		current  Status
		expected Status
	}{
		{
			name:     "assign while unassigned",
			setup:    func(t *testing.T) *PhoneNumber { return newUnassignedNumber(t) },
			op:       func(p *PhoneNumber) error { return p.Assign() },
			current:  StatusUnassigned,
			expected: StatusAllocated,
		},
		{
			name: "allocate while allocated",
			setup: func(t *testing.T) *PhoneNumber {
				p := newUnassignedNumber(t)
				if err := p.AllocateToTenant(7); err != nil {
					t.Fatal(err)
				}
				return p
			},
			op:       func(p *PhoneNumber) error { return p.AllocateToTenant(8) },
			current:  StatusAllocated,
			expected: StatusUnassigned,
		},
		{
			name: "deallocate while assigned",
			setup: func(t *testing.T) *PhoneNumber {
				p := newUnassignedNumber(t)
				if err := p.AllocateToTenant(7); err != nil {
					t.Fatal(err)
				}
				if err := p.Assign(); err != nil {
					t.Fatal(err)
				}
				return p
			},
			op:       func(p *PhoneNumber) error { return p.Deallocate() },
			current:  StatusAssigned,
			expected: StatusAllocated,
		},
		{
			name:     "unassign while unassigned",
			setup:    func(t *testing.T) *PhoneNumber { return newUnassignedNumber(t) },
			op:       func(p *PhoneNumber) error { return p.Unassign() },
			current:  StatusUnassigned,
			expected: StatusAssigned,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := tt.setup(t)
			before := p.Status()

			err := tt.op(p)

			var te *InvalidStateTransitionError
			if !errors.As(err, &te) {
				t.Fatalf("error = %v, want InvalidStateTransitionError", err)
			}
			if te.Current != tt.current || te.Expected != tt.expected {
				t.Errorf("transition error = %v/%v, want %v/%v", te.Current, te.Expected, tt.current, tt.expected)
			}
			if p.Status() != before {
				t.Errorf("failed transition mutated status: %v -> %v", before, p.Status())
			}
		})
	}
}

// TestReconstructPhoneNumber_TenantInvariant verifies the status/tenant
// consistency check on load.
func TestReconstructPhoneNumber_TenantInvariant(t *testing.T) {
	p := newUnassignedNumber(t)
	created, updated := p.CreatedAt(), p.UpdatedAt()

	if _, err := ReconstructPhoneNumber(1, "+15551234567", StatusUnassigned, 7, "", nil, created, updated); err == nil {
		t.Error("ReconstructPhoneNumber() UNASSIGNED with tenant expected error")
	}
	if _, err := ReconstructPhoneNumber(1, "+15551234567", StatusAllocated, 0, "", nil, created, updated); err == nil {
		t.Error("ReconstructPhoneNumber() ALLOCATED without tenant expected error")
	}
	if _, err := ReconstructPhoneNumber(1, "+15551234567", StatusAssigned, 7, "telco-one", nil, created, updated); err != nil {
		t.Errorf("ReconstructPhoneNumber() valid ASSIGNED unexpected error = %v", err)
	}
}
