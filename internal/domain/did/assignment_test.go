package did

import (
	"testing"
	"time"
)

// TestTargetConstruction verifies the exactly-one-payload rule of the tagged
// target variant.
func TestTargetConstruction(t *testing.T) {
	target, err := NewEntityTarget(TargetUser, 42)
	if err != nil {
		t.Fatalf("NewEntityTarget(USER) unexpected error = %v", err)
	}
	if target.EntityID() != 42 || target.Context() != "" {
		t.Errorf("USER target = (%d, %q), want (42, \"\")", target.EntityID(), target.Context())
	}

	if _, err := NewEntityTarget(TargetUser, 0); err == nil {
		t.Error("NewEntityTarget(USER, 0) expected error")
	}
	if _, err := NewEntityTarget(TargetExternal, 42); err == nil {
		t.Error("NewEntityTarget(EXTERNAL) expected error, external targets take a context")
	}

	ext, err := NewExternalTarget("from-partner-pbx")
	if err != nil {
		t.Fatalf("NewExternalTarget() unexpected error = %v", err)
	}
	if ext.Kind() != TargetExternal || ext.Context() != "from-partner-pbx" || ext.EntityID() != 0 {
		t.Errorf("EXTERNAL target = (%v, %d, %q)", ext.Kind(), ext.EntityID(), ext.Context())
	}

	if _, err := NewExternalTarget(""); err == nil {
		t.Error("NewExternalTarget(\"\") expected error")
	}
}

// TestReconstructAssignment_MixedPayload verifies rows with both payloads or
// the wrong payload for their tag are rejected on load.
func TestReconstructAssignment_MixedPayload(t *testing.T) {
	now := time.Now()

	if _, err := ReconstructAssignment(1, 5, TargetUser, 42, "", now); err != nil {
		t.Errorf("ReconstructAssignment(USER) unexpected error = %v", err)
	}
	if _, err := ReconstructAssignment(1, 5, TargetExternal, 0, "from-partner-pbx", now); err != nil {
		t.Errorf("ReconstructAssignment(EXTERNAL) unexpected error = %v", err)
	}

	if _, err := ReconstructAssignment(1, 5, TargetUser, 42, "from-partner-pbx", now); err == nil {
		t.Error("ReconstructAssignment(USER with context) expected error")
	}
	if _, err := ReconstructAssignment(1, 5, TargetExternal, 42, "from-partner-pbx", now); err == nil {
		t.Error("ReconstructAssignment(EXTERNAL with entity ID) expected error")
	}
	if _, err := ReconstructAssignment(1, 5, TargetQueue, 0, "", now); err == nil {
		t.Error("ReconstructAssignment(QUEUE without entity ID) expected error")
	}
}
