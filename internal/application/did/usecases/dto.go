package usecases

import (
	"time"

	"github.com/centrex-inc/centrex/internal/domain/did"
)

// PhoneNumberResult is the read representation of a phone number returned
// by the DID use cases.
type PhoneNumberResult struct {
	ID               uint              `json:"id"`
	Number           string            `json:"number"`
	Status           string            `json:"status"`
	TenantID         uint              `json:"tenant_id,omitempty"`
	Provider         string            `json:"provider,omitempty"`
	ProviderMetadata map[string]string `json:"provider_metadata,omitempty"`
	CreatedAt        string            `json:"created_at"`
	UpdatedAt        string            `json:"updated_at"`

	// Assignment is populated when the number is ASSIGNED.
	Assignment *AssignmentResult `json:"assignment,omitempty"`
}

// AssignmentResult describes where an assigned number routes.
type AssignmentResult struct {
	TargetType    string `json:"target_type"`
	TargetID      uint   `json:"target_id,omitempty"`
	TargetContext string `json:"target_context,omitempty"`
}

func newPhoneNumberResult(n *did.PhoneNumber) *PhoneNumberResult {
	return &PhoneNumberResult{
		ID:               n.ID(),
		Number:           n.Number(),
		Status:           string(n.Status()),
		TenantID:         n.TenantID(),
		Provider:         n.Provider(),
		ProviderMetadata: n.ProviderMetadata(),
		CreatedAt:        n.CreatedAt().Format(time.RFC3339),
		UpdatedAt:        n.UpdatedAt().Format(time.RFC3339),
	}
}

func newAssignmentResult(a *did.Assignment) *AssignmentResult {
	return &AssignmentResult{
		TargetType:    string(a.Target().Kind()),
		TargetID:      a.Target().EntityID(),
		TargetContext: a.Target().Context(),
	}
}

// phoneNumberSnapshot is the audit snapshot shape for phone numbers.
func phoneNumberSnapshot(n *did.PhoneNumber) map[string]any {
	return map[string]any{
		"id":        n.ID(),
		"number":    n.Number(),
		"status":    string(n.Status()),
		"tenant_id": n.TenantID(),
		"provider":  n.Provider(),
	}
}
