package usecases

import (
	"time"

	"github.com/centrex-inc/centrex/internal/domain/user"
)

// UserResult is the read representation of a user returned by the user use
// cases. The SIP secret is intentionally absent; it only surfaces at
// creation time.
type UserResult struct {
	ID                     uint   `json:"id"`
	TenantID               uint   `json:"tenant_id"`
	Name                   string `json:"name"`
	Email                  string `json:"email"`
	Extension              int    `json:"extension"`
	DNDEnabled             bool   `json:"dnd_enabled"`
	CallForwardDestination string `json:"call_forward_destination,omitempty"`
	VoicemailEnabled       bool   `json:"voicemail_enabled"`
	Status                 string `json:"status"`
	CreatedAt              string `json:"created_at"`
	UpdatedAt              string `json:"updated_at"`
}

func newUserResult(u *user.User) *UserResult {
	return &UserResult{
		ID:                     u.ID(),
		TenantID:               u.TenantID(),
		Name:                   u.Name(),
		Email:                  u.Email(),
		Extension:              u.Extension(),
		DNDEnabled:             u.DNDEnabled(),
		CallForwardDestination: u.CallForwardDestination(),
		VoicemailEnabled:       u.VoicemailEnabled(),
		Status:                 string(u.Status()),
		CreatedAt:              u.CreatedAt().Format(time.RFC3339),
		UpdatedAt:              u.UpdatedAt().Format(time.RFC3339),
	}
}

// userSnapshot is the audit snapshot shape for users. Secrets never land in
// the audit log.
func userSnapshot(u *user.User) map[string]any {
	return map[string]any{
		"id":                       u.ID(),
		"tenant_id":                u.TenantID(),
		"name":                     u.Name(),
		"email":                    u.Email(),
		"extension":                u.Extension(),
		"dnd_enabled":              u.DNDEnabled(),
		"call_forward_destination": u.CallForwardDestination(),
		"voicemail_enabled":        u.VoicemailEnabled(),
		"status":                   string(u.Status()),
	}
}
