package usecases

import (
	"time"

	"github.com/centrex-inc/centrex/internal/domain/tenant"
)

// TenantResult is the read representation of a tenant returned by the
// tenant use cases.
type TenantResult struct {
	ID                    uint   `json:"id"`
	Name                  string `json:"name"`
	Status                string `json:"status"`
	ExtMin                int    `json:"ext_min"`
	ExtMax                int    `json:"ext_max"`
	ExtNext               int    `json:"ext_next"`
	RemainingExtensions   int    `json:"remaining_extensions"`
	DefaultInboundContext string `json:"default_inbound_context,omitempty"`
	CreatedAt             string `json:"created_at"`
	UpdatedAt             string `json:"updated_at"`
}

func newTenantResult(t *tenant.Tenant) *TenantResult {
	return &TenantResult{
		ID:                    t.ID(),
		Name:                  t.Name(),
		Status:                string(t.Status()),
		ExtMin:                t.ExtMin(),
		ExtMax:                t.ExtMax(),
		ExtNext:               t.ExtNext(),
		RemainingExtensions:   t.RemainingExtensions(),
		DefaultInboundContext: t.DefaultInboundContext(),
		CreatedAt:             t.CreatedAt().Format(time.RFC3339),
		UpdatedAt:             t.UpdatedAt().Format(time.RFC3339),
	}
}

// tenantSnapshot is the audit snapshot shape for tenants.
func tenantSnapshot(t *tenant.Tenant) map[string]any {
	return map[string]any{
		"id":       t.ID(),
		"name":     t.Name(),
		"status":   string(t.Status()),
		"ext_min":  t.ExtMin(),
		"ext_max":  t.ExtMax(),
		"ext_next": t.ExtNext(),
	}
}
