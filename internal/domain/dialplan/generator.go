package dialplan

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// InternalContext returns the scoped routing context name for a tenant.
func InternalContext(tenantID uint) string {
	return fmt.Sprintf("internal-%d", tenantID)
}

// Generator builds the complete dialplan document. The clock is injected so
// tests can pin the timestamp line.
type Generator struct {
	now func() time.Time
}

// NewGenerator creates a generator using the system clock.
func NewGenerator() *Generator {
	return &Generator{now: time.Now}
}

// NewGeneratorWithClock creates a generator with a fixed clock.
func NewGeneratorWithClock(now func() time.Time) *Generator {
	return &Generator{now: now}
}

// Generate produces the full configuration document as ordered sections:
// header, inbound DID routing, per-tenant internal extension routing,
// outbound policy enforcement. Section order and the rule order inside the
// outbound section are part of the compatibility surface: the switch matches
// first rule wins, so the emergency block must precede everything and the
// catch-all deny must come last.
func (g *Generator) Generate(snap Snapshot) string {
	snap = sortSnapshot(snap)

	parts := []string{
		g.header(),
		"",
		generateInbound(snap.Assignments),
		"",
		generateInternal(snap.Tenants, snap.Users),
		"",
		generateOutbound(),
		"",
	}

	return strings.Join(parts, "\n")
}

func (g *Generator) header() string {
	return fmt.Sprintf(`; ========================================
; Centrex Control Portal - Dialplan Configuration
; ========================================
; Generated: %s
; DO NOT EDIT MANUALLY - Changes will be overwritten on next apply
;
; This file is generated from database configuration and includes:
; - Inbound DID routing ([from-trunk])
; - Internal extension dialing ([internal-*])
; - Outbound calling policies ([outbound])
;`, g.now().UTC().Format(time.RFC3339))
}

// sortSnapshot copies and orders the snapshot so output is deterministic
// regardless of query ordering.
func sortSnapshot(snap Snapshot) Snapshot {
	tenants := make([]Tenant, len(snap.Tenants))
	copy(tenants, snap.Tenants)
	sort.Slice(tenants, func(i, j int) bool { return tenants[i].ID < tenants[j].ID })

	users := make([]User, len(snap.Users))
	copy(users, snap.Users)
	sort.Slice(users, func(i, j int) bool {
		if users[i].TenantID != users[j].TenantID {
			return users[i].TenantID < users[j].TenantID
		}
		return users[i].Extension < users[j].Extension
	})

	assignments := make([]Assignment, len(snap.Assignments))
	copy(assignments, snap.Assignments)
	sort.Slice(assignments, func(i, j int) bool { return assignments[i].Number < assignments[j].Number })

	return Snapshot{Tenants: tenants, Users: users, Assignments: assignments}
}
