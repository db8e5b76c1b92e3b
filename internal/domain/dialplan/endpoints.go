package dialplan

import (
	"fmt"
	"strings"
	"time"
)

// EndpointsGenerator builds the PJSIP endpoint document: one
// endpoint/auth/aor triple per user extension.
type EndpointsGenerator struct {
	now func() time.Time
}

// NewEndpointsGenerator creates a generator using the system clock.
func NewEndpointsGenerator() *EndpointsGenerator {
	return &EndpointsGenerator{now: time.Now}
}

// NewEndpointsGeneratorWithClock creates a generator with a fixed clock.
func NewEndpointsGeneratorWithClock(now func() time.Time) *EndpointsGenerator {
	return &EndpointsGenerator{now: now}
}

// Generate produces the full endpoint document. Users are emitted in
// (tenant, extension) order, so identical snapshots produce identical
// output.
func (g *EndpointsGenerator) Generate(snap Snapshot) string {
	snap = sortSnapshot(snap)

	var b strings.Builder
	b.WriteString(g.header())
	b.WriteString("\n")

	for _, u := range snap.Users {
		b.WriteString("\n")
		writeEndpointTriple(&b, u)
	}

	return b.String()
}

func (g *EndpointsGenerator) header() string {
	return fmt.Sprintf(`; ========================================
; Centrex Control Portal - PJSIP Endpoint Configuration
; ========================================
; Generated: %s
; DO NOT EDIT MANUALLY - Changes will be overwritten on next apply
;
; One endpoint/auth/aor triple per user extension.
;`, g.now().UTC().Format(time.RFC3339))
}

func writeEndpointTriple(b *strings.Builder, u User) {
	ext := fmt.Sprintf("%d", u.Extension)

	fmt.Fprintf(b, "[%s]\n", ext)
	b.WriteString("type=endpoint\n")
	fmt.Fprintf(b, "context=%s\n", InternalContext(u.TenantID))
	b.WriteString("disallow=all\n")
	b.WriteString("allow=ulaw,alaw\n")
	fmt.Fprintf(b, "auth=%s\n", ext)
	fmt.Fprintf(b, "aors=%s\n", ext)
	fmt.Fprintf(b, "callerid=\"%s\" <%s>\n", u.Name, ext)
	b.WriteString("\n")

	fmt.Fprintf(b, "[%s]\n", ext)
	b.WriteString("type=auth\n")
	b.WriteString("auth_type=userpass\n")
	fmt.Fprintf(b, "username=%s\n", ext)
	fmt.Fprintf(b, "password=%s\n", u.SIPSecret)
	b.WriteString("\n")

	fmt.Fprintf(b, "[%s]\n", ext)
	b.WriteString("type=aor\n")
	b.WriteString("max_contacts=3\n")
	b.WriteString("remove_existing=yes\n")
}
