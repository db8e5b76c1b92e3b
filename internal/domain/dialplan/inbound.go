package dialplan

import (
	"fmt"
	"strings"

	"github.com/centrex-inc/centrex/internal/domain/did"
)

// generateInbound emits the [from-trunk] context routing each ASSIGNED DID
// to its destination. The context is always present so trunk configuration
// stays valid when no DIDs are assigned.
func generateInbound(assignments []Assignment) string {
	var b strings.Builder

	b.WriteString("; ========================================\n")
	b.WriteString("; Inbound DID Routing\n")
	b.WriteString("; ========================================\n")
	b.WriteString("\n")
	b.WriteString("[from-trunk]\n")
	b.WriteString("\n")

	for _, a := range assignments {
		fmt.Fprintf(&b, "exten => %s,1,NoOp(Inbound DID %s)\n", a.Number, a.Number)

		switch a.Type {
		case did.TargetUser:
			fmt.Fprintf(&b, "same => n,Goto(%s,%d,1)\n", InternalContext(a.TenantID), a.Extension)
		case did.TargetIVR:
			fmt.Fprintf(&b, "same => n,Goto(ivr-%d,s,1)\n", a.TargetID)
		case did.TargetQueue:
			fmt.Fprintf(&b, "same => n,Queue(queue-%d)\n", a.TargetID)
		case did.TargetExternal:
			fmt.Fprintf(&b, "same => n,Goto(%s,s,1)\n", a.Context)
		}

		b.WriteString("same => n,Hangup()\n")
		b.WriteString("\n")
	}

	// Unrecognized inbound numbers get congestion, not silence.
	b.WriteString("exten => _X.,1,NoOp(Unrouted inbound call: ${EXTEN})\n")
	b.WriteString("same => n,Playback(ss-noservice)\n")
	b.WriteString("same => n,Hangup()\n")

	return b.String()
}
