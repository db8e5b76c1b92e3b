package dialplan

import (
	"fmt"
	"strings"
)

// generateInternal emits one [internal-<tenant>] context per tenant with a
// rule block per user extension. Tenants with no users still get their
// context and invalid-extension fallback so the context name stays
// referenceable from inbound routing.
func generateInternal(tenants []Tenant, users []User) string {
	var b strings.Builder

	b.WriteString("; ========================================\n")
	b.WriteString("; Internal Extension Routing\n")
	b.WriteString("; ========================================\n")
	b.WriteString("\n")

	usersByTenant := make(map[uint][]User)
	for _, u := range users {
		usersByTenant[u.TenantID] = append(usersByTenant[u.TenantID], u)
	}

	for _, t := range tenants {
		fmt.Fprintf(&b, "; Tenant: %s\n", t.Name)
		fmt.Fprintf(&b, "[%s]\n", InternalContext(t.ID))
		b.WriteString("\n")

		for _, u := range usersByTenant[t.ID] {
			writeUserExtension(&b, u)
		}

		b.WriteString("exten => _X.,1,NoOp(Invalid extension: ${EXTEN})\n")
		b.WriteString("same => n,Playback(ss-noservice)\n")
		b.WriteString("same => n,Hangup()\n")
		b.WriteString("\n")
	}

	return strings.TrimRight(b.String(), "\n")
}

// writeUserExtension emits one extension block: DND and call-forward checks
// first, then the normal dial with voicemail or an apology on no answer.
func writeUserExtension(b *strings.Builder, u User) {
	fmt.Fprintf(b, "exten => %d,1,NoOp(Call to %s - Ext %d)\n", u.Extension, u.Name, u.Extension)

	if u.DNDEnabled {
		fmt.Fprintf(b, "same => n,GotoIf(${DB(DND/%d)}?dnd)\n", u.Extension)
	}
	if u.CallForwardDestination != "" {
		fmt.Fprintf(b, "same => n,GotoIf(${DB(CFW/%d)}?forward)\n", u.Extension)
	}

	fmt.Fprintf(b, "same => n(dial),Set(CALLERID(name)=%s)\n", u.Name)
	fmt.Fprintf(b, "same => n,Dial(PJSIP/%d,30,tr)\n", u.Extension)

	if u.VoicemailEnabled {
		fmt.Fprintf(b, "same => n,Voicemail(%d@default,u)\n", u.Extension)
	} else {
		b.WriteString("same => n,Playback(im-sorry)\n")
	}
	b.WriteString("same => n,Hangup()\n")

	if u.DNDEnabled {
		b.WriteString("same => n(dnd),Playback(do-not-disturb)\n")
		if u.VoicemailEnabled {
			fmt.Fprintf(b, "same => n,Voicemail(%d@default,u)\n", u.Extension)
		}
		b.WriteString("same => n,Hangup()\n")
	}

	if u.CallForwardDestination != "" {
		fmt.Fprintf(b, "same => n(forward),Dial(PJSIP/%s,30)\n", u.CallForwardDestination)
		if u.VoicemailEnabled {
			fmt.Fprintf(b, "same => n,Voicemail(%d@default,u)\n", u.Extension)
		}
		b.WriteString("same => n,Hangup()\n")
	}

	b.WriteString("\n")
}
