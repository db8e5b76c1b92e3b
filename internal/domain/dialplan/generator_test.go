package dialplan

import (
	"strings"
	"testing"
	"time"

	"github.com/centrex-inc/centrex/internal/domain/did"
)

func fixedClock() time.Time {
	return time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
}

func testSnapshot() Snapshot {
	return Snapshot{
		Tenants: []Tenant{
			{ID: 2, Name: "Globex", ExtMin: 2000, ExtMax: 2099},
			{ID: 1, Name: "Acme", ExtMin: 1000, ExtMax: 1099},
		},
		Users: []User{
			{ID: 11, TenantID: 1, Name: "Alice", Extension: 1001, VoicemailEnabled: true},
			{ID: 12, TenantID: 1, Name: "Bob", Extension: 1000, DNDEnabled: true, VoicemailEnabled: true},
			{ID: 21, TenantID: 2, Name: "Carol", Extension: 2000, CallForwardDestination: "2001", VoicemailEnabled: false},
		},
		Assignments: []Assignment{
			{Number: "+15551234567", Type: did.TargetUser, TargetID: 11, TenantID: 1, Extension: 1001},
			{Number: "+15550000001", Type: did.TargetExternal, Context: "from-partner-pbx"},
		},
	}
}

// TestGenerate_Deterministic verifies identical snapshots produce identical
// text, regardless of input ordering.
func TestGenerate_Deterministic(t *testing.T) {
	g := NewGeneratorWithClock(fixedClock)

	first := g.Generate(testSnapshot())
	second := g.Generate(testSnapshot())
	if first != second {
		t.Error("Generate() output differs across invocations of the same snapshot")
	}

	// Reverse the input slices; output must not change.
	snap := testSnapshot()
	for i, j := 0, len(snap.Users)-1; i < j; i, j = i+1, j-1 {
		snap.Users[i], snap.Users[j] = snap.Users[j], snap.Users[i]
	}
	snap.Tenants[0], snap.Tenants[1] = snap.Tenants[1], snap.Tenants[0]
	if g.Generate(snap) != first {
		t.Error("Generate() output depends on input ordering")
	}
}

// TestGenerate_SectionOrder verifies header, inbound, internal, outbound
// appear in that order.
func TestGenerate_SectionOrder(t *testing.T) {
	out := NewGeneratorWithClock(fixedClock).Generate(testSnapshot())

	header := strings.Index(out, "Dialplan Configuration")
	inbound := strings.Index(out, "[from-trunk]")
	internal := strings.Index(out, "[internal-1]")
	outbound := strings.Index(out, "[outbound]")

	if header < 0 || inbound < 0 || internal < 0 || outbound < 0 {
		t.Fatalf("missing section: header=%d inbound=%d internal=%d outbound=%d", header, inbound, internal, outbound)
	}
	if !(header < inbound && inbound < internal && internal < outbound) {
		t.Errorf("sections out of order: header=%d inbound=%d internal=%d outbound=%d", header, inbound, internal, outbound)
	}

	if !strings.Contains(out, "; Generated: 2026-08-29T12:00:00Z") {
		t.Error("header missing pinned generation timestamp")
	}
}

// TestGenerate_EmergencyBeforeCatchAll verifies the outbound rule ordering
// correctness property: _911 first, _X. deny last.
func TestGenerate_EmergencyBeforeCatchAll(t *testing.T) {
	out := NewGeneratorWithClock(fixedClock).Generate(testSnapshot())

	outboundStart := strings.Index(out, "[outbound]")
	section := out[outboundStart:]

	emergency := strings.Index(section, "exten => _911,")
	longDistance := strings.Index(section, "exten => _1NXXNXXXXXX,")
	local := strings.Index(section, "exten => _NXXNXXXXXX,")
	international := strings.Index(section, "exten => _011.,")
	tollFree := strings.Index(section, "exten => _1800NXXXXXX,")
	premium := strings.Index(section, "exten => _1900NXXXXXX,")
	catchAll := strings.LastIndex(section, "exten => _X.,")

	order := []int{emergency, longDistance, local, international, tollFree, premium, catchAll}
	for i := 0; i < len(order); i++ {
		if order[i] < 0 {
			t.Fatalf("outbound pattern %d missing", i)
		}
		if i > 0 && order[i] <= order[i-1] {
			t.Errorf("outbound pattern %d out of order: %v", i, order)
		}
	}

	// Nothing may follow the catch-all block inside the section.
	tail := section[catchAll:]
	if strings.Count(tail, "exten =>") != 1 {
		t.Errorf("catch-all deny is not the last rule: %q", tail)
	}
}

// TestGenerate_InboundRouting verifies USER targets route into the tenant's
// internal context at the user's extension and EXTERNAL targets route to the
// literal context.
func TestGenerate_InboundRouting(t *testing.T) {
	out := NewGeneratorWithClock(fixedClock).Generate(testSnapshot())

	if !strings.Contains(out, "exten => +15551234567,1,NoOp(Inbound DID +15551234567)") {
		t.Error("missing inbound rule for assigned DID")
	}
	if !strings.Contains(out, "same => n,Goto(internal-1,1001,1)") {
		t.Error("USER assignment does not route to the tenant context and extension")
	}
	if !strings.Contains(out, "same => n,Goto(from-partner-pbx,s,1)") {
		t.Error("EXTERNAL assignment does not route to the literal context")
	}
}

// TestGenerate_ExtensionBranches verifies DND, call-forward and voicemail
// branches appear only for users that have them.
func TestGenerate_ExtensionBranches(t *testing.T) {
	out := NewGeneratorWithClock(fixedClock).Generate(testSnapshot())

	// Bob (1000) has DND on.
	if !strings.Contains(out, "same => n,GotoIf(${DB(DND/1000)}?dnd)") {
		t.Error("missing DND check for extension 1000")
	}
	if !strings.Contains(out, "same => n(dnd),Playback(do-not-disturb)") {
		t.Error("missing DND label block")
	}

	// Alice (1001) has neither DND nor forwarding.
	if strings.Contains(out, "GotoIf(${DB(DND/1001)}") {
		t.Error("unexpected DND check for extension 1001")
	}

	// Carol (2000) forwards to 2001 and has voicemail off.
	if !strings.Contains(out, "same => n(forward),Dial(PJSIP/2001,30)") {
		t.Error("missing call-forward label block for extension 2000")
	}
	if strings.Contains(out, "Voicemail(2000@default,u)") {
		t.Error("voicemail branch emitted for user with voicemail disabled")
	}
	if !strings.Contains(out, "Voicemail(1001@default,u)") {
		t.Error("missing voicemail branch for extension 1001")
	}
}

// TestGenerate_EmptyTenantKeepsContext verifies a tenant without users still
// gets its context block and fallback.
func TestGenerate_EmptyTenantKeepsContext(t *testing.T) {
	snap := Snapshot{
		Tenants: []Tenant{{ID: 9, Name: "Empty Co", ExtMin: 9000, ExtMax: 9099}},
	}
	out := NewGeneratorWithClock(fixedClock).Generate(snap)

	idx := strings.Index(out, "[internal-9]")
	if idx < 0 {
		t.Fatal("empty tenant context missing")
	}
	if !strings.Contains(out[idx:], "exten => _X.,1,NoOp(Invalid extension: ${EXTEN})") {
		t.Error("empty tenant context missing invalid-extension fallback")
	}
}
