package dialplan

import "strings"

// generateOutbound emits the [outbound] policy context. Rule ordering is
// load-bearing in a first-match engine: emergency dialing is never gated by
// a policy lookup and so must come first, and the catch-all deny must be
// textually last or it would shadow every specific pattern.
func generateOutbound() string {
	var b strings.Builder

	b.WriteString("; ========================================\n")
	b.WriteString("; Outbound Calling Policy Enforcement\n")
	b.WriteString("; ========================================\n")
	b.WriteString("\n")
	b.WriteString("[outbound]\n")
	b.WriteString("; Outbound calls with policy enforcement\n")
	b.WriteString("\n")

	// Emergency calls, always allowed, highest priority.
	b.WriteString("exten => _911,1,NoOp(Emergency call - 911)\n")
	b.WriteString("same => n,Set(CALLERID(num)=${CALLERID(num)})\n")
	b.WriteString("same => n,Dial(PJSIP/${EXTEN}@emergency-trunk,30)\n")
	b.WriteString("same => n,Hangup()\n")
	b.WriteString("\n")

	// North American long distance (1+10 digits).
	b.WriteString("exten => _1NXXNXXXXXX,1,NoOp(Long distance call to ${EXTEN})\n")
	b.WriteString("same => n,GotoIf($[${DB(POLICY/${CALLERID(num)}/LD)} = 1]?allow)\n")
	b.WriteString("same => n,Playback(ss-noservice)\n")
	b.WriteString("same => n,Hangup()\n")
	b.WriteString("same => n(allow),Dial(PJSIP/${EXTEN}@trunk,30)\n")
	b.WriteString("same => n,Hangup()\n")
	b.WriteString("\n")

	// Local calls (10 digits).
	b.WriteString("exten => _NXXNXXXXXX,1,NoOp(Local call to ${EXTEN})\n")
	b.WriteString("same => n,Dial(PJSIP/1${EXTEN}@trunk,30)\n")
	b.WriteString("same => n,Hangup()\n")
	b.WriteString("\n")

	// International calls (011 + country code).
	b.WriteString("exten => _011.,1,NoOp(International call to ${EXTEN})\n")
	b.WriteString("same => n,GotoIf($[${DB(POLICY/${CALLERID(num)}/INTL)} = 1]?allow)\n")
	b.WriteString("same => n,Playback(ss-noservice)\n")
	b.WriteString("same => n,Hangup()\n")
	b.WriteString("same => n(allow),Dial(PJSIP/${EXTEN}@trunk,30)\n")
	b.WriteString("same => n,Hangup()\n")
	b.WriteString("\n")

	// Toll-free numbers; the non-800 variants delegate to the 800 block.
	b.WriteString("exten => _1800NXXXXXX,1,NoOp(Toll-free call to ${EXTEN})\n")
	b.WriteString("same => n,Dial(PJSIP/${EXTEN}@trunk,30)\n")
	b.WriteString("same => n,Hangup()\n")
	b.WriteString("exten => _1888NXXXXXX,1,Goto(1800NXXXXXX,1)\n")
	b.WriteString("exten => _1877NXXXXXX,1,Goto(1800NXXXXXX,1)\n")
	b.WriteString("exten => _1866NXXXXXX,1,Goto(1800NXXXXXX,1)\n")
	b.WriteString("\n")

	// Premium rate (1-900), always blocked.
	b.WriteString("exten => _1900NXXXXXX,1,NoOp(Premium rate call blocked)\n")
	b.WriteString("same => n,Playback(ss-noservice)\n")
	b.WriteString("same => n,Hangup()\n")
	b.WriteString("\n")

	// Catch-all deny. Must stay last.
	b.WriteString("exten => _X.,1,NoOp(Unknown pattern: ${EXTEN})\n")
	b.WriteString("same => n,Playback(ss-noservice)\n")
	b.WriteString("same => n,Hangup()")

	return b.String()
}
