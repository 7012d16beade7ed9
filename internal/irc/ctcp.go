package irc

import "strings"

// ctcpDelim marks both ends of CTCP extended data inside a PRIVMSG or
// NOTICE body.
const ctcpDelim = "\x01"

// CTCPVerb is the closed set of recognized CTCP commands. Verb matching is
// case-sensitive; anything else is CTCPUnknown with the raw name preserved.
type CTCPVerb int

const (
	CTCPUnknown CTCPVerb = iota
	CTCPAction
	CTCPVersion
	CTCPTime
	CTCPPing
	CTCPDCC
	CTCPSED
)

var ctcpVerbs = map[string]CTCPVerb{
	"ACTION":  CTCPAction,
	"VERSION": CTCPVersion,
	"TIME":    CTCPTime,
	"PING":    CTCPPing,
	"DCC":     CTCPDCC,
	"SED":     CTCPSED,
}

func (v CTCPVerb) String() string {
	for name, verb := range ctcpVerbs {
		if verb == v {
			return name
		}
	}
	return "UNKNOWN"
}

// CTCP is the decoded extended-data payload of a single Message. It is a
// view derived from that Message and must not outlive it.
type CTCP struct {
	Verb CTCPVerb
	Name string // raw verb text, set even when Verb is CTCPUnknown
	Data string
	// Reply is determined solely by the carrying command: requests ride
	// on PRIVMSG, replies on NOTICE. This is protocol convention, not a
	// property of the payload.
	Reply bool
}

// IsCTCP reports whether the message body is CTCP-delimited. Only PRIVMSG
// and NOTICE bodies qualify.
func (m *Message) IsCTCP() bool {
	if m.Cmd != CmdPrivmsg && m.Cmd != CmdNotice {
		return false
	}
	if !m.HasTrailing || len(m.Trailing) < 2 {
		return false
	}
	return m.Trailing[0] == ctcpDelim[0] && m.Trailing[len(m.Trailing)-1] == ctcpDelim[0]
}

// DecodeCTCP strips the delimiters and splits the interior on the first
// space into verb and data. ok is false if m carries no CTCP payload.
func DecodeCTCP(m *Message) (*CTCP, bool) {
	if !m.IsCTCP() {
		return nil, false
	}
	inner := m.Trailing[1 : len(m.Trailing)-1]
	c := &CTCP{Name: inner, Reply: m.Cmd == CmdNotice}
	if i := strings.IndexByte(inner, ' '); i >= 0 {
		c.Name = inner[:i]
		c.Data = inner[i+1:]
	}
	c.Verb = ctcpVerbs[c.Name]
	return c, true
}

// encodeCTCP wraps verb and optional data in the CTCP delimiters.
func encodeCTCP(verb, data string) string {
	if data != "" {
		return ctcpDelim + verb + " " + data + ctcpDelim
	}
	return ctcpDelim + verb + ctcpDelim
}
