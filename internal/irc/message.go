package irc

import (
	"strconv"
	"strings"
)

// Cmd classifies a parsed line. Commands outside the recognized set are
// CmdUnknown; they are still delivered so the caller can report them.
type Cmd int

const (
	CmdUnknown Cmd = iota
	CmdNumeric
	CmdPrivmsg
	CmdNotice
	CmdPing
	CmdPong
	CmdJoin
	CmdPart
	CmdQuit
	CmdNick
	CmdMode
	CmdTopic
	CmdKick
	CmdInvite
	CmdError
	CmdCap
	CmdAuthenticate
)

var cmdNames = map[Cmd]string{
	CmdUnknown:      "UNKNOWN",
	CmdNumeric:      "NUMERIC",
	CmdPrivmsg:      "PRIVMSG",
	CmdNotice:       "NOTICE",
	CmdPing:         "PING",
	CmdPong:         "PONG",
	CmdJoin:         "JOIN",
	CmdPart:         "PART",
	CmdQuit:         "QUIT",
	CmdNick:         "NICK",
	CmdMode:         "MODE",
	CmdTopic:        "TOPIC",
	CmdKick:         "KICK",
	CmdInvite:       "INVITE",
	CmdError:        "ERROR",
	CmdCap:          "CAP",
	CmdAuthenticate: "AUTHENTICATE",
}

var cmdTokens = map[string]Cmd{
	"PRIVMSG":      CmdPrivmsg,
	"NOTICE":       CmdNotice,
	"PING":         CmdPing,
	"PONG":         CmdPong,
	"JOIN":         CmdJoin,
	"PART":         CmdPart,
	"QUIT":         CmdQuit,
	"NICK":         CmdNick,
	"MODE":         CmdMode,
	"TOPIC":        CmdTopic,
	"KICK":         CmdKick,
	"INVITE":       CmdInvite,
	"ERROR":        CmdError,
	"CAP":          CmdCap,
	"AUTHENTICATE": CmdAuthenticate,
}

func (c Cmd) String() string {
	if s, ok := cmdNames[c]; ok {
		return s
	}
	return "UNKNOWN"
}

// Message is the parse result for one protocol line. It is constructed by
// ParseMessage, handed to the event callback, and not retained afterwards.
type Message struct {
	Raw     string // the line as received, without the terminator
	Prefix  string // origin nick!user@host or server name, "" if absent
	Cmd     Cmd
	Command string // raw command token, useful when Cmd is CmdUnknown
	Numeric int    // valid only when Cmd is CmdNumeric

	// Params holds the middle parameters, in order. The trailing parameter
	// is kept separate because an empty trailing is legal and distinct
	// from a missing one.
	Params      []string
	Trailing    string
	HasTrailing bool

	// Channel is the first parameter for commands that target a channel
	// (JOIN/PART/MODE/TOPIC/KICK) and for PRIVMSG/NOTICE, whose first
	// parameter may be a channel or a nickname.
	Channel string
}

// Nick returns the nickname portion of the prefix, or the whole prefix if
// it carries no user/host part (i.e. a server name).
func (m *Message) Nick() string {
	if i := strings.IndexByte(m.Prefix, '!'); i >= 0 {
		return m.Prefix[:i]
	}
	return m.Prefix
}

// Body returns the trailing parameter if present, else the last middle
// parameter. Chat text, quit reasons and topics all live here.
func (m *Message) Body() string {
	if m.HasTrailing {
		return m.Trailing
	}
	if len(m.Params) > 0 {
		return m.Params[len(m.Params)-1]
	}
	return ""
}

// Commands whose first parameter names a channel.
var channelCommands = map[Cmd]bool{
	CmdJoin:    true,
	CmdPart:    true,
	CmdMode:    true,
	CmdTopic:   true,
	CmdKick:    true,
	CmdPrivmsg: true,
	CmdNotice:  true,
}

func isNumericToken(tok string) bool {
	if len(tok) != 3 {
		return false
	}
	for i := 0; i < 3; i++ {
		if tok[i] < '0' || tok[i] > '9' {
			return false
		}
	}
	return true
}

// ParseMessage parses one terminator-stripped protocol line:
//
//	[":" prefix SPACE] command *( SPACE middle ) [SPACE ":" trailing]
//
// Classification never fails; unknown commands and numerics are reported,
// not dropped. The only parse error is a blank line.
func ParseMessage(raw string) (*Message, error) {
	line := strings.TrimRight(raw, "\r\n")
	if strings.TrimSpace(line) == "" {
		return nil, &ProtocolError{Line: raw, Reason: "empty line"}
	}

	m := &Message{Raw: line}
	rest := line

	if rest[0] == ':' {
		i := strings.IndexByte(rest, ' ')
		if i < 0 {
			return nil, &ProtocolError{Line: line, Reason: "prefix without command"}
		}
		m.Prefix = rest[1:i]
		rest = strings.TrimLeft(rest[i+1:], " ")
	}

	// Command token. A bare command with no parameters is legal.
	if i := strings.IndexByte(rest, ' '); i >= 0 {
		m.Command = rest[:i]
		rest = strings.TrimLeft(rest[i+1:], " ")
	} else {
		m.Command = rest
		rest = ""
	}

	// Parameters: a parameter opening with ':' consumes the rest of the
	// line verbatim, spaces included. This is the one context-sensitive
	// rule in the grammar.
	for rest != "" {
		if rest[0] == ':' {
			m.Trailing = rest[1:]
			m.HasTrailing = true
			break
		}
		if i := strings.IndexByte(rest, ' '); i >= 0 {
			m.Params = append(m.Params, rest[:i])
			rest = strings.TrimLeft(rest[i+1:], " ")
		} else {
			m.Params = append(m.Params, rest)
			rest = ""
		}
	}

	if isNumericToken(m.Command) {
		m.Cmd = CmdNumeric
		m.Numeric, _ = strconv.Atoi(m.Command)
	} else if c, ok := cmdTokens[strings.ToUpper(m.Command)]; ok {
		m.Cmd = c
	} else {
		m.Cmd = CmdUnknown
	}

	if channelCommands[m.Cmd] {
		if len(m.Params) > 0 {
			m.Channel = m.Params[0]
		} else if m.HasTrailing {
			// Some servers relay JOIN/PART with the channel as trailing.
			m.Channel = m.Trailing
		}
	}

	return m, nil
}
