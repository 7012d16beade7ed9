package irc

import (
	"bufio"
	"errors"
	"net"
	"testing"

	"github.com/ergochat/irc-go/ircmsg"
)

// capture runs one command against an in-memory connection and returns the
// line it put on the wire, without the terminator.
func capture(t *testing.T, f func(c *Client) error) string {
	t.Helper()
	clientConn, serverConn := net.Pipe()
	defer clientConn.Close()
	defer serverConn.Close()

	c := &Client{
		connected: true,
		tr:        newTransport(clientConn),
		done:      make(chan struct{}),
	}

	errCh := make(chan error, 1)
	go func() { errCh <- f(c) }()

	line, err := bufio.NewReader(serverConn).ReadString('\n')
	if err != nil {
		t.Fatalf("Failed to read command output: %v", err)
	}
	if err := <-errCh; err != nil {
		t.Fatalf("Command failed: %v", err)
	}
	if line[len(line)-2:] != "\r\n" {
		t.Fatalf("Line not CRLF-terminated: %q", line)
	}
	return line[:len(line)-2]
}

// oracle parses a composed line with an independent implementation and
// checks command and parameters against expectations.
func oracle(t *testing.T, line, command string, params ...string) {
	t.Helper()
	parsed, err := ircmsg.ParseLine(line)
	if err != nil {
		t.Fatalf("Oracle rejected %q: %v", line, err)
	}
	if parsed.Command != command {
		t.Errorf("Expected command %s, got %s in %q", command, parsed.Command, line)
	}
	if len(parsed.Params) != len(params) {
		t.Fatalf("Expected %d params, got %v in %q", len(params), parsed.Params, line)
	}
	for i, p := range params {
		if parsed.Params[i] != p {
			t.Errorf("Param %d: expected %q, got %q in %q", i, p, parsed.Params[i], line)
		}
	}
}

func TestJoinComposition(t *testing.T) {
	line := capture(t, func(c *Client) error { return c.Join("#linux,#go") })
	oracle(t, line, "JOIN", "#linux,#go")
}

func TestPrivmsgComposition(t *testing.T) {
	line := capture(t, func(c *Client) error { return c.Privmsg("#linux", "hello there world") })
	oracle(t, line, "PRIVMSG", "#linux", "hello there world")
}

func TestNoticeComposition(t *testing.T) {
	line := capture(t, func(c *Client) error { return c.Notice("dave", "automated reply") })
	oracle(t, line, "NOTICE", "dave", "automated reply")
}

func TestActionComposition(t *testing.T) {
	line := capture(t, func(c *Client) error { return c.Action("#linux", "waves") })
	oracle(t, line, "PRIVMSG", "#linux", "\x01ACTION waves\x01")
}

func TestCTCPRequestRidesOnPrivmsg(t *testing.T) {
	line := capture(t, func(c *Client) error { return c.CTCPRequest("dave", "VERSION", "") })
	oracle(t, line, "PRIVMSG", "dave", "\x01VERSION\x01")
}

func TestCTCPReplyRidesOnNotice(t *testing.T) {
	line := capture(t, func(c *Client) error { return c.CTCPReply("dave", "PING", "12345") })
	oracle(t, line, "NOTICE", "dave", "\x01PING 12345\x01")
}

func TestTopicComposition(t *testing.T) {
	line := capture(t, func(c *Client) error { return c.SetTopic("#linux", "kernel talk only") })
	oracle(t, line, "TOPIC", "#linux", "kernel talk only")
}

func TestInviteComposition(t *testing.T) {
	line := capture(t, func(c *Client) error { return c.Invite("dave", "#linux") })
	oracle(t, line, "INVITE", "dave", "#linux")
}

func TestNickComposition(t *testing.T) {
	line := capture(t, func(c *Client) error { return c.ChangeNick("dave2") })
	oracle(t, line, "NICK", "dave2")
}

func TestListComposition(t *testing.T) {
	line := capture(t, func(c *Client) error { return c.List("") })
	oracle(t, line, "LIST")

	line = capture(t, func(c *Client) error { return c.List("#linux,#go") })
	oracle(t, line, "LIST", "#linux,#go")
}

func TestQuitComposition(t *testing.T) {
	line := capture(t, func(c *Client) error { return c.Quit("") })
	oracle(t, line, "QUIT")

	line = capture(t, func(c *Client) error { return c.Quit("bye for now") })
	oracle(t, line, "QUIT", "bye for now")
}

func TestPongEchoesPayload(t *testing.T) {
	ping, err := ParseMessage("PING :irc.example.net")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	line := capture(t, func(c *Client) error { return c.Pong(ping) })
	oracle(t, line, "PONG", "irc.example.net")
}

func TestQuitDoesNotCloseTransport(t *testing.T) {
	clientConn, serverConn := net.Pipe()
	defer clientConn.Close()
	defer serverConn.Close()

	c := &Client{
		connected: true,
		tr:        newTransport(clientConn),
		done:      make(chan struct{}),
	}

	go bufio.NewReader(serverConn).ReadString('\n')
	if err := c.Quit("leaving"); err != nil {
		t.Fatalf("Quit failed: %v", err)
	}

	// The connection stays open until the server hangs up.
	if !c.Connected() {
		t.Error("Quit must not tear down the transport")
	}
	errCh := make(chan error, 1)
	go func() { errCh <- c.SendRaw("PING :probe") }()
	if _, err := bufio.NewReader(serverConn).ReadString('\n'); err != nil {
		t.Fatalf("Transport unusable after Quit: %v", err)
	}
	if err := <-errCh; err != nil {
		t.Errorf("Send after Quit failed: %v", err)
	}
}

func TestUsageErrors(t *testing.T) {
	c := &Client{connected: true, done: make(chan struct{})}

	tests := []struct {
		name string
		call func() error
	}{
		{"join", func() error { return c.Join("") }},
		{"part", func() error { return c.Part("") }},
		{"msg no target", func() error { return c.Privmsg("", "hi") }},
		{"msg no text", func() error { return c.Privmsg("#linux", "") }},
		{"notice no target", func() error { return c.Notice("", "hi") }},
		{"action no text", func() error { return c.Action("#linux", "") }},
		{"nick", func() error { return c.ChangeNick("") }},
		{"topic no topic", func() error { return c.SetTopic("#linux", "") }},
		{"invite no channel", func() error { return c.Invite("dave", "") }},
		{"ctcp no verb", func() error { return c.CTCPRequest("dave", "", "") }},
		{"raw", func() error { return c.SendRaw("") }},
	}
	for _, tt := range tests {
		err := tt.call()
		var uerr *UsageError
		if !errors.As(err, &uerr) {
			t.Errorf("%s: expected UsageError, got %v", tt.name, err)
		}
	}
}

func TestCommandsWhenDisconnected(t *testing.T) {
	c := &Client{done: make(chan struct{})}
	if err := c.Join("#linux"); !errors.Is(err, ErrNotConnected) {
		t.Errorf("Expected ErrNotConnected, got %v", err)
	}
	if err := c.Privmsg("#linux", "hi"); !errors.Is(err, ErrNotConnected) {
		t.Errorf("Expected ErrNotConnected, got %v", err)
	}
}
