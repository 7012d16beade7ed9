package irc

import "fmt"

// Command API: pure formatting over the transport's single write path.
// Each operation validates only its own required arguments; channel-name
// syntax is not checked, the server is authoritative and malformed input
// is simply forwarded.

// send formats one outbound line and writes it. All commands funnel
// through here, so concurrent callers are serialized by the transport.
func (c *Client) send(format string, args ...interface{}) error {
	c.mu.RLock()
	tr := c.tr
	ok := c.connected
	c.mu.RUnlock()
	if !ok || tr == nil {
		return ErrNotConnected
	}
	return tr.WriteLine(fmt.Sprintf(format, args...))
}

// SendRaw writes an arbitrary protocol line, for advanced callers.
func (c *Client) SendRaw(line string) error {
	if line == "" {
		return &UsageError{Command: "RAW", Missing: "line"}
	}
	return c.send("%s", line)
}

// Join joins one or more channels; channels may be comma-separated and may
// include keys. The list is passed through untouched, the server splits it.
func (c *Client) Join(channels string) error {
	if channels == "" {
		return &UsageError{Command: "JOIN", Missing: "channels"}
	}
	return c.send("JOIN %s", channels)
}

// Part leaves one or more comma-separated channels.
func (c *Client) Part(channels string) error {
	if channels == "" {
		return &UsageError{Command: "PART", Missing: "channels"}
	}
	return c.send("PART %s", channels)
}

// Privmsg sends a chat message to a channel or nickname.
func (c *Client) Privmsg(target, text string) error {
	if target == "" {
		return &UsageError{Command: "PRIVMSG", Missing: "target"}
	}
	if text == "" {
		return &UsageError{Command: "PRIVMSG", Missing: "message"}
	}
	return c.send("PRIVMSG %s :%s", target, text)
}

// Notice sends a notice, which by convention must not trigger automatic
// responses.
func (c *Client) Notice(target, text string) error {
	if target == "" {
		return &UsageError{Command: "NOTICE", Missing: "target"}
	}
	if text == "" {
		return &UsageError{Command: "NOTICE", Missing: "message"}
	}
	return c.send("NOTICE %s :%s", target, text)
}

// Action sends a CTCP ACTION ("/me") to a channel or nickname.
func (c *Client) Action(target, text string) error {
	if target == "" {
		return &UsageError{Command: "ACTION", Missing: "target"}
	}
	if text == "" {
		return &UsageError{Command: "ACTION", Missing: "action"}
	}
	return c.send("PRIVMSG %s :%s", target, encodeCTCP("ACTION", text))
}

// ChangeNick asks the server for a new nickname. The local nickname is
// updated only when the server confirms with a NICK message.
func (c *Client) ChangeNick(nick string) error {
	if nick == "" {
		return &UsageError{Command: "NICK", Missing: "nickname"}
	}
	return c.send("NICK %s", nick)
}

// SetTopic sets a channel topic.
func (c *Client) SetTopic(channel, topic string) error {
	if channel == "" {
		return &UsageError{Command: "TOPIC", Missing: "channel"}
	}
	if topic == "" {
		return &UsageError{Command: "TOPIC", Missing: "topic"}
	}
	return c.send("TOPIC %s :%s", channel, topic)
}

// Invite invites a user to a channel.
func (c *Client) Invite(nick, channel string) error {
	if nick == "" {
		return &UsageError{Command: "INVITE", Missing: "nickname"}
	}
	if channel == "" {
		return &UsageError{Command: "INVITE", Missing: "channel"}
	}
	return c.send("INVITE %s %s", nick, channel)
}

// List requests the channel list, optionally filtered by comma-separated
// channel names.
func (c *Client) List(filter string) error {
	if filter == "" {
		return c.send("LIST")
	}
	return c.send("LIST %s", filter)
}

// CTCPRequest sends a CTCP request; requests ride on PRIVMSG.
func (c *Client) CTCPRequest(target, verb, data string) error {
	if target == "" {
		return &UsageError{Command: "CTCP", Missing: "target"}
	}
	if verb == "" {
		return &UsageError{Command: "CTCP", Missing: "verb"}
	}
	return c.send("PRIVMSG %s :%s", target, encodeCTCP(verb, data))
}

// CTCPReply answers a CTCP request; replies ride on NOTICE.
func (c *Client) CTCPReply(target, verb, data string) error {
	if target == "" {
		return &UsageError{Command: "CTCP", Missing: "target"}
	}
	if verb == "" {
		return &UsageError{Command: "CTCP", Missing: "verb"}
	}
	return c.send("NOTICE %s :%s", target, encodeCTCP(verb, data))
}

// Pong answers a server PING with its payload.
func (c *Client) Pong(m *Message) error {
	return c.send("PONG :%s", m.Body())
}

// Quit announces departure. It does not close the transport: the server
// closes the connection, the receive loop observes that and tears down.
func (c *Client) Quit(message string) error {
	if message == "" {
		return c.send("QUIT")
	}
	return c.send("QUIT :%s", message)
}
