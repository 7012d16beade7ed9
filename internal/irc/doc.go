// Package irc is a client-side engine for the IRC wire protocol.
//
// It owns one connection to one server: transport and TLS setup, the
// registration/authentication handshake (plain PASS or SASL PLAIN), line
// framing, message and CTCP parsing, a synchronous receive loop, and a
// command-composition API for outbound actions.
//
// Typical use:
//
//	client, err := irc.NewClient(irc.Config{Host: "irc.example.net", Nick: "gopher"})
//	...
//	if err := client.Connect(); err != nil { ... }
//	if err := client.Login(); err != nil { ... }
//	go client.Loop(func(c *irc.Client, m *irc.Message) {
//		if m.Cmd == irc.CmdPing {
//			c.Pong(m)
//		}
//	})
//	...
//	client.Quit("bye")
//	<-client.Done()
//
// The handler runs on the receive loop's goroutine, one message at a time,
// in network arrival order. Commands may be sent from any goroutine. The
// Done channel closes exactly once when the connection terminates.
package irc
