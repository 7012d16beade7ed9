package irc

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net"
	"strings"
	"sync"
	"time"
)

// State tracks the session handshake. Closed is terminal and reachable
// from every other state.
type State int

const (
	StateDisconnected State = iota
	StateConnecting
	StateRegistering
	StateAuthenticating
	StateReady
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnecting:
		return "connecting"
	case StateRegistering:
		return "registering"
	case StateAuthenticating:
		return "authenticating"
	case StateReady:
		return "ready"
	default:
		return "closed"
	}
}

// ErrNickRejected is returned by Login when the server refuses the
// configured nickname during registration. There is no automatic retry
// with an alternate nick; the caller decides.
var ErrNickRejected = errors.New("nickname rejected by server")

// loginTimeout bounds the wait for the registration-success numeric.
const loginTimeout = 30 * time.Second

// Config is the connection surface supplied by the front end.
type Config struct {
	Host     string
	Port     int // 0 means the protocol default for the chosen transport
	Nick     string
	Username string
	RealName string

	// Password is the server password (or the SASL password when UseSASL
	// is set). It is zeroed as soon as it has been handed to the
	// transport; it never survives past the single login attempt.
	Password []byte

	UseTLS     bool
	VerifyPeer bool
	UseSASL    bool

	// Autojoin channels are joined immediately after registration.
	Autojoin []string
}

// Handler receives every parsed message, on the receive loop's goroutine,
// in arrival order. It must not block indefinitely: while it runs, no
// further messages are delivered on this connection.
type Handler func(c *Client, m *Message)

// Client is the engine for one server connection. Exactly one connection
// is active per Client; connecting again requires a new Client.
type Client struct {
	cfg Config

	mu          sync.RWMutex
	state       State
	connected   bool
	authed      bool
	nick        string
	host        string
	loopRunning bool

	tr *transport

	// done is the shutdown coordinator: closed exactly once when the
	// connection is finished, after the connected flag has been cleared.
	// It carries no payload; waiters wake and check state. The signal is
	// a channel close, with no buffered or formatted writes on the path.
	done     chan struct{}
	doneOnce sync.Once

	logFn LogFunc
}

// NewClient validates the configuration and prepares an engine instance.
// No network I/O happens until Connect.
func NewClient(cfg Config) (*Client, error) {
	if cfg.Host == "" {
		return nil, errors.New("server host required")
	}
	if cfg.Nick == "" {
		return nil, errors.New("nickname required")
	}
	if cfg.Username == "" {
		cfg.Username = cfg.Nick
	}
	if cfg.RealName == "" {
		cfg.RealName = cfg.Username
	}
	return &Client{
		cfg:   cfg,
		state: StateDisconnected,
		done:  make(chan struct{}),
	}, nil
}

// SetLogFunc installs the diagnostic callback. Call before Connect.
func (c *Client) SetLogFunc(fn LogFunc) {
	c.logFn = fn
}

// Done returns the shutdown coordinator channel. It is closed once the
// connection has fully terminated, whatever the cause.
func (c *Client) Done() <-chan struct{} {
	return c.done
}

// Nickname returns the current nickname. Before registration it is the
// configured nick; afterwards it follows server-confirmed NICK changes.
func (c *Client) Nickname() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.nick != "" {
		return c.nick
	}
	return c.cfg.Nick
}

// ServerHost returns the host this client was pointed at.
func (c *Client) ServerHost() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.host != "" {
		return c.host
	}
	return c.cfg.Host
}

// Connected reports whether the transport is open.
func (c *Client) Connected() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.connected
}

// Authenticated reports whether the server accepted our credentials. It is
// not retroactively cleared when the connection later closes.
func (c *Client) Authenticated() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.authed
}

// State returns the session state.
func (c *Client) State() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

// Connect opens the transport (performing the TLS handshake when
// configured) but does not register. Follow with Login.
func (c *Client) Connect() error {
	c.mu.Lock()
	if c.state != StateDisconnected {
		c.mu.Unlock()
		return fmt.Errorf("connect: client is %s; one connection per client", c.state)
	}
	c.state = StateConnecting
	c.mu.Unlock()

	tr, err := dialTransport(c.cfg.Host, c.cfg.Port, c.cfg.UseTLS, c.cfg.VerifyPeer)
	if err != nil {
		c.mu.Lock()
		c.state = StateDisconnected
		c.mu.Unlock()
		return err
	}

	c.mu.Lock()
	c.tr = tr
	c.connected = true
	c.host = c.cfg.Host
	c.mu.Unlock()
	return nil
}

// Login runs the registration and authentication exchange and blocks until
// the server's registration-success numeric is observed, a definitive
// failure numeric arrives, or the bounded wait elapses. Until it returns,
// Login is the sole transport reader; the receive loop takes over after.
//
// Authentication failures come back as *AuthError, distinct from transport
// failures, so credentials can be retried on the open connection.
func (c *Client) Login() error {
	c.mu.Lock()
	if !c.connected || c.tr == nil {
		c.mu.Unlock()
		return ErrNotConnected
	}
	if c.state == StateReady {
		c.mu.Unlock()
		return errors.New("login: already registered")
	}
	c.state = StateRegistering
	tr := c.tr
	c.mu.Unlock()

	tr.setReadDeadline(time.Now().Add(loginTimeout))
	defer tr.setReadDeadline(time.Time{})

	hasPass := len(c.cfg.Password) > 0
	if c.cfg.UseSASL {
		if err := tr.WriteLine("CAP REQ :sasl"); err != nil {
			return c.loginTransportFailed(err)
		}
	} else if hasPass {
		err := tr.WriteLine("PASS " + string(c.cfg.Password))
		c.zeroPassword()
		if err != nil {
			return c.loginTransportFailed(err)
		}
	}
	if err := tr.WriteLine("NICK " + c.cfg.Nick); err != nil {
		return c.loginTransportFailed(err)
	}
	if err := tr.WriteLine(fmt.Sprintf("USER %s 0 * :%s", c.cfg.Username, c.cfg.RealName)); err != nil {
		return c.loginTransportFailed(err)
	}

	credsAccepted := false
	for {
		line, err := tr.ReadLine()
		if err != nil {
			var perr *ProtocolError
			if errors.As(err, &perr) {
				c.logf(LogWarn, 0, "ignoring bad line during login: %v", perr)
				continue
			}
			var nerr net.Error
			if errors.As(err, &nerr) && nerr.Timeout() {
				c.zeroPassword()
				return &AuthError{Reason: "timed out waiting for registration"}
			}
			return c.loginTransportFailed(err)
		}
		m, err := ParseMessage(line)
		if err != nil {
			c.logf(LogWarn, 0, "unparseable registration reply: %v", err)
			continue
		}

		switch m.Cmd {
		case CmdPing:
			if err := tr.WriteLine("PONG :" + m.Body()); err != nil {
				return c.loginTransportFailed(err)
			}

		case CmdCap:
			sub := ""
			if len(m.Params) >= 2 {
				sub = m.Params[1]
			}
			switch sub {
			case "ACK":
				c.mu.Lock()
				c.state = StateAuthenticating
				c.mu.Unlock()
				if err := tr.WriteLine("AUTHENTICATE PLAIN"); err != nil {
					return c.loginTransportFailed(err)
				}
			case "NAK":
				c.zeroPassword()
				return &AuthError{Reason: "server refused the sasl capability"}
			}

		case CmdAuthenticate:
			// "+" is the empty challenge: answer with the PLAIN payload.
			payload := bytes.Join([][]byte{
				[]byte(c.cfg.Username),
				[]byte(c.cfg.Username),
				c.cfg.Password,
			}, []byte{0})
			err := tr.WriteLine("AUTHENTICATE " + base64.StdEncoding.EncodeToString(payload))
			c.zeroPassword()
			if err != nil {
				return c.loginTransportFailed(err)
			}

		case CmdError:
			return c.loginTransportFailed(&TransportError{
				Op:  "register",
				Err: errors.New(m.Body()),
			})

		case CmdNumeric:
			switch m.Numeric {
			case RplLoggedIn:
				credsAccepted = true
			case RplSASLSuccess:
				credsAccepted = true
				if err := tr.WriteLine("CAP END"); err != nil {
					return c.loginTransportFailed(err)
				}
			case ErrSASLFail, ErrSASLTooLong, ErrSASLAborted, ErrSASLAlready, ErrNickLocked, RplSASLMechs:
				c.zeroPassword()
				return &AuthError{Numeric: m.Numeric, Reason: "SASL authentication failed"}
			case ErrPasswdMismatch:
				return &AuthError{Numeric: m.Numeric, Reason: "server password rejected"}
			case ErrNicknameInUse, ErrErroneousNickname, ErrNickCollision, ErrNoNicknameGiven:
				return fmt.Errorf("%w: %q (%d %s)", ErrNickRejected, c.cfg.Nick, m.Numeric, NumericName(m.Numeric))
			case RplWelcome:
				nick := c.cfg.Nick
				if len(m.Params) > 0 {
					nick = m.Params[0]
				}
				c.mu.Lock()
				c.nick = nick
				c.authed = credsAccepted || (!c.cfg.UseSASL && hasPass)
				c.state = StateReady
				c.mu.Unlock()
				if len(c.cfg.Autojoin) > 0 {
					if err := tr.WriteLine("JOIN " + strings.Join(c.cfg.Autojoin, ",")); err != nil {
						return c.loginTransportFailed(err)
					}
				}
				return nil
			default:
				c.logf(LogDebug, 1, "pre-welcome numeric %d %s", m.Numeric, NumericName(m.Numeric))
			}

		default:
			c.logf(LogDebug, 2, "pre-welcome message: %s", m.Raw)
		}
	}
}

// Identify retries authentication with fresh credentials on the open
// transport, after a Login rejected the previous ones. It is not valid
// once the session is Ready.
func (c *Client) Identify(username string, password []byte) error {
	c.mu.Lock()
	if c.state == StateReady {
		c.mu.Unlock()
		return errors.New("identify: already registered")
	}
	c.mu.Unlock()
	if username != "" {
		c.cfg.Username = username
	}
	c.cfg.Password = password
	return c.Login()
}

func (c *Client) zeroPassword() {
	for i := range c.cfg.Password {
		c.cfg.Password[i] = 0
	}
	c.cfg.Password = nil
}

// loginTransportFailed tears the connection down and passes the error
// through; a transport failure during login is fatal to the connection.
func (c *Client) loginTransportFailed(err error) error {
	c.zeroPassword()
	c.shutdown()
	if errors.Is(err, io.EOF) {
		return &TransportError{Op: "register", Err: err}
	}
	return err
}

// Loop is the receive loop: the single reader of the transport for the
// rest of the connection. Each line is parsed and handed to handler
// synchronously, so callback order equals network arrival order. The loop
// exits on peer close or a fatal transport error; protocol violations are
// logged and skipped. Runs on the calling goroutine.
func (c *Client) Loop(handler Handler) {
	c.mu.Lock()
	if !c.connected || c.tr == nil {
		c.mu.Unlock()
		c.shutdown()
		return
	}
	c.loopRunning = true
	tr := c.tr
	c.mu.Unlock()

	for {
		line, err := tr.ReadLine()
		if err != nil {
			var perr *ProtocolError
			if errors.As(err, &perr) {
				c.logf(LogWarn, 0, "%v", perr)
				continue
			}
			if errors.Is(err, io.EOF) {
				c.logf(LogInfo, 0, "connection closed by peer")
			} else {
				c.logf(LogError, 0, "receive loop: %v", err)
			}
			break
		}

		m, err := ParseMessage(line)
		if err != nil {
			c.logf(LogWarn, 0, "dropping unparseable line: %v", err)
			continue
		}

		c.observe(m)
		if handler != nil {
			handler(c, m)
		}
	}
	c.shutdown()
}

// observe updates connection state derived from inbound traffic. The
// receive loop is the only writer here after registration.
func (c *Client) observe(m *Message) {
	if m.Cmd != CmdNick {
		return
	}
	newNick := m.Body()
	if len(m.Params) > 0 {
		newNick = m.Params[0]
	}
	if newNick == "" {
		return
	}
	c.mu.Lock()
	if m.Nick() == c.nick {
		// Server confirmed our own nick change.
		c.nick = newNick
	}
	c.mu.Unlock()
}

// shutdown clears the connected flag, releases the transport exactly once,
// and then signals the done channel. Flag before signal, so a woken waiter
// never observes connected=true on a dead connection.
func (c *Client) shutdown() {
	c.mu.Lock()
	c.connected = false
	c.state = StateClosed
	tr := c.tr
	c.mu.Unlock()
	if tr != nil {
		tr.Close()
	}
	c.doneOnce.Do(func() { close(c.done) })
}

// Close requests termination and waits for it: closing the transport
// unblocks a receive loop stuck in a read, which then finishes the
// shutdown. If no loop is running, Close completes the shutdown itself.
func (c *Client) Close() {
	c.mu.Lock()
	tr := c.tr
	running := c.loopRunning
	c.mu.Unlock()
	if tr != nil {
		tr.Close()
	}
	if running {
		<-c.done
	} else {
		c.shutdown()
	}
}
