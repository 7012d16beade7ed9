package irc

import (
	"bufio"
	"crypto/tls"
	"errors"
	"io"
	"net"
	"strconv"
	"sync"
	"time"
)

// Protocol-standard ports, chosen when the caller passes port 0.
const (
	DefaultPort    = 6667
	DefaultTLSPort = 6697
)

// maxLineLen bounds a single protocol line. A line with no terminator
// within the bound is a protocol violation, not a transport failure.
const maxLineLen = 4096

const dialTimeout = time.Minute

// transport owns the raw socket, optionally wrapped in TLS. Reads are
// line-buffered and single-consumer; writes are whole-buffer and serialized
// so concurrent callers cannot interleave. There is deliberately no read
// timeout in steady state: a stalled peer blocks the reader until the OS
// reports an error. A bounded read deadline would be the natural
// enhancement here.
type transport struct {
	conn net.Conn
	r    *bufio.Reader

	wmu sync.Mutex

	closeOnce sync.Once
	closeErr  error
}

// dialTransport opens the connection and, when useTLS is set, performs the
// TLS handshake before returning, so certificate problems fail fast.
// Verification may be disabled for self-signed deployments; that is the
// caller's risk.
func dialTransport(host string, port int, useTLS, verifyPeer bool) (*transport, error) {
	if port == 0 {
		if useTLS {
			port = DefaultTLSPort
		} else {
			port = DefaultPort
		}
	}
	addr := net.JoinHostPort(host, strconv.Itoa(port))
	dialer := &net.Dialer{Timeout: dialTimeout}

	var conn net.Conn
	var err error
	if useTLS {
		cfg := &tls.Config{InsecureSkipVerify: !verifyPeer}
		conn, err = tls.DialWithDialer(dialer, "tcp", addr, cfg)
		if err != nil {
			return nil, &TransportError{Op: "tls handshake", Err: err}
		}
	} else {
		conn, err = dialer.Dial("tcp", addr)
		if err != nil {
			return nil, &TransportError{Op: "connect", Err: err}
		}
	}
	return newTransport(conn), nil
}

func newTransport(conn net.Conn) *transport {
	return &transport{conn: conn, r: bufio.NewReaderSize(conn, 1024)}
}

// ReadLine blocks until a full line is available and returns it without its
// terminator. Partial lines spanning several network reads are accumulated.
// An oversized line is discarded through its terminator and reported as a
// ProtocolError so the caller can keep reading. Peer close surfaces as
// io.EOF.
func (t *transport) ReadLine() (string, error) {
	var buf []byte
	for {
		frag, err := t.r.ReadSlice('\n')
		buf = append(buf, frag...)
		if err == nil {
			break
		}
		if errors.Is(err, bufio.ErrBufferFull) {
			if len(buf) > maxLineLen {
				if derr := t.discardLine(); derr != nil {
					return "", &TransportError{Op: "read", Err: derr}
				}
				return "", &ProtocolError{Line: string(buf[:64]), Reason: "line exceeds length bound"}
			}
			continue
		}
		if errors.Is(err, io.EOF) {
			return "", io.EOF
		}
		return "", &TransportError{Op: "read", Err: err}
	}
	for len(buf) > 0 && (buf[len(buf)-1] == '\n' || buf[len(buf)-1] == '\r') {
		buf = buf[:len(buf)-1]
	}
	if len(buf) > maxLineLen {
		return "", &ProtocolError{Line: string(buf[:64]), Reason: "line exceeds length bound"}
	}
	return string(buf), nil
}

// discardLine skips input through the next terminator.
func (t *transport) discardLine() error {
	for {
		_, err := t.r.ReadSlice('\n')
		if err == nil {
			return nil
		}
		if !errors.Is(err, bufio.ErrBufferFull) {
			return err
		}
	}
}

// WriteLine sends one complete line, appending the terminator. net.Conn
// retries short writes internally, so a return without error means the
// whole buffer was handed to the kernel.
func (t *transport) WriteLine(line string) error {
	t.wmu.Lock()
	defer t.wmu.Unlock()
	if _, err := t.conn.Write([]byte(line + "\r\n")); err != nil {
		return &TransportError{Op: "write", Err: err}
	}
	return nil
}

// setReadDeadline bounds subsequent reads; the zero time clears the bound.
// Used only during login.
func (t *transport) setReadDeadline(d time.Time) {
	t.conn.SetReadDeadline(d)
}

// Close releases the socket (and TLS session) exactly once. Safe to call
// from any goroutine, including while a reader is blocked; the blocked read
// returns with an error.
func (t *transport) Close() error {
	t.closeOnce.Do(func() {
		t.closeErr = t.conn.Close()
	})
	return t.closeErr
}
