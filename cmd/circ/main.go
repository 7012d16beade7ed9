package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/phasenet/circ/internal/config"
	"github.com/phasenet/circ/internal/irc"
	"github.com/phasenet/circ/internal/transcript"
)

// Version information - set at build time via ldflags
var (
	version   = "dev"
	buildDate = "unknown"
	gitCommit = "unknown"
)

// app is the interactive front end around one engine client. The client
// pointer is replaced by /server, so it is guarded.
type app struct {
	mu     sync.Mutex
	client *irc.Client

	fgChan string
	dnd    bool
	debug  int

	log *transcript.Writer

	ctcpPingSent time.Time
}

func main() {
	configPath := flag.String("c", "", "Path to configuration file")
	host := flag.String("h", "", "IRC server hostname")
	port := flag.Int("p", 0, "IRC server port (0 = 6667 plain, 6697 TLS)")
	nick := flag.String("n", "", "Nickname")
	user := flag.String("u", "", "Username")
	pass := flag.String("k", "", "Password (omit to be prompted when -u is set)")
	useTLS := flag.Bool("t", false, "Use TLS encryption")
	useSASL := flag.Bool("s", false, "Use SASL authentication")
	autojoin := flag.String("a", "", "Channels to autojoin on connect (comma-separated)")
	fgChan := flag.String("f", "", "Foreground channel on connect")
	logFile := flag.String("l", "", "Session transcript file")
	debug := flag.Int("d", 0, "Debug level (0-10)")
	showVersion := flag.Bool("V", false, "Show version information and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("circ version %s\n", version)
		fmt.Printf("Built: %s\n", buildDate)
		fmt.Printf("Commit: %s\n", gitCommit)
		os.Exit(0)
	}

	// Start from the config file, then let flags override.
	cfg := &config.Config{VerifyTLS: true}
	if *configPath != "" {
		var err error
		cfg, err = config.Load(*configPath)
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}
	}
	if *host != "" {
		cfg.Server = *host
	}
	if *port != 0 {
		cfg.Port = *port
	}
	if *nick != "" {
		cfg.Nick = *nick
	}
	if *user != "" {
		cfg.Username = *user
	}
	if *pass != "" {
		cfg.Password = *pass
	}
	if *useTLS {
		cfg.UseTLS = true
		cfg.VerifyTLS = false
	}
	if *useSASL {
		cfg.UseSASL = true
	}
	if *autojoin != "" {
		cfg.Autojoin = strings.Split(*autojoin, ",")
	}
	if *fgChan != "" {
		cfg.Foreground = *fgChan
	}
	if *logFile != "" {
		cfg.LogFile = *logFile
	}
	if *debug != 0 {
		cfg.Debug = *debug
	}
	if cfg.Server == "" {
		log.Fatal("No server specified; use -h or a config file")
	}
	if cfg.Nick == "" {
		log.Fatal("No nickname specified; use -n or a config file")
	}

	stdin := bufio.NewScanner(os.Stdin)

	// Read the password interactively if a username was given without one.
	if cfg.Username != "" && cfg.Password == "" {
		fmt.Fprintf(os.Stderr, "Password for %s@%s: ", cfg.Username, cfg.Server)
		if stdin.Scan() {
			cfg.Password = stdin.Text()
		}
	}

	a := &app{fgChan: cfg.Foreground, debug: cfg.Debug}
	if cfg.LogFile != "" {
		w, err := transcript.Open(cfg.LogFile)
		if err != nil {
			log.Fatalf("Failed to open transcript: %v", err)
		}
		a.log = w
		defer w.Close()
	}

	client, err := a.connect(cfg.Server, cfg.Port, irc.Config{
		Host:       cfg.Server,
		Port:       cfg.Port,
		Nick:       cfg.Nick,
		Username:   cfg.Username,
		RealName:   cfg.RealName,
		Password:   []byte(cfg.Password),
		UseTLS:     cfg.UseTLS,
		VerifyPeer: cfg.VerifyTLS,
		UseSASL:    cfg.UseSASL,
		Autojoin:   cfg.Autojoin,
	})
	cfg.Password = ""
	if err != nil {
		log.Fatalf("Failed to connect: %v", err)
	}

	fmt.Printf("=== circ %s ready. Type /help for commands, /quit or ^C to exit ===\n", version)

	// The signal handler only performs a channel send; all rendering
	// happens on this goroutine.
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	lines := make(chan string)
	go func() {
		defer close(lines)
		for stdin.Scan() {
			lines <- stdin.Text()
		}
	}()

	for {
		a.prompt()
		select {
		case sig := <-sigChan:
			fmt.Printf("\nReceived signal %v, shutting down...\n", sig)
			a.shutdown("Interrupted")
			return
		case <-client.Done():
			fmt.Println("\nDisconnected from server")
			return
		case line, ok := <-lines:
			if !ok {
				a.shutdown("EOF")
				return
			}
			line = strings.TrimSpace(line)
			if line == "" {
				continue
			}
			if quit := a.dispatch(line); quit {
				return
			}
			a.mu.Lock()
			client = a.client
			a.mu.Unlock()
		}
	}
}

// connect builds a client, connects, logs in and starts its receive loop.
func (a *app) connect(host string, port int, cfg irc.Config) (*irc.Client, error) {
	client, err := irc.NewClient(cfg)
	if err != nil {
		return nil, err
	}
	client.SetLogFunc(a.logDiagnostic)
	if err := client.Connect(); err != nil {
		return nil, err
	}
	if err := client.Login(); err != nil {
		client.Close()
		return nil, err
	}
	a.mu.Lock()
	a.client = client
	a.mu.Unlock()
	go client.Loop(a.handleMessage)
	fmt.Printf("Connected to %s as %s\n", host, client.Nickname())
	return client, nil
}

func (a *app) prompt() {
	a.mu.Lock()
	client := a.client
	fg := a.fgChan
	a.mu.Unlock()
	if client == nil {
		fmt.Print("IRC> ")
		return
	}
	if fg != "" {
		fmt.Printf("%s@%s (%s)> ", client.Nickname(), client.ServerHost(), fg)
	} else {
		fmt.Printf("%s@%s> ", client.Nickname(), client.ServerHost())
	}
}

// print renders one line of client output and mirrors it to the transcript.
func (a *app) print(format string, args ...interface{}) {
	line := fmt.Sprintf(format, args...)
	fmt.Println("\r" + line)
	if a.log != nil {
		if err := a.log.Append(line); err != nil {
			log.Printf("Error writing transcript: %v", err)
		}
	}
}

// logDiagnostic is the engine's logging hook; debug output is filtered by
// the configured level.
func (a *app) logDiagnostic(level irc.LogLevel, sublevel int, file string, line int, msg string) {
	a.mu.Lock()
	debug := a.debug
	a.mu.Unlock()
	if level == irc.LogDebug && sublevel > debug {
		return
	}
	log.Printf("[%s] %s:%d %s", level, file, line, msg)
}

// displayNumerics are server replies rendered as plain body text.
var displayNumerics = map[int]bool{
	irc.RplWelcome: true, irc.RplYourHost: true, irc.RplCreated: true,
	irc.RplMyInfo: true, irc.RplISupport: true,
	irc.RplStatsDLine: true, irc.RplLUserClient: true, irc.RplLUserOp: true,
	irc.RplLUserUnknown: true, irc.RplLUserChannels: true, irc.RplLUserMe: true,
	irc.RplLocalUsers: true, irc.RplGlobalUsers: true,
	irc.RplMOTDStart: true, irc.RplMOTD: true, irc.RplEndOfMOTD: true, irc.ErrNoMOTD: true,
	irc.RplNamReply: true, irc.RplEndOfNames: true,
	irc.RplNoTopic: true, irc.RplTopic: true,
	irc.RplVisibleHost: true,
	irc.RplListStart:   true, irc.RplList: true, irc.RplListEnd: true,
}

// handleMessage runs on the receive loop goroutine, one message at a time.
func (a *app) handleMessage(c *irc.Client, m *irc.Message) {
	switch m.Cmd {
	case irc.CmdNumeric:
		switch {
		case displayNumerics[m.Numeric]:
			a.print("%s", m.Body())
		case m.Numeric == irc.ErrCannotSendToChan || m.Numeric == irc.ErrUnknownCommand ||
			m.Numeric == irc.ErrNoTextToSend:
			a.print("%s %s", m.Prefix, m.Body())
		default:
			name := irc.NumericName(m.Numeric)
			if name == "" {
				name = "unknown"
			}
			a.print("[%d %s] %s", m.Numeric, name, m.Body())
		}

	case irc.CmdPrivmsg, irc.CmdNotice:
		a.mu.Lock()
		dnd := a.dnd
		a.mu.Unlock()
		if !dnd && strings.HasPrefix(strings.ToLower(m.Body()), strings.ToLower(c.Nickname())) {
			fmt.Print("\a") // mentioned: ring the bell
		}
		if ctcp, ok := irc.DecodeCTCP(m); ok {
			a.handleCTCP(c, m, ctcp)
			return
		}
		a.print("%s <%s> %s", m.Channel, m.Prefix, m.Body())

	case irc.CmdPing:
		if err := c.Pong(m); err != nil {
			log.Printf("Error sending PONG: %v", err)
		}

	case irc.CmdJoin:
		a.print("%s has joined %s", m.Prefix, m.Channel)
	case irc.CmdPart:
		a.print("%s has left %s", m.Prefix, m.Channel)
	case irc.CmdQuit:
		a.print("%s has quit %s", m.Prefix, m.Body())
	case irc.CmdKick:
		a.print("%s has been kicked from %s (%s)", kickTarget(m), m.Channel, m.Body())
	case irc.CmdNick:
		a.print("%s is now known as %s", m.Nick(), m.Body())
	case irc.CmdMode:
		args := m.Params
		if m.HasTrailing {
			args = append(args[:len(args):len(args)], m.Trailing)
		}
		a.print("%s sets mode %s", m.Prefix, strings.Join(args, " "))
	case irc.CmdTopic:
		a.print("%s has changed the topic of %s to %s", m.Nick(), m.Channel, m.Body())
	case irc.CmdInvite:
		a.print("%s invites you to %s", m.Nick(), m.Body())
	case irc.CmdError:
		a.print("ERROR: %s", m.Body())
	default:
		a.print("[%s] %s", m.Command, m.Raw)
	}
}

func kickTarget(m *irc.Message) string {
	if len(m.Params) > 1 {
		return m.Params[1]
	}
	return m.Prefix
}

func (a *app) handleCTCP(c *irc.Client, m *irc.Message, ctcp *irc.CTCP) {
	if ctcp.Reply {
		switch ctcp.Verb {
		case irc.CTCPPing:
			a.mu.Lock()
			sent := a.ctcpPingSent
			a.mu.Unlock()
			a.print("Ping reply from %s in %.3f seconds", m.Nick(), time.Since(sent).Seconds())
		default:
			a.print("CTCP %s reply %s from %s", ctcp.Name, ctcp.Data, m.Nick())
		}
		return
	}
	switch ctcp.Verb {
	case irc.CTCPAction:
		a.print("[ACTION] %s %s %s", m.Prefix, m.Channel, ctcp.Data)
	case irc.CTCPPing:
		// Echo the payload back so the sender can compute the round trip.
		a.reportErr(c.CTCPReply(m.Nick(), "PING", ctcp.Data))
	case irc.CTCPVersion:
		a.reportErr(c.CTCPReply(m.Nick(), "VERSION", fmt.Sprintf("circ %s", version)))
	case irc.CTCPTime:
		a.reportErr(c.CTCPReply(m.Nick(), "TIME", time.Now().Format("Mon Jan 2 2006 15:04:05 MST")))
	default:
		log.Printf("Unhandled CTCP request %s from %s", ctcp.Name, m.Nick())
	}
}

// dispatch handles one line of user input. Returns true when the client
// should exit.
func (a *app) dispatch(input string) bool {
	a.mu.Lock()
	client := a.client
	fg := a.fgChan
	a.mu.Unlock()

	if !strings.HasPrefix(input, "/") {
		// Bare input goes to the foreground channel.
		if fg == "" {
			log.Print("No current foreground channel. Type /help for help.")
			return false
		}
		a.reportErr(client.Privmsg(fg, input))
		return false
	}

	cmd, rest := input[1:], ""
	if i := strings.IndexByte(cmd, ' '); i >= 0 {
		cmd, rest = cmd[:i], strings.TrimSpace(cmd[i+1:])
	}

	switch strings.ToLower(cmd) {
	case "help":
		printHelp()
	case "debug":
		level, err := strconv.Atoi(rest)
		if err != nil || level < 0 || level > 10 {
			log.Print("Usage: /debug <0-10>")
			return false
		}
		a.mu.Lock()
		a.debug = level
		a.mu.Unlock()
		fmt.Printf("Debug level is now %d\n", level)
	case "dnd":
		a.mu.Lock()
		a.dnd = !a.dnd
		dnd := a.dnd
		a.mu.Unlock()
		fmt.Printf("Do Not Disturb is now %s\n", onOff(dnd))
	case "fg":
		if rest == "" {
			log.Print("Usage: /fg <channel>")
			return false
		}
		a.mu.Lock()
		a.fgChan = rest
		a.mu.Unlock()
	case "logs":
		if a.log == nil {
			log.Print("No transcript configured (-l)")
			return false
		}
		n := 10
		if v, err := strconv.Atoi(rest); err == nil && v > 0 {
			n = v
		}
		for _, entry := range a.log.Tail(n) {
			fmt.Println(entry)
		}
	case "server":
		a.cmdServer(rest)
	case "quit":
		a.shutdown(rest)
		return true
	case "raw":
		a.reportErr(client.SendRaw(rest))
	case "join":
		a.reportErr(client.Join(rest))
	case "part":
		a.reportErr(client.Part(rest))
	case "msg":
		target, text := splitArg(rest)
		a.reportErr(client.Privmsg(target, text))
	case "notice":
		target, text := splitArg(rest)
		a.reportErr(client.Notice(target, text))
	case "me":
		if fg == "" {
			log.Print("No current foreground channel. Type /help for help.")
			return false
		}
		a.reportErr(client.Action(fg, rest))
	case "describe":
		target, text := splitArg(rest)
		a.reportErr(client.Action(target, text))
	case "ctcp":
		target, verbAndData := splitArg(rest)
		verb, data := splitArg(verbAndData)
		if verb == "PING" {
			a.mu.Lock()
			a.ctcpPingSent = time.Now()
			a.mu.Unlock()
		}
		a.reportErr(client.CTCPRequest(target, verb, data))
	case "nick":
		a.reportErr(client.ChangeNick(rest))
	case "topic":
		channel, topic := splitArg(rest)
		a.reportErr(client.SetTopic(channel, topic))
	case "list":
		a.reportErr(client.List(rest))
	case "invite":
		nick, channel := splitArg(rest)
		a.reportErr(client.Invite(nick, channel))
	case "identify":
		user, pass := splitArg(rest)
		if user == "" || pass == "" {
			log.Print("Usage: /identify <user> <password>")
			return false
		}
		a.reportErr(client.Identify(user, []byte(pass)))
	default:
		log.Printf("Invalid command: %s", cmd)
	}
	return false
}

// cmdServer replaces the active client with a connection to a new server,
// guessing TLS from a high port number.
func (a *app) cmdServer(rest string) {
	host, portStr := splitArg(rest)
	if host == "" {
		log.Print("Usage: /server <host> [<port>]")
		return
	}
	port := 0
	if portStr != "" {
		port, _ = strconv.Atoi(portStr)
	}
	useTLS := port > 6670

	a.mu.Lock()
	old := a.client
	nick := ""
	if old != nil {
		nick = old.Nickname()
	}
	a.mu.Unlock()
	if old != nil {
		old.Close()
	}

	_, err := a.connect(host, port, irc.Config{
		Host:   host,
		Port:   port,
		Nick:   nick,
		UseTLS: useTLS,
	})
	if err != nil {
		log.Printf("Failed to connect to server %s: %v", host, err)
	}
}

// shutdown quits politely, then forces the teardown if the server does not
// hang up within a grace period.
func (a *app) shutdown(reason string) {
	a.mu.Lock()
	client := a.client
	a.mu.Unlock()
	if client == nil {
		return
	}
	if client.Connected() {
		if err := client.Quit(reason); err == nil {
			select {
			case <-client.Done():
				return
			case <-time.After(5 * time.Second):
			}
		}
	}
	client.Close()
}

func (a *app) reportErr(err error) {
	if err != nil {
		log.Printf("%v", err)
	}
}

func splitArg(s string) (string, string) {
	if i := strings.IndexByte(s, ' '); i >= 0 {
		return s[:i], strings.TrimSpace(s[i+1:])
	}
	return s, ""
}

func onOff(b bool) string {
	if b {
		return "enabled"
	}
	return "disabled"
}

func printHelp() {
	fmt.Print(`/help                     - Show client commands
/debug <level>            - Set client debug level (0-10)
/dnd                      - Toggle Do Not Disturb
/fg <chan>                - Set the foreground channel for bare input
/logs [<n>]               - Show the last n transcript entries
/raw <MSG>                - Send a raw message to the server
/quit [<MSG>]             - Quit from server with optional MSG
/part <CHANS>             - Leave channel(s), comma-separated
/join <CHANS>             - Join channel(s), comma-separated
/msg <TARGET> <MSG>       - Send MSG to a channel or user
/notice <TARGET> <MSG>    - Send MSG, inhibiting autoresponses
/me <ACTION>              - Send action to the foreground channel
/describe <TARGET> <ACTION> - Send action to a channel or user
/ctcp <TARGET> <CMD>      - Send a CTCP request
/nick <NICK>              - Change nickname
/topic <CHAN> <TOPIC>     - Set a channel topic
/list [<CHANS>]           - List channels on the server
/invite <NICK> <CHAN>     - Invite a user to a channel
/identify <USER> <PASS>   - Authenticate, if not authenticated already
/server <HOST> [<PORT>]   - Connect to a different server
^C                        - Exit client
`)
}
