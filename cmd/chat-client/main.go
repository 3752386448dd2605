package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/cognicore/spamfilter/internal/logging"
	"github.com/cognicore/spamfilter/internal/predictor"
	"github.com/cognicore/spamfilter/pkg/spamfilter/bridge"
	"github.com/cognicore/spamfilter/pkg/spamfilter/config"
)

// blockedNotice goes to the relay in place of a blocked message so other
// participants see that something was held back, never its content.
const blockedNotice = "[blocked outgoing spam]"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "chat-client: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("chat-client", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		configPath = fs.String("config", "", "Config YAML (optional)")
		addr       = fs.String("addr", "", "Relay address (overrides relay.addr)")
		predictCmd = fs.String("predictor", "", "Classify through this executable instead of in process")
		noFilter   = fs.Bool("no-filter", false, "Start with the outgoing spam filter off")
	)
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	if *addr != "" {
		cfg.Relay.Addr = *addr
	}
	if *predictCmd != "" {
		cfg.Inference.Command = *predictCmd
	}

	log := logging.New(cfg.Logging.Level, cfg.Logging.Format, stderr)

	classifier, err := predictor.Build(ctx, cfg)
	if err != nil {
		return err
	}
	gate := bridge.NewGate(classifier, cfg.Inference.Threshold, log.WithField("component", "bridge"))
	gate.SetEnabled(!*noFilter)

	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", cfg.Relay.Addr)
	if err != nil {
		return fmt.Errorf("connect %s: %w", cfg.Relay.Addr, err)
	}
	log.WithField("addr", cfg.Relay.Addr).Info("Connected to relay")

	s := &session{gate: gate, out: stdout, log: log.WithField("component", "client")}
	return s.run(ctx, conn, stdin)
}

// session pumps relay lines to the terminal and screened terminal lines to
// the relay. Incoming messages are not classified; the relay does that.
type session struct {
	gate *bridge.Gate
	log  *logrus.Entry

	mu  sync.Mutex
	out io.Writer
}

// run returns when input ends, the relay disconnects or ctx is done. conn
// is closed on return.
func (s *session) run(ctx context.Context, conn net.Conn, in io.Reader) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		<-ctx.Done()
		conn.Close()
	}()

	incomingDone := make(chan struct{})
	go func() {
		defer close(incomingDone)
		defer cancel()
		sc := bufio.NewScanner(conn)
		for sc.Scan() {
			s.print(sc.Text())
		}
		s.print("* disconnected from relay")
	}()

	lines := make(chan string)
	go func() {
		defer close(lines)
		sc := bufio.NewScanner(in)
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	w := bufio.NewWriter(conn)
	var err error
loop:
	for {
		select {
		case <-ctx.Done():
			break loop
		case text, ok := <-lines:
			if !ok {
				break loop
			}
			if err = s.outgoing(ctx, w, text); err != nil {
				break loop
			}
		}
	}
	cancel()
	<-incomingDone
	if errors.Is(err, net.ErrClosed) {
		return nil
	}
	return err
}

// outgoing handles one typed line: a local /filter command, a blocked
// message or a message for the relay.
func (s *session) outgoing(ctx context.Context, w *bufio.Writer, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	if arg, ok := strings.CutPrefix(text, "/filter"); ok {
		s.toggle(strings.TrimSpace(arg))
		return nil
	}

	v := s.gate.Check(ctx, text)
	if v.Blocked {
		s.log.WithField("confidence", v.Result.Confidence).Info("Blocked outgoing spam")
		s.print(fmt.Sprintf("[blocked] outgoing spam (%.2f): %s", v.Result.Confidence, text))
		return send(w, blockedNotice)
	}
	if v.Checked {
		s.print(fmt.Sprintf("> %s (%s %.2f)", text, v.Result.Label, v.Result.Confidence))
	} else {
		s.print("> " + text)
	}
	return send(w, text)
}

func (s *session) toggle(arg string) {
	switch strings.ToLower(arg) {
	case "on":
		s.gate.SetEnabled(true)
	case "off":
		s.gate.SetEnabled(false)
	default:
		s.print("* usage: /filter on|off")
		return
	}
	state := "OFF"
	if s.gate.Enabled() {
		state = "ON"
	}
	s.print("* spam filter turned " + state + " (local)")
}

func (s *session) print(line string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintln(s.out, line)
}

func send(w *bufio.Writer, line string) error {
	if _, err := w.WriteString(line + "\n"); err != nil {
		return fmt.Errorf("send: %w", err)
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("send: %w", err)
	}
	return nil
}
