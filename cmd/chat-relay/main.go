package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/cognicore/spamfilter/internal/logging"
	"github.com/cognicore/spamfilter/internal/predictor"
	"github.com/cognicore/spamfilter/pkg/spamfilter/bridge"
	"github.com/cognicore/spamfilter/pkg/spamfilter/config"
	"github.com/cognicore/spamfilter/pkg/spamfilter/relay"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdin, os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "chat-relay: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, console io.Reader, stderr io.Writer) error {
	fs := flag.NewFlagSet("chat-relay", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		configPath = fs.String("config", "", "Config YAML (optional)")
		addr       = fs.String("addr", "", "Listen address (overrides relay.addr)")
		predictCmd = fs.String("predictor", "", "Classify through this executable instead of in process")
		noFilter   = fs.Bool("no-filter", false, "Start with the spam filter off")
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

	var chatLog io.Writer
	if cfg.Relay.ChatLog != "" {
		f, err := os.OpenFile(cfg.Relay.ChatLog, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return fmt.Errorf("open chat log: %w", err)
		}
		defer f.Close()
		chatLog = f
	}

	srv := relay.New(relay.Options{
		Gate:    gate,
		History: cfg.Relay.History,
		ChatLog: chatLog,
		Log:     log.WithField("component", "relay"),
	})

	go operatorConsole(ctx, console, srv, log)
	return srv.ListenAndServe(ctx, cfg.Relay.Addr)
}

// operatorConsole relays lines typed on the server console to every client.
func operatorConsole(ctx context.Context, in io.Reader, srv *relay.Server, log *logrus.Logger) {
	sc := bufio.NewScanner(in)
	for sc.Scan() {
		if ctx.Err() != nil {
			return
		}
		text := strings.TrimSpace(sc.Text())
		if text == "" {
			continue
		}
		if !srv.Say(ctx, text) {
			log.Warn("Operator message blocked as spam")
		}
	}
}
