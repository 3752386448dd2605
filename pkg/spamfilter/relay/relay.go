// Package relay is a line-oriented TCP chat relay that screens every message
// through a spam gate before delivering it to the other participants.
package relay

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/cognicore/spamfilter/pkg/spamfilter/bridge"
)

// DefaultHistory is the number of delivered lines kept in memory.
const DefaultHistory = 500

const clientQueue = 64

// Options configures a Server.
type Options struct {
	Gate    *bridge.Gate
	History int       // 0 means DefaultHistory
	ChatLog io.Writer // one line per event; nil disables
	Log     *logrus.Entry
	Now     func() time.Time
}

// Server relays chat lines between connected clients.
type Server struct {
	gate    *bridge.Gate
	limit   int
	log     *logrus.Entry
	now     func() time.Time
	chatLog io.Writer

	mu      sync.Mutex
	clients map[*client]struct{}
	history []string

	logMu sync.Mutex
	wg    sync.WaitGroup
}

type client struct {
	conn net.Conn
	addr string
	out  chan string
}

// New creates a relay. Gate is required.
func New(opts Options) *Server {
	s := &Server{
		gate:    opts.Gate,
		limit:   opts.History,
		log:     opts.Log,
		now:     opts.Now,
		chatLog: opts.ChatLog,
		clients: make(map[*client]struct{}),
	}
	if s.limit <= 0 {
		s.limit = DefaultHistory
	}
	if s.log == nil {
		s.log = logrus.NewEntry(logrus.StandardLogger())
	}
	s.log = s.log.WithField("component", "relay")
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

// ListenAndServe listens on addr and serves until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts clients on ln until ctx is cancelled, then disconnects every
// client and returns nil once all handlers have exited.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	s.log.WithField("address", ln.Addr().String()).Info("Relay listening")

	stop := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
		case <-stop:
		}
		ln.Close()
	}()
	defer close(stop)

	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				break
			}
			return fmt.Errorf("accept: %w", err)
		}
		s.wg.Add(1)
		go s.handle(ctx, conn)
	}

	s.mu.Lock()
	for c := range s.clients {
		c.conn.Close()
	}
	s.mu.Unlock()
	s.wg.Wait()
	s.log.Info("Relay stopped")
	return nil
}

// History returns the most recent delivered or blocked lines, oldest first.
func (s *Server) History() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.history...)
}

// Say sends an operator message to every client, screened like any other.
// It reports whether the message was delivered.
func (s *Server) Say(ctx context.Context, text string) bool {
	v := s.gate.Check(ctx, text)
	if v.Blocked {
		s.record(fmt.Sprintf("[blocked] server: %s", text))
		s.event("BLOCKED_OUTGOING", text, v.Result.Confidence)
		s.broadcast("* [blocked] spam from server", nil)
		return false
	}
	line := "server: " + text
	s.record(line)
	s.event("SERVER", text, confidence(v))
	s.broadcast(line, nil)
	return true
}

func (s *Server) handle(ctx context.Context, conn net.Conn) {
	defer s.wg.Done()
	c := &client{conn: conn, addr: conn.RemoteAddr().String(), out: make(chan string, clientQueue)}
	log := s.log.WithField("client", c.addr)

	s.mu.Lock()
	if ctx.Err() != nil {
		s.mu.Unlock()
		conn.Close()
		return
	}
	s.clients[c] = struct{}{}
	s.mu.Unlock()

	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		w := bufio.NewWriter(conn)
		for line := range c.out {
			w.WriteString(line)
			w.WriteByte('\n')
			if len(c.out) == 0 {
				if err := w.Flush(); err != nil {
					conn.Close()
				}
			}
		}
	}()

	s.send(c, fmt.Sprintf("* welcome %s; spam filter %s", c.addr, onOff(s.gate.Enabled())))
	log.Info("Client connected")
	s.event("CONNECT", c.addr, -1)

	defer func() {
		s.mu.Lock()
		delete(s.clients, c)
		s.mu.Unlock()
		close(c.out)
		<-writerDone
		conn.Close()
		log.Info("Client disconnected")
		s.event("DISCONNECT", c.addr, -1)
	}()

	sc := bufio.NewScanner(conn)
	for sc.Scan() {
		text := strings.TrimSpace(sc.Text())
		if text == "" {
			continue
		}
		if cmd, ok := strings.CutPrefix(text, "/filter"); ok {
			s.toggle(c, strings.TrimSpace(cmd))
			continue
		}

		v := s.gate.Check(ctx, text)
		if v.Blocked {
			log.WithField("confidence", v.Result.Confidence).Info("Blocked spam")
			s.record(fmt.Sprintf("[blocked] %s: %s", c.addr, text))
			s.event("BLOCKED_INCOMING", text, v.Result.Confidence)
			s.send(c, fmt.Sprintf("[blocked] spam (%.2f)", v.Result.Confidence))
			continue
		}
		line := c.addr + ": " + text
		s.record(line)
		s.event("CLIENT", text, confidence(v))
		s.broadcast(line, c)
	}
	if err := sc.Err(); err != nil && ctx.Err() == nil && !errors.Is(err, net.ErrClosed) {
		log.WithError(err).Warn("Client read failed")
	}
}

func (s *Server) toggle(c *client, arg string) {
	switch strings.ToLower(arg) {
	case "on":
		s.gate.SetEnabled(true)
	case "off":
		s.gate.SetEnabled(false)
	default:
		s.send(c, "* usage: /filter on|off")
		return
	}
	msg := "spam filter turned " + onOff(s.gate.Enabled())
	s.log.WithField("client", c.addr).Info(msg)
	s.event("FILTER", msg, -1)
	s.broadcast("* "+msg, nil)
}

// broadcast queues line for every client except skip.
func (s *Server) broadcast(line string, skip *client) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for c := range s.clients {
		if c != skip {
			s.enqueue(c, line)
		}
	}
}

func (s *Server) send(c *client, line string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.clients[c]; ok {
		s.enqueue(c, line)
	}
}

// enqueue must be called with s.mu held. Slow clients lose lines rather
// than stall the relay.
func (s *Server) enqueue(c *client, line string) {
	select {
	case c.out <- line:
	default:
		s.log.WithField("client", c.addr).Warn("Client queue full; dropping line")
	}
}

func (s *Server) record(line string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = append(s.history, line)
	if over := len(s.history) - s.limit; over > 0 {
		s.history = append(s.history[:0], s.history[over:]...)
	}
}

// event appends a "[time] TAG | conf=x | text" line to the chat log.
// conf is -1 when no classification was made.
func (s *Server) event(tag, text string, conf float64) {
	if s.chatLog == nil {
		return
	}
	s.logMu.Lock()
	defer s.logMu.Unlock()
	ts := s.now().Format("2006-01-02 15:04:05")
	if _, err := fmt.Fprintf(s.chatLog, "[%s] %s | conf=%.4f | %s\n", ts, tag, conf, text); err != nil {
		s.log.WithError(err).Warn("Chat log write failed")
	}
}

func confidence(v bridge.Verdict) float64 {
	if !v.Checked {
		return -1
	}
	return v.Result.Confidence
}

func onOff(on bool) string {
	if on {
		return "ON"
	}
	return "OFF"
}
