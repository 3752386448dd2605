package main

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"net"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cognicore/spamfilter/internal/logging"
	"github.com/cognicore/spamfilter/pkg/spamfilter/bridge"
	"github.com/cognicore/spamfilter/pkg/spamfilter/internalerr"
)

type keywordClassifier struct{}

func (keywordClassifier) Classify(ctx context.Context, text string) (bridge.Result, error) {
	if strings.Contains(strings.ToLower(text), "prize") {
		return bridge.Result{Label: "spam", Confidence: 0.95}, nil
	}
	return bridge.Result{Label: "ham", Confidence: 0.88}, nil
}

func newSession(out io.Writer) *session {
	log := logging.Discard()
	return &session{gate: bridge.NewGate(keywordClassifier{}, bridge.DefaultThreshold, log), out: out, log: log}
}

// listen accepts one connection and hands it to serve.
func listen(t *testing.T, serve func(net.Conn)) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { ln.Close() })
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		serve(conn)
	}()
	return ln.Addr().String()
}

func TestSessionScreensOutgoing(t *testing.T) {
	received := make(chan []string, 1)
	addr := listen(t, func(conn net.Conn) {
		var lines []string
		sc := bufio.NewScanner(conn)
		for sc.Scan() {
			lines = append(lines, sc.Text())
		}
		received <- lines
	})

	conn, err := net.Dial("tcp", addr)
	require.NoError(t, err)

	var out bytes.Buffer
	in := strings.NewReader("hello there\nWIN a free prize\n/filter off\nWIN a free prize\n/filter maybe\n")
	require.NoError(t, newSession(&out).run(context.Background(), conn, in))

	select {
	case lines := <-received:
		assert.Equal(t, []string{"hello there", blockedNotice, "WIN a free prize"}, lines)
	case <-time.After(5 * time.Second):
		t.Fatal("relay never saw the connection close")
	}

	got := out.String()
	assert.Contains(t, got, "> hello there (ham 0.88)\n")
	assert.Contains(t, got, "[blocked] outgoing spam (0.95): WIN a free prize\n")
	assert.Contains(t, got, "* spam filter turned OFF (local)\n")
	assert.Contains(t, got, "> WIN a free prize\n")
	assert.Contains(t, got, "* usage: /filter on|off\n")
}

func TestSessionRelayDisconnect(t *testing.T) {
	addr := listen(t, func(conn net.Conn) {
		io.WriteString(conn, "127.0.0.1:50000: hi\n")
	})

	conn, err := net.Dial("tcp", addr)
	require.NoError(t, err)

	pr, pw := io.Pipe()
	t.Cleanup(func() { pw.Close() })

	var out bytes.Buffer
	done := make(chan error, 1)
	go func() { done <- newSession(&out).run(context.Background(), conn, pr) }()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("session did not end after the relay hung up")
	}
	assert.Equal(t, "127.0.0.1:50000: hi\n* disconnected from relay\n", out.String())
}

func TestRunNoModel(t *testing.T) {
	t.Setenv("SPAMFILTER_MODEL_PATH", filepath.Join(t.TempDir(), "absent.bin"))

	var stdout, stderr bytes.Buffer
	err := run(context.Background(), []string{"-addr", "127.0.0.1:1"}, strings.NewReader(""), &stdout, &stderr)
	assert.ErrorIs(t, err, internalerr.ErrNotFound)
}
