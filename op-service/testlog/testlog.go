// Package testlog provides a log handler for unit tests.
package testlog

import (
	"bytes"
	"context"
	"log/slog"
	"sync"

	"github.com/ethereum/go-ethereum/log"
)

// Testing is the subset of testing.TB used by the logger.
type Testing interface {
	Logf(format string, args ...any)
	Helper()
	Name() string
}

// Logger returns a logger which logs to the unit test log of t.
func Logger(t Testing, level slog.Level) log.Logger {
	return log.NewLogger(newHandler(t, level))
}

type testHandler struct {
	t   Testing
	mu  *sync.Mutex
	buf *bytes.Buffer
	h   slog.Handler
}

func newHandler(t Testing, level slog.Level) *testHandler {
	buf := new(bytes.Buffer)
	return &testHandler{
		t:   t,
		mu:  new(sync.Mutex),
		buf: buf,
		h:   log.NewTerminalHandlerWithLevel(buf, level, false),
	}
}

func (th *testHandler) Enabled(ctx context.Context, lvl slog.Level) bool {
	return th.h.Enabled(ctx, lvl)
}

func (th *testHandler) Handle(ctx context.Context, r slog.Record) error {
	th.mu.Lock()
	defer th.mu.Unlock()
	th.buf.Reset()
	if err := th.h.Handle(ctx, r); err != nil {
		return err
	}
	th.t.Helper()
	out := th.buf.Bytes()
	if n := len(out); n > 0 && out[n-1] == '\n' {
		out = out[:n-1]
	}
	th.t.Logf("%s", out)
	return nil
}

func (th *testHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &testHandler{t: th.t, mu: th.mu, buf: th.buf, h: th.h.WithAttrs(attrs)}
}

func (th *testHandler) WithGroup(name string) slog.Handler {
	return &testHandler{t: th.t, mu: th.mu, buf: th.buf, h: th.h.WithGroup(name)}
}
