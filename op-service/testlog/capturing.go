package testlog

import (
	"context"
	"log/slog"
	"sync"

	"github.com/ethereum/go-ethereum/log"
)

// CapturedRecord is a log record together with the attributes inherited from the logger it was emitted on.
type CapturedRecord struct {
	Inherited []slog.Attr
	slog.Record
}

// AttrValue returns the value of the first attribute with the given key.
func (r *CapturedRecord) AttrValue(key string) (v any) {
	r.Record.Attrs(func(a slog.Attr) bool {
		if a.Key == key {
			v = a.Value.Any()
			return false
		}
		return true
	})
	if v != nil {
		return v
	}
	for _, a := range r.Inherited {
		if a.Key == key {
			return a.Value.Any()
		}
	}
	return nil
}

// CapturingHandler records every log record and forwards it to a delegate handler.
type CapturingHandler struct {
	handler slog.Handler
	mu      *sync.Mutex
	logs    *[]*CapturedRecord
	attrs   []slog.Attr
}

// CaptureLogger returns a test logger whose records can be inspected with the returned handler.
func CaptureLogger(t Testing, level slog.Level) (log.Logger, *CapturingHandler) {
	ch := &CapturingHandler{
		handler: newHandler(t, level),
		mu:      new(sync.Mutex),
		logs:    new([]*CapturedRecord),
	}
	return log.NewLogger(ch), ch
}

func (c *CapturingHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return c.handler.Enabled(ctx, level)
}

func (c *CapturingHandler) Handle(ctx context.Context, r slog.Record) error {
	c.mu.Lock()
	*c.logs = append(*c.logs, &CapturedRecord{Inherited: c.attrs, Record: r.Clone()})
	c.mu.Unlock()
	return c.handler.Handle(ctx, r)
}

func (c *CapturingHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	inherited := append(append([]slog.Attr{}, c.attrs...), attrs...)
	return &CapturingHandler{handler: c.handler.WithAttrs(attrs), mu: c.mu, logs: c.logs, attrs: inherited}
}

func (c *CapturingHandler) WithGroup(name string) slog.Handler {
	return &CapturingHandler{handler: c.handler.WithGroup(name), mu: c.mu, logs: c.logs, attrs: c.attrs}
}

func (c *CapturingHandler) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	*c.logs = (*c.logs)[:0]
}

// LogFilter matches captured records.
type LogFilter func(r *CapturedRecord) bool

func NewLevelFilter(level slog.Level) LogFilter {
	return func(r *CapturedRecord) bool {
		return r.Level == level
	}
}

func NewMessageFilter(msg string) LogFilter {
	return func(r *CapturedRecord) bool {
		return r.Message == msg
	}
}

func NewAttributesFilter(key, value string) LogFilter {
	return func(r *CapturedRecord) bool {
		v := r.AttrValue(key)
		if v == nil {
			return false
		}
		return slog.AnyValue(v).String() == value
	}
}

// FindLogs returns all captured records matching every filter.
func (c *CapturingHandler) FindLogs(filters ...LogFilter) []*CapturedRecord {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []*CapturedRecord
outer:
	for _, r := range *c.logs {
		for _, f := range filters {
			if !f(r) {
				continue outer
			}
		}
		out = append(out, r)
	}
	return out
}

// FindLog returns the first record matching every filter, or nil.
func (c *CapturingHandler) FindLog(filters ...LogFilter) *CapturedRecord {
	if found := c.FindLogs(filters...); len(found) > 0 {
		return found[0]
	}
	return nil
}
