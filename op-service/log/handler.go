package log

import (
	"fmt"
	"io"
	"log/slog"
	"math/big"
	"reflect"
	"time"

	"github.com/holiman/uint256"

	elog "github.com/ethereum/go-ethereum/log"
)

const timeFormatMs = "2006-01-02T15:04:05.000-0700"

// msHandler renders timestamps with millisecond precision, and big numbers as decimals.
func msHandler(wr io.Writer, level slog.Level, logfmt bool) slog.Handler {
	opts := &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(_ []string, attr slog.Attr) slog.Attr {
			return replaceAttr(attr, logfmt)
		},
	}
	if logfmt {
		return slog.NewTextHandler(wr, opts)
	}
	return slog.NewJSONHandler(wr, opts)
}

func replaceAttr(attr slog.Attr, logfmt bool) slog.Attr {
	switch attr.Key {
	case slog.TimeKey:
		if attr.Value.Kind() == slog.KindTime {
			if logfmt {
				return slog.String("t", attr.Value.Time().Format(timeFormatMs))
			}
			return slog.Attr{Key: "t", Value: attr.Value}
		}
	case slog.LevelKey:
		if l, ok := attr.Value.Any().(slog.Level); ok {
			return slog.Any("lvl", elog.LevelString(l))
		}
	}

	switch v := attr.Value.Any().(type) {
	case time.Time:
		if logfmt {
			attr = slog.String(attr.Key, v.Format(timeFormatMs))
		}
	case *big.Int:
		attr.Value = slog.StringValue(nilSafe(v, func() string { return v.String() }))
	case *uint256.Int:
		attr.Value = slog.StringValue(nilSafe(v, func() string { return v.Dec() }))
	case fmt.Stringer:
		attr.Value = slog.StringValue(nilSafe(v, func() string { return v.String() }))
	}
	return attr
}

func nilSafe(v any, str func() string) string {
	if v == nil || (reflect.ValueOf(v).Kind() == reflect.Pointer && reflect.ValueOf(v).IsNil()) {
		return "<nil>"
	}
	return str()
}
