package log

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/urfave/cli/v2"
	"golang.org/x/term"

	"github.com/ethereum/go-ethereum/log"
)

const (
	LevelFlagName  = "log.level"
	FormatFlagName = "log.format"
	ColorFlagName  = "log.color"
)

type FormatType string

const (
	FormatText     FormatType = "text"
	FormatTerminal FormatType = "terminal"
	FormatLogFmt   FormatType = "logfmt"
	FormatJSON     FormatType = "json"
	FormatJSONMs   FormatType = "json-ms"
	FormatLogFmtMs FormatType = "logfmt-ms"
)

var formatTypes = []FormatType{FormatText, FormatTerminal, FormatLogFmt, FormatJSON, FormatJSONMs, FormatLogFmtMs}

func (f FormatType) String() string {
	return string(f)
}

func (f *FormatType) Set(value string) error {
	for _, ft := range formatTypes {
		if string(ft) == value {
			*f = ft
			return nil
		}
	}
	return fmt.Errorf("unrecognized log-format: %q", value)
}

// LevelFromString parses a log level name, case-insensitive.
func LevelFromString(lvlString string) (slog.Level, error) {
	switch strings.ToLower(lvlString) {
	case "trace", "trce":
		return log.LevelTrace, nil
	case "debug", "dbug":
		return log.LevelDebug, nil
	case "info":
		return log.LevelInfo, nil
	case "warn":
		return log.LevelWarn, nil
	case "error", "eror":
		return log.LevelError, nil
	case "crit":
		return log.LevelCrit, nil
	default:
		return log.LevelDebug, fmt.Errorf("unknown level: %v", lvlString)
	}
}

func CLIFlags(envPrefix string) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    LevelFlagName,
			Usage:   "The lowest log level that will be output",
			Value:   "info",
			EnvVars: []string{envPrefix + "_LOG_LEVEL"},
		},
		&cli.StringFlag{
			Name:    FormatFlagName,
			Usage:   "Format the log output. Supported formats: 'text', 'terminal', 'logfmt', 'json', 'json-ms', 'logfmt-ms'",
			Value:   string(FormatText),
			EnvVars: []string{envPrefix + "_LOG_FORMAT"},
		},
		&cli.BoolFlag{
			Name:    ColorFlagName,
			Usage:   "Color the log output if in terminal mode",
			EnvVars: []string{envPrefix + "_LOG_COLOR"},
		},
	}
}

type CLIConfig struct {
	Level  slog.Level
	Color  bool
	Format FormatType
}

func DefaultCLIConfig() CLIConfig {
	return CLIConfig{
		Level:  log.LevelInfo,
		Format: FormatText,
		Color:  term.IsTerminal(int(os.Stdout.Fd())),
	}
}

func (cfg CLIConfig) Check() error {
	var ft FormatType
	return ft.Set(string(cfg.Format))
}

// ReadCLIConfig reads the logging flags. Invalid values fall back to the defaults,
// use ReadCLIConfigStrict to surface them.
func ReadCLIConfig(ctx *cli.Context) CLIConfig {
	cfg, _ := ReadCLIConfigStrict(ctx)
	return cfg
}

func ReadCLIConfigStrict(ctx *cli.Context) (CLIConfig, error) {
	cfg := DefaultCLIConfig()
	if ctx.IsSet(LevelFlagName) {
		lvl, err := LevelFromString(ctx.String(LevelFlagName))
		if err != nil {
			return DefaultCLIConfig(), err
		}
		cfg.Level = lvl
	}
	if ctx.IsSet(FormatFlagName) {
		if err := cfg.Format.Set(ctx.String(FormatFlagName)); err != nil {
			return DefaultCLIConfig(), err
		}
	}
	if ctx.IsSet(ColorFlagName) {
		cfg.Color = ctx.Bool(ColorFlagName)
	}
	return cfg, nil
}

// NewLogger creates a logger writing to wr with the given config.
func NewLogger(wr io.Writer, cfg CLIConfig) log.Logger {
	return log.NewLogger(NewHandler(wr, cfg))
}

func NewHandler(wr io.Writer, cfg CLIConfig) slog.Handler {
	switch cfg.Format {
	case FormatJSON:
		return log.JSONHandlerWithLevel(wr, cfg.Level)
	case FormatJSONMs:
		return msHandler(wr, cfg.Level, false)
	case FormatLogFmt:
		return log.LogfmtHandlerWithLevel(wr, cfg.Level)
	case FormatLogFmtMs:
		return msHandler(wr, cfg.Level, true)
	case FormatTerminal:
		return log.NewTerminalHandlerWithLevel(wr, cfg.Level, cfg.Color)
	default:
		return log.NewTerminalHandlerWithLevel(wr, cfg.Level, false)
	}
}

// SetGlobalLogHandler sets the log handles as the handler of the global default logger.
func SetGlobalLogHandler(h slog.Handler) {
	log.SetDefault(log.NewLogger(h))
}

// AppOut returns the writer of the app, falling back to stdout.
func AppOut(ctx *cli.Context) io.Writer {
	if ctx == nil || ctx.App == nil || ctx.App.Writer == nil {
		return os.Stdout
	}
	return ctx.App.Writer
}
