// Package log builds the slog handlers used by pageserve.
package log

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	charmlog "github.com/charmbracelet/log"
	"github.com/mattn/go-isatty"
)

const (
	AutoFormat   = "auto"
	TextFormat   = "text"
	LogfmtFormat = "logfmt"
	JSONFormat   = "json"
)

var (
	ErrInvalidLevel  = errors.New("invalid log level")
	ErrInvalidFormat = errors.New("invalid log format")
)

// Formats lists the accepted format names.
var Formats = []string{AutoFormat, TextFormat, LogfmtFormat, JSONFormat}

// ParseLevel parses a level name into a [slog.Level].
func ParseLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "error":
		return slog.LevelError, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	}

	return 0, fmt.Errorf("%w: %q", ErrInvalidLevel, level)
}

// ParseFormat validates a format name. "auto" is resolved against w:
// text on a terminal, logfmt otherwise.
func ParseFormat(w io.Writer, format string) (string, error) {
	format = strings.ToLower(format)
	switch format {
	case "", AutoFormat:
		if IsTerminal(w) {
			return TextFormat, nil
		}
		return LogfmtFormat, nil
	case TextFormat, LogfmtFormat, JSONFormat:
		return format, nil
	}

	return "", fmt.Errorf("%w: %q", ErrInvalidFormat, format)
}

// CreateHandler creates a [slog.Handler] writing to w.
func CreateHandler(w io.Writer, level, format string) (slog.Handler, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}

	f, err := ParseFormat(w, format)
	if err != nil {
		return nil, err
	}

	switch f {
	case JSONFormat:
		return slog.NewJSONHandler(w, &slog.HandlerOptions{Level: lvl}), nil
	case LogfmtFormat:
		return charmlog.NewWithOptions(w, charmlog.Options{
			Level:           charmlog.Level(lvl),
			ReportTimestamp: true,
			Formatter:       charmlog.LogfmtFormatter,
		}), nil
	default:
		return charmlog.NewWithOptions(w, charmlog.Options{
			Level:           charmlog.Level(lvl),
			ReportTimestamp: true,
			Formatter:       charmlog.TextFormatter,
		}), nil
	}
}

// IsTerminal reports whether w is a terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
