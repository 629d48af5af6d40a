// Package logging configures the process wide slog logger.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/lmittmann/tint"
)

var once sync.Once

// Options configures Init.
type Options struct {
	Level      slog.Leveler // default: slog.LevelInfo
	Writer     io.Writer    // default: os.Stderr
	TimeFormat string       // default: time.DateTime
	NoColor    bool
}

// Init installs a tint handler as the default slog logger. Only the first call has an effect.
func Init(opts *Options) {
	once.Do(func() {
		slog.SetDefault(New(opts))
	})
}

// New builds a tint backed logger without touching the default.
func New(opts *Options) *slog.Logger {
	if opts == nil {
		opts = &Options{}
	}
	w := opts.Writer
	if w == nil {
		w = os.Stderr
	}
	level := opts.Level
	if level == nil {
		level = slog.LevelInfo
	}
	format := opts.TimeFormat
	if format == "" {
		format = time.DateTime
	}
	return slog.New(tint.NewHandler(w, &tint.Options{
		Level:      level,
		TimeFormat: format,
		NoColor:    opts.NoColor,
	}))
}

// ParseLevel maps a config string to a level. Unknown values yield info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
