// Package logging builds the service logger. Records fan out to a terminal
// handler and, when configured, a JSON log file and the systemd journal.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	slogmulti "github.com/samber/slog-multi"
	slogjournal "github.com/systemd/slog-journal"

	"github.com/JaimeStill/stagehand/pkg/lifecycle"
)

// System owns the logger and any files it writes to.
type System struct {
	logger *slog.Logger
	file   *os.File
}

// New creates the logging system writing terminal output to w.
func New(cfg *Config, w io.Writer) (*System, error) {
	opts := &slog.HandlerOptions{Level: cfg.SlogLevel()}

	var terminal slog.Handler
	if cfg.Format == FormatJSON {
		terminal = slog.NewJSONHandler(w, opts)
	} else {
		terminal = slog.NewTextHandler(w, opts)
	}

	handlers := []slog.Handler{terminal}
	sys := &System{}

	if cfg.File != "" {
		f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o640)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		sys.file = f
		handlers = append(handlers, slog.NewJSONHandler(f, opts))
	}

	if cfg.Journal {
		journal, err := slogjournal.NewHandler(&slogjournal.Options{
			ReplaceGroup: func(key string) string {
				return journalKey(key)
			},
			ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
				a.Key = journalKey(a.Key)
				return a
			},
		})
		if err != nil {
			slog.New(terminal).Warn("systemd journal unavailable", "error", err)
		} else {
			handlers = append(handlers, journal)
		}
	}

	if len(handlers) == 1 {
		sys.logger = slog.New(terminal)
	} else {
		sys.logger = slog.New(slogmulti.Fanout(handlers...))
	}

	return sys, nil
}

// Logger returns the root logger.
func (s *System) Logger() *slog.Logger {
	return s.logger
}

// Start registers a shutdown hook that closes the log file, if any.
func (s *System) Start(lc *lifecycle.Coordinator) error {
	if s.file == nil {
		return nil
	}
	lc.OnShutdown(func() {
		<-lc.Context().Done()
		s.file.Sync()
		s.file.Close()
	})
	return nil
}

// journal field names must be uppercase letters, digits, and underscores.
func journalKey(key string) string {
	return strings.Map(func(r rune) rune {
		if r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' {
			return r
		}
		return '_'
	}, strings.ToUpper(key))
}
