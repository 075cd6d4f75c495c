package logging_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/JaimeStill/stagehand/pkg/logging"
)

func TestConfigFinalize(t *testing.T) {
	tests := []struct {
		name    string
		cfg     logging.Config
		wantErr bool
	}{
		{"defaults", logging.Config{}, false},
		{"json upper case", logging.Config{Format: "JSON"}, false},
		{"debug level", logging.Config{Level: "debug"}, false},
		{"bad format", logging.Config{Format: "xml"}, true},
		{"bad level", logging.Config{Level: "loud"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.cfg
			err := cfg.Finalize(nil)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Finalize() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfigEnv(t *testing.T) {
	t.Setenv("TEST_LOG_LEVEL", "warn")
	t.Setenv("TEST_LOG_JOURNAL", "false")

	cfg := &logging.Config{}
	env := &logging.Env{Level: "TEST_LOG_LEVEL", Journal: "TEST_LOG_JOURNAL"}
	if err := cfg.Finalize(env); err != nil {
		t.Fatalf("Finalize() error = %v", err)
	}
	if cfg.SlogLevel() != slog.LevelWarn {
		t.Errorf("level: got %v, want WARN", cfg.SlogLevel())
	}
}

func TestTerminalLevelFiltering(t *testing.T) {
	cfg := &logging.Config{Level: "warn", Format: logging.FormatText}

	var buf bytes.Buffer
	sys, err := logging.New(cfg, &buf)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	sys.Logger().Info("hidden")
	sys.Logger().Warn("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Error("info record should be filtered at warn level")
	}
	if !strings.Contains(out, "shown") {
		t.Error("warn record missing")
	}
}

func TestFileFanout(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stagehand.log")
	cfg := &logging.Config{Level: "info", Format: logging.FormatText, File: path}

	var buf bytes.Buffer
	sys, err := logging.New(cfg, &buf)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	sys.Logger().Info("stage generated", "stage", "user_stories")

	if !strings.Contains(buf.String(), "stage generated") {
		t.Error("terminal handler did not receive record")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}

	var record map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(data), &record); err != nil {
		t.Fatalf("log file is not JSON: %v: %s", err, data)
	}
	if record["stage"] != "user_stories" {
		t.Errorf("file record stage: got %v", record["stage"])
	}
}
