package logger_i

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/akolanti/propdocs/internal/config"
)

// created before InitWith, like every package-level logger in the service
var early = NewLogger("early")

func TestLoggerPicksUpHandlerInstalledLater(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	var buf bytes.Buffer
	InitWith(Options{Writer: &buf, JSON: true, Level: slog.LevelInfo})

	ctx := context.WithValue(context.Background(), config.TRACE_ID_KEY, "trace-1")
	early.WithTrace(ctx).With("jobId", "j1").Warn("queued", "size", 42)
	early.Debug("hidden below info")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected one line, got %q", buf.String())
	}
	var entry map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatal(err)
	}
	for key, want := range map[string]any{"component": "early", "traceId": "trace-1", "jobId": "j1", "msg": "queued", "level": "WARN"} {
		if entry[key] != want {
			t.Errorf("%s = %v; want %v", key, entry[key], want)
		}
	}
	src, _ := entry["source"].(map[string]any)
	if file, _ := src["file"].(string); !strings.HasSuffix(file, "logger_test.go") {
		t.Errorf("source should point at the caller, got %v", entry["source"])
	}
}

func TestParseLevel(t *testing.T) {
	if ParseLevel("WARN") != slog.LevelWarn || ParseLevel(" debug ") != slog.LevelDebug {
		t.Error("known levels not parsed")
	}
	if ParseLevel("loud") != nil {
		t.Error("unknown level should be nil")
	}
}
