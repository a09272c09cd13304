package logging

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"killick/pkg/config"
)

func TestInit(t *testing.T) {
	prev := slog.Default()
	defer slog.SetDefault(prev)

	tempDir := t.TempDir()
	serverLog := filepath.Join(tempDir, "server.log")
	requestLog := filepath.Join(tempDir, "requests.log")

	// A previous run's log gets rotated
	if err := os.WriteFile(serverLog, []byte("old run\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := &config.LogConfig{
		Server:   config.LogSettings{Path: serverLog, Level: "DEBUG"},
		Requests: config.LogSettings{Path: requestLog, Level: "INFO"},
	}

	cleanup, err := Init(cfg)
	if err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	defer cleanup()

	if _, err := os.Stat(serverLog); os.IsNotExist(err) {
		t.Error("Server log file not created")
	}
	if _, err := os.Stat(requestLog); os.IsNotExist(err) {
		t.Error("Request log file not created")
	}
	old, err := os.ReadFile(serverLog + ".old")
	if err != nil || string(old) != "old run\n" {
		t.Errorf("expected rotated log, got %q (%v)", old, err)
	}
	if RequestLogger == nil {
		t.Error("RequestLogger was not initialized")
	}

	slog.Info("hello capture", "k", "v")
	if got := GlobalLogCapture.Last(); !strings.Contains(got, "hello capture") {
		t.Errorf("capture did not see the log line: %q", got)
	}
}

func TestInit_JSONRequests(t *testing.T) {
	prev := slog.Default()
	defer slog.SetDefault(prev)

	dir := t.TempDir()
	requestLog := filepath.Join(dir, "requests.log")
	cleanup, err := Init(&config.LogConfig{
		Server:   config.LogSettings{Path: filepath.Join(dir, "server.log"), Level: "INFO"},
		Requests: config.LogSettings{Path: requestLog, Level: "INFO", Format: "json"},
	})
	if err != nil {
		t.Fatalf("Init failed: %v", err)
	}

	RequestLogger.Info("Request", "path", "/api/settings")
	cleanup()

	data, err := os.ReadFile(requestLog)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), "{") || !strings.Contains(string(data), `"path":"/api/settings"`) {
		t.Errorf("request log is not JSON: %q", data)
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"DEBUG", slog.LevelDebug},
		{"debug", slog.LevelDebug},
		{"TRACE", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"WARNING", slog.LevelWarn},
		{"ERROR", slog.LevelError},
		{"", slog.LevelInfo},
		{"loud", slog.LevelInfo},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestMultiHandler_Levels(t *testing.T) {
	var debugBuf, warnBuf bytes.Buffer
	h := NewMultiHandler(
		slog.NewTextHandler(&debugBuf, &slog.HandlerOptions{Level: slog.LevelDebug}),
		slog.NewTextHandler(&warnBuf, &slog.HandlerOptions{Level: slog.LevelWarn}),
	)
	logger := slog.New(h).With("component", "test")

	logger.Debug("quiet")
	logger.Warn("loud")

	if !strings.Contains(debugBuf.String(), "quiet") || !strings.Contains(debugBuf.String(), "loud") {
		t.Errorf("debug handler missed records: %q", debugBuf.String())
	}
	if strings.Contains(warnBuf.String(), "quiet") {
		t.Errorf("warn handler got a debug record: %q", warnBuf.String())
	}
	if !strings.Contains(warnBuf.String(), "component=test") {
		t.Errorf("attrs not propagated: %q", warnBuf.String())
	}
	if h.Enabled(context.Background(), slog.LevelDebug-4) {
		t.Error("expected level below all handlers to be disabled")
	}
}

func TestLogTail(t *testing.T) {
	tail := NewLogTail(3)
	if got := tail.Last(); got != "" {
		t.Errorf("Last() on empty tail = %q", got)
	}
	if got := tail.Tail(5); len(got) != 0 {
		t.Errorf("Tail() on empty tail = %q", got)
	}

	for _, l := range []string{"one\n", "two\n", "three\n", "four\n"} {
		if _, err := tail.Write([]byte(l)); err != nil {
			t.Fatal(err)
		}
	}

	if got := tail.Last(); got != "four" {
		t.Errorf("Last() = %q, want %q", got, "four")
	}
	if got := strings.Join(tail.Tail(10), ","); got != "two,three,four" {
		t.Errorf("Tail(10) = %q", got)
	}
	if got := strings.Join(tail.Tail(2), ","); got != "three,four" {
		t.Errorf("Tail(2) = %q", got)
	}
	if got := tail.Tail(-1); len(got) != 0 {
		t.Errorf("Tail(-1) = %q", got)
	}
}

func TestTrace(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	t.Cleanup(func() { SetTrace(false) })

	SetTrace(false)
	Trace(logger, "hidden")
	SetTrace(true)
	Trace(logger, "shown")

	if strings.Contains(buf.String(), "hidden") || !strings.Contains(buf.String(), "shown") {
		t.Errorf("unexpected trace output: %q", buf.String())
	}
	if !TraceEnabled() {
		t.Error("TraceEnabled() = false after SetTrace(true)")
	}
}
