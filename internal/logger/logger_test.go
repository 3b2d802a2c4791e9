package logger

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	for name, exp := range map[string]slog.Level{
		"error": slog.LevelError,
		"warn":  slog.LevelWarn,
		"info":  slog.LevelInfo,
		"Debug": slog.LevelDebug,
		"trace": LevelTrace,
	} {
		got, err := ParseLevel(name)
		if err != nil {
			t.Fatal(err)
		}
		if got != exp {
			t.Errorf("level %s: expected %v, got %v", name, exp, got)
		}
	}
	if _, err := ParseLevel("verbose"); err == nil {
		t.Error("expected error for unknown level")
	}
}

func TestDefaultIsSilent(t *testing.T) {
	SetLogger(nil)
	if Logger().Enabled(context.Background(), slog.LevelError) {
		t.Error("default logger should be disabled")
	}
}

func TestHandler(t *testing.T) {
	var buf bytes.Buffer
	l := slog.New(NewHandler(&buf, slog.LevelDebug, false))

	l.Info("rendering", "file", "a.svg")
	l.Warn("unknown element", "tag", "foo")
	l.Log(context.Background(), LevelTrace, "hidden")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %q", buf.String())
	}
	if lines[0] != "rendering file=a.svg" {
		t.Errorf("unexpected info line %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "[wrn logger_test.go:") || !strings.HasSuffix(lines[1], "] unknown element tag=foo") {
		t.Errorf("unexpected warn line %q", lines[1])
	}
}
