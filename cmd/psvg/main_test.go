package main

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/benoitkugler/psvg/internal/logger"
	"github.com/benoitkugler/psvg/svgdraw"
	"github.com/benoitkugler/psvg/svgicon"
)

func TestLoadConfig(t *testing.T) {
	cfg, err := loadConfig()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Log != "info" || cfg.ErrorMode != "warn" || cfg.KeepGroups {
		t.Errorf("unexpected defaults %+v", cfg)
	}

	t.Setenv("PSVG_LOG", "debug")
	t.Setenv("PSVG_KEEP_GROUPS", "true")
	t.Setenv("PSVG_ERROR_MODE", "strict")
	cfg, err = loadConfig()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Log != "debug" || cfg.ErrorMode != "strict" || !cfg.KeepGroups {
		t.Errorf("unexpected config %+v", cfg)
	}

	t.Setenv("PSVG_KEEP_GROUPS", "maybe")
	if _, err = loadConfig(); err == nil {
		t.Error("expected error for invalid boolean")
	}
}

func TestParseErrorMode(t *testing.T) {
	for input, expected := range map[string]svgicon.ErrorMode{
		"ignore": svgicon.IgnoreErrorMode,
		"Warn":   svgicon.WarnErrorMode,
		"strict": svgicon.StrictErrorMode,
	} {
		got, err := parseErrorMode(input)
		if err != nil {
			t.Fatal(err)
		}
		if got != expected {
			t.Errorf("%s: expected %s, got %s", input, expected, got)
		}
	}
	if _, err := parseErrorMode("loud"); err == nil {
		t.Error("expected error for invalid mode")
	}
}

func TestRun(t *testing.T) {
	defer logger.SetLogger(nil)

	dir := t.TempDir()
	in := filepath.Join(dir, "in.svg")
	err := os.WriteFile(in, []byte(`<svg viewBox="0 0 8 8"><polygon points="0,0 4,0 2,4"/></svg>`), 0o644)
	if err != nil {
		t.Fatal(err)
	}
	out := filepath.Join(dir, "out.png")
	cfg := Config{Log: "error", ErrorMode: "warn", Size: "16x16"}
	if err = run(context.Background(), cfg, []string{in, out}); err != nil {
		t.Fatal(err)
	}
	if _, err = os.Stat(out); err != nil {
		t.Error(err)
	}

	if err = run(context.Background(), cfg, []string{in}); !errors.Is(err, errUsage) {
		t.Errorf("expected usage error, got %v", err)
	}

	cfg.Size = "16"
	if err = run(context.Background(), cfg, []string{in, out}); !errors.Is(err, svgdraw.ErrInvalidSize) {
		t.Errorf("expected invalid size, got %v", err)
	}

	cfg.Size, cfg.Log = "", "loud"
	if err = run(context.Background(), cfg, []string{in, out}); err == nil {
		t.Error("expected error for invalid log level")
	}

	cfg.Log, cfg.ErrorMode = "error", "loud"
	if err = run(context.Background(), cfg, []string{in, out}); err == nil {
		t.Error("expected error for invalid error mode")
	}

	cfg.ErrorMode = "warn"
	if err = run(context.Background(), cfg, []string{filepath.Join(dir, "missing.svg"), out}); err == nil {
		t.Error("expected error for missing input")
	}
}
