// Command psvg renders an SVG file to an image file.
//
//	psvg [-s WxH] [-log level] [-error-mode mode] [-keep-groups] file.svg out.png
//
// The output format is selected by the extension of the output file:
// .png, .bmp, .tif, .tiff or .pdf.
// Defaults for the options are read from the PSVG_LOG, PSVG_ERROR_MODE,
// PSVG_KEEP_GROUPS and PSVG_COLOR environment variables.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/benoitkugler/psvg/internal/logger"
	"github.com/benoitkugler/psvg/svgdraw"
	"github.com/benoitkugler/psvg/svgicon"
	"github.com/kelseyhightower/envconfig"
	"github.com/sfomuseum/go-flags/flagset"
)

type Config struct {
	Log        string `envconfig:"LOG" default:"info"`
	ErrorMode  string `envconfig:"ERROR_MODE" default:"warn"`
	KeepGroups bool   `envconfig:"KEEP_GROUPS" default:"false"`
	Color      bool   `envconfig:"COLOR" default:"false"`

	Size string `ignored:"true"`
}

func loadConfig() (Config, error) {
	var cfg Config
	err := envconfig.Process("psvg", &cfg)
	return cfg, err
}

var errUsage = errors.New("usage: psvg [options] file.svg out.png")

func parseErrorMode(s string) (svgicon.ErrorMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "ignore":
		return svgicon.IgnoreErrorMode, nil
	case "warn":
		return svgicon.WarnErrorMode, nil
	case "strict":
		return svgicon.StrictErrorMode, nil
	default:
		return 0, fmt.Errorf("invalid error mode %q (expected ignore, warn or strict)", s)
	}
}

// run renders args[0] to args[1].
func run(ctx context.Context, cfg Config, args []string) error {
	level, err := logger.ParseLevel(cfg.Log)
	if err != nil {
		return err
	}
	logger.SetLogger(slog.New(logger.NewHandler(os.Stderr, level, cfg.Color)))

	mode, err := parseErrorMode(cfg.ErrorMode)
	if err != nil {
		return err
	}
	if len(args) != 2 {
		return errUsage
	}
	var size *svgdraw.Size
	if cfg.Size != "" {
		s, err := svgdraw.ParseSize(cfg.Size)
		if err != nil {
			return err
		}
		size = &s
	}
	logger.Logger().Debug("starting", "file", args[0], "out", args[1], "error-mode", mode, "keep-groups", cfg.KeepGroups)

	return svgdraw.RenderFile(ctx, args[0], args[1], size, svgdraw.Options{ErrorMode: mode, KeepGroups: cfg.KeepGroups})
}

func main() {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, "psvg:", err)
		os.Exit(1)
	}

	fs := flagset.NewFlagSet("psvg")
	fs.StringVar(&cfg.Size, "s", "", "Output size, formatted as WxH (for instance 128x142). Defaults to the size of the document.")
	fs.StringVar(&cfg.Log, "log", cfg.Log, "Log level: error, warn, info, debug or trace.")
	fs.StringVar(&cfg.ErrorMode, "error-mode", cfg.ErrorMode, "Behavior on unsupported SVG elements: ignore, warn or strict.")
	fs.BoolVar(&cfg.KeepGroups, "keep-groups", cfg.KeepGroups, "Keep the groups of the document instead of flattening them.")
	fs.BoolVar(&cfg.Color, "color", cfg.Color, "Colorize log output.")
	flagset.Parse(fs)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, cfg, fs.Args()); err != nil {
		fmt.Fprintln(os.Stderr, "psvg:", err)
		stop()
		os.Exit(1)
	}
}
