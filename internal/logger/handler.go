package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
)

const (
	ansiReset   = "\x1b[0m"
	ansiBold    = "\x1b[1m"
	ansiRed     = "\x1b[31m"
	ansiGreen   = "\x1b[32m"
	ansiYellow  = "\x1b[33m"
	ansiBlue    = "\x1b[34m"
	ansiMagenta = "\x1b[35m"
)

// Handler writes info records as their bare message, and every other
// record as "[lvl file:line] message key=value ...".
type Handler struct {
	mu    *sync.Mutex
	w     io.Writer
	level slog.Leveler
	color bool
	attrs []slog.Attr
}

// NewHandler returns a Handler writing records at or above level to w.
// When color is true, level tags and sources are decorated with ANSI escapes.
func NewHandler(w io.Writer, level slog.Leveler, color bool) *Handler {
	return &Handler{mu: new(sync.Mutex), w: w, level: level, color: color}
}

func (h *Handler) Enabled(_ context.Context, l slog.Level) bool {
	return l >= h.level.Level()
}

func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	h2 := *h
	h2.attrs = append(append([]slog.Attr{}, h.attrs...), attrs...)
	return &h2
}

// groups are not rendered: the output is meant for humans
func (h *Handler) WithGroup(string) slog.Handler { return h }

func (h *Handler) tag(l slog.Level) string {
	var name, col string
	switch {
	case l >= slog.LevelError:
		name, col = "err", ansiBold+ansiRed
	case l >= slog.LevelWarn:
		name, col = "wrn", ansiBold+ansiYellow
	case l >= slog.LevelInfo:
		name, col = "inf", ansiBlue
	case l >= slog.LevelDebug:
		name, col = "dbg", ansiGreen
	default:
		name, col = "trc", ansiMagenta
	}
	if !h.color {
		return name
	}
	return col + name + ansiReset
}

func (h *Handler) source(pc uintptr) string {
	file, line := "<source>", 0
	if pc != 0 {
		f, _ := runtime.CallersFrames([]uintptr{pc}).Next()
		if f.File != "" {
			file, line = filepath.Base(f.File), f.Line
		}
	}
	if !h.color {
		return fmt.Sprintf("%s:%d", file, line)
	}
	return fmt.Sprintf("%s%s%s:%s%d%s", ansiBold+ansiBlue, file, ansiReset, ansiBlue, line, ansiReset)
}

func (h *Handler) Handle(_ context.Context, r slog.Record) error {
	var b strings.Builder
	if r.Level != slog.LevelInfo {
		fmt.Fprintf(&b, "[%s %s] ", h.tag(r.Level), h.source(r.PC))
	}
	b.WriteString(r.Message)
	writeAttr := func(a slog.Attr) bool {
		if a.Equal(slog.Attr{}) {
			return true
		}
		fmt.Fprintf(&b, " %s=%v", a.Key, a.Value.Resolve())
		return true
	}
	for _, a := range h.attrs {
		writeAttr(a)
	}
	r.Attrs(writeAttr)
	b.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.w, b.String())
	return err
}
