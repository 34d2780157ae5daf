// Copyright 2016 The go-ethereum Authors
// This file is part of the go-ethereum library.
//
// The go-ethereum library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The go-ethereum library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the go-ethereum library. If not, see <http://www.gnu.org/licenses/>.

package log

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
)

var colorFor = map[slog.Level]string{
	slog.LevelDebug - 4: "\x1b[90m", // trace: grey
	slog.LevelDebug:     "\x1b[36m", // cyan
	slog.LevelInfo:      "\x1b[32m", // green
	slog.LevelWarn:      "\x1b[33m", // yellow
	slog.LevelError:     "\x1b[31m", // red
}

const colorReset = "\x1b[0m"

// terminalHandler renders records as a padded level, a timestamp, the
// message, and trailing sorted key=value pairs. Color is only emitted when
// the underlying writer was detected as a terminal, following
// go-ethereum's log handler.
type terminalHandler struct {
	mu     *sync.Mutex
	out    io.Writer
	color  bool
	minLvl slog.Level
	attrs  []slog.Attr
}

// NewTerminalHandler builds a handler writing human-readable records to w,
// colorized automatically when w is detected as a terminal (or a
// color-forwarding wrapper on Windows, via go-colorable).
func NewTerminalHandler(w io.Writer, lvl Lvl) slog.Handler {
	useColor := false
	if f, ok := w.(*os.File); ok {
		useColor = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
		if useColor {
			w = colorable.NewColorable(f)
		}
	}
	return &terminalHandler{mu: new(sync.Mutex), out: w, color: useColor, minLvl: lvl.slogLevel()}
}

func (h *terminalHandler) Enabled(_ context.Context, lvl slog.Level) bool {
	return lvl >= h.minLvl
}

func (h *terminalHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &terminalHandler{
		mu:     h.mu,
		out:    h.out,
		color:  h.color,
		minLvl: h.minLvl,
		attrs:  append(append([]slog.Attr{}, h.attrs...), attrs...),
	}
}

func (h *terminalHandler) WithGroup(_ string) slog.Handler { return h }

func levelTag(l slog.Level) string {
	switch {
	case l < slog.LevelDebug:
		return "TRACE"
	case l < slog.LevelInfo:
		return "DEBUG"
	case l < slog.LevelWarn:
		return "INFO "
	case l < slog.LevelError:
		return "WARN "
	default:
		return "ERROR"
	}
}

func (h *terminalHandler) Handle(_ context.Context, r slog.Record) error {
	var b strings.Builder
	if h.color {
		if c, ok := colorFor[r.Level]; ok {
			b.WriteString(c)
		}
	}
	fmt.Fprintf(&b, "%s[%s] %-40s", levelTag(r.Level), r.Time.Format("01-02|15:04:05.000"), r.Message)
	if h.color {
		b.WriteString(colorReset)
	}

	pairs := make([]string, 0, len(h.attrs)+r.NumAttrs())
	for _, a := range h.attrs {
		pairs = append(pairs, fmt.Sprintf("%s=%v", a.Key, a.Value))
	}
	r.Attrs(func(a slog.Attr) bool {
		pairs = append(pairs, fmt.Sprintf("%s=%v", a.Key, a.Value))
		return true
	})
	sort.Strings(pairs)
	for _, p := range pairs {
		b.WriteByte(' ')
		b.WriteString(p)
	}
	b.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.out, b.String())
	return err
}

// JSONHandler builds a handler that writes one JSON object per record,
// matching the format consumed by log aggregation pipelines.
func JSONHandler(w io.Writer) slog.Handler {
	return slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug - 4})
}
