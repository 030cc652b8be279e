package logging

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
)

// palette colours the parts of a console line. A nil palette writes plain
// text.
type palette struct {
	time   *color.Color
	key    *color.Color
	levels map[slog.Level]*color.Color
}

func newPalette() *palette {
	return &palette{
		time: color.New(color.FgHiBlack),
		key:  color.New(color.FgCyan),
		levels: map[slog.Level]*color.Color{
			LevelTrace:      color.New(color.FgHiBlack),
			slog.LevelDebug: color.New(color.FgMagenta),
			slog.LevelInfo:  color.New(color.FgGreen),
			slog.LevelWarn:  color.New(color.FgYellow),
			slog.LevelError: color.New(color.FgRed, color.Bold),
		},
	}
}

func (p *palette) level(l slog.Level) *color.Color {
	switch {
	case l >= slog.LevelError:
		return p.levels[slog.LevelError]
	case l >= slog.LevelWarn:
		return p.levels[slog.LevelWarn]
	case l >= slog.LevelInfo:
		return p.levels[slog.LevelInfo]
	case l > LevelTrace:
		return p.levels[slog.LevelDebug]
	default:
		return p.levels[LevelTrace]
	}
}

func paint(c *color.Color, s string) string {
	if c == nil {
		return s
	}
	return c.Sprint(s)
}

// Handler writes one human readable line per record:
//
//	3:04PM INFO  preset applied preset=esports path="~/Documents/Battlefield 6/settings/PROFSAVE_profile"
//
// Paths under the home directory are shortened to ~ and group attributes
// are flattened to dotted keys.
type Handler struct {
	opts   slog.HandlerOptions
	out    io.Writer
	mu     *sync.Mutex
	pre    []byte // rendered WithAttrs attributes
	prefix string // open groups, "tx.state."
	home   string
	colors *palette
}

// NewHandler creates a Handler writing to out. Colour is enabled when out is
// a terminal that supports it.
func NewHandler(out io.Writer, opts *slog.HandlerOptions) *Handler {
	h := &Handler{out: out, mu: &sync.Mutex{}}
	if opts != nil {
		h.opts = *opts
	}
	if home, err := os.UserHomeDir(); err == nil {
		h.home = filepath.Clean(home)
	}
	if SupportsColor(out) {
		h.colors = newPalette()
	}
	return h
}

// Enabled reports whether level meets the configured minimum, info when
// unset.
func (h *Handler) Enabled(_ context.Context, level slog.Level) bool {
	minLevel := slog.LevelInfo
	if h.opts.Level != nil {
		minLevel = h.opts.Level.Level()
	}
	return level >= minLevel
}

// Handle renders r into a buffer and writes it with a single Write.
func (h *Handler) Handle(_ context.Context, r slog.Record) error {
	var buf bytes.Buffer

	var tc, lc *color.Color
	if h.colors != nil {
		tc, lc = h.colors.time, h.colors.level(r.Level)
	}

	if !r.Time.IsZero() {
		buf.WriteString(paint(tc, r.Time.Format(time.Kitchen)))
		buf.WriteByte(' ')
	}

	name := levelName(r.Level)
	buf.WriteString(paint(lc, name))
	buf.WriteString(strings.Repeat(" ", max(1, 6-len(name))))
	buf.WriteString(r.Message)

	buf.Write(h.pre)
	r.Attrs(func(a slog.Attr) bool {
		h.appendAttr(&buf, h.prefix, a)
		return true
	})
	buf.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := h.out.Write(buf.Bytes())
	return err
}

func (h *Handler) appendAttr(buf *bytes.Buffer, prefix string, a slog.Attr) {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return
	}

	if a.Value.Kind() == slog.KindGroup {
		sub := prefix
		if a.Key != "" {
			sub = prefix + a.Key + "."
		}
		for _, ga := range a.Value.Group() {
			h.appendAttr(buf, sub, ga)
		}
		return
	}

	var kc *color.Color
	if h.colors != nil {
		kc = h.colors.key
	}
	buf.WriteByte(' ')
	buf.WriteString(paint(kc, prefix+a.Key))
	buf.WriteByte('=')
	buf.WriteString(h.formatValue(a.Value))
}

func (h *Handler) formatValue(v slog.Value) string {
	switch v.Kind() {
	case slog.KindString:
		return quoteIfNeeded(h.shortenHome(v.String()))
	case slog.KindDuration:
		return v.Duration().String()
	case slog.KindTime:
		return v.Time().Format(time.RFC3339)
	case slog.KindAny:
		if err, ok := v.Any().(error); ok {
			return quoteIfNeeded(err.Error())
		}
	}
	return quoteIfNeeded(v.String())
}

// quoteIfNeeded quotes values that would otherwise be ambiguous on the
// line, such as the spaces in "Battlefield 6".
func quoteIfNeeded(s string) string {
	if s == "" || strings.ContainsAny(s, " \t\n\"=") {
		return strconv.Quote(s)
	}
	return s
}

// shortenHome rewrites paths under the user's home directory as ~/...
func (h *Handler) shortenHome(s string) string {
	if h.home == "" || h.home == string(filepath.Separator) {
		return s
	}
	if s == h.home {
		return "~"
	}
	if rest, ok := strings.CutPrefix(s, h.home+string(filepath.Separator)); ok {
		return "~" + string(filepath.Separator) + rest
	}
	return s
}

// levelName renders LevelTrace as TRACE instead of DEBUG-4.
func levelName(l slog.Level) string {
	if l <= LevelTrace {
		return "TRACE"
	}
	return l.String()
}

// WithAttrs pre-renders attrs so they are not formatted again per record.
func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}
	var buf bytes.Buffer
	buf.Write(h.pre)
	for _, a := range attrs {
		h.appendAttr(&buf, h.prefix, a)
	}
	nh := *h
	nh.pre = buf.Bytes()
	return &nh
}

// WithGroup qualifies the keys of later attributes with name.
func (h *Handler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	nh := *h
	nh.prefix = h.prefix + name + "."
	return &nh
}
