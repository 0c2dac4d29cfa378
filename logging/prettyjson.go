// Package logging holds the slog handler and setup shared by the binaries.
package logging

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"runtime"
	"strconv"
	"strings"
	"sync"
	"time"
)

// PrettyJSONHandler writes one JSON object per record. With indent set the
// object is spread over several lines for reading in a terminal; without it
// every record is a single line that tools like jq can follow.
type PrettyJSONHandler struct {
	w         io.Writer
	mu        *sync.Mutex
	level     slog.Leveler
	addSource bool
	indent    bool

	attrs  []scopedAttr
	groups []string
}

// scopedAttr remembers which groups were open when WithAttrs was called.
type scopedAttr struct {
	groups []string
	attr   slog.Attr
}

// NewPrettyJSONHandler returns an indenting handler.
func NewPrettyJSONHandler(w io.Writer, opts *slog.HandlerOptions) *PrettyJSONHandler {
	h := newHandler(w, opts)
	h.indent = true
	return h
}

// NewCompactJSONHandler returns a handler that keeps each record on one line.
func NewCompactJSONHandler(w io.Writer, opts *slog.HandlerOptions) *PrettyJSONHandler {
	return newHandler(w, opts)
}

func newHandler(w io.Writer, opts *slog.HandlerOptions) *PrettyJSONHandler {
	h := &PrettyJSONHandler{
		w:     w,
		mu:    &sync.Mutex{},
		level: slog.LevelInfo,
	}
	if opts != nil {
		if opts.Level != nil {
			h.level = opts.Level
		}
		h.addSource = opts.AddSource
	}
	return h
}

func (h *PrettyJSONHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *PrettyJSONHandler) Handle(_ context.Context, r slog.Record) error {
	when := r.Time
	if when.IsZero() {
		when = time.Now()
	}
	record := map[string]any{
		"time":  when.Format(time.RFC3339Nano),
		"level": r.Level.String(),
		"msg":   r.Message,
	}
	if h.addSource {
		if src := sourceFromPC(r.PC); src != "" {
			record["source"] = src
		}
	}

	for _, sa := range h.attrs {
		putAttr(groupMap(record, sa.groups), sa.attr)
	}
	if r.NumAttrs() > 0 {
		dst := groupMap(record, h.groups)
		r.Attrs(func(a slog.Attr) bool {
			putAttr(dst, a)
			return true
		})
	}

	var (
		b   []byte
		err error
	)
	if h.indent {
		b, err = json.MarshalIndent(record, "", "  ")
	} else {
		b, err = json.Marshal(record)
	}
	if err != nil {
		// An attr that will not marshal should not cost us the message.
		b = []byte(`{"time":` + strconv.Quote(record["time"].(string)) +
			`,"level":` + strconv.Quote(r.Level.String()) +
			`,"msg":` + strconv.Quote(r.Message) +
			`,"logError":` + strconv.Quote(err.Error()) + `}`)
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err = h.w.Write(append(b, '\n'))
	return err
}

func (h *PrettyJSONHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}
	clone := *h
	clone.attrs = append([]scopedAttr(nil), h.attrs...)
	for _, a := range attrs {
		clone.attrs = append(clone.attrs, scopedAttr{groups: h.groups, attr: a})
	}
	return &clone
}

func (h *PrettyJSONHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	clone := *h
	clone.groups = append(append([]string(nil), h.groups...), name)
	return &clone
}

// groupMap walks (creating as needed) the nested maps for groups.
func groupMap(root map[string]any, groups []string) map[string]any {
	dst := root
	for _, g := range groups {
		m, ok := dst[g].(map[string]any)
		if !ok {
			m = map[string]any{}
			dst[g] = m
		}
		dst = m
	}
	return dst
}

func putAttr(dst map[string]any, a slog.Attr) {
	v := a.Value.Resolve()
	if v.Kind() == slog.KindGroup {
		members := v.Group()
		if len(members) == 0 {
			return
		}
		// Inline groups (empty key) merge into the parent.
		target := dst
		if a.Key != "" {
			target = groupMap(dst, []string{a.Key})
		}
		for _, m := range members {
			putAttr(target, m)
		}
		return
	}
	if a.Key == "" {
		return
	}
	dst[a.Key] = plain(v)
}

func plain(v slog.Value) any {
	switch v.Kind() {
	case slog.KindString:
		return v.String()
	case slog.KindInt64:
		return v.Int64()
	case slog.KindUint64:
		return v.Uint64()
	case slog.KindFloat64:
		return v.Float64()
	case slog.KindBool:
		return v.Bool()
	case slog.KindDuration:
		return v.Duration().String()
	case slog.KindTime:
		return v.Time().Format(time.RFC3339Nano)
	case slog.KindAny:
		if err, ok := v.Any().(error); ok {
			return err.Error()
		}
		return v.Any()
	default:
		return v.String()
	}
}

func sourceFromPC(pc uintptr) string {
	if pc == 0 {
		return ""
	}
	f, _ := runtime.CallersFrames([]uintptr{pc}).Next()
	if f.File == "" {
		return ""
	}
	file := f.File
	if idx := strings.LastIndexByte(file, '/'); idx >= 0 {
		file = file[idx+1:]
	}
	return file + ":" + strconv.Itoa(f.Line)
}
