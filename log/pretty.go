package log

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"sync"
)

// ANSI color codes for pretty printing.
const (
	colorReset   = "\033[0m"
	colorGray    = "\033[90m"
	colorRed     = "\033[31m"
	colorGreen   = "\033[32m"
	colorYellow  = "\033[33m"
	colorBlue    = "\033[34m"
	colorMagenta = "\033[35m"
	colorCyan    = "\033[36m"
)

// levelColor maps a level to its display color. Trace gets its own color
// below debug.
func levelColor(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return colorRed
	case level >= slog.LevelWarn:
		return colorYellow
	case level >= slog.LevelInfo:
		return colorGreen
	case level >= slog.LevelDebug:
		return colorBlue
	default:
		return colorMagenta
	}
}

// levelName renders a level through the package's [Level] names so trace
// prints as "trace" rather than slog's offset notation.
func levelName(level slog.Level) string {
	return Level(level).String()
}

// prettyTextHandler renders records as colorized key=value text.
type prettyTextHandler struct {
	opts slog.HandlerOptions
	mu   *sync.Mutex
	w    io.Writer
}

func newPrettyTextHandler(w io.Writer, opts *slog.HandlerOptions) *prettyTextHandler {
	return &prettyTextHandler{opts: *opts, mu: &sync.Mutex{}, w: w}
}

func (h *prettyTextHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.opts.Level.Level()
}

func (h *prettyTextHandler) Handle(_ context.Context, r slog.Record) error {
	buf := new(bytes.Buffer)

	if !r.Time.IsZero() {
		writePrettyAttr(buf, slog.Time(slog.TimeKey, r.Time))
	}

	writePrettyAttr(buf, slog.Any(slog.LevelKey, r.Level))

	if h.opts.AddSource {
		if src := r.Source(); src != nil {
			writePrettyAttr(buf, slog.String(
				slog.SourceKey, fmt.Sprintf("%s:%d", src.File, src.Line),
			))
		}
	}

	writePrettyAttr(buf, slog.String(slog.MessageKey, r.Message))

	r.Attrs(func(a slog.Attr) bool {
		writePrettyAttr(buf, a)

		return true
	})

	buf.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()

	_, err := h.w.Write(buf.Bytes())

	return err
}

func (h *prettyTextHandler) WithAttrs([]slog.Attr) slog.Handler { return h }

func (h *prettyTextHandler) WithGroup(string) slog.Handler { return h }

func writePrettyAttr(buf *bytes.Buffer, a slog.Attr) {
	if buf.Len() > 0 {
		buf.WriteByte(' ')
	}

	buf.WriteString(colorGray)
	buf.WriteString(a.Key)
	buf.WriteString(colorReset)
	buf.WriteByte('=')
	writePrettyValue(buf, a.Value)
}

func writePrettyValue(buf *bytes.Buffer, v slog.Value) {
	switch v.Kind() {
	case slog.KindString:
		buf.WriteString(colorCyan)
		buf.WriteString(v.String())
		buf.WriteString(colorReset)

	case slog.KindInt64:
		buf.WriteString(colorYellow)
		buf.WriteString(strconv.FormatInt(v.Int64(), 10))
		buf.WriteString(colorReset)

	case slog.KindUint64:
		buf.WriteString(colorYellow)
		buf.WriteString(strconv.FormatUint(v.Uint64(), 10))
		buf.WriteString(colorReset)

	case slog.KindFloat64:
		buf.WriteString(colorYellow)
		buf.WriteString(strconv.FormatFloat(v.Float64(), 'g', -1, 64))
		buf.WriteString(colorReset)

	case slog.KindBool:
		if v.Bool() {
			buf.WriteString(colorGreen + "true")
		} else {
			buf.WriteString(colorRed + "false")
		}

		buf.WriteString(colorReset)

	case slog.KindDuration:
		buf.WriteString(colorMagenta)
		buf.WriteString(v.Duration().String())
		buf.WriteString(colorReset)

	case slog.KindTime:
		buf.WriteString(colorBlue)
		buf.WriteString(v.Time().String())
		buf.WriteString(colorReset)

	case slog.KindAny:
		if level, ok := v.Any().(slog.Level); ok {
			buf.WriteString(levelColor(level))
			buf.WriteString(levelName(level))
			buf.WriteString(colorReset)

			return
		}

		fallthrough

	default:
		buf.WriteString(colorCyan)
		buf.WriteString(v.String())
		buf.WriteString(colorReset)
	}
}

// prettyJSONHandler renders records as colorized, indented pseudo-JSON for
// human consumption; the machine-readable form is the plain JSON handler.
type prettyJSONHandler struct {
	opts slog.HandlerOptions
	mu   *sync.Mutex
	w    io.Writer
}

func newPrettyJSONHandler(w io.Writer, opts *slog.HandlerOptions) *prettyJSONHandler {
	return &prettyJSONHandler{opts: *opts, mu: &sync.Mutex{}, w: w}
}

func (h *prettyJSONHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.opts.Level.Level()
}

func (h *prettyJSONHandler) Handle(_ context.Context, r slog.Record) error {
	buf := new(bytes.Buffer)
	buf.WriteString("{\n")

	first := true

	if !r.Time.IsZero() {
		h.writeField(buf, slog.TimeKey, r.Time.Format(DefaultTimeLayout), &first)
	}

	h.writeField(buf, slog.LevelKey, levelName(r.Level), &first)

	if h.opts.AddSource {
		if src := r.Source(); src != nil {
			h.writeField(buf, slog.SourceKey,
				fmt.Sprintf("%s:%d", src.File, src.Line), &first)
		}
	}

	h.writeField(buf, slog.MessageKey, r.Message, &first)

	r.Attrs(func(a slog.Attr) bool {
		h.writeField(buf, a.Key, a.Value.Any(), &first)

		return true
	})

	buf.WriteString("\n}\n")

	h.mu.Lock()
	defer h.mu.Unlock()

	_, err := h.w.Write(buf.Bytes())

	return err
}

func (h *prettyJSONHandler) WithAttrs([]slog.Attr) slog.Handler { return h }

func (h *prettyJSONHandler) WithGroup(string) slog.Handler { return h }

func (h *prettyJSONHandler) writeField(
	buf *bytes.Buffer,
	key string,
	value any,
	first *bool,
) {
	if !*first {
		buf.WriteString(",\n")
	}

	*first = false

	buf.WriteString("  ")
	buf.WriteString(colorGray)
	buf.WriteString(key)
	buf.WriteString(colorReset)
	buf.WriteString(": ")

	switch val := value.(type) {
	case string:
		buf.WriteString(colorCyan)
		buf.WriteString(val)
		buf.WriteString(colorReset)

	case int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64:
		buf.WriteString(colorYellow)
		fmt.Fprint(buf, val)
		buf.WriteString(colorReset)

	case bool:
		if val {
			buf.WriteString(colorGreen + "true")
		} else {
			buf.WriteString(colorRed + "false")
		}

		buf.WriteString(colorReset)

	case nil:
		buf.WriteString(colorGray + "null" + colorReset)

	default:
		buf.WriteString(colorCyan)
		fmt.Fprint(buf, val)
		buf.WriteString(colorReset)
	}
}
