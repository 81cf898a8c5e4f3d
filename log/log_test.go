package log

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer

	l := Make(&buf, WithLevel(LevelWarn), WithFormat(FormatJSON), WithPretty(false))

	l.Trace("trace message")
	l.Debug("debug message")
	l.Info("info message")

	if buf.Len() != 0 {
		t.Fatalf("messages below warn were emitted: %s", buf.String())
	}

	l.Warn("warn message")
	l.Error("error message")

	out := buf.String()
	if !strings.Contains(out, "warn message") || !strings.Contains(out, "error message") {
		t.Errorf("warn/error messages missing: %s", out)
	}
}

func TestLogger_TraceLevelName(t *testing.T) {
	var buf bytes.Buffer

	l := Make(&buf, WithLevel(LevelTrace), WithFormat(FormatJSON), WithPretty(false))

	l.Trace("deep detail")

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("output is not json: %v: %s", err, buf.String())
	}

	if record["level"] != "TRACE" {
		t.Errorf("level rendered as %v, want TRACE", record["level"])
	}
}

func TestLogger_JSONAttributes(t *testing.T) {
	var buf bytes.Buffer

	l := Make(&buf, WithFormat(FormatJSON), WithPretty(false))

	l.Info("parsed", slog.String("source", "test.nix"), slog.Int("bytes", 42))

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("output is not json: %v: %s", err, buf.String())
	}

	if record["source"] != "test.nix" {
		t.Errorf("source attribute = %v", record["source"])
	}

	if record["bytes"] != float64(42) {
		t.Errorf("bytes attribute = %v", record["bytes"])
	}
}

func TestLogger_TextFormat(t *testing.T) {
	var buf bytes.Buffer

	l := Make(&buf, WithFormat(FormatText), WithPretty(false))

	l.Info("hello", slog.String("key", "value"))

	out := buf.String()
	if !strings.Contains(out, "msg=hello") || !strings.Contains(out, "key=value") {
		t.Errorf("unexpected text output: %s", out)
	}
}

func TestLogger_With(t *testing.T) {
	var buf bytes.Buffer

	l := Make(&buf, WithFormat(FormatJSON), WithPretty(false))
	l = l.With(slog.String("component", "parser"))

	l.Info("ready")

	if !strings.Contains(buf.String(), `"component":"parser"`) {
		t.Errorf("persistent attribute missing: %s", buf.String())
	}
}

func TestLogger_WrapDoesNotMutate(t *testing.T) {
	var buf bytes.Buffer

	base := Make(&buf, WithLevel(LevelInfo))
	derived := base.Wrap(WithLevel(LevelError))

	if base.Level() != LevelInfo {
		t.Errorf("base level changed to %v", base.Level())
	}

	if derived.Level() != LevelError {
		t.Errorf("derived level is %v, want error", derived.Level())
	}
}

func TestLogger_ZeroValue(t *testing.T) {
	var l Logger

	// Must not panic, and accessors report defaults.
	l.Info("into the void")
	l.Error("still nothing")

	if l.Level() != DefaultLevel || l.Format() != DefaultFormat {
		t.Errorf("zero logger reports %v/%v", l.Level(), l.Format())
	}
}

func TestLogger_NoTimestamp(t *testing.T) {
	var buf bytes.Buffer

	l := Make(&buf,
		WithFormat(FormatJSON), WithPretty(false), WithTimeLayout("none"))

	l.Info("timeless")

	if strings.Contains(buf.String(), `"time"`) {
		t.Errorf("timestamp present despite none layout: %s", buf.String())
	}
}

func TestLogger_PrettyText(t *testing.T) {
	var buf bytes.Buffer

	l := Make(&buf, WithFormat(FormatText), WithPretty(true))

	l.Info("colorful", slog.String("key", "value"))

	out := buf.String()
	if !strings.Contains(out, "\033[") {
		t.Errorf("pretty output has no color codes: %q", out)
	}

	if !strings.Contains(out, "colorful") {
		t.Errorf("message missing: %q", out)
	}
}

func TestPackageFunctions_UseDefaultLogger(t *testing.T) {
	original := defaultLog
	defer func() { defaultLog = original }()

	var buf bytes.Buffer

	defaultLog = Make(&buf,
		WithLevel(LevelTrace), WithFormat(FormatJSON), WithPretty(false))

	tests := []struct {
		name  string
		fn    func(string, ...slog.Attr)
		level string
	}{
		{"Trace", Trace, "TRACE"},
		{"Debug", Debug, "DEBUG"},
		{"Info", Info, "INFO"},
		{"Warn", Warn, "WARN"},
		{"Error", Error, "ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf.Reset()
			tt.fn("message", slog.String("key", "value"))

			out := buf.String()
			if !strings.Contains(out, tt.level) {
				t.Errorf("level %s missing: %s", tt.level, out)
			}

			if !strings.Contains(out, `"key":"value"`) {
				t.Errorf("attribute missing: %s", out)
			}
		})
	}
}

func TestConfig_AppliesToDefaultLogger(t *testing.T) {
	original := defaultLog
	defer func() { defaultLog = original }()

	var buf bytes.Buffer

	defaultLog = Make(&buf, WithFormat(FormatJSON), WithPretty(false))

	Config(WithLevel(LevelError))
	Info("should be filtered")

	if buf.Len() != 0 {
		t.Errorf("info emitted after raising level: %s", buf.String())
	}

	Error("should appear")

	if !strings.Contains(buf.String(), "should appear") {
		t.Errorf("error missing: %s", buf.String())
	}
}
