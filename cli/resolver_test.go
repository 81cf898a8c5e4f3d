package cli

import (
	"strings"
	"testing"

	"github.com/alecthomas/kong"
)

// resolveFlag runs a config snippet through the loader and resolves one
// flag name against the result.
func resolveFlag(t *testing.T, source, flag string) any {
	t.Helper()

	loader := resolve(t.Context(), baseConfig)

	resolver, err := loader(strings.NewReader(source))
	if err != nil {
		t.Fatalf("loader failed: %v", err)
	}

	val, err := resolver.Resolve(nil, nil, &kong.Flag{
		Value: &kong.Value{Name: flag},
	})
	if err != nil {
		t.Fatalf("Resolve(%q) failed: %v", flag, err)
	}

	return val
}

func TestResolve_TopLevelAttrSet(t *testing.T) {
	source := `{
		log-level = "debug";
		log-format = "json";
		log-pretty = false;
	}`

	if got := resolveFlag(t, source, "log-level"); got != "debug" {
		t.Errorf("log-level = %v, want debug", got)
	}

	if got := resolveFlag(t, source, "log-format"); got != "json" {
		t.Errorf("log-format = %v, want json", got)
	}

	if got := resolveFlag(t, source, "log-pretty"); got != false {
		t.Errorf("log-pretty = %v, want false", got)
	}
}

func TestResolve_UnderscoreNames(t *testing.T) {
	source := `{ log_level = "warn"; }`

	// The flag uses hyphens; the config stores underscores.
	if got := resolveFlag(t, source, "log-level"); got != "warn" {
		t.Errorf("log-level = %v, want warn", got)
	}
}

func TestResolve_ScopedByName(t *testing.T) {
	source := `{
		config = { log-level = "error"; };
		other = { log-level = "trace"; };
	}`

	// Only the binding named after the config base scopes the values.
	if got := resolveFlag(t, source, "log-level"); got != "error" {
		t.Errorf("log-level = %v, want error", got)
	}

	if got := resolveFlag(t, source, "other"); got != nil {
		t.Errorf("other = %v, want nil", got)
	}
}

func TestResolve_DottedPathNests(t *testing.T) {
	source := `{ config.log-level = "debug"; }`

	if got := resolveFlag(t, source, "log-level"); got != "debug" {
		t.Errorf("log-level = %v, want debug", got)
	}
}

func TestResolve_NumbersKeptAsText(t *testing.T) {
	// Kong parses flag values from strings, so numbers stay textual.
	if got := resolveFlag(t, `{ width = 80; }`, "width"); got != "80" {
		t.Errorf("width = %v (%T), want \"80\"", got, got)
	}
}

func TestResolve_MissingFlag(t *testing.T) {
	if got := resolveFlag(t, `{ log-level = "info"; }`, "absent"); got != nil {
		t.Errorf("absent = %v, want nil", got)
	}
}

func TestResolve_InvalidSyntaxFallsBack(t *testing.T) {
	// An unparseable config must not fail flag parsing.
	if got := resolveFlag(t, `{ { {`, "log-level"); got != nil {
		t.Errorf("log-level = %v, want nil", got)
	}
}

func TestResolve_NonAttrSetFallsBack(t *testing.T) {
	if got := resolveFlag(t, `[ 1 2 3 ]`, "log-level"); got != nil {
		t.Errorf("log-level = %v, want nil", got)
	}
}

func TestResolve_ListValue(t *testing.T) {
	got := resolveFlag(t, `{ path = [ /a /b ]; }`, "path")

	list, ok := got.([]any)
	if !ok || len(list) != 2 || list[0] != "/a" || list[1] != "/b" {
		t.Errorf("path = %#v, want [/a /b]", got)
	}
}
