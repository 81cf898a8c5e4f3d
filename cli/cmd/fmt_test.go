package cmd

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// writeSource writes input to a temp file and returns its path.
func writeSource(t *testing.T, input string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "src.nix")
	if err := os.WriteFile(path, []byte(input), 0o644); err != nil {
		t.Fatal(err)
	}

	return path
}

// captureStdout redirects os.Stdout for the duration of fn.
func captureStdout(t *testing.T, fn func() error) (string, error) {
	t.Helper()

	r, w, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}

	old := os.Stdout
	os.Stdout = w

	runErr := fn()

	os.Stdout = old

	w.Close()

	data, err := io.ReadAll(r)
	if err != nil {
		t.Fatal(err)
	}

	return string(data), runErr
}

func TestNativeRun(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{
			name:  "attrset",
			input: "{ x = 1; }",
			want:  "{ x = 1; }\n",
		},
		{
			name:  "operators parenthesized",
			input: "1 + 2 ++ 3",
			want:  "((1 + 2) ++ 3)\n",
		},
		{
			name:  "application",
			input: "f x y",
			want:  "((f x) y)\n",
		},
		{
			name:    "missing value",
			input:   "{ x = ; }",
			wantErr: true,
		},
		{
			name:    "trailing garbage",
			input:   "x ;",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			native := &Native{Source: writeSource(t, tt.input)}

			got, err := captureStdout(t, func() error {
				return native.Run(context.Background())
			})

			if (err != nil) != tt.wantErr {
				t.Fatalf("Run() error = %v, wantErr %v", err, tt.wantErr)
			}

			if !tt.wantErr && got != tt.want {
				t.Errorf("output = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestJSONRun(t *testing.T) {
	cmd := &JSON{Indent: 2, Source: writeSource(t, "[ 1 2 ]")}

	got, err := captureStdout(t, func() error {
		return cmd.Run(context.Background())
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if !json.Valid([]byte(got)) {
		t.Fatalf("output is not valid JSON: %q", got)
	}

	if !strings.Contains(got, `"list"`) {
		t.Errorf("output missing list kind: %q", got)
	}
}

func TestYAMLRun(t *testing.T) {
	cmd := &YAML{Indent: 2, Source: writeSource(t, "{ x = 1; }")}

	got, err := captureStdout(t, func() error {
		return cmd.Run(context.Background())
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if !strings.Contains(got, "attrset") {
		t.Errorf("output missing attrset kind: %q", got)
	}
}

func TestRunMissingFile(t *testing.T) {
	native := &Native{Source: "/does/not/exist.nix"}
	if err := native.Run(context.Background()); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestRunResolvesSource(t *testing.T) {
	dir := t.TempDir()

	path := filepath.Join(dir, "lib.nix")
	if err := os.WriteFile(path, []byte("x: x"), 0o644); err != nil {
		t.Fatal(err)
	}

	ctx := WithResolver(context.Background(), func(name string) string {
		return filepath.Join(dir, name)
	})

	native := &Native{Source: "lib.nix"}

	got, err := captureStdout(t, func() error {
		return native.Run(ctx)
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if got != "(x: x)\n" {
		t.Errorf("output = %q, want (x: x)", got)
	}
}
