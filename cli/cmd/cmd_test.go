package cmd

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"
)

func TestWithSourceFilesEmpty(t *testing.T) {
	ctx := WithSourceFiles(context.Background(), nil)
	if srcs := sourceFilesFrom(ctx); srcs != nil {
		t.Error("WithSourceFiles(nil) should store nil")
	}

	ctx = WithSourceFiles(context.Background(), []string{})
	if srcs := sourceFilesFrom(ctx); srcs != nil {
		t.Error("WithSourceFiles([]) should store nil")
	}
}

func TestWithSourceFilesSingleFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.nix")
	if err := os.WriteFile(path, []byte("{ x = 1; }"), 0o644); err != nil {
		t.Fatal(err)
	}

	ctx := WithSourceFiles(context.Background(), []string{path})

	srcs := sourceFilesFrom(ctx)
	if srcs == nil || srcs.IsZero() {
		t.Fatal("expected non-empty SourceFiles")
	}

	var names []string

	for name, r := range srcs.All() {
		names = append(names, name)

		data, err := io.ReadAll(r)
		if err != nil {
			t.Fatalf("read %s: %v", name, err)
		}

		if string(data) != "{ x = 1; }" {
			t.Errorf("content = %q", data)
		}
	}

	if len(names) != 1 || names[0] != path {
		t.Errorf("names = %v, want [%s]", names, path)
	}
}

func TestWithSourceFilesDeduplicates(t *testing.T) {
	dir := t.TempDir()

	path := filepath.Join(dir, "a.nix")
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	// The same file by two names: direct and through a symlink.
	link := filepath.Join(dir, "b.nix")
	if err := os.Symlink(path, link); err != nil {
		t.Skipf("symlink not supported: %v", err)
	}

	ctx := WithSourceFiles(context.Background(), []string{path, link, path})

	count := 0
	for range sourceFilesFrom(ctx).All() {
		count++
	}

	if count != 1 {
		t.Errorf("got %d sources, want 1", count)
	}
}

func TestWithSourceFilesStdinLast(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.nix")
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	ctx := WithSourceFiles(context.Background(), []string{"-", path})

	var names []string
	for name := range sourceFilesFrom(ctx).All() {
		names = append(names, name)
	}

	if len(names) != 2 || names[0] != path || names[1] != stdinSource {
		t.Errorf("names = %v, want [%s -]", names, path)
	}
}

func TestWithSourceFilesSkipsMissing(t *testing.T) {
	ctx := WithSourceFiles(context.Background(), []string{"/does/not/exist"})
	if srcs := sourceFilesFrom(ctx); srcs != nil {
		t.Error("missing file should yield nil SourceFiles")
	}
}

func TestResolverFromDefault(t *testing.T) {
	lookup := resolverFrom(context.Background())
	if got := lookup("a.nix"); got != "a.nix" {
		t.Errorf("default resolver changed name: %q", got)
	}
}

func TestResolverFromContext(t *testing.T) {
	ctx := WithResolver(context.Background(), func(name string) string {
		return "/lib/" + name
	})

	if got := resolverFrom(ctx)("a.nix"); got != "/lib/a.nix" {
		t.Errorf("resolver = %q, want /lib/a.nix", got)
	}
}
