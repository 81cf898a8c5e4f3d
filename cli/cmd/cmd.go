package cmd

import (
	"context"
	"io"
	"iter"
	"os"
	"path/filepath"
	"syscall"

	"github.com/alecthomas/kong"
)

// contextKey is used to store a [kong.Context] value in [context.Context].
type contextKey struct{}

// WithContext returns a new context.Context containing the given
// kong.Context.
func WithContext(ctx context.Context, ktx *kong.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, ktx)
}

func kongContextFrom(ctx context.Context) *kong.Context {
	ktx, ok := ctx.Value(contextKey{}).(*kong.Context)
	if !ok || ktx == nil {
		return nil
	}

	return ktx
}

// Resolver maps a source file argument to the path it should be opened at,
// typically by consulting a search path.
type Resolver func(name string) string

type resolverKey struct{}

// WithResolver returns a new context.Context carrying the source path
// resolver commands use for their positional file arguments.
func WithResolver(ctx context.Context, r Resolver) context.Context {
	return context.WithValue(ctx, resolverKey{}, r)
}

// resolverFrom retrieves the resolver stored by WithResolver, or the
// identity mapping if none was stored.
func resolverFrom(ctx context.Context) Resolver {
	r, ok := ctx.Value(resolverKey{}).(Resolver)
	if !ok || r == nil {
		return func(name string) string { return name }
	}

	return r
}

type (
	sourceFilesKey struct{}
	sourceFiles    struct {
		names    []string
		read     []io.Reader
		hasStdin bool
	}

	// SourceFiles is the deduplicated set of input sources named on the
	// command line, each paired with the source name used in diagnostics.
	SourceFiles interface {
		IsZero() bool
		All() iter.Seq2[string, io.Reader]
	}
)

// IsZero reports whether there are no source files.
func (s *sourceFiles) IsZero() bool {
	return len(s.read) == 0 && !s.hasStdin
}

// All yields each source name and its reader in command-line order, with
// stdin last when it was included.
func (s *sourceFiles) All() iter.Seq2[string, io.Reader] {
	return func(yield func(string, io.Reader) bool) {
		for i, r := range s.read {
			if !yield(s.names[i], r) {
				return
			}
		}

		if s.hasStdin {
			yield(stdinSource, os.Stdin)
		}
	}
}

// fileKey uniquely identifies a file by its device and inode numbers.
// This handles deduplication across symlinks, absolute/relative paths, and
// special device files.
type fileKey struct {
	dev uint64
	ino uint64
}

// stdinSource is the special source indicator for reading from stdin.
const stdinSource = "-"

// WithSourceFiles returns a new context.Context containing the given source
// files as a [SourceFiles].
//
// The function deduplicates sources by resolving symlinks and comparing
// device/inode pairs. All occurrences of "-" are replaced with a single
// stdin reader placed last so it reads after all regular files.
func WithSourceFiles(ctx context.Context, sources []string) context.Context {
	return context.WithValue(ctx, sourceFilesKey{}, buildSourceFiles(sources))
}

// buildSourceFiles constructs a SourceFiles from the given source paths.
func buildSourceFiles(sources []string) SourceFiles {
	if len(sources) == 0 {
		return nil
	}

	var srcs sourceFiles

	srcs.read = make([]io.Reader, 0, len(sources))
	seen := make(map[fileKey]struct{})

	stdinInfo, _ := os.Stdin.Stat()
	stdinKey, _ := makeFileKey(stdinInfo)

	for _, src := range sources {
		if src == stdinSource {
			seen[stdinKey] = struct{}{}

			continue
		}

		name, reader, ok := openUniqueFile(src, seen)
		if !ok {
			continue
		}

		srcs.names = append(srcs.names, name)
		srcs.read = append(srcs.read, reader)
	}

	// Stdin may have been included via "-" or as a named device file.
	// Both are represented by stdinKey in seen.
	_, srcs.hasStdin = seen[stdinKey]
	delete(seen, stdinKey)

	if srcs.IsZero() {
		return nil
	}

	return &srcs
}

// openUniqueFile opens the file at path if it hasn't been seen before.
// It resolves symlinks and uses device/inode to detect duplicates.
// Returns the resolved path, the opened file, and true if successful, or
// false if the file is a duplicate or cannot be opened.
func openUniqueFile(
	path string,
	seen map[fileKey]struct{},
) (string, io.Reader, bool) {
	// Resolve to absolute path to handle relative path duplicates.
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", nil, false
	}

	// Resolve symlinks to their target.
	resolved, err := filepath.EvalSymlinks(absPath)
	if err != nil {
		return "", nil, false
	}

	info, err := os.Stat(resolved)
	if err != nil {
		return "", nil, false
	}

	key, ok := makeFileKey(info)
	if !ok {
		return "", nil, false
	}

	if _, exists := seen[key]; exists {
		return "", nil, false
	}

	seen[key] = struct{}{}

	file, err := os.Open(resolved)
	if err != nil {
		return "", nil, false
	}

	return path, file, true
}

// makeFileKey creates a fileKey from os.FileInfo.
// Returns false if the underlying Sys() data is not of type *syscall.Stat_t.
func makeFileKey(info os.FileInfo) (key fileKey, ok bool) {
	if info == nil {
		return key, false
	}

	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return key, false
	}

	return fileKey{dev: stat.Dev, ino: stat.Ino}, true
}

// sourceFilesFrom retrieves the SourceFiles stored in ctx by
// WithSourceFiles. Returns nil if none was stored.
func sourceFilesFrom(ctx context.Context) SourceFiles {
	s, _ := ctx.Value(sourceFilesKey{}).(SourceFiles)

	return s
}
