package cli

import (
	"os"
	"path/filepath"

	"github.com/ardnew/mung"

	"github.com/fghibellini/language-nix/pkg"
)

// baseConfig is the base name of the configuration file.
const baseConfig = "config"

// searchPathVar is the environment variable holding the colon-delimited
// search path for resolving relative source file arguments.
const searchPathVar = "NIX_PATH"

// DefaultDirMode is the default permission mode for created directories.
var defaultDirMode os.FileMode = 0o700

// configPath returns the absolute path formed by joining the user
// configuration directory with the given path elements.
func configPath(elem ...string) string {
	return filepath.Join(append([]string{pkg.ConfigDir()}, elem...)...)
}

// mkdirAllRequired creates all required runtime directories.
func mkdirAllRequired() error {
	err := os.MkdirAll(pkg.ConfigDir(), defaultDirMode)
	if err != nil {
		return err
	}

	return os.MkdirAll(pkg.CacheDir(), defaultDirMode)
}

// searchPath merges the --path flag values with the NIX_PATH environment
// variable into a deduplicated list of existing directories. Flag values
// take priority over the environment.
func searchPath(flags []string) []string {
	merged := mung.Make(
		mung.WithSubjectItems(os.Getenv(searchPathVar)),
		mung.WithDelim(string(os.PathListSeparator)),
		mung.WithPrefixItems(flags...),
		mung.WithFilter(func(dir string) bool {
			info, err := os.Stat(dir)

			return err == nil && info.IsDir()
		}),
	).String()

	return filepath.SplitList(merged)
}

// resolveSource returns the first match for name against the search path.
// Absolute paths, the stdin marker, and paths that already exist are
// returned unchanged; an unresolvable name is returned as given so the
// open failure reports the original argument.
func resolveSource(name string, dirs []string) string {
	if name == "-" || filepath.IsAbs(name) {
		return name
	}

	if _, err := os.Stat(name); err == nil {
		return name
	}

	for _, dir := range dirs {
		cand := filepath.Join(dir, name)
		if _, err := os.Stat(cand); err == nil {
			return cand
		}
	}

	return name
}
