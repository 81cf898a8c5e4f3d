// Package cmd provides the check, fmt, init, and repl subcommands of the
// nixp CLI.
package cmd

var (
	// CacheIdentifier is the kong variable identifier containing the path to
	// the runtime cache directory.
	CacheIdentifier = "cache"

	// ConfigIdentifier is the kong variable identifier containing the path
	// to the default configuration file.
	ConfigIdentifier = "config"
)
