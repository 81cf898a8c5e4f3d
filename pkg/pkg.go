//nolint:gochecknoglobals
package pkg

import (
	_ "embed"
)

// Version is the semantic version of the module embedded at build time.
// The CLI prints it when invoked with --version.
//
//go:embed VERSION
var Version string

const (
	// Name is the canonical command and module identifier used across the
	// project, in help text and default config paths.
	Name = "nixp"
	// Description is a short, human-readable summary of the project used
	// in help output.
	Description = "Nix expression parser and inspector"
)
