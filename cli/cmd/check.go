package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/fghibellini/language-nix/lang"
	"github.com/fghibellini/language-nix/log"
	"github.com/fghibellini/language-nix/pkg"
)

// Check parses every input source and reports the first syntax error of
// each failing source. It exits non-zero when any source fails.
type Check struct {
	Sources []string `arg:"" help:"Source input file(s) or '-' for stdin" name:"source" optional:""`
}

// Run executes the check command.
func (c *Check) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	srcs := c.sources(ctx)
	if srcs == nil || srcs.IsZero() {
		return pkg.MakeError(pkg.ErrNoSource)
	}

	var total, failed int

	for name, r := range srcs.All() {
		total++

		expr, err := lang.ParseReader(ctx, name, r)
		if err != nil {
			failed++

			fmt.Fprintln(os.Stderr, err)

			log.ErrorContext(ctx, "syntax error",
				slog.String("source", name),
				slog.Any("error", err),
			)

			continue
		}

		log.DebugContext(ctx, "source ok",
			slog.String("source", name),
			slog.String("kind", expr.Kind.String()),
		)
	}

	if failed > 0 {
		return pkg.MakeError(pkg.ErrParse).
			Wrapf("%d of %d sources failed", failed, total)
	}

	return nil
}

// sources selects the input set: positional arguments win over the global
// --source flag, and stdin is the fallback when neither was given.
func (c *Check) sources(ctx context.Context) SourceFiles {
	if len(c.Sources) > 0 {
		lookup := resolverFrom(ctx)

		resolved := make([]string, len(c.Sources))
		for i, src := range c.Sources {
			resolved[i] = lookup(src)
		}

		return buildSourceFiles(resolved)
	}

	if srcs := sourceFilesFrom(ctx); srcs != nil {
		return srcs
	}

	return buildSourceFiles([]string{stdinSource})
}
