package cmd

import (
	"context"
	"io"
	"iter"

	"github.com/fghibellini/language-nix/cli/cmd/repl"
	"github.com/fghibellini/language-nix/log"
)

// Repl starts an interactive parse session. Sources given with the global
// --source flag are preloaded to seed completion.
type Repl struct{}

// Run executes the repl command.
func (r *Repl) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	ktx := kongContextFrom(ctx)
	cacheDir := ktx.Model.Vars()[CacheIdentifier]

	var sources iter.Seq2[string, io.Reader]
	if srcs := sourceFilesFrom(ctx); srcs != nil {
		sources = srcs.All()
	}

	return repl.Run(ctx, sources, cacheDir, log.Default())
}
