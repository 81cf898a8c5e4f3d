package log_test

import (
	"context"
	"log/slog"
	"os"

	"github.com/fghibellini/language-nix/log"
)

func Example_basic() {
	logger := log.Make(os.Stderr)
	logger.Info("parse complete", slog.String("source", "default.nix"))
}

func Example_configuration() {
	logger := log.Make(os.Stderr,
		log.WithLevel(log.LevelTrace),
		log.WithFormat(log.FormatText),
		log.WithTimeLayout("none"),
		log.WithCaller(true))

	logger.Trace("term alternative matched", slog.String("rule", "attrset"))
}

func Example_withAttributes() {
	logger := log.Make(os.Stderr).With(slog.String("component", "parser"))

	logger.Info("ready")
	logger.Debug("discarded below the default level")
}

func Example_withContext() {
	ctx := context.Background()

	logger := log.Make(os.Stderr, log.WithFormat(log.FormatJSON))
	logger.InfoContext(ctx, "checking sources", slog.Int("count", 3))
}
