// Package log provides a concurrency-safe structured logging interface
// based on [log/slog], extended with a trace level for parser internals.
//
// A [Logger] is a value type wrapping an immutable configuration; deriving
// a logger with [Logger.Wrap] or [Logger.With] never mutates the original,
// so loggers may be shared freely across goroutines.
//
// # Basic Usage
//
//	logger := log.Make(os.Stderr)
//	logger.Info("parsed", slog.String("source", path))
//
// # Configuration
//
//	logger := log.Make(os.Stderr,
//		log.WithLevel(log.LevelTrace),
//		log.WithFormat(log.FormatText),
//		log.WithCaller(true))
//
// # Package-Level Logger
//
// A default logger writing to standard error is available through the
// package-level functions [Trace], [Debug], [Info], [Warn], and [Error]
// (and their context-aware variants). [Config] reconfigures it in place,
// which the CLI uses to apply --log-* flags as early as possible.
//
// Context-unaware functions call their context-aware counterparts with
// [DefaultContextProvider], which returns [context.TODO] by default.
//
// # Levels and Formats
//
// Five levels are supported: [LevelTrace], [LevelDebug], [LevelInfo],
// [LevelWarn], and [LevelError]. Trace sits below debug and carries
// per-production parser events; it is mapped onto [slog.Level] so standard
// handlers filter it correctly. Output is [FormatText] or [FormatJSON],
// optionally colorized with [WithPretty].
package log
