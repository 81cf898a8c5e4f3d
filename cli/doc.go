// Package cli contains the command line interface for nixp.
//
// # Usage
//
// The CLI parses Nix expressions from files, stdin, or an interactive
// session:
//
//	nixp check default.nix
//	nixp fmt json --source expr.nix
//	nixp repl
//
// Relative source paths are resolved against the directories given with
// --path and the NIX_PATH environment variable, in that order.
//
// # Configuration
//
// Flag defaults may be stored in a configuration file under the user config
// directory. Two formats are recognized: JSON (config.json) and the Nix
// attribute-set syntax itself (config), loaded by a [kong.Resolver] that
// parses the file with the lang package. Generate a template with:
//
//	nixp init
//
// # Logging Options
//
//   - --log-level: Set minimum log level (trace, debug, info, warn, error)
//   - --log-format: Set log output format (text, json)
//   - --log-time-layout: Set timestamp format (RFC3339, RFC3339Nano, etc.)
//   - --log-caller: Include caller information in log output
//   - --log-pretty: Colorize log output
//
// # Profiling Options
//
// Profiling is only available when built with the pprof build tag:
//
//	go build -tags pprof .
//
//   - --pprof-mode: Enable profiling (allocs, block, clock, cpu, goroutine,
//     heap, mem, mutex, thread, trace)
//   - --pprof-dir: Set profile output directory (default:
//     ~/.cache/nixp/pprof)
package cli
