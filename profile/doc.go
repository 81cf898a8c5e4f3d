// Package profile provides optional runtime profiling for the parser CLI.
//
// It integrates [github.com/pkg/profile] behind conditional compilation:
// profiling is enabled only when built with the "pprof" build tag. In
// default builds every operation is a no-op with zero overhead, and the
// --pprof-* flags are hidden.
//
// Supported modes (see [Modes]): allocs, block, clock, cpu, goroutine,
// heap, mem, mutex, thread, trace.
//
// A profiler is configured as a [Config] and started with [Config.Start]:
//
//	cfg := profile.Config(func() (string, string, bool) {
//	    return "cpu", "/tmp/profiles", false
//	})
//	defer cfg.Start().Stop()
//
// Profile files are written into the given directory under names matching
// the mode (cpu.pprof, heap.pprof, ...) and analyzed with go tool pprof:
//
//	go tool pprof ./nixp /tmp/profiles/cpu.pprof
//
// Builds with the pprof tag also import [net/http/pprof], so an embedding
// application that serves HTTP exposes /debug/pprof/ automatically.
package profile

// Tag is the build tag required to enable pprof profiling.
const Tag = `pprof`
