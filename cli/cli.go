package cli

import (
	"context"

	"github.com/alecthomas/kong"

	"github.com/fghibellini/language-nix/cli/cmd"
	"github.com/fghibellini/language-nix/pkg"
)

// CLI is the top-level command-line interface for nixp.
type CLI struct {
	Log   logConfig   `embed:"" group:"log"   prefix:"log-"`
	Pprof pprofConfig `embed:"" group:"pprof" prefix:"pprof-"`

	Source []string `help:"Input source file(s) or '-' for stdin"                name:"source" short:"s"`
	Path   []string `help:"Directories searched to resolve relative source paths" name:"path"   short:"I"`

	Init cmd.Init `cmd:"" help:"Initialize configuration file"`
	Fmt  cmd.Fmt  `cmd:"" help:"Parse expressions and print them back out"`
	Repl cmd.Repl `cmd:"" help:"Interactive parse session"`

	Check cmd.Check `cmd:"" default:"withargs" help:"Parse expressions and report syntax errors"`
}

// Run executes the nixp CLI with the given context and arguments.
// The exit function is called with the appropriate exit code upon completion.
func Run(
	ctx context.Context,
	exit func(code int),
	args ...string,
) error {
	var cli CLI

	err := mkdirAllRequired()
	if err != nil {
		return err
	}

	configFilePath := configPath(baseConfig)

	vars := kong.Vars{
		cmd.ConfigIdentifier: configFilePath,
		cmd.CacheIdentifier:  pkg.CacheDir(),
	}.
		CloneWith(cli.Log.vars()).
		CloneWith(cli.Pprof.vars())

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Pre-scan for logger flags to ensure early configuration regardless of
	// flag position. TextUnmarshaler on logFormat/logLevel handles those
	// flags during normal parsing, but this early scan also catches boolean
	// flags like --log-pretty.
	cli.Log.scan(args)

	parser, err := kong.New(&cli,
		kong.Name(pkg.Name),
		kong.Description(pkg.Description),
		kong.UsageOnError(),
		kong.Exit(exit),
		kong.ExplicitGroups(
			[]kong.Group{cli.Log.group(), cli.Pprof.group()},
		),
		kong.BindSingletonProvider(func() context.Context {
			return ctx
		}),
		kong.ConfigureHelp(
			kong.HelpOptions{
				Compact:             true,
				Summary:             true,
				Tree:                true,
				FlagsLast:           false,
				NoAppSummary:        false,
				NoExpandSubcommands: true,
			}),
		kong.Configuration(kong.JSON, configFilePath+".json"),
		kong.Configuration(resolve(ctx, baseConfig), configFilePath),
		vars,
	)
	if err != nil {
		return err
	}

	ktx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	// Relative source arguments resolve against --path and NIX_PATH.
	dirs := searchPath(cli.Path)
	lookup := func(name string) string { return resolveSource(name, dirs) }

	sources := make([]string, len(cli.Source))
	for i, src := range cli.Source {
		sources[i] = lookup(src)
	}

	// Stuff additional context values for use by commands.
	ctx = cmd.WithContext(ctx, ktx)
	ctx = cmd.WithResolver(ctx, lookup)
	ctx = cmd.WithSourceFiles(ctx, sources)

	// Finalize logger configuration with all parsed values including
	// TimeLayout and Caller which don't use TextUnmarshaler.
	cli.Log.start(ctx)

	// [pprofConfig.start] is no-op unless built with tag pprof and enabled.
	defer cli.Pprof.start(ctx)()

	// Execute the selected command.
	return ktx.Run(ctx, &cli)
}
