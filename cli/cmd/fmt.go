package cmd

import (
	"bufio"
	"context"
	"io"
	"os"

	"github.com/fghibellini/language-nix/lang"
	"github.com/fghibellini/language-nix/pkg"
)

// stdinName labels stdin input in diagnostics.
const stdinName = "<stdin>"

// Fmt reads one expression, parses it, and prints it in the chosen format.
type Fmt struct {
	Native Native `cmd:"" default:"withargs" help:"Print in canonical Nix syntax (default)."`
	JSON   JSON   `cmd:""                    help:"Print the syntax tree as JSON."`
	YAML   YAML   `cmd:""                    help:"Print the syntax tree as YAML."`
}

// openSource opens the named source, resolving it against the search path,
// or returns stdin for the "-" marker.
func openSource(
	ctx context.Context,
	source string,
) (name string, r io.ReadCloser, err error) {
	if source == stdinSource {
		return stdinName, io.NopCloser(os.Stdin), nil
	}

	path := resolverFrom(ctx)(source)

	file, err := os.Open(path)
	if err != nil {
		return "", nil, err
	}

	return path, file, nil
}

// parseSource opens and parses one named source.
func parseSource(ctx context.Context, source string) (*lang.Expr, error) {
	name, r, err := openSource(ctx, source)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	expr, err := lang.ParseReader(ctx, name, bufio.NewReader(r))
	if err != nil {
		return nil, pkg.MakeError(pkg.ErrParse).Wrap(err)
	}

	return expr, nil
}

// Native prints the expression back in canonical Nix syntax.
type Native struct {
	Source string `arg:"" default:"-" help:"Source input file or '-' for stdin." name:"source"`
}

// Run executes the fmt native command.
func (f *Native) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	expr, err := parseSource(ctx, f.Source)
	if err != nil {
		return err
	}

	return expr.Format(os.Stdout)
}

// JSON prints the syntax tree as JSON.
type JSON struct {
	Indent int `default:"2" help:"Indent width for JSON output" short:"i"`

	Source string `arg:"" default:"-" help:"Source input file or '-' for stdin." name:"source"`
}

// Run executes the fmt json command.
func (j *JSON) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	expr, err := parseSource(ctx, j.Source)
	if err != nil {
		return err
	}

	err = expr.FormatJSON(os.Stdout, j.Indent)
	if err != nil {
		return pkg.MakeError(pkg.ErrJSONMarshal).Wrap(err)
	}

	return nil
}

// YAML prints the syntax tree as YAML.
type YAML struct {
	Indent int `default:"2" help:"Indent width for YAML output" short:"i"`

	Source string `arg:"" default:"-" help:"Source input file or '-' for stdin." name:"source"`
}

// Run executes the fmt yaml command.
func (y *YAML) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	expr, err := parseSource(ctx, y.Source)
	if err != nil {
		return err
	}

	err = expr.FormatYAML(os.Stdout, y.Indent)
	if err != nil {
		return pkg.MakeError(pkg.ErrYAMLMarshal).Wrap(err)
	}

	return nil
}
