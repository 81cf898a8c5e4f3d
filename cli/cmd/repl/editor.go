package repl

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"

	"github.com/fghibellini/language-nix/lang"
	"github.com/fghibellini/language-nix/log"
)

const defaultEditor = "vi"

// editExprCommand implements [tea.ExecCommand] for the edit-parse-retry
// loop. It writes the current expression to a temp file, opens the user's
// editor, and re-parses the result. On parse error the user is prompted to
// re-edit; declining exits the program.
type editExprCommand struct {
	expr    *lang.Expr
	ctxFunc func() context.Context
	newExpr *lang.Expr
	logger  log.Logger
	stdin   io.Reader
	stdout  io.Writer
	stderr  io.Writer
}

// SetStdin sets the stdin reader for the command.
func (c *editExprCommand) SetStdin(r io.Reader) { c.stdin = r }

// SetStdout sets the stdout writer for the command.
func (c *editExprCommand) SetStdout(w io.Writer) { c.stdout = w }

// SetStderr sets the stderr writer for the command.
func (c *editExprCommand) SetStderr(w io.Writer) { c.stderr = w }

// Run executes the edit-parse-retry loop. If the user declines to re-edit
// after a parse error, it returns [ErrEditDeclined].
func (c *editExprCommand) Run() error {
	ctx := c.ctxFunc()

	var content string
	if c.expr != nil {
		content = c.expr.String() + "\n"
	}

	// One temp file for the entire loop.
	f, err := os.CreateTemp(os.TempDir(), "nixp-repl-*.nix")
	if err != nil {
		return err
	}

	tmpPath := f.Name()

	defer os.Remove(tmpPath)

	if err := f.Chmod(0o600); err != nil {
		f.Close()

		return err
	}

	f.Close()

	for {
		if err := os.WriteFile(tmpPath, []byte(content), 0o600); err != nil {
			return err
		}

		r, err := runEditor(ctx, c.stdin, c.stdout, c.stderr, tmpPath)
		if err != nil {
			return err
		}

		// An emptied file means the user cancelled the edit.
		br := bufio.NewReader(r)
		if _, err := br.Peek(1); err != nil {
			return nil
		}

		data, err := io.ReadAll(br)
		if err != nil {
			return err
		}

		newExpr, parseErr := lang.ParseString(
			ctx, tmpPath, string(data),
			lang.WithLogger(c.logger),
		)
		c.logger.TraceContext(ctx, "editor parse attempt",
			slog.Int("content_length", len(data)),
			slog.Bool("success", parseErr == nil),
		)

		if parseErr == nil {
			c.newExpr = newExpr

			return nil
		}

		fmt.Fprintf(c.stderr, "\n%s\n", parseErr)
		fmt.Fprintf(c.stdout, "Re-edit? [Y/n] ")

		scanner := bufio.NewScanner(c.stdin)
		if !scanner.Scan() {
			return ErrEditDeclined
		}

		response := strings.TrimSpace(strings.ToLower(scanner.Text()))
		if response == "n" || response == "no" {
			return ErrEditDeclined
		}

		// Re-read the (failed) content for the next editor iteration.
		data, readErr := os.ReadFile(tmpPath)
		if readErr != nil {
			return readErr
		}

		content = string(data)
	}
}

// runEditor launches the user's editor on the given file path and returns
// a reader over the edited file content.
func runEditor(
	ctx context.Context,
	stdin io.Reader,
	stdout io.Writer,
	stderr io.Writer,
	path string,
) (io.Reader, error) {
	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = defaultEditor
	}

	cmd := exec.CommandContext(ctx, editor, path)
	cmd.Stdin = stdin
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	if err := cmd.Run(); err != nil {
		return nil, err
	}

	return os.Open(path)
}
