package repl

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"iter"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/fghibellini/language-nix/lang"
	"github.com/fghibellini/language-nix/log"
)

// editExprMsg is sent when editing completes with a parseable expression.
type editExprMsg struct{ expr *lang.Expr }

// editCancelledMsg is sent when the user cleared the editor content.
type editCancelledMsg struct{}

// editDeclinedMsg is sent when the user declined to re-edit after a parse
// error.
type editDeclinedMsg struct{}

// editErrorMsg is sent when the edit process encounters a non-parse error.
type editErrorMsg struct{ err error }

const (
	exprPrompt = "nix> "
	ctrlPrompt = "  :"
)

func helpMessage() string {
	return `
: Commands (press Esc to toggle mode):

  help     Print this cruft
  tree     Print the last expression as a JSON syntax tree
  list     List identifiers seen this session
  edit     Edit the last expression in external $EDITOR
  clear    Clear screen
  quit     Exit REPL

Usage:
  Type a Nix expression to parse it and print its canonical form
  Completions appear automatically as you type
  Press Tab / Shift-Tab to cycle through candidates
  Press Esc to toggle between expression and command modes
  Use Up/Down arrows for history navigation (mode switches automatically)
  Press Ctrl+C on empty line or Ctrl+D to exit
`
}

// inputMode represents the current input mode.
type inputMode int

const (
	modeExpr inputMode = iota
	modeCtrl
)

// Styles.
var (
	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("6")).
			Bold(true)
	ctrlPromptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("5")).
			Bold(true)
	inputStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
	resultStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	errorStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	hintStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	suggestionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	matchedStyle    = lipgloss.NewStyle().
			Foreground(lipgloss.Color("4")).
			Bold(true)
	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("4"))
	selectedMatchStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("0")).
				Background(lipgloss.Color("4")).
				Bold(true)
)

// formatEcho formats the submitted input line with prompt and input styled.
func formatEcho(prompt lipgloss.Style, label, input string) string {
	return prompt.Render(label) + inputStyle.Render(input)
}

// model is the Bubble Tea model for the REPL.
type model struct {
	ctxFunc      func() context.Context
	input        textinput.Model
	last         *lang.Expr          // most recently parsed expression
	idents       map[string]struct{} // identifiers seen this session
	logger       log.Logger
	history      *History
	historyIdx   int
	matches      fuzzy.Matches // current fuzzy match results
	candidates   []string      // backing candidate list
	wordStart    int           // byte offset of current word start
	wordEnd      int           // byte offset of current word end
	suggIdx      int           // selected candidate index
	tabActive    bool          // whether user is tab-cycling
	preTabText   string        // input text before tab-cycling began
	preTabCursor int           // cursor position before tab-cycling began
	width        int           // terminal width for ellipsization
	quitting     bool
	mode         inputMode
	exprText     string
	exprCursor   int
	ctrlText     string
	ctrlCursor   int
}

// Run starts the REPL. Any preloaded sources are parsed up front to seed
// the completion vocabulary and the last-expression slot.
func Run(
	ctx context.Context,
	sources iter.Seq2[string, io.Reader],
	cacheDir string,
	logger log.Logger,
) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	logger.TraceContext(ctx, "repl start",
		slog.String("cache_dir", cacheDir),
		slog.Bool("has_source", sources != nil),
	)

	idents := make(map[string]struct{})

	var last *lang.Expr

	if sources != nil {
		for name, r := range sources {
			expr, err := lang.ParseReader(
				ctx, name, r, lang.WithLogger(logger),
			)
			if err != nil {
				fmt.Printf("Warning: could not preload %s: %v\n", name, err)

				continue
			}

			collectIdents(expr, idents)
			last = expr
		}

		logger.TraceContext(ctx, "repl sources preloaded",
			slog.Int("ident_count", len(idents)),
		)
	}

	history := NewHistory(filepath.Join(cacheDir, baseHistory))
	if err := history.Load(); err != nil {
		fmt.Printf("Warning: could not load history: %v\n", err)
	}

	logger.TraceContext(ctx, "repl history loaded",
		slog.Int("entry_count", history.Len()),
	)

	m := newModel(ctx, last, idents, history, logger)

	p := tea.NewProgram(m, tea.WithContext(ctx))
	_, err = p.Run()

	return err
}

const defaultWidth = 80

func newModel(
	ctx context.Context,
	last *lang.Expr,
	idents map[string]struct{},
	history *History,
	logger log.Logger,
) model {
	ti := textinput.New()
	ti.Prompt = promptStyle.Render(exprPrompt)
	ti.Focus()
	ti.CharLimit = 1024
	ti.Width = defaultWidth

	return model{
		ctxFunc:    func() context.Context { return ctx },
		input:      ti,
		last:       last,
		idents:     idents,
		logger:     logger,
		history:    history,
		historyIdx: history.Len(),
		width:      defaultWidth,
		mode:       modeExpr,
	}
}

func (m model) Init() tea.Cmd {
	return textinput.Blink
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.input.Width = msg.Width - len(exprPrompt) - 2

		return m, nil

	case editExprMsg:
		m.last = msg.expr
		collectIdents(m.last, m.idents)

		return m, tea.Println(
			resultStyle.Render(msg.expr.String()),
		)

	case editCancelledMsg:
		return m, tea.Println(hintStyle.Render("edit cancelled."))

	case editDeclinedMsg:
		m.quitting = true

		return m, tea.Quit

	case editErrorMsg:
		return m, tea.Println(
			errorStyle.Render("error: " + msg.err.Error()),
		)
	}

	var cmd tea.Cmd

	m.input, cmd = m.input.Update(msg)

	return m, cmd
}

func (m model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	// Input line.
	b.WriteString(m.input.View())
	b.WriteString("\n")

	input := m.input.Value()
	viewingHistory := m.historyIdx < m.history.Len()

	switch {
	case viewingHistory:
		// Show history position indicator.
		pos := m.historyIdx + 1
		hint := fmt.Sprintf("%s/%d",
			lipgloss.NewStyle().Bold(true).Render(strconv.Itoa(pos)),
			m.history.Len())
		b.WriteString(hintStyle.Render(hint))
		b.WriteString("\n")

	case strings.TrimSpace(input) == "":
		var hint string
		if m.mode == modeExpr {
			hint = "Type a Nix expression or press Esc for commands"
		} else {
			hint = "Type: help, tree, list, edit, clear, quit (press Esc to return)"
		}

		b.WriteString(hintStyle.Render(hint))
		b.WriteString("\n")

	case len(m.matches) > 0:
		bar := renderCandidateBar(m.matches, m.suggIdx, m.tabActive, m.width)
		b.WriteString(bar)
		b.WriteString("\n")

	default:
		// Non-empty input but no matches: blank line.
		b.WriteString("\n")
	}

	return b.String()
}

func (m model) handleKey(msg tea.KeyMsg) (model, tea.Cmd) {
	m.logger.TraceContext(m.ctxFunc(), "repl keypress",
		slog.String("key", msg.String()),
	)

	switch msg.Type {
	case tea.KeyCtrlC:
		if m.input.Value() == "" {
			m.quitting = true

			return m, tea.Quit
		}

		m.input.SetValue("")
		m.tabActive = false
		m.historyIdx = m.history.Len()
		refreshMatches(&m, false)

		return m, nil

	case tea.KeyCtrlD:
		if m.input.Value() == "" {
			m.quitting = true

			return m, tea.Quit
		}

		return m, nil

	case tea.KeyEnter:
		if !m.tabActive || len(m.matches) == 0 {
			return m.executeInput()
		}
		// Lock in the current tab candidate without executing.
		m.tabActive = false
		refreshMatches(&m, true)

		return m, nil

	case tea.KeyTab:
		return m.handleTab(false)

	case tea.KeyShiftTab:
		return m.handleTab(true)

	case tea.KeyUp:
		return m.historyPrev()

	case tea.KeyDown:
		return m.historyNext()

	case tea.KeyEsc:
		if m.tabActive {
			m.tabActive = false
			m.input.SetValue(m.preTabText)
			m.input.SetCursor(m.preTabCursor)
			refreshMatches(&m, false)

			return m, nil
		}

		return m.toggleMode()

	case tea.KeyRunes:
		// Space is a breaking key while tab-cycling.
		if m.tabActive && msg.String() == " " {
			m.tabActive = false
		}

		var cmd tea.Cmd

		m.historyIdx = m.history.Len()
		m.input, cmd = m.input.Update(msg)
		refreshMatches(&m, true)

		return m, cmd
	}

	// For any other key (backspace, delete, arrows, etc.), update input
	// and recompute matches without auto-confirm.
	var cmd tea.Cmd

	m.tabActive = false
	m.historyIdx = m.history.Len()
	m.input, cmd = m.input.Update(msg)
	refreshMatches(&m, false)

	return m, cmd
}

// handleTab cycles through completion candidates, backward when reverse is
// set.
func (m model) handleTab(reverse bool) (model, tea.Cmd) {
	if len(m.matches) == 0 {
		return m, nil
	}

	// Single candidate: complete and confirm immediately.
	if len(m.matches) == 1 {
		replaceCurrentWord(&m, m.matches[0].Str)
		m.tabActive = false
		m.suggIdx = -1
		m.matches = nil

		return m, nil
	}

	if m.tabActive {
		if reverse {
			m.suggIdx--
			if m.suggIdx < 0 {
				m.suggIdx = len(m.matches) - 1
			}
		} else {
			m.suggIdx++
			if m.suggIdx >= len(m.matches) {
				m.suggIdx = 0
			}
		}
	} else {
		m.tabActive = true
		m.preTabText = m.input.Value()
		m.preTabCursor = m.input.Position()

		if reverse {
			m.suggIdx = len(m.matches) - 1
		} else {
			m.suggIdx = 0
		}
	}

	replaceCurrentWord(&m, m.matches[m.suggIdx].Str)

	return m, nil
}

// replaceCurrentWord replaces the current word boundaries in the input
// with the given replacement text and repositions the cursor.
func replaceCurrentWord(m *model, replacement string) {
	input := m.input.Value()
	newInput := input[:m.wordStart] + replacement + input[m.wordEnd:]
	newCursor := m.wordStart + len(replacement)

	m.input.SetValue(newInput)
	m.input.SetCursor(newCursor)

	m.wordEnd = newCursor
}

// refreshMatches recomputes fuzzy matches for the current input state.
// When autoConfirm is true it also auto-confirms the completion when
// exactly one candidate remains and the typed word already equals that
// candidate. autoConfirm should be false for deletions and cursor
// navigation so the user can freely edit without unexpected completions.
func refreshMatches(m *model, autoConfirm bool) {
	m.matches, m.candidates, m.wordStart, m.wordEnd = m.computeMatches()

	if !m.tabActive {
		m.suggIdx = -1
	}

	if !autoConfirm || len(m.matches) != 1 {
		return
	}

	candidate := m.matches[0].Str
	word := m.input.Value()[m.wordStart:m.wordEnd]

	if word == candidate {
		replaceCurrentWord(m, candidate)
		m.tabActive = false
		m.suggIdx = -1
		m.matches = nil
	}
}

func (m model) executeInput() (model, tea.Cmd) {
	input := strings.TrimSpace(m.input.Value())
	if input == "" {
		return m, nil
	}

	// Reset both mode inputs after submission.
	m.exprText = ""
	m.exprCursor = 0
	m.ctrlText = ""
	m.ctrlCursor = 0
	m.input.SetValue("")

	_, _ = m.history.Add(input, m.mode)
	m.historyIdx = m.history.Len()

	if m.mode == modeCtrl {
		m.logger.TraceContext(m.ctxFunc(), "repl command",
			slog.String("input", input),
		)

		return m.executeCommand(input)
	}

	m.logger.TraceContext(m.ctxFunc(), "repl parse",
		slog.String("input", input),
	)

	echoCmd := tea.Println(formatEcho(promptStyle, exprPrompt, input))

	expr, err := lang.ParseString(
		m.ctxFunc(), "repl", input,
		lang.WithLogger(m.logger),
	)
	if err != nil {
		m.logger.TraceContext(m.ctxFunc(), "repl parse result",
			slog.String("result", "error"),
			slog.String("error", err.Error()),
		)

		return m, tea.Sequence(
			echoCmd,
			tea.Println(errorStyle.Render(err.Error())),
		)
	}

	m.last = expr
	collectIdents(expr, m.idents)

	m.logger.TraceContext(m.ctxFunc(), "repl parse result",
		slog.String("result", expr.Kind.String()),
	)

	return m, tea.Sequence(
		echoCmd,
		tea.Println(resultStyle.Render(expr.String())),
	)
}

func (m model) executeCommand(input string) (model, tea.Cmd) {
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return m, nil
	}

	echoCmd := tea.Println(formatEcho(ctrlPromptStyle, ctrlPrompt, input))

	switch parts[0] {
	case "q", "quit", "exit":
		m.quitting = true

		return m, tea.Sequence(echoCmd, tea.Quit)

	case "h", "help":
		return m, tea.Sequence(echoCmd, tea.Println(helpMessage()))

	case "t", "tree":
		return m, tea.Sequence(echoCmd, tea.Println(m.treeView()))

	case "l", "list":
		return m, tea.Sequence(echoCmd, tea.Println(m.listIdents()))

	case "c", "clear":
		return m, tea.ClearScreen

	case "e", "edit":
		var editCmd tea.Cmd

		m, editCmd = m.handleEdit()

		return m, tea.Sequence(echoCmd, editCmd)

	default:
		return m, tea.Println(
			errorStyle.Render("Unknown command: " + parts[0] + " (try 'help')"),
		)
	}
}

func (m model) handleEdit() (model, tea.Cmd) {
	cmd := &editExprCommand{
		expr:    m.last,
		ctxFunc: m.ctxFunc,
		logger:  m.logger,
	}

	return m, tea.Exec(cmd, func(err error) tea.Msg {
		if errors.Is(err, ErrEditDeclined) {
			return editDeclinedMsg{}
		}

		if err != nil {
			return editErrorMsg{err: err}
		}

		if cmd.newExpr == nil {
			return editCancelledMsg{}
		}

		return editExprMsg{expr: cmd.newExpr}
	})
}

// treeView renders the last parsed expression as an indented JSON tree.
func (m model) treeView() string {
	if m.last == nil {
		return hintStyle.Render("nothing parsed yet")
	}

	var buf bytes.Buffer
	if err := m.last.FormatJSON(&buf, 2); err != nil {
		return errorStyle.Render("error: " + err.Error())
	}

	return strings.TrimRight(buf.String(), "\n")
}

// listIdents renders the sorted session identifier vocabulary.
func (m model) listIdents() string {
	if len(m.idents) == 0 {
		return hintStyle.Render("no identifiers seen yet")
	}

	var b strings.Builder

	for _, name := range candidateList(m.idents) {
		if lang.DefaultSyntax().IsReserved(name) {
			continue
		}

		b.WriteString("  ")
		b.WriteString(name)
		b.WriteString("\n")
	}

	return strings.TrimRight(b.String(), "\n")
}

func (m model) historyPrev() (model, tea.Cmd) {
	if m.historyIdx > 0 {
		m.historyIdx--

		if line, mode, err := m.history.Entry(m.historyIdx); err == nil {
			if m.mode != mode {
				m, _ = m.switchToMode(mode)
			}

			m.input.SetValue(line)
			m.input.SetCursor(len(line))
			refreshMatches(&m, false)
		}
	}

	return m, nil
}

func (m model) historyNext() (model, tea.Cmd) {
	if m.historyIdx < m.history.Len()-1 {
		m.historyIdx++

		if line, mode, err := m.history.Entry(m.historyIdx); err == nil {
			if m.mode != mode {
				m, _ = m.switchToMode(mode)
			}

			m.input.SetValue(line)
			m.input.SetCursor(len(line))
			refreshMatches(&m, false)
		}
	} else {
		m.historyIdx = m.history.Len()
		m.input.SetValue("")
		refreshMatches(&m, false)
	}

	return m, nil
}

// toggleMode switches between expression and control modes, preserving
// input state.
func (m model) toggleMode() (model, tea.Cmd) {
	if m.mode == modeExpr {
		return m.switchToMode(modeCtrl)
	}

	return m.switchToMode(modeExpr)
}

// switchToMode switches to the specified mode, preserving input state.
func (m model) switchToMode(mode inputMode) (model, tea.Cmd) {
	// Save current mode's input.
	if m.mode == modeExpr {
		m.exprText = m.input.Value()
		m.exprCursor = m.input.Position()
	} else {
		m.ctrlText = m.input.Value()
		m.ctrlCursor = m.input.Position()
	}

	m.mode = mode
	if mode == modeExpr {
		m.input.Prompt = promptStyle.Render(exprPrompt)
		m.input.SetValue(m.exprText)
		m.input.SetCursor(m.exprCursor)
	} else {
		m.input.Prompt = ctrlPromptStyle.Render(ctrlPrompt)
		m.input.SetValue(m.ctrlText)
		m.input.SetCursor(m.ctrlCursor)
	}

	refreshMatches(&m, false)

	return m, nil
}
