package repl

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ardnew/ftl/lang"
	"github.com/ardnew/ftl/log"
)

// editDataMsg is sent when the data model was edited and loaded.
type editDataMsg struct{ vars map[string]any }

// editCancelledMsg is sent when the user cleared the editor content.
type editCancelledMsg struct{}

// editDeclinedMsg is sent when the user declined to re-edit after a load
// error.
type editDeclinedMsg struct{}

// editErrorMsg is sent when the edit process fails.
type editErrorMsg struct{ err error }

const (
	evalPrompt = "➜ "
	ctrlPrompt = " :"
)

const helpMessage = `
: Commands (press Esc to toggle mode):

  help      Print this help
  vars      List top-level variables of the data model
  builtins  List builtin names
  edit      Edit the data model as YAML in $EDITOR
  clear     Clear screen
  quit      Exit REPL

Usage:
  Type an expression to evaluate it, e.g. user.name?upper_case
  Completions appear as you type; after '?' they are builtin names
  Press Tab / Shift-Tab to cycle through candidates
  Press Space to accept the current candidate
  Press Esc to toggle between eval and command modes
  Use Up/Down for history (mode switches automatically)
  Use Shift+Up/Shift+Down for history within the current mode only
  Use Alt+Up/Alt+Down to browse command history
  Press Ctrl+C on empty line or Ctrl+D to exit`

// inputMode represents the current input mode.
type inputMode int

const (
	modeEval inputMode = iota
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
	selectedStyle   = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("4"))
)

func (m inputMode) style() (string, lipgloss.Style) {
	if m == modeCtrl {
		return ctrlPrompt, ctrlPromptStyle
	}

	return evalPrompt, promptStyle
}

// formatCommand formats an echoed input line with its mode's prompt.
func formatCommand(mode inputMode, input string) string {
	prompt, style := mode.style()

	return style.Render(prompt) + inputStyle.Render(input)
}

// model is the Bubble Tea model for the REPL.
type model struct {
	ctxFunc    func() context.Context
	input      textinput.Model
	engine     *lang.Engine
	vars       map[string]any
	builtins   []string
	logger     log.Logger
	history    *History
	historyIdx int
	matches    fuzzy.Matches // current fuzzy match results
	candidates []string      // backing candidate list
	wordStart  int           // byte offset of current word start
	wordEnd    int           // byte offset of current word end
	suggIdx    int           // selected candidate index
	tabActive  bool          // whether user is tab-cycling
	preTab     savedInput    // input before tab-cycling began
	altNav     bool          // whether user is in Alt+Up/Down navigation
	altOrig    savedInput    // input before Alt navigation
	altMode    inputMode     // mode before Alt navigation
	width      int           // terminal width for ellipsization
	quitting   bool
	mode       inputMode
	saved      [2]savedInput // per-mode input while the other mode is active
}

type savedInput struct {
	text   string
	cursor int
}

// Run starts the REPL over the data model vars. History is kept in
// cacheDir.
func Run(
	ctx context.Context,
	engine *lang.Engine,
	vars map[string]any,
	cacheDir string,
	logger log.Logger,
) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	logger.TraceContext(ctx, "repl start",
		slog.String("cache_dir", cacheDir),
		slog.Int("vars", len(vars)),
	)

	history := NewHistory(filepath.Join(cacheDir, baseHistory))
	if err := history.Load(); err != nil {
		logger.WarnContext(ctx, "could not load history", slog.Any("error", err))
	}

	logger.TraceContext(ctx, "repl history loaded",
		slog.Int("entry_count", history.Len()),
	)

	p := tea.NewProgram(newModel(ctx, engine, vars, history, logger), tea.WithContext(ctx))
	_, err = p.Run()

	return err
}

const defaultWidth = 80

func newModel(
	ctx context.Context,
	engine *lang.Engine,
	vars map[string]any,
	history *History,
	logger log.Logger,
) model {
	ti := textinput.New()
	ti.Prompt = promptStyle.Render(evalPrompt)
	ti.Focus()
	ti.CharLimit = 1024
	ti.Width = defaultWidth

	if vars == nil {
		vars = map[string]any{}
	}

	return model{
		ctxFunc:    func() context.Context { return ctx },
		input:      ti,
		engine:     engine,
		vars:       vars,
		builtins:   engine.Builtins(),
		logger:     logger,
		history:    history,
		historyIdx: history.Len(),
		width:      defaultWidth,
		mode:       modeEval,
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
		m.input.Width = msg.Width - len(evalPrompt) - 2

		return m, nil

	case editDataMsg:
		m.vars = msg.vars
		m.logger.TraceContext(m.ctxFunc(), "repl edit complete",
			slog.Int("vars", len(m.vars)),
		)

		return m, tea.Println(resultStyle.Render("✔ data model updated"))

	case editCancelledMsg:
		return m, tea.Println(hintStyle.Render("edit cancelled"))

	case editDeclinedMsg:
		m.quitting = true

		return m, tea.Quit

	case editErrorMsg:
		return m, tea.Println(errorStyle.Render("error: " + msg.err.Error()))
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

	b.WriteString(m.input.View())
	b.WriteString("\n")
	b.WriteString(m.hintLine())
	b.WriteString("\n")

	return b.String()
}

// hintLine returns the line shown below the input: the history position, a
// usage hint, a call signature or the completion bar.
func (m model) hintLine() string {
	input := m.input.Value()

	if m.historyIdx < m.history.Len() {
		return hintStyle.Render(fmt.Sprintf("%s/%d",
			lipgloss.NewStyle().Bold(true).Render(strconv.Itoa(m.historyIdx+1)),
			m.history.Len()))
	}

	if strings.TrimSpace(input) == "" {
		if m.mode == modeEval {
			return hintStyle.Render("Type an expression or press Esc for commands")
		}

		return hintStyle.Render("Type: " + strings.Join(ctrlCommands, ", ") + " (press Esc to return)")
	}

	if m.mode == modeEval && len(m.matches) == 0 {
		call := detectFunctionCall(input, m.input.Position())
		if sig, ok := lookupSignature(call); call.inCall && ok {
			return renderSignatureHint(call, sig)
		}
	}

	return renderCandidateBar(m.matches, m.suggIdx, m.tabActive, m.width)
}

func (m model) handleKey(msg tea.KeyMsg) (model, tea.Cmd) {
	m.logger.TraceContext(m.ctxFunc(), "repl keypress",
		slog.String("key", msg.String()),
		slog.Int("type", int(msg.Type)),
	)

	switch msg.Type {
	case tea.KeyCtrlC:
		if m.input.Value() == "" {
			m.quitting = true

			return m, tea.Quit
		}

		m.input.SetValue("")
		m.tabActive = false
		m.altNav = false
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
		m.altNav = false

		if !m.tabActive || len(m.matches) == 0 {
			return m.executeInput()
		}

		// Lock in the current tab candidate without executing.
		m.tabActive = false
		refreshMatches(&m, true)

		return m, nil

	case tea.KeyTab:
		return m.cycle(1), nil

	case tea.KeyShiftTab:
		return m.cycle(-1), nil

	case tea.KeyUp:
		if msg.Alt {
			return m.historyCtrl(-1), nil
		}

		return m.historyStep(-1, false), nil

	case tea.KeyDown:
		if msg.Alt {
			return m.historyCtrl(1), nil
		}

		return m.historyStep(1, false), nil

	case tea.KeyShiftUp:
		return m.historyStep(-1, true), nil

	case tea.KeyShiftDown:
		return m.historyStep(1, true), nil

	case tea.KeyEsc:
		if m.tabActive {
			m.tabActive = false
			m.restore(m.preTab)
			refreshMatches(&m, false)

			return m, nil
		}

		m.altNav = false

		return m.switchToMode(1 - m.mode), nil

	case tea.KeyRunes:
		// Space accepts the candidate being cycled.
		if m.tabActive && msg.String() == " " {
			m.tabActive = false
		}

		var cmd tea.Cmd

		m.historyIdx = m.history.Len()
		m.input, cmd = m.input.Update(msg)
		refreshMatches(&m, true)

		return m, cmd
	}

	// Any other key (backspace, delete, arrows, etc.) edits or moves without
	// auto-confirming a completion.
	var cmd tea.Cmd

	m.tabActive = false
	m.altNav = false
	m.historyIdx = m.history.Len()
	m.input, cmd = m.input.Update(msg)
	refreshMatches(&m, false)

	return m, cmd
}

// cycle moves the tab selection by step. A single candidate is completed and
// confirmed immediately.
func (m model) cycle(step int) model {
	n := len(m.matches)
	if n == 0 {
		return m
	}

	if n == 1 {
		replaceCurrentWord(&m, m.matches[0].Str)
		m.tabActive = false
		m.suggIdx = -1
		m.matches = nil

		return m
	}

	if m.tabActive {
		m.suggIdx = (m.suggIdx + step + n) % n
	} else {
		m.tabActive = true
		m.preTab = m.current()
		m.suggIdx = 0

		if step < 0 {
			m.suggIdx = n - 1
		}
	}

	replaceCurrentWord(&m, m.matches[m.suggIdx].Str)

	return m
}

// replaceCurrentWord replaces the current word boundaries in the input with
// the given replacement text and repositions the cursor.
func replaceCurrentWord(m *model, replacement string) {
	input := m.input.Value()
	m.restore(savedInput{
		text:   input[:m.wordStart] + replacement + input[m.wordEnd:],
		cursor: m.wordStart + len(replacement),
	})
	m.wordEnd = m.wordStart + len(replacement)
}

// refreshMatches recomputes fuzzy matches for the current input state.
// When autoConfirm is true it also confirms the completion when exactly one
// candidate remains and the typed word already equals it. Deletions and
// cursor movement pass false.
func refreshMatches(m *model, autoConfirm bool) {
	m.matches, m.candidates, m.wordStart, m.wordEnd = m.computeMatches()

	if !m.tabActive {
		m.suggIdx = -1
	}

	if !autoConfirm || len(m.matches) != 1 {
		return
	}

	if m.input.Value()[m.wordStart:m.wordEnd] == m.matches[0].Str {
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

	mode := m.mode

	m.saved = [2]savedInput{}
	m.input.SetValue("")

	_, _ = m.history.WriteWithMode(input, mode)
	m.historyIdx = m.history.Len()

	m.logger.TraceContext(m.ctxFunc(), "repl input",
		slog.String("input", input),
		slog.Int("mode", int(mode)),
	)

	echo := tea.Println(formatCommand(mode, input))

	if mode == modeCtrl {
		return m.executeCommand(echo, input)
	}

	return m, tea.Sequence(echo, tea.Println(m.evaluate(input)))
}

// evaluate renders the result of the expression input, or its error.
func (m model) evaluate(input string) string {
	out, err := m.engine.Eval(m.ctxFunc(), input, m.vars)
	if err != nil {
		m.logger.TraceContext(m.ctxFunc(), "repl eval error", slog.Any("error", err))

		return errorStyle.Render("error: " + err.Error())
	}

	return resultStyle.Render(out)
}

func (m model) executeCommand(echo tea.Cmd, input string) (model, tea.Cmd) {
	parts := strings.Fields(input)

	m.logger.TraceContext(m.ctxFunc(), "repl exec command",
		slog.String("command", parts[0]),
		slog.Any("args", parts[1:]),
	)

	switch parts[0] {
	case "q", "quit", "exit":
		m.quitting = true

		return m, tea.Sequence(echo, tea.Quit)

	case "h", "help":
		return m, tea.Sequence(echo, tea.Println(helpMessage))

	case "v", "vars":
		return m, tea.Sequence(echo, tea.Println(m.listVars()))

	case "b", "builtins":
		return m, tea.Sequence(echo, tea.Println(m.listBuiltins(parts[1:])))

	case "c", "clear":
		return m, tea.ClearScreen

	case "e", "edit":
		return m, tea.Sequence(echo, m.edit())

	default:
		return m, tea.Sequence(echo, tea.Println(
			errorStyle.Render("Unknown command: "+parts[0]+" (try 'help')"),
		))
	}
}

func (m model) edit() tea.Cmd {
	cmd := &editDataCommand{
		vars:    m.vars,
		ctxFunc: m.ctxFunc,
		logger:  m.logger,
	}

	return tea.Exec(cmd, func(err error) tea.Msg {
		switch {
		case errors.Is(err, ErrEditDeclined):
			return editDeclinedMsg{}
		case err != nil:
			return editErrorMsg{err: err}
		case cmd.newVars == nil:
			return editCancelledMsg{}
		}

		return editDataMsg{vars: cmd.newVars}
	})
}

// historyStep moves through history by dir. With sameMode it skips entries
// of the other mode; otherwise it switches to the mode of the entry. Moving
// past the newest entry clears the input.
func (m model) historyStep(dir int, sameMode bool) model {
	for i := m.historyIdx + dir; i >= 0 && i < m.history.Len(); i += dir {
		entry, err := m.history.GetEntry(i)
		if err != nil || (sameMode && entry.Mode != m.mode) {
			continue
		}

		if entry.Mode != m.mode {
			m = m.switchToMode(entry.Mode)
		}

		m.historyIdx = i
		m.restore(savedInput{text: entry.Line, cursor: len(entry.Line)})
		refreshMatches(&m, false)

		return m
	}

	if dir > 0 && m.historyIdx < m.history.Len() {
		m.historyIdx = m.history.Len()
		m.input.SetValue("")
		refreshMatches(&m, false)
	}

	return m
}

// historyCtrl browses command history from any mode. Leaving either end of
// the command history restores the input and mode from before browsing.
func (m model) historyCtrl(dir int) model {
	if !m.altNav {
		m.altNav = true
		m.altMode = m.mode
		m.altOrig = m.current()
		m = m.switchToMode(modeCtrl)
	}

	prev := m.historyIdx
	if m = m.historyStep(dir, true); m.historyIdx != prev && m.historyIdx < m.history.Len() {
		return m
	}

	m.altNav = false
	m = m.switchToMode(m.altMode)
	m.restore(m.altOrig)
	m.historyIdx = m.history.Len()
	refreshMatches(&m, false)

	return m
}

func (m model) current() savedInput {
	return savedInput{text: m.input.Value(), cursor: m.input.Position()}
}

func (m *model) restore(s savedInput) {
	m.input.SetValue(s.text)
	m.input.SetCursor(s.cursor)
}

// switchToMode switches input modes, saving the input of the current mode
// and restoring that of the target mode.
func (m model) switchToMode(mode inputMode) model {
	m.saved[m.mode] = m.current()
	m.mode = mode

	prompt, style := mode.style()
	m.input.Prompt = style.Render(prompt)
	m.restore(m.saved[mode])
	refreshMatches(&m, false)

	return m
}

func (m model) listVars() string {
	var b strings.Builder

	for _, name := range slices.Sorted(maps.Keys(m.vars)) {
		fmt.Fprintf(&b, "  %s %s\n", name, hintStyle.Render(preview(m.vars[name])))
	}

	return b.String()
}

// listBuiltins lists the builtin names, fuzzy filtered by the first
// argument when given.
func (m model) listBuiltins(args []string) string {
	names := m.builtins
	if len(args) > 0 {
		names = nil
		for _, match := range fuzzy.Find(args[0], m.builtins) {
			names = append(names, match.Str)
		}
	}

	var b strings.Builder

	line := 0

	for _, name := range names {
		if line > 0 && line+len(name)+2 > m.width {
			b.WriteString("\n")

			line = 0
		}

		b.WriteString("  " + suggestionStyle.Render(name))
		line += len(name) + 2
	}

	return b.String()
}

// preview summarizes a data model value in one short line.
func preview(v any) string {
	switch x := v.(type) {
	case map[string]any:
		return fmt.Sprintf("{ %d keys }", len(x))
	case []any:
		return fmt.Sprintf("[ %d items ]", len(x))
	case string:
		if len(x) > 40 {
			x = x[:37] + "..."
		}

		return strconv.Quote(x)
	case nil:
		return "null"
	}

	return fmt.Sprint(v)
}
