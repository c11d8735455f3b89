package repl

import (
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ardnew/ftl/lang"
)

func newTestModel(t *testing.T, vars map[string]any) model {
	t.Helper()

	e, err := lang.New()
	if err != nil {
		t.Fatalf("lang.New() error: %v", err)
	}

	h := NewHistory(filepath.Join(t.TempDir(), baseHistory))

	return newModel(t.Context(), e, vars, h, e.Config().Logger())
}

func typeText(m model, s string) model {
	for _, r := range s {
		m, _ = m.handleKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}

	return m
}

func TestEvaluate(t *testing.T) {
	m := newTestModel(t, map[string]any{"user": map[string]any{"name": "ada"}})

	tests := []struct {
		input string
		want  string
	}{
		{"user.name?upper_case", "ADA"},
		{`"x"?left_pad(3, "-")`, "--x"},
		{"missing", "error:"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := m.evaluate(tt.input); !strings.Contains(got, tt.want) {
				t.Errorf("evaluate(%q) = %q, want it to contain %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestBuiltinCompletion(t *testing.T) {
	m := typeText(newTestModel(t, nil), "name?upper_c")

	if len(m.matches) == 0 || m.matches[0].Str != "upper_case" {
		t.Fatalf("matches = %v, want upper_case first", m.matches)
	}

	m, _ = m.handleKey(tea.KeyMsg{Type: tea.KeyTab})

	if got := m.input.Value(); got != "name?upper_case" {
		t.Errorf("input after Tab = %q, want %q", got, "name?upper_case")
	}
}

func TestMemberCompletion(t *testing.T) {
	m := typeText(newTestModel(t, map[string]any{
		"user": map[string]any{"name": "ada", "email": "a@b"},
	}), "user.")

	var got []string
	for _, match := range m.matches {
		got = append(got, match.Str)
	}

	if strings.Join(got, ",") != "email,name" {
		t.Errorf("matches after dot = %v, want [email name]", got)
	}
}

func TestModeToggle(t *testing.T) {
	m := typeText(newTestModel(t, nil), "a+b")

	m, _ = m.handleKey(tea.KeyMsg{Type: tea.KeyEsc})
	if m.mode != modeCtrl || m.input.Value() != "" {
		t.Fatalf("after Esc: mode %d input %q, want ctrl mode and empty input", m.mode, m.input.Value())
	}

	m = typeText(m, "vars")
	m, _ = m.handleKey(tea.KeyMsg{Type: tea.KeyEsc})

	if m.mode != modeEval || m.input.Value() != "a+b" {
		t.Errorf("after second Esc: mode %d input %q, want eval mode and %q", m.mode, m.input.Value(), "a+b")
	}
}

func TestHelpCommand(t *testing.T) {
	m, cmd := newTestModel(t, nil).executeCommand(nil, "help")
	if cmd == nil || m.quitting {
		t.Fatalf("help: cmd %v quitting %v, want a print command", cmd, m.quitting)
	}

	// tea.Println terminates the line itself.
	if strings.HasSuffix(helpMessage, "\n") {
		t.Errorf("helpMessage ends with a newline")
	}
}

func TestHistoryNavigation(t *testing.T) {
	m := newTestModel(t, nil)

	for _, e := range []HistoryEntry{{"1+1", modeEval}, {"help", modeCtrl}, {"2+2", modeEval}} {
		if _, err := m.history.WriteWithMode(e.Line, e.Mode); err != nil {
			t.Fatal(err)
		}
	}

	m.historyIdx = m.history.Len()

	m, _ = m.handleKey(tea.KeyMsg{Type: tea.KeyUp})
	if got := m.input.Value(); got != "2+2" {
		t.Errorf("Up = %q, want %q", got, "2+2")
	}

	m, _ = m.handleKey(tea.KeyMsg{Type: tea.KeyUp})
	if got := m.input.Value(); got != "help" || m.mode != modeCtrl {
		t.Errorf("Up = %q (mode %d), want %q in ctrl mode", got, m.mode, "help")
	}

	m, _ = m.handleKey(tea.KeyMsg{Type: tea.KeyShiftUp})
	if got := m.historyIdx; got != 1 {
		t.Errorf("ShiftUp with no older ctrl entry moved to %d, want 1", got)
	}

	m, _ = m.handleKey(tea.KeyMsg{Type: tea.KeyDown})
	m, _ = m.handleKey(tea.KeyMsg{Type: tea.KeyDown})

	if got := m.input.Value(); got != "" || m.historyIdx != m.history.Len() {
		t.Errorf("Down past newest = %q at %d, want empty at %d", got, m.historyIdx, m.history.Len())
	}
}

func TestPreview(t *testing.T) {
	tests := []struct {
		v    any
		want string
	}{
		{map[string]any{"a": 1}, "{ 1 keys }"},
		{[]any{1, 2}, "[ 2 items ]"},
		{"hi", `"hi"`},
		{nil, "null"},
		{uint64(3), "3"},
	}

	for _, tt := range tests {
		if got := preview(tt.v); got != tt.want {
			t.Errorf("preview(%v) = %q, want %q", tt.v, got, tt.want)
		}
	}
}
