package tui

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mwantia/sizefs"
	"github.com/mwantia/sizefs/log"
)

func newModel(t *testing.T) *Model {
	t.Helper()

	fs, err := sizefs.New(
		sizefs.WithLogger(log.Discard()),
		sizefs.WithListedSizes("10", "1KB", "1GB"),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = fs.Shutdown(context.Background())
	})

	m := NewModel(NewFSAdapter(t.Context(), fs), log.Discard())
	m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	run(t, m, m.loadDirectory())
	return m
}

// run executes cmd and feeds its message back into the model, following
// any commands the update returns.
func run(t *testing.T, m *Model, cmd tea.Cmd) {
	t.Helper()

	for cmd != nil {
		msg := cmd()
		if _, ok := msg.(tea.BatchMsg); ok {
			return
		}
		_, cmd = m.Update(msg)
	}
}

func press(t *testing.T, m *Model, keys ...string) {
	t.Helper()

	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEscape}
		case "backspace":
			msg = tea.KeyMsg{Type: tea.KeyBackspace}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}

		_, cmd := m.Update(msg)
		run(t, m, cmd)
	}
}

func typeText(t *testing.T, m *Model, text string) {
	t.Helper()

	m.textInput.SetValue(text)
}

func TestModel_Root(t *testing.T) {
	m := newModel(t)

	assert.Equal(t, "/", m.Path())
	require.Len(t, m.entries, 14)
	assert.Equal(t, "zeros", m.entries[0].Name)
	assert.Contains(t, m.View(), "SizeFS - /")
}

func TestModel_Navigate(t *testing.T) {
	m := newModel(t)

	press(t, m, "j", "enter")
	assert.Equal(t, "/ones", m.Path())
	require.Len(t, m.entries, 3)

	press(t, m, "j")
	entry := m.currentEntry()
	require.NotNil(t, entry)
	assert.Equal(t, "1KB", entry.Name)
	assert.Equal(t, "1.0 KiB", entry.DisplaySize())
	assert.True(t, strings.HasPrefix(m.previewContent, "1111"))

	press(t, m, "h")
	assert.Equal(t, "/", m.Path())
	assert.Equal(t, "ones", m.currentEntry().Name)
}

func TestModel_RandomPreviewIsHex(t *testing.T) {
	m := newModel(t)

	press(t, m, "j", "j", "enter")
	assert.Equal(t, "/random", m.Path())

	assert.Contains(t, m.previewContent, "00000000  ")
	assert.Contains(t, m.View(), "application/octet-stream")
}

func TestModel_Goto(t *testing.T) {
	m := newModel(t)

	press(t, m, "o")
	assert.Equal(t, ModeInput, m.mode)
	typeText(t, m, "/alpha_num/deep/4GiB+1")
	press(t, m, "enter")

	assert.Equal(t, ModeNormal, m.mode)
	assert.Equal(t, "/alpha_num/deep", m.Path())
	require.Len(t, m.entries, 4)

	entry := m.currentEntry()
	require.NotNil(t, entry)
	assert.Equal(t, "4GiB+1", entry.Name)
	assert.Equal(t, uint64(4<<30+1), entry.Length)

	press(t, m, "y")
	assert.Equal(t, "/alpha_num/deep/4GiB+1", m.Clipboard())

	press(t, m, "o")
	typeText(t, m, "/zeros/1XB")
	press(t, m, "enter")
	assert.Contains(t, m.errorMsg, "Failed to open")
}

func TestModel_Command(t *testing.T) {
	m := newModel(t)

	press(t, m, "j", "enter", ":")
	assert.Equal(t, ModeCommand, m.mode)
	typeText(t, m, "cat -n 4 ./10")
	press(t, m, "enter")

	assert.Equal(t, "1111", m.commandOut)
	assert.Empty(t, m.errorMsg)

	press(t, m, ":")
	typeText(t, m, "ls")
	press(t, m, "enter")
	assert.Equal(t, "10\n1KB\n1GB\n", m.commandOut)

	press(t, m, ":")
	typeText(t, m, "nope")
	press(t, m, "enter")
	assert.Contains(t, m.errorMsg, "unknown command")

	press(t, m, ":", "esc")
	assert.Equal(t, ModeNormal, m.mode)
}

func TestModel_Help(t *testing.T) {
	m := newModel(t)

	press(t, m, "?")
	assert.Equal(t, ModeHelp, m.mode)
	assert.Contains(t, m.View(), "SizeFS - Help")

	press(t, m, "?")
	assert.Equal(t, ModeNormal, m.mode)
}

func TestParseCommandLine(t *testing.T) {
	assert.Equal(t, []string{"stat", "/a b/1KB", "--json"}, parseCommandLine(`stat "/a b/1KB"  --json`))
	assert.Empty(t, parseCommandLine("   "))
}
