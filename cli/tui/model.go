package tui

import (
	"fmt"
	"path"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mwantia/sizefs/log"
)

// Mode represents the current interaction mode
type Mode int

const (
	ModeNormal Mode = iota
	ModeCommand
	ModeInput
	ModeHelp
)

// InputType represents what kind of input we're collecting
type InputType int

const (
	InputGoto InputType = iota
	InputCommand
)

// Model represents the state of the browser
type Model struct {
	adapter *FSAdapter
	log     *log.Logger
	theme   *Theme
	keys    KeyMap
	help    help.Model

	// Navigation state
	currentPath string
	previousDir string // Name of directory we came from, to place the cursor on it
	entries     []*Entry
	cursor      int
	offset      int

	// View state
	width          int
	height         int
	showPreview    bool
	previewContent string
	previewError   error
	previewGen     int // Generation counter to drop stale previews

	// Mode state
	mode      Mode
	inputType InputType
	textInput textinput.Model

	// Status
	statusMsg  string
	errorMsg   string
	commandOut string
	clipboard  string
}

// NewModel creates a new browser model starting at the root
func NewModel(adapter *FSAdapter, logger *log.Logger) *Model {
	ti := textinput.New()
	ti.Placeholder = "Enter command..."
	ti.CharLimit = 256

	return &Model{
		adapter:     adapter,
		log:         logger.Named("tui"),
		theme:       DefaultTheme(),
		keys:        DefaultKeyMap(),
		help:        help.New(),
		currentPath: "/",
		showPreview: true,
		textInput:   ti,
	}
}

// Path returns the directory that is currently shown.
func (m *Model) Path() string {
	return m.currentPath
}

// Clipboard returns the last yanked path.
func (m *Model) Clipboard() string {
	return m.clipboard
}

func (m *Model) Init() tea.Cmd {
	return tea.Batch(
		m.loadDirectory(),
		textinput.Blink,
	)
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case directoryLoadedMsg:
		m.currentPath = msg.path
		m.entries = msg.entries
		m.errorMsg = ""
		m.cursor = 0
		m.offset = 0

		target := m.previousDir
		if msg.selected != "" {
			target = msg.selected
		}
		m.previousDir = ""

		if target != "" {
			for i, entry := range m.entries {
				if entry.Name == target {
					m.moveCursor(i)
					break
				}
			}
		}
		return m, m.updatePreview()

	case previewLoadedMsg:
		if msg.generation == m.previewGen {
			m.previewContent = msg.content
			m.previewError = msg.err
		}
		return m, nil

	case commandExecutedMsg:
		m.commandOut = msg.output
		m.errorMsg = msg.error
		m.statusMsg = "Command executed"
		return m, nil

	case errorMsg:
		m.errorMsg = string(msg)
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyPress(msg)
	}

	if m.mode == ModeCommand || m.mode == ModeInput {
		var cmd tea.Cmd
		m.textInput, cmd = m.textInput.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m *Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.mode {
	case ModeCommand, ModeInput:
		return m.handleInputMode(msg)
	case ModeHelp:
		return m.handleHelpMode(msg)
	case ModeNormal:
		return m.handleNormalMode(msg)
	}

	return m, nil
}

func (m *Model) handleNormalMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.mode = ModeHelp
		return m, nil

	case key.Matches(msg, m.keys.Up):
		m.moveCursor(-1)
		return m, m.updatePreview()

	case key.Matches(msg, m.keys.Down):
		m.moveCursor(1)
		return m, m.updatePreview()

	case key.Matches(msg, m.keys.PageUp):
		m.moveCursor(-10)
		return m, m.updatePreview()

	case key.Matches(msg, m.keys.PageDown):
		m.moveCursor(10)
		return m, m.updatePreview()

	case key.Matches(msg, m.keys.Top):
		m.cursor = 0
		m.offset = 0
		return m, m.updatePreview()

	case key.Matches(msg, m.keys.Bottom):
		m.moveCursor(len(m.entries))
		return m, m.updatePreview()

	case key.Matches(msg, m.keys.Enter):
		return m, m.enterDirectory()

	case key.Matches(msg, m.keys.Back):
		return m, m.goBack()

	case key.Matches(msg, m.keys.TogglePreview):
		m.showPreview = !m.showPreview
		return m, m.updatePreview()

	case key.Matches(msg, m.keys.Refresh):
		return m, m.loadPath(m.currentPath)

	case key.Matches(msg, m.keys.Goto):
		m.startInput(InputGoto, "Path, e.g. /random/4GiB+1")
		m.textInput.SetValue(m.currentPath)
		return m, nil

	case key.Matches(msg, m.keys.Copy):
		if entry := m.currentEntry(); entry != nil {
			m.clipboard = entry.Path
			m.statusMsg = fmt.Sprintf("Yanked: %s", entry.Path)
		}
		return m, nil

	case key.Matches(msg, m.keys.Command):
		m.startInput(InputCommand, "ls -l, stat <path>, size 4GiB-1 ...")
		return m, nil
	}

	return m, nil
}

func (m *Model) handleInputMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEscape:
		m.cancelInput()
		return m, nil

	case tea.KeyEnter:
		return m, m.submitInput()
	}

	var cmd tea.Cmd
	m.textInput, cmd = m.textInput.Update(msg)
	return m, cmd
}

func (m *Model) handleHelpMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Help), key.Matches(msg, m.keys.Quit):
		m.mode = ModeNormal
		return m, nil
	}
	return m, nil
}

func (m *Model) startInput(inputType InputType, prompt string) {
	m.mode = ModeInput
	m.inputType = inputType
	m.textInput.Placeholder = prompt
	m.textInput.SetValue("")
	m.textInput.Focus()
	m.errorMsg = ""
	m.statusMsg = ""

	if inputType == InputCommand {
		m.mode = ModeCommand
	}
}

func (m *Model) cancelInput() {
	m.mode = ModeNormal
	m.textInput.Blur()
	m.textInput.SetValue("")
}

func (m *Model) submitInput() tea.Cmd {
	value := strings.TrimSpace(m.textInput.Value())
	m.cancelInput()

	if value == "" {
		return nil
	}

	switch m.inputType {
	case InputGoto:
		return m.gotoPath(value)
	case InputCommand:
		return m.executeCommand(value)
	}

	return nil
}

// moveCursor moves the cursor by delta, handling bounds and scrolling
func (m *Model) moveCursor(delta int) {
	if len(m.entries) == 0 {
		return
	}

	m.cursor = min(max(m.cursor+delta, 0), len(m.entries)-1)

	visibleLines := m.getVisibleLines()
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+visibleLines {
		m.offset = m.cursor - visibleLines + 1
	}
}

// getVisibleLines returns how many entries can be displayed
func (m *Model) getVisibleLines() int {
	// Title, status bar, help and borders
	reserved := 8
	available := m.height - reserved
	if available < 5 {
		return 5
	}
	return available
}

func (m *Model) currentEntry() *Entry {
	if m.cursor >= 0 && m.cursor < len(m.entries) {
		return m.entries[m.cursor]
	}
	return nil
}

type directoryLoadedMsg struct {
	path     string
	entries  []*Entry
	selected string
}

type previewLoadedMsg struct {
	content    string
	err        error
	generation int
}

type commandExecutedMsg struct {
	output string
	error  string
}

type errorMsg string

func (m *Model) loadDirectory() tea.Cmd {
	return m.loadPath(m.currentPath)
}

func (m *Model) loadPath(p string) tea.Cmd {
	return func() tea.Msg {
		entries, err := m.adapter.ListDirectory(p)
		if err != nil {
			m.log.Debug("Failed to list '%s': %v", p, err)
			return errorMsg(fmt.Sprintf("Failed to load directory: %v", err))
		}
		return directoryLoadedMsg{path: p, entries: entries}
	}
}

func (m *Model) updatePreview() tea.Cmd {
	m.previewGen++
	generation := m.previewGen

	entry := m.currentEntry()
	if !m.showPreview || entry == nil || entry.IsDir {
		m.previewContent = ""
		m.previewError = nil
		return nil
	}

	entryPath := entry.Path
	previewWidth := max(m.width/2-6, 16)
	previewHeight := max(m.getVisibleLines()-6, 1)

	return func() tea.Msg {
		content, err := m.adapter.GeneratePreview(entryPath, previewWidth, previewHeight)
		if err != nil {
			m.log.Debug("Preview %d for '%s' failed: %v", generation, entryPath, err)
		}
		return previewLoadedMsg{content: content, err: err, generation: generation}
	}
}

func (m *Model) enterDirectory() tea.Cmd {
	entry := m.currentEntry()
	if entry == nil {
		return nil
	}

	if !entry.IsDir {
		m.statusMsg = fmt.Sprintf("%s: %d bytes of %s", entry.Name, entry.Length, entry.Pattern)
		return nil
	}

	return m.loadPath(entry.Path)
}

func (m *Model) goBack() tea.Cmd {
	if m.currentPath == "/" {
		return nil
	}

	m.previousDir = path.Base(m.currentPath)
	return m.loadPath(path.Dir(m.currentPath))
}

// gotoPath opens a directory, or the directory of a file with the file
// selected. Files that are not part of the listing are appended to it.
func (m *Model) gotoPath(target string) tea.Cmd {
	if !strings.HasPrefix(target, "/") {
		target = path.Join(m.currentPath, target)
	}

	return func() tea.Msg {
		entry, err := m.adapter.Stat(target)
		if err != nil {
			return errorMsg(fmt.Sprintf("Failed to open '%s': %v", target, err))
		}

		if entry.IsDir {
			return m.loadPath(entry.Path)()
		}

		dir := path.Dir(entry.Path)
		entries, err := m.adapter.ListDirectory(dir)
		if err != nil {
			return errorMsg(fmt.Sprintf("Failed to load directory: %v", err))
		}

		found := false
		for _, e := range entries {
			if e.Name == entry.Name {
				found = true
				break
			}
		}
		if !found {
			entries = append(entries, entry)
		}

		return directoryLoadedMsg{path: dir, entries: entries, selected: entry.Name}
	}
}

func (m *Model) executeCommand(cmdLine string) tea.Cmd {
	cwd := m.currentPath

	return func() tea.Msg {
		args := parseCommandLine(cmdLine)
		if len(args) == 0 {
			return commandExecutedMsg{}
		}

		// Relative paths are resolved against the current directory.
		for i := 1; i < len(args); i++ {
			if strings.HasPrefix(args[i], "./") {
				args[i] = path.Join(cwd, args[i])
			}
		}
		if args[0] == "ls" && !hasPositional(args[1:]) {
			args = append(args, cwd)
		}

		output, code, err := m.adapter.Execute(args...)

		var errStr string
		switch {
		case err != nil:
			errStr = err.Error()
		case code != 0:
			errStr = fmt.Sprintf("Command exited with code %d", code)
		}

		return commandExecutedMsg{output: output, error: errStr}
	}
}

func hasPositional(args []string) bool {
	for _, arg := range args {
		if !strings.HasPrefix(arg, "-") {
			return true
		}
	}
	return false
}

// parseCommandLine splits a command line into tokens, honoring quotes
func parseCommandLine(line string) []string {
	var args []string
	var current strings.Builder
	inQuote := false
	quoteChar := rune(0)

	for _, ch := range line {
		switch {
		case ch == '"' || ch == '\'':
			if inQuote {
				if ch == quoteChar {
					inQuote = false
					quoteChar = 0
				} else {
					current.WriteRune(ch)
				}
			} else {
				inQuote = true
				quoteChar = ch
			}

		case ch == ' ' && !inQuote:
			if current.Len() > 0 {
				args = append(args, current.String())
				current.Reset()
			}

		default:
			current.WriteRune(ch)
		}
	}

	if current.Len() > 0 {
		args = append(args, current.String())
	}

	return args
}
