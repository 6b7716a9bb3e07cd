package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// View renders the browser
func (m *Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	switch m.mode {
	case ModeHelp:
		return m.renderHelp()
	default:
		return m.renderMain()
	}
}

func (m *Model) renderMain() string {
	var sections []string

	sections = append(sections, m.renderTitle())
	sections = append(sections, m.renderContent())
	sections = append(sections, m.renderStatus())

	if m.mode == ModeCommand || m.mode == ModeInput {
		sections = append(sections, m.renderInput())
	}

	if m.commandOut != "" {
		sections = append(sections, m.renderCommandOutput())
	}

	sections = append(sections, m.renderHelpBar())

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m *Model) renderTitle() string {
	title := fmt.Sprintf("SizeFS - %s", m.currentPath)
	return m.theme.TitleStyle.Render(title)
}

// renderContent renders the entry list and, if enabled, the preview pane
func (m *Model) renderContent() string {
	if m.showPreview {
		fileList := m.renderFileList()
		preview := m.renderPreview()

		leftWidth := m.width / 2
		rightWidth := m.width - leftWidth - 4 // Account for borders

		fileListBox := m.theme.BorderStyle.
			Width(leftWidth).
			Height(m.getVisibleLines() + 2).
			Render(fileList)

		previewBox := m.theme.PreviewBorderStyle.
			Width(rightWidth).
			Height(m.getVisibleLines() + 2).
			Render(preview)

		return lipgloss.JoinHorizontal(lipgloss.Top, fileListBox, previewBox)
	}

	fileList := m.renderFileList()
	return m.theme.BorderStyle.
		Width(m.width - 4).
		Height(m.getVisibleLines() + 2).
		Render(fileList)
}

func (m *Model) renderFileList() string {
	if len(m.entries) == 0 {
		return m.theme.NormalItemStyle.Render("(empty directory)")
	}

	var lines []string
	end := min(m.offset+m.getVisibleLines(), len(m.entries))

	for i := m.offset; i < end; i++ {
		lines = append(lines, m.renderFileEntry(m.entries[i], i == m.cursor))
	}

	return strings.Join(lines, "\n")
}

// renderFileEntry renders "icon name size" for a single entry
func (m *Model) renderFileEntry(entry *Entry, selected bool) string {
	var style lipgloss.Style
	switch {
	case selected:
		style = m.theme.SelectedItemStyle
	case entry.IsDir:
		style = m.theme.DirectoryStyle
	default:
		style = m.theme.FileStyle
	}

	nameWidth := 40
	if m.showPreview {
		nameWidth = 24
	}

	name := entry.DisplayName()
	if len(name) > nameWidth {
		name = name[:nameWidth-3] + "..."
	} else {
		name += strings.Repeat(" ", nameWidth-len(name))
	}

	line := fmt.Sprintf("%s %s %10s", entry.Icon(), name, entry.DisplaySize())
	return style.Render(line)
}

func (m *Model) renderPreview() string {
	entry := m.currentEntry()
	if entry == nil {
		return m.theme.PreviewStyle.Render("No entry selected")
	}

	if entry.IsDir {
		info := fmt.Sprintf("Directory: %s\n\n", entry.Name)
		info += fmt.Sprintf("Path: %s\n", entry.Path)
		info += fmt.Sprintf("Pattern: %s\n", entry.Pattern)
		info += fmt.Sprintf("Permissions: %s\n", entry.DisplayMode())
		return m.theme.PreviewStyle.Render(info)
	}

	if m.previewError != nil {
		return m.theme.ErrorStyle.Render(fmt.Sprintf("Error: %v", m.previewError))
	}

	info := fmt.Sprintf("File: %s\n", entry.Name)
	info += fmt.Sprintf("Size: %d bytes (%s)\n", entry.Length, entry.Spec)
	info += fmt.Sprintf("Pattern: %s\n", entry.Pattern)
	info += fmt.Sprintf("Type: %s\n\n", entry.ContentType)

	if m.previewContent == "" {
		return m.theme.PreviewStyle.Render(info + "(empty file)")
	}

	info += "--- Preview ---\n"

	lines := strings.Split(m.previewContent, "\n")
	maxLines := max(m.getVisibleLines()-7, 1)
	if len(lines) > maxLines {
		lines = lines[:maxLines]
		lines = append(lines, "...")
	}

	info += strings.Join(lines, "\n")

	return m.theme.PreviewStyle.Render(info)
}

func (m *Model) renderStatus() string {
	left := "0 items"
	if len(m.entries) > 0 {
		left = fmt.Sprintf("%d/%d items", m.cursor+1, len(m.entries))
	}

	right := ""
	if m.errorMsg != "" {
		right = m.theme.ErrorStyle.Render(m.errorMsg)
	} else if m.statusMsg != "" {
		right = m.statusMsg
	}

	spacing := max(m.width-lipgloss.Width(left)-lipgloss.Width(right)-4, 0)

	statusLine := left + strings.Repeat(" ", spacing) + right
	return m.theme.StatusBarStyle.Width(m.width).Render(statusLine)
}

func (m *Model) renderInput() string {
	prompt := "> "
	if m.mode == ModeCommand {
		prompt = ": "
	}

	return m.theme.CommandStyle.Render(prompt + m.textInput.View())
}

func (m *Model) renderCommandOutput() string {
	output := "Command Output:\n" + strings.TrimRight(m.commandOut, "\n")

	maxLines := 8
	lines := strings.Split(output, "\n")
	if len(lines) > maxLines {
		lines = lines[:maxLines]
		lines = append(lines, "...")
	}

	return m.theme.PreviewBorderStyle.
		Width(m.width - 4).
		Render(strings.Join(lines, "\n"))
}

func (m *Model) renderHelpBar() string {
	return m.theme.HelpStyle.Render(m.help.ShortHelpView(m.keys.ShortHelp()))
}

// renderHelp renders the full help screen
func (m *Model) renderHelp() string {
	sections := []string{
		m.theme.TitleStyle.Render("SizeFS - Help"),
		"",
		m.help.FullHelpView(m.keys.FullHelp()),
		"",
		m.theme.TitleStyle.Render("Paths:"),
		"  The nearest pattern directory selects the content, the file name is",
		"  its exact size: /random/128MiB+1, /zeros/a/b/4KB, /7/1000.",
		"  Press o to jump to any path, even one that is not listed.",
		"",
		m.theme.TitleStyle.Render("Commands:"),
		"  ls [-l] [path]   stat <path>   cat -n 64 <path>   size <token>...",
		"  Paths starting with ./ are relative to the current directory.",
		"",
		m.theme.HelpStyle.Render("Press ? or q to return"),
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}
