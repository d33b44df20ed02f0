// Package tui contains the interactive widgets for the scrubber CLI.
package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// FileItem represents one candidate file in the selection list.
type FileItem struct {
	Path     string
	Missing  bool
	Selected bool
}

// FileSelectModel is a bubbletea model that lets the user pick which files
// to sanitize before the run starts.
type FileSelectModel struct {
	items    []FileItem
	cursor   int
	done     bool
	quitted  bool
	showHelp bool
}

// NewFileSelectModel creates a new model with the given items. Files that
// exist start selected; missing ones start deselected.
func NewFileSelectModel(items []FileItem) FileSelectModel {
	for i := range items {
		items[i].Selected = !items[i].Missing
	}
	return FileSelectModel{items: items}
}

// Selected returns the paths of the files the user chose.
func (m FileSelectModel) Selected() []string {
	var paths []string
	for _, it := range m.items {
		if it.Selected {
			paths = append(paths, it.Path)
		}
	}
	return paths
}

// Done reports whether the user confirmed the selection.
func (m FileSelectModel) Done() bool { return m.done }

// Quitted reports whether the user cancelled.
func (m FileSelectModel) Quitted() bool { return m.quitted }

// Init satisfies tea.Model.
func (m FileSelectModel) Init() tea.Cmd { return nil }

func (m *FileSelectModel) moveCursor(delta int) {
	next := m.cursor + delta
	if next >= 0 && next < len(m.items) {
		m.cursor = next
	}
}

func (m *FileSelectModel) setAll(selected bool) {
	for i := range m.items {
		m.items[i].Selected = selected
	}
}

// Update satisfies tea.Model.
func (m FileSelectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.Type {
	case tea.KeyUp:
		m.moveCursor(-1)
	case tea.KeyDown:
		m.moveCursor(1)
	case tea.KeySpace:
		if len(m.items) > 0 {
			m.items[m.cursor].Selected = !m.items[m.cursor].Selected
		}
	case tea.KeyEnter:
		m.done = true
		return m, tea.Quit
	case tea.KeyEsc, tea.KeyCtrlC:
		m.quitted = true
		return m, tea.Quit
	case tea.KeyRunes:
		switch string(key.Runes) {
		case "k":
			m.moveCursor(-1)
		case "j":
			m.moveCursor(1)
		case "a":
			m.setAll(true)
		case "n":
			m.setAll(false)
		case "?":
			m.showHelp = !m.showHelp
		case "q":
			m.quitted = true
			return m, tea.Quit
		}
	}
	return m, nil
}

// View satisfies tea.Model.
func (m FileSelectModel) View() string {
	if m.done || m.quitted {
		return ""
	}

	titleStyle := lipgloss.NewStyle().Bold(true).MarginBottom(1)
	cursorStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	noteStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	helpStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("241")).MarginTop(1)

	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf(
		"Select files to sanitize (%d of %d):", len(m.Selected()), len(m.items))))
	b.WriteString("\n")

	for i, item := range m.items {
		checkbox := "[ ]"
		if item.Selected {
			checkbox = "[x]"
		}

		line := fmt.Sprintf("%s %s", checkbox, item.Path)
		if item.Missing {
			line += " " + noteStyle.Render("(not found)")
		}

		if i == m.cursor {
			line = cursorStyle.Render("> " + line)
		} else {
			line = "  " + line
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	help := "space toggle · enter run · ? keys"
	if m.showHelp {
		help = "up/k · down/j · space toggle · a all · n none · enter run · q/esc cancel"
	}
	b.WriteString(helpStyle.Render(help))
	return b.String()
}
