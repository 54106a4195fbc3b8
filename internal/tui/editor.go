// Package tui renders the workout editor and the dashboard in the terminal.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/claude/repsedit/internal/editor"
)

type focusArea int

const (
	focusName focusArea = iota
	focusList
	focusNew
	focusCount
)

type loadedMsg struct{ err error }
type addedMsg struct{ err error }
type savedMsg struct{ err error }

// EditorModel is the bubbletea model of the editor page. All state that
// outlives a keystroke lives in the editor; the model holds only widgets
// and focus.
type EditorModel struct {
	ctx context.Context
	ed  *editor.Editor

	spinner  spinner.Model
	name     textinput.Model
	newEx    textinput.Model
	edit     textinput.Model
	focus    focusArea
	selected int

	interrupted bool
}

// NewEditorModel wraps ed. The editor must not have been loaded yet; Init
// starts the load.
func NewEditorModel(ctx context.Context, ed *editor.Editor) EditorModel {
	sp := spinner.New(spinner.WithSpinner(spinner.Dot))

	name := textinput.New()
	name.Prompt = ""
	name.CharLimit = 200

	newEx := textinput.New()
	newEx.Prompt = "+ "
	newEx.Placeholder = "Add new exercise"
	newEx.CharLimit = 200

	edit := textinput.New()
	edit.Prompt = ""
	edit.CharLimit = 200

	return EditorModel{
		ctx:     ctx,
		ed:      ed,
		spinner: sp,
		name:    name,
		newEx:   newEx,
		edit:    edit,
		focus:   focusName,
	}
}

// Interrupted reports whether the user quit with ctrl+c rather than leaving
// through Save or Back.
func (m EditorModel) Interrupted() bool { return m.interrupted }

func (m EditorModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.load())
}

func (m EditorModel) load() tea.Cmd {
	return func() tea.Msg { return loadedMsg{err: m.ed.Load(m.ctx)} }
}

func (m EditorModel) add() tea.Cmd {
	return func() tea.Msg { return addedMsg{err: m.ed.Add(m.ctx)} }
}

func (m EditorModel) save() tea.Cmd {
	return func() tea.Msg { return savedMsg{err: m.ed.Save(m.ctx)} }
}

func (m EditorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		if m.ed.Snapshot().Phase != editor.PhaseLoading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case loadedMsg:
		s := m.ed.Snapshot()
		m.name.SetValue(s.Name)
		cmd := m.setFocus(focusName)
		return m, cmd

	case addedMsg:
		s := m.ed.Snapshot()
		m.newEx.SetValue(s.NewExercise)
		m.clampSelection(len(s.Exercises))
		return m, nil

	case savedMsg:
		if m.ed.Snapshot().Phase == editor.PhaseNavigated {
			return m, tea.Quit
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m EditorModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		m.interrupted = true
		m.ed.Close()
		return m, tea.Quit
	}

	s := m.ed.Snapshot()
	if s.Phase == editor.PhaseLoading || s.Phase == editor.PhaseNavigated {
		return m, nil
	}
	if s.Workout == nil {
		switch msg.String() {
		case "esc", "q":
			m.ed.Back()
			return m, tea.Quit
		}
		return m, nil
	}

	switch msg.String() {
	case "ctrl+s":
		if s.Phase == editor.PhaseSaving {
			return m, nil
		}
		m.blurEdit()
		return m, m.save()
	case "tab":
		return m, m.setFocus((m.focus + 1) % focusCount)
	case "shift+tab":
		return m, m.setFocus((m.focus + focusCount - 1) % focusCount)
	}

	switch m.focus {
	case focusName:
		if msg.String() == "esc" {
			m.ed.Back()
			return m, tea.Quit
		}
		var cmd tea.Cmd
		m.name, cmd = m.name.Update(msg)
		m.ed.SetName(m.name.Value())
		return m, cmd

	case focusNew:
		switch msg.String() {
		case "esc":
			m.ed.Back()
			return m, tea.Quit
		case "enter":
			return m, m.add()
		}
		var cmd tea.Cmd
		m.newEx, cmd = m.newEx.Update(msg)
		m.ed.SetNewExercise(m.newEx.Value())
		return m, cmd

	default:
		return m.handleListKey(msg, s)
	}
}

func (m EditorModel) handleListKey(msg tea.KeyMsg, s editor.Snapshot) (tea.Model, tea.Cmd) {
	if s.Cursor != nil {
		switch msg.String() {
		case "enter":
			m.blurEdit()
			return m, nil
		case "esc":
			m.ed.CancelEdit()
			m.edit.Blur()
			return m, nil
		case "up", "down":
			m.blurEdit()
			m.moveSelection(msg.String(), len(s.Exercises))
			return m, nil
		}
		var cmd tea.Cmd
		m.edit, cmd = m.edit.Update(msg)
		m.ed.SetEditText(m.edit.Value())
		return m, cmd
	}

	switch msg.String() {
	case "up", "k", "down", "j":
		m.moveSelection(msg.String(), len(s.Exercises))
	case "enter", "e":
		if err := m.ed.BeginEdit(m.selected); err != nil {
			return m, nil
		}
		m.edit.SetValue(s.Exercises[m.selected])
		m.edit.CursorEnd()
		return m, m.edit.Focus()
	case "d", "delete", "backspace":
		if err := m.ed.Delete(m.selected); err != nil {
			return m, nil
		}
		m.clampSelection(len(s.Exercises) - 1)
	case "esc":
		m.ed.Back()
		return m, tea.Quit
	}
	return m, nil
}

// blurEdit is focus leaving the inline field: the edit is committed.
func (m *EditorModel) blurEdit() {
	if m.ed.CommitEdit() {
		m.edit.Blur()
	}
}

func (m *EditorModel) setFocus(f focusArea) tea.Cmd {
	if m.focus == focusList && f != focusList {
		m.blurEdit()
	}
	m.focus = f
	m.name.Blur()
	m.newEx.Blur()
	switch f {
	case focusName:
		return m.name.Focus()
	case focusNew:
		return m.newEx.Focus()
	}
	return nil
}

func (m *EditorModel) moveSelection(key string, n int) {
	switch key {
	case "up", "k":
		m.selected--
	case "down", "j":
		m.selected++
	}
	m.clampSelection(n)
}

func (m *EditorModel) clampSelection(n int) {
	if m.selected >= n {
		m.selected = n - 1
	}
	if m.selected < 0 {
		m.selected = 0
	}
}

func (m EditorModel) View() string {
	s := m.ed.Snapshot()

	if s.Phase == editor.PhaseLoading {
		return fmt.Sprintf("\n %s Loading workout...\n", m.spinner.View())
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("Edit Workout"))
	b.WriteString("\n")
	if s.Error != "" {
		b.WriteString(bannerStyle.Render(s.Error))
		b.WriteString("\n")
	}
	if s.Workout == nil {
		b.WriteString("Loading...\n")
		b.WriteString(helpStyle.Render("esc back"))
		return b.String()
	}

	var panel strings.Builder
	panel.WriteString(m.label("Name", focusName))
	panel.WriteString("\n")
	panel.WriteString(m.name.View())
	panel.WriteString("\n\n")

	panel.WriteString(m.label("Exercises", focusList))
	panel.WriteString("\n")
	if len(s.Exercises) == 0 {
		panel.WriteString(dimStyle.Render("  (none)"))
		panel.WriteString("\n")
	}
	for i, ex := range s.Exercises {
		marker := "  "
		if m.focus == focusList && i == m.selected {
			marker = selectedStyle.Render("> ")
		}
		line := ex
		if s.Cursor != nil && s.Cursor.Index == i {
			line = m.edit.View()
		} else if m.focus == focusList && i == m.selected {
			line = selectedStyle.Render(ex)
		}
		fmt.Fprintf(&panel, "%s%d. %s\n", marker, i+1, line)
	}
	panel.WriteString(m.newEx.View())

	b.WriteString(panelStyle.Render(panel.String()))
	b.WriteString("\n")

	if s.Phase == editor.PhaseSaving {
		b.WriteString(dimStyle.Render("Saving..."))
		b.WriteString("\n")
	}
	b.WriteString(helpStyle.Render("tab focus • enter edit/add • d delete • ctrl+s save • esc back"))
	return b.String()
}

func (m EditorModel) label(text string, f focusArea) string {
	if m.focus == f {
		return focusedLabelStyle.Render(text)
	}
	return labelStyle.Render(text)
}
