package tui

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/claude/repsedit/internal/models"
)

// Lister fetches the caller's workouts for the dashboard.
type Lister interface {
	ListWorkouts(ctx context.Context) ([]models.Workout, error)
}

type listedMsg struct {
	workouts []models.Workout
	err      error
}

// DashboardModel lists the user's workouts and lets them pick one to edit.
type DashboardModel struct {
	ctx    context.Context
	lister Lister
	log    *slog.Logger

	spinner  spinner.Model
	loading  bool
	workouts []models.Workout
	err      string
	cursor   int
	selected int
}

func NewDashboardModel(ctx context.Context, lister Lister, log *slog.Logger) DashboardModel {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return DashboardModel{
		ctx:     ctx,
		lister:  lister,
		log:     log,
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot)),
		loading: true,
	}
}

// Selected returns the id of the workout chosen with enter, if any.
func (m DashboardModel) Selected() (int, bool) {
	return m.selected, m.selected != 0
}

func (m DashboardModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.fetch())
}

func (m DashboardModel) fetch() tea.Cmd {
	return func() tea.Msg {
		ws, err := m.lister.ListWorkouts(m.ctx)
		return listedMsg{workouts: ws, err: err}
	}
}

func (m DashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case listedMsg:
		m.loading = false
		if msg.err != nil {
			m.log.Error("listing workouts", "error", msg.err)
			m.err = "Failed to fetch workouts"
			return m, nil
		}
		m.err = ""
		m.workouts = msg.workouts
		if m.cursor >= len(m.workouts) {
			m.cursor = max(len(m.workouts)-1, 0)
		}
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.workouts)-1 {
				m.cursor++
			}
		case "r":
			if !m.loading {
				m.loading = true
				return m, tea.Batch(m.spinner.Tick, m.fetch())
			}
		case "enter":
			if m.loading || len(m.workouts) == 0 {
				return m, nil
			}
			m.selected = m.workouts[m.cursor].ID
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m DashboardModel) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Workouts"))
	b.WriteString("\n")
	if m.err != "" {
		b.WriteString(bannerStyle.Render(m.err))
		b.WriteString("\n")
	}
	if m.loading {
		fmt.Fprintf(&b, " %s Loading workouts...\n", m.spinner.View())
		return b.String()
	}
	if len(m.workouts) == 0 && m.err == "" {
		b.WriteString(dimStyle.Render("No workouts yet."))
		b.WriteString("\n")
	}
	for i, w := range m.workouts {
		marker, name := "  ", w.Name
		if i == m.cursor {
			marker, name = selectedStyle.Render("> "), selectedStyle.Render(w.Name)
		}
		fmt.Fprintf(&b, "%s%s  %s\n", marker, name, dimStyle.Render(fmt.Sprintf("%d exercises", len(w.Exercises))))
	}
	b.WriteString(helpStyle.Render("enter edit • r refresh • q quit"))
	return b.String()
}
