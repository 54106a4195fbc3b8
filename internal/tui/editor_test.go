package tui

import (
	"context"
	"errors"
	"slices"
	"strings"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/claude/repsedit/internal/editor"
	"github.com/claude/repsedit/internal/models"
)

type stubGateway struct {
	mu      sync.Mutex
	workout models.Workout
	getErr  error
	saveErr error
	saved   []models.Workout
}

func (g *stubGateway) GetWorkout(ctx context.Context, id int) (models.Workout, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.getErr != nil {
		return models.Workout{}, g.getErr
	}
	w := g.workout
	w.Exercises = slices.Clone(w.Exercises)
	return w, nil
}

func (g *stubGateway) UpdateWorkout(ctx context.Context, id int, name string, exercises []string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.saveErr != nil {
		return g.saveErr
	}
	g.saved = append(g.saved, models.Workout{ID: id, Name: name, Exercises: slices.Clone(exercises)})
	return nil
}

func (g *stubGateway) AddExercise(ctx context.Context, id int, exercise string) ([]string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.workout.Exercises = append(g.workout.Exercises, exercise)
	return slices.Clone(g.workout.Exercises), nil
}

func newLoadedModel(t *testing.T, gw *stubGateway) (EditorModel, *editor.Editor, *[]string) {
	t.Helper()
	var routes []string
	ed := editor.New(gw.workout.ID, gw, editor.NavigatorFunc(func(r string) { routes = append(routes, r) }), nil)
	t.Cleanup(ed.Close)
	m := NewEditorModel(context.Background(), ed)
	m = step(t, m, m.load()())
	return m, ed, &routes
}

func step(t *testing.T, m EditorModel, msg tea.Msg) EditorModel {
	t.Helper()
	next, _ := m.Update(msg)
	return next.(EditorModel)
}

func stepCmd(t *testing.T, m EditorModel, msg tea.Msg) (EditorModel, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	return next.(EditorModel), cmd
}

func key(k tea.KeyType) tea.KeyMsg { return tea.KeyMsg{Type: k} }

func runes(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

func typeText(t *testing.T, m EditorModel, s string) EditorModel {
	t.Helper()
	for _, r := range s {
		m = step(t, m, runes(string(r)))
	}
	return m
}

func legDay() *stubGateway {
	return &stubGateway{workout: models.Workout{ID: 7, Name: "Leg Day", Exercises: []string{"Squat", "Lunge"}}}
}

// TestEditorModelRendersLoadedWorkout verifies the form shows the fetched name and list.
func TestEditorModelRendersLoadedWorkout(t *testing.T) {
	m, _, _ := newLoadedModel(t, legDay())

	view := m.View()
	for _, want := range []string{"Edit Workout", "Leg Day", "1. Squat", "2. Lunge"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}
}

// TestEditorModelLoadingShowsSpinner verifies the page-level loading state before the fetch completes.
func TestEditorModelLoadingShowsSpinner(t *testing.T) {
	gw := legDay()
	ed := editor.New(7, gw, nil, nil)
	defer ed.Close()
	m := NewEditorModel(context.Background(), ed)

	if !strings.Contains(m.View(), "Loading workout...") {
		t.Errorf("view = %q, want loading indicator", m.View())
	}
}

// TestEditorModelFetchFailure verifies the banner and the placeholder instead of the form.
func TestEditorModelFetchFailure(t *testing.T) {
	gw := legDay()
	gw.getErr = errors.New("boom")
	m, _, routes := newLoadedModel(t, gw)

	view := m.View()
	if !strings.Contains(view, "Failed to fetch workout") {
		t.Errorf("view missing banner:\n%s", view)
	}
	if !strings.Contains(view, "Loading...") {
		t.Errorf("view missing placeholder:\n%s", view)
	}
	if strings.Contains(view, "Exercises") {
		t.Errorf("view renders form without a workout:\n%s", view)
	}

	m, cmd := stepCmd(t, m, key(tea.KeyEsc))
	if cmd == nil {
		t.Fatal("esc on fallback should quit")
	}
	if len(*routes) != 1 || (*routes)[0] != editor.RouteDashboard {
		t.Errorf("routes = %v", *routes)
	}
	_ = m
}

// TestEditorModelTypingName verifies keystrokes in the name field update the draft.
func TestEditorModelTypingName(t *testing.T) {
	m, ed, _ := newLoadedModel(t, legDay())

	m = step(t, m, key(tea.KeyBackspace))
	m = step(t, m, key(tea.KeyBackspace))
	m = step(t, m, key(tea.KeyBackspace))
	m = typeText(t, m, "Night")
	_ = m

	if got := ed.Snapshot().Name; got != "Leg Night" {
		t.Errorf("Name = %q, want %q", got, "Leg Night")
	}
}

// TestEditorModelInlineEditCommitsOnBlur verifies an inline edit is applied when focus leaves the list.
func TestEditorModelInlineEditCommitsOnBlur(t *testing.T) {
	m, ed, _ := newLoadedModel(t, legDay())

	m = step(t, m, key(tea.KeyTab)) // list
	m = step(t, m, key(tea.KeyEnter))
	if ed.Snapshot().Cursor == nil {
		t.Fatal("enter should start editing the selected row")
	}
	m = step(t, m, key(tea.KeyCtrlU))
	m = typeText(t, m, "Front Squat")
	m = step(t, m, key(tea.KeyTab)) // new exercise field
	_ = m

	s := ed.Snapshot()
	if s.Cursor != nil {
		t.Errorf("cursor still set after blur: %+v", s.Cursor)
	}
	if want := []string{"Front Squat", "Lunge"}; !slices.Equal(s.Exercises, want) {
		t.Errorf("Exercises = %v, want %v", s.Exercises, want)
	}
}

// TestEditorModelEscCancelsInlineEdit verifies esc discards the pending text.
func TestEditorModelEscCancelsInlineEdit(t *testing.T) {
	m, ed, routes := newLoadedModel(t, legDay())

	m = step(t, m, key(tea.KeyTab))
	m = step(t, m, key(tea.KeyDown))
	m = step(t, m, key(tea.KeyEnter))
	m = typeText(t, m, "s")
	m = step(t, m, key(tea.KeyEsc))
	_ = m

	s := ed.Snapshot()
	if s.Cursor != nil {
		t.Error("cursor still set after esc")
	}
	if want := []string{"Squat", "Lunge"}; !slices.Equal(s.Exercises, want) {
		t.Errorf("Exercises = %v, want %v", s.Exercises, want)
	}
	if len(*routes) != 0 {
		t.Errorf("esc while editing navigated: %v", *routes)
	}
}

// TestEditorModelDelete verifies d removes the selected row and keeps the selection in range.
func TestEditorModelDelete(t *testing.T) {
	m, ed, _ := newLoadedModel(t, legDay())

	m = step(t, m, key(tea.KeyTab))
	m = step(t, m, key(tea.KeyDown))
	m = step(t, m, runes("d"))

	if want := []string{"Squat"}; !slices.Equal(ed.Snapshot().Exercises, want) {
		t.Errorf("Exercises = %v, want %v", ed.Snapshot().Exercises, want)
	}
	if m.selected != 0 {
		t.Errorf("selected = %d, want 0", m.selected)
	}
}

// TestEditorModelAdd verifies enter in the new exercise field persists it and clears the input.
func TestEditorModelAdd(t *testing.T) {
	m, ed, _ := newLoadedModel(t, legDay())

	m = step(t, m, key(tea.KeyShiftTab)) // wraps to the new exercise field
	m = typeText(t, m, "Calf Raise")
	m, cmd := stepCmd(t, m, key(tea.KeyEnter))
	if cmd == nil {
		t.Fatal("enter should issue the add request")
	}
	m = step(t, m, cmd())

	s := ed.Snapshot()
	if want := []string{"Squat", "Lunge", "Calf Raise"}; !slices.Equal(s.Exercises, want) {
		t.Errorf("Exercises = %v, want %v", s.Exercises, want)
	}
	if m.newEx.Value() != "" {
		t.Errorf("input = %q, want cleared", m.newEx.Value())
	}
}

// TestEditorModelSaveNavigates verifies ctrl+s persists the draft and quits to the dashboard.
func TestEditorModelSaveNavigates(t *testing.T) {
	gw := legDay()
	m, _, routes := newLoadedModel(t, gw)

	m = typeText(t, m, "!")
	m, cmd := stepCmd(t, m, key(tea.KeyCtrlS))
	if cmd == nil {
		t.Fatal("ctrl+s should issue the save request")
	}
	_, quit := stepCmd(t, m, cmd())
	if quit == nil {
		t.Fatal("successful save should quit the editor")
	}
	if _, ok := quit().(tea.QuitMsg); !ok {
		t.Errorf("cmd after save = %T, want tea.QuitMsg", quit())
	}

	if len(gw.saved) != 1 || gw.saved[0].Name != "Leg Day!" {
		t.Errorf("saved = %+v", gw.saved)
	}
	if len(*routes) != 1 || (*routes)[0] != editor.RouteDashboard {
		t.Errorf("routes = %v", *routes)
	}
}

// TestEditorModelSaveFailureStays verifies a failed save shows the banner and keeps the form.
func TestEditorModelSaveFailureStays(t *testing.T) {
	gw := legDay()
	gw.saveErr = errors.New("down")
	m, ed, routes := newLoadedModel(t, gw)

	m, cmd := stepCmd(t, m, key(tea.KeyCtrlS))
	m, next := stepCmd(t, m, cmd())
	if next != nil {
		t.Error("failed save should not quit")
	}
	if !strings.Contains(m.View(), "Failed to save workout") {
		t.Errorf("view missing banner:\n%s", m.View())
	}
	if ed.Snapshot().Phase != editor.PhaseReady {
		t.Errorf("Phase = %v, want Ready", ed.Snapshot().Phase)
	}
	if len(*routes) != 0 {
		t.Errorf("routes = %v", *routes)
	}
}

// TestEditorModelCtrlC verifies ctrl+c closes the editor and reports the interrupt.
func TestEditorModelCtrlC(t *testing.T) {
	m, _, _ := newLoadedModel(t, legDay())

	m, cmd := stepCmd(t, m, key(tea.KeyCtrlC))
	if cmd == nil || !m.Interrupted() {
		t.Errorf("ctrl+c: cmd=%v interrupted=%v", cmd, m.Interrupted())
	}
}
