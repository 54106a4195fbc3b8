// Package editor holds the state of one workout being edited: the fetched
// snapshot, the user's draft, the inline editing cursor and the error banner.
// It is independent of any particular view; the terminal UI drives it.
package editor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"

	"github.com/claude/repsedit/internal/models"
)

// RouteDashboard is the listing view the editor navigates to on Save and Back.
const RouteDashboard = "dashboard"

// Banner messages. Failures are not distinguished by cause.
const (
	MsgFetchFailed = "Failed to fetch workout"
	MsgSaveFailed  = "Failed to save workout"
	MsgAddFailed   = "Failed to add exercise"
)

var (
	ErrEmptyExercise   = errors.New("editor: exercise text is empty")
	ErrIndexOutOfRange = errors.New("editor: exercise index out of range")
	ErrNotReady        = errors.New("editor: no workout loaded")
	ErrSaving          = errors.New("editor: save already in progress")
	ErrClosed          = errors.New("editor: closed")
)

// Phase is the page-level state.
type Phase int

const (
	PhaseLoading Phase = iota
	PhaseReady
	PhaseSaving
	PhaseNavigated
)

func (p Phase) String() string {
	switch p {
	case PhaseLoading:
		return "loading"
	case PhaseReady:
		return "ready"
	case PhaseSaving:
		return "saving"
	case PhaseNavigated:
		return "navigated"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// Gateway is the part of the workouts API the editor calls.
// *api.Client satisfies it.
type Gateway interface {
	GetWorkout(ctx context.Context, id int) (models.Workout, error)
	UpdateWorkout(ctx context.Context, id int, name string, exercises []string) error
	AddExercise(ctx context.Context, id int, exercise string) ([]string, error)
}

// Navigator leaves the editor for another view.
type Navigator interface {
	Navigate(route string)
}

// NavigatorFunc adapts a function to Navigator.
type NavigatorFunc func(route string)

func (f NavigatorFunc) Navigate(route string) { f(route) }

// Cursor is the exercise currently being edited inline.
type Cursor struct {
	Index int
	Text  string
}

// Snapshot is a copy of the editor state, safe to render from.
type Snapshot struct {
	Phase       Phase
	Workout     *models.Workout
	Name        string
	Exercises   []string
	NewExercise string
	Cursor      *Cursor
	Error       string
}

// Errored reports whether an error banner is showing.
func (s Snapshot) Errored() bool { return s.Error != "" }

// Editor is safe for concurrent use. Network calls run without holding the
// lock; their results are applied under it.
type Editor struct {
	id  int
	gw  Gateway
	nav Navigator
	log *slog.Logger

	life   context.Context
	cancel context.CancelFunc

	mu          sync.Mutex
	phase       Phase
	workout     *models.Workout
	name        string
	exercises   []string
	newExercise string
	cursor      *Cursor
	errMsg      string

	// addIssued and addApplied order concurrent Add responses.
	addIssued  uint64
	addApplied uint64
}

// New creates an editor for workout id. Call Load to fetch it and Close when
// the editor is discarded.
func New(id int, gw Gateway, nav Navigator, log *slog.Logger) *Editor {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	life, cancel := context.WithCancel(context.Background())
	return &Editor{
		id:     id,
		gw:     gw,
		nav:    nav,
		log:    log.With("workout_id", id),
		life:   life,
		cancel: cancel,
		phase:  PhaseLoading,
	}
}

// Close cancels every outstanding request. Results that arrive afterwards
// are discarded.
func (e *Editor) Close() {
	e.cancel()
}

// requestContext is cancelled by the caller's context or by the editor's end
// of life, whichever comes first.
func (e *Editor) requestContext(parent context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)
	stop := context.AfterFunc(e.life, cancel)
	return ctx, func() {
		stop()
		cancel()
	}
}

func (e *Editor) closed() bool {
	return e.life.Err() != nil
}

// Load fetches the workout and initializes the draft from it.
func (e *Editor) Load(ctx context.Context) error {
	e.mu.Lock()
	if e.closed() {
		e.mu.Unlock()
		return ErrClosed
	}
	e.phase = PhaseLoading
	e.mu.Unlock()

	ctx, cancel := e.requestContext(ctx)
	defer cancel()
	w, err := e.gw.GetWorkout(ctx, e.id)

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed() {
		return ErrClosed
	}
	e.phase = PhaseReady
	if err != nil {
		e.log.Error("failed to fetch workout", "error", err)
		e.errMsg = MsgFetchFailed
		return fmt.Errorf("fetching workout %d: %w", e.id, err)
	}

	w.Exercises = slices.Clone(w.Exercises)
	e.workout = &w
	e.name = w.Name
	e.exercises = slices.Clone(w.Exercises)
	e.cursor = nil
	e.errMsg = ""
	return nil
}

// SetName replaces the draft name.
func (e *Editor) SetName(name string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.name = name
}

// SetNewExercise replaces the pending text of the add-exercise input.
func (e *Editor) SetNewExercise(text string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.newExercise = text
}

// Add persists the pending new exercise immediately and replaces the draft
// list with the list the service returns. Blank text is rejected without a
// request. A response older than one already applied is dropped.
func (e *Editor) Add(ctx context.Context) error {
	e.mu.Lock()
	if e.closed() {
		e.mu.Unlock()
		return ErrClosed
	}
	if e.workout == nil {
		e.mu.Unlock()
		return ErrNotReady
	}
	text := e.newExercise
	if strings.TrimSpace(text) == "" {
		e.mu.Unlock()
		return ErrEmptyExercise
	}
	e.addIssued++
	seq := e.addIssued
	id := e.workout.ID
	e.mu.Unlock()

	ctx, cancel := e.requestContext(ctx)
	defer cancel()
	exercises, err := e.gw.AddExercise(ctx, id, text)

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed() {
		return ErrClosed
	}
	if err != nil {
		e.log.Error("failed to add exercise", "exercise", text, "error", err)
		e.errMsg = MsgAddFailed
		return fmt.Errorf("adding exercise to workout %d: %w", id, err)
	}
	if seq < e.addApplied {
		e.log.Debug("dropping stale add response", "seq", seq, "applied", e.addApplied)
		return nil
	}

	e.addApplied = seq
	e.exercises = exercises
	e.newExercise = ""
	e.cursor = nil
	e.errMsg = ""
	return nil
}

// BeginEdit puts exercise i into inline edit mode, replacing any other
// pending edit.
func (e *Editor) BeginEdit(i int) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if i < 0 || i >= len(e.exercises) {
		return fmt.Errorf("%w: %d of %d", ErrIndexOutOfRange, i, len(e.exercises))
	}
	e.cursor = &Cursor{Index: i, Text: e.exercises[i]}
	return nil
}

// SetEditText updates the inline edit text. It reports false when nothing
// is being edited.
func (e *Editor) SetEditText(text string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.cursor == nil {
		return false
	}
	e.cursor.Text = text
	return true
}

// CommitEdit writes the inline edit back into the list and leaves edit mode.
// This is what happens when focus leaves the inline field. It reports false
// when nothing was being edited.
func (e *Editor) CommitEdit() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.commitLocked()
}

func (e *Editor) commitLocked() bool {
	if e.cursor == nil {
		return false
	}
	// The list only shrinks through Delete and Add, both of which clear the
	// cursor, so the index is in range here.
	e.exercises[e.cursor.Index] = e.cursor.Text
	e.cursor = nil
	return true
}

// CancelEdit leaves edit mode without changing the list.
func (e *Editor) CancelEdit() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cursor = nil
}

// Delete removes exercise i locally. Any inline edit in progress is dropped.
func (e *Editor) Delete(i int) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if i < 0 || i >= len(e.exercises) {
		return fmt.Errorf("%w: %d of %d", ErrIndexOutOfRange, i, len(e.exercises))
	}
	e.exercises = slices.Delete(slices.Clone(e.exercises), i, i+1)
	e.cursor = nil
	return nil
}

// Save commits any inline edit, then persists the draft name and list. On
// success the editor navigates to the dashboard and ends its lifetime; on
// failure the draft is kept for a retry.
func (e *Editor) Save(ctx context.Context) error {
	e.mu.Lock()
	if e.closed() {
		e.mu.Unlock()
		return ErrClosed
	}
	if e.workout == nil {
		e.mu.Unlock()
		return ErrNotReady
	}
	if e.phase == PhaseSaving {
		e.mu.Unlock()
		return ErrSaving
	}
	e.commitLocked()
	id, name, exercises := e.workout.ID, e.name, slices.Clone(e.exercises)
	e.phase = PhaseSaving
	e.mu.Unlock()

	ctx, cancel := e.requestContext(ctx)
	defer cancel()
	err := e.gw.UpdateWorkout(ctx, id, name, exercises)

	e.mu.Lock()
	if e.closed() {
		e.mu.Unlock()
		return ErrClosed
	}
	if err != nil {
		e.phase = PhaseReady
		e.errMsg = MsgSaveFailed
		e.mu.Unlock()
		e.log.Error("failed to save workout", "error", err)
		return fmt.Errorf("saving workout %d: %w", id, err)
	}
	e.phase = PhaseNavigated
	e.errMsg = ""
	e.mu.Unlock()

	e.log.Info("workout saved", "exercises", len(exercises))
	e.navigate()
	return nil
}

// Back discards the draft and navigates to the dashboard. Exercises already
// persisted through Add stay persisted.
func (e *Editor) Back() {
	e.mu.Lock()
	e.phase = PhaseNavigated
	e.name = ""
	e.exercises = nil
	e.newExercise = ""
	e.cursor = nil
	e.mu.Unlock()

	e.navigate()
}

func (e *Editor) navigate() {
	e.cancel()
	if e.nav != nil {
		e.nav.Navigate(RouteDashboard)
	}
}

// ClearError dismisses the banner.
func (e *Editor) ClearError() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.errMsg = ""
}

// Snapshot returns a copy of the current state.
func (e *Editor) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()

	s := Snapshot{
		Phase:       e.phase,
		Name:        e.name,
		Exercises:   slices.Clone(e.exercises),
		NewExercise: e.newExercise,
		Error:       e.errMsg,
	}
	if e.workout != nil {
		w := *e.workout
		w.Exercises = slices.Clone(w.Exercises)
		s.Workout = &w
	}
	if e.cursor != nil {
		c := *e.cursor
		s.Cursor = &c
	}
	return s
}
