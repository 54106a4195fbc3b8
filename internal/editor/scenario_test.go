package editor

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"slices"
	"sync"
	"testing"

	"github.com/claude/repsedit/internal/api"
	"github.com/claude/repsedit/internal/models"
)

// Compile-time check: *api.Client satisfies Gateway.
var _ Gateway = (*api.Client)(nil)

// TestLegDayScenario runs load, delete, add and save against an HTTP service
// and checks the bodies that reach it.
func TestLegDayScenario(t *testing.T) {
	var (
		mu      sync.Mutex
		putBody models.WorkoutUpdate
	)
	mux := http.NewServeMux()
	mux.HandleFunc("GET /workouts/1", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(models.WorkoutResource{
			ID: 1, Name: "Leg Day", Exercises: `["Squat","Lunge"]`, UserID: 1,
			CreatedAt: "2026-01-05T07:00:00Z",
		})
	})
	mux.HandleFunc("POST /workouts/1/exercises", func(w http.ResponseWriter, r *http.Request) {
		var body models.ExerciseAddition
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body.Exercise != "Deadlift" {
			t.Errorf("exercise = %q, want Deadlift", body.Exercise)
		}
		_ = json.NewEncoder(w).Encode(models.WorkoutResource{ID: 1, Name: "Leg Day", Exercises: `["Lunge","Deadlift"]`})
	})
	mux.HandleFunc("PUT /workouts/1", func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()
		_ = json.NewDecoder(r.Body).Decode(&putBody)
		w.WriteHeader(http.StatusNoContent)
	})
	ts := httptest.NewServer(mux)
	defer ts.Close()

	nav := &recordingNavigator{}
	e := New(1, api.NewClient(ts.URL, "tok"), nav, nil)
	defer e.Close()
	ctx := context.Background()

	if err := e.Load(ctx); err != nil {
		t.Fatal(err)
	}
	if got := e.Snapshot().Exercises; !slices.Equal(got, []string{"Squat", "Lunge"}) {
		t.Fatalf("after load = %q", got)
	}

	if err := e.Delete(0); err != nil {
		t.Fatal(err)
	}
	if got := e.Snapshot().Exercises; !slices.Equal(got, []string{"Lunge"}) {
		t.Fatalf("after delete = %q", got)
	}

	e.SetNewExercise("Deadlift")
	if err := e.Add(ctx); err != nil {
		t.Fatal(err)
	}
	if got := e.Snapshot().Exercises; !slices.Equal(got, []string{"Lunge", "Deadlift"}) {
		t.Fatalf("after add = %q", got)
	}

	if err := e.Save(ctx); err != nil {
		t.Fatal(err)
	}
	mu.Lock()
	defer mu.Unlock()
	if putBody.Name != "Leg Day" || putBody.Exercises != `["Lunge","Deadlift"]` {
		t.Errorf("PUT body = %+v", putBody)
	}
	if !slices.Equal(nav.Routes(), []string{RouteDashboard}) {
		t.Errorf("routes = %q", nav.Routes())
	}
}

// TestFetchNetworkError verifies an unreachable service yields the banner
// and no form.
func TestFetchNetworkError(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	url := ts.URL
	ts.Close()

	e := New(1, api.NewClient(url, "tok"), nil, nil)
	defer e.Close()
	if err := e.Load(context.Background()); err == nil {
		t.Fatal("expected error")
	}
	s := e.Snapshot()
	if s.Workout != nil || s.Error != MsgFetchFailed || s.Phase != PhaseReady {
		t.Errorf("snapshot = %+v", s)
	}
}
