package models

import (
	"strings"
	"time"
)

// Workout is a named, ordered list of exercises owned by a user.
type Workout struct {
	ID        int
	Name      string
	Exercises []string
	UserID    int
	CreatedAt time.Time
}

// WorkoutResource is the JSON shape exchanged with the workouts service.
// Exercises travels as a JSON-encoded array inside a string.
type WorkoutResource struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	Exercises string `json:"exercises"`
	UserID    int    `json:"userId"`
	CreatedAt string `json:"createdAt"`
}

// WorkoutUpdate is the body of PUT /workouts/{id} and POST /workouts.
type WorkoutUpdate struct {
	Name      string `json:"name"`
	Exercises string `json:"exercises"`
}

// ExerciseAddition is the body of POST /workouts/{id}/exercises.
type ExerciseAddition struct {
	Exercise string `json:"exercise"`
}

// Workout decodes the wire resource into the in-memory model.
func (r WorkoutResource) Workout() (Workout, error) {
	exercises, err := DecodeExercises(r.Exercises)
	if err != nil {
		return Workout{}, err
	}

	w := Workout{
		ID:        r.ID,
		Name:      r.Name,
		Exercises: exercises,
		UserID:    r.UserID,
	}
	w.CreatedAt, _ = ParseTimestamp(r.CreatedAt)
	return w, nil
}

// timestampLayouts are the createdAt formats accepted from the service, in
// the order they are tried.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
}

// ParseTimestamp parses a createdAt value in any of the accepted layouts.
// Values without a zone are taken as UTC. An empty or unrecognized value
// yields the zero time and false; nothing in the editor depends on it.
func ParseTimestamp(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Resource encodes the workout into its wire form.
func (w Workout) Resource() WorkoutResource {
	r := WorkoutResource{
		ID:        w.ID,
		Name:      w.Name,
		Exercises: EncodeExercises(w.Exercises),
		UserID:    w.UserID,
	}
	if !w.CreatedAt.IsZero() {
		r.CreatedAt = w.CreatedAt.UTC().Format(time.RFC3339Nano)
	}
	return r
}

// NewWorkoutUpdate builds the PUT body for a name and exercise list.
func NewWorkoutUpdate(name string, exercises []string) WorkoutUpdate {
	return WorkoutUpdate{Name: name, Exercises: EncodeExercises(exercises)}
}
