package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/claude/repsedit/internal/models"
	"github.com/claude/repsedit/internal/storage"
	"github.com/go-chi/chi/v5"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if p, ok := s.store.(interface{ Ping(context.Context) error }); ok {
		if err := p.Ping(r.Context()); err != nil {
			s.log.Error("health check failed", "error", err)
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleListWorkouts(w http.ResponseWriter, r *http.Request) {
	workouts, err := s.store.ListWorkouts(r.Context(), userIDFromContext(r))
	if err != nil {
		s.log.Error("list workouts failed", "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	resources := make([]models.WorkoutResource, 0, len(workouts))
	for _, wo := range workouts {
		resources = append(resources, wo.Resource())
	}
	writeJSON(w, http.StatusOK, resources)
}

func (s *Server) handleCreateWorkout(w http.ResponseWriter, r *http.Request) {
	name, exercises, ok := decodeWorkoutUpdate(w, r)
	if !ok {
		return
	}

	created, err := s.store.CreateWorkout(r.Context(), userIDFromContext(r), name, exercises)
	if err != nil {
		s.log.Error("create workout failed", "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, created.Resource())
}

func (s *Server) handleGetWorkout(w http.ResponseWriter, r *http.Request) {
	id, ok := workoutID(w, r)
	if !ok {
		return
	}

	wo, err := s.store.GetWorkout(r.Context(), id, userIDFromContext(r))
	if err != nil {
		s.storeError(w, "get workout", id, err)
		return
	}
	writeJSON(w, http.StatusOK, wo.Resource())
}

func (s *Server) handleUpdateWorkout(w http.ResponseWriter, r *http.Request) {
	id, ok := workoutID(w, r)
	if !ok {
		return
	}
	name, exercises, ok := decodeWorkoutUpdate(w, r)
	if !ok {
		return
	}

	if err := s.store.UpdateWorkout(r.Context(), id, userIDFromContext(r), name, exercises); err != nil {
		s.storeError(w, "update workout", id, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleAddExercise(w http.ResponseWriter, r *http.Request) {
	id, ok := workoutID(w, r)
	if !ok {
		return
	}

	var body models.ExerciseAddition
	if !decodeBody(w, r, &body) {
		return
	}
	if strings.TrimSpace(body.Exercise) == "" {
		writeError(w, http.StatusBadRequest, "exercise is required")
		return
	}

	wo, err := s.store.AppendExercise(r.Context(), id, userIDFromContext(r), body.Exercise)
	if err != nil {
		s.storeError(w, "add exercise", id, err)
		return
	}
	writeJSON(w, http.StatusOK, wo.Resource())
}

func (s *Server) storeError(w http.ResponseWriter, op string, id int, err error) {
	if errors.Is(err, storage.ErrNotFound) {
		writeError(w, http.StatusNotFound, "workout not found")
		return
	}
	s.log.Error(op+" failed", "workout_id", id, "error", err)
	writeError(w, http.StatusInternalServerError, err.Error())
}

func workoutID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "invalid workout ID")
		return 0, false
	}
	return id, true
}

// decodeWorkoutUpdate reads a {name, exercises} body. The name must be present
// and exercises, when given, must be a JSON array of strings.
func decodeWorkoutUpdate(w http.ResponseWriter, r *http.Request) (string, []string, bool) {
	var body models.WorkoutUpdate
	if !decodeBody(w, r, &body) {
		return "", nil, false
	}
	if strings.TrimSpace(body.Name) == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return "", nil, false
	}
	exercises, err := models.DecodeExercises(body.Exercises)
	if err != nil {
		writeError(w, http.StatusBadRequest, "exercises must be a JSON array of strings")
		return "", nil, false
	}
	return body.Name, exercises, true
}

const maxBodyBytes = 1 << 20

// decodeBody reads a JSON request body into v. Bodies that are not valid
// UTF-8 are rejected rather than decoded with replacement characters.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "reading body: "+err.Error())
		return false
	}
	if !utf8.Valid(data) {
		writeError(w, http.StatusBadRequest, "body must be valid UTF-8")
		return false
	}
	if err := json.Unmarshal(data, v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
