package mcp

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
)

// --- Tool definitions ---

var toolListWorkouts = mcp.NewTool("list_workouts",
	mcp.WithDescription("List all workouts of the signed-in user with their exercise lists."),
)

var toolGetWorkout = mcp.NewTool("get_workout",
	mcp.WithDescription("Retrieve one workout: its name and ordered exercise list."),
	mcp.WithNumber("id", mcp.Required(), mcp.Description("Workout ID")),
)

var toolUpdateWorkout = mcp.NewTool("update_workout",
	mcp.WithDescription("Rename a workout and/or replace its whole exercise list. Omitted fields keep their current value."),
	mcp.WithNumber("id", mcp.Required(), mcp.Description("Workout ID")),
	mcp.WithString("name", mcp.Description("New workout name")),
	mcp.WithArray("exercises", mcp.WithStringItems(), mcp.Description("Complete ordered exercise list, replacing the current one")),
)

var toolAddExercise = mcp.NewTool("add_exercise",
	mcp.WithDescription("Append one exercise to the end of a workout's list. Takes effect immediately."),
	mcp.WithNumber("id", mcp.Required(), mcp.Description("Workout ID")),
	mcp.WithString("exercise", mcp.Required(), mcp.Description("Exercise name, e.g. 'Romanian Deadlift'")),
)

// --- Tool handlers ---

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

func requireID(req mcp.CallToolRequest) (int, bool) {
	id, err := req.RequireInt("id")
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func (h *handlers) listWorkouts(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	workouts, err := h.ds.ListWorkouts(ctx)
	if err != nil {
		h.log.Error("mcp list_workouts", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	views := make([]workoutView, 0, len(workouts))
	for _, w := range workouts {
		views = append(views, newWorkoutView(w))
	}
	return jsonResult(views)
}

func (h *handlers) getWorkout(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, ok := requireID(req)
	if !ok {
		return mcp.NewToolResultError("id parameter must be a positive integer"), nil
	}

	w, err := h.ds.GetWorkout(ctx, id)
	if err != nil {
		h.log.Error("mcp get_workout", "workout_id", id, "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	return jsonResult(newWorkoutView(w))
}

func (h *handlers) updateWorkout(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, ok := requireID(req)
	if !ok {
		return mcp.NewToolResultError("id parameter must be a positive integer"), nil
	}

	w, err := h.ds.GetWorkout(ctx, id)
	if err != nil {
		h.log.Error("mcp update_workout: fetch", "workout_id", id, "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	if name := strings.TrimSpace(req.GetString("name", "")); name != "" {
		w.Name = name
	}
	if _, present := req.GetArguments()["exercises"]; present {
		exercises, err := req.RequireStringSlice("exercises")
		if err != nil {
			return mcp.NewToolResultError("exercises must be an array of strings"), nil
		}
		w.Exercises = exercises
	}

	if err := h.ds.UpdateWorkout(ctx, id, w.Name, w.Exercises); err != nil {
		h.log.Error("mcp update_workout", "workout_id", id, "error", err)
		return mcp.NewToolResultError("update failed: " + err.Error()), nil
	}
	return jsonResult(newWorkoutView(w))
}

func (h *handlers) addExercise(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, ok := requireID(req)
	if !ok {
		return mcp.NewToolResultError("id parameter must be a positive integer"), nil
	}
	exercise, err := req.RequireString("exercise")
	if err != nil || strings.TrimSpace(exercise) == "" {
		return mcp.NewToolResultError("exercise parameter is required"), nil
	}

	exercises, err := h.ds.AddExercise(ctx, id, exercise)
	if err != nil {
		h.log.Error("mcp add_exercise", "workout_id", id, "error", err)
		return mcp.NewToolResultError("add failed: " + err.Error()), nil
	}
	return jsonResult(map[string]any{"id": id, "exercises": exercises})
}
