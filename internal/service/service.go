package service

import (
	"context"
	"time"
)

// TaskDraft describes a task to create. Due and Status are optional;
// when Status is empty the backend default (not started) applies.
type TaskDraft struct {
	Title  string
	Due    *time.Time
	Status string
}

// TaskPatch describes a partial task update. Only non-nil fields are
// sent to the backend.
type TaskPatch struct {
	Title  *string
	Status *string
	Due    *time.Time
}

// Service defines the interface for task backend operations. All remote
// API calls go through this interface; commands and the orchestrator
// never touch HTTP directly. Every call obtains its own bearer token,
// so the implementation holds no token state.
type Service interface {
	// FetchTaskLists returns all task lists in API order.
	FetchTaskLists(ctx context.Context) ([]TaskList, error)

	// FetchTasks returns the tasks of a list as a title-keyed TaskMap.
	// Duplicate titles collapse to the last occurrence.
	FetchTasks(ctx context.Context, listID string) (*TaskMap, error)

	// CreateTask creates a new task. It always creates a new remote
	// entity, even when one with the same title exists; duplicate
	// suppression is the caller's responsibility.
	CreateTask(ctx context.Context, listID string, draft TaskDraft) error

	// UpdateTask patches a task; only the fields set in patch are sent.
	UpdateTask(ctx context.Context, listID, taskID string, patch TaskPatch) error

	// DeleteTask deletes a task.
	DeleteTask(ctx context.Context, listID, taskID string) error

	// RenameList changes a list's display name.
	RenameList(ctx context.Context, listID, name string) error
}
