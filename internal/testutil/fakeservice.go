// Package testutil provides testing utilities.
package testutil

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"mstodo/internal/service"
)

// ErrNotFound is returned when a resource is not found.
var ErrNotFound = errors.New("not found")

// FakeService is an in-memory implementation of service.Service for
// testing. Tasks keep their raw (untrimmed) titles; the TaskMap
// returned by FetchTasks applies the same trim-and-collapse rule as the
// real client.
type FakeService struct {
	mu     sync.RWMutex
	lists  []service.TaskList
	tasks  map[string][]service.TaskItem // listID -> tasks in creation order
	nextID int

	// Call counters.
	CreateCalls int
	UpdateCalls int
	DeleteCalls int
	FetchCalls  int

	// Error injection.
	FetchTaskListsErr error
	FetchTasksErr     error
	CreateTaskErr     error
	UpdateTaskErr     error
	DeleteTaskErr     error
	RenameListErr     error

	// FetchTasksErrAfter fails FetchTasks once the call count exceeds
	// it (0 disables). Lets tests break only the refresh that follows a
	// successful mutation.
	FetchTasksErrAfter int
}

// NewFakeService creates a FakeService with one list.
func NewFakeService() *FakeService {
	fs := &FakeService{tasks: make(map[string][]service.TaskItem)}
	fs.AddList("list-1", "Tasks")
	return fs
}

// AddList adds a list.
func (f *FakeService) AddList(id, title string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lists = append(f.lists, service.TaskList{ID: id, Title: title})
	if f.tasks[id] == nil {
		f.tasks[id] = nil
	}
}

// AddTask adds a task with the given status.
func (f *FakeService) AddTask(listID, title, status string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	id := fmt.Sprintf("task-%d", f.nextID)
	f.tasks[listID] = append(f.tasks[listID], service.TaskItem{
		ID:     id,
		Title:  title,
		Status: status,
	})
	return id
}

// TaskByID returns a stored task by remote id.
func (f *FakeService) TaskByID(listID, taskID string) (service.TaskItem, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	for _, t := range f.tasks[listID] {
		if t.ID == taskID {
			return t, true
		}
	}
	return service.TaskItem{}, false
}

// RawTasks returns the stored tasks without the TaskMap collapse.
func (f *FakeService) RawTasks(listID string) []service.TaskItem {
	f.mu.RLock()
	defer f.mu.RUnlock()
	result := make([]service.TaskItem, len(f.tasks[listID]))
	copy(result, f.tasks[listID])
	return result
}

// FetchTaskLists implements service.Service.
func (f *FakeService) FetchTaskLists(ctx context.Context) ([]service.TaskList, error) {
	if f.FetchTaskListsErr != nil {
		return nil, f.FetchTaskListsErr
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	result := make([]service.TaskList, len(f.lists))
	copy(result, f.lists)
	return result, nil
}

// FetchTasks implements service.Service.
func (f *FakeService) FetchTasks(ctx context.Context, listID string) (*service.TaskMap, error) {
	f.mu.Lock()
	f.FetchCalls++
	calls := f.FetchCalls
	f.mu.Unlock()

	if f.FetchTasksErr != nil {
		return nil, f.FetchTasksErr
	}
	if f.FetchTasksErrAfter > 0 && calls > f.FetchTasksErrAfter {
		return nil, &service.RemoteError{Status: 500, Body: "injected failure"}
	}

	f.mu.RLock()
	defer f.mu.RUnlock()
	stored, ok := f.tasks[listID]
	if !ok {
		return nil, ErrNotFound
	}
	result := service.NewTaskMap()
	for _, t := range stored {
		result.Set(t)
	}
	return result, nil
}

// CreateTask implements service.Service. It always creates a new
// entity, duplicates included.
func (f *FakeService) CreateTask(ctx context.Context, listID string, draft service.TaskDraft) error {
	if f.CreateTaskErr != nil {
		return f.CreateTaskErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.tasks[listID]; !ok {
		return ErrNotFound
	}
	f.CreateCalls++
	f.nextID++
	status := draft.Status
	if status == "" {
		status = service.StatusNotStarted
	}
	f.tasks[listID] = append(f.tasks[listID], service.TaskItem{
		ID:      fmt.Sprintf("task-%d", f.nextID),
		Title:   draft.Title,
		Status:  status,
		DueDate: draft.Due,
	})
	return nil
}

// UpdateTask implements service.Service.
func (f *FakeService) UpdateTask(ctx context.Context, listID, taskID string, patch service.TaskPatch) error {
	if f.UpdateTaskErr != nil {
		return f.UpdateTaskErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	tasks, ok := f.tasks[listID]
	if !ok {
		return ErrNotFound
	}
	for i, t := range tasks {
		if t.ID != taskID {
			continue
		}
		f.UpdateCalls++
		if patch.Title != nil {
			tasks[i].Title = *patch.Title
		}
		if patch.Status != nil {
			tasks[i].Status = *patch.Status
		}
		if patch.Due != nil {
			tasks[i].DueDate = patch.Due
		}
		return nil
	}
	return ErrNotFound
}

// DeleteTask implements service.Service.
func (f *FakeService) DeleteTask(ctx context.Context, listID, taskID string) error {
	if f.DeleteTaskErr != nil {
		return f.DeleteTaskErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	tasks, ok := f.tasks[listID]
	if !ok {
		return ErrNotFound
	}
	for i, t := range tasks {
		if t.ID == taskID {
			f.DeleteCalls++
			f.tasks[listID] = append(tasks[:i], tasks[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

// RenameList implements service.Service.
func (f *FakeService) RenameList(ctx context.Context, listID, name string) error {
	if f.RenameListErr != nil {
		return f.RenameListErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, l := range f.lists {
		if l.ID == listID {
			f.lists[i].Title = strings.TrimSpace(name)
			return nil
		}
	}
	return ErrNotFound
}
