// Package service defines the backend-agnostic types and interface for
// task operations.
package service

import (
	"strings"
	"time"
)

// Task statuses as exposed to callers. The backend may know more states;
// anything that is not completed is reported as not started.
const (
	StatusNotStarted = "notStarted"
	StatusCompleted  = "completed"
)

// TaskList represents a remote task list.
type TaskList struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// TaskItem represents a single remote task. Identity is the remote ID;
// the trimmed title doubles as a natural key when reconciling
// note-derived tasks against remote ones.
type TaskItem struct {
	ID      string     `json:"id"`
	Title   string     `json:"title"`
	Status  string     `json:"status"`
	DueDate *time.Time `json:"dueDate,omitempty"`
}

// Completed reports whether the task is completed.
func (t TaskItem) Completed() bool {
	return t.Status == StatusCompleted
}

// AccessToken is a bearer token plus how it was obtained. It is never
// persisted on its own; the token cache file is the durable form.
type AccessToken struct {
	Value        string
	ObtainedFrom string // TokenFromInteractive or TokenFromRefresh
}

// Token sources.
const (
	TokenFromInteractive = "interactive"
	TokenFromRefresh     = "refresh"
)

// TaskMap is an insertion-ordered map of tasks keyed by trimmed title.
// Setting a title that is already present replaces the stored item but
// keeps its original position, so duplicate titles collapse to the last
// occurrence seen. The remote service does not guarantee title
// uniqueness; callers must tolerate this lossy collapse.
type TaskMap struct {
	order []string
	items map[string]TaskItem
}

// NewTaskMap creates an empty TaskMap.
func NewTaskMap() *TaskMap {
	return &TaskMap{items: make(map[string]TaskItem)}
}

// Set inserts or replaces the item under its trimmed title. Items with
// an empty trimmed title are dropped.
func (m *TaskMap) Set(item TaskItem) {
	title := strings.TrimSpace(item.Title)
	if title == "" {
		return
	}
	item.Title = title
	if _, ok := m.items[title]; !ok {
		m.order = append(m.order, title)
	}
	m.items[title] = item
}

// Get returns the item stored under the trimmed title.
func (m *TaskMap) Get(title string) (TaskItem, bool) {
	item, ok := m.items[strings.TrimSpace(title)]
	return item, ok
}

// Len returns the number of distinct titles.
func (m *TaskMap) Len() int {
	return len(m.order)
}

// Items returns the tasks in insertion order.
func (m *TaskMap) Items() []TaskItem {
	result := make([]TaskItem, 0, len(m.order))
	for _, title := range m.order {
		result = append(result, m.items[title])
	}
	return result
}

// Titles returns the keys in insertion order.
func (m *TaskMap) Titles() []string {
	result := make([]string, len(m.order))
	copy(result, m.order)
	return result
}
