// Package todo wires the token manager, task client, cache, and
// settings together behind the operations the commands and the panel
// invoke.
package todo

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"mstodo/internal/cache"
	"mstodo/internal/config"
	"mstodo/internal/note"
	"mstodo/internal/service"
)

// TokenManager is the slice of the auth manager the orchestrator needs.
type TokenManager interface {
	GetToken(ctx context.Context) (service.AccessToken, error)
	GetAccessToken(ctx context.Context) (service.AccessToken, error)
	RefreshAccessToken(ctx context.Context) (service.AccessToken, error)
}

// Orchestrator exposes the user-invocable operations. It is constructed
// once and passed by reference; it owns no ambient state.
type Orchestrator struct {
	svc      service.Service
	auth     TokenManager
	cache    *cache.Cache
	settings *config.Settings
	log      *zap.Logger
}

// New creates an Orchestrator. auth may be nil for callers that only
// use task operations (tests inject a fake service instead).
func New(svc service.Service, auth TokenManager, taskCache *cache.Cache, settings *config.Settings, log *zap.Logger) *Orchestrator {
	if log == nil {
		log = zap.NewNop()
	}
	if taskCache == nil {
		taskCache = cache.New("")
	}
	return &Orchestrator{
		svc:      svc,
		auth:     auth,
		cache:    taskCache,
		settings: settings,
		log:      log,
	}
}

// Settings exposes the live settings for the view layer.
func (o *Orchestrator) Settings() *config.Settings {
	return o.settings
}

// Login runs the interactive sign-in flow.
func (o *Orchestrator) Login(ctx context.Context) error {
	if o.auth == nil {
		return fmt.Errorf("no token manager configured")
	}
	token, err := o.auth.GetAccessToken(ctx)
	if err != nil {
		return err
	}
	o.log.Info("logged in", zap.String("obtainedFrom", token.ObtainedFrom))
	return nil
}

// RefreshToken exchanges the cached refresh token. It never falls back
// to interactive login; callers re-run Login explicitly on failure.
func (o *Orchestrator) RefreshToken(ctx context.Context) error {
	if o.auth == nil {
		return fmt.Errorf("no token manager configured")
	}
	_, err := o.auth.RefreshAccessToken(ctx)
	return err
}

// LoadAvailableTaskLists fetches the remote lists, stores them in the
// settings, and re-resolves the selected list's title by id in case it
// changed remotely.
func (o *Orchestrator) LoadAvailableTaskLists(ctx context.Context) ([]service.TaskList, error) {
	lists, err := o.svc.FetchTaskLists(ctx)
	if err != nil {
		return nil, err
	}
	o.settings.TaskLists = lists
	for _, l := range lists {
		if l.ID == o.settings.SelectedTaskListID {
			o.settings.SelectedTaskListTitle = l.Title
		}
	}
	if err := o.settings.Save(); err != nil {
		return nil, err
	}
	return lists, nil
}

// SelectTaskList selects a list by id or title from the stored lists
// and persists the selection.
func (o *Orchestrator) SelectTaskList(idOrTitle string) error {
	want := strings.TrimSpace(idOrTitle)
	for _, l := range o.settings.TaskLists {
		if l.ID == want || strings.EqualFold(strings.TrimSpace(l.Title), want) {
			o.settings.SelectedTaskListID = l.ID
			o.settings.SelectedTaskListTitle = l.Title
			return o.settings.Save()
		}
	}
	return fmt.Errorf("task list not found: %s (run lists first)", idOrTitle)
}

// RefreshTaskCache fetches the selected list's tasks and replaces the
// cache wholesale.
func (o *Orchestrator) RefreshTaskCache(ctx context.Context) (*service.TaskMap, error) {
	if !o.settings.HasSelectedList() {
		return nil, service.ErrNoTaskListSelected
	}
	tasks, err := o.svc.FetchTasks(ctx, o.settings.SelectedTaskListID)
	if err != nil {
		return nil, err
	}
	if err := o.cache.Replace(tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// GetTasksFromSelectedList returns the cached snapshot, refreshing
// first when none exists.
func (o *Orchestrator) GetTasksFromSelectedList(ctx context.Context) (*service.TaskMap, error) {
	if tasks := o.cache.Tasks(); tasks != nil {
		return tasks, nil
	}
	return o.RefreshTaskCache(ctx)
}

// CacheAge returns the time of the last full refresh.
func (o *Orchestrator) CacheAge() time.Time {
	return o.cache.LastUpdated()
}

// PushTasksFromNote creates a remote task for every checklist item in
// the note text that has no same-title remote task yet, and patches the
// status of existing tasks whose note state differs. Duplicate titles
// within the note collapse to the first occurrence. The first failure
// aborts the remaining items; the count created so far is returned
// alongside the error.
func (o *Orchestrator) PushTasksFromNote(ctx context.Context, text string) (int, error) {
	items := note.Parse(text)
	if len(items) == 0 {
		return 0, service.ErrNoTasksFound
	}
	return o.push(ctx, items)
}

// PushOneTask creates a single task unless a same-title task already
// exists remotely.
func (o *Orchestrator) PushOneTask(ctx context.Context, title string, due *time.Time) error {
	if !o.settings.HasSelectedList() {
		return service.ErrNoTaskListSelected
	}
	title = strings.TrimSpace(title)
	if title == "" {
		return fmt.Errorf("empty task title")
	}

	remote, err := o.RefreshTaskCache(ctx)
	if err != nil {
		return err
	}
	if _, exists := remote.Get(title); exists {
		o.log.Debug("task already exists, not creating", zap.String("title", title))
		return nil
	}
	if err := o.svc.CreateTask(ctx, o.settings.SelectedTaskListID, service.TaskDraft{Title: title, Due: due}); err != nil {
		return err
	}
	_, err = o.RefreshTaskCache(ctx)
	return err
}

func (o *Orchestrator) push(ctx context.Context, items []note.Item) (int, error) {
	if !o.settings.HasSelectedList() {
		return 0, service.ErrNoTaskListSelected
	}
	remote, err := o.RefreshTaskCache(ctx)
	if err != nil {
		return 0, err
	}

	created := 0
	seen := make(map[string]bool)
	for _, item := range items {
		if seen[item.Title] {
			continue
		}
		seen[item.Title] = true

		existing, exists := remote.Get(item.Title)
		if !exists {
			draft := service.TaskDraft{Title: item.Title}
			if item.Done {
				draft.Status = service.StatusCompleted
			}
			if err := o.svc.CreateTask(ctx, o.settings.SelectedTaskListID, draft); err != nil {
				return created, err
			}
			created++
			continue
		}

		// Present remotely: reconcile status only when it differs.
		if existing.Completed() != item.Done {
			status := service.StatusNotStarted
			if item.Done {
				status = service.StatusCompleted
			}
			patch := service.TaskPatch{Status: &status}
			if err := o.svc.UpdateTask(ctx, o.settings.SelectedTaskListID, existing.ID, patch); err != nil {
				return created, err
			}
		}
	}

	if _, err := o.RefreshTaskCache(ctx); err != nil {
		return created, err
	}
	o.log.Info("pushed note tasks", zap.Int("created", created))
	return created, nil
}

// ToggleTask flips a task's completion remotely, applies the same flip
// to the cached item for immediate rendering, then triggers a full
// refresh. If the refresh fails the optimistic flip is left in place;
// the inconsistency resolves on the next successful refresh.
func (o *Orchestrator) ToggleTask(ctx context.Context, title string) (service.TaskItem, error) {
	if !o.settings.HasSelectedList() {
		return service.TaskItem{}, service.ErrNoTaskListSelected
	}
	tasks, err := o.GetTasksFromSelectedList(ctx)
	if err != nil {
		return service.TaskItem{}, err
	}
	item, ok := tasks.Get(title)
	if !ok {
		return service.TaskItem{}, fmt.Errorf("task not found: %s", strings.TrimSpace(title))
	}

	status := service.StatusCompleted
	if item.Completed() {
		status = service.StatusNotStarted
	}
	patch := service.TaskPatch{Status: &status}
	if err := o.svc.UpdateTask(ctx, o.settings.SelectedTaskListID, item.ID, patch); err != nil {
		return service.TaskItem{}, err
	}

	flipped, _ := o.cache.Toggle(title)
	if _, err := o.RefreshTaskCache(ctx); err != nil {
		o.log.Warn("cache refresh after toggle failed, keeping optimistic state",
			zap.String("title", flipped.Title), zap.Error(err))
	}
	return flipped, nil
}

// DeleteAllCompletedTasks deletes every completed task in the selected
// list and returns how many were deleted. Items are processed in fetch
// order; the first failure aborts the rest.
func (o *Orchestrator) DeleteAllCompletedTasks(ctx context.Context) (int, error) {
	if !o.settings.HasSelectedList() {
		return 0, service.ErrNoTaskListSelected
	}
	tasks, err := o.RefreshTaskCache(ctx)
	if err != nil {
		return 0, err
	}

	deleted := 0
	for _, item := range tasks.Items() {
		if !item.Completed() {
			continue
		}
		if err := o.svc.DeleteTask(ctx, o.settings.SelectedTaskListID, item.ID); err != nil {
			return deleted, err
		}
		deleted++
	}

	if _, err := o.RefreshTaskCache(ctx); err != nil {
		return deleted, err
	}
	return deleted, nil
}

// GatherTasksAcrossNotes merges the checklist items of every note under
// dir into an ordered title→done map.
func (o *Orchestrator) GatherTasksAcrossNotes(dir string) ([]string, map[string]bool, error) {
	titles, states, err := note.GatherDir(dir)
	if err != nil {
		return nil, nil, err
	}
	if len(titles) == 0 {
		return nil, nil, service.ErrNoTasksFound
	}
	return titles, states, nil
}

// RenameSelectedList renames the selected list remotely and updates the
// persisted title.
func (o *Orchestrator) RenameSelectedList(ctx context.Context, name string) error {
	if !o.settings.HasSelectedList() {
		return service.ErrNoTaskListSelected
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("empty list name")
	}
	if err := o.svc.RenameList(ctx, o.settings.SelectedTaskListID, name); err != nil {
		return err
	}
	o.settings.SelectedTaskListTitle = name
	for i, l := range o.settings.TaskLists {
		if l.ID == o.settings.SelectedTaskListID {
			o.settings.TaskLists[i].Title = name
		}
	}
	return o.settings.Save()
}
