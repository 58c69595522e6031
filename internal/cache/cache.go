// Package cache holds the last-fetched task snapshot so the view layer
// can render without a remote round trip.
package cache

import (
	"encoding/json"
	"os"
	"sync"
	"time"

	"mstodo/internal/service"
)

// snapshot is the persisted form: an ordered list of tasks (maps do not
// survive structured persistence in order) plus the refresh timestamp.
type snapshot struct {
	Tasks       []service.TaskItem `json:"tasks"`
	LastUpdated time.Time          `json:"lastUpdated"`
}

// Cache is a single slot replaced wholesale on every refresh. Snapshots
// are never merged; a refresh is always a full replace. The one
// exception is Toggle, which flips a single item's status optimistically
// ahead of the next refresh.
type Cache struct {
	mu          sync.RWMutex
	path        string // empty disables persistence
	tasks       *service.TaskMap
	lastUpdated time.Time
}

// New creates a Cache. A non-empty path enables JSON persistence.
func New(path string) *Cache {
	return &Cache{path: path}
}

// Load restores a persisted snapshot if one exists. A missing file is
// not an error; the cache just starts empty.
func (c *Cache) Load() error {
	if c.path == "" {
		return nil
	}
	data, err := os.ReadFile(c.path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}
	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return err
	}

	tasks := service.NewTaskMap()
	for _, t := range snap.Tasks {
		tasks.Set(t)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.tasks = tasks
	c.lastUpdated = snap.LastUpdated
	return nil
}

// Replace swaps in a freshly fetched task map and persists the new
// snapshot when a path is configured.
func (c *Cache) Replace(tasks *service.TaskMap) error {
	c.mu.Lock()
	c.tasks = tasks
	c.lastUpdated = time.Now().UTC()
	snap := snapshot{Tasks: tasks.Items(), LastUpdated: c.lastUpdated}
	c.mu.Unlock()

	return c.persist(snap)
}

// Tasks returns the current snapshot, or nil if nothing has been
// fetched or loaded yet.
func (c *Cache) Tasks() *service.TaskMap {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.tasks
}

// LastUpdated returns when the snapshot was last replaced.
func (c *Cache) LastUpdated() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lastUpdated
}

// Toggle optimistically flips one task's completion status in place and
// returns the updated item. The snapshot timestamp is left alone; only
// a full Replace counts as a refresh.
func (c *Cache) Toggle(title string) (service.TaskItem, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.tasks == nil {
		return service.TaskItem{}, false
	}
	item, ok := c.tasks.Get(title)
	if !ok {
		return service.TaskItem{}, false
	}
	if item.Completed() {
		item.Status = service.StatusNotStarted
	} else {
		item.Status = service.StatusCompleted
	}
	c.tasks.Set(item)
	return item, true
}

func (c *Cache) persist(snap snapshot) error {
	if c.path == "" {
		return nil
	}
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(c.path, data, 0600)
}
