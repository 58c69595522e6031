package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTaskMap_SetCollapsesOnTrimmedTitle(t *testing.T) {
	m := NewTaskMap()
	m.Set(TaskItem{ID: "t1", Title: "Buy milk", Status: StatusNotStarted})
	m.Set(TaskItem{ID: "t2", Title: "Call mom", Status: StatusNotStarted})
	m.Set(TaskItem{ID: "t3", Title: "  Buy milk  ", Status: StatusCompleted})

	assert.Equal(t, 2, m.Len())

	// Last write wins but the original position is kept.
	assert.Equal(t, []string{"Buy milk", "Call mom"}, m.Titles())
	item, ok := m.Get("Buy milk")
	require.True(t, ok)
	assert.Equal(t, "t3", item.ID)
	assert.Equal(t, StatusCompleted, item.Status)
}

func TestTaskMap_DropsEmptyTitles(t *testing.T) {
	m := NewTaskMap()
	m.Set(TaskItem{ID: "t1", Title: "   "})
	m.Set(TaskItem{ID: "t2", Title: ""})
	assert.Equal(t, 0, m.Len())
}

func TestTaskMap_GetTrimsLookup(t *testing.T) {
	m := NewTaskMap()
	m.Set(TaskItem{ID: "t1", Title: "Buy milk"})

	item, ok := m.Get("  Buy milk ")
	require.True(t, ok)
	assert.Equal(t, "t1", item.ID)

	_, ok = m.Get("missing")
	assert.False(t, ok)
}

func TestTaskMap_ItemsPreserveInsertionOrder(t *testing.T) {
	m := NewTaskMap()
	m.Set(TaskItem{ID: "t1", Title: "Zebra"})
	m.Set(TaskItem{ID: "t2", Title: "Apple"})
	m.Set(TaskItem{ID: "t3", Title: "Mango"})

	items := m.Items()
	require.Len(t, items, 3)
	assert.Equal(t, "Zebra", items[0].Title)
	assert.Equal(t, "Apple", items[1].Title)
	assert.Equal(t, "Mango", items[2].Title)
}

func TestTaskItem_Completed(t *testing.T) {
	assert.True(t, TaskItem{Status: StatusCompleted}.Completed())
	assert.False(t, TaskItem{Status: StatusNotStarted}.Completed())
	assert.False(t, TaskItem{}.Completed())
}
