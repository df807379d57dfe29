package ui

import (
	"testing"

	"taskman/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToggleSortCycleAndPageReset(t *testing.T) {
	m := newListModel(10)
	m.page = 3

	m.toggleSort("taskName")
	require.NotNil(t, m.sort)
	assert.Equal(t, "taskName", m.sort.Field)
	assert.False(t, m.sort.Desc)
	assert.Equal(t, 0, m.page)

	m.page = 2
	m.toggleSort("taskName")
	assert.True(t, m.sort.Desc)
	assert.Equal(t, 0, m.page)

	m.toggleSort("taskName")
	assert.Nil(t, m.sort)

	// Switching to another field starts ascending again.
	m.toggleSort("taskDate")
	m.toggleSort("durationInHour")
	require.NotNil(t, m.sort)
	assert.Equal(t, "durationInHour", m.sort.Field)
	assert.False(t, m.sort.Desc)
}

func TestSortChangeTriggersExactlyOneFetch(t *testing.T) {
	m := newListModel(10)
	m.page = 5

	m.toggleSort("taskDate")
	cmd := m.fetch(nil)

	// One state change, one fetch command, loading tracked.
	require.NotNil(t, cmd)
	assert.True(t, m.loading)
	assert.Equal(t, 0, m.page)
}

func TestPagingBounds(t *testing.T) {
	m := newListModel(10)
	m.totalPages = 3

	assert.False(t, m.prevPage())
	assert.True(t, m.nextPage())
	assert.True(t, m.nextPage())
	assert.False(t, m.nextPage())
	assert.Equal(t, 2, m.page)
	assert.True(t, m.prevPage())
	assert.Equal(t, 1, m.page)
}

func TestApplyReplacesPageAndClampsCursor(t *testing.T) {
	m := newListModel(10)
	m.cursor = 4
	m.loading = true

	m.apply(models.TaskPage{
		Content:       []models.Task{{TaskName: "a"}, {TaskName: "b"}},
		TotalElements: 12,
		TotalPages:    2,
	})

	assert.False(t, m.loading)
	assert.Len(t, m.tasks, 2)
	assert.Equal(t, 12, m.total)
	assert.Equal(t, 0, m.cursor)
}

func TestFetchFailureKeepsStaleRows(t *testing.T) {
	m := newListModel(10)
	m.apply(models.TaskPage{Content: []models.Task{{TaskName: "a"}}, TotalElements: 1, TotalPages: 1})

	m.loading = true
	m, _ = m.Update(tasksFailedMsg{errs: []string{"boom"}})

	assert.False(t, m.loading)
	assert.Len(t, m.tasks, 1)
}
