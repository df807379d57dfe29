package ui

import (
	"context"
	"fmt"
	"strings"

	"taskman/internal/api"
	"taskman/internal/models"
	"taskman/pkg/apperrors"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// listModel holds one fetched page of tasks plus the paging/sort state that
// drives the next fetch. Every state change triggers exactly one refetch.
type listModel struct {
	tasks      []models.Task
	total      int
	totalPages int
	page       int
	size       int
	sort       *models.Sort
	cursor     int
	loading    bool
	spin       spinner.Model
}

func newListModel(pageSize int) listModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	return listModel{size: pageSize, spin: sp}
}

// fetch requests exactly one page with the current page/size/sort state.
func (m *listModel) fetch(client *api.Client) tea.Cmd {
	m.loading = true
	req := models.PageRequest{Page: m.page, Size: m.size, Sort: m.sort}
	return tea.Batch(m.spin.Tick, func() tea.Msg {
		page, err := client.ListTasks(context.Background(), req)
		if err != nil {
			return tasksFailedMsg{errs: apperrors.Messages(err)}
		}
		return tasksLoadedMsg{page: page}
	})
}

// apply replaces the visible page. Respons yang datang terlambat tetap
// dipakai apa adanya: last write wins.
func (m *listModel) apply(page models.TaskPage) {
	m.loading = false
	m.tasks = page.Content
	m.total = page.TotalElements
	m.totalPages = page.TotalPages
	if m.cursor >= len(m.tasks) {
		m.cursor = 0
	}
}

func (m *listModel) nextPage() bool {
	if m.page+1 >= m.totalPages {
		return false
	}
	m.page++
	return true
}

func (m *listModel) prevPage() bool {
	if m.page == 0 {
		return false
	}
	m.page--
	return true
}

// toggleSort cycles a column through ascending, descending and off, and
// always resets to the first page.
func (m *listModel) toggleSort(field string) {
	switch {
	case m.sort == nil || m.sort.Field != field:
		m.sort = &models.Sort{Field: field}
	case !m.sort.Desc:
		m.sort.Desc = true
	default:
		m.sort = nil
	}
	m.page = 0
	m.cursor = 0
}

// resizePage grows or shrinks the page size in steps of five and resets to
// the first page. Returns false when already at the floor.
func (m *listModel) resizePage(delta int) bool {
	next := m.size + delta
	if next < 5 {
		return false
	}
	m.size = next
	m.page = 0
	m.cursor = 0
	return true
}

func (m *listModel) moveCursor(delta int) {
	next := m.cursor + delta
	if next >= 0 && next < len(m.tasks) {
		m.cursor = next
	}
}

func (m *listModel) selected() (models.Task, bool) {
	if m.cursor < 0 || m.cursor >= len(m.tasks) {
		return models.Task{}, false
	}
	return m.tasks[m.cursor], true
}

func (m listModel) Update(msg tea.Msg) (listModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tasksLoadedMsg:
		m.apply(msg.page)
		return m, nil
	case tasksFailedMsg:
		// Baris lama tetap ditampilkan; notifikasi error diurus App.
		m.loading = false
		return m, nil
	case spinner.TickMsg:
		if m.loading {
			var cmd tea.Cmd
			m.spin, cmd = m.spin.Update(msg)
			return m, cmd
		}
	}
	return m, nil
}

func (m listModel) sortMarker(field string) string {
	if m.sort == nil || m.sort.Field != field {
		return ""
	}
	if m.sort.Desc {
		return " ▼"
	}
	return " ▲"
}

func (m listModel) View() string {
	var b strings.Builder
	title := "My Tasks"
	if m.loading {
		title = fmt.Sprintf("My Tasks %s", m.spin.View())
	}
	b.WriteString(titleStyle.Render(title))
	b.WriteString("\n\n")

	header := fmt.Sprintf("%-30s %-12s %-10s %-14s",
		"Task Name"+m.sortMarker("taskName"),
		"Date"+m.sortMarker("taskDate"),
		"Hours"+m.sortMarker("durationInHour"),
		"Owner",
	)
	b.WriteString(tableHeaderStyle.Render(header))
	b.WriteString("\n")

	if len(m.tasks) == 0 && !m.loading {
		b.WriteString(hintStyle.Render("No tasks found"))
		b.WriteString("\n")
	}

	for i, task := range m.tasks {
		row := fmt.Sprintf("%-30s %-12s %-10d %-14s",
			truncate(task.TaskName, 29),
			displayDate(task.TaskDate),
			task.DurationInHour,
			truncate(task.Username, 13),
		)
		if i == m.cursor {
			row = selectedRowStyle.Render("> " + row)
		} else {
			row = "  " + row
		}
		b.WriteString(row)
		b.WriteString("\n")
	}

	pages := m.totalPages
	if pages == 0 {
		pages = 1
	}
	b.WriteString("\n")
	b.WriteString(helpStyle.Render(fmt.Sprintf("page %d of %d (%d tasks)", m.page+1, pages, m.total)))
	return b.String()
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-1] + "…"
}
