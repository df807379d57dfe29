package ui

import (
	"context"
	"fmt"
	"strings"

	"taskman/internal/api"
	"taskman/internal/models"
	"taskman/pkg/apperrors"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// detailModel shows one task read-only and, for the admin or the owner,
// switches into edit mode over a snapshot of the task.
type detailModel struct {
	original      models.Task
	canEdit       bool
	editing       bool
	confirmDelete bool
	inputs        [fieldCount]textinput.Model
	focus         int
	loading       bool
	spin          spinner.Model
	errs          []string
}

func newDetailModel(task models.Task, viewer *models.User) *detailModel {
	canEdit := viewer != nil &&
		(viewer.Role == "admin" || task.Username == viewer.Username)

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return &detailModel{original: task, canEdit: canEdit, spin: sp}
}

func (m *detailModel) startEdit() {
	if !m.canEdit {
		return
	}
	m.inputs = newTaskInputs(m.original)
	m.focus = fieldName
	m.editing = true
	m.errs = nil
}

// cancelEdit discards local edits; the next edit re-seeds the inputs from
// the original snapshot.
func (m *detailModel) cancelEdit() {
	m.editing = false
	m.errs = nil
}

func (m *detailModel) setFocus(focus int) {
	m.focus = focus
	for i := range m.inputs {
		if i == focus {
			m.inputs[i].Focus()
		} else {
			m.inputs[i].Blur()
		}
	}
}

func (m *detailModel) save(client *api.Client) tea.Cmd {
	task, errs := buildTask(m.original, &m.inputs)
	if len(errs) > 0 {
		m.errs = errs
		return nil
	}

	m.loading = true
	m.errs = nil
	id := m.original.TaskID
	return tea.Batch(m.spin.Tick, func() tea.Msg {
		if _, err := client.UpdateTask(context.Background(), id, task); err != nil {
			return taskSaveFailedMsg{errs: apperrors.Messages(err)}
		}
		return taskSavedMsg{}
	})
}

func (m *detailModel) delete(client *api.Client) tea.Cmd {
	m.loading = true
	m.confirmDelete = false
	id := m.original.TaskID
	return tea.Batch(m.spin.Tick, func() tea.Msg {
		if err := client.DeleteTask(context.Background(), id); err != nil {
			return taskDeleteFailedMsg{errs: apperrors.Messages(err)}
		}
		return taskDeletedMsg{}
	})
}

func (m *detailModel) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case taskSaveFailedMsg:
		// Gagal simpan: tetap di mode edit, tampilkan pesan.
		m.loading = false
		m.errs = msg.errs
		return nil
	case taskDeleteFailedMsg:
		m.loading = false
		m.errs = msg.errs
		return nil
	case spinner.TickMsg:
		if m.loading {
			var cmd tea.Cmd
			m.spin, cmd = m.spin.Update(msg)
			return cmd
		}
		return nil
	}

	if m.editing && !m.loading {
		var cmd tea.Cmd
		m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
		return cmd
	}
	return nil
}

func (m *detailModel) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Task Details"))
	b.WriteString("\n\n")
	b.WriteString(renderErrors(m.errs))

	if m.editing {
		labels := [fieldCount]string{"Task Name", "Description", "Date", "Duration (Hours)"}
		for i := range m.inputs {
			b.WriteString(labelStyle.Render(labels[i]) + "\n")
			b.WriteString(m.inputs[i].View() + "\n\n")
		}
	} else {
		b.WriteString(labelStyle.Render("Task Name") + "\n" + m.original.TaskName + "\n\n")
		b.WriteString(labelStyle.Render("Description") + "\n" + m.original.TaskDescription + "\n\n")
		b.WriteString(labelStyle.Render("Date") + "\n" + displayDate(m.original.TaskDate) + "\n\n")
		b.WriteString(labelStyle.Render("Duration (Hours)") + "\n" + fmt.Sprintf("%d", m.original.DurationInHour) + "\n\n")
	}
	b.WriteString(labelStyle.Render("Assigned To") + "\n" + m.original.Username + "\n\n")

	switch {
	case m.loading:
		b.WriteString(fmt.Sprintf("%s working...", m.spin.View()))
	case m.confirmDelete:
		b.WriteString(errorStyle.Render("Are you sure you want to delete this task? (y/n)"))
	case m.editing:
		b.WriteString(helpStyle.Render("enter: save • tab: next field • esc: cancel"))
	case m.canEdit:
		b.WriteString(helpStyle.Render("e: edit • x: delete • esc: close"))
	default:
		// Bukan admin dan bukan pemilik: tidak ada kontrol edit/delete.
		b.WriteString(helpStyle.Render("esc: close"))
	}
	return boxStyle.Render(b.String())
}
