package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"taskman/internal/api"
	"taskman/internal/models"
	"taskman/pkg/apperrors"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

const defaultDurationHours = 2

// formModel is the create-task form: empty name and description, today's
// date and a default duration.
type formModel struct {
	inputs  [fieldCount]textinput.Model
	focus   int
	loading bool
	spin    spinner.Model
	errs    []string
}

func newFormModel() *formModel {
	seed := models.Task{
		TaskDate:       time.Now().Format(dateLayout),
		DurationInHour: defaultDurationHours,
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return &formModel{inputs: newTaskInputs(seed), spin: sp}
}

func (m *formModel) setFocus(focus int) {
	m.focus = focus
	for i := range m.inputs {
		if i == focus {
			m.inputs[i].Focus()
		} else {
			m.inputs[i].Blur()
		}
	}
}

func (m *formModel) submit(client *api.Client) tea.Cmd {
	task, errs := buildTask(models.Task{}, &m.inputs)
	if len(errs) > 0 {
		m.errs = errs
		return nil
	}

	m.loading = true
	m.errs = nil
	return tea.Batch(m.spin.Tick, func() tea.Msg {
		if _, err := client.CreateTask(context.Background(), task); err != nil {
			return taskCreateFailedMsg{errs: apperrors.Messages(err)}
		}
		return taskCreatedMsg{}
	})
}

func (m *formModel) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case taskCreateFailedMsg:
		// Form tetap terbuka dengan nilai yang sudah diketik.
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

	if m.loading {
		return nil
	}
	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return cmd
}

func (m *formModel) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Create New Task"))
	b.WriteString("\n\n")
	b.WriteString(renderErrors(m.errs))

	labels := [fieldCount]string{"Task Name*", "Description*", "Date*", "Duration (Hours)*"}
	for i := range m.inputs {
		b.WriteString(labelStyle.Render(labels[i]) + "\n")
		if i == fieldDescription {
			b.WriteString(hintStyle.Render("Minimum 10 characters") + "\n")
		}
		b.WriteString(m.inputs[i].View() + "\n\n")
	}

	if m.loading {
		b.WriteString(fmt.Sprintf("%s creating...", m.spin.View()))
	} else {
		b.WriteString(helpStyle.Render("enter: create • tab: next field • esc: cancel"))
	}
	return boxStyle.Render(b.String())
}
