package ui

import (
	"context"
	"fmt"
	"strings"

	"taskman/internal/api"
	"taskman/internal/config"
	"taskman/internal/models"
	"taskman/pkg/apperrors"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

type loginModel struct {
	username textinput.Model
	password textinput.Model
	focus    int
	loading  bool
	spin     spinner.Model
	errs     []string
}

func newLoginModel() loginModel {
	username := textinput.New()
	username.Placeholder = "Enter your username"
	username.CharLimit = 64
	username.Focus()

	password := textinput.New()
	password.Placeholder = "Enter your password"
	password.CharLimit = 64
	password.EchoMode = textinput.EchoPassword

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return loginModel{username: username, password: password, spin: sp}
}

func (m loginModel) Update(msg tea.Msg, client *api.Client) (loginModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.loading {
			// Submit sedang berjalan, jangan terima input.
			return m, nil
		}
		switch msg.String() {
		case "tab", "down":
			return m.setFocus(1), nil
		case "shift+tab", "up":
			return m.setFocus(0), nil
		case "enter":
			return m.submit(client)
		}
	case spinner.TickMsg:
		if m.loading {
			var cmd tea.Cmd
			m.spin, cmd = m.spin.Update(msg)
			return m, cmd
		}
		return m, nil
	case loginFailedMsg:
		m.loading = false
		m.errs = msg.errs
		return m, nil
	}

	var cmd tea.Cmd
	if m.focus == 0 {
		m.username, cmd = m.username.Update(msg)
	} else {
		m.password, cmd = m.password.Update(msg)
	}
	return m, cmd
}

func (m loginModel) setFocus(focus int) loginModel {
	m.focus = focus
	if focus == 0 {
		m.username.Focus()
		m.password.Blur()
	} else {
		m.username.Blur()
		m.password.Focus()
	}
	return m
}

func (m loginModel) submit(client *api.Client) (loginModel, tea.Cmd) {
	req := models.LoginRequest{
		Username: strings.TrimSpace(m.username.Value()),
		Password: m.password.Value(),
	}
	if err := config.Validate.Struct(req); err != nil {
		m.errs = []string{"Username and password are required"}
		return m, nil
	}

	m.loading = true
	m.errs = nil
	return m, tea.Batch(m.spin.Tick, func() tea.Msg {
		resp, err := client.Login(context.Background(), req)
		if err != nil {
			return loginFailedMsg{errs: apperrors.Messages(err)}
		}
		return loginDoneMsg{token: resp.Token}
	})
}

func (m loginModel) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Login"))
	b.WriteString("\n\n")
	b.WriteString(renderErrors(m.errs))
	b.WriteString(labelStyle.Render("Username") + "\n")
	b.WriteString(m.username.View() + "\n\n")
	b.WriteString(labelStyle.Render("Password") + "\n")
	b.WriteString(m.password.View() + "\n\n")
	if m.loading {
		b.WriteString(fmt.Sprintf("%s logging in...", m.spin.View()))
	} else {
		b.WriteString(helpStyle.Render("enter: login • tab: next field"))
	}
	return boxStyle.Render(b.String())
}
