package ui

import (
	"fmt"
	"runtime/debug"
	"strings"
	"time"

	"taskman/configs"
	"taskman/internal/api"
	"taskman/internal/nav"
	"taskman/internal/session"
	"taskman/pkg/logger"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
)

// App is the root model: it owns the route, the views and the session, and
// applies the navigation gate on every auth transition.
type App struct {
	client   *api.Client
	session  *session.Store
	pageSize int

	route  string
	login  loginModel
	list   listModel
	detail *detailModel
	form   *formModel

	status   string
	statusID int

	fatal string

	width  int
	height int
}

func NewApp(cfg configs.Config, client *api.Client, sess *session.Store) App {
	app := App{
		client:   client,
		session:  sess,
		pageSize: cfg.PageSize,
		login:    newLoginModel(),
		list:     newListModel(cfg.PageSize),
	}
	app.route = nav.Settle(sess.IsAuthenticated(), nav.PathRoot)
	return app
}

func (a App) Init() tea.Cmd {
	if a.route == nav.PathTasks {
		return a.list.fetch(a.client)
	}
	return textinput.Blink
}

// Update wraps the real update in a recover boundary: a rendering or update
// panic becomes a generic failure view with a reload affordance instead of
// killing the program.
func (a App) Update(msg tea.Msg) (model tea.Model, cmd tea.Cmd) {
	defer func() {
		if r := recover(); r != nil {
			logger.ErrorLogger.Error("Recovered from panic in UI loop",
				zap.Any("panic", r),
				zap.String("stack", string(debug.Stack())),
			)
			a.fatal = fmt.Sprintf("%v", r)
			model, cmd = a, nil
		}
	}()
	return a.update(msg)
}

func (a App) update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		return a, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		if a.fatal != "" {
			return a.updateFatal(msg)
		}
		return a.updateKey(msg)

	case UnauthorizedMsg:
		// Session is already cleared by the API layer; drop overlays and
		// let the gate route back to login.
		a.detail = nil
		a.form = nil
		a.list = newListModel(a.pageSize)
		a.login = newLoginModel()
		a.navigate()
		return a.withStatus("Session expired, please log in again")

	case loginDoneMsg:
		if err := a.session.Login(msg.token); err != nil {
			a.login.loading = false
			a.login.errs = []string{err.Error()}
			return a, nil
		}
		a.login = newLoginModel()
		a.navigate()
		if a.route == nav.PathTasks {
			return a, a.list.fetch(a.client)
		}
		// Token ditolak saat decode: tetap di login.
		a.login.errs = []string{"Login failed, please try again"}
		return a, nil

	case loginFailedMsg:
		var cmd tea.Cmd
		a.login, cmd = a.login.Update(msg, a.client)
		return a, cmd

	case tasksLoadedMsg:
		var cmd tea.Cmd
		a.list, cmd = a.list.Update(msg)
		return a, cmd

	case tasksFailedMsg:
		a.list, _ = a.list.Update(msg)
		return a.withStatus("Failed to load tasks")

	case taskSavedMsg:
		a.detail = nil
		model, statusCmd := a.withStatus("Task updated successfully")
		app := model.(App)
		return app, tea.Batch(statusCmd, app.list.fetch(app.client))

	case taskCreatedMsg:
		a.form = nil
		model, statusCmd := a.withStatus("Task created successfully")
		app := model.(App)
		return app, tea.Batch(statusCmd, app.list.fetch(app.client))

	case taskDeletedMsg:
		a.detail = nil
		model, statusCmd := a.withStatus("Task deleted successfully")
		app := model.(App)
		return app, tea.Batch(statusCmd, app.list.fetch(app.client))

	case taskSaveFailedMsg, taskDeleteFailedMsg:
		if a.detail != nil {
			return a, a.detail.Update(msg)
		}
		return a, nil

	case taskCreateFailedMsg:
		if a.form != nil {
			return a, a.form.Update(msg)
		}
		return a, nil

	case statusExpiredMsg:
		if msg.id == a.statusID {
			a.status = ""
		}
		return a, nil
	}

	// Everything else (spinner ticks, blink, input events) goes to whatever
	// is on screen.
	return a.updateActive(msg)
}

func (a App) updateActive(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	if a.route == nav.PathLogin {
		a.login, cmd = a.login.Update(msg, a.client)
		cmds = append(cmds, cmd)
	}
	if a.route == nav.PathTasks {
		a.list, cmd = a.list.Update(msg)
		cmds = append(cmds, cmd)
		if a.detail != nil {
			cmds = append(cmds, a.detail.Update(msg))
		}
		if a.form != nil {
			cmds = append(cmds, a.form.Update(msg))
		}
	}
	return a, tea.Batch(cmds...)
}

func (a App) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch a.route {
	case nav.PathLogin:
		var cmd tea.Cmd
		a.login, cmd = a.login.Update(msg, a.client)
		return a, cmd

	case nav.PathTasks:
		if a.form != nil {
			return a.updateFormKey(msg)
		}
		if a.detail != nil {
			return a.updateDetailKey(msg)
		}
		return a.updateListKey(msg)
	}
	return a, nil
}

func (a App) updateListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return a, tea.Quit
	case "up", "k":
		a.list.moveCursor(-1)
		return a, nil
	case "down", "j":
		a.list.moveCursor(1)
		return a, nil
	case "n", "right":
		if a.list.nextPage() {
			return a, a.list.fetch(a.client)
		}
		return a, nil
	case "p", "left":
		if a.list.prevPage() {
			return a, a.list.fetch(a.client)
		}
		return a, nil
	case "s":
		a.list.toggleSort("taskName")
		return a, a.list.fetch(a.client)
	case "d":
		a.list.toggleSort("taskDate")
		return a, a.list.fetch(a.client)
	case "h":
		a.list.toggleSort("durationInHour")
		return a, a.list.fetch(a.client)
	case "+":
		if a.list.resizePage(5) {
			return a, a.list.fetch(a.client)
		}
		return a, nil
	case "-":
		if a.list.resizePage(-5) {
			return a, a.list.fetch(a.client)
		}
		return a, nil
	case "r":
		return a, a.list.fetch(a.client)
	case "enter":
		if task, ok := a.list.selected(); ok {
			a.detail = newDetailModel(task, a.session.User())
		}
		return a, nil
	case "c":
		a.form = newFormModel()
		return a, nil
	case "L":
		a.session.Logout()
		a.login = newLoginModel()
		a.list = newListModel(a.pageSize)
		a.navigate()
		return a, nil
	}
	return a, nil
}

func (a App) updateDetailKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	d := a.detail
	if d.loading {
		return a, nil
	}

	if d.confirmDelete {
		switch msg.String() {
		case "y":
			return a, d.delete(a.client)
		case "n", "esc":
			d.confirmDelete = false
		}
		return a, nil
	}

	if d.editing {
		switch msg.String() {
		case "esc":
			d.cancelEdit()
			return a, nil
		case "enter":
			return a, d.save(a.client)
		case "tab", "down":
			d.setFocus((d.focus + 1) % fieldCount)
			return a, nil
		case "shift+tab", "up":
			d.setFocus((d.focus + fieldCount - 1) % fieldCount)
			return a, nil
		}
		return a, d.Update(msg)
	}

	switch msg.String() {
	case "esc", "q":
		a.detail = nil
		return a, nil
	case "e":
		d.startEdit()
		return a, nil
	case "x":
		if d.canEdit {
			d.confirmDelete = true
		}
		return a, nil
	}
	return a, nil
}

func (a App) updateFormKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	f := a.form
	if f.loading {
		return a, nil
	}

	switch msg.String() {
	case "esc":
		a.form = nil
		return a, nil
	case "enter":
		return a, f.submit(a.client)
	case "tab", "down":
		f.setFocus((f.focus + 1) % fieldCount)
		return a, nil
	case "shift+tab", "up":
		f.setFocus((f.focus + fieldCount - 1) % fieldCount)
		return a, nil
	}
	return a, f.Update(msg)
}

func (a App) updateFatal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "r":
		// Full reload: fresh state, route resolved from scratch.
		fresh := NewApp(configs.Config{PageSize: a.pageSize}, a.client, a.session)
		fresh.width = a.width
		fresh.height = a.height
		return fresh, fresh.Init()
	case "q":
		return a, tea.Quit
	}
	return a, nil
}

// navigate re-evaluates the access gate against the current auth state.
func (a *App) navigate() {
	a.route = nav.Settle(a.session.IsAuthenticated(), a.route)
}

func (a App) withStatus(text string) (tea.Model, tea.Cmd) {
	a.status = text
	a.statusID++
	id := a.statusID
	return a, tea.Tick(3*time.Second, func(time.Time) tea.Msg {
		return statusExpiredMsg{id: id}
	})
}

func (a App) View() string {
	if a.fatal != "" {
		return boxStyle.Render(
			errorStyle.Render("Something went wrong. Please try reloading.") +
				"\n\n" + helpStyle.Render("r: reload • q: quit"))
	}

	var b strings.Builder
	b.WriteString(a.headerView())
	b.WriteString("\n\n")

	switch a.route {
	case nav.PathLogin:
		b.WriteString(a.login.View())
	case nav.PathTasks:
		switch {
		case a.form != nil:
			b.WriteString(a.form.View())
		case a.detail != nil:
			b.WriteString(a.detail.View())
		default:
			b.WriteString(a.list.View())
			b.WriteString("\n")
			b.WriteString(helpStyle.Render("enter: details • c: create • n/p: page • +/-: page size • s/d/h: sort • r: refresh • L: logout • q: quit"))
		}
	}

	if a.status != "" {
		b.WriteString("\n\n")
		b.WriteString(statusStyle.Render(a.status))
	}
	return b.String()
}

func (a App) headerView() string {
	left := "Task Manager"
	right := "Please login"
	if user := a.session.User(); user != nil {
		right = fmt.Sprintf("Welcome, %s", user.Username)
	}
	return headerStyle.Render(fmt.Sprintf("%s — %s", left, right))
}
