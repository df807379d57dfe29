package ui

import "taskman/internal/models"

// UnauthorizedMsg is sent into the program from the API layer after a 401
// has already cleared the session, regardless of which request triggered it.
type UnauthorizedMsg struct{}

type loginDoneMsg struct{ token string }
type loginFailedMsg struct{ errs []string }

type tasksLoadedMsg struct{ page models.TaskPage }
type tasksFailedMsg struct{ errs []string }

type taskSavedMsg struct{}
type taskSaveFailedMsg struct{ errs []string }

type taskCreatedMsg struct{}
type taskCreateFailedMsg struct{ errs []string }

type taskDeletedMsg struct{}
type taskDeleteFailedMsg struct{ errs []string }

type statusExpiredMsg struct{ id int }
