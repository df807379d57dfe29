package ui

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"taskman/internal/config"
	"taskman/internal/models"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/go-playground/validator/v10"
)

const dateLayout = "2006-01-02"

// normalizeTaskDate accepts a day (YYYY-MM-DD) or a full RFC 3339 timestamp
// and returns the canonical RFC 3339 UTC string the backend expects.
func normalizeTaskDate(s string) (string, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC().Format(time.RFC3339), nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return "", errors.New("Date must be in YYYY-MM-DD format")
	}
	return t.UTC().Format(time.RFC3339), nil
}

// displayDate renders a stored timestamp as a plain day for cells and inputs.
// Backend yang lama menserialisasi LocalDateTime tanpa zona, jadi dua format
// harus diterima.
func displayDate(s string) string {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.Format(dateLayout)
	}
	if t, err := time.Parse("2006-01-02T15:04:05", s); err == nil {
		return t.Format(dateLayout)
	}
	return s
}

// Input order shared by the edit and create forms.
const (
	fieldName = iota
	fieldDescription
	fieldDate
	fieldDuration
	fieldCount
)

func newTaskInputs(seed models.Task) [fieldCount]textinput.Model {
	name := textinput.New()
	name.Placeholder = "Task name"
	name.CharLimit = 120
	name.SetValue(seed.TaskName)
	name.Focus()

	desc := textinput.New()
	desc.Placeholder = "Description"
	desc.CharLimit = 500
	desc.SetValue(seed.TaskDescription)

	date := textinput.New()
	date.Placeholder = dateLayout
	date.CharLimit = 30
	date.SetValue(displayDate(seed.TaskDate))

	duration := textinput.New()
	duration.Placeholder = "Hours"
	duration.CharLimit = 4
	duration.SetValue(strconv.Itoa(seed.DurationInHour))

	return [fieldCount]textinput.Model{name, desc, date, duration}
}

// buildTask turns form inputs into a submittable task. A non-empty message
// list means validation failed and no request must be sent. The name check
// runs first so a blank name yields exactly one message.
func buildTask(base models.Task, inputs *[fieldCount]textinput.Model) (models.Task, []string) {
	task := base
	task.TaskName = inputs[fieldName].Value()
	task.TaskDescription = inputs[fieldDescription].Value()

	if strings.TrimSpace(task.TaskName) == "" {
		return task, []string{"Task name is required"}
	}

	date, err := normalizeTaskDate(inputs[fieldDate].Value())
	if err != nil {
		return task, []string{err.Error()}
	}
	task.TaskDate = date

	duration, err := strconv.Atoi(strings.TrimSpace(inputs[fieldDuration].Value()))
	if err != nil {
		return task, []string{"Duration must be a whole number of hours"}
	}
	task.DurationInHour = duration

	if err := config.Validate.Struct(task); err != nil {
		return task, validationMessages(err)
	}
	return task, nil
}

func validationMessages(err error) []string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []string{err.Error()}
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Field() {
		case "TaskName":
			msgs = append(msgs, "Task name is required")
		case "DurationInHour":
			msgs = append(msgs, "Duration must be zero or more hours")
		default:
			msgs = append(msgs, fe.Field()+" is invalid")
		}
	}
	return msgs
}

func renderErrors(errs []string) string {
	if len(errs) == 0 {
		return ""
	}
	lines := make([]string, len(errs))
	for i, e := range errs {
		lines[i] = errorStyle.Render("✗ " + e)
	}
	return strings.Join(lines, "\n") + "\n\n"
}
