package models

import "fmt"

// Task mengikuti bentuk JSON yang dipakai backend.
// TaskID dan Username diisi oleh server, bukan oleh client.
type Task struct {
	TaskID          string `json:"taskId,omitempty"`
	TaskName        string `json:"taskName" validate:"required"`
	TaskDescription string `json:"taskDescription"`
	Username        string `json:"username,omitempty"`
	TaskDate        string `json:"taskDate"`
	DurationInHour  int    `json:"durationInHour" validate:"gte=0"`
}

type User struct {
	Username string `json:"username"`
	Role     string `json:"role"`
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type AuthResponse struct {
	Token string `json:"token"`
}

// TaskPage is one page of tasks plus the totals needed for paging controls.
type TaskPage struct {
	Content       []Task `json:"content"`
	TotalElements int    `json:"totalElements"`
	TotalPages    int    `json:"totalPages"`
	Size          int    `json:"size"`
	Number        int    `json:"number"`
}

// Sort is an optional (field, direction) pair for list requests.
type Sort struct {
	Field string
	Desc  bool
}

// Param renders the sort as the "field,asc|desc" query value.
func (s Sort) Param() string {
	direction := "asc"
	if s.Desc {
		direction = "desc"
	}
	return fmt.Sprintf("%s,%s", s.Field, direction)
}

// PageRequest describes one page fetch. Page is zero-based.
type PageRequest struct {
	Page int
	Size int
	Sort *Sort
}
