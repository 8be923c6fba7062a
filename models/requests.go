package models

import "time"

// CreateTaskRequest is the body of POST /api/tasks/create.
type CreateTaskRequest struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	AssignedTo  *string    `json:"assignedTo"`
	Status      string     `json:"status"`
	Priority    string     `json:"priority"`
	DueDate     *time.Time `json:"dueDate"`
}

// UpdateTaskRequest is the body of PUT /api/tasks/:id. Version is the
// client's last-seen task version; nil means the caller opted out of
// conflict checking. ForceOverwrite applies the update even on a mismatch.
type UpdateTaskRequest struct {
	Title          string     `json:"title"`
	Description    string     `json:"description"`
	AssignedTo     *string    `json:"assignedTo"`
	Status         string     `json:"status"`
	Priority       string     `json:"priority"`
	DueDate        *time.Time `json:"dueDate"`
	Version        *int64     `json:"version"`
	ForceOverwrite bool       `json:"forceOverwrite"`
}

// MoveTaskRequest is the body of PATCH /api/tasks/:id/move.
type MoveTaskRequest struct {
	Status  string `json:"status"`
	Version *int64 `json:"version"`
}

// AssignTaskRequest is the body of PATCH /api/tasks/:id/assign. A nil
// AssignedTo clears the assignment.
type AssignTaskRequest struct {
	AssignedTo *string `json:"assignedTo"`
}
