package models

import "time"

// UserRef is the read-side view of a borrowed user embedded in task and
// log responses.
type UserRef struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// TaskResponse is the composed task view returned by every endpoint and
// broadcast event: the stored record plus joined user fields.
type TaskResponse struct {
	ID           string     `json:"id"`
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	Status       string     `json:"status"`
	Priority     string     `json:"priority"`
	AssignedTo   *UserRef   `json:"assignedTo"`
	DueDate      *time.Time `json:"dueDate"`
	LastEditedBy *UserRef   `json:"lastEditedBy"`
	Version      int64      `json:"version"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

// ActionLogTaskRef is the shallow task view on a log entry. Nil when the
// task has since been deleted.
type ActionLogTaskRef struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Status string `json:"status"`
}

// ActionLogResponse is the read-side view of an audit entry.
type ActionLogResponse struct {
	ID          string            `json:"id"`
	ActionType  string            `json:"actionType"`
	Task        *ActionLogTaskRef `json:"task"`
	PerformedBy *UserRef          `json:"performedBy"`
	Details     string            `json:"details"`
	Timestamp   time.Time         `json:"timestamp"`
}

// NewUserRef builds the embedded user view; nil in, nil out.
func NewUserRef(u *User) *UserRef {
	if u == nil {
		return nil
	}
	return &UserRef{ID: u.ID, Username: u.Username, Email: u.Email}
}

// NewTaskResponse joins the stored task with its preloaded user references.
func NewTaskResponse(t *Task) TaskResponse {
	return TaskResponse{
		ID:           t.ID,
		Title:        t.Title,
		Description:  t.Description,
		Status:       t.Status,
		Priority:     t.Priority,
		AssignedTo:   NewUserRef(t.AssignedTo),
		DueDate:      t.DueDate,
		LastEditedBy: NewUserRef(t.LastEditedBy),
		Version:      t.Version,
		CreatedAt:    t.CreatedAt,
		UpdatedAt:    t.UpdatedAt,
	}
}

// NewActionLogResponse joins an audit entry with its preloaded references.
func NewActionLogResponse(l *ActionLog) ActionLogResponse {
	resp := ActionLogResponse{
		ID:          l.ID,
		ActionType:  l.ActionType,
		PerformedBy: NewUserRef(l.PerformedBy),
		Details:     l.Details,
		Timestamp:   l.Timestamp,
	}
	if l.Task != nil {
		resp.Task = &ActionLogTaskRef{ID: l.Task.ID, Title: l.Task.Title, Status: l.Task.Status}
	}
	return resp
}
