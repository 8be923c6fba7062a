package models

import (
	"time"
)

// Task board columns. A task's status is always one of these, and a task
// title may never equal one of them.
const (
	StatusTodo       = "Todo"
	StatusInProgress = "In Progress"
	StatusDone       = "Done"
)

// Task priorities. The board recognizes exactly these three values.
const (
	PriorityLow    = "Low"
	PriorityMedium = "Medium"
	PriorityHigh   = "High"
)

// Task is the central board entity. Version is the optimistic-concurrency
// counter: it starts at 1 and every accepted mutation increments it by
// exactly one through a conditional update in the store.
type Task struct {
	ID             string     `gorm:"type:varchar(50);primaryKey" json:"id"`
	Title          string     `gorm:"type:varchar(100);uniqueIndex;not null" json:"title"`
	Description    string     `gorm:"type:text" json:"description"`
	Status         string     `gorm:"type:varchar(30);default:'Todo'" json:"status"`
	Priority       string     `gorm:"type:varchar(30);default:'Medium'" json:"priority"`
	AssignedToID   *string    `gorm:"type:varchar(50);index" json:"assignedToId"`
	AssignedTo     *User      `gorm:"foreignKey:AssignedToID" json:"assignedTo,omitempty"`
	DueDate        *time.Time `json:"dueDate"`
	LastEditedByID *string    `gorm:"type:varchar(50)" json:"lastEditedById"`
	LastEditedBy   *User      `gorm:"foreignKey:LastEditedByID" json:"lastEditedBy,omitempty"`
	Version        int64      `gorm:"default:1" json:"version"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
}

// IsValidStatus reports whether s is one of the three board columns.
func IsValidStatus(s string) bool {
	return s == StatusTodo || s == StatusInProgress || s == StatusDone
}

// IsValidPriority reports whether p is a recognized priority.
func IsValidPriority(p string) bool {
	return p == PriorityLow || p == PriorityMedium || p == PriorityHigh
}

// IsReservedTitle reports whether t collides with a column name.
func IsReservedTitle(t string) bool {
	return IsValidStatus(t)
}
