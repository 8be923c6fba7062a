package models

import (
	"time"
)

// Action log entry types, one per kind of accepted mutation.
const (
	ActionAdd      = "add"
	ActionEdit     = "edit"
	ActionDelete   = "delete"
	ActionAssign   = "assign"
	ActionDragDrop = "drag-drop"
)

// ActionLog is an immutable audit record. Entries are written once per
// accepted mutation and never updated or deleted by the board. TaskID is a
// plain reference: the task may be deleted afterwards, in which case the
// joined Task comes back nil and Details keeps the last-known wording.
type ActionLog struct {
	ID            string    `gorm:"type:varchar(50);primaryKey" json:"id"`
	ActionType    string    `gorm:"type:varchar(30);not null" json:"actionType"`
	TaskID        string    `gorm:"type:varchar(50);index;not null" json:"taskId"`
	Task          *Task     `gorm:"foreignKey:TaskID" json:"task,omitempty"`
	PerformedByID string    `gorm:"type:varchar(50);not null" json:"performedById"`
	PerformedBy   *User     `gorm:"foreignKey:PerformedByID" json:"performedBy,omitempty"`
	Details       string    `gorm:"type:text" json:"details"`
	Timestamp     time.Time `gorm:"autoCreateTime;index" json:"timestamp"`
}
