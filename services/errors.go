package services

import (
	"fmt"

	"github.com/suraj371k/trello/models"
)

// ValidationError reports a missing or invalid field (HTTP 400).
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// NotFoundError reports an absent task or referenced user (HTTP 404).
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string { return e.Message }

// UniqueConstraintError reports a duplicate task title (HTTP 409).
type UniqueConstraintError struct {
	Message string
}

func (e *UniqueConstraintError) Error() string { return e.Message }

// VersionConflictError reports an optimistic-concurrency failure (HTTP 409).
// It carries both versions and the authoritative server record so the client
// can offer keep-server or force-overwrite.
type VersionConflictError struct {
	CurrentVersion int64
	ClientVersion  int64
	ServerTask     models.TaskResponse
}

func (e *VersionConflictError) Error() string {
	return fmt.Sprintf("task was modified by someone else (server version %d, your version %d)",
		e.CurrentVersion, e.ClientVersion)
}
