package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/suraj371k/trello/models"
	"github.com/suraj371k/trello/utils"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Publisher is what the task service needs from the real-time layer.
type Publisher interface {
	Publish(event string, data interface{}, originID string)
}

// casRetries bounds the reload-and-retry loop for writes that lost the
// store-level race but did not request version checking.
const casRetries = 3

// TaskService orchestrates every task mutation: validate, run the version
// gate, apply the write through a conditional update, append the audit
// entry and fan the result out. The conditional update
// (WHERE id = ? AND version = ?) is the only serialization point; two
// racing writers cannot both bump the same version.
type TaskService struct {
	db     *gorm.DB
	logs   *ActionLogService
	hub    Publisher
	logger *zap.SugaredLogger
}

func NewTaskService(db *gorm.DB, logs *ActionLogService, hub Publisher, logger *zap.SugaredLogger) *TaskService {
	return &TaskService{db: db, logs: logs, hub: hub, logger: logger}
}

// Create makes a new task at version 1. No version gate applies: there is
// no prior version to check against.
func (s *TaskService) Create(req models.CreateTaskRequest, actorID, originID string) (models.TaskResponse, error) {
	title, status, priority, err := normalizeTaskFields(req.Title, req.Status, req.Priority)
	if err != nil {
		return models.TaskResponse{}, err
	}
	assigneeID, err := s.resolveAssignee(req.AssignedTo)
	if err != nil {
		return models.TaskResponse{}, err
	}

	task := models.Task{
		ID:             utils.GenerateID(),
		Title:          title,
		Description:    req.Description,
		Status:         status,
		Priority:       priority,
		AssignedToID:   assigneeID,
		DueDate:        req.DueDate,
		LastEditedByID: &actorID,
		Version:        1,
	}
	if err := s.db.Create(&task).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return models.TaskResponse{}, &UniqueConstraintError{Message: "Task title must be unique."}
		}
		return models.TaskResponse{}, err
	}

	joined, err := s.getJoined(task.ID)
	if err != nil {
		return models.TaskResponse{}, err
	}
	resp := models.NewTaskResponse(joined)
	s.audit(models.ActionAdd, task.ID, actorID, fmt.Sprintf("Created task %q", title))
	s.hub.Publish(EventTaskCreated, map[string]interface{}{"task": resp}, originID)
	return resp, nil
}

// List returns every task, newest first, with user references joined.
func (s *TaskService) List() ([]models.TaskResponse, error) {
	var tasks []models.Task
	err := s.db.Preload("AssignedTo").Preload("LastEditedBy").
		Order("created_at DESC").
		Find(&tasks).Error
	if err != nil {
		return nil, err
	}
	responses := make([]models.TaskResponse, len(tasks))
	for i := range tasks {
		responses[i] = models.NewTaskResponse(&tasks[i])
	}
	return responses, nil
}

// Get returns one task with user references joined.
func (s *TaskService) Get(id string) (models.TaskResponse, error) {
	joined, err := s.getJoined(id)
	if err != nil {
		return models.TaskResponse{}, err
	}
	return models.NewTaskResponse(joined), nil
}

// Update is the edit operation: a whole-document, version-gated replace of
// the task's fields. With ForceOverwrite the gate is bypassed and the
// client's copy wins unconditionally.
func (s *TaskService) Update(id string, req models.UpdateTaskRequest, actorID, originID string) (models.TaskResponse, error) {
	title, status, priority, err := normalizeTaskFields(req.Title, req.Status, req.Priority)
	if err != nil {
		return models.TaskResponse{}, err
	}
	assigneeID, err := s.resolveAssignee(req.AssignedTo)
	if err != nil {
		return models.TaskResponse{}, err
	}

	for attempt := 0; attempt < casRetries; attempt++ {
		task, err := s.getTask(id)
		if err != nil {
			return models.TaskResponse{}, err
		}
		if !CheckVersion(task.Version, req.Version, req.ForceOverwrite) {
			return s.conflict(id, *req.Version)
		}

		applied, err := s.applyVersioned(task, actorID, map[string]interface{}{
			"title":          title,
			"description":    req.Description,
			"status":         status,
			"priority":       priority,
			"assigned_to_id": assigneeID,
			"due_date":       req.DueDate,
		})
		if err != nil {
			return models.TaskResponse{}, err
		}
		if !applied {
			// Another writer got in between our read and our write. A
			// version-checked request is now stale; unchecked and forced
			// requests reload and retry.
			if req.Version != nil && !req.ForceOverwrite {
				return s.conflict(id, *req.Version)
			}
			continue
		}

		joined, err := s.getJoined(id)
		if err != nil {
			return models.TaskResponse{}, err
		}
		resp := models.NewTaskResponse(joined)
		s.audit(models.ActionEdit, id, actorID, fmt.Sprintf("Edited task %q", joined.Title))
		s.hub.Publish(EventTaskUpdated, map[string]interface{}{"task": resp}, originID)
		return resp, nil
	}
	return models.TaskResponse{}, fmt.Errorf("task %s: update contention not resolved after %d attempts", id, casRetries)
}

// ForceUpdate is the explicit overwrite-server resolution action: identical
// to Update with the version gate bypassed.
func (s *TaskService) ForceUpdate(id string, req models.UpdateTaskRequest, actorID, originID string) (models.TaskResponse, error) {
	req.Version = nil
	req.ForceOverwrite = true
	return s.Update(id, req, actorID, originID)
}

// Delete removes a task. The audit entry is written first so it references
// a record that still logically exists; both failures after that point are
// surfaced, never rolled back.
func (s *TaskService) Delete(id, actorID, originID string) error {
	task, err := s.getTask(id)
	if err != nil {
		return err
	}

	s.audit(models.ActionDelete, id, actorID, fmt.Sprintf("Deleted task %q", task.Title))
	if err := s.db.Delete(&models.Task{}, "id = ?", id).Error; err != nil {
		return err
	}
	s.hub.Publish(EventTaskDeleted, map[string]interface{}{"taskId": id}, originID)
	return nil
}

// Move changes only the task's column, version-gated like an edit.
func (s *TaskService) Move(id string, req models.MoveTaskRequest, actorID, originID string) (models.TaskResponse, error) {
	if !models.IsValidStatus(req.Status) {
		return models.TaskResponse{}, &ValidationError{Message: "Invalid status. Must be one of: Todo, In Progress, Done."}
	}

	for attempt := 0; attempt < casRetries; attempt++ {
		task, err := s.getTask(id)
		if err != nil {
			return models.TaskResponse{}, err
		}
		if !CheckVersion(task.Version, req.Version, false) {
			return s.conflict(id, *req.Version)
		}

		applied, err := s.applyVersioned(task, actorID, map[string]interface{}{
			"status": req.Status,
		})
		if err != nil {
			return models.TaskResponse{}, err
		}
		if !applied {
			if req.Version != nil {
				return s.conflict(id, *req.Version)
			}
			continue
		}

		joined, err := s.getJoined(id)
		if err != nil {
			return models.TaskResponse{}, err
		}
		resp := models.NewTaskResponse(joined)
		s.audit(models.ActionDragDrop, id, actorID,
			fmt.Sprintf("Moved task %q from %s to %s", task.Title, task.Status, req.Status))
		s.hub.Publish(EventTaskMoved, map[string]interface{}{"task": resp}, originID)
		return resp, nil
	}
	return models.TaskResponse{}, fmt.Errorf("task %s: move contention not resolved after %d attempts", id, casRetries)
}

// Assign sets or clears the task's assignee. No version gate: the wire
// contract carries no client version for assignment.
func (s *TaskService) Assign(id string, assignedTo *string, actorID, originID string) (models.TaskResponse, error) {
	assigneeID, err := s.resolveAssignee(assignedTo)
	if err != nil {
		return models.TaskResponse{}, err
	}
	return s.applyAssignment(id, assigneeID, actorID, originID)
}

// SmartAssign picks the least-loaded user (fewest Todo / In Progress tasks)
// and assigns the task to them. Recomputed fresh on every call; the board
// is small enough that a full scan is fine. Returns the assignee and their
// active task count including this task.
func (s *TaskService) SmartAssign(id, actorID, originID string) (models.TaskResponse, *models.UserRef, int64, error) {
	if _, err := s.getTask(id); err != nil {
		return models.TaskResponse{}, nil, 0, err
	}

	// A fixed enumeration order makes tie-breaking total: first user by
	// creation time (then id) wins.
	var users []models.User
	if err := s.db.Order("created_at ASC, id ASC").Find(&users).Error; err != nil {
		return models.TaskResponse{}, nil, 0, err
	}
	if len(users) == 0 {
		return models.TaskResponse{}, nil, 0, &NotFoundError{Message: "No users available for assignment."}
	}

	counts, err := s.activeTaskCounts()
	if err != nil {
		return models.TaskResponse{}, nil, 0, err
	}

	pick, activeCount := PickLeastLoaded(users, counts)
	resp, err := s.applyAssignment(id, &pick.ID, actorID, originID)
	if err != nil {
		return models.TaskResponse{}, nil, 0, err
	}
	return resp, models.NewUserRef(&pick), activeCount + 1, nil
}

// activeTaskCounts maps user id to the number of Todo / In Progress tasks
// assigned to them. Users with no active tasks are simply absent.
func (s *TaskService) activeTaskCounts() (map[string]int64, error) {
	var rows []struct {
		AssignedToID string
		Total        int64
	}
	err := s.db.Model(&models.Task{}).
		Select("assigned_to_id, COUNT(*) AS total").
		Where("status IN ? AND assigned_to_id IS NOT NULL", []string{models.StatusTodo, models.StatusInProgress}).
		Group("assigned_to_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.AssignedToID] = row.Total
	}
	return counts, nil
}

func (s *TaskService) applyAssignment(id string, assigneeID *string, actorID, originID string) (models.TaskResponse, error) {
	for attempt := 0; attempt < casRetries; attempt++ {
		task, err := s.getTask(id)
		if err != nil {
			return models.TaskResponse{}, err
		}

		applied, err := s.applyVersioned(task, actorID, map[string]interface{}{
			"assigned_to_id": assigneeID,
		})
		if err != nil {
			return models.TaskResponse{}, err
		}
		if !applied {
			continue
		}

		joined, err := s.getJoined(id)
		if err != nil {
			return models.TaskResponse{}, err
		}
		resp := models.NewTaskResponse(joined)
		details := fmt.Sprintf("Unassigned task %q", task.Title)
		if joined.AssignedTo != nil {
			details = fmt.Sprintf("Assigned task %q to %s", task.Title, joined.AssignedTo.GetDisplayName())
		}
		s.audit(models.ActionAssign, id, actorID, details)
		s.hub.Publish(EventTaskUpdated, map[string]interface{}{"task": resp}, originID)
		return resp, nil
	}
	return models.TaskResponse{}, fmt.Errorf("task %s: assignment contention not resolved after %d attempts", id, casRetries)
}

// applyVersioned performs the compare-and-swap write: the update only lands
// if the stored version still matches the one the caller loaded, and the
// version increments in the same statement. Returns false when another
// writer won the race.
func (s *TaskService) applyVersioned(task *models.Task, actorID string, fields map[string]interface{}) (bool, error) {
	fields["last_edited_by_id"] = actorID
	fields["version"] = gorm.Expr("version + 1")

	res := s.db.Model(&models.Task{}).
		Where("id = ? AND version = ?", task.ID, task.Version).
		Updates(fields)
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrDuplicatedKey) {
			return false, &UniqueConstraintError{Message: "Task title must be unique."}
		}
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// conflict reloads the authoritative record and wraps it in a
// VersionConflictError. Nothing has been mutated when this is returned.
func (s *TaskService) conflict(id string, clientVersion int64) (models.TaskResponse, error) {
	joined, err := s.getJoined(id)
	if err != nil {
		return models.TaskResponse{}, err
	}
	return models.TaskResponse{}, &VersionConflictError{
		CurrentVersion: joined.Version,
		ClientVersion:  clientVersion,
		ServerTask:     models.NewTaskResponse(joined),
	}
}

func (s *TaskService) getTask(id string) (*models.Task, error) {
	var task models.Task
	if err := s.db.First(&task, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Message: "Task not found."}
		}
		return nil, err
	}
	return &task, nil
}

func (s *TaskService) getJoined(id string) (*models.Task, error) {
	var task models.Task
	err := s.db.Preload("AssignedTo").Preload("LastEditedBy").
		First(&task, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Message: "Task not found."}
		}
		return nil, err
	}
	return &task, nil
}

func (s *TaskService) resolveAssignee(assignedTo *string) (*string, error) {
	if assignedTo == nil || *assignedTo == "" {
		return nil, nil
	}
	var user models.User
	if err := s.db.First(&user, "id = ?", *assignedTo).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Message: "Assigned user not found."}
		}
		return nil, err
	}
	return &user.ID, nil
}

// audit appends the log entry for an accepted mutation. Best-effort: the
// mutation is already durable, a log failure is surfaced to the logs, not
// to the client.
func (s *TaskService) audit(actionType, taskID, actorID, details string) {
	if err := s.logs.Record(actionType, taskID, actorID, details); err != nil {
		s.logger.Errorw("failed to write action log",
			"actionType", actionType,
			"taskId", taskID,
			"error", err,
		)
	}
}

// normalizeTaskFields trims and validates the shared create/edit fields,
// applying the column and priority defaults.
func normalizeTaskFields(title, status, priority string) (string, string, string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", "", "", &ValidationError{Message: "Title is required."}
	}
	if models.IsReservedTitle(title) {
		return "", "", "", &ValidationError{Message: "Task title cannot match a column name."}
	}
	if status == "" {
		status = models.StatusTodo
	} else if !models.IsValidStatus(status) {
		return "", "", "", &ValidationError{Message: "Invalid status. Must be one of: Todo, In Progress, Done."}
	}
	if priority == "" {
		priority = models.PriorityMedium
	} else if !models.IsValidPriority(priority) {
		return "", "", "", &ValidationError{Message: "Invalid priority. Must be one of: Low, Medium, High."}
	}
	return title, status, priority, nil
}
