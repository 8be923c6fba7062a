package services

import (
	"github.com/suraj371k/trello/models"
	"github.com/suraj371k/trello/utils"

	"gorm.io/gorm"
)

// GlobalLogLimit caps the board-wide action log feed.
const GlobalLogLimit = 20

// ActionLogService owns the append-only audit trail. It never touches
// tasks; retention and rotation are external concerns.
type ActionLogService struct {
	db *gorm.DB
}

func NewActionLogService(db *gorm.DB) *ActionLogService {
	return &ActionLogService{db: db}
}

// Record appends one audit entry for an accepted mutation.
func (s *ActionLogService) Record(actionType, taskID, performedBy, details string) error {
	entry := models.ActionLog{
		ID:            utils.GenerateID(),
		ActionType:    actionType,
		TaskID:        taskID,
		PerformedByID: performedBy,
		Details:       details,
	}
	return s.db.Create(&entry).Error
}

// List returns the newest entries across the whole board, capped at
// GlobalLogLimit, with task and user references joined.
func (s *ActionLogService) List() ([]models.ActionLogResponse, error) {
	var entries []models.ActionLog
	err := s.db.Preload("Task").Preload("PerformedBy").
		Order("timestamp DESC").
		Limit(GlobalLogLimit).
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return toLogResponses(entries), nil
}

// ListByTask returns every entry for one task, newest first. Uncapped: the
// per-task history is the full audit trail.
func (s *ActionLogService) ListByTask(taskID string) ([]models.ActionLogResponse, error) {
	var entries []models.ActionLog
	err := s.db.Preload("Task").Preload("PerformedBy").
		Where("task_id = ?", taskID).
		Order("timestamp DESC").
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return toLogResponses(entries), nil
}

func toLogResponses(entries []models.ActionLog) []models.ActionLogResponse {
	responses := make([]models.ActionLogResponse, len(entries))
	for i := range entries {
		responses[i] = models.NewActionLogResponse(&entries[i])
	}
	return responses
}
