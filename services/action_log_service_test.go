package services

import (
	"fmt"
	"testing"
	"time"

	"github.com/suraj371k/trello/models"
	"github.com/suraj371k/trello/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedLog(t *testing.T, db *gorm.DB, taskID, actionType, details string, ts time.Time) {
	t.Helper()
	entry := models.ActionLog{
		ID:            utils.GenerateID(),
		ActionType:    actionType,
		TaskID:        taskID,
		PerformedByID: "u-1",
		Details:       details,
		Timestamp:     ts,
	}
	require.NoError(t, db.Create(&entry).Error)
}

func TestActionLogGlobalListCappedNewestFirst(t *testing.T) {
	db := newTestDB(t)
	logs := NewActionLogService(db)

	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 25; i++ {
		seedLog(t, db, "t-1", models.ActionEdit, fmt.Sprintf("edit %d", i), base.Add(time.Duration(i)*time.Second))
	}

	entries, err := logs.List()
	require.NoError(t, err)
	require.Len(t, entries, GlobalLogLimit)
	assert.Equal(t, "edit 24", entries[0].Details)
	assert.Equal(t, "edit 5", entries[len(entries)-1].Details)
}

func TestActionLogPerTaskUncapped(t *testing.T) {
	db := newTestDB(t)
	logs := NewActionLogService(db)

	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 30; i++ {
		seedLog(t, db, "t-1", models.ActionEdit, fmt.Sprintf("edit %d", i), base.Add(time.Duration(i)*time.Second))
	}
	seedLog(t, db, "t-2", models.ActionAdd, "other task", base)

	entries, err := logs.ListByTask("t-1")
	require.NoError(t, err)
	require.Len(t, entries, 30)
	assert.Equal(t, "edit 29", entries[0].Details)
}

func TestActionLogJoinsReferences(t *testing.T) {
	db := newTestDB(t)
	logs := NewActionLogService(db)

	seedUser(t, db, "u-1", "alice", time.Now())
	task := models.Task{ID: "t-live", Title: "still here", Status: models.StatusTodo, Version: 1}
	require.NoError(t, db.Create(&task).Error)

	seedLog(t, db, "t-live", models.ActionAdd, "created", time.Now())
	seedLog(t, db, "t-gone", models.ActionDelete, "deleted earlier", time.Now().Add(time.Second))

	entries, err := logs.List()
	require.NoError(t, err)
	require.Len(t, entries, 2)

	// Entry for the deleted task keeps its details but has no task join
	assert.Nil(t, entries[0].Task)
	assert.Equal(t, "deleted earlier", entries[0].Details)

	require.NotNil(t, entries[1].Task)
	assert.Equal(t, "still here", entries[1].Task.Title)
	require.NotNil(t, entries[1].PerformedBy)
	assert.Equal(t, "alice", entries[1].PerformedBy.Username)
}
