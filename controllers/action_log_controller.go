package controllers

import (
	"net/http"

	"github.com/suraj371k/trello/services"

	"github.com/gin-gonic/gin"
)

type ActionLogController struct {
	logs *services.ActionLogService
}

func NewActionLogController(logs *services.ActionLogService) *ActionLogController {
	return &ActionLogController{logs: logs}
}

// GetActionLogs handles GET /api/tasks/logs: the board-wide feed, newest
// first, capped at the global limit.
func (alc *ActionLogController) GetActionLogs(c *gin.Context) {
	actionLogs, err := alc.logs.List()
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"actionLogs": actionLogs})
}

// GetActionLogsByTask handles GET /api/tasks/:id/logs: the full history of
// one task, newest first.
func (alc *ActionLogController) GetActionLogsByTask(c *gin.Context) {
	actionLogs, err := alc.logs.ListByTask(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"actionLogs": actionLogs})
}
