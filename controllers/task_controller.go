package controllers

import (
	"errors"
	"net/http"

	"github.com/suraj371k/trello/config"
	"github.com/suraj371k/trello/models"
	"github.com/suraj371k/trello/services"

	"github.com/gin-gonic/gin"
)

type TaskController struct {
	tasks *services.TaskService
}

func NewTaskController(tasks *services.TaskService) *TaskController {
	return &TaskController{tasks: tasks}
}

// originID returns the real-time connection id of the caller, if it sent
// one. The broadcaster skips that connection so the originator does not
// receive its own mutation twice.
func originID(c *gin.Context) string {
	return c.GetHeader("X-Client-ID")
}

// respondError maps the service error taxonomy onto HTTP statuses. Version
// conflicts carry both versions and the authoritative server record.
func respondError(c *gin.Context, err error) {
	var validationErr *services.ValidationError
	var notFoundErr *services.NotFoundError
	var uniqueErr *services.UniqueConstraintError
	var conflictErr *services.VersionConflictError

	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, gin.H{"message": validationErr.Message})
	case errors.As(err, &notFoundErr):
		c.JSON(http.StatusNotFound, gin.H{"message": notFoundErr.Message})
	case errors.As(err, &uniqueErr):
		c.JSON(http.StatusConflict, gin.H{"message": uniqueErr.Message})
	case errors.As(err, &conflictErr):
		c.JSON(http.StatusConflict, gin.H{
			"conflict":       true,
			"message":        "Task was modified by someone else. Review the current version before retrying.",
			"currentVersion": conflictErr.CurrentVersion,
			"clientVersion":  conflictErr.ClientVersion,
			"serverTask":     conflictErr.ServerTask,
		})
	default:
		config.Logger.Errorw("unhandled error", "path", c.Request.URL.Path, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error."})
	}
}

// CreateTask handles POST /api/tasks/create.
func (tc *TaskController) CreateTask(c *gin.Context) {
	var req models.CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body."})
		return
	}

	task, err := tc.tasks.Create(req, c.GetString("uid"), originID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Task created successfully.", "task": task})
}

// GetTasks handles GET /api/tasks/.
func (tc *TaskController) GetTasks(c *gin.Context) {
	tasks, err := tc.tasks.List()
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"tasks": tasks})
}

// GetTask handles GET /api/tasks/:id.
func (tc *TaskController) GetTask(c *gin.Context) {
	task, err := tc.tasks.Get(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"task": task})
}

// UpdateTask handles PUT /api/tasks/:id.
func (tc *TaskController) UpdateTask(c *gin.Context) {
	var req models.UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body."})
		return
	}

	task, err := tc.tasks.Update(c.Param("id"), req, c.GetString("uid"), originID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":        "Task updated successfully.",
		"task":           task,
		"forceOverwrite": req.ForceOverwrite,
	})
}

// ForceUpdateTask handles PUT /api/tasks/:id/force, the explicit
// overwrite-server conflict resolution.
func (tc *TaskController) ForceUpdateTask(c *gin.Context) {
	var req models.UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body."})
		return
	}

	task, err := tc.tasks.ForceUpdate(c.Param("id"), req, c.GetString("uid"), originID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":        "Task updated successfully.",
		"task":           task,
		"forceOverwrite": true,
	})
}

// DeleteTask handles DELETE /api/tasks/:id.
func (tc *TaskController) DeleteTask(c *gin.Context) {
	if err := tc.tasks.Delete(c.Param("id"), c.GetString("uid"), originID(c)); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Task deleted successfully."})
}

// MoveTask handles PATCH /api/tasks/:id/move.
func (tc *TaskController) MoveTask(c *gin.Context) {
	var req models.MoveTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body."})
		return
	}

	task, err := tc.tasks.Move(c.Param("id"), req, c.GetString("uid"), originID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Task moved successfully.", "task": task})
}

// AssignTask handles PATCH /api/tasks/:id/assign.
func (tc *TaskController) AssignTask(c *gin.Context) {
	var req models.AssignTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body."})
		return
	}

	task, err := tc.tasks.Assign(c.Param("id"), req.AssignedTo, c.GetString("uid"), originID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Task assigned successfully.", "task": task})
}

// SmartAssignTask handles PATCH /api/tasks/:id/smart-assign.
func (tc *TaskController) SmartAssignTask(c *gin.Context) {
	task, assignee, taskCount, err := tc.tasks.SmartAssign(c.Param("id"), c.GetString("uid"), originID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":    "Task assigned successfully.",
		"task":       task,
		"assignedTo": assignee,
		"taskCount":  taskCount,
	})
}
