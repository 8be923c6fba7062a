package routes

import (
	"github.com/suraj371k/trello/config"
	"github.com/suraj371k/trello/controllers"
	"github.com/suraj371k/trello/middleware"
	"github.com/suraj371k/trello/services"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine, hub *services.Broadcaster) {
	logService := services.NewActionLogService(config.DB)
	taskService := services.NewTaskService(config.DB, logService, hub, config.Logger)

	taskController := controllers.NewTaskController(taskService)
	actionLogController := controllers.NewActionLogController(logService)
	socketController := controllers.NewSocketController(hub)
	userController := controllers.UserController{}

	// Authenticated REST API
	api := r.Group("/api")
	api.Use(middleware.AuthMiddleware())
	{
		tasks := api.Group("/tasks")
		{
			tasks.POST("/create", taskController.CreateTask)
			tasks.GET("/", taskController.GetTasks)
			tasks.GET("/logs", actionLogController.GetActionLogs)
			tasks.GET("/:id", taskController.GetTask)
			tasks.PUT("/:id", taskController.UpdateTask)
			tasks.PUT("/:id/force", taskController.ForceUpdateTask)
			tasks.DELETE("/:id", taskController.DeleteTask)
			tasks.PATCH("/:id/move", taskController.MoveTask)
			tasks.PATCH("/:id/assign", taskController.AssignTask)
			tasks.PATCH("/:id/smart-assign", taskController.SmartAssignTask)
			tasks.GET("/:id/logs", actionLogController.GetActionLogsByTask)
		}

		users := api.Group("/users")
		{
			users.GET("/", userController.GetUsers)
			users.GET("/me", userController.GetProfile)
		}
	}

	// Real-time channel; clients join the board room after connecting
	r.GET("/ws", socketController.Handle)

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})
}
