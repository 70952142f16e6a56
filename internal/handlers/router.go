package handlers

import (
	"todo-api/internal/config"
	"todo-api/internal/middleware"
	"todo-api/internal/monitoring"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// NewRouter builds the HTTP surface: the four task endpoints under
// /tasks plus health and metrics. Unmatched routes fall through to
// gin's default 404.
func NewRouter(cfg *config.Config, taskHandler *TaskHandler) *gin.Engine {
	router := gin.New()
	router.Use(middleware.RecoveryWithLog())
	router.Use(monitoring.MetricsMiddleware())
	router.Use(cors.Default())

	if cfg.RateLimit.Enabled {
		router.Use(middleware.RateLimit(cfg.RateLimit))
	}

	tasks := router.Group("/tasks")
	{
		tasks.POST("/add", taskHandler.AddTask)
		tasks.GET("/all", taskHandler.GetTasks)
		tasks.PUT("/update/:id", taskHandler.UpdateTask)
		tasks.DELETE("/delete/:id", taskHandler.DeleteTask)
	}

	router.GET("/health", monitoring.HealthHandler)
	router.GET("/metrics", monitoring.MetricsHandler)

	return router
}
