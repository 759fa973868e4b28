package routes

import (
	"binaryledger/internal/handlers"

	"github.com/gin-gonic/gin"
)

// SetupSystemConfigRoutes sets up routes for system logs and params presets
func SetupSystemConfigRoutes(r *gin.Engine) {
	logs := r.Group("/system-logs")
	{
		logs.GET("", handlers.ListSystemLogs)
		logs.GET("/:id", handlers.GetSystemLog)
		logs.POST("", handlers.CreateSystemLog)
		logs.DELETE("/:id", handlers.DeleteSystemLog)
	}

	params := r.Group("/system-params")
	{
		params.GET("", handlers.ListSystemParams)
		params.GET("/name/:name", handlers.GetSystemParamsByName)
		params.GET("/:id", handlers.GetSystemParams)
		params.POST("", handlers.CreateSystemParams)
		params.PUT("/:id", handlers.UpdateSystemParams)
		params.DELETE("/:id", handlers.DeleteSystemParams)
	}
}
