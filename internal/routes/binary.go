package routes

import (
	"binaryledger/internal/handlers"

	"github.com/gin-gonic/gin"
)

// SetupBinaryRoutes sets up routes for the binary tree
func SetupBinaryRoutes(r *gin.Engine) {
	binary := r.Group("/binary")
	{
		binary.POST("/enroll", handlers.EnrollAgent)
		binary.GET("/members/:id", handlers.GetBinaryMember)
		binary.GET("/members/:id/children", handlers.GetBinaryChildren)
		binary.GET("/members/:id/pairings", handlers.ListPairingRecords)
		binary.POST("/members/:id/reactivate", handlers.ReactivateMember)
	}
}
