package routes

import (
	"binaryledger/internal/handlers"

	"github.com/gin-gonic/gin"
)

// SetupWithdrawalRoutes sets up routes for the withdrawal flow
func SetupWithdrawalRoutes(r *gin.Engine) {
	withdrawals := r.Group("/withdrawals")
	{
		withdrawals.GET("", handlers.ListWithdrawals)
		withdrawals.GET("/:id", handlers.GetWithdrawal)
		withdrawals.POST("", handlers.CreateWithdrawal)
		withdrawals.POST("/:id/review", handlers.ReviewWithdrawal)
		withdrawals.POST("/:id/advance", handlers.AdvanceWithdrawal)
	}
}
