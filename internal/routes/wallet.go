package routes

import (
	"binaryledger/internal/handlers"

	"github.com/gin-gonic/gin"
)

// SetupWalletRoutes sets up routes for balances, transfers and the ledger
func SetupWalletRoutes(r *gin.Engine) {
	wallet := r.Group("/wallet")
	{
		wallet.GET("/balance/:id", handlers.GetBalance)
		wallet.POST("/transfer", handlers.Transfer)
		wallet.POST("/convert-points", handlers.ConvertPoints)
		wallet.POST("/adjust", handlers.AdminAdjust)
	}

	transactions := r.Group("/transactions")
	{
		transactions.GET("", handlers.ListTransactions)
		transactions.GET("/:id", handlers.GetTransaction)
	}
}
