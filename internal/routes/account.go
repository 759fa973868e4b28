package routes

import (
	"binaryledger/internal/handlers"

	"github.com/gin-gonic/gin"
)

// SetupAccountRoutes sets up routes for account management
func SetupAccountRoutes(r *gin.Engine) {
	accounts := r.Group("/accounts")
	{
		accounts.GET("", handlers.ListAccounts)
		accounts.GET("/:id", handlers.GetAccount)
		accounts.POST("", handlers.CreateAccount)
		accounts.POST("/:id/freeze", handlers.FreezeAccount)
		accounts.POST("/:id/unfreeze", handlers.UnfreezeAccount)
	}
}
