package routes

import (
	"binaryledger/internal/handlers"

	"github.com/gin-gonic/gin"
)

// SetupDividendRoutes sets up routes for the dividend pool
func SetupDividendRoutes(r *gin.Engine) {
	dividends := r.Group("/dividends")
	{
		dividends.GET("/pool", handlers.GetDividendPool)
		dividends.GET("/records", handlers.ListDividendRecords)
		dividends.POST("/distribute", handlers.DistributeDividends)
	}
}
