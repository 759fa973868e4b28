package handlers

import (
	"net/http"

	"binaryledger/internal/handlers/business"
	"binaryledger/internal/models"
	dbconfig "binaryledger/pkg/config"

	"github.com/gin-gonic/gin"
)

// GetDividendPool returns the undistributed pool balance
func GetDividendPool(c *gin.Context) {
	balance, err := business.PoolBalance()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"pool_balance": balance})
}

// DistributeDividends triggers a distribution cycle manually. The scheduler
// runs the same operation on its own cadence.
func DistributeDividends(c *gin.Context) {
	summary, err := business.DistributeDividends(dbconfig.Params.Binary())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, summary)
}

// ListDividendRecords returns paginated dividend payouts with optional filters
func ListDividendRecords(c *gin.Context) {
	page, pageSize, offset := parsePagination(c)

	query := dbconfig.DB.Model(&models.DividendRecord{})
	if accountID := c.Query("account_id"); accountID != "" {
		query = query.Where("account_id = ?", accountID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	var records []models.DividendRecord
	if err := query.Order("id desc").
		Offset(offset).Limit(pageSize).Find(&records).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":       records,
		"pagination": paginationBlock(page, pageSize, total),
	})
}
