package handlers

import (
	"net/http"

	"binaryledger/internal/handlers/business"
	"binaryledger/internal/models"
	dbconfig "binaryledger/pkg/config"

	"github.com/gin-gonic/gin"
)

// CreateWithdrawalRequest represents the request payload for a withdrawal
type CreateWithdrawalRequest struct {
	AccountID     string  `json:"account_id" binding:"required"`
	Amount        float64 `json:"amount" binding:"required"`
	WalletAddress string  `json:"wallet_address" binding:"required"`
}

// ReviewWithdrawalRequest represents the admin review decision
type ReviewWithdrawalRequest struct {
	Approve bool   `json:"approve"`
	Note    string `json:"note"`
}

// AdvanceWithdrawalRequest represents a processing/completed transition
type AdvanceWithdrawalRequest struct {
	Status models.WithdrawalStatus `json:"status" binding:"required"`
	TxHash string                  `json:"tx_hash"`
}

// CreateWithdrawal validates and records a withdrawal request
func CreateWithdrawal(c *gin.Context) {
	var req CreateWithdrawalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	withdrawal, err := business.CreateWithdrawal(req.AccountID, req.Amount, req.WalletAddress)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, withdrawal)
}

// GetWithdrawal returns a specific withdrawal by ID
func GetWithdrawal(c *gin.Context) {
	var withdrawal models.Withdrawal
	if err := dbconfig.DB.First(&withdrawal, "id = ?", c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Record not found"})
		return
	}
	c.JSON(http.StatusOK, withdrawal)
}

// ListWithdrawals returns paginated withdrawals with optional filters
func ListWithdrawals(c *gin.Context) {
	page, pageSize, offset := parsePagination(c)

	query := dbconfig.DB.Model(&models.Withdrawal{})
	if accountID := c.Query("account_id"); accountID != "" {
		query = query.Where("account_id = ?", accountID)
	}
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	var withdrawals []models.Withdrawal
	if err := query.Order("created_at desc").
		Offset(offset).Limit(pageSize).Find(&withdrawals).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":       withdrawals,
		"pagination": paginationBlock(page, pageSize, total),
	})
}

// ReviewWithdrawal approves or rejects a pending withdrawal
func ReviewWithdrawal(c *gin.Context) {
	var req ReviewWithdrawalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	withdrawal, err := business.ReviewWithdrawal(c.Param("id"), req.Approve, req.Note)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, withdrawal)
}

// AdvanceWithdrawal moves an approved withdrawal through processing to completed
func AdvanceWithdrawal(c *gin.Context) {
	var req AdvanceWithdrawalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	withdrawal, err := business.AdvanceWithdrawal(c.Param("id"), req.Status, req.TxHash)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, withdrawal)
}
