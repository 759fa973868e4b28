package handlers

import (
	"net/http"

	"binaryledger/internal/models"
	"binaryledger/internal/wallet"
	dbconfig "binaryledger/pkg/config"

	"github.com/gin-gonic/gin"
)

// TransferRequest represents the request payload for a U transfer
type TransferRequest struct {
	FromAccountID string  `json:"from_account_id" binding:"required"`
	ToAccountID   string  `json:"to_account_id" binding:"required"`
	Amount        float64 `json:"amount" binding:"required"`
	Description   string  `json:"description"`
}

// ConvertPointsRequest represents the request payload for converting mining points
type ConvertPointsRequest struct {
	AccountID string  `json:"account_id" binding:"required"`
	Amount    float64 `json:"amount" binding:"required"`
}

// AdminAdjustRequest represents the request payload for a manual balance adjustment
type AdminAdjustRequest struct {
	AccountID   string  `json:"account_id" binding:"required"`
	Amount      float64 `json:"amount" binding:"required"`
	Description string  `json:"description" binding:"required"`
	OrderID     *string `json:"order_id"`
}

// GetBalance returns the balance snapshot for an account
func GetBalance(c *gin.Context) {
	snapshot, err := wallet.GetBalance(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, snapshot)
}

// Transfer moves U between two accounts
func Transfer(c *gin.Context) {
	var req TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	description := req.Description
	if description == "" {
		description = "transfer"
	}
	if err := wallet.Transfer(req.FromAccountID, req.ToAccountID, req.Amount, description); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Transfer completed"})
}

// ConvertPoints converts mining points into U at 1:1
func ConvertPoints(c *gin.Context) {
	var req ConvertPointsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := wallet.ConvertPoints(req.AccountID, req.Amount); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Points converted"})
}

// AdminAdjust credits or debits an account manually. A negative amount
// debits; the entry always lands in the ledger as admin_adjust.
func AdminAdjust(c *gin.Context) {
	var req AdminAdjustRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var balance float64
	var err error
	if req.Amount >= 0 {
		balance, err = wallet.Add(req.AccountID, req.Amount, models.RewardAdminAdjust, req.Description, nil, req.OrderID)
	} else {
		balance, err = wallet.Deduct(req.AccountID, -req.Amount, models.RewardAdminAdjust, req.Description, nil, req.OrderID)
	}
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"balance_after": balance})
}

// ListTransactions returns paginated ledger entries with optional filters
func ListTransactions(c *gin.Context) {
	page, pageSize, offset := parsePagination(c)

	query := dbconfig.DB.Model(&models.Transaction{})
	if accountID := c.Query("account_id"); accountID != "" {
		query = query.Where("account_id = ?", accountID)
	}
	if txType := c.Query("type"); txType != "" {
		query = query.Where("type = ?", txType)
	}
	if currency := c.Query("currency"); currency != "" {
		query = query.Where("currency = ?", currency)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	var transactions []models.Transaction
	if err := query.Order("id desc").
		Offset(offset).Limit(pageSize).Find(&transactions).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":       transactions,
		"pagination": paginationBlock(page, pageSize, total),
	})
}

// GetTransaction returns a specific ledger entry by ID
func GetTransaction(c *gin.Context) {
	var transaction models.Transaction
	if err := dbconfig.DB.First(&transaction, "id = ?", c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Record not found"})
		return
	}
	c.JSON(http.StatusOK, transaction)
}
