package handlers

import (
	"errors"
	"net/http"

	"binaryledger/internal/models"
	dbconfig "binaryledger/pkg/config"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CreateAccountRequest represents the request payload for registering an account
type CreateAccountRequest struct {
	Username  string  `json:"username" binding:"required"`
	InviterID *string `json:"inviter_id"`
}

// FreezeAccountRequest represents the request payload for freezing an account
type FreezeAccountRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// CreateAccount registers a new account, optionally under an inviter
func CreateAccount(c *gin.Context) {
	var req CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.InviterID != nil {
		var inviter models.Account
		if err := dbconfig.DB.First(&inviter, "id = ?", *req.InviterID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Inviter not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
	}

	account := models.Account{
		ID:        uuid.New().String(),
		Username:  req.Username,
		InviterID: req.InviterID,
	}
	if err := dbconfig.DB.Create(&account).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, account)
}

// GetAccount returns a specific account by ID
func GetAccount(c *gin.Context) {
	var account models.Account
	if err := dbconfig.DB.First(&account, "id = ?", c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Record not found"})
		return
	}
	c.JSON(http.StatusOK, account)
}

// ListAccounts returns paginated accounts with optional filters
func ListAccounts(c *gin.Context) {
	page, pageSize, offset := parsePagination(c)

	query := dbconfig.DB.Model(&models.Account{})
	if agent := c.Query("is_agent"); agent == "true" || agent == "false" {
		query = query.Where("is_agent = ?", agent == "true")
	}
	if frozen := c.Query("is_frozen"); frozen == "true" || frozen == "false" {
		query = query.Where("is_frozen = ?", frozen == "true")
	}
	if inviter := c.Query("inviter_id"); inviter != "" {
		query = query.Where("inviter_id = ?", inviter)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	var accounts []models.Account
	if err := query.Order("created_at desc").
		Offset(offset).Limit(pageSize).Find(&accounts).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":       accounts,
		"pagination": paginationBlock(page, pageSize, total),
	})
}

// FreezeAccount blocks all outbound movement from an account
func FreezeAccount(c *gin.Context) {
	var req FreezeAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	res := dbconfig.DB.Model(&models.Account{}).
		Where("id = ?", c.Param("id")).
		Updates(map[string]interface{}{
			"is_frozen":     true,
			"freeze_reason": req.Reason,
		})
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": res.Error.Error()})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Record not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Account frozen"})
}

// UnfreezeAccount lifts a freeze
func UnfreezeAccount(c *gin.Context) {
	res := dbconfig.DB.Model(&models.Account{}).
		Where("id = ?", c.Param("id")).
		Updates(map[string]interface{}{
			"is_frozen":     false,
			"freeze_reason": "",
		})
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": res.Error.Error()})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Record not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Account unfrozen"})
}
