package handlers

import (
	"net/http"

	"binaryledger/internal/handlers/business"
	"binaryledger/internal/models"
	dbconfig "binaryledger/pkg/config"

	"github.com/gin-gonic/gin"
)

// EnrollAgentRequest represents the request payload for agent enrollment
type EnrollAgentRequest struct {
	AccountID string `json:"account_id" binding:"required"`
}

// EnrollAgent collects the join fee and places the account into the tree
func EnrollAgent(c *gin.Context) {
	var req EnrollAgentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	member, err := business.BecomeAgent(req.AccountID, dbconfig.Params.Binary())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, member)
}

// GetBinaryMember returns the tree position of an account
func GetBinaryMember(c *gin.Context) {
	var member models.BinaryMember
	if err := dbconfig.DB.First(&member, "account_id = ?", c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Record not found"})
		return
	}
	c.JSON(http.StatusOK, member)
}

// GetBinaryChildren returns the direct children of a node
func GetBinaryChildren(c *gin.Context) {
	var children []models.BinaryMember
	if err := dbconfig.DB.
		Where("upline_id = ?", c.Param("id")).
		Order("position_side asc").
		Find(&children).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, children)
}

// ListPairingRecords returns paginated settlements for an account
func ListPairingRecords(c *gin.Context) {
	page, pageSize, offset := parsePagination(c)

	query := dbconfig.DB.Model(&models.PairingRecord{}).
		Where("account_id = ?", c.Param("id"))

	var total int64
	if err := query.Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	var records []models.PairingRecord
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

// ReactivateMember retries the reinvest fee for a parked node
func ReactivateMember(c *gin.Context) {
	if err := business.ReactivateNode(c.Param("id"), dbconfig.Params.Binary()); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Node reactivated"})
}
