package handlers

import (
	"net/http"
	"strconv"

	"binaryledger/internal/models"
	dbconfig "binaryledger/pkg/config"

	"github.com/gin-gonic/gin"
)

// CreateSystemLogRequest represents the request payload for creating a system log
type CreateSystemLogRequest struct {
	Level      string         `json:"level" binding:"required"`   // DEBUG, INFO, WARN, ERROR, FATAL
	Message    string         `json:"message" binding:"required"` // log body
	Module     string         `json:"module"`                     // e.g. "wallet", "binary"
	ErrorStack string         `json:"error_stack"`
	Meta       models.JSONMap `json:"meta"` // optional json payload
}

// CreateSystemParamsRequest represents the request payload for a params preset
type CreateSystemParamsRequest struct {
	Name         string         `json:"name" binding:"required"`
	IsActive     *bool          `json:"is_active"`
	PresetID     uint           `json:"preset_id"`
	PresetName   string         `json:"preset_name"`
	ParamsConfig models.JSONMap `json:"params_config" binding:"required"`
}

// ListSystemLogs returns paginated system logs with optional filters
func ListSystemLogs(c *gin.Context) {
	page, pageSize, offset := parsePagination(c)

	orderField := "id"
	if of := c.Query("order_field"); of != "" {
		valid := map[string]bool{"id": true, "level": true, "created_at": true}
		if valid[of] {
			orderField = of
		}
	}
	orderType := "desc"
	if ot := c.Query("order_type"); ot == "asc" || ot == "desc" {
		orderType = ot
	}

	var query = dbconfig.DB.Model(&models.SystemLog{})
	if level := c.Query("level"); level != "" {
		query = query.Where("level = ?", level)
	}
	if module := c.Query("module"); module != "" {
		query = query.Where("module = ?", module)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	var logs []models.SystemLog
	if err := query.Order(orderField + " " + orderType).
		Offset(offset).Limit(pageSize).Find(&logs).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":       logs,
		"pagination": paginationBlock(page, pageSize, total),
	})
}

// GetSystemLog returns a specific system log by ID
func GetSystemLog(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return
	}
	var log models.SystemLog
	if err := dbconfig.DB.First(&log, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Record not found"})
		return
	}
	c.JSON(http.StatusOK, log)
}

// CreateSystemLog creates a new system log
func CreateSystemLog(c *gin.Context) {
	var req CreateSystemLogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	log := models.SystemLog{
		Level:      req.Level,
		Message:    req.Message,
		Module:     req.Module,
		ErrorStack: req.ErrorStack,
		Meta:       req.Meta,
	}
	if err := dbconfig.DB.Create(&log).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, log)
}

// DeleteSystemLog deletes a system log by ID
func DeleteSystemLog(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return
	}
	res := dbconfig.DB.Delete(&models.SystemLog{}, id)
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": res.Error.Error()})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Record not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Deleted"})
}

// ListSystemParams returns all params presets, optionally filtered by name
func ListSystemParams(c *gin.Context) {
	query := dbconfig.DB.Model(&models.SystemParams{})
	if name := c.Query("name"); name != "" {
		query = query.Where("name = ?", name)
	}
	if active := c.Query("is_active"); active == "true" || active == "false" {
		query = query.Where("is_active = ?", active == "true")
	}

	var params []models.SystemParams
	if err := query.Order("preset_id desc").Find(&params).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, params)
}

// GetSystemParams returns a specific params preset by ID
func GetSystemParams(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return
	}
	var params models.SystemParams
	if err := dbconfig.DB.First(&params, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Record not found"})
		return
	}
	c.JSON(http.StatusOK, params)
}

// GetSystemParamsByName returns the active preset for a name
func GetSystemParamsByName(c *gin.Context) {
	var params models.SystemParams
	if err := dbconfig.DB.
		Where("name = ? AND is_active = ?", c.Param("name"), true).
		Order("preset_id desc").
		First(&params).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Record not found"})
		return
	}
	c.JSON(http.StatusOK, params)
}

// CreateSystemParams creates a new params preset. Changes are picked up by
// the provider within its TTL without a restart.
func CreateSystemParams(c *gin.Context) {
	var req CreateSystemParamsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	params := models.SystemParams{
		Name:         req.Name,
		IsActive:     true,
		PresetID:     req.PresetID,
		PresetName:   req.PresetName,
		ParamsConfig: req.ParamsConfig,
	}
	if req.IsActive != nil {
		params.IsActive = *req.IsActive
	}
	if err := dbconfig.DB.Create(&params).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, params)
}

// UpdateSystemParams updates an existing params preset
func UpdateSystemParams(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return
	}

	var params models.SystemParams
	if err := dbconfig.DB.First(&params, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Record not found"})
		return
	}

	var req CreateSystemParamsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	params.Name = req.Name
	params.PresetID = req.PresetID
	params.PresetName = req.PresetName
	params.ParamsConfig = req.ParamsConfig
	if req.IsActive != nil {
		params.IsActive = *req.IsActive
	}
	if err := dbconfig.DB.Save(&params).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, params)
}

// DeleteSystemParams deletes a params preset by ID
func DeleteSystemParams(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return
	}
	res := dbconfig.DB.Delete(&models.SystemParams{}, id)
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": res.Error.Error()})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Record not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Deleted"})
}
