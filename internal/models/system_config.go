package models

import "time"

// SystemLog represents a record in system_logs table
type SystemLog struct {
	ID         uint      `gorm:"primarykey" json:"id"`
	Level      string    `gorm:"column:level;size:10;not null" json:"level"` // DEBUG, INFO, WARN, ERROR, FATAL
	Message    string    `gorm:"column:message;type:text;not null" json:"message"`
	Module     string    `gorm:"column:module;size:100" json:"module"` // e.g. "wallet", "binary"
	ErrorStack string    `gorm:"column:error_stack;type:text" json:"error_stack"`
	Meta       JSONMap   `gorm:"column:meta;type:jsonb" json:"meta"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (SystemLog) TableName() string {
	return "system_logs"
}

// SystemParams represents a record in system_params table. The params
// provider reads the active preset for a name and hot-reloads it on a TTL.
type SystemParams struct {
	ID           uint      `gorm:"primarykey" json:"id"`
	Name         string    `gorm:"column:name;size:128;not null;index" json:"name"`
	IsActive     bool      `gorm:"column:is_active;default:true" json:"is_active"`
	PresetID     uint      `gorm:"column:preset_id" json:"preset_id"`
	PresetName   string    `gorm:"column:preset_name;default:''" json:"preset_name"`
	ParamsConfig JSONMap   `gorm:"column:params_config;type:jsonb" json:"params_config"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (SystemParams) TableName() string {
	return "system_params"
}
