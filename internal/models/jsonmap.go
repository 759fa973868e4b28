package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
)

// JSONMap is a jsonb column helper
type JSONMap map[string]interface{}

// Value implements the driver.Valuer interface
func (j JSONMap) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return json.Marshal(j)
}

// Scan implements the sql.Scanner interface
func (j *JSONMap) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		return errors.New("failed to assert jsonb value to []byte")
	}

	return json.Unmarshal(bytes, j)
}
