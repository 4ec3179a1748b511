package models

import "time"

const (
	ToolInputText   = "text"
	ToolInputNumber = "number"
	ToolInputArray  = "array"
	ToolInputJSON   = "json"
	ToolInputFile   = "file"

	ToolOutputText    = "text"
	ToolOutputNumber  = "number"
	ToolOutputArray   = "array"
	ToolOutputJSON    = "json"
	ToolOutputBoolean = "boolean"
)

type Tool struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Name        string    `json:"name" gorm:"type:varchar(200);not null;uniqueIndex:idx_tools_name_category,priority:1"`
	Description string    `json:"description" gorm:"type:text;not null"`
	CategoryID  uint      `json:"category" gorm:"not null;uniqueIndex:idx_tools_name_category,priority:2"`
	InputType   string    `json:"input_type" gorm:"type:varchar(20);not null;default:text"`
	OutputType  string    `json:"output_type" gorm:"type:varchar(20);not null;default:text"`
	IsActive    bool      `json:"is_active" gorm:"not null"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
