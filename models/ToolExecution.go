package models

import "time"

const (
	ExecutionSuccess = "success"
	ExecutionFailed  = "failed"
	ExecutionRunning = "running"
)

// ToolExecution is the audit record written for every tool invocation.
// Input and output payloads are stored as raw JSON.
type ToolExecution struct {
	ID            uint      `json:"id" gorm:"primaryKey"`
	ToolID        uint      `json:"tool" gorm:"not null;index"`
	InputData     string    `json:"input_data" gorm:"type:text;not null"`
	OutputData    string    `json:"output_data" gorm:"type:text"`
	ExecutionTime float64   `json:"execution_time"`
	Status        string    `json:"status" gorm:"type:varchar(20);not null;default:running;index"`
	ErrorMessage  string    `json:"error_message" gorm:"type:text"`
	CreatedAt     time.Time `json:"created_at"`
}
