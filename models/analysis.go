package models

import "time"

// Analysis is a stored LLM reading of a comparison report.
type Analysis struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	SessionID string    `gorm:"index;type:varchar(36);not null" json:"session_id"`
	Model     string    `json:"model"`
	Redacted  bool      `json:"redacted"`
	Content   string    `gorm:"type:text" json:"content"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// TableName specifies the table name for the Analysis model.
func (Analysis) TableName() string {
	return "analyses"
}
