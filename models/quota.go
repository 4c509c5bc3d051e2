package models

import "time"

// AnalysisQuota counts LLM analyses requested for a session.
type AnalysisQuota struct {
	SessionID    string `gorm:"primaryKey;type:varchar(36)"`
	AnalysesUsed int    `gorm:"default:0"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// TableName specifies the table name for AnalysisQuota model.
func (AnalysisQuota) TableName() string {
	return "analysis_quotas"
}
