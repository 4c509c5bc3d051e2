package models

import "time"

// ProgressSummary aggregates task outcomes across every plan of a session.
type ProgressSummary struct {
	TotalPlans     int     `json:"total_plans"`
	ActivePlans    int     `json:"active_plans"`
	TotalTasks     int     `json:"total_tasks"`
	CompletedTasks int     `json:"completed_tasks"`
	SkippedTasks   int     `json:"skipped_tasks"`
	PendingTasks   int     `json:"pending_tasks"`
	CompletionRate float64 `json:"completion_rate"` // CompletedTasks / (TotalTasks - SkippedTasks)
}

// ModuleProgress tracks completed topics per questionnaire module.
type ModuleProgress struct {
	ModuleID          string     `json:"module_id"`
	CompletedCount    int        `json:"completed_count"`
	TotalCount        int        `json:"total_count"`
	LastCompletedDate *string    `json:"last_completed_date,omitempty"` // YYYY-MM-DD
	lastCompletedAt   *time.Time
}

// MarkCompleted records one completed task at the given time.
func (m *ModuleProgress) MarkCompleted(at *time.Time) {
	m.CompletedCount++
	if at == nil {
		return
	}
	if m.lastCompletedAt == nil || at.After(*m.lastCompletedAt) {
		t := *at
		m.lastCompletedAt = &t
		day := t.Format("2006-01-02")
		m.LastCompletedDate = &day
	}
}

// ProgressReportResponse is the payload of GET /api/sessions/:sessionID/progress.
type ProgressReportResponse struct {
	SessionID   string           `json:"session_id"`
	Summary     ProgressSummary  `json:"summary"`
	Modules     []ModuleProgress `json:"modules"`
	GeneratedAt time.Time        `json:"generated_at"`
}
