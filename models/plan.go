package models

import (
	"time"

	"gorm.io/gorm"
)

// PlanStatus defines the possible statuses for a plan.
type PlanStatus string

const (
	PlanStatusActive    PlanStatus = "active"
	PlanStatusCompleted PlanStatus = "completed"
)

// Plan is the persisted action plan of a session: a few shared, low-friction next steps.
type Plan struct {
	ID          uint           `gorm:"primarykey" json:"id"`
	SessionID   string         `gorm:"index;type:varchar(36);not null" json:"session_id"`
	Title       string         `gorm:"not null" json:"title"`
	Description string         `gorm:"type:text" json:"description"`
	Status      PlanStatus     `gorm:"type:varchar(50);default:'active';not null" json:"status"`
	CreatedAt   time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
	Tasks       []PlanTask     `gorm:"foreignKey:PlanID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"tasks"`
}

// TableName specifies the table name for the Plan model.
func (Plan) TableName() string {
	return "plans"
}

// TaskStatus defines the possible statuses for a plan task.
type TaskStatus string

const (
	TaskStatusPending   TaskStatus = "pending"
	TaskStatusCompleted TaskStatus = "completed"
	TaskStatusSkipped   TaskStatus = "skipped"
)

// PlanTask is one action-plan item: try the question together, starting with its first prompt.
type PlanTask struct {
	ID          uint           `gorm:"primarykey" json:"id"`
	PlanID      uint           `gorm:"index;not null" json:"plan_id"`
	QuestionID  string         `gorm:"not null" json:"question_id"`
	ModuleID    string         `json:"module_id"`
	Title       string         `gorm:"not null" json:"title"`
	Description string         `gorm:"type:text" json:"description"`
	Status      TaskStatus     `gorm:"type:varchar(50);default:'pending';not null" json:"status"`
	CompletedAt *time.Time     `json:"completed_at,omitempty"`
	Order       int            `gorm:"default:0" json:"order"`
	CreatedAt   time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the PlanTask model.
func (PlanTask) TableName() string {
	return "plan_tasks"
}

// Settled reports whether the task needs no further action.
func (t PlanTask) Settled() bool {
	return t.Status == TaskStatusCompleted || t.Status == TaskStatusSkipped
}
