package models

import (
	"time"

	"gorm.io/datatypes"
)

// SessionStatus tracks whether both partners have answered.
type SessionStatus string

const (
	SessionStatusOpen     SessionStatus = "open"  // Waiting for one or both sides
	SessionStatusReady    SessionStatus = "ready" // Both sides submitted, comparison available
	SessionStatusArchived SessionStatus = "archived"
)

// Session pairs two questionnaire responses against one template.
type Session struct {
	ID         string        `gorm:"primaryKey;type:varchar(36)" json:"id"`
	TemplateID string        `gorm:"index;not null" json:"template_id"`
	Name       string        `json:"name"`
	PinHash    string        `json:"-"` // bcrypt hash, empty when the session is unprotected
	Status     SessionStatus `gorm:"type:varchar(20);default:'open';not null" json:"status"`
	CreatedAt  time.Time     `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time     `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName specifies the table name for the Session model.
func (Session) TableName() string {
	return "sessions"
}

// HasPin reports whether access to the session requires a PIN.
func (s *Session) HasPin() bool {
	return s.PinHash != ""
}

// Side identifies one partner's response within a session.
type Side string

const (
	SideA Side = "A"
	SideB Side = "B"
)

// Valid reports whether s is one of the two known sides.
func (s Side) Valid() bool {
	return s == SideA || s == SideB
}

// SessionResponse stores one side's normalized answers as a JSON document.
type SessionResponse struct {
	ID          uint           `gorm:"primarykey" json:"-"`
	SessionID   string         `gorm:"uniqueIndex:idx_session_side;type:varchar(36);not null" json:"session_id"`
	Side        Side           `gorm:"uniqueIndex:idx_session_side;type:varchar(1);not null" json:"side"`
	Answers     datatypes.JSON `json:"answers"`
	SubmittedAt time.Time      `gorm:"autoCreateTime" json:"submitted_at"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName specifies the table name for the SessionResponse model.
func (SessionResponse) TableName() string {
	return "session_responses"
}
