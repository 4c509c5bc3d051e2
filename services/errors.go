package services

import "errors"

// Sentinel errors returned (wrapped) by the services. Handlers map them with errors.Is.
var (
	ErrSessionNotFound       = errors.New("session not found")
	ErrTemplateNotFound      = errors.New("template not found")
	ErrResponsesIncomplete   = errors.New("both sides must submit responses first")
	ErrInvalidSide           = errors.New("side must be A or B")
	ErrAccessDenied          = errors.New("access denied")
	ErrAnalysisQuotaExceeded = errors.New("analysis quota exceeded")
	ErrAnalysisDisabled      = errors.New("analysis is disabled")
	ErrPlanNotFound          = errors.New("plan not found")
	ErrTaskNotFound          = errors.New("task not found")
	ErrTaskCompleted         = errors.New("cannot skip an already completed task")
)
