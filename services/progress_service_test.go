package services

import (
	"errors"
	"testing"
	"time"

	"github.com/daydaylx/gamex-sub000/logger"
	"github.com/daydaylx/gamex-sub000/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProgressService_GenerateProgressReport(t *testing.T) {
	sessionID := "progressSession"

	t.Run("Aggregates tasks across plans", func(t *testing.T) {
		mockPlanRepo := new(MockPlanRepository)
		service := NewProgressService(mockPlanRepo, logger.Nop())

		earlier := time.Date(2026, 3, 1, 20, 0, 0, 0, time.UTC)
		later := time.Date(2026, 3, 4, 21, 30, 0, 0, time.UTC)
		plans := []*models.Plan{
			{ID: 2, SessionID: sessionID, Status: models.PlanStatusActive, Tasks: []models.PlanTask{
				{ID: 4, ModuleID: "touch", Status: models.TaskStatusCompleted, CompletedAt: &later},
				{ID: 5, ModuleID: "prefs", Status: models.TaskStatusPending},
			}},
			{ID: 1, SessionID: sessionID, Status: models.PlanStatusCompleted, Tasks: []models.PlanTask{
				{ID: 1, ModuleID: "touch", Status: models.TaskStatusCompleted, CompletedAt: &earlier},
				{ID: 2, ModuleID: "touch", Status: models.TaskStatusSkipped},
				{ID: 3, ModuleID: "prefs", Status: models.TaskStatusCompleted},
			}},
		}
		mockPlanRepo.On("GetPlansBySessionID", sessionID).Return(plans, nil).Once()

		report, err := service.GenerateProgressReport(sessionID)

		require.NoError(t, err)
		assert.Equal(t, sessionID, report.SessionID)
		assert.Equal(t, models.ProgressSummary{
			TotalPlans: 2, ActivePlans: 1, TotalTasks: 5,
			CompletedTasks: 3, SkippedTasks: 1, PendingTasks: 1,
			CompletionRate: 0.75,
		}, report.Summary)

		require.Len(t, report.Modules, 2)
		assert.Equal(t, "prefs", report.Modules[0].ModuleID)
		assert.Equal(t, 1, report.Modules[0].CompletedCount)
		assert.Nil(t, report.Modules[0].LastCompletedDate)

		touch := report.Modules[1]
		assert.Equal(t, 2, touch.CompletedCount)
		assert.Equal(t, 3, touch.TotalCount)
		require.NotNil(t, touch.LastCompletedDate)
		assert.Equal(t, "2026-03-04", *touch.LastCompletedDate)
		mockPlanRepo.AssertExpectations(t)
	})

	t.Run("No plans yields an empty report", func(t *testing.T) {
		mockPlanRepo := new(MockPlanRepository)
		service := NewProgressService(mockPlanRepo, logger.Nop())
		mockPlanRepo.On("GetPlansBySessionID", sessionID).Return([]*models.Plan{}, nil).Once()

		report, err := service.GenerateProgressReport(sessionID)

		require.NoError(t, err)
		assert.Zero(t, report.Summary.CompletionRate)
		assert.NotNil(t, report.Modules)
		assert.Empty(t, report.Modules)
	})

	t.Run("Repository error", func(t *testing.T) {
		mockPlanRepo := new(MockPlanRepository)
		service := NewProgressService(mockPlanRepo, logger.Nop())
		mockPlanRepo.On("GetPlansBySessionID", sessionID).Return(nil, errors.New("db down")).Once()

		_, err := service.GenerateProgressReport(sessionID)
		assert.ErrorContains(t, err, "failed to retrieve plans")
	})
}
