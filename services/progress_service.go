package services

import (
	"fmt"
	"sort"
	"time"

	"github.com/daydaylx/gamex-sub000/logger"
	"github.com/daydaylx/gamex-sub000/models"
	"github.com/daydaylx/gamex-sub000/repository"
)

// ProgressService defines the interface for generating progress reports.
type ProgressService interface {
	GenerateProgressReport(sessionID string) (*models.ProgressReportResponse, error)
}

type progressService struct {
	planRepo repository.PlanRepository
	log      *logger.Logger
}

// NewProgressService creates a new instance of ProgressService.
func NewProgressService(planRepo repository.PlanRepository, log *logger.Logger) ProgressService {
	return &progressService{planRepo: planRepo, log: log}
}

// GenerateProgressReport summarizes how far a session got through its plans.
func (s *progressService) GenerateProgressReport(sessionID string) (*models.ProgressReportResponse, error) {
	plans, err := s.planRepo.GetPlansBySessionID(sessionID)
	if err != nil {
		s.log.Error("[ProgressService] Failed to get plans", "session_id", sessionID, "error", err)
		return nil, fmt.Errorf("failed to retrieve plans: %w", err)
	}

	summary := models.ProgressSummary{TotalPlans: len(plans)}
	byModule := map[string]*models.ModuleProgress{}

	for _, plan := range plans {
		if plan.Status == models.PlanStatusActive {
			summary.ActivePlans++
		}
		for _, task := range plan.Tasks {
			summary.TotalTasks++

			mp, ok := byModule[task.ModuleID]
			if !ok {
				mp = &models.ModuleProgress{ModuleID: task.ModuleID}
				byModule[task.ModuleID] = mp
			}
			mp.TotalCount++

			switch task.Status {
			case models.TaskStatusCompleted:
				summary.CompletedTasks++
				mp.MarkCompleted(task.CompletedAt)
			case models.TaskStatusSkipped:
				summary.SkippedTasks++
			default:
				summary.PendingTasks++
			}
		}
	}

	if denominator := summary.TotalTasks - summary.SkippedTasks; denominator > 0 {
		summary.CompletionRate = float64(summary.CompletedTasks) / float64(denominator)
	}

	modules := make([]models.ModuleProgress, 0, len(byModule))
	for _, mp := range byModule {
		modules = append(modules, *mp)
	}
	sort.Slice(modules, func(i, j int) bool { return modules[i].ModuleID < modules[j].ModuleID })

	s.log.Debug("[ProgressService] Progress report generated", "session_id", sessionID,
		"plans", summary.TotalPlans, "tasks", summary.TotalTasks, "completed", summary.CompletedTasks)

	return &models.ProgressReportResponse{
		SessionID:   sessionID,
		Summary:     summary,
		Modules:     modules,
		GeneratedAt: time.Now().UTC(),
	}, nil
}
