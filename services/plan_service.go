package services

import (
	"context"
	"fmt"
	"time"

	"github.com/daydaylx/gamex-sub000/comparison"
	"github.com/daydaylx/gamex-sub000/logger"
	"github.com/daydaylx/gamex-sub000/models"
	"github.com/daydaylx/gamex-sub000/repository"
)

// PlanService defines the interface for managing plans and tasks.
type PlanService interface {
	GeneratePlan(ctx context.Context, sessionID string) (*models.Plan, error)
	GetPlanDetails(planID uint) (*models.Plan, error)
	GetPlansForSession(sessionID string) ([]*models.Plan, error)
	MarkTaskCompleted(taskID uint, sessionID string) (*models.PlanTask, error)
	MarkTaskSkipped(taskID uint, sessionID string) (*models.PlanTask, error)
}

type planService struct {
	planRepo repository.PlanRepository
	compare  CompareService
	log      *logger.Logger
}

// NewPlanService creates a new instance of PlanService.
func NewPlanService(planRepo repository.PlanRepository, compare CompareService, log *logger.Logger) PlanService {
	return &planService{planRepo: planRepo, compare: compare, log: log}
}

// GeneratePlan persists the session's current action plan as a new plan.
func (s *planService) GeneratePlan(ctx context.Context, sessionID string) (*models.Plan, error) {
	result, err := s.compare.CompareSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	tasks := make([]models.PlanTask, 0, len(result.ActionPlan))
	for i, it := range result.ActionPlan {
		tasks = append(tasks, planTaskFromItem(i, it))
	}

	plan := &models.Plan{
		SessionID:   sessionID,
		Title:       "Our next steps",
		Description: fmt.Sprintf("Up to %d topics you both said yes to and feel comfortable with.", comparison.ActionPlanSize),
		Status:      models.PlanStatusActive,
		Tasks:       tasks,
	}
	if len(tasks) == 0 {
		plan.Description = "No shared, comfortable topics yet. Talk through the EXPLORE items first."
		plan.Status = models.PlanStatusCompleted
	}

	if err := s.planRepo.CreatePlan(plan); err != nil {
		s.log.Error("[PlanService] Failed to create plan", "session_id", sessionID, "error", err)
		return nil, fmt.Errorf("failed to create plan for session %s: %w", sessionID, err)
	}

	s.log.Info("[PlanService] Plan generated", "plan_id", plan.ID, "session_id", sessionID, "tasks", len(plan.Tasks))
	return plan, nil
}

func planTaskFromItem(order int, it comparison.CompareItem) models.PlanTask {
	title := it.Label
	if title == "" {
		title = it.QuestionID
	}
	desc := ""
	if len(it.ConversationPrompts) > 0 {
		desc = it.ConversationPrompts[0]
	}
	return models.PlanTask{
		QuestionID:  it.QuestionID,
		ModuleID:    it.ModuleID,
		Title:       title,
		Description: desc,
		Status:      models.TaskStatusPending,
		Order:       order,
	}
}

// GetPlanDetails retrieves a plan and its tasks.
func (s *planService) GetPlanDetails(planID uint) (*models.Plan, error) {
	plan, err := s.planRepo.GetPlanByID(planID)
	if err != nil {
		return nil, fmt.Errorf("failed to get plan details for planID %d: %w", planID, err)
	}
	if plan == nil { // Repository returns (nil, nil) for not found
		return nil, fmt.Errorf("plan %d: %w", planID, ErrPlanNotFound)
	}
	return plan, nil
}

// GetPlansForSession lists the plans of a session, newest first.
func (s *planService) GetPlansForSession(sessionID string) ([]*models.Plan, error) {
	plans, err := s.planRepo.GetPlansBySessionID(sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get plans for session %s: %w", sessionID, err)
	}
	if plans == nil {
		plans = []*models.Plan{}
	}
	return plans, nil
}

// MarkTaskCompleted marks a task as completed.
func (s *planService) MarkTaskCompleted(taskID uint, sessionID string) (*models.PlanTask, error) {
	task, plan, err := s.ownedTask(taskID, sessionID)
	if err != nil {
		return nil, err
	}
	if task.Status == models.TaskStatusCompleted {
		return task, nil
	}

	now := time.Now()
	task.Status = models.TaskStatusCompleted
	task.CompletedAt = &now
	if err := s.planRepo.UpdatePlanTask(task); err != nil {
		return nil, fmt.Errorf("failed to update task ID %d to completed: %w", taskID, err)
	}

	s.log.Info("[PlanService] Task completed", "task_id", taskID, "session_id", sessionID)
	if err := s.settlePlan(plan); err != nil {
		s.log.Error("[PlanService] Failed to settle plan after task update", "plan_id", plan.ID, "task_id", taskID, "error", err)
	}
	return task, nil
}

// MarkTaskSkipped marks a task as skipped. Completed tasks cannot be skipped.
func (s *planService) MarkTaskSkipped(taskID uint, sessionID string) (*models.PlanTask, error) {
	task, plan, err := s.ownedTask(taskID, sessionID)
	if err != nil {
		return nil, err
	}
	if task.Status == models.TaskStatusSkipped {
		return task, nil
	}
	if task.Status == models.TaskStatusCompleted {
		s.log.Warn("[PlanService] Attempt to skip a completed task", "task_id", taskID, "session_id", sessionID)
		return nil, fmt.Errorf("task %d: %w", taskID, ErrTaskCompleted)
	}

	task.Status = models.TaskStatusSkipped
	task.CompletedAt = nil
	if err := s.planRepo.UpdatePlanTask(task); err != nil {
		return nil, fmt.Errorf("failed to update task ID %d to skipped: %w", taskID, err)
	}

	s.log.Info("[PlanService] Task skipped", "task_id", taskID, "session_id", sessionID)
	if err := s.settlePlan(plan); err != nil {
		s.log.Error("[PlanService] Failed to settle plan after task update", "plan_id", plan.ID, "task_id", taskID, "error", err)
	}
	return task, nil
}

// ownedTask loads a task and its plan, checking the plan belongs to sessionID.
func (s *planService) ownedTask(taskID uint, sessionID string) (*models.PlanTask, *models.Plan, error) {
	task, err := s.planRepo.GetTaskByID(taskID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to fetch task ID %d: %w", taskID, err)
	}
	if task == nil {
		return nil, nil, fmt.Errorf("task %d: %w", taskID, ErrTaskNotFound)
	}

	plan, err := s.planRepo.GetPlanByID(task.PlanID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to fetch plan ID %d for task ID %d: %w", task.PlanID, taskID, err)
	}
	if plan == nil {
		s.log.Error("[PlanService] Task without plan", "task_id", taskID, "plan_id", task.PlanID)
		return nil, nil, fmt.Errorf("plan %d: %w", task.PlanID, ErrPlanNotFound)
	}
	if plan.SessionID != sessionID {
		s.log.Warn("[PlanService] Task requested by another session", "task_id", taskID, "session_id", sessionID)
		return nil, nil, fmt.Errorf("task %d: %w", taskID, ErrAccessDenied)
	}
	return task, plan, nil
}

// settlePlan marks the plan completed once no task is pending. The task
// update is already stored when it runs, so callers only log its failure.
func (s *planService) settlePlan(plan *models.Plan) error {
	if plan.Status == models.PlanStatusCompleted {
		return nil
	}
	tasks, err := s.planRepo.GetPlanTasks(plan.ID)
	if err != nil {
		return fmt.Errorf("failed to reload tasks of plan %d: %w", plan.ID, err)
	}
	for _, t := range tasks {
		if !t.Settled() {
			return nil
		}
	}
	plan.Status = models.PlanStatusCompleted
	if err := s.planRepo.UpdatePlan(plan); err != nil {
		return fmt.Errorf("failed to complete plan %d: %w", plan.ID, err)
	}
	s.log.Info("[PlanService] Plan completed", "plan_id", plan.ID, "session_id", plan.SessionID)
	return nil
}
