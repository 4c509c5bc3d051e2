package repository

import (
	"errors"
	"fmt"

	"github.com/daydaylx/gamex-sub000/logger"
	"github.com/daydaylx/gamex-sub000/models"

	"gorm.io/gorm"
)

// PlanRepository defines the interface for interacting with plan and plan task data.
type PlanRepository interface {
	CreatePlan(plan *models.Plan) error
	GetPlanByID(planID uint) (*models.Plan, error)
	GetPlansBySessionID(sessionID string) ([]*models.Plan, error)
	UpdatePlan(plan *models.Plan) error
	GetPlanTasks(planID uint) ([]*models.PlanTask, error)
	GetTaskByID(taskID uint) (*models.PlanTask, error)
	UpdatePlanTask(task *models.PlanTask) error
}

type planRepository struct {
	db  *gorm.DB
	log *logger.Logger
}

// NewPlanRepository creates a new instance of PlanRepository.
func NewPlanRepository(db *gorm.DB, log *logger.Logger) PlanRepository {
	return &planRepository{db: db, log: log}
}

// CreatePlan creates a new plan together with the tasks it carries.
func (r *planRepository) CreatePlan(plan *models.Plan) error {
	if plan == nil {
		return errors.New("plan cannot be nil")
	}
	if err := r.db.Create(plan).Error; err != nil {
		return fmt.Errorf("failed to create plan for session %s: %w", plan.SessionID, err)
	}
	r.log.Info("[PlanRepository] Plan created", "plan_id", plan.ID, "session_id", plan.SessionID, "tasks", len(plan.Tasks))
	return nil
}

// GetPlanByID retrieves a plan with its tasks; nil, nil when not found.
func (r *planRepository) GetPlanByID(planID uint) (*models.Plan, error) {
	var plan models.Plan
	err := r.db.Preload("Tasks", func(db *gorm.DB) *gorm.DB {
		return db.Order("`order` asc, id asc")
	}).First(&plan, planID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to retrieve plan ID %d: %w", planID, err)
	}
	return &plan, nil
}

// GetPlansBySessionID retrieves all plans of a session, newest first.
func (r *planRepository) GetPlansBySessionID(sessionID string) ([]*models.Plan, error) {
	var plans []*models.Plan
	err := r.db.Preload("Tasks", func(db *gorm.DB) *gorm.DB {
		return db.Order("`order` asc, id asc")
	}).Where("session_id = ?", sessionID).Order("created_at desc, id desc").Find(&plans).Error
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve plans for session %s: %w", sessionID, err)
	}
	return plans, nil
}

// UpdatePlan saves the plan row. Tasks are saved separately.
func (r *planRepository) UpdatePlan(plan *models.Plan) error {
	if plan == nil {
		return errors.New("plan cannot be nil")
	}
	if plan.ID == 0 {
		return errors.New("plan ID must be provided for update")
	}
	if err := r.db.Omit("Tasks").Save(plan).Error; err != nil {
		return fmt.Errorf("failed to update plan ID %d: %w", plan.ID, err)
	}
	r.log.Info("[PlanRepository] Plan updated", "plan_id", plan.ID, "status", plan.Status)
	return nil
}

// GetPlanTasks retrieves all tasks for a given plan ID in plan order.
func (r *planRepository) GetPlanTasks(planID uint) ([]*models.PlanTask, error) {
	var tasks []*models.PlanTask
	err := r.db.Where("plan_id = ?", planID).Order("`order` asc, id asc").Find(&tasks).Error
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve tasks for plan ID %d: %w", planID, err)
	}
	return tasks, nil
}

// GetTaskByID retrieves a single task; nil, nil when not found.
func (r *planRepository) GetTaskByID(taskID uint) (*models.PlanTask, error) {
	var task models.PlanTask
	err := r.db.First(&task, taskID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to retrieve task ID %d: %w", taskID, err)
	}
	return &task, nil
}

// UpdatePlanTask updates an existing plan task.
func (r *planRepository) UpdatePlanTask(task *models.PlanTask) error {
	if task == nil {
		return errors.New("task cannot be nil")
	}
	if task.ID == 0 {
		return errors.New("task ID must be provided for update")
	}
	if err := r.db.Save(task).Error; err != nil {
		return fmt.Errorf("failed to update task ID %d: %w", task.ID, err)
	}
	r.log.Info("[PlanRepository] Task updated", "task_id", task.ID, "status", task.Status)
	return nil
}
