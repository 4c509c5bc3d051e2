package repository

import (
	"errors"
	"fmt"

	"github.com/daydaylx/gamex-sub000/logger"
	"github.com/daydaylx/gamex-sub000/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// QuotaRepository tracks how many LLM analyses each session has used.
type QuotaRepository interface {
	GetQuota(sessionID string) (*models.AnalysisQuota, error)
	IncrementUsage(sessionID string) (*models.AnalysisQuota, error)
	ReserveUsage(sessionID string, limit int) (bool, error)
	ReleaseUsage(sessionID string) error
}

type quotaRepository struct {
	db  *gorm.DB
	log *logger.Logger
}

// NewQuotaRepository creates a new instance of QuotaRepository.
func NewQuotaRepository(db *gorm.DB, log *logger.Logger) QuotaRepository {
	return &quotaRepository{db: db, log: log}
}

// GetQuota retrieves the usage of a session. An unknown session has used nothing,
// so a zero record is returned instead of nil.
func (r *quotaRepository) GetQuota(sessionID string) (*models.AnalysisQuota, error) {
	if sessionID == "" {
		return nil, errors.New("session ID cannot be empty")
	}

	var quota models.AnalysisQuota
	err := r.db.First(&quota, "session_id = ?", sessionID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &models.AnalysisQuota{SessionID: sessionID}, nil
		}
		return nil, fmt.Errorf("failed to fetch quota for session %s: %w", sessionID, err)
	}
	return &quota, nil
}

// IncrementUsage adds one analysis to the session's count, creating the record on first use.
func (r *quotaRepository) IncrementUsage(sessionID string) (*models.AnalysisQuota, error) {
	if sessionID == "" {
		return nil, errors.New("session ID cannot be empty")
	}

	// Insert with 1, or bump the existing counter.
	quotaToUpsert := models.AnalysisQuota{SessionID: sessionID, AnalysesUsed: 1}
	err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "session_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{"analyses_used": gorm.Expr("analyses_used + 1")}),
	}).Create(&quotaToUpsert).Error
	if err != nil {
		return nil, fmt.Errorf("failed to increment quota for session %s: %w", sessionID, err)
	}

	// The upsert does not refresh the struct on conflict.
	var current models.AnalysisQuota
	if fetchErr := r.db.First(&current, "session_id = ?", sessionID).Error; fetchErr != nil {
		return nil, fmt.Errorf("failed to fetch quota for session %s after increment: %w", sessionID, fetchErr)
	}

	r.log.Info("[QuotaRepository] Analysis usage incremented", "session_id", sessionID, "used", current.AnalysesUsed)
	return &current, nil
}

// ReserveUsage takes one analysis slot if the session is still below limit. The check and
// the increment are a single conditional UPDATE, so concurrent callers cannot overshoot.
func (r *quotaRepository) ReserveUsage(sessionID string, limit int) (bool, error) {
	if sessionID == "" {
		return false, errors.New("session ID cannot be empty")
	}

	reserved := false
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).
			Create(&models.AnalysisQuota{SessionID: sessionID}).Error; err != nil {
			return err
		}
		res := tx.Model(&models.AnalysisQuota{}).
			Where("session_id = ? AND analyses_used < ?", sessionID, limit).
			Update("analyses_used", gorm.Expr("analyses_used + 1"))
		if res.Error != nil {
			return res.Error
		}
		reserved = res.RowsAffected == 1
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("failed to reserve quota for session %s: %w", sessionID, err)
	}
	r.log.Debug("[QuotaRepository] Analysis slot reservation", "session_id", sessionID, "limit", limit, "reserved", reserved)
	return reserved, nil
}

// ReleaseUsage gives back a slot taken by ReserveUsage. The counter never drops below zero.
func (r *quotaRepository) ReleaseUsage(sessionID string) error {
	err := r.db.Model(&models.AnalysisQuota{}).
		Where("session_id = ? AND analyses_used > 0", sessionID).
		Update("analyses_used", gorm.Expr("analyses_used - 1")).Error
	if err != nil {
		return fmt.Errorf("failed to release quota for session %s: %w", sessionID, err)
	}
	return nil
}

// AnalysisRepository stores LLM analyses.
type AnalysisRepository interface {
	CreateAnalysis(a *models.Analysis) error
	ListBySession(sessionID string) ([]*models.Analysis, error)
}

type analysisRepository struct {
	db  *gorm.DB
	log *logger.Logger
}

// NewAnalysisRepository creates a gorm-backed AnalysisRepository.
func NewAnalysisRepository(db *gorm.DB, log *logger.Logger) AnalysisRepository {
	return &analysisRepository{db: db, log: log}
}

func (r *analysisRepository) CreateAnalysis(a *models.Analysis) error {
	if a == nil {
		return errors.New("analysis cannot be nil")
	}
	if err := r.db.Create(a).Error; err != nil {
		return fmt.Errorf("failed to store analysis for session %s: %w", a.SessionID, err)
	}
	r.log.Info("[AnalysisRepository] Analysis stored", "session_id", a.SessionID, "analysis_id", a.ID)
	return nil
}

// ListBySession returns the session's analyses, newest first.
func (r *analysisRepository) ListBySession(sessionID string) ([]*models.Analysis, error) {
	var out []*models.Analysis
	if err := r.db.Where("session_id = ?", sessionID).Order("created_at desc, id desc").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("failed to list analyses for session %s: %w", sessionID, err)
	}
	return out, nil
}
