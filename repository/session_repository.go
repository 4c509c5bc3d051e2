package repository

import (
	"errors"
	"fmt"

	"github.com/daydaylx/gamex-sub000/logger"
	"github.com/daydaylx/gamex-sub000/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SessionRepository persists comparison sessions.
type SessionRepository interface {
	CreateSession(session *models.Session) error
	GetSessionByID(id string) (*models.Session, error)
	UpdateSessionStatus(id string, status models.SessionStatus) error
}

type sessionRepository struct {
	db  *gorm.DB
	log *logger.Logger
}

// NewSessionRepository creates a gorm-backed SessionRepository.
func NewSessionRepository(db *gorm.DB, log *logger.Logger) SessionRepository {
	return &sessionRepository{db: db, log: log}
}

func (r *sessionRepository) CreateSession(session *models.Session) error {
	if session == nil {
		return errors.New("session cannot be nil")
	}
	if err := r.db.Create(session).Error; err != nil {
		return fmt.Errorf("failed to create session %s: %w", session.ID, err)
	}
	r.log.Info("[SessionRepository] Session created", "session_id", session.ID, "template_id", session.TemplateID)
	return nil
}

// GetSessionByID returns nil, nil when the session does not exist.
func (r *sessionRepository) GetSessionByID(id string) (*models.Session, error) {
	var session models.Session
	err := r.db.First(&session, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to retrieve session %s: %w", id, err)
	}
	return &session, nil
}

func (r *sessionRepository) UpdateSessionStatus(id string, status models.SessionStatus) error {
	res := r.db.Model(&models.Session{}).Where("id = ?", id).Update("status", status)
	if res.Error != nil {
		return fmt.Errorf("failed to update status of session %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("session %s: %w", id, gorm.ErrRecordNotFound)
	}
	r.log.Info("[SessionRepository] Session status updated", "session_id", id, "status", status)
	return nil
}

// ResponseRepository persists one answer document per session side.
type ResponseRepository interface {
	UpsertResponse(resp *models.SessionResponse) error
	GetResponse(sessionID string, side models.Side) (*models.SessionResponse, error)
	CountSides(sessionID string) (int64, error)
}

type responseRepository struct {
	db  *gorm.DB
	log *logger.Logger
}

// NewResponseRepository creates a gorm-backed ResponseRepository.
func NewResponseRepository(db *gorm.DB, log *logger.Logger) ResponseRepository {
	return &responseRepository{db: db, log: log}
}

// UpsertResponse inserts the response or overwrites the answers of an existing one.
func (r *responseRepository) UpsertResponse(resp *models.SessionResponse) error {
	if resp == nil {
		return errors.New("response cannot be nil")
	}
	err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "session_id"}, {Name: "side"}},
		DoUpdates: clause.AssignmentColumns([]string{"answers", "updated_at"}),
	}).Create(resp).Error
	if err != nil {
		return fmt.Errorf("failed to store response %s/%s: %w", resp.SessionID, resp.Side, err)
	}
	r.log.Info("[ResponseRepository] Response stored", "session_id", resp.SessionID, "side", resp.Side)
	return nil
}

// GetResponse returns nil, nil when the side has not answered yet.
func (r *responseRepository) GetResponse(sessionID string, side models.Side) (*models.SessionResponse, error) {
	var resp models.SessionResponse
	err := r.db.Where("session_id = ? AND side = ?", sessionID, side).First(&resp).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to retrieve response %s/%s: %w", sessionID, side, err)
	}
	return &resp, nil
}

func (r *responseRepository) CountSides(sessionID string) (int64, error) {
	var n int64
	if err := r.db.Model(&models.SessionResponse{}).Where("session_id = ?", sessionID).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("failed to count responses of session %s: %w", sessionID, err)
	}
	return n, nil
}
