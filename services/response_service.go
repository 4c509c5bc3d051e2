package services

import (
	"encoding/json"
	"fmt"

	"github.com/daydaylx/gamex-sub000/comparison"
	"github.com/daydaylx/gamex-sub000/logger"
	"github.com/daydaylx/gamex-sub000/models"
	"github.com/daydaylx/gamex-sub000/repository"

	"gorm.io/datatypes"
)

// ResponseService stores each partner's answers.
type ResponseService interface {
	SubmitResponse(sessionID string, side models.Side, answers comparison.ResponseMap) (*models.SessionResponse, error)
	GetResponse(sessionID string, side models.Side) (comparison.ResponseMap, error)
}

type responseService struct {
	sessionRepo  repository.SessionRepository
	responseRepo repository.ResponseRepository
	log          *logger.Logger
}

// NewResponseService creates a new instance of ResponseService.
func NewResponseService(sessionRepo repository.SessionRepository, responseRepo repository.ResponseRepository, log *logger.Logger) ResponseService {
	return &responseService{sessionRepo: sessionRepo, responseRepo: responseRepo, log: log}
}

// SubmitResponse normalizes and stores the answers of one side, replacing any earlier
// submission. The session becomes ready once both sides have answered.
func (s *responseService) SubmitResponse(sessionID string, side models.Side, answers comparison.ResponseMap) (*models.SessionResponse, error) {
	if !side.Valid() {
		return nil, fmt.Errorf("side %q: %w", side, ErrInvalidSide)
	}
	session, err := s.sessionRepo.GetSessionByID(sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load session %s: %w", sessionID, err)
	}
	if session == nil {
		return nil, fmt.Errorf("session %s: %w", sessionID, ErrSessionNotFound)
	}

	normalized := make(comparison.ResponseMap, len(answers))
	for key, answer := range answers {
		normalized[key] = comparison.Normalize(answer)
	}
	raw, err := json.Marshal(normalized)
	if err != nil {
		return nil, fmt.Errorf("failed to encode answers: %w", err)
	}

	resp := &models.SessionResponse{SessionID: sessionID, Side: side, Answers: datatypes.JSON(raw)}
	if err := s.responseRepo.UpsertResponse(resp); err != nil {
		s.log.Error("[ResponseService] Failed to store response", "session_id", sessionID, "side", side, "error", err)
		return nil, fmt.Errorf("failed to store response: %w", err)
	}

	sides, err := s.responseRepo.CountSides(sessionID)
	if err != nil {
		return nil, err
	}
	if sides >= 2 && session.Status == models.SessionStatusOpen {
		if err := s.sessionRepo.UpdateSessionStatus(sessionID, models.SessionStatusReady); err != nil {
			return nil, fmt.Errorf("failed to mark session ready: %w", err)
		}
	}

	s.log.Info("[ResponseService] Response submitted", "session_id", sessionID, "side", side, "questions", len(normalized))
	return resp, nil
}

// GetResponse returns the stored answers of a side, or nil when that side has not answered.
func (s *responseService) GetResponse(sessionID string, side models.Side) (comparison.ResponseMap, error) {
	if !side.Valid() {
		return nil, fmt.Errorf("side %q: %w", side, ErrInvalidSide)
	}
	resp, err := s.responseRepo.GetResponse(sessionID, side)
	if err != nil {
		return nil, fmt.Errorf("failed to load response %s/%s: %w", sessionID, side, err)
	}
	if resp == nil {
		return nil, nil
	}
	return decodeAnswers(resp.Answers)
}

func decodeAnswers(raw datatypes.JSON) (comparison.ResponseMap, error) {
	out := comparison.ResponseMap{}
	if len(raw) == 0 {
		return out, nil
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("failed to decode stored answers: %w", err)
	}
	return out, nil
}
