package services

import (
	"fmt"
	"strings"

	"github.com/daydaylx/gamex-sub000/logger"
	"github.com/daydaylx/gamex-sub000/models"
	"github.com/daydaylx/gamex-sub000/repository"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// SessionService manages comparison sessions and their optional access PIN.
type SessionService interface {
	CreateSession(templateID, name, pin string) (*models.Session, error)
	GetSession(id string) (*models.Session, error)
	VerifyAccess(id, pin string) (*models.Session, error)
}

type sessionService struct {
	sessionRepo  repository.SessionRepository
	templateRepo repository.TemplateRepository
	log          *logger.Logger
}

// NewSessionService creates a new instance of SessionService.
func NewSessionService(sessionRepo repository.SessionRepository, templateRepo repository.TemplateRepository, log *logger.Logger) SessionService {
	return &sessionService{sessionRepo: sessionRepo, templateRepo: templateRepo, log: log}
}

// CreateSession opens a session for templateID. An empty pin leaves the session unprotected.
func (s *sessionService) CreateSession(templateID, name, pin string) (*models.Session, error) {
	templateID = strings.TrimSpace(templateID)
	tpl, err := s.templateRepo.GetTemplate(templateID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up template %s: %w", templateID, err)
	}
	if tpl == nil {
		s.log.Warn("[SessionService] Unknown template requested", "template_id", templateID)
		return nil, fmt.Errorf("template %q: %w", templateID, ErrTemplateNotFound)
	}

	session := &models.Session{
		ID:         uuid.NewString(),
		TemplateID: tpl.ID,
		Name:       strings.TrimSpace(name),
		Status:     models.SessionStatusOpen,
	}
	if pin != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(pin), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash session pin: %w", err)
		}
		session.PinHash = string(hash)
	}

	if err := s.sessionRepo.CreateSession(session); err != nil {
		s.log.Error("[SessionService] Failed to create session", "template_id", tpl.ID, "error", err)
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	s.log.Info("[SessionService] Session created", "session_id", session.ID, "template_id", tpl.ID, "protected", session.HasPin())
	return session, nil
}

func (s *sessionService) GetSession(id string) (*models.Session, error) {
	session, err := s.sessionRepo.GetSessionByID(id)
	if err != nil {
		return nil, fmt.Errorf("failed to load session %s: %w", id, err)
	}
	if session == nil {
		return nil, fmt.Errorf("session %s: %w", id, ErrSessionNotFound)
	}
	return session, nil
}

// VerifyAccess loads the session and checks pin against its hash.
// Sessions without a PIN accept any pin.
func (s *sessionService) VerifyAccess(id, pin string) (*models.Session, error) {
	session, err := s.GetSession(id)
	if err != nil {
		return nil, err
	}
	if !session.HasPin() {
		return session, nil
	}
	if err := bcrypt.CompareHashAndPassword([]byte(session.PinHash), []byte(pin)); err != nil {
		s.log.Warn("[SessionService] Rejected session pin", "session_id", id)
		return nil, fmt.Errorf("session %s: %w", id, ErrAccessDenied)
	}
	return session, nil
}
