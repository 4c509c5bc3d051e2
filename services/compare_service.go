package services

import (
	"context"
	"fmt"

	"github.com/daydaylx/gamex-sub000/comparison"
	"github.com/daydaylx/gamex-sub000/logger"
	"github.com/daydaylx/gamex-sub000/models"
	"github.com/daydaylx/gamex-sub000/repository"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
)

var tracer = otel.Tracer("github.com/daydaylx/gamex-sub000/services")

// endSpan records err (if any) on span and ends it.
func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

// CompareService builds the comparison report of a session.
type CompareService interface {
	CompareSession(ctx context.Context, sessionID string) (*comparison.CompareResult, error)
}

type compareService struct {
	sessionRepo  repository.SessionRepository
	responseRepo repository.ResponseRepository
	templateRepo repository.TemplateRepository
	scenarioRepo repository.ScenarioRepository
	log          *logger.Logger
}

// NewCompareService creates a new instance of CompareService.
func NewCompareService(
	sessionRepo repository.SessionRepository,
	responseRepo repository.ResponseRepository,
	templateRepo repository.TemplateRepository,
	scenarioRepo repository.ScenarioRepository,
	log *logger.Logger,
) CompareService {
	return &compareService{
		sessionRepo:  sessionRepo,
		responseRepo: responseRepo,
		templateRepo: templateRepo,
		scenarioRepo: scenarioRepo,
		log:          log,
	}
}

// CompareSession loads the session's template, both responses and the scenario
// catalogue, then runs the comparison.
func (s *compareService) CompareSession(ctx context.Context, sessionID string) (_ *comparison.CompareResult, err error) {
	ctx, span := tracer.Start(ctx, "CompareService.CompareSession", trace.WithAttributes(attribute.String("session.id", sessionID)))
	defer func() { endSpan(span, err) }()

	session, err := s.sessionRepo.GetSessionByID(sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load session %s: %w", sessionID, err)
	}
	if session == nil {
		return nil, fmt.Errorf("session %s: %w", sessionID, ErrSessionNotFound)
	}

	tpl, err := s.templateRepo.GetTemplate(session.TemplateID)
	if err != nil {
		return nil, fmt.Errorf("failed to load template %s: %w", session.TemplateID, err)
	}
	if tpl == nil {
		s.log.Error("[CompareService] Session references a template that is no longer loaded", "session_id", sessionID, "template_id", session.TemplateID)
		return nil, fmt.Errorf("template %q: %w", session.TemplateID, ErrTemplateNotFound)
	}

	var a, b comparison.ResponseMap
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		a, err = s.loadSide(gctx, sessionID, models.SideA)
		return err
	})
	g.Go(func() error {
		var err error
		b, err = s.loadSide(gctx, sessionID, models.SideB)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	scenarios, err := s.scenarioRepo.ListScenarios()
	if err != nil {
		return nil, fmt.Errorf("failed to load scenarios: %w", err)
	}

	result := comparison.Compare(*tpl, a, b, scenarios)
	span.SetAttributes(
		attribute.Int("compare.items", result.Meta.ItemCount),
		attribute.Int("compare.action_plan", len(result.ActionPlan)),
	)
	s.log.Info("[CompareService] Session compared",
		"session_id", sessionID,
		"items", result.Meta.ItemCount,
		"mismatch", result.Summary.Counts[comparison.BucketMismatch],
		"plan", len(result.ActionPlan))
	return &result, nil
}

func (s *compareService) loadSide(ctx context.Context, sessionID string, side models.Side) (comparison.ResponseMap, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	resp, err := s.responseRepo.GetResponse(sessionID, side)
	if err != nil {
		return nil, fmt.Errorf("failed to load response %s/%s: %w", sessionID, side, err)
	}
	if resp == nil {
		return nil, fmt.Errorf("side %s has not answered: %w", side, ErrResponsesIncomplete)
	}
	return decodeAnswers(resp.Answers)
}
