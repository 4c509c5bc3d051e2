package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/daydaylx/gamex-sub000/comparison"
	"github.com/daydaylx/gamex-sub000/config"
	"github.com/daydaylx/gamex-sub000/logger"
	"github.com/daydaylx/gamex-sub000/models"
	"github.com/daydaylx/gamex-sub000/repository"

	openai "github.com/sashabaranov/go-openai"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// ChatCompleter is the part of the OpenAI client the analysis needs.
type ChatCompleter interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// NewOpenAIClient builds a chat-completion client for any OpenAI-compatible endpoint.
func NewOpenAIClient(cfg config.LLMConfig) *openai.Client {
	oc := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		oc.BaseURL = cfg.BaseURL
	}
	return openai.NewClientWithConfig(oc)
}

// AnalysisService asks an LLM for a narrative reading of a session's comparison.
type AnalysisService interface {
	Analyze(ctx context.Context, sessionID string, redact bool) (*models.Analysis, error)
	ListAnalyses(sessionID string) ([]*models.Analysis, error)
}

type analysisService struct {
	compare      CompareService
	quotaRepo    repository.QuotaRepository
	analysisRepo repository.AnalysisRepository
	client       ChatCompleter
	llm          config.LLMConfig
	settings     config.AnalysisConfig
	log          *logger.Logger
}

// NewAnalysisService creates a new instance of AnalysisService.
func NewAnalysisService(
	compare CompareService,
	quotaRepo repository.QuotaRepository,
	analysisRepo repository.AnalysisRepository,
	client ChatCompleter,
	llm config.LLMConfig,
	settings config.AnalysisConfig,
	log *logger.Logger,
) AnalysisService {
	return &analysisService{
		compare:      compare,
		quotaRepo:    quotaRepo,
		analysisRepo: analysisRepo,
		client:       client,
		llm:          llm,
		settings:     settings,
		log:          log,
	}
}

const analysisSystemPrompt = "You are a calm, non-judgmental relationship counsellor. You never pressure anyone past a stated limit."

const analysisPromptTemplate = `Two partners answered the same intimacy questionnaire independently.
Below is the comparison report as JSON. Items are grouped into the buckets DOABLE NOW, EXPLORE, TALK FIRST and MISMATCH.

Write a short analysis in plain language:
1. What they clearly share.
2. Topics worth exploring gently, and how to start.
3. Boundaries to respect. Hard limits are never up for negotiation.
Keep it under 400 words. Do not invent answers that are not in the report.

REPORT:
%s`

// Analyze runs the comparison, optionally strips free text, and sends the report to the
// configured model. A quota of 0 means unlimited. With a limit, a slot is reserved before
// the model call and released again when the analysis is not stored.
func (s *analysisService) Analyze(ctx context.Context, sessionID string, redact bool) (_ *models.Analysis, err error) {
	if !s.settings.Enabled || s.client == nil {
		return nil, ErrAnalysisDisabled
	}

	limit := s.settings.QuotaPerSession
	if limit > 0 {
		reserved, reserveErr := s.quotaRepo.ReserveUsage(sessionID, limit)
		if reserveErr != nil {
			return nil, fmt.Errorf("failed to reserve analysis quota: %w", reserveErr)
		}
		if !reserved {
			s.log.Warn("[AnalysisService] Analysis quota exhausted", "session_id", sessionID, "limit", limit)
			return nil, fmt.Errorf("session %s used all %d analyses: %w", sessionID, limit, ErrAnalysisQuotaExceeded)
		}
		defer func() {
			if err == nil {
				return
			}
			if releaseErr := s.quotaRepo.ReleaseUsage(sessionID); releaseErr != nil {
				s.log.Error("[AnalysisService] Failed to release reserved quota", "session_id", sessionID, "error", releaseErr)
			}
		}()
	}

	result, err := s.compare.CompareSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if redact {
		result = RedactResult(result)
	}
	prompt, err := BuildAnalysisPrompt(result)
	if err != nil {
		return nil, err
	}

	timeout := time.Duration(s.llm.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	callCtx, span := tracer.Start(callCtx, "AnalysisService.ChatCompletion", trace.WithAttributes(
		attribute.String("session.id", sessionID),
		attribute.String("llm.model", s.llm.Model),
		attribute.Bool("analysis.redacted", redact),
	))

	resp, err := s.client.CreateChatCompletion(callCtx, openai.ChatCompletionRequest{
		Model:       s.llm.Model,
		Temperature: s.llm.Temperature,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: analysisSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	endSpan(span, err)
	if err != nil {
		s.log.Error("[AnalysisService] Chat completion failed", "session_id", sessionID, "model", s.llm.Model, "error", err)
		return nil, fmt.Errorf("analysis request failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, errors.New("analysis response contained no choices")
	}

	analysis := &models.Analysis{
		SessionID: sessionID,
		Model:     s.llm.Model,
		Redacted:  redact,
		Content:   strings.TrimSpace(resp.Choices[0].Message.Content),
	}
	if err := s.analysisRepo.CreateAnalysis(analysis); err != nil {
		return nil, fmt.Errorf("failed to store analysis: %w", err)
	}
	if limit == 0 {
		if _, incErr := s.quotaRepo.IncrementUsage(sessionID); incErr != nil {
			s.log.Error("[AnalysisService] Failed to count analysis", "session_id", sessionID, "error", incErr)
		}
	}

	s.log.Info("[AnalysisService] Analysis stored", "session_id", sessionID, "analysis_id", analysis.ID, "redacted", redact)
	return analysis, nil
}

func (s *analysisService) ListAnalyses(sessionID string) ([]*models.Analysis, error) {
	list, err := s.analysisRepo.ListBySession(sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list analyses: %w", err)
	}
	if list == nil {
		list = []*models.Analysis{}
	}
	return list, nil
}

// freeTextKeys are answer fields written in a partner's own words.
var freeTextKeys = []string{"notes", "conditions", "text"}

// RedactResult returns a copy of result whose items carry no free-text answer fields.
func RedactResult(result *comparison.CompareResult) *comparison.CompareResult {
	if result == nil {
		return nil
	}
	out := *result
	out.Items = redactItems(result.Items)
	out.ActionPlan = redactItems(result.ActionPlan)
	return &out
}

func redactItems(items []comparison.CompareItem) []comparison.CompareItem {
	if items == nil {
		return nil
	}
	out := make([]comparison.CompareItem, len(items))
	for i, it := range items {
		it.A = stripFreeText(it.A)
		it.B = stripFreeText(it.B)
		out[i] = it
	}
	return out
}

func stripFreeText(a comparison.Answer) comparison.Answer {
	if a == nil {
		return nil
	}
	out := make(comparison.Answer, len(a))
	for k, v := range a {
		out[k] = v
	}
	for _, k := range freeTextKeys {
		delete(out, k)
	}
	return out
}

// BuildAnalysisPrompt embeds the report JSON into the fixed analysis prompt.
func BuildAnalysisPrompt(result *comparison.CompareResult) (string, error) {
	raw, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode report: %w", err)
	}
	return fmt.Sprintf(analysisPromptTemplate, raw), nil
}
