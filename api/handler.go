package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/daydaylx/gamex-sub000/comparison"
	"github.com/daydaylx/gamex-sub000/logger"
	"github.com/daydaylx/gamex-sub000/models"
	"github.com/daydaylx/gamex-sub000/repository"
	"github.com/daydaylx/gamex-sub000/services"
	"github.com/daydaylx/gamex-sub000/utils"

	"github.com/gin-gonic/gin"
)

// PinHeader carries the optional session PIN.
const PinHeader = "X-Session-Pin"

const sessionKey = "session"

// APIHandler holds all dependencies for API handlers, such as repositories and services.
type APIHandler struct {
	templateRepo    repository.TemplateRepository
	scenarioRepo    repository.ScenarioRepository
	sessionService  services.SessionService
	responseService services.ResponseService
	compareService  services.CompareService
	exportService   services.ExportService
	analysisService services.AnalysisService
	planService     services.PlanService
	progressService services.ProgressService
	redactDefault   bool
	log             *logger.Logger
}

// NewAPIHandler creates a new APIHandler with necessary dependencies.
func NewAPIHandler(
	templateRepo repository.TemplateRepository,
	scenarioRepo repository.ScenarioRepository,
	sessionService services.SessionService,
	responseService services.ResponseService,
	compareService services.CompareService,
	exportService services.ExportService,
	analysisService services.AnalysisService,
	planService services.PlanService,
	progressService services.ProgressService,
	redactDefault bool,
	log *logger.Logger,
) *APIHandler {
	return &APIHandler{
		templateRepo:    templateRepo,
		scenarioRepo:    scenarioRepo,
		sessionService:  sessionService,
		responseService: responseService,
		compareService:  compareService,
		exportService:   exportService,
		analysisService: analysisService,
		planService:     planService,
		progressService: progressService,
		redactDefault:   redactDefault,
		log:             log,
	}
}

// sendServiceError maps service sentinel errors onto HTTP statuses.
func sendServiceError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, services.ErrInvalidSide):
		utils.SendJSONError(c, http.StatusBadRequest, "Side must be A or B.", err)
	case errors.Is(err, services.ErrTaskCompleted):
		utils.SendJSONError(c, http.StatusBadRequest, "Cannot skip an already completed task.", err)
	case errors.Is(err, services.ErrAccessDenied):
		utils.SendJSONError(c, http.StatusUnauthorized, "Invalid session PIN.", err)
	case errors.Is(err, services.ErrSessionNotFound):
		utils.SendJSONError(c, http.StatusNotFound, "Session not found.", err)
	case errors.Is(err, services.ErrTemplateNotFound):
		utils.SendJSONError(c, http.StatusNotFound, "Template not found.", err)
	case errors.Is(err, services.ErrPlanNotFound):
		utils.SendJSONError(c, http.StatusNotFound, "Plan not found.", err)
	case errors.Is(err, services.ErrTaskNotFound):
		utils.SendJSONError(c, http.StatusNotFound, "Task not found.", err)
	case errors.Is(err, services.ErrResponsesIncomplete):
		utils.SendJSONError(c, http.StatusConflict, "Both partners must submit their answers first.", err)
	case errors.Is(err, services.ErrAnalysisQuotaExceeded):
		utils.SendJSONError(c, http.StatusTooManyRequests, "Analysis quota for this session is used up.", err)
	case errors.Is(err, services.ErrAnalysisDisabled):
		utils.SendJSONError(c, http.StatusServiceUnavailable, "Analysis is not available.", err)
	default:
		utils.SendJSONError(c, http.StatusInternalServerError, fallback, err)
	}
}

// RequireSessionAccess checks the X-Session-Pin header against the session in the path.
func (h *APIHandler) RequireSessionAccess(c *gin.Context) {
	session, err := h.sessionService.VerifyAccess(c.Param("sessionID"), c.GetHeader(PinHeader))
	if err != nil {
		sendServiceError(c, err, "Failed to verify session access.")
		return
	}
	c.Set(sessionKey, session)
	c.Next()
}

// --- Content ---

// ListTemplatesHandler returns every loaded questionnaire template.
func (h *APIHandler) ListTemplatesHandler(c *gin.Context) {
	templates, err := h.templateRepo.ListTemplates()
	if err != nil {
		utils.SendJSONError(c, http.StatusInternalServerError, "Failed to list templates.", err)
		return
	}
	utils.SendJSONSuccess(c, "Templates retrieved", templates)
}

func (h *APIHandler) GetTemplateHandler(c *gin.Context) {
	tpl, err := h.templateRepo.GetTemplate(c.Param("templateID"))
	if err != nil {
		utils.SendJSONError(c, http.StatusInternalServerError, "Failed to load template.", err)
		return
	}
	if tpl == nil {
		utils.SendJSONError(c, http.StatusNotFound, "Template not found.", nil)
		return
	}
	utils.SendJSONSuccess(c, "Template retrieved", tpl)
}

func (h *APIHandler) ListScenariosHandler(c *gin.Context) {
	scenarios, err := h.scenarioRepo.ListScenarios()
	if err != nil {
		utils.SendJSONError(c, http.StatusInternalServerError, "Failed to list scenarios.", err)
		return
	}
	utils.SendJSONSuccess(c, "Scenarios retrieved", scenarios)
}

// --- Sessions ---

type createSessionRequest struct {
	TemplateID string `json:"template_id" binding:"required"`
	Name       string `json:"name"`
	Pin        string `json:"pin"`
}

// CreateSessionHandler opens a new comparison session.
// POST /api/sessions
func (h *APIHandler) CreateSessionHandler(c *gin.Context) {
	var req createSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendJSONError(c, http.StatusBadRequest, "Invalid request: template_id is required.", err)
		return
	}

	session, err := h.sessionService.CreateSession(req.TemplateID, req.Name, req.Pin)
	if err != nil {
		sendServiceError(c, err, "Failed to create session.")
		return
	}
	utils.SendJSONSuccess(c, "Session created", session)
}

func (h *APIHandler) GetSessionHandler(c *gin.Context) {
	utils.SendJSONSuccess(c, "Session retrieved", c.MustGet(sessionKey))
}

type submitResponseRequest struct {
	Answers comparison.ResponseMap `json:"answers" binding:"required"`
}

// SubmitResponseHandler stores one partner's answers.
// PUT /api/sessions/:sessionID/responses/:side
func (h *APIHandler) SubmitResponseHandler(c *gin.Context) {
	var req submitResponseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendJSONError(c, http.StatusBadRequest, "Invalid request: answers object is required.", err)
		return
	}

	side := models.Side(c.Param("side"))
	resp, err := h.responseService.SubmitResponse(c.Param("sessionID"), side, req.Answers)
	if err != nil {
		sendServiceError(c, err, "Failed to store answers.")
		return
	}
	utils.SendJSONSuccess(c, "Answers stored", gin.H{
		"session_id":   resp.SessionID,
		"side":         resp.Side,
		"submitted_at": resp.SubmittedAt,
	})
}

// GetResponseHandler returns the normalized answers of one side.
// GET /api/sessions/:sessionID/responses/:side
func (h *APIHandler) GetResponseHandler(c *gin.Context) {
	side := models.Side(c.Param("side"))
	answers, err := h.responseService.GetResponse(c.Param("sessionID"), side)
	if err != nil {
		sendServiceError(c, err, "Failed to load answers.")
		return
	}
	if answers == nil {
		utils.SendJSONError(c, http.StatusNotFound, "This side has not answered yet.", nil)
		return
	}
	utils.SendJSONSuccess(c, "Answers retrieved", gin.H{"side": side, "answers": answers})
}

// --- Reports ---

// CompareHandler returns the comparison report of a session.
// GET /api/sessions/:sessionID/compare
func (h *APIHandler) CompareHandler(c *gin.Context) {
	result, err := h.compareService.CompareSession(c.Request.Context(), c.Param("sessionID"))
	if err != nil {
		sendServiceError(c, err, "Failed to compare answers.")
		return
	}
	utils.SendJSONSuccess(c, "Comparison computed", result)
}

// ExportHandler renders the comparison report as Markdown.
// GET /api/sessions/:sessionID/export
func (h *APIHandler) ExportHandler(c *gin.Context) {
	sessionID := c.Param("sessionID")
	result, err := h.compareService.CompareSession(c.Request.Context(), sessionID)
	if err != nil {
		sendServiceError(c, err, "Failed to export report.")
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "report-"+sessionID+".md"))
	c.Data(http.StatusOK, "text/markdown; charset=utf-8", []byte(h.exportService.RenderMarkdown(result)))
}

// --- Plans ---

// GeneratePlanHandler persists the current action plan of a session.
// POST /api/sessions/:sessionID/plan
func (h *APIHandler) GeneratePlanHandler(c *gin.Context) {
	plan, err := h.planService.GeneratePlan(c.Request.Context(), c.Param("sessionID"))
	if err != nil {
		sendServiceError(c, err, "Failed to generate plan.")
		return
	}
	utils.SendJSONSuccess(c, "Plan generated successfully", plan)
}

func (h *APIHandler) GetPlansForSessionHandler(c *gin.Context) {
	plans, err := h.planService.GetPlansForSession(c.Param("sessionID"))
	if err != nil {
		sendServiceError(c, err, "Failed to fetch plans.")
		return
	}
	utils.SendJSONSuccess(c, "Plans retrieved successfully", plans)
}

// GetProgressHandler summarizes completed and skipped tasks over all plans of the session.
// GET /api/sessions/:sessionID/progress
func (h *APIHandler) GetProgressHandler(c *gin.Context) {
	report, err := h.progressService.GenerateProgressReport(c.Param("sessionID"))
	if err != nil {
		sendServiceError(c, err, "Failed to generate progress report.")
		return
	}
	utils.SendJSONSuccess(c, "Progress report generated", report)
}

// GetPlanDetailsHandler returns a plan after checking the PIN of the session it belongs to.
// GET /api/plans/:planID
func (h *APIHandler) GetPlanDetailsHandler(c *gin.Context) {
	planID, err := parseUint(c.Param("planID"))
	if err != nil {
		utils.SendJSONError(c, http.StatusBadRequest, "Invalid PlanID parameter.", err)
		return
	}

	plan, err := h.planService.GetPlanDetails(planID)
	if err != nil {
		sendServiceError(c, err, "Failed to fetch plan details.")
		return
	}
	if _, err := h.sessionService.VerifyAccess(plan.SessionID, c.GetHeader(PinHeader)); err != nil {
		sendServiceError(c, err, "Failed to verify session access.")
		return
	}
	utils.SendJSONSuccess(c, "Plan details retrieved successfully", plan)
}

type taskActionRequest struct {
	SessionID string `json:"session_id" binding:"required"`
}

// CompleteTaskHandler marks a plan task as completed.
// POST /api/plans/tasks/:taskID/complete
func (h *APIHandler) CompleteTaskHandler(c *gin.Context) {
	h.taskAction(c, "Task marked as completed", h.planService.MarkTaskCompleted)
}

// SkipTaskHandler marks a plan task as skipped.
// POST /api/plans/tasks/:taskID/skip
func (h *APIHandler) SkipTaskHandler(c *gin.Context) {
	h.taskAction(c, "Task marked as skipped", h.planService.MarkTaskSkipped)
}

func (h *APIHandler) taskAction(c *gin.Context, okMsg string, action func(uint, string) (*models.PlanTask, error)) {
	taskID, err := parseUint(c.Param("taskID"))
	if err != nil {
		utils.SendJSONError(c, http.StatusBadRequest, "Invalid TaskID parameter.", err)
		return
	}
	var req taskActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendJSONError(c, http.StatusBadRequest, "Invalid request: session_id is required.", err)
		return
	}
	if _, err := h.sessionService.VerifyAccess(req.SessionID, c.GetHeader(PinHeader)); err != nil {
		sendServiceError(c, err, "Failed to verify session access.")
		return
	}

	task, err := action(taskID, req.SessionID)
	if err != nil {
		sendServiceError(c, err, "Failed to update task.")
		return
	}
	utils.SendJSONSuccess(c, okMsg, task)
}

// Helper to parse uint from string
func parseUint(s string) (uint, error) {
	u, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid numeric ID: %s: %w", s, err)
	}
	return uint(u), nil
}
