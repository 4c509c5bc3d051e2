package api

import (
	"net/http"

	"github.com/daydaylx/gamex-sub000/utils"

	"github.com/gin-gonic/gin"
)

type analyzeRequest struct {
	Redact *bool `json:"redact"`
}

// AnalyzeHandler requests an LLM analysis of the session's comparison.
// POST /api/sessions/:sessionID/analysis
func (h *APIHandler) AnalyzeHandler(c *gin.Context) {
	var req analyzeRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.SendJSONError(c, http.StatusBadRequest, "Invalid request format.", err)
			return
		}
	}
	redact := h.redactDefault
	if req.Redact != nil {
		redact = *req.Redact
	}

	analysis, err := h.analysisService.Analyze(c.Request.Context(), c.Param("sessionID"), redact)
	if err != nil {
		sendServiceError(c, err, "Failed to analyze comparison.")
		return
	}
	utils.SendJSONSuccess(c, "Analysis created", analysis)
}

// ListAnalysesHandler returns stored analyses, newest first.
// GET /api/sessions/:sessionID/analysis
func (h *APIHandler) ListAnalysesHandler(c *gin.Context) {
	list, err := h.analysisService.ListAnalyses(c.Param("sessionID"))
	if err != nil {
		sendServiceError(c, err, "Failed to list analyses.")
		return
	}
	utils.SendJSONSuccess(c, "Analyses retrieved", list)
}
