package api

import "github.com/gin-gonic/gin"

// RegisterRoutes mounts every endpoint under /api.
func RegisterRoutes(r *gin.Engine, handler *APIHandler) {
	apiGroup := r.Group("/api")
	{
		apiGroup.GET("/templates", handler.ListTemplatesHandler)
		apiGroup.GET("/templates/:templateID", handler.GetTemplateHandler)
		apiGroup.GET("/scenarios", handler.ListScenariosHandler)

		apiGroup.POST("/sessions", handler.CreateSessionHandler)

		sessionGroup := apiGroup.Group("/sessions/:sessionID", handler.RequireSessionAccess)
		{
			sessionGroup.GET("", handler.GetSessionHandler)
			sessionGroup.PUT("/responses/:side", handler.SubmitResponseHandler)
			sessionGroup.GET("/responses/:side", handler.GetResponseHandler)
			sessionGroup.GET("/compare", handler.CompareHandler)
			sessionGroup.GET("/export", handler.ExportHandler)
			sessionGroup.POST("/analysis", handler.AnalyzeHandler)
			sessionGroup.GET("/analysis", handler.ListAnalysesHandler)
			sessionGroup.POST("/plan", handler.GeneratePlanHandler)
			sessionGroup.GET("/plans", handler.GetPlansForSessionHandler)
			sessionGroup.GET("/progress", handler.GetProgressHandler)
		}

		planGroup := apiGroup.Group("/plans")
		{
			planGroup.GET("/:planID", handler.GetPlanDetailsHandler)
			planGroup.POST("/tasks/:taskID/complete", handler.CompleteTaskHandler)
			planGroup.POST("/tasks/:taskID/skip", handler.SkipTaskHandler)
		}
	}
}
