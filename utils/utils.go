package utils

import (
	"net/http"

	"github.com/daydaylx/gamex-sub000/logger"

	"github.com/gin-gonic/gin"
)

var log = logger.Nop()

// SetLogger sets the logger used for handler error reports.
func SetLogger(l *logger.Logger) {
	if l != nil {
		log = l
	}
}

const genericServerError = "An unexpected error occurred. Please try again later."

// SendJSONError sends a standardized JSON error response and logs the internal error.
// For 5xx errors the client only sees publicMsg (or a generic message); internalError is logged.
func SendJSONError(c *gin.Context, statusCode int, publicMsg string, internalError error, details ...string) {
	errorDetails := ""
	if len(details) > 0 {
		errorDetails = details[0]
	}

	response := gin.H{"code": statusCode, "error": publicMsg}
	if errorDetails != "" {
		response["details"] = errorDetails
	}

	if internalError != nil {
		log.Error("[Handler] Request failed",
			"status", statusCode, "public_message", publicMsg, "error", internalError, "path", c.Request.URL.Path)
	} else {
		log.Info("[Handler] Request rejected",
			"status", statusCode, "public_message", publicMsg, "path", c.Request.URL.Path)
	}

	if statusCode >= http.StatusInternalServerError {
		if publicMsg == "" || (internalError != nil && publicMsg == internalError.Error()) {
			response["error"] = genericServerError
		}
	}

	c.AbortWithStatusJSON(statusCode, response)
}

// SendJSONSuccess writes the {"code":200,"message","data"} envelope.
func SendJSONSuccess(c *gin.Context, message string, data any) {
	c.JSON(http.StatusOK, gin.H{
		"code":    http.StatusOK,
		"message": message,
		"data":    data,
	})
}
