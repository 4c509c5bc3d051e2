package middleware

import (
	"slices"
	"time"

	"github.com/daydaylx/gamex-sub000/logger"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Logger is a Gin middleware for logging HTTP requests and responses.
func Logger(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		startTime := time.Now()

		c.Next()

		latency := time.Since(startTime)
		errorsStr := c.Errors.ByType(gin.ErrorTypePrivate).String()

		// Path only: query strings may carry ids worth keeping out of logs.
		kv := []interface{}{
			"status", c.Writer.Status(),
			"method", c.Request.Method,
			"path", c.FullPath(),
			"latency", latency,
			"client_ip", c.ClientIP(),
		}
		if errorsStr != "" {
			kv = append(kv, "errors", errorsStr)
		}
		log.Info("[GIN] Request handled", kv...)
	}
}

// Cors enables Cross-Origin Resource Sharing for the given origins.
// An empty list or "*" allows any origin without credentials.
func Cors(allowedOrigins []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Content-Length", "Accept", "Authorization", "Cache-Control", "X-Requested-With", "X-Session-Pin"},
		ExposeHeaders: []string{"Content-Disposition"},
		MaxAge:        12 * time.Hour,
	}
	if len(allowedOrigins) == 0 || slices.Contains(allowedOrigins, "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = allowedOrigins
		cfg.AllowCredentials = true
	}
	return cors.New(cfg)
}
