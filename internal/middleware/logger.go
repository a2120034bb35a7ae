package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/monocle-dev/taskboard/internal/types"
	log "github.com/sirupsen/logrus"
)

// RequestLogger logs one structured line per request.
func RequestLogger(logger *log.Logger) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		start := time.Now()
		ctx.Next()

		status := ctx.Writer.Status()
		fields := log.Fields{
			"method":     ctx.Request.Method,
			"path":       ctx.FullPath(),
			"status":     status,
			"latency_ms": float64(time.Since(start).Microseconds()) / 1000,
		}
		if user, ok := ctx.Get(types.ContextUserKey); ok {
			if u, ok := user.(AuthenticatedUser); ok {
				fields["user_id"] = u.ID
			}
		}
		if len(ctx.Errors) > 0 {
			fields["errors"] = ctx.Errors.String()
		}

		entry := logger.WithFields(fields)
		switch {
		case status >= 500:
			entry.Error("request failed")
		case status >= 400:
			entry.Warn("request rejected")
		default:
			entry.Info("request handled")
		}
	}
}
