package middleware

import (
	"koryob-backend/internal/metrics"

	"github.com/gin-gonic/gin"
)

// Metrics records the final status code of every request.
func Metrics(recorder metrics.Recorder) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		recorder.RecordHTTPStatus(c.Writer.Status())
	}
}
