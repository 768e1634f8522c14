package middleware

import (
	"context"
	"time"

	"document_manager/internal/model"
	"document_manager/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RequestLoggerMiddleware records every request to the structured log and,
// best-effort, to the api_logs table. An audit failure never affects the
// primary response.
func RequestLoggerMiddleware(logRepo repository.ApiLogRepository, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		elapsed := time.Since(start)

		status := c.Writer.Status()
		logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", status),
			zap.String("ip", c.ClientIP()),
			zap.Duration("duration", elapsed),
		)

		entry := &model.ApiLog{
			IPAddress:  c.ClientIP(),
			Method:     c.Request.Method,
			Path:       c.Request.URL.Path,
			StatusCode: status,
			ProcessMs:  float64(elapsed.Microseconds()) / 1000.0,
			CreatedAt:  time.Now(),
		}
		if key := c.GetHeader("X-Api-Key"); key != "" {
			if parsed, err := uuid.Parse(key); err == nil {
				entry.APIKey = &parsed
			}
		}

		// Detached context: the audit write must outlive a client disconnect
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := logRepo.Insert(ctx, entry); err != nil {
			logger.Warn("failed to write api log", zap.Error(err))
		}
	}
}
