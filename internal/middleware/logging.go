// internal/middleware/logging.go
package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/quickelectronics/supplychain-backend/internal/models"
)

// redactedFields are request keys that never belong in the audit trail.
var redactedFields = []string{"password", "password_confirm", "current_password", "new_password"}

// AuditLogMiddleware records every mutating request as an audit row and
// emits a structured request log. Reads and health checks are skipped.
func AuditLogMiddleware(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodGet || c.Request.URL.Path == "/health" {
			c.Next()
			return
		}

		body := captureBody(c)
		start := time.Now()

		c.Next()

		rawUserID, _ := c.Get("user_id")

		entry := &models.AuditLog{
			UserID:       parseUserID(rawUserID),
			Action:       c.Request.Method + " " + c.Request.URL.Path,
			ResourceType: resourceTypeFromPath(c.Request.URL.Path),
			ResourceID:   resourceIDFromPath(c.Request.URL.Path),
			IPAddress:    c.ClientIP(),
			UserAgent:    c.Request.UserAgent(),
			Details:      auditDetails(body),
		}

		// The write happens off the request path.
		go func() {
			if err := db.Create(entry).Error; err != nil {
				logrus.WithError(err).Error("Failed to create audit log")
			}
		}()

		logrus.WithFields(logrus.Fields{
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"status":     c.Writer.Status(),
			"duration":   time.Since(start).Milliseconds(),
			"ip":         c.ClientIP(),
			"user_agent": c.Request.UserAgent(),
			"user_id":    rawUserID,
		}).Info("Request processed")
	}
}

// captureBody drains the request body and restores it for downstream handlers.
func captureBody(c *gin.Context) []byte {
	if c.Request.Body == nil {
		return nil
	}
	body, _ := io.ReadAll(c.Request.Body)
	c.Request.Body = io.NopCloser(bytes.NewReader(body))
	return body
}

func parseUserID(raw interface{}) *uuid.UUID {
	s, ok := raw.(string)
	if !ok {
		return nil
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return nil
	}
	return &id
}

// auditDetails decodes the captured body with credential fields redacted.
func auditDetails(body []byte) models.JSONB {
	if len(body) == 0 {
		return nil
	}
	var data map[string]interface{}
	if err := json.Unmarshal(body, &data); err != nil {
		return nil
	}
	for _, key := range redactedFields {
		if _, exists := data[key]; exists {
			data[key] = "[REDACTED]"
		}
	}
	return models.JSONB(data)
}

func resourceTypeFromPath(path string) string {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	switch {
	case len(parts) >= 2 && parts[0] == "v1":
		return parts[1]
	case len(parts) >= 1 && parts[0] != "":
		return parts[0]
	}
	return "unknown"
}

func resourceIDFromPath(path string) string {
	for _, part := range strings.Split(strings.Trim(path, "/"), "/") {
		if _, err := uuid.Parse(part); err == nil {
			return part
		}
	}
	return ""
}

// RequestLogger silences gin's own access log; requests get structured
// fields from AuditLogMiddleware instead.
func RequestLogger() gin.HandlerFunc {
	return gin.LoggerWithFormatter(func(gin.LogFormatterParams) string {
		return ""
	})
}
