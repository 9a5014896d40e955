package middleware

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"net/http"
	"sync"
	"time"

	"menu-planner/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Deduplication rejects a POST whose path and body repeat one seen within
// window, so a double-submitted recipe is not created twice.
func Deduplication(window time.Duration) gin.HandlerFunc {
	var (
		mu   sync.Mutex
		seen = make(map[string]time.Time)
	)

	return func(c *gin.Context) {
		if c.Request.Method != http.MethodPost || window <= 0 {
			c.Next()
			return
		}

		fingerprint := c.Request.Method + ":" + c.Request.URL.Path
		if c.Request.Body != nil {
			body, err := io.ReadAll(c.Request.Body)
			if err != nil {
				common.LogError("Failed to read request body", zap.Error(err))
				c.AbortWithStatusJSON(http.StatusBadRequest, common.NewErrorResponse(common.ErrInvalidRequest, false))
				return
			}
			hash := sha256.Sum256(body)
			fingerprint += ":" + hex.EncodeToString(hash[:])
			c.Request.Body = io.NopCloser(bytes.NewReader(body))
		}

		now := time.Now()
		mu.Lock()
		for k, t := range seen {
			if now.Sub(t) > window {
				delete(seen, k)
			}
		}
		if _, dup := seen[fingerprint]; dup {
			mu.Unlock()
			common.LogWarn("Duplicate request rejected",
				zap.String("path", c.Request.URL.Path),
				zap.String("ip", c.ClientIP()),
			)
			c.AbortWithStatusJSON(http.StatusTooManyRequests, common.ErrorResponse{
				Code:    common.ErrCodeTooManyRequests,
				Message: "duplicate request",
			})
			return
		}
		seen[fingerprint] = now
		mu.Unlock()

		c.Next()
	}
}
