// Package handlers holds the HTTP handlers and the helpers they share.
package handlers

import (
	"menu-planner/internal/pkg/common"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Error writes err as an ErrorResponse with the status it maps to.
func Error(c *gin.Context, err error, debug bool) {
	status := common.StatusOf(err)
	fields := []zap.Field{
		zap.Error(err),
		zap.Int("status", status),
		zap.String("path", c.Request.URL.Path),
		zap.String("request_id", requestid.Get(c)),
	}
	if status >= 500 {
		common.LogError("Request failed", fields...)
	} else {
		common.LogDebug("Request rejected", fields...)
	}

	_ = c.Error(err)
	c.AbortWithStatusJSON(status, common.NewErrorResponse(err, debug))
}

// BadRequest answers 400 for a body or query that could not be read.
func BadRequest(c *gin.Context, err error, debug bool) {
	Error(c, common.Wrap(common.ErrInvalidRequest, err), debug)
}
