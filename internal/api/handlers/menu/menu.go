package menu

import (
	"context"
	"net/http"
	"strings"
	"time"

	"menu-planner/internal/api/handlers"
	menuCore "menu-planner/internal/core/menu"
	"menu-planner/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Planner is the scheduling entry point the handlers call.
type Planner interface {
	PlanDays(ctx context.Context, dates []string) (*menuCore.Report, error)
	RegenerateDay(ctx context.Context, date string) (*menuCore.Report, error)
}

// Handler serves the menu endpoints.
type Handler struct {
	planner     Planner
	defaultDays int
	debug       bool
	now         func() time.Time
}

// NewHandler creates a menu handler. Requests without days get defaultDays
// starting today.
func NewHandler(planner Planner, defaultDays int, debug bool) *Handler {
	if defaultDays < 1 {
		defaultDays = 7
	}
	return &Handler{
		planner:     planner,
		defaultDays: defaultDays,
		debug:       debug,
		now:         time.Now,
	}
}

// requestedDays reads ?days=a,b&days=c into a flat list.
func (h *Handler) requestedDays(c *gin.Context) []string {
	var days []string
	for _, v := range c.QueryArray("days") {
		for _, d := range strings.Split(v, ",") {
			if d = strings.TrimSpace(d); d != "" {
				days = append(days, d)
			}
		}
	}
	if len(days) == 0 {
		days = menuCore.Range(h.now(), h.defaultDays)
	}
	return days
}

// HandleGetMenu returns the menu for the requested days, planning any that
// are missing.
func (h *Handler) HandleGetMenu(c *gin.Context) {
	days := h.requestedDays(c)

	report, err := h.planner.PlanDays(c.Request.Context(), days)
	if err != nil {
		handlers.Error(c, err, h.debug)
		return
	}

	common.LogDebug("Menu served",
		zap.Int("days", len(report.Menu)),
		zap.Int("recipes", len(report.Recipes)),
	)
	c.JSON(http.StatusOK, report)
}

// HandleRegenerateDay replans a single day.
func (h *Handler) HandleRegenerateDay(c *gin.Context) {
	report, err := h.planner.RegenerateDay(c.Request.Context(), c.Param("date"))
	if err != nil {
		handlers.Error(c, err, h.debug)
		return
	}
	c.JSON(http.StatusOK, report)
}
