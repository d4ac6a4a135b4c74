package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/edudesk/school-api/internal/service"
	"github.com/edudesk/school-api/pkg/response"
)

// DashboardHandler exposes the dashboard summary endpoint.
type DashboardHandler struct {
	dashboard *service.DashboardService
}

// NewDashboardHandler constructs DashboardHandler.
func NewDashboardHandler(dashboard *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboard: dashboard}
}

// Summary returns the live dashboard counters.
func (h *DashboardHandler) Summary(c *gin.Context) {
	summary, err := h.dashboard.Summary(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, summary)
}
