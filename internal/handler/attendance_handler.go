package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/edudesk/school-api/internal/models"
	"github.com/edudesk/school-api/internal/service"
	appErrors "github.com/edudesk/school-api/pkg/errors"
	"github.com/edudesk/school-api/pkg/response"
)

// AttendanceHandler exposes attendance endpoints.
type AttendanceHandler struct {
	attendance *service.AttendanceService
}

// NewAttendanceHandler constructs AttendanceHandler.
func NewAttendanceHandler(attendance *service.AttendanceService) *AttendanceHandler {
	return &AttendanceHandler{attendance: attendance}
}

// Mark records one attendance entry.
func (h *AttendanceHandler) Mark(c *gin.Context) {
	var req service.MarkAttendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	record, err := h.attendance.Mark(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, record)
}

// Report returns attendance records narrowed by query filters.
func (h *AttendanceHandler) Report(c *gin.Context) {
	filter := models.AttendanceFilter{StudentID: c.Query("student_id")}

	if raw := c.Query("start_date"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			response.Error(c, appErrors.Validation(map[string]string{"start_date": "must be YYYY-MM-DD"}))
			return
		}
		filter.StartDate = &parsed
	}
	if raw := c.Query("end_date"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			response.Error(c, appErrors.Validation(map[string]string{"end_date": "must be YYYY-MM-DD"}))
			return
		}
		filter.EndDate = &parsed
	}

	records, err := h.attendance.Report(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, records)
}
