package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edudesk/school-api/internal/models"
	"github.com/edudesk/school-api/internal/service"
)

type dashboardRepoMock struct {
	summary *models.DashboardSummary
	err     error
}

func (m *dashboardRepoMock) Summary(ctx context.Context, now time.Time) (*models.DashboardSummary, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.summary, nil
}

func TestDashboardHandlerSummary(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := service.NewDashboardService(&dashboardRepoMock{summary: &models.DashboardSummary{
		TotalStudents:   120,
		TotalTeachers:   14,
		TodayAttendance: 96,
		UpcomingExams:   2,
		PendingFees:     31,
	}}, nil)
	handler := NewDashboardHandler(svc)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/dashboard", nil)
	c.Request = req

	handler.Summary(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))

	var envelope struct {
		Data models.DashboardSummary `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.Equal(t, 120, envelope.Data.TotalStudents)
	assert.Equal(t, 96, envelope.Data.TodayAttendance)
}

func TestDashboardHandlerSummaryError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := service.NewDashboardService(&dashboardRepoMock{err: errors.New("boom")}, nil)
	handler := NewDashboardHandler(svc)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/dashboard", nil)
	c.Request = req

	handler.Summary(c)
	require.Equal(t, http.StatusInternalServerError, w.Code)
}
