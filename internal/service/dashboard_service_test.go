package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edudesk/school-api/internal/models"
	appErrors "github.com/edudesk/school-api/pkg/errors"
)

type mockDashboardRepo struct {
	summary *models.DashboardSummary
	err     error
	calls   int
}

func (m *mockDashboardRepo) Summary(ctx context.Context, now time.Time) (*models.DashboardSummary, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return m.summary, nil
}

func TestDashboardServiceSummary(t *testing.T) {
	repo := &mockDashboardRepo{summary: &models.DashboardSummary{
		TotalStudents:   120,
		TotalTeachers:   14,
		TodayAttendance: 96,
		UpcomingExams:   2,
		PendingFees:     31,
	}}
	svc := NewDashboardService(repo, nil)

	summary, err := svc.Summary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 120, summary.TotalStudents)
	assert.Equal(t, 96, summary.TodayAttendance)

	// every call recomputes, nothing is memoized
	_, err = svc.Summary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, repo.calls)
}

func TestDashboardServiceSummaryRepoError(t *testing.T) {
	repo := &mockDashboardRepo{err: errors.New("boom")}
	svc := NewDashboardService(repo, nil)

	_, err := svc.Summary(context.Background())
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrInternal.Code, appErr.Code)
}
