package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edudesk/school-api/internal/models"
	appErrors "github.com/edudesk/school-api/pkg/errors"
)

type mockAttendanceRepo struct {
	records   []models.AttendanceDetail
	created   []*models.Attendance
	createErr error
}

func (m *mockAttendanceRepo) Report(ctx context.Context, filter models.AttendanceFilter) ([]models.AttendanceDetail, error) {
	return m.records, nil
}

func (m *mockAttendanceRepo) Create(ctx context.Context, record *models.Attendance) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.created = append(m.created, record)
	return nil
}

type recordingCacheRepo struct {
	store    map[string][]byte
	patterns []string
}

func (m *recordingCacheRepo) Get(ctx context.Context, key string, dest interface{}) error {
	return appErrors.ErrCacheMiss
}

func (m *recordingCacheRepo) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	return nil
}

func (m *recordingCacheRepo) DeleteByPattern(ctx context.Context, pattern string) error {
	m.patterns = append(m.patterns, pattern)
	return nil
}

func TestAttendanceServiceMark(t *testing.T) {
	repo := &mockAttendanceRepo{}
	cacheRepo := &recordingCacheRepo{}
	cacheSvc := NewCacheService(cacheRepo, nil, time.Minute, nil, true)
	svc := NewAttendanceService(repo, cacheSvc, nil, nil)

	record, err := svc.Mark(context.Background(), MarkAttendanceRequest{
		StudentID: "st-1",
		Date:      time.Date(2026, 2, 3, 9, 45, 0, 0, time.UTC),
		Status:    "P",
	})
	require.NoError(t, err)
	assert.Equal(t, models.AttendancePresent, record.Status)
	assert.Equal(t, time.Date(2026, 2, 3, 0, 0, 0, 0, time.UTC), record.Date)
	require.Len(t, cacheRepo.patterns, 1)
	assert.Equal(t, "report:student:st-1*", cacheRepo.patterns[0])
}

func TestAttendanceServiceMarkInvalidStatus(t *testing.T) {
	svc := NewAttendanceService(&mockAttendanceRepo{}, nil, nil, nil)

	_, err := svc.Mark(context.Background(), MarkAttendanceRequest{
		StudentID: "st-1",
		Date:      time.Now(),
		Status:    "X",
	})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
}

func TestAttendanceServiceMarkDuplicate(t *testing.T) {
	repo := &mockAttendanceRepo{createErr: appErrors.Clone(appErrors.ErrConflict, "attendance already recorded for this student and date")}
	svc := NewAttendanceService(repo, nil, nil, nil)

	_, err := svc.Mark(context.Background(), MarkAttendanceRequest{
		StudentID: "st-1",
		Date:      time.Now(),
		Status:    "A",
	})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErr.Code)
}

func TestAttendanceServiceReportDecoration(t *testing.T) {
	repo := &mockAttendanceRepo{records: []models.AttendanceDetail{
		{
			Attendance:  models.Attendance{ID: "att-1", StudentID: "st-1", Status: models.AttendanceLate},
			ClassName:   "Grade 10",
			SectionName: "A",
		},
	}}
	svc := NewAttendanceService(repo, nil, nil, nil)

	records, err := svc.Report(context.Background(), models.AttendanceFilter{})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Grade 10 - A", records[0].ClassSectionName)
	assert.Equal(t, "Late", records[0].StatusDisplay)
}
