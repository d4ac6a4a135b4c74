package service

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edudesk/school-api/internal/models"
	appErrors "github.com/edudesk/school-api/pkg/errors"
)

type mockReportStudentRepo struct {
	student *models.StudentDetail
}

func (m *mockReportStudentRepo) FindByID(ctx context.Context, id string) (*models.StudentDetail, error) {
	if m.student == nil {
		return nil, sql.ErrNoRows
	}
	copied := *m.student
	return &copied, nil
}

type mockReportAttendanceRepo struct {
	records []models.Attendance
}

func (m *mockReportAttendanceRepo) ListByStudent(ctx context.Context, studentID string) ([]models.Attendance, error) {
	return m.records, nil
}

type mockReportFeeRepo struct {
	fees []models.FeeDetail
}

func (m *mockReportFeeRepo) ListByStudent(ctx context.Context, studentID string) ([]models.FeeDetail, error) {
	return m.fees, nil
}

type mockReportExamRepo struct {
	results []models.ExamResultDetail
}

func (m *mockReportExamRepo) ResultsByStudent(ctx context.Context, studentID string) ([]models.ExamResultDetail, error) {
	return m.results, nil
}

type memoryCacheRepo struct {
	store map[string][]byte
	gets  int
	hits  int
}

func (m *memoryCacheRepo) Get(ctx context.Context, key string, dest interface{}) error {
	m.gets++
	raw, ok := m.store[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	m.hits++
	return json.Unmarshal(raw, dest)
}

func (m *memoryCacheRepo) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	if m.store == nil {
		m.store = make(map[string][]byte)
	}
	m.store[key] = raw
	return nil
}

func (m *memoryCacheRepo) DeleteByPattern(ctx context.Context, pattern string) error {
	m.store = make(map[string][]byte)
	return nil
}

func newReportFixture(cacheRepo CacheRepository) (*ReportService, *mockReportStudentRepo, *mockReportAttendanceRepo, *mockReportFeeRepo, *mockReportExamRepo) {
	students := &mockReportStudentRepo{student: &models.StudentDetail{
		Student:     models.Student{ID: "st-1", AdmissionNumber: "ADM-001"},
		FirstName:   "Ada",
		LastName:    "Lovelace",
		ClassName:   "Grade 10",
		SectionName: "A",
	}}
	attendance := &mockReportAttendanceRepo{}
	fees := &mockReportFeeRepo{}
	exams := &mockReportExamRepo{}

	var cacheSvc *CacheService
	if cacheRepo != nil {
		cacheSvc = NewCacheService(cacheRepo, nil, time.Minute, nil, true)
	}
	svc := NewReportService(students, attendance, fees, exams, cacheSvc, time.Minute, nil)
	return svc, students, attendance, fees, exams
}

func TestReportServiceAcademicReport(t *testing.T) {
	svc, _, attendance, fees, exams := newReportFixture(nil)

	attendance.records = []models.Attendance{
		{Date: time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC), Status: models.AttendancePresent},
		{Date: time.Date(2026, 1, 6, 0, 0, 0, 0, time.UTC), Status: models.AttendanceAbsent},
		{Date: time.Date(2026, 2, 2, 0, 0, 0, 0, time.UTC), Status: models.AttendancePresent},
		{Date: time.Date(2026, 2, 3, 0, 0, 0, 0, time.UTC), Status: models.AttendanceLate},
	}
	paid := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)
	fees.fees = []models.FeeDetail{
		{Fee: models.Fee{ID: "fee-1", Amount: 1000, Status: models.FeePaid, PaidDate: &paid, DueDate: paid}},
		{Fee: models.Fee{ID: "fee-2", Amount: 500, Status: models.FeePending, DueDate: time.Now().AddDate(0, 1, 0)}},
		{Fee: models.Fee{ID: "fee-3", Amount: 250, Status: models.FeePending, DueDate: time.Now().AddDate(0, -1, 0)}},
	}
	exams.results = []models.ExamResultDetail{
		{ExamResult: models.ExamResult{MarksObtained: 90, MaxMarks: 100}, ExamName: "Mid Term", SubjectName: "Math"},
		{ExamResult: models.ExamResult{MarksObtained: 70, MaxMarks: 100}, ExamName: "Mid Term", SubjectName: "Science"},
	}

	report, err := svc.AcademicReport(context.Background(), "st-1")
	require.NoError(t, err)

	assert.Equal(t, "Grade 10 - A", report.Student.ClassSectionName)

	assert.Equal(t, 4, report.AttendanceSummary.TotalDays)
	assert.Equal(t, 2, report.AttendanceSummary.PresentDays)
	assert.Equal(t, 1, report.AttendanceSummary.AbsentDays)
	assert.Equal(t, 1, report.AttendanceSummary.LateDays)
	assert.Equal(t, 50.0, report.AttendanceSummary.AttendancePercentage)
	require.Len(t, report.AttendanceSummary.MonthlyReport, 2)
	assert.Equal(t, 2, report.AttendanceSummary.MonthlyReport["2026-01"].TotalDays)
	assert.Equal(t, 1, report.AttendanceSummary.MonthlyReport["2026-02"].PresentDays)

	assert.Equal(t, 1750.0, report.FeeSummary.TotalFees)
	assert.Equal(t, 1000.0, report.FeeSummary.PaidFees)
	assert.Equal(t, 500.0, report.FeeSummary.PendingFees)
	assert.Equal(t, 250.0, report.FeeSummary.OverdueFees)
	require.Len(t, report.FeeSummary.PaymentHistory, 1)
	assert.Equal(t, "fee-1", report.FeeSummary.PaymentHistory[0].ID)

	require.Len(t, report.ExamResults, 2)
	assert.Equal(t, 90.0, report.ExamResults[0].Percentage)
	assert.Equal(t, "A+", report.ExamResults[0].Grade)
	assert.Equal(t, "A", report.OverallGrade)
}

func TestReportServiceOverallGradeNoResults(t *testing.T) {
	svc, _, _, _, _ := newReportFixture(nil)

	report, err := svc.AcademicReport(context.Background(), "st-1")
	require.NoError(t, err)
	assert.Equal(t, "N/A", report.OverallGrade)
	assert.Equal(t, 0.0, report.AttendanceSummary.AttendancePercentage)
}

func TestReportServiceStudentNotFound(t *testing.T) {
	svc, students, _, _, _ := newReportFixture(nil)
	students.student = nil

	_, err := svc.AcademicReport(context.Background(), "missing")
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}

func TestReportServiceCachesAssembledReport(t *testing.T) {
	cacheRepo := &memoryCacheRepo{}
	svc, students, _, _, _ := newReportFixture(cacheRepo)

	first, err := svc.AcademicReport(context.Background(), "st-1")
	require.NoError(t, err)
	require.Contains(t, cacheRepo.store, "report:student:st-1")

	// a second call must be served from cache, not the repositories
	students.student = nil
	second, err := svc.AcademicReport(context.Background(), "st-1")
	require.NoError(t, err)
	assert.Equal(t, first.Student.ID, second.Student.ID)
	assert.Equal(t, 1, cacheRepo.hits)
}

func TestReportServiceExportCSV(t *testing.T) {
	svc, _, _, _, exams := newReportFixture(nil)
	exams.results = []models.ExamResultDetail{
		{ExamResult: models.ExamResult{MarksObtained: 45, MaxMarks: 50}, ExamName: "Quiz 1", SubjectName: "Math"},
	}

	payload, contentType, err := svc.ExportReport(context.Background(), "st-1", "csv")
	require.NoError(t, err)
	assert.Equal(t, "text/csv", contentType)
	assert.True(t, bytes.Contains(payload, []byte("Quiz 1")))
	assert.True(t, bytes.Contains(payload, []byte("90.00")))
	assert.True(t, bytes.Contains(payload, []byte("A+")))
	assert.True(t, bytes.Contains(payload, []byte("Overall Grade")))
}

func TestReportServiceExportPDF(t *testing.T) {
	svc, _, _, _, _ := newReportFixture(nil)

	payload, contentType, err := svc.ExportReport(context.Background(), "st-1", "pdf")
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", contentType)
	assert.True(t, bytes.HasPrefix(payload, []byte("%PDF")))
}

func TestReportServiceExportUnknownFormat(t *testing.T) {
	svc, _, _, _, _ := newReportFixture(nil)

	_, _, err := svc.ExportReport(context.Background(), "st-1", "xlsx")
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
	assert.Contains(t, appErr.Fields, "format")
}
