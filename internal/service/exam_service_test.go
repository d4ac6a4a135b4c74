package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edudesk/school-api/internal/models"
	appErrors "github.com/edudesk/school-api/pkg/errors"
)

type mockExamRepo struct {
	exams     []models.ExamDetail
	examByID  *models.ExamDetail
	results   []models.ExamResultDetail
	created   []*models.Exam
	addedRows []*models.ExamResult
	createErr error
	deleteErr error
	resultErr error
}

func (m *mockExamRepo) List(ctx context.Context) ([]models.ExamDetail, error) {
	return m.exams, nil
}

func (m *mockExamRepo) FindByID(ctx context.Context, id string) (*models.ExamDetail, error) {
	if m.examByID == nil {
		return nil, sql.ErrNoRows
	}
	return m.examByID, nil
}

func (m *mockExamRepo) Create(ctx context.Context, exam *models.Exam) error {
	if m.createErr != nil {
		return m.createErr
	}
	exam.ID = "ex-1"
	m.created = append(m.created, exam)
	return nil
}

func (m *mockExamRepo) Update(ctx context.Context, exam *models.Exam) error {
	return nil
}

func (m *mockExamRepo) Delete(ctx context.Context, id string) error {
	return m.deleteErr
}

func (m *mockExamRepo) Results(ctx context.Context, filter models.ExamResultFilter) ([]models.ExamResultDetail, error) {
	return m.results, nil
}

func (m *mockExamRepo) CreateResult(ctx context.Context, result *models.ExamResult) error {
	if m.resultErr != nil {
		return m.resultErr
	}
	result.ID = "res-1"
	m.addedRows = append(m.addedRows, result)
	return nil
}

func TestExamServiceCreate(t *testing.T) {
	repo := &mockExamRepo{}
	svc := NewExamService(repo, nil, nil, nil)

	exam, err := svc.Create(context.Background(), CreateExamRequest{
		Name:         "Mid Term 2026",
		ExamType:     "MID",
		StartDate:    time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		EndDate:      time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
		AcademicYear: "2025-2026",
	})
	require.NoError(t, err)
	assert.Equal(t, "ex-1", exam.ID)
	assert.True(t, exam.Active)
}

func TestExamServiceCreateEndBeforeStart(t *testing.T) {
	svc := NewExamService(&mockExamRepo{}, nil, nil, nil)

	_, err := svc.Create(context.Background(), CreateExamRequest{
		Name:         "Mid Term 2026",
		ExamType:     "MID",
		StartDate:    time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
		EndDate:      time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		AcademicYear: "2025-2026",
	})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
	assert.Contains(t, appErr.Fields, "end_date")
}

func TestExamServiceGetNotFound(t *testing.T) {
	svc := NewExamService(&mockExamRepo{}, nil, nil, nil)

	_, err := svc.Get(context.Background(), "missing")
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}

func TestExamServiceDeleteWithResults(t *testing.T) {
	repo := &mockExamRepo{
		examByID:  &models.ExamDetail{Exam: models.Exam{ID: "ex-1", ExamType: models.ExamMidTerm}},
		deleteErr: appErrors.Clone(appErrors.ErrConflict, "exam has recorded results"),
	}
	svc := NewExamService(repo, nil, nil, nil)

	err := svc.Delete(context.Background(), "ex-1")
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErr.Code)
}

func TestExamServiceAddResult(t *testing.T) {
	repo := &mockExamRepo{}
	cacheRepo := &recordingCacheRepo{}
	cacheSvc := NewCacheService(cacheRepo, nil, time.Minute, nil, true)
	svc := NewExamService(repo, cacheSvc, nil, nil)

	result, err := svc.AddResult(context.Background(), AddExamResultRequest{
		ExamID:        "ex-1",
		StudentID:     "st-1",
		SubjectID:     "sub-1",
		MarksObtained: 86,
		MaxMarks:      100,
	})
	require.NoError(t, err)
	assert.Equal(t, "res-1", result.ID)
	require.Len(t, cacheRepo.patterns, 1)
	assert.Equal(t, "report:student:st-1*", cacheRepo.patterns[0])
}

func TestExamServiceAddResultMarksExceedMax(t *testing.T) {
	svc := NewExamService(&mockExamRepo{}, nil, nil, nil)

	// bonus marks push obtained past max; the row is stored unchanged
	result, err := svc.AddResult(context.Background(), AddExamResultRequest{
		ExamID:        "ex-1",
		StudentID:     "st-1",
		SubjectID:     "sub-1",
		MarksObtained: 110,
		MaxMarks:      100,
	})
	require.NoError(t, err)
	assert.Equal(t, 110.0, result.MarksObtained)
}

func TestExamServiceAddResultNegativeMarks(t *testing.T) {
	svc := NewExamService(&mockExamRepo{}, nil, nil, nil)

	_, err := svc.AddResult(context.Background(), AddExamResultRequest{
		ExamID:        "ex-1",
		StudentID:     "st-1",
		SubjectID:     "sub-1",
		MarksObtained: -5,
		MaxMarks:      100,
	})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
}

func TestExamServiceResultsDecoration(t *testing.T) {
	repo := &mockExamRepo{results: []models.ExamResultDetail{
		{ExamResult: models.ExamResult{ID: "res-1", MarksObtained: 45, MaxMarks: 50}},
		{ExamResult: models.ExamResult{ID: "res-2", MarksObtained: 20, MaxMarks: 50}},
	}}
	svc := NewExamService(repo, nil, nil, nil)

	results, err := svc.Results(context.Background(), models.ExamResultFilter{})
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, 90.0, results[0].Percentage)
	assert.Equal(t, "A+", results[0].Grade)
	assert.Equal(t, 40.0, results[1].Percentage)
	assert.Equal(t, "F", results[1].Grade)
}
