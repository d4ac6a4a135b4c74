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

type mockStudentRepo struct {
	students    map[string]*models.StudentDetail
	numberTaken bool
	deleted     []string
}

func (m *mockStudentRepo) List(ctx context.Context) ([]models.StudentDetail, error) {
	out := make([]models.StudentDetail, 0, len(m.students))
	for _, st := range m.students {
		out = append(out, *st)
	}
	return out, nil
}

func (m *mockStudentRepo) FindByID(ctx context.Context, id string) (*models.StudentDetail, error) {
	st, ok := m.students[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copied := *st
	return &copied, nil
}

func (m *mockStudentRepo) ExistsByAdmissionNumber(ctx context.Context, number, excludeID string) (bool, error) {
	return m.numberTaken, nil
}

func (m *mockStudentRepo) Create(ctx context.Context, student *models.Student) error {
	student.ID = "st-1"
	if m.students == nil {
		m.students = make(map[string]*models.StudentDetail)
	}
	m.students[student.ID] = &models.StudentDetail{Student: *student}
	return nil
}

func (m *mockStudentRepo) Update(ctx context.Context, student *models.Student) error {
	existing, ok := m.students[student.ID]
	if !ok {
		return sql.ErrNoRows
	}
	existing.Student = *student
	return nil
}

func (m *mockStudentRepo) Delete(ctx context.Context, id string) error {
	delete(m.students, id)
	m.deleted = append(m.deleted, id)
	return nil
}

func enrollRequest() CreateStudentRequest {
	return CreateStudentRequest{
		AccountID:       "acc-1",
		AdmissionNumber: "ADM-001",
		RollNumber:      "12",
		BirthDate:       time.Date(2010, 6, 15, 0, 0, 0, 0, time.UTC),
		Gender:          "F",
		GuardianName:    "Guardian",
		GuardianPhone:   "555-0100",
		ClassSectionID:  "cs-1",
	}
}

func TestStudentServiceCreate(t *testing.T) {
	repo := &mockStudentRepo{}
	svc := NewStudentService(repo, nil, nil)

	student, err := svc.Create(context.Background(), enrollRequest())
	require.NoError(t, err)
	assert.Equal(t, "st-1", student.ID)
	assert.True(t, student.Active)
	assert.False(t, student.AdmissionDate.IsZero())
}

func TestStudentServiceCreateDuplicateAdmissionNumber(t *testing.T) {
	repo := &mockStudentRepo{numberTaken: true}
	svc := NewStudentService(repo, nil, nil)

	_, err := svc.Create(context.Background(), enrollRequest())
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErr.Code)
}

func TestStudentServiceCreateInvalidGender(t *testing.T) {
	svc := NewStudentService(&mockStudentRepo{}, nil, nil)

	req := enrollRequest()
	req.Gender = "X"
	_, err := svc.Create(context.Background(), req)
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
}

func TestStudentServiceGetDecoration(t *testing.T) {
	repo := &mockStudentRepo{students: map[string]*models.StudentDetail{
		"st-1": {
			Student:     models.Student{ID: "st-1"},
			ClassName:   "Grade 10",
			SectionName: "A",
			TotalDays:   20,
			PresentDays: 18,
		},
	}}
	svc := NewStudentService(repo, nil, nil)

	student, err := svc.Get(context.Background(), "st-1")
	require.NoError(t, err)
	assert.Equal(t, "Grade 10 - A", student.ClassSectionName)
	assert.Equal(t, 90.0, student.AttendancePercentage)
}

func TestStudentServiceGetNoAttendanceRecords(t *testing.T) {
	repo := &mockStudentRepo{students: map[string]*models.StudentDetail{
		"st-1": {Student: models.Student{ID: "st-1"}},
	}}
	svc := NewStudentService(repo, nil, nil)

	student, err := svc.Get(context.Background(), "st-1")
	require.NoError(t, err)
	assert.Equal(t, 0.0, student.AttendancePercentage)
}

func TestStudentServiceGetNotFound(t *testing.T) {
	svc := NewStudentService(&mockStudentRepo{}, nil, nil)

	_, err := svc.Get(context.Background(), "missing")
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}

func TestStudentServiceDelete(t *testing.T) {
	repo := &mockStudentRepo{students: map[string]*models.StudentDetail{
		"st-1": {Student: models.Student{ID: "st-1"}},
	}}
	svc := NewStudentService(repo, nil, nil)

	require.NoError(t, svc.Delete(context.Background(), "st-1"))
	assert.Equal(t, []string{"st-1"}, repo.deleted)

	err := svc.Delete(context.Background(), "st-1")
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}
