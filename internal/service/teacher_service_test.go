package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edudesk/school-api/internal/models"
	appErrors "github.com/edudesk/school-api/pkg/errors"
)

type mockTeacherRepo struct {
	teachers   map[string]*models.TeacherDetail
	idTaken    bool
	subjects   map[string][]models.SubjectRef
	homerooms  map[string][]string
	created    []*models.Teacher
	createdIDs [][]string
	deleted    []string
}

func (m *mockTeacherRepo) List(ctx context.Context) ([]models.TeacherDetail, error) {
	out := make([]models.TeacherDetail, 0, len(m.teachers))
	for _, t := range m.teachers {
		out = append(out, *t)
	}
	return out, nil
}

func (m *mockTeacherRepo) FindByID(ctx context.Context, id string) (*models.TeacherDetail, error) {
	t, ok := m.teachers[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copied := *t
	return &copied, nil
}

func (m *mockTeacherRepo) ExistsByEmployeeID(ctx context.Context, employeeID, excludeID string) (bool, error) {
	return m.idTaken, nil
}

func (m *mockTeacherRepo) Create(ctx context.Context, teacher *models.Teacher, subjectIDs []string) error {
	teacher.ID = "t-1"
	if m.teachers == nil {
		m.teachers = make(map[string]*models.TeacherDetail)
	}
	m.teachers[teacher.ID] = &models.TeacherDetail{Teacher: *teacher}
	m.created = append(m.created, teacher)
	m.createdIDs = append(m.createdIDs, subjectIDs)
	return nil
}

func (m *mockTeacherRepo) Update(ctx context.Context, teacher *models.Teacher, subjectIDs []string) error {
	existing, ok := m.teachers[teacher.ID]
	if !ok {
		return sql.ErrNoRows
	}
	existing.Teacher = *teacher
	return nil
}

func (m *mockTeacherRepo) Delete(ctx context.Context, id string) error {
	delete(m.teachers, id)
	m.deleted = append(m.deleted, id)
	return nil
}

func (m *mockTeacherRepo) SubjectsByTeacher(ctx context.Context, teacherID string) ([]models.SubjectRef, error) {
	return m.subjects[teacherID], nil
}

func (m *mockTeacherRepo) HomeroomLabels(ctx context.Context, teacherID string) ([]string, error) {
	return m.homerooms[teacherID], nil
}

func TestTeacherServiceCreate(t *testing.T) {
	repo := &mockTeacherRepo{}
	svc := NewTeacherService(repo, nil, nil)

	teacher, err := svc.Create(context.Background(), CreateTeacherRequest{
		AccountID:  "acc-1",
		EmployeeID: "EMP-001",
		SubjectIDs: []string{"sub-1", "sub-2"},
	})
	require.NoError(t, err)
	assert.Equal(t, "t-1", teacher.ID)
	assert.True(t, teacher.Active)
	require.Len(t, repo.createdIDs, 1)
	assert.Equal(t, []string{"sub-1", "sub-2"}, repo.createdIDs[0])
}

func TestTeacherServiceCreateDuplicateEmployeeID(t *testing.T) {
	repo := &mockTeacherRepo{idTaken: true}
	svc := NewTeacherService(repo, nil, nil)

	_, err := svc.Create(context.Background(), CreateTeacherRequest{AccountID: "acc-1", EmployeeID: "EMP-001"})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErr.Code)
}

func TestTeacherServiceGetDecoration(t *testing.T) {
	repo := &mockTeacherRepo{
		teachers: map[string]*models.TeacherDetail{
			"t-1": {Teacher: models.Teacher{ID: "t-1", EmployeeID: "EMP-001"}},
		},
		subjects:  map[string][]models.SubjectRef{"t-1": {{ID: "sub-1", Name: "Math"}}},
		homerooms: map[string][]string{"t-1": {"Grade 10 - A"}},
	}
	svc := NewTeacherService(repo, nil, nil)

	teacher, err := svc.Get(context.Background(), "t-1")
	require.NoError(t, err)
	require.Len(t, teacher.Subjects, 1)
	assert.Equal(t, "Math", teacher.Subjects[0].Name)
	assert.Equal(t, []string{"Grade 10 - A"}, teacher.ClassSections)
}

func TestTeacherServiceGetEmptyProjections(t *testing.T) {
	repo := &mockTeacherRepo{teachers: map[string]*models.TeacherDetail{
		"t-1": {Teacher: models.Teacher{ID: "t-1"}},
	}}
	svc := NewTeacherService(repo, nil, nil)

	teacher, err := svc.Get(context.Background(), "t-1")
	require.NoError(t, err)
	assert.NotNil(t, teacher.Subjects)
	assert.NotNil(t, teacher.ClassSections)
	assert.Empty(t, teacher.Subjects)
}

func TestTeacherServiceDeleteNotFound(t *testing.T) {
	svc := NewTeacherService(&mockTeacherRepo{}, nil, nil)

	err := svc.Delete(context.Background(), "missing")
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}
