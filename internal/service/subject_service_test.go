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

type mockSubjectRepo struct {
	subjects  map[string]*models.SubjectDetail
	codeTaken bool
	deleteErr error
}

func (m *mockSubjectRepo) List(ctx context.Context) ([]models.SubjectDetail, error) {
	out := make([]models.SubjectDetail, 0, len(m.subjects))
	for _, s := range m.subjects {
		out = append(out, *s)
	}
	return out, nil
}

func (m *mockSubjectRepo) FindByID(ctx context.Context, id string) (*models.SubjectDetail, error) {
	s, ok := m.subjects[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copied := *s
	return &copied, nil
}

func (m *mockSubjectRepo) ExistsByCode(ctx context.Context, code, excludeID string) (bool, error) {
	return m.codeTaken, nil
}

func (m *mockSubjectRepo) Create(ctx context.Context, subject *models.Subject) error {
	subject.ID = "sub-1"
	if m.subjects == nil {
		m.subjects = make(map[string]*models.SubjectDetail)
	}
	m.subjects[subject.ID] = &models.SubjectDetail{Subject: *subject}
	return nil
}

func (m *mockSubjectRepo) Update(ctx context.Context, subject *models.Subject) error {
	existing, ok := m.subjects[subject.ID]
	if !ok {
		return sql.ErrNoRows
	}
	existing.Subject = *subject
	return nil
}

func (m *mockSubjectRepo) Delete(ctx context.Context, id string) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	delete(m.subjects, id)
	return nil
}

func TestSubjectServiceCreate(t *testing.T) {
	repo := &mockSubjectRepo{}
	svc := NewSubjectService(repo, nil, nil)

	subject, err := svc.Create(context.Background(), SubjectRequest{Name: "Mathematics", Code: "MATH", Credits: 4})
	require.NoError(t, err)
	assert.Equal(t, "sub-1", subject.ID)
	assert.Equal(t, 4, subject.Credits)
}

func TestSubjectServiceCreateDuplicateCode(t *testing.T) {
	repo := &mockSubjectRepo{codeTaken: true}
	svc := NewSubjectService(repo, nil, nil)

	_, err := svc.Create(context.Background(), SubjectRequest{Name: "Mathematics", Code: "MATH"})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErr.Code)
}

func TestSubjectServiceDeleteReferenced(t *testing.T) {
	repo := &mockSubjectRepo{
		subjects:  map[string]*models.SubjectDetail{"sub-1": {Subject: models.Subject{ID: "sub-1"}}},
		deleteErr: appErrors.Clone(appErrors.ErrConflict, "subject is referenced by exam results or teachers"),
	}
	svc := NewSubjectService(repo, nil, nil)

	err := svc.Delete(context.Background(), "sub-1")
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErr.Code)
}

func TestSubjectServiceGetNotFound(t *testing.T) {
	svc := NewSubjectService(&mockSubjectRepo{}, nil, nil)

	_, err := svc.Get(context.Background(), "missing")
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}
