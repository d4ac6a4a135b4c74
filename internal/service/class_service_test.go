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

type mockClassRepo struct {
	classes        map[string]*models.ClassDetail
	sections       map[string]*models.Section
	createClassErr error
	deleteClassErr error
}

func (m *mockClassRepo) ListClasses(ctx context.Context) ([]models.ClassDetail, error) {
	out := make([]models.ClassDetail, 0, len(m.classes))
	for _, c := range m.classes {
		out = append(out, *c)
	}
	return out, nil
}

func (m *mockClassRepo) FindClassByID(ctx context.Context, id string) (*models.ClassDetail, error) {
	c, ok := m.classes[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copied := *c
	return &copied, nil
}

func (m *mockClassRepo) CreateClass(ctx context.Context, class *models.Class) error {
	if m.createClassErr != nil {
		return m.createClassErr
	}
	class.ID = "c-1"
	if m.classes == nil {
		m.classes = make(map[string]*models.ClassDetail)
	}
	m.classes[class.ID] = &models.ClassDetail{Class: *class}
	return nil
}

func (m *mockClassRepo) UpdateClass(ctx context.Context, class *models.Class) error {
	existing, ok := m.classes[class.ID]
	if !ok {
		return sql.ErrNoRows
	}
	existing.Class = *class
	return nil
}

func (m *mockClassRepo) DeleteClass(ctx context.Context, id string) error {
	if m.deleteClassErr != nil {
		return m.deleteClassErr
	}
	delete(m.classes, id)
	return nil
}

func (m *mockClassRepo) ListSections(ctx context.Context) ([]models.Section, error) {
	out := make([]models.Section, 0, len(m.sections))
	for _, s := range m.sections {
		out = append(out, *s)
	}
	return out, nil
}

func (m *mockClassRepo) FindSectionByID(ctx context.Context, id string) (*models.Section, error) {
	s, ok := m.sections[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copied := *s
	return &copied, nil
}

func (m *mockClassRepo) CreateSection(ctx context.Context, section *models.Section) error {
	section.ID = "sec-1"
	if m.sections == nil {
		m.sections = make(map[string]*models.Section)
	}
	m.sections[section.ID] = section
	return nil
}

func (m *mockClassRepo) UpdateSection(ctx context.Context, section *models.Section) error {
	existing, ok := m.sections[section.ID]
	if !ok {
		return sql.ErrNoRows
	}
	*existing = *section
	return nil
}

func (m *mockClassRepo) DeleteSection(ctx context.Context, id string) error {
	delete(m.sections, id)
	return nil
}

func TestClassServiceCreateClass(t *testing.T) {
	repo := &mockClassRepo{}
	svc := NewClassService(repo, nil, nil)

	class, err := svc.CreateClass(context.Background(), ClassRequest{Name: "Grade 10"})
	require.NoError(t, err)
	assert.Equal(t, "c-1", class.ID)
	assert.Equal(t, "Grade 10", class.Name)
}

func TestClassServiceCreateClassDuplicateName(t *testing.T) {
	repo := &mockClassRepo{createClassErr: appErrors.Clone(appErrors.ErrConflict, "class name already used")}
	svc := NewClassService(repo, nil, nil)

	_, err := svc.CreateClass(context.Background(), ClassRequest{Name: "Grade 10"})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErr.Code)
}

func TestClassServiceCreateClassMissingName(t *testing.T) {
	svc := NewClassService(&mockClassRepo{}, nil, nil)

	_, err := svc.CreateClass(context.Background(), ClassRequest{})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
}

func TestClassServiceDeleteClassReferenced(t *testing.T) {
	repo := &mockClassRepo{
		classes:        map[string]*models.ClassDetail{"c-1": {Class: models.Class{ID: "c-1"}}},
		deleteClassErr: appErrors.Clone(appErrors.ErrConflict, "class is referenced by class sections"),
	}
	svc := NewClassService(repo, nil, nil)

	err := svc.DeleteClass(context.Background(), "c-1")
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErr.Code)
}

func TestClassServiceGetClassNotFound(t *testing.T) {
	svc := NewClassService(&mockClassRepo{}, nil, nil)

	_, err := svc.GetClass(context.Background(), "missing")
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}

func TestClassServiceSectionLifecycle(t *testing.T) {
	repo := &mockClassRepo{}
	svc := NewClassService(repo, nil, nil)

	section, err := svc.CreateSection(context.Background(), SectionRequest{Name: "A"})
	require.NoError(t, err)
	assert.Equal(t, "sec-1", section.ID)

	updated, err := svc.UpdateSection(context.Background(), "sec-1", SectionRequest{Name: "B"})
	require.NoError(t, err)
	assert.Equal(t, "B", updated.Name)

	require.NoError(t, svc.DeleteSection(context.Background(), "sec-1"))
	_, err = svc.GetSection(context.Background(), "sec-1")
	require.Error(t, err)
}
