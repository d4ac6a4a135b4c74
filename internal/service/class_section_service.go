package service

import (
	"context"
	"database/sql"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/edudesk/school-api/internal/models"
	appErrors "github.com/edudesk/school-api/pkg/errors"
)

type classSectionRepository interface {
	List(ctx context.Context) ([]models.ClassSectionDetail, error)
	FindByID(ctx context.Context, id string) (*models.ClassSectionDetail, error)
	Exists(ctx context.Context, classID, sectionID, academicYear, excludeID string) (bool, error)
	Create(ctx context.Context, cs *models.ClassSection) error
	Update(ctx context.Context, cs *models.ClassSection) error
	Delete(ctx context.Context, id string) error
}

// ClassSectionRequest holds payload for class section offerings.
type ClassSectionRequest struct {
	ClassID        string  `json:"class_id" validate:"required"`
	SectionID      string  `json:"section_id" validate:"required"`
	ClassTeacherID *string `json:"class_teacher_id"`
	AcademicYear   string  `json:"academic_year" validate:"required"`
	RoomNumber     string  `json:"room_number"`
}

// ClassSectionService handles class section offerings.
type ClassSectionService struct {
	repo      classSectionRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewClassSectionService constructs the class section service.
func NewClassSectionService(repo classSectionRepository, validate *validator.Validate, logger *zap.Logger) *ClassSectionService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ClassSectionService{repo: repo, validator: validate, logger: logger}
}

// List returns all class sections with their nested projections.
func (s *ClassSectionService) List(ctx context.Context) ([]models.ClassSectionDetail, error) {
	sections, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list class sections")
	}
	for i := range sections {
		decorateClassSection(&sections[i])
	}
	return sections, nil
}

// Get returns one class section detail.
func (s *ClassSectionService) Get(ctx context.Context, id string) (*models.ClassSectionDetail, error) {
	detail, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "class section not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load class section")
	}
	decorateClassSection(detail)
	return detail, nil
}

// Create registers a class section offering for an academic year.
func (s *ClassSectionService) Create(ctx context.Context, req ClassSectionRequest) (*models.ClassSectionDetail, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid class section payload")
	}
	taken, err := s.repo.Exists(ctx, req.ClassID, req.SectionID, req.AcademicYear, "")
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to validate class section")
	}
	if taken {
		return nil, appErrors.Clone(appErrors.ErrConflict, "class section already exists for this academic year")
	}

	cs := &models.ClassSection{
		ClassID:        req.ClassID,
		SectionID:      req.SectionID,
		ClassTeacherID: req.ClassTeacherID,
		AcademicYear:   req.AcademicYear,
		RoomNumber:     req.RoomNumber,
	}
	if err := s.repo.Create(ctx, cs); err != nil {
		return nil, appErrors.FromError(err)
	}
	return s.Get(ctx, cs.ID)
}

// Update replaces the mutable fields of a class section.
func (s *ClassSectionService) Update(ctx context.Context, id string, req ClassSectionRequest) (*models.ClassSectionDetail, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid class section payload")
	}
	existing, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	taken, err := s.repo.Exists(ctx, req.ClassID, req.SectionID, req.AcademicYear, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to validate class section")
	}
	if taken {
		return nil, appErrors.Clone(appErrors.ErrConflict, "class section already exists for this academic year")
	}

	cs := existing.ClassSection
	cs.ClassID = req.ClassID
	cs.SectionID = req.SectionID
	cs.ClassTeacherID = req.ClassTeacherID
	cs.AcademicYear = req.AcademicYear
	cs.RoomNumber = req.RoomNumber

	if err := s.repo.Update(ctx, &cs); err != nil {
		return nil, appErrors.FromError(err)
	}
	return s.Get(ctx, id)
}

// Delete removes a class section unless students are enrolled in it.
func (s *ClassSectionService) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.FromError(err)
	}
	return nil
}

func decorateClassSection(cs *models.ClassSectionDetail) {
	cs.Class = &models.Class{
		ID:          cs.ClassID,
		Name:        cs.ClassName,
		Description: cs.ClassDescription,
	}
	cs.Section = &models.Section{
		ID:          cs.SectionID,
		Name:        cs.SectionName,
		Description: cs.SectionDescription,
	}
	if cs.ClassTeacherID != nil && cs.TeacherEmployeeID != nil {
		name := ""
		if cs.TeacherName != nil {
			name = strings.TrimSpace(*cs.TeacherName)
		}
		cs.ClassTeacher = &models.TeacherRef{
			ID:         *cs.ClassTeacherID,
			EmployeeID: *cs.TeacherEmployeeID,
			FullName:   name,
		}
	}
}
