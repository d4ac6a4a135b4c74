package service

import (
	"context"
	"database/sql"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/edudesk/school-api/internal/models"
	appErrors "github.com/edudesk/school-api/pkg/errors"
)

type classRepository interface {
	ListClasses(ctx context.Context) ([]models.ClassDetail, error)
	FindClassByID(ctx context.Context, id string) (*models.ClassDetail, error)
	CreateClass(ctx context.Context, class *models.Class) error
	UpdateClass(ctx context.Context, class *models.Class) error
	DeleteClass(ctx context.Context, id string) error
	ListSections(ctx context.Context) ([]models.Section, error)
	FindSectionByID(ctx context.Context, id string) (*models.Section, error)
	CreateSection(ctx context.Context, section *models.Section) error
	UpdateSection(ctx context.Context, section *models.Section) error
	DeleteSection(ctx context.Context, id string) error
}

// ClassRequest holds payload for creating or updating classes.
type ClassRequest struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
}

// SectionRequest holds payload for creating or updating sections.
type SectionRequest struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
}

// ClassService handles class and section lookup management.
type ClassService struct {
	repo      classRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewClassService constructs the class service.
func NewClassService(repo classRepository, validate *validator.Validate, logger *zap.Logger) *ClassService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ClassService{repo: repo, validator: validate, logger: logger}
}

// ListClasses returns all classes with enrollment counts.
func (s *ClassService) ListClasses(ctx context.Context) ([]models.ClassDetail, error) {
	classes, err := s.repo.ListClasses(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list classes")
	}
	return classes, nil
}

// GetClass returns one class.
func (s *ClassService) GetClass(ctx context.Context, id string) (*models.ClassDetail, error) {
	class, err := s.repo.FindClassByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "class not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load class")
	}
	return class, nil
}

// CreateClass registers a new class.
func (s *ClassService) CreateClass(ctx context.Context, req ClassRequest) (*models.ClassDetail, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid class payload")
	}
	class := &models.Class{Name: req.Name, Description: req.Description}
	if err := s.repo.CreateClass(ctx, class); err != nil {
		return nil, appErrors.FromError(err)
	}
	return s.GetClass(ctx, class.ID)
}

// UpdateClass replaces the mutable fields of a class.
func (s *ClassService) UpdateClass(ctx context.Context, id string, req ClassRequest) (*models.ClassDetail, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid class payload")
	}
	existing, err := s.GetClass(ctx, id)
	if err != nil {
		return nil, err
	}
	class := existing.Class
	class.Name = req.Name
	class.Description = req.Description
	if err := s.repo.UpdateClass(ctx, &class); err != nil {
		return nil, appErrors.FromError(err)
	}
	return s.GetClass(ctx, id)
}

// DeleteClass removes a class. Referenced classes are rejected.
func (s *ClassService) DeleteClass(ctx context.Context, id string) error {
	if _, err := s.GetClass(ctx, id); err != nil {
		return err
	}
	if err := s.repo.DeleteClass(ctx, id); err != nil {
		return appErrors.FromError(err)
	}
	return nil
}

// ListSections returns all sections.
func (s *ClassService) ListSections(ctx context.Context) ([]models.Section, error) {
	sections, err := s.repo.ListSections(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list sections")
	}
	return sections, nil
}

// GetSection returns one section.
func (s *ClassService) GetSection(ctx context.Context, id string) (*models.Section, error) {
	section, err := s.repo.FindSectionByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "section not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load section")
	}
	return section, nil
}

// CreateSection registers a new section.
func (s *ClassService) CreateSection(ctx context.Context, req SectionRequest) (*models.Section, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid section payload")
	}
	section := &models.Section{Name: req.Name, Description: req.Description}
	if err := s.repo.CreateSection(ctx, section); err != nil {
		return nil, appErrors.FromError(err)
	}
	return s.GetSection(ctx, section.ID)
}

// UpdateSection replaces the mutable fields of a section.
func (s *ClassService) UpdateSection(ctx context.Context, id string, req SectionRequest) (*models.Section, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid section payload")
	}
	existing, err := s.GetSection(ctx, id)
	if err != nil {
		return nil, err
	}
	section := *existing
	section.Name = req.Name
	section.Description = req.Description
	if err := s.repo.UpdateSection(ctx, &section); err != nil {
		return nil, appErrors.FromError(err)
	}
	return s.GetSection(ctx, id)
}

// DeleteSection removes a section. Referenced sections are rejected.
func (s *ClassService) DeleteSection(ctx context.Context, id string) error {
	if _, err := s.GetSection(ctx, id); err != nil {
		return err
	}
	if err := s.repo.DeleteSection(ctx, id); err != nil {
		return appErrors.FromError(err)
	}
	return nil
}
