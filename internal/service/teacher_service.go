package service

import (
	"context"
	"database/sql"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/edudesk/school-api/internal/models"
	appErrors "github.com/edudesk/school-api/pkg/errors"
)

type teacherRepository interface {
	List(ctx context.Context) ([]models.TeacherDetail, error)
	FindByID(ctx context.Context, id string) (*models.TeacherDetail, error)
	ExistsByEmployeeID(ctx context.Context, employeeID string, excludeID string) (bool, error)
	Create(ctx context.Context, teacher *models.Teacher, subjectIDs []string) error
	Update(ctx context.Context, teacher *models.Teacher, subjectIDs []string) error
	Delete(ctx context.Context, id string) error
	SubjectsByTeacher(ctx context.Context, teacherID string) ([]models.SubjectRef, error)
	HomeroomLabels(ctx context.Context, teacherID string) ([]string, error)
}

// CreateTeacherRequest holds payload for registering teachers.
type CreateTeacherRequest struct {
	AccountID       string    `json:"account_id" validate:"required"`
	EmployeeID      string    `json:"employee_id" validate:"required"`
	Qualification   string    `json:"qualification"`
	ExperienceYears int       `json:"experience_years" validate:"gte=0"`
	DateJoined      time.Time `json:"date_joined"`
	SubjectIDs      []string  `json:"subjects"`
}

// UpdateTeacherRequest holds payload for updating teachers.
type UpdateTeacherRequest struct {
	EmployeeID      string   `json:"employee_id" validate:"required"`
	Qualification   string   `json:"qualification"`
	ExperienceYears int      `json:"experience_years" validate:"gte=0"`
	Active          bool     `json:"is_active"`
	SubjectIDs      []string `json:"subjects"`
}

// TeacherService handles teacher use-cases.
type TeacherService struct {
	repo      teacherRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewTeacherService constructs the teacher service.
func NewTeacherService(repo teacherRepository, validate *validator.Validate, logger *zap.Logger) *TeacherService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TeacherService{repo: repo, validator: validate, logger: logger}
}

// List returns all teachers with their subject and homeroom projections.
// The per-teacher lookups fan out one query each.
func (s *TeacherService) List(ctx context.Context) ([]models.TeacherDetail, error) {
	teachers, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list teachers")
	}
	for i := range teachers {
		if err := s.decorate(ctx, &teachers[i]); err != nil {
			return nil, err
		}
	}
	return teachers, nil
}

// Get returns detailed teacher information.
func (s *TeacherService) Get(ctx context.Context, id string) (*models.TeacherDetail, error) {
	teacher, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "teacher not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load teacher")
	}
	if err := s.decorate(ctx, teacher); err != nil {
		return nil, err
	}
	return teacher, nil
}

// Create registers a new teacher with optional subject assignments.
func (s *TeacherService) Create(ctx context.Context, req CreateTeacherRequest) (*models.TeacherDetail, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid teacher payload")
	}
	exists, err := s.repo.ExistsByEmployeeID(ctx, req.EmployeeID, "")
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to validate employee id")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, "employee id already used")
	}

	teacher := &models.Teacher{
		AccountID:       req.AccountID,
		EmployeeID:      req.EmployeeID,
		Qualification:   req.Qualification,
		ExperienceYears: req.ExperienceYears,
		DateJoined:      req.DateJoined,
		Active:          true,
	}
	if err := s.repo.Create(ctx, teacher, req.SubjectIDs); err != nil {
		return nil, appErrors.FromError(err)
	}
	return s.Get(ctx, teacher.ID)
}

// Update replaces the mutable fields and subject assignments of a teacher.
func (s *TeacherService) Update(ctx context.Context, id string, req UpdateTeacherRequest) (*models.TeacherDetail, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid teacher payload")
	}

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "teacher not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load teacher")
	}

	taken, err := s.repo.ExistsByEmployeeID(ctx, req.EmployeeID, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to validate employee id")
	}
	if taken {
		return nil, appErrors.Clone(appErrors.ErrConflict, "employee id already used")
	}

	teacher := existing.Teacher
	teacher.EmployeeID = req.EmployeeID
	teacher.Qualification = req.Qualification
	teacher.ExperienceYears = req.ExperienceYears
	teacher.Active = req.Active

	if err := s.repo.Update(ctx, &teacher, req.SubjectIDs); err != nil {
		return nil, appErrors.FromError(err)
	}
	return s.Get(ctx, id)
}

// Delete removes a teacher, detaching homerooms and subject links.
func (s *TeacherService) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, "teacher not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load teacher")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete teacher")
	}
	return nil
}

func (s *TeacherService) decorate(ctx context.Context, t *models.TeacherDetail) error {
	subjects, err := s.repo.SubjectsByTeacher(ctx, t.ID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load teacher subjects")
	}
	labels, err := s.repo.HomeroomLabels(ctx, t.ID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load homerooms")
	}
	if subjects == nil {
		subjects = []models.SubjectRef{}
	}
	if labels == nil {
		labels = []string{}
	}
	t.Subjects = subjects
	t.ClassSections = labels
	return nil
}
