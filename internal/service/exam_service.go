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

type examRepository interface {
	List(ctx context.Context) ([]models.ExamDetail, error)
	FindByID(ctx context.Context, id string) (*models.ExamDetail, error)
	Create(ctx context.Context, exam *models.Exam) error
	Update(ctx context.Context, exam *models.Exam) error
	Delete(ctx context.Context, id string) error
	Results(ctx context.Context, filter models.ExamResultFilter) ([]models.ExamResultDetail, error)
	CreateResult(ctx context.Context, result *models.ExamResult) error
}

// CreateExamRequest holds payload for scheduling exams.
type CreateExamRequest struct {
	Name         string    `json:"name" validate:"required"`
	ExamType     string    `json:"exam_type" validate:"required,oneof=MID FIN UNIT QUIZ"`
	StartDate    time.Time `json:"start_date" validate:"required"`
	EndDate      time.Time `json:"end_date" validate:"required"`
	AcademicYear string    `json:"academic_year" validate:"required"`
}

// UpdateExamRequest holds payload for rescheduling exams.
type UpdateExamRequest struct {
	Name         string    `json:"name" validate:"required"`
	ExamType     string    `json:"exam_type" validate:"required,oneof=MID FIN UNIT QUIZ"`
	StartDate    time.Time `json:"start_date" validate:"required"`
	EndDate      time.Time `json:"end_date" validate:"required"`
	AcademicYear string    `json:"academic_year" validate:"required"`
	Active       bool      `json:"is_active"`
}

// AddExamResultRequest holds payload for recording marks.
type AddExamResultRequest struct {
	ExamID        string  `json:"exam" validate:"required"`
	StudentID     string  `json:"student" validate:"required"`
	SubjectID     string  `json:"subject" validate:"required"`
	MarksObtained float64 `json:"marks_obtained" validate:"gte=0"`
	MaxMarks      float64 `json:"max_marks" validate:"required,gt=0"`
	Remarks       string  `json:"remarks"`
}

// ExamService handles exams and their results.
type ExamService struct {
	repo      examRepository
	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewExamService constructs the exam service.
func NewExamService(repo examRepository, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *ExamService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExamService{repo: repo, cache: cache, validator: validate, logger: logger}
}

// List returns all exams with derived statistics.
func (s *ExamService) List(ctx context.Context) ([]models.ExamDetail, error) {
	exams, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list exams")
	}
	for i := range exams {
		exams[i].ExamTypeDisplay = exams[i].ExamType.Display()
	}
	return exams, nil
}

// Create schedules a new exam window.
func (s *ExamService) Create(ctx context.Context, req CreateExamRequest) (*models.Exam, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid exam payload")
	}
	if req.EndDate.Before(req.StartDate) {
		return nil, appErrors.Validation(map[string]string{"end_date": "must not precede start_date"})
	}

	exam := &models.Exam{
		Name:         req.Name,
		ExamType:     models.ExamType(req.ExamType),
		StartDate:    req.StartDate,
		EndDate:      req.EndDate,
		AcademicYear: req.AcademicYear,
		Active:       true,
	}
	if err := s.repo.Create(ctx, exam); err != nil {
		return nil, appErrors.FromError(err)
	}
	return exam, nil
}

// Get returns one exam with derived statistics.
func (s *ExamService) Get(ctx context.Context, id string) (*models.ExamDetail, error) {
	exam, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "exam not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load exam")
	}
	exam.ExamTypeDisplay = exam.ExamType.Display()
	return exam, nil
}

// Update replaces the mutable fields of an exam.
func (s *ExamService) Update(ctx context.Context, id string, req UpdateExamRequest) (*models.ExamDetail, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid exam payload")
	}
	if req.EndDate.Before(req.StartDate) {
		return nil, appErrors.Validation(map[string]string{"end_date": "must not precede start_date"})
	}

	existing, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	exam := existing.Exam
	exam.Name = req.Name
	exam.ExamType = models.ExamType(req.ExamType)
	exam.StartDate = req.StartDate
	exam.EndDate = req.EndDate
	exam.AcademicYear = req.AcademicYear
	exam.Active = req.Active

	if err := s.repo.Update(ctx, &exam); err != nil {
		return nil, appErrors.FromError(err)
	}
	return s.Get(ctx, id)
}

// Delete removes an exam. Exams with recorded results are rejected.
func (s *ExamService) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.FromError(err)
	}
	return nil
}

// Results returns recorded marks, decorated with percentage and grade,
// narrowed by the filter.
func (s *ExamService) Results(ctx context.Context, filter models.ExamResultFilter) ([]models.ExamResultDetail, error) {
	results, err := s.repo.Results(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list exam results")
	}
	for i := range results {
		decorateExamResult(&results[i])
	}
	return results, nil
}

// AddResult records marks for one student in one exam and subject.
func (s *ExamService) AddResult(ctx context.Context, req AddExamResultRequest) (*models.ExamResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid exam result payload")
	}

	// Marks above max_marks are stored as-is; the percentage derivation
	// simply exceeds 100 (bonus marks exist).
	result := &models.ExamResult{
		ExamID:        req.ExamID,
		StudentID:     req.StudentID,
		SubjectID:     req.SubjectID,
		MarksObtained: req.MarksObtained,
		MaxMarks:      req.MaxMarks,
		Remarks:       req.Remarks,
	}
	if err := s.repo.CreateResult(ctx, result); err != nil {
		return nil, appErrors.FromError(err)
	}

	if err := s.cache.Invalidate(ctx, studentReportPattern(req.StudentID)); err != nil {
		s.logger.Warn("failed to invalidate report cache", zap.String("student", req.StudentID), zap.Error(err))
	}

	return result, nil
}

func decorateExamResult(r *models.ExamResultDetail) {
	r.Percentage = Percentage(r.MarksObtained, r.MaxMarks)
	r.Grade = GradeFor(r.Percentage)
}
