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

type studentRepository interface {
	List(ctx context.Context) ([]models.StudentDetail, error)
	FindByID(ctx context.Context, id string) (*models.StudentDetail, error)
	ExistsByAdmissionNumber(ctx context.Context, number string, excludeID string) (bool, error)
	Create(ctx context.Context, student *models.Student) error
	Update(ctx context.Context, student *models.Student) error
	Delete(ctx context.Context, id string) error
}

// CreateStudentRequest holds payload for enrolling students.
type CreateStudentRequest struct {
	AccountID       string    `json:"account_id" validate:"required"`
	AdmissionNumber string    `json:"admission_number" validate:"required"`
	RollNumber      string    `json:"roll_number"`
	BirthDate       time.Time `json:"date_of_birth" validate:"required"`
	Gender          string    `json:"gender" validate:"required,oneof=M F O"`
	Address         string    `json:"address"`
	GuardianName    string    `json:"guardian_name" validate:"required"`
	GuardianPhone   string    `json:"guardian_phone" validate:"required"`
	GuardianEmail   string    `json:"guardian_email" validate:"omitempty,email"`
	ClassSectionID  string    `json:"class_section" validate:"required"`
	AdmissionDate   time.Time `json:"admission_date"`
}

// UpdateStudentRequest holds payload for updating students.
type UpdateStudentRequest struct {
	AdmissionNumber string    `json:"admission_number" validate:"required"`
	RollNumber      string    `json:"roll_number"`
	BirthDate       time.Time `json:"date_of_birth" validate:"required"`
	Gender          string    `json:"gender" validate:"required,oneof=M F O"`
	Address         string    `json:"address"`
	GuardianName    string    `json:"guardian_name" validate:"required"`
	GuardianPhone   string    `json:"guardian_phone" validate:"required"`
	GuardianEmail   string    `json:"guardian_email" validate:"omitempty,email"`
	ClassSectionID  string    `json:"class_section" validate:"required"`
	Active          bool      `json:"is_active"`
}

// StudentService handles student use-cases.
type StudentService struct {
	repo      studentRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewStudentService constructs the student service.
func NewStudentService(repo studentRepository, validate *validator.Validate, logger *zap.Logger) *StudentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StudentService{repo: repo, validator: validate, logger: logger}
}

// List returns all students with their derived read-only fields filled in.
func (s *StudentService) List(ctx context.Context) ([]models.StudentDetail, error) {
	students, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list students")
	}
	for i := range students {
		decorateStudent(&students[i])
	}
	return students, nil
}

// Get returns detailed student information.
func (s *StudentService) Get(ctx context.Context, id string) (*models.StudentDetail, error) {
	student, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}
	decorateStudent(student)
	return student, nil
}

// Create enrolls a new student.
func (s *StudentService) Create(ctx context.Context, req CreateStudentRequest) (*models.StudentDetail, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid student payload")
	}
	exists, err := s.repo.ExistsByAdmissionNumber(ctx, req.AdmissionNumber, "")
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to validate admission number")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, "admission number already used")
	}

	admissionDate := req.AdmissionDate
	if admissionDate.IsZero() {
		admissionDate = time.Now().UTC()
	}

	student := &models.Student{
		AccountID:       req.AccountID,
		AdmissionNumber: req.AdmissionNumber,
		RollNumber:      req.RollNumber,
		BirthDate:       req.BirthDate,
		Gender:          models.Gender(req.Gender),
		Address:         req.Address,
		GuardianName:    req.GuardianName,
		GuardianPhone:   req.GuardianPhone,
		GuardianEmail:   req.GuardianEmail,
		ClassSectionID:  req.ClassSectionID,
		AdmissionDate:   admissionDate,
		Active:          true,
	}
	if err := s.repo.Create(ctx, student); err != nil {
		return nil, appErrors.FromError(err)
	}
	return s.Get(ctx, student.ID)
}

// Update replaces the mutable fields of a student.
func (s *StudentService) Update(ctx context.Context, id string, req UpdateStudentRequest) (*models.StudentDetail, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid student payload")
	}

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}

	taken, err := s.repo.ExistsByAdmissionNumber(ctx, req.AdmissionNumber, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to validate admission number")
	}
	if taken {
		return nil, appErrors.Clone(appErrors.ErrConflict, "admission number already used")
	}

	student := existing.Student
	student.AdmissionNumber = req.AdmissionNumber
	student.RollNumber = req.RollNumber
	student.BirthDate = req.BirthDate
	student.Gender = models.Gender(req.Gender)
	student.Address = req.Address
	student.GuardianName = req.GuardianName
	student.GuardianPhone = req.GuardianPhone
	student.GuardianEmail = req.GuardianEmail
	student.ClassSectionID = req.ClassSectionID
	student.Active = req.Active

	if err := s.repo.Update(ctx, &student); err != nil {
		return nil, appErrors.FromError(err)
	}
	return s.Get(ctx, id)
}

// Delete removes a student and the ledger rows that reference it.
func (s *StudentService) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete student")
	}
	return nil
}

func decorateStudent(st *models.StudentDetail) {
	st.ClassSectionName = SectionLabel(st.ClassName, st.SectionName)
	st.AttendancePercentage = AttendancePercentage(st.PresentDays, st.TotalDays)
}
