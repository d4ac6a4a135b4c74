package service

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/edudesk/school-api/internal/models"
	appErrors "github.com/edudesk/school-api/pkg/errors"
)

type attendanceRepository interface {
	Report(ctx context.Context, filter models.AttendanceFilter) ([]models.AttendanceDetail, error)
	Create(ctx context.Context, record *models.Attendance) error
}

// MarkAttendanceRequest holds payload for recording attendance.
type MarkAttendanceRequest struct {
	StudentID string    `json:"student" validate:"required"`
	Date      time.Time `json:"date" validate:"required"`
	Status    string    `json:"status" validate:"required,oneof=P A L E"`
	Remarks   string    `json:"remarks"`
}

// AttendanceService handles the attendance ledger.
type AttendanceService struct {
	repo      attendanceRepository
	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewAttendanceService constructs the attendance service.
func NewAttendanceService(repo attendanceRepository, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *AttendanceService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AttendanceService{repo: repo, cache: cache, validator: validate, logger: logger}
}

// Mark records one attendance entry. A second entry for the same
// student and date is rejected as a conflict regardless of status.
func (s *AttendanceService) Mark(ctx context.Context, req MarkAttendanceRequest) (*models.Attendance, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid attendance payload")
	}

	record := &models.Attendance{
		StudentID: req.StudentID,
		Date:      req.Date.UTC().Truncate(24 * time.Hour),
		Status:    models.AttendanceStatus(req.Status),
		Remarks:   req.Remarks,
	}
	if err := s.repo.Create(ctx, record); err != nil {
		return nil, appErrors.FromError(err)
	}

	if err := s.cache.Invalidate(ctx, studentReportPattern(req.StudentID)); err != nil {
		s.logger.Warn("failed to invalidate report cache", zap.String("student", req.StudentID), zap.Error(err))
	}

	return record, nil
}

// Report returns attendance records narrowed by the filter.
func (s *AttendanceService) Report(ctx context.Context, filter models.AttendanceFilter) ([]models.AttendanceDetail, error) {
	records, err := s.repo.Report(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to build attendance report")
	}
	for i := range records {
		records[i].ClassSectionName = SectionLabel(records[i].ClassName, records[i].SectionName)
		records[i].StatusDisplay = records[i].Status.Display()
	}
	return records, nil
}
