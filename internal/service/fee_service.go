package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/edudesk/school-api/internal/models"
	appErrors "github.com/edudesk/school-api/pkg/errors"
)

type feeRepository interface {
	List(ctx context.Context) ([]models.FeeDetail, error)
	FindByID(ctx context.Context, id string) (*models.FeeDetail, error)
	Create(ctx context.Context, fee *models.Fee) error
	Update(ctx context.Context, fee *models.Fee) error
	Delete(ctx context.Context, id string) error
	MarkPaid(ctx context.Context, feeID, paymentMethod, receiptNumber string, paidDate time.Time) error
}

type feeAuditRepository interface {
	CreateAuditLog(ctx context.Context, log *models.AuditLog) error
}

// CreateFeeRequest holds payload for assigning a fee to a student.
type CreateFeeRequest struct {
	StudentID string    `json:"student" validate:"required"`
	FeeType   string    `json:"fee_type" validate:"required,oneof=TUI LAB TRA LIB OTH"`
	Amount    float64   `json:"amount" validate:"required,gt=0"`
	DueDate   time.Time `json:"due_date" validate:"required"`
}

// PayFeeRequest holds payload for recording a payment. The amount is
// informational only; payment always settles the full fee.
type PayFeeRequest struct {
	FeeID         string  `json:"fee_id" validate:"required"`
	Amount        float64 `json:"amount"`
	PaymentMethod string  `json:"payment_method" validate:"required"`
	ReceiptNumber string  `json:"receipt_number"`
}

// FeeService handles the fee ledger and payments.
type FeeService struct {
	repo      feeRepository
	audit     feeAuditRepository
	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewFeeService constructs the fee service.
func NewFeeService(repo feeRepository, audit feeAuditRepository, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *FeeService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FeeService{repo: repo, audit: audit, cache: cache, validator: validate, logger: logger}
}

// List returns all fee records with derived display fields.
func (s *FeeService) List(ctx context.Context) ([]models.FeeDetail, error) {
	fees, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list fees")
	}
	now := time.Now().UTC()
	for i := range fees {
		decorateFee(&fees[i], now)
	}
	return fees, nil
}

// Get returns one fee with derived display fields.
func (s *FeeService) Get(ctx context.Context, id string) (*models.FeeDetail, error) {
	fee, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "fee not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load fee")
	}
	decorateFee(fee, time.Now().UTC())
	return fee, nil
}

// Create assigns a new pending fee to a student.
func (s *FeeService) Create(ctx context.Context, req CreateFeeRequest) (*models.Fee, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid fee payload")
	}

	fee := &models.Fee{
		StudentID: req.StudentID,
		FeeType:   models.FeeType(req.FeeType),
		Amount:    req.Amount,
		DueDate:   req.DueDate,
		Status:    models.FeePending,
	}
	if err := s.repo.Create(ctx, fee); err != nil {
		return nil, appErrors.FromError(err)
	}

	if err := s.cache.Invalidate(ctx, studentReportPattern(req.StudentID)); err != nil {
		s.logger.Warn("failed to invalidate report cache", zap.String("student", req.StudentID), zap.Error(err))
	}

	return fee, nil
}

// UpdateFeeRequest holds payload for amending a fee.
type UpdateFeeRequest struct {
	FeeType string    `json:"fee_type" validate:"required,oneof=TUI LAB TRA LIB OTH"`
	Amount  float64   `json:"amount" validate:"required,gt=0"`
	DueDate time.Time `json:"due_date" validate:"required"`
	Status  string    `json:"status" validate:"required,oneof=PEN PAI OVE"`
}

// Update replaces the mutable fields of a fee.
func (s *FeeService) Update(ctx context.Context, id string, req UpdateFeeRequest) (*models.FeeDetail, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid fee payload")
	}
	existing, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	fee := existing.Fee
	fee.FeeType = models.FeeType(req.FeeType)
	fee.Amount = req.Amount
	fee.DueDate = req.DueDate
	fee.Status = models.FeeStatus(req.Status)

	if err := s.repo.Update(ctx, &fee); err != nil {
		return nil, appErrors.FromError(err)
	}

	if err := s.cache.Invalidate(ctx, studentReportPattern(fee.StudentID)); err != nil {
		s.logger.Warn("failed to invalidate report cache", zap.String("student", fee.StudentID), zap.Error(err))
	}

	return s.Get(ctx, id)
}

// Delete removes a fee record.
func (s *FeeService) Delete(ctx context.Context, id string) error {
	existing, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.FromError(err)
	}
	if err := s.cache.Invalidate(ctx, studentReportPattern(existing.StudentID)); err != nil {
		s.logger.Warn("failed to invalidate report cache", zap.String("student", existing.StudentID), zap.Error(err))
	}
	return nil
}

// Pay records a payment against a fee and settles it in full. An amount
// that differs from the fee's amount is accepted but logged.
func (s *FeeService) Pay(ctx context.Context, req PayFeeRequest, actorID string) (*models.FeeDetail, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payment payload")
	}

	fee, err := s.repo.FindByID(ctx, req.FeeID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "fee not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load fee")
	}

	if req.Amount != 0 && req.Amount != fee.Amount {
		s.logger.Warn("payment amount differs from fee amount",
			zap.String("fee_id", fee.ID),
			zap.Float64("fee_amount", fee.Amount),
			zap.Float64("paid_amount", req.Amount))
	}

	paidDate := time.Now().UTC()
	if err := s.repo.MarkPaid(ctx, req.FeeID, req.PaymentMethod, req.ReceiptNumber, paidDate); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "fee not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to record payment")
	}

	if s.audit != nil {
		if err := s.audit.CreateAuditLog(ctx, &models.AuditLog{
			AccountID:  &actorID,
			Action:     models.AuditActionPayment,
			Resource:   "fees",
			ResourceID: &fee.ID,
			NewValues:  []byte(`{"status":"PAI"}`),
		}); err != nil {
			s.logger.Warn("failed to record payment audit log", zap.Error(err))
		}
	}

	if err := s.cache.Invalidate(ctx, studentReportPattern(fee.StudentID)); err != nil {
		s.logger.Warn("failed to invalidate report cache", zap.String("student", fee.StudentID), zap.Error(err))
	}

	updated, err := s.repo.FindByID(ctx, req.FeeID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to reload fee")
	}
	decorateFee(updated, time.Now().UTC())
	return updated, nil
}

func decorateFee(f *models.FeeDetail, now time.Time) {
	f.FeeTypeDisplay = f.FeeType.Display()
	f.StatusDisplay = f.Status.Display()
	f.IsOverdue = IsOverdue(f.Status, f.DueDate, now)
}
