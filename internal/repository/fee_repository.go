package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/edudesk/school-api/internal/models"
)

// FeeRepository manages fee records and payments.
type FeeRepository struct {
	db *sqlx.DB
}

// NewFeeRepository constructs a FeeRepository.
func NewFeeRepository(db *sqlx.DB) *FeeRepository {
	return &FeeRepository{db: db}
}

const feeDetailSelect = `SELECT f.id, f.student_id, f.fee_type, f.amount, f.due_date, f.status, f.paid_date, f.payment_method, f.receipt_number, f.created_at, f.updated_at,
        a.first_name || ' ' || a.last_name AS student_name,
        s.admission_number
        FROM fees f
        JOIN students s ON s.id = f.student_id
        JOIN accounts a ON a.id = s.account_id`

// List returns all fee records, soonest due first.
func (r *FeeRepository) List(ctx context.Context) ([]models.FeeDetail, error) {
	query := feeDetailSelect + ` ORDER BY f.due_date, s.admission_number`
	var fees []models.FeeDetail
	if err := r.db.SelectContext(ctx, &fees, query); err != nil {
		return nil, fmt.Errorf("list fees: %w", err)
	}
	return fees, nil
}

// FindByID fetches one fee detail.
func (r *FeeRepository) FindByID(ctx context.Context, id string) (*models.FeeDetail, error) {
	query := feeDetailSelect + ` WHERE f.id = $1`
	var detail models.FeeDetail
	if err := r.db.GetContext(ctx, &detail, query, id); err != nil {
		return nil, err
	}
	return &detail, nil
}

// ListByStudent returns all fee records for one student.
func (r *FeeRepository) ListByStudent(ctx context.Context, studentID string) ([]models.FeeDetail, error) {
	query := feeDetailSelect + ` WHERE f.student_id = $1 ORDER BY f.due_date`
	var fees []models.FeeDetail
	if err := r.db.SelectContext(ctx, &fees, query, studentID); err != nil {
		return nil, fmt.Errorf("list student fees: %w", err)
	}
	return fees, nil
}

// Create inserts a fee record.
func (r *FeeRepository) Create(ctx context.Context, fee *models.Fee) error {
	if fee.ID == "" {
		fee.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	fee.CreatedAt = now
	fee.UpdatedAt = now

	const query = `INSERT INTO fees (id, student_id, fee_type, amount, due_date, status, paid_date, payment_method, receipt_number, created_at, updated_at)
        VALUES (:id, :student_id, :fee_type, :amount, :due_date, :status, :paid_date, :payment_method, :receipt_number, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, fee); err != nil {
		return conflictOr(err, "fee already exists", "create fee")
	}
	return nil
}

// Update updates the mutable fields of a fee row.
func (r *FeeRepository) Update(ctx context.Context, fee *models.Fee) error {
	fee.UpdatedAt = time.Now().UTC()
	const query = `UPDATE fees SET fee_type = :fee_type, amount = :amount, due_date = :due_date, status = :status, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, fee); err != nil {
		return fmt.Errorf("update fee: %w", err)
	}
	return nil
}

// Delete removes a fee row.
func (r *FeeRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM fees WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete fee: %w", err)
	}
	return nil
}

// MarkPaid records a payment against a fee. Returns sql.ErrNoRows when
// the fee does not exist.
func (r *FeeRepository) MarkPaid(ctx context.Context, feeID, paymentMethod, receiptNumber string, paidDate time.Time) error {
	const query = `UPDATE fees SET status = $1, paid_date = $2, payment_method = $3, receipt_number = $4, updated_at = $5 WHERE id = $6`
	res, err := r.db.ExecContext(ctx, query, models.FeePaid, paidDate, paymentMethod, receiptNumber, time.Now().UTC(), feeID)
	if err != nil {
		return fmt.Errorf("mark fee paid: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("mark fee paid: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
