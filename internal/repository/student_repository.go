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

// StudentRepository manages persistence for student records.
type StudentRepository struct {
	db *sqlx.DB
}

// NewStudentRepository constructs a StudentRepository.
func NewStudentRepository(db *sqlx.DB) *StudentRepository {
	return &StudentRepository{db: db}
}

const studentDetailSelect = `SELECT s.id, s.account_id, s.admission_number, s.roll_number, s.birth_date, s.gender, s.address,
        s.guardian_name, s.guardian_phone, s.guardian_email, s.class_section_id, s.admission_date, s.active, s.created_at, s.updated_at,
        a.first_name, a.last_name, a.email, a.phone,
        c.name AS class_name, sec.name AS section_name,
        COALESCE(att.total_days, 0) AS total_days,
        COALESCE(att.present_days, 0) AS present_days,
        COALESCE(f.pending_fees, 0) AS pending_fees
        FROM students s
        JOIN accounts a ON a.id = s.account_id
        JOIN class_sections cs ON cs.id = s.class_section_id
        JOIN classes c ON c.id = cs.class_id
        JOIN sections sec ON sec.id = cs.section_id
        LEFT JOIN (SELECT student_id, COUNT(*) AS total_days, COUNT(*) FILTER (WHERE status = 'P') AS present_days FROM attendance GROUP BY student_id) att ON att.student_id = s.id
        LEFT JOIN (SELECT student_id, COUNT(*) AS pending_fees FROM fees WHERE status = 'PEN' GROUP BY student_id) f ON f.student_id = s.id`

// List returns all students with the joined columns feeding derived fields.
func (r *StudentRepository) List(ctx context.Context) ([]models.StudentDetail, error) {
	query := studentDetailSelect + ` ORDER BY s.admission_number`
	var students []models.StudentDetail
	if err := r.db.SelectContext(ctx, &students, query); err != nil {
		return nil, fmt.Errorf("list students: %w", err)
	}
	return students, nil
}

// FindByID fetches a student detail by ID.
func (r *StudentRepository) FindByID(ctx context.Context, id string) (*models.StudentDetail, error) {
	query := studentDetailSelect + ` WHERE s.id = $1`
	var detail models.StudentDetail
	if err := r.db.GetContext(ctx, &detail, query, id); err != nil {
		return nil, err
	}
	return &detail, nil
}

// ExistsByAdmissionNumber checks for an existing admission number,
// optionally excluding an ID.
func (r *StudentRepository) ExistsByAdmissionNumber(ctx context.Context, number string, excludeID string) (bool, error) {
	query := "SELECT 1 FROM students WHERE admission_number = $1"
	args := []interface{}{number}
	if excludeID != "" {
		query += " AND id <> $2"
		args = append(args, excludeID)
	}
	var exists int
	if err := r.db.GetContext(ctx, &exists, query+" LIMIT 1", args...); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check admission number: %w", err)
	}
	return true, nil
}

// Create inserts a new student record.
func (r *StudentRepository) Create(ctx context.Context, student *models.Student) error {
	if student.ID == "" {
		student.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if student.CreatedAt.IsZero() {
		student.CreatedAt = now
	}
	if student.AdmissionDate.IsZero() {
		student.AdmissionDate = now
	}
	student.UpdatedAt = now
	const query = `INSERT INTO students (id, account_id, admission_number, roll_number, birth_date, gender, address, guardian_name, guardian_phone, guardian_email, class_section_id, admission_date, active, created_at, updated_at)
        VALUES (:id, :account_id, :admission_number, :roll_number, :birth_date, :gender, :address, :guardian_name, :guardian_phone, :guardian_email, :class_section_id, :admission_date, :active, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, student); err != nil {
		return conflictOr(err, "admission number already used", "create student")
	}
	return nil
}

// Update replaces the mutable fields of an existing student.
func (r *StudentRepository) Update(ctx context.Context, student *models.Student) error {
	student.UpdatedAt = time.Now().UTC()
	const query = `UPDATE students SET admission_number = :admission_number, roll_number = :roll_number, birth_date = :birth_date, gender = :gender, address = :address, guardian_name = :guardian_name, guardian_phone = :guardian_phone, guardian_email = :guardian_email, class_section_id = :class_section_id, active = :active, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, student); err != nil {
		return conflictOr(err, "admission number already used", "update student")
	}
	return nil
}

// Delete removes a student and cascades to its ledger rows in one
// transaction so no orphans survive.
func (r *StudentRepository) Delete(ctx context.Context, id string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin student delete: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if err := deleteStudentRows(ctx, tx, id); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit student delete: %w", err)
	}
	return nil
}
