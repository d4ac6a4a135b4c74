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

// TeacherRepository manages persistence for teacher records.
type TeacherRepository struct {
	db *sqlx.DB
}

// NewTeacherRepository constructs a TeacherRepository.
func NewTeacherRepository(db *sqlx.DB) *TeacherRepository {
	return &TeacherRepository{db: db}
}

const teacherDetailSelect = `SELECT t.id, t.account_id, t.employee_id, t.qualification, t.experience_years, t.date_joined, t.active, t.created_at, t.updated_at,
        a.first_name, a.last_name, a.email, a.phone
        FROM teachers t
        JOIN accounts a ON a.id = t.account_id`

// List returns all teachers joined with their accounts.
func (r *TeacherRepository) List(ctx context.Context) ([]models.TeacherDetail, error) {
	query := teacherDetailSelect + ` ORDER BY t.employee_id`
	var teachers []models.TeacherDetail
	if err := r.db.SelectContext(ctx, &teachers, query); err != nil {
		return nil, fmt.Errorf("list teachers: %w", err)
	}
	return teachers, nil
}

// FindByID fetches one teacher detail.
func (r *TeacherRepository) FindByID(ctx context.Context, id string) (*models.TeacherDetail, error) {
	query := teacherDetailSelect + ` WHERE t.id = $1`
	var detail models.TeacherDetail
	if err := r.db.GetContext(ctx, &detail, query, id); err != nil {
		return nil, err
	}
	return &detail, nil
}

// ExistsByEmployeeID checks for a duplicate employee id, optionally
// excluding an ID.
func (r *TeacherRepository) ExistsByEmployeeID(ctx context.Context, employeeID string, excludeID string) (bool, error) {
	query := "SELECT 1 FROM teachers WHERE employee_id = $1"
	args := []interface{}{employeeID}
	if excludeID != "" {
		query += " AND id <> $2"
		args = append(args, excludeID)
	}
	var exists int
	if err := r.db.GetContext(ctx, &exists, query+" LIMIT 1", args...); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check employee id: %w", err)
	}
	return true, nil
}

// Create inserts a teacher and its subject assignments in one transaction.
func (r *TeacherRepository) Create(ctx context.Context, teacher *models.Teacher, subjectIDs []string) error {
	if teacher.ID == "" {
		teacher.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if teacher.CreatedAt.IsZero() {
		teacher.CreatedAt = now
	}
	if teacher.DateJoined.IsZero() {
		teacher.DateJoined = now
	}
	teacher.UpdatedAt = now

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin teacher create: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	const query = `INSERT INTO teachers (id, account_id, employee_id, qualification, experience_years, date_joined, active, created_at, updated_at)
        VALUES (:id, :account_id, :employee_id, :qualification, :experience_years, :date_joined, :active, :created_at, :updated_at)`
	if _, err := tx.NamedExecContext(ctx, query, teacher); err != nil {
		return conflictOr(err, "employee id already used", "create teacher")
	}

	if err := insertTeacherSubjects(ctx, tx, teacher.ID, subjectIDs); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit teacher create: %w", err)
	}
	return nil
}

// Update replaces the teacher row and its subject assignments.
func (r *TeacherRepository) Update(ctx context.Context, teacher *models.Teacher, subjectIDs []string) error {
	teacher.UpdatedAt = time.Now().UTC()

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin teacher update: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	const query = `UPDATE teachers SET employee_id = :employee_id, qualification = :qualification, experience_years = :experience_years, active = :active, updated_at = :updated_at WHERE id = :id`
	if _, err := tx.NamedExecContext(ctx, query, teacher); err != nil {
		return conflictOr(err, "employee id already used", "update teacher")
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM teacher_subjects WHERE teacher_id = $1`, teacher.ID); err != nil {
		return fmt.Errorf("clear teacher subjects: %w", err)
	}
	if err := insertTeacherSubjects(ctx, tx, teacher.ID, subjectIDs); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit teacher update: %w", err)
	}
	return nil
}

// Delete removes a teacher, its subject links, and detaches homerooms.
func (r *TeacherRepository) Delete(ctx context.Context, id string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin teacher delete: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if err := deleteTeacherRows(ctx, tx, id); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit teacher delete: %w", err)
	}
	return nil
}

// SubjectsByTeacher returns the subjects assigned to one teacher.
func (r *TeacherRepository) SubjectsByTeacher(ctx context.Context, teacherID string) ([]models.SubjectRef, error) {
	const query = `SELECT sub.id, sub.name FROM subjects sub
        JOIN teacher_subjects ts ON ts.subject_id = sub.id
        WHERE ts.teacher_id = $1 ORDER BY sub.name`
	var subjects []models.SubjectRef
	if err := r.db.SelectContext(ctx, &subjects, query, teacherID); err != nil {
		return nil, fmt.Errorf("list teacher subjects: %w", err)
	}
	return subjects, nil
}

// HomeroomLabels returns "{class} - {section}" labels for the class
// sections where this teacher is the homeroom teacher.
func (r *TeacherRepository) HomeroomLabels(ctx context.Context, teacherID string) ([]string, error) {
	const query = `SELECT c.name || ' - ' || sec.name FROM class_sections cs
        JOIN classes c ON c.id = cs.class_id
        JOIN sections sec ON sec.id = cs.section_id
        WHERE cs.class_teacher_id = $1 ORDER BY c.name, sec.name`
	var labels []string
	if err := r.db.SelectContext(ctx, &labels, query, teacherID); err != nil {
		return nil, fmt.Errorf("list homeroom labels: %w", err)
	}
	return labels, nil
}

func insertTeacherSubjects(ctx context.Context, tx *sqlx.Tx, teacherID string, subjectIDs []string) error {
	const query = `INSERT INTO teacher_subjects (teacher_id, subject_id) VALUES ($1, $2)`
	for _, subjectID := range subjectIDs {
		if _, err := tx.ExecContext(ctx, query, teacherID, subjectID); err != nil {
			return fmt.Errorf("assign subject %s: %w", subjectID, err)
		}
	}
	return nil
}
