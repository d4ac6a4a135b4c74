package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/edudesk/school-api/internal/models"
	appErrors "github.com/edudesk/school-api/pkg/errors"
)

// SubjectRepository manages subjects.
type SubjectRepository struct {
	db *sqlx.DB
}

// NewSubjectRepository constructs a SubjectRepository.
func NewSubjectRepository(db *sqlx.DB) *SubjectRepository {
	return &SubjectRepository{db: db}
}

const subjectDetailSelect = `SELECT sub.id, sub.name, sub.code, sub.description, sub.credits, sub.created_at, sub.updated_at,
        COALESCE(ARRAY_AGG(a.first_name || ' ' || a.last_name ORDER BY a.first_name) FILTER (WHERE a.id IS NOT NULL), '{}') AS teachers
        FROM subjects sub
        LEFT JOIN teacher_subjects ts ON ts.subject_id = sub.id
        LEFT JOIN teachers t ON t.id = ts.teacher_id
        LEFT JOIN accounts a ON a.id = t.account_id
        GROUP BY sub.id`

// List returns all subjects with the names of their assigned teachers.
func (r *SubjectRepository) List(ctx context.Context) ([]models.SubjectDetail, error) {
	query := subjectDetailSelect + ` ORDER BY sub.name`
	var subjects []models.SubjectDetail
	if err := r.db.SelectContext(ctx, &subjects, query); err != nil {
		return nil, fmt.Errorf("list subjects: %w", err)
	}
	return subjects, nil
}

// FindByID fetches one subject with its teacher names.
func (r *SubjectRepository) FindByID(ctx context.Context, id string) (*models.SubjectDetail, error) {
	const query = `SELECT sub.id, sub.name, sub.code, sub.description, sub.credits, sub.created_at, sub.updated_at,
        COALESCE(ARRAY_AGG(a.first_name || ' ' || a.last_name ORDER BY a.first_name) FILTER (WHERE a.id IS NOT NULL), '{}') AS teachers
        FROM subjects sub
        LEFT JOIN teacher_subjects ts ON ts.subject_id = sub.id
        LEFT JOIN teachers t ON t.id = ts.teacher_id
        LEFT JOIN accounts a ON a.id = t.account_id
        WHERE sub.id = $1
        GROUP BY sub.id`
	var detail models.SubjectDetail
	if err := r.db.GetContext(ctx, &detail, query, id); err != nil {
		return nil, err
	}
	return &detail, nil
}

// ExistsByCode checks for a duplicate subject code, optionally excluding an ID.
func (r *SubjectRepository) ExistsByCode(ctx context.Context, code string, excludeID string) (bool, error) {
	query := "SELECT 1 FROM subjects WHERE code = $1"
	args := []interface{}{code}
	if excludeID != "" {
		query += " AND id <> $2"
		args = append(args, excludeID)
	}
	var exists int
	if err := r.db.GetContext(ctx, &exists, query+" LIMIT 1", args...); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check subject code: %w", err)
	}
	return true, nil
}

// Create inserts a subject.
func (r *SubjectRepository) Create(ctx context.Context, subject *models.Subject) error {
	if subject.ID == "" {
		subject.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	subject.CreatedAt = now
	subject.UpdatedAt = now

	const query = `INSERT INTO subjects (id, name, code, description, credits, created_at, updated_at)
        VALUES (:id, :name, :code, :description, :credits, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, subject); err != nil {
		return conflictOr(err, "subject code already used", "create subject")
	}
	return nil
}

// Update updates a subject row.
func (r *SubjectRepository) Update(ctx context.Context, subject *models.Subject) error {
	subject.UpdatedAt = time.Now().UTC()
	const query = `UPDATE subjects SET name = :name, code = :code, description = :description, credits = :credits, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, subject); err != nil {
		return conflictOr(err, "subject code already used", "update subject")
	}
	return nil
}

// Delete removes a subject unless any exam result or teacher references it.
func (r *SubjectRepository) Delete(ctx context.Context, id string) error {
	var refs int
	const query = `SELECT (SELECT COUNT(*) FROM exam_results WHERE subject_id = $1) + (SELECT COUNT(*) FROM teacher_subjects WHERE subject_id = $1)`
	if err := r.db.GetContext(ctx, &refs, query, id); err != nil {
		return fmt.Errorf("count subject references: %w", err)
	}
	if refs > 0 {
		return appErrors.Clone(appErrors.ErrConflict, "subject is referenced by exam results or teachers")
	}
	if _, err := r.db.ExecContext(ctx, `DELETE FROM subjects WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete subject: %w", err)
	}
	return nil
}
