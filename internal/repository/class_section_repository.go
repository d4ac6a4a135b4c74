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

// ClassSectionRepository manages class/section pairings per academic year.
type ClassSectionRepository struct {
	db *sqlx.DB
}

// NewClassSectionRepository constructs a ClassSectionRepository.
func NewClassSectionRepository(db *sqlx.DB) *ClassSectionRepository {
	return &ClassSectionRepository{db: db}
}

const classSectionDetailSelect = `SELECT cs.id, cs.class_id, cs.section_id, cs.class_teacher_id, cs.academic_year, cs.room_number, cs.created_at, cs.updated_at,
        c.name AS class_name, c.description AS class_description,
        sec.name AS section_name, sec.description AS section_description,
        t.employee_id AS teacher_employee_id,
        a.first_name || ' ' || a.last_name AS teacher_name,
        (SELECT COUNT(*) FROM students s WHERE s.class_section_id = cs.id) AS students_count
        FROM class_sections cs
        JOIN classes c ON c.id = cs.class_id
        JOIN sections sec ON sec.id = cs.section_id
        LEFT JOIN teachers t ON t.id = cs.class_teacher_id
        LEFT JOIN accounts a ON a.id = t.account_id`

// List returns all class sections with joined names and student counts.
func (r *ClassSectionRepository) List(ctx context.Context) ([]models.ClassSectionDetail, error) {
	query := classSectionDetailSelect + ` ORDER BY c.name, sec.name, cs.academic_year`
	var sections []models.ClassSectionDetail
	if err := r.db.SelectContext(ctx, &sections, query); err != nil {
		return nil, fmt.Errorf("list class sections: %w", err)
	}
	return sections, nil
}

// FindByID fetches one class section detail.
func (r *ClassSectionRepository) FindByID(ctx context.Context, id string) (*models.ClassSectionDetail, error) {
	query := classSectionDetailSelect + ` WHERE cs.id = $1`
	var detail models.ClassSectionDetail
	if err := r.db.GetContext(ctx, &detail, query, id); err != nil {
		return nil, err
	}
	return &detail, nil
}

// Exists reports whether a class/section/year combination is already taken.
func (r *ClassSectionRepository) Exists(ctx context.Context, classID, sectionID, academicYear, excludeID string) (bool, error) {
	query := `SELECT 1 FROM class_sections WHERE class_id = $1 AND section_id = $2 AND academic_year = $3`
	args := []interface{}{classID, sectionID, academicYear}
	if excludeID != "" {
		query += " AND id <> $4"
		args = append(args, excludeID)
	}
	var exists int
	if err := r.db.GetContext(ctx, &exists, query+" LIMIT 1", args...); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check class section: %w", err)
	}
	return true, nil
}

// Create inserts a class section.
func (r *ClassSectionRepository) Create(ctx context.Context, cs *models.ClassSection) error {
	if cs.ID == "" {
		cs.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	cs.CreatedAt = now
	cs.UpdatedAt = now

	const query = `INSERT INTO class_sections (id, class_id, section_id, class_teacher_id, academic_year, room_number, created_at, updated_at)
        VALUES (:id, :class_id, :section_id, :class_teacher_id, :academic_year, :room_number, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, cs); err != nil {
		return conflictOr(err, "class section already exists for this academic year", "create class section")
	}
	return nil
}

// Update updates a class section row.
func (r *ClassSectionRepository) Update(ctx context.Context, cs *models.ClassSection) error {
	cs.UpdatedAt = time.Now().UTC()
	const query = `UPDATE class_sections SET class_id = :class_id, section_id = :section_id, class_teacher_id = :class_teacher_id, academic_year = :academic_year, room_number = :room_number, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, cs); err != nil {
		return conflictOr(err, "class section already exists for this academic year", "update class section")
	}
	return nil
}

// Delete removes a class section unless students are enrolled in it.
func (r *ClassSectionRepository) Delete(ctx context.Context, id string) error {
	var refs int
	if err := r.db.GetContext(ctx, &refs, `SELECT COUNT(*) FROM students WHERE class_section_id = $1`, id); err != nil {
		return fmt.Errorf("count enrolled students: %w", err)
	}
	if refs > 0 {
		return appErrors.Clone(appErrors.ErrConflict, "class section has enrolled students")
	}
	if _, err := r.db.ExecContext(ctx, `DELETE FROM class_sections WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete class section: %w", err)
	}
	return nil
}
