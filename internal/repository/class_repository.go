package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/edudesk/school-api/internal/models"
	appErrors "github.com/edudesk/school-api/pkg/errors"
)

// ClassRepository manages classes and sections.
type ClassRepository struct {
	db *sqlx.DB
}

// NewClassRepository constructs a ClassRepository.
func NewClassRepository(db *sqlx.DB) *ClassRepository {
	return &ClassRepository{db: db}
}

// ListClasses returns all classes with their student counts.
func (r *ClassRepository) ListClasses(ctx context.Context) ([]models.ClassDetail, error) {
	const query = `SELECT c.id, c.name, c.description, c.created_at, c.updated_at,
        (SELECT COUNT(*) FROM students s JOIN class_sections cs ON cs.id = s.class_section_id WHERE cs.class_id = c.id) AS total_students
        FROM classes c ORDER BY c.name`
	var classes []models.ClassDetail
	if err := r.db.SelectContext(ctx, &classes, query); err != nil {
		return nil, fmt.Errorf("list classes: %w", err)
	}
	return classes, nil
}

// FindClassByID fetches one class.
func (r *ClassRepository) FindClassByID(ctx context.Context, id string) (*models.ClassDetail, error) {
	const query = `SELECT c.id, c.name, c.description, c.created_at, c.updated_at,
        (SELECT COUNT(*) FROM students s JOIN class_sections cs ON cs.id = s.class_section_id WHERE cs.class_id = c.id) AS total_students
        FROM classes c WHERE c.id = $1`
	var detail models.ClassDetail
	if err := r.db.GetContext(ctx, &detail, query, id); err != nil {
		return nil, err
	}
	return &detail, nil
}

// CreateClass inserts a class.
func (r *ClassRepository) CreateClass(ctx context.Context, class *models.Class) error {
	if class.ID == "" {
		class.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	class.CreatedAt = now
	class.UpdatedAt = now

	const query = `INSERT INTO classes (id, name, description, created_at, updated_at)
        VALUES (:id, :name, :description, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, class); err != nil {
		return conflictOr(err, "class name already used", "create class")
	}
	return nil
}

// UpdateClass updates a class row.
func (r *ClassRepository) UpdateClass(ctx context.Context, class *models.Class) error {
	class.UpdatedAt = time.Now().UTC()
	const query = `UPDATE classes SET name = :name, description = :description, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, class); err != nil {
		return conflictOr(err, "class name already used", "update class")
	}
	return nil
}

// DeleteClass removes a class unless any class section references it.
func (r *ClassRepository) DeleteClass(ctx context.Context, id string) error {
	var refs int
	if err := r.db.GetContext(ctx, &refs, `SELECT COUNT(*) FROM class_sections WHERE class_id = $1`, id); err != nil {
		return fmt.Errorf("count class references: %w", err)
	}
	if refs > 0 {
		return appErrors.Clone(appErrors.ErrConflict, "class is referenced by class sections")
	}
	if _, err := r.db.ExecContext(ctx, `DELETE FROM classes WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete class: %w", err)
	}
	return nil
}

// ListSections returns all sections.
func (r *ClassRepository) ListSections(ctx context.Context) ([]models.Section, error) {
	var sections []models.Section
	if err := r.db.SelectContext(ctx, &sections, `SELECT id, name, description, created_at, updated_at FROM sections ORDER BY name`); err != nil {
		return nil, fmt.Errorf("list sections: %w", err)
	}
	return sections, nil
}

// FindSectionByID fetches one section.
func (r *ClassRepository) FindSectionByID(ctx context.Context, id string) (*models.Section, error) {
	var section models.Section
	if err := r.db.GetContext(ctx, &section, `SELECT id, name, description, created_at, updated_at FROM sections WHERE id = $1`, id); err != nil {
		return nil, err
	}
	return &section, nil
}

// CreateSection inserts a section.
func (r *ClassRepository) CreateSection(ctx context.Context, section *models.Section) error {
	if section.ID == "" {
		section.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	section.CreatedAt = now
	section.UpdatedAt = now

	const query = `INSERT INTO sections (id, name, description, created_at, updated_at)
        VALUES (:id, :name, :description, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, section); err != nil {
		return conflictOr(err, "section name already used", "create section")
	}
	return nil
}

// UpdateSection updates a section row.
func (r *ClassRepository) UpdateSection(ctx context.Context, section *models.Section) error {
	section.UpdatedAt = time.Now().UTC()
	const query = `UPDATE sections SET name = :name, description = :description, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, section); err != nil {
		return conflictOr(err, "section name already used", "update section")
	}
	return nil
}

// DeleteSection removes a section unless any class section references it.
func (r *ClassRepository) DeleteSection(ctx context.Context, id string) error {
	var refs int
	if err := r.db.GetContext(ctx, &refs, `SELECT COUNT(*) FROM class_sections WHERE section_id = $1`, id); err != nil {
		return fmt.Errorf("count section references: %w", err)
	}
	if refs > 0 {
		return appErrors.Clone(appErrors.ErrConflict, "section is referenced by class sections")
	}
	if _, err := r.db.ExecContext(ctx, `DELETE FROM sections WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete section: %w", err)
	}
	return nil
}
