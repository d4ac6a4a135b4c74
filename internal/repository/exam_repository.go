package repository

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/edudesk/school-api/internal/models"
	appErrors "github.com/edudesk/school-api/pkg/errors"
)

// ExamRepository manages exams and exam results.
type ExamRepository struct {
	db *sqlx.DB
}

// NewExamRepository constructs an ExamRepository.
func NewExamRepository(db *sqlx.DB) *ExamRepository {
	return &ExamRepository{db: db}
}

const examDetailSelect = `SELECT e.id, e.name, e.exam_type, e.start_date, e.end_date, e.academic_year, e.active, e.created_at, e.updated_at,
        (SELECT COUNT(DISTINCT er.student_id) FROM exam_results er WHERE er.exam_id = e.id) AS total_students,
        EXISTS (SELECT 1 FROM exam_results er WHERE er.exam_id = e.id) AS results_published
        FROM exams e`

// List returns all exams with derived result statistics, newest first.
func (r *ExamRepository) List(ctx context.Context) ([]models.ExamDetail, error) {
	query := examDetailSelect + ` ORDER BY e.start_date DESC, e.name`
	var exams []models.ExamDetail
	if err := r.db.SelectContext(ctx, &exams, query); err != nil {
		return nil, fmt.Errorf("list exams: %w", err)
	}
	return exams, nil
}

// FindByID fetches one exam detail.
func (r *ExamRepository) FindByID(ctx context.Context, id string) (*models.ExamDetail, error) {
	query := examDetailSelect + ` WHERE e.id = $1`
	var detail models.ExamDetail
	if err := r.db.GetContext(ctx, &detail, query, id); err != nil {
		return nil, err
	}
	return &detail, nil
}

// Create inserts an exam.
func (r *ExamRepository) Create(ctx context.Context, exam *models.Exam) error {
	if exam.ID == "" {
		exam.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	exam.CreatedAt = now
	exam.UpdatedAt = now

	const query = `INSERT INTO exams (id, name, exam_type, start_date, end_date, academic_year, active, created_at, updated_at)
        VALUES (:id, :name, :exam_type, :start_date, :end_date, :academic_year, :active, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, exam); err != nil {
		return conflictOr(err, "exam already exists", "create exam")
	}
	return nil
}

// Update updates an exam row.
func (r *ExamRepository) Update(ctx context.Context, exam *models.Exam) error {
	exam.UpdatedAt = time.Now().UTC()
	const query = `UPDATE exams SET name = :name, exam_type = :exam_type, start_date = :start_date, end_date = :end_date, academic_year = :academic_year, active = :active, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, exam); err != nil {
		return conflictOr(err, "exam already exists", "update exam")
	}
	return nil
}

// Delete removes an exam unless results have been recorded against it.
func (r *ExamRepository) Delete(ctx context.Context, id string) error {
	var refs int
	if err := r.db.GetContext(ctx, &refs, `SELECT COUNT(*) FROM exam_results WHERE exam_id = $1`, id); err != nil {
		return fmt.Errorf("count exam results: %w", err)
	}
	if refs > 0 {
		return appErrors.Clone(appErrors.ErrConflict, "exam has recorded results")
	}
	if _, err := r.db.ExecContext(ctx, `DELETE FROM exams WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete exam: %w", err)
	}
	return nil
}

const examResultDetailSelect = `SELECT er.id, er.exam_id, er.student_id, er.subject_id, er.marks_obtained, er.max_marks, er.remarks, er.created_at,
        a.first_name || ' ' || a.last_name AS student_name,
        s.admission_number,
        e.name AS exam_name,
        sub.name AS subject_name, sub.code AS subject_code
        FROM exam_results er
        JOIN exams e ON e.id = er.exam_id
        JOIN subjects sub ON sub.id = er.subject_id
        JOIN students s ON s.id = er.student_id
        JOIN accounts a ON a.id = s.account_id`

// Results returns exam results matching the filter.
func (r *ExamRepository) Results(ctx context.Context, filter models.ExamResultFilter) ([]models.ExamResultDetail, error) {
	query := examResultDetailSelect
	var (
		conds []string
		args  []interface{}
	)
	if filter.StudentID != "" {
		args = append(args, filter.StudentID)
		conds = append(conds, "er.student_id = $"+strconv.Itoa(len(args)))
	}
	if filter.ExamID != "" {
		args = append(args, filter.ExamID)
		conds = append(conds, "er.exam_id = $"+strconv.Itoa(len(args)))
	}
	for i, cond := range conds {
		if i == 0 {
			query += " WHERE " + cond
		} else {
			query += " AND " + cond
		}
	}
	query += " ORDER BY e.start_date DESC, s.admission_number, sub.name"

	var results []models.ExamResultDetail
	if err := r.db.SelectContext(ctx, &results, query, args...); err != nil {
		return nil, fmt.Errorf("list exam results: %w", err)
	}
	return results, nil
}

// ResultsByStudent returns all detailed results for one student.
func (r *ExamRepository) ResultsByStudent(ctx context.Context, studentID string) ([]models.ExamResultDetail, error) {
	return r.Results(ctx, models.ExamResultFilter{StudentID: studentID})
}

// CreateResult records marks for one student in one exam and subject.
// A second entry for the same triple surfaces as a conflict.
func (r *ExamRepository) CreateResult(ctx context.Context, result *models.ExamResult) error {
	if result.ID == "" {
		result.ID = uuid.NewString()
	}
	result.CreatedAt = time.Now().UTC()

	const query = `INSERT INTO exam_results (id, exam_id, student_id, subject_id, marks_obtained, max_marks, remarks, created_at)
        VALUES (:id, :exam_id, :student_id, :subject_id, :marks_obtained, :max_marks, :remarks, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, result); err != nil {
		return conflictOr(err, "result already recorded for this exam, student and subject", "create exam result")
	}
	return nil
}
