package repository

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/edudesk/school-api/internal/models"
)

// AttendanceRepository manages daily attendance records.
type AttendanceRepository struct {
	db *sqlx.DB
}

// NewAttendanceRepository constructs an AttendanceRepository.
func NewAttendanceRepository(db *sqlx.DB) *AttendanceRepository {
	return &AttendanceRepository{db: db}
}

const attendanceDetailSelect = `SELECT att.id, att.student_id, att.date, att.status, att.remarks, att.created_at,
        a.first_name || ' ' || a.last_name AS student_name,
        s.admission_number,
        c.name AS class_name, sec.name AS section_name
        FROM attendance att
        JOIN students s ON s.id = att.student_id
        JOIN accounts a ON a.id = s.account_id
        JOIN class_sections cs ON cs.id = s.class_section_id
        JOIN classes c ON c.id = cs.class_id
        JOIN sections sec ON sec.id = cs.section_id`

// Report returns attendance records matching the filter, newest first.
func (r *AttendanceRepository) Report(ctx context.Context, filter models.AttendanceFilter) ([]models.AttendanceDetail, error) {
	query := attendanceDetailSelect
	var (
		conds []string
		args  []interface{}
	)
	if filter.StudentID != "" {
		args = append(args, filter.StudentID)
		conds = append(conds, "att.student_id = $"+strconv.Itoa(len(args)))
	}
	if filter.StartDate != nil {
		args = append(args, *filter.StartDate)
		conds = append(conds, "att.date >= $"+strconv.Itoa(len(args)))
	}
	if filter.EndDate != nil {
		args = append(args, *filter.EndDate)
		conds = append(conds, "att.date <= $"+strconv.Itoa(len(args)))
	}
	for i, cond := range conds {
		if i == 0 {
			query += " WHERE " + cond
		} else {
			query += " AND " + cond
		}
	}
	query += " ORDER BY att.date DESC, s.admission_number"

	var records []models.AttendanceDetail
	if err := r.db.SelectContext(ctx, &records, query, args...); err != nil {
		return nil, fmt.Errorf("attendance report: %w", err)
	}
	return records, nil
}

// ListByStudent returns all attendance rows for one student, oldest first.
func (r *AttendanceRepository) ListByStudent(ctx context.Context, studentID string) ([]models.Attendance, error) {
	const query = `SELECT id, student_id, date, status, remarks, created_at
        FROM attendance WHERE student_id = $1 ORDER BY date`
	var records []models.Attendance
	if err := r.db.SelectContext(ctx, &records, query, studentID); err != nil {
		return nil, fmt.Errorf("list student attendance: %w", err)
	}
	return records, nil
}

// Create inserts one attendance record. A second record for the same
// student and date surfaces as a conflict.
func (r *AttendanceRepository) Create(ctx context.Context, record *models.Attendance) error {
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	record.CreatedAt = time.Now().UTC()

	const query = `INSERT INTO attendance (id, student_id, date, status, remarks, created_at)
        VALUES (:id, :student_id, :date, :status, :remarks, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, record); err != nil {
		return conflictOr(err, "attendance already recorded for this student and date", "create attendance")
	}
	return nil
}
