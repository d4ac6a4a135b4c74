package models

import "time"

// AttendanceStatus stores the single-letter attendance code.
type AttendanceStatus string

const (
	AttendancePresent AttendanceStatus = "P"
	AttendanceAbsent  AttendanceStatus = "A"
	AttendanceLate    AttendanceStatus = "L"
	AttendanceExcused AttendanceStatus = "E"
)

// Valid reports whether the status code is known.
func (s AttendanceStatus) Valid() bool {
	switch s {
	case AttendancePresent, AttendanceAbsent, AttendanceLate, AttendanceExcused:
		return true
	}
	return false
}

// Display returns the human readable status name.
func (s AttendanceStatus) Display() string {
	switch s {
	case AttendancePresent:
		return "Present"
	case AttendanceAbsent:
		return "Absent"
	case AttendanceLate:
		return "Late"
	case AttendanceExcused:
		return "Excused"
	}
	return string(s)
}

// Attendance is one per-student per-day ledger entry. (student_id, date)
// is unique; the store enforces it.
type Attendance struct {
	ID        string           `db:"id" json:"id"`
	StudentID string           `db:"student_id" json:"student"`
	Date      time.Time        `db:"date" json:"date"`
	Status    AttendanceStatus `db:"status" json:"status"`
	Remarks   string           `db:"remarks" json:"remarks,omitempty"`
	CreatedAt time.Time        `db:"created_at" json:"created_at"`
}

// AttendanceDetail joins the record with its student projection.
type AttendanceDetail struct {
	Attendance
	StudentName     string `db:"student_name" json:"student_name"`
	AdmissionNumber string `db:"admission_number" json:"admission_number"`
	ClassName       string `db:"class_name" json:"-"`
	SectionName     string `db:"section_name" json:"-"`

	ClassSectionName string `db:"-" json:"class_section_name"`
	StatusDisplay    string `db:"-" json:"status_display"`
}

// AttendanceFilter narrows attendance report queries. Criteria combine
// with AND semantics; zero values are skipped.
type AttendanceFilter struct {
	StudentID string
	StartDate *time.Time
	EndDate   *time.Time
}
