package models

import "time"

// ExamType stores the short exam type code.
type ExamType string

const (
	ExamMidTerm   ExamType = "MID"
	ExamFinalTerm ExamType = "FIN"
	ExamUnitTest  ExamType = "UNIT"
	ExamQuiz      ExamType = "QUIZ"
)

// Valid reports whether the exam type code is known.
func (t ExamType) Valid() bool {
	switch t {
	case ExamMidTerm, ExamFinalTerm, ExamUnitTest, ExamQuiz:
		return true
	}
	return false
}

// Display returns the human readable exam type name.
func (t ExamType) Display() string {
	switch t {
	case ExamMidTerm:
		return "Mid Term"
	case ExamFinalTerm:
		return "Final Term"
	case ExamUnitTest:
		return "Unit Test"
	case ExamQuiz:
		return "Quiz"
	}
	return string(t)
}

// Exam defines an examination window for one academic year.
type Exam struct {
	ID           string    `db:"id" json:"id"`
	Name         string    `db:"name" json:"name"`
	ExamType     ExamType  `db:"exam_type" json:"exam_type"`
	StartDate    time.Time `db:"start_date" json:"start_date"`
	EndDate      time.Time `db:"end_date" json:"end_date"`
	AcademicYear string    `db:"academic_year" json:"academic_year"`
	Active       bool      `db:"active" json:"is_active"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// ExamDetail adds derived result statistics.
type ExamDetail struct {
	Exam
	TotalStudents    int  `db:"total_students" json:"total_students"`
	ResultsPublished bool `db:"results_published" json:"results_published"`

	ExamTypeDisplay string `db:"-" json:"exam_type_display"`
}

// ExamResult stores marks for one (exam, student, subject) triple.
type ExamResult struct {
	ID            string    `db:"id" json:"id"`
	ExamID        string    `db:"exam_id" json:"exam"`
	StudentID     string    `db:"student_id" json:"student"`
	SubjectID     string    `db:"subject_id" json:"subject"`
	MarksObtained float64   `db:"marks_obtained" json:"marks_obtained"`
	MaxMarks      float64   `db:"max_marks" json:"max_marks"`
	Remarks       string    `db:"remarks" json:"remarks,omitempty"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
}

// ExamResultDetail joins the result with student and subject projections.
// Percentage and grade are derived at serialization time, never stored.
type ExamResultDetail struct {
	ExamResult
	StudentName     string `db:"student_name" json:"student_name"`
	AdmissionNumber string `db:"admission_number" json:"admission_number"`
	ExamName        string `db:"exam_name" json:"exam_name"`
	SubjectName     string `db:"subject_name" json:"subject_name"`
	SubjectCode     string `db:"subject_code" json:"subject_code"`

	Percentage float64 `db:"-" json:"percentage"`
	Grade      string  `db:"-" json:"grade"`
}

// ExamResultFilter narrows result queries with AND semantics.
type ExamResultFilter struct {
	StudentID string
	ExamID    string
}
