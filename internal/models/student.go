package models

import "time"

// Gender codes follow the single-letter convention used across the schema.
type Gender string

const (
	GenderMale   Gender = "M"
	GenderFemale Gender = "F"
	GenderOther  Gender = "O"
)

// Valid reports whether the gender code is known.
func (g Gender) Valid() bool {
	switch g {
	case GenderMale, GenderFemale, GenderOther:
		return true
	}
	return false
}

// Student represents a learner registered in the institution. Each student
// owns exactly one account carrying name and contact details.
type Student struct {
	ID              string    `db:"id" json:"id"`
	AccountID       string    `db:"account_id" json:"account_id"`
	AdmissionNumber string    `db:"admission_number" json:"admission_number"`
	RollNumber      string    `db:"roll_number" json:"roll_number"`
	BirthDate       time.Time `db:"birth_date" json:"date_of_birth"`
	Gender          Gender    `db:"gender" json:"gender"`
	Address         string    `db:"address" json:"address"`
	GuardianName    string    `db:"guardian_name" json:"guardian_name"`
	GuardianPhone   string    `db:"guardian_phone" json:"guardian_phone"`
	GuardianEmail   string    `db:"guardian_email" json:"guardian_email,omitempty"`
	ClassSectionID  string    `db:"class_section_id" json:"class_section"`
	AdmissionDate   time.Time `db:"admission_date" json:"admission_date"`
	Active          bool      `db:"active" json:"is_active"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time `db:"updated_at" json:"updated_at"`
}

// StudentDetail joins the student with its account and the counts needed
// for the derived read-only fields. The raw counts are not serialized; the
// service computes the percentage before the record leaves the API.
type StudentDetail struct {
	Student
	FirstName   string `db:"first_name" json:"first_name"`
	LastName    string `db:"last_name" json:"last_name"`
	Email       string `db:"email" json:"email"`
	Phone       string `db:"phone" json:"phone,omitempty"`
	ClassName   string `db:"class_name" json:"-"`
	SectionName string `db:"section_name" json:"-"`
	TotalDays   int    `db:"total_days" json:"-"`
	PresentDays int    `db:"present_days" json:"-"`
	PendingFees int    `db:"pending_fees" json:"pending_fees"`

	ClassSectionName     string  `db:"-" json:"class_section_name"`
	AttendancePercentage float64 `db:"-" json:"attendance_percentage"`
}
