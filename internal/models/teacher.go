package models

import "time"

// Teacher represents a teaching staff member with a one-to-one account.
type Teacher struct {
	ID              string    `db:"id" json:"id"`
	AccountID       string    `db:"account_id" json:"account_id"`
	EmployeeID      string    `db:"employee_id" json:"employee_id"`
	Qualification   string    `db:"qualification" json:"qualification"`
	ExperienceYears int       `db:"experience_years" json:"experience_years"`
	DateJoined      time.Time `db:"date_joined" json:"date_joined"`
	Active          bool      `db:"active" json:"is_active"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time `db:"updated_at" json:"updated_at"`
}

// SubjectRef is the short subject projection embedded in teacher payloads.
type SubjectRef struct {
	ID   string `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
}

// TeacherDetail joins the teacher with account fields and derived lists.
type TeacherDetail struct {
	Teacher
	FirstName string `db:"first_name" json:"first_name"`
	LastName  string `db:"last_name" json:"last_name"`
	Email     string `db:"email" json:"email"`
	Phone     string `db:"phone" json:"phone,omitempty"`

	Subjects      []SubjectRef `db:"-" json:"subjects_detail"`
	ClassSections []string     `db:"-" json:"class_sections"`
}

// TeacherRef is the short teacher projection nested in class sections.
type TeacherRef struct {
	ID         string `json:"id"`
	EmployeeID string `json:"employee_id"`
	FullName   string `json:"full_name"`
}
