package models

import "time"

// Class is a grade-level lookup entity, e.g. "Grade 5".
type Class struct {
	ID          string    `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Description string    `db:"description" json:"description,omitempty"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// ClassDetail adds the derived enrollment count.
type ClassDetail struct {
	Class
	TotalStudents int `db:"total_students" json:"total_students"`
}

// Section is a lookup entity for section labels, e.g. "A".
type Section struct {
	ID          string    `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Description string    `db:"description" json:"description,omitempty"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// ClassSection is one year's offering of a (class, section) pair.
type ClassSection struct {
	ID             string    `db:"id" json:"id"`
	ClassID        string    `db:"class_id" json:"class_id"`
	SectionID      string    `db:"section_id" json:"section_id"`
	ClassTeacherID *string   `db:"class_teacher_id" json:"class_teacher_id,omitempty"`
	AcademicYear   string    `db:"academic_year" json:"academic_year"`
	RoomNumber     string    `db:"room_number" json:"room_number,omitempty"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`
}

// ClassSectionDetail carries the joined projections for serialization. The
// flat columns feed the nested views built by the service layer.
type ClassSectionDetail struct {
	ClassSection
	ClassName          string  `db:"class_name" json:"-"`
	ClassDescription   string  `db:"class_description" json:"-"`
	SectionName        string  `db:"section_name" json:"-"`
	SectionDescription string  `db:"section_description" json:"-"`
	TeacherEmployeeID  *string `db:"teacher_employee_id" json:"-"`
	TeacherName        *string `db:"teacher_name" json:"-"`
	StudentsCount      int     `db:"students_count" json:"students_count"`

	Class        *Class      `db:"-" json:"class,omitempty"`
	Section      *Section    `db:"-" json:"section,omitempty"`
	ClassTeacher *TeacherRef `db:"-" json:"class_teacher,omitempty"`
}
