package models

import "time"

// FeeType stores the short fee type code.
type FeeType string

const (
	FeeTuition   FeeType = "TUI"
	FeeLab       FeeType = "LAB"
	FeeTransport FeeType = "TRA"
	FeeLibrary   FeeType = "LIB"
	FeeOther     FeeType = "OTH"
)

// Valid reports whether the fee type code is known.
func (t FeeType) Valid() bool {
	switch t {
	case FeeTuition, FeeLab, FeeTransport, FeeLibrary, FeeOther:
		return true
	}
	return false
}

// Display returns the human readable fee type name.
func (t FeeType) Display() string {
	switch t {
	case FeeTuition:
		return "Tuition Fee"
	case FeeLab:
		return "Laboratory Fee"
	case FeeTransport:
		return "Transportation Fee"
	case FeeLibrary:
		return "Library Fee"
	case FeeOther:
		return "Other Fee"
	}
	return string(t)
}

// FeeStatus stores the short fee status code.
type FeeStatus string

const (
	FeePending FeeStatus = "PEN"
	FeePaid    FeeStatus = "PAI"
	FeeOverdue FeeStatus = "OVE"
)

// Display returns the human readable status name.
func (s FeeStatus) Display() string {
	switch s {
	case FeePending:
		return "Pending"
	case FeePaid:
		return "Paid"
	case FeeOverdue:
		return "Overdue"
	}
	return string(s)
}

// Fee is one charge against a student.
type Fee struct {
	ID            string     `db:"id" json:"id"`
	StudentID     string     `db:"student_id" json:"student"`
	FeeType       FeeType    `db:"fee_type" json:"fee_type"`
	Amount        float64    `db:"amount" json:"amount"`
	DueDate       time.Time  `db:"due_date" json:"due_date"`
	PaidDate      *time.Time `db:"paid_date" json:"paid_date,omitempty"`
	Status        FeeStatus  `db:"status" json:"status"`
	PaymentMethod string     `db:"payment_method" json:"payment_method,omitempty"`
	ReceiptNumber string     `db:"receipt_number" json:"receipt_number,omitempty"`
	CreatedAt     time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time  `db:"updated_at" json:"updated_at"`
}

// FeeDetail joins the fee with its student projection. IsOverdue is a
// point-in-time view derived at serialization, never stored.
type FeeDetail struct {
	Fee
	StudentName     string `db:"student_name" json:"student_name"`
	AdmissionNumber string `db:"admission_number" json:"admission_number"`

	FeeTypeDisplay string `db:"-" json:"fee_type_display"`
	StatusDisplay  string `db:"-" json:"status_display"`
	IsOverdue      bool   `db:"-" json:"is_overdue"`
}
