package models

// MonthlyAttendance summarises one calendar month inside a report.
type MonthlyAttendance struct {
	TotalDays   int `json:"total_days"`
	PresentDays int `json:"present_days"`
	AbsentDays  int `json:"absent_days"`
	LateDays    int `json:"late_days"`
	ExcusedDays int `json:"excused_days"`
}

// AttendanceSummary aggregates a student's full attendance history.
type AttendanceSummary struct {
	TotalDays            int                          `json:"total_days"`
	PresentDays          int                          `json:"present_days"`
	AbsentDays           int                          `json:"absent_days"`
	LateDays             int                          `json:"late_days"`
	ExcusedDays          int                          `json:"excused_days"`
	AttendancePercentage float64                      `json:"attendance_percentage"`
	MonthlyReport        map[string]MonthlyAttendance `json:"monthly_report"`
}

// FeeSummary aggregates a student's fee ledger by amount.
type FeeSummary struct {
	TotalFees      float64     `json:"total_fees"`
	PaidFees       float64     `json:"paid_fees"`
	PendingFees    float64     `json:"pending_fees"`
	OverdueFees    float64     `json:"overdue_fees"`
	PaymentHistory []FeeDetail `json:"payment_history"`
}

// AcademicReport is the consolidated per-student report.
type AcademicReport struct {
	Student           StudentDetail      `json:"student"`
	AttendanceSummary AttendanceSummary  `json:"attendance_summary"`
	FeeSummary        FeeSummary         `json:"fee_summary"`
	ExamResults       []ExamResultDetail `json:"exam_results"`
	OverallGrade      string             `json:"overall_grade"`
}
