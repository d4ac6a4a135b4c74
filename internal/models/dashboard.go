package models

// DashboardSummary is the aggregate snapshot computed fresh on every call.
type DashboardSummary struct {
	TotalStudents   int `db:"total_students" json:"total_students"`
	TotalTeachers   int `db:"total_teachers" json:"total_teachers"`
	TodayAttendance int `db:"today_attendance" json:"today_attendance"`
	UpcomingExams   int `db:"upcoming_exams" json:"upcoming_exams"`
	PendingFees     int `db:"pending_fees" json:"pending_fees"`
}
