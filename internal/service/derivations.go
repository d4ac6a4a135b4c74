package service

import (
	"math"
	"time"

	"github.com/edudesk/school-api/internal/models"
)

// Grade band cutoffs applied to rounded percentages.
const (
	gradeAPlusCutoff = 90
	gradeACutoff     = 80
	gradeBCutoff     = 70
	gradeCCutoff     = 60
	gradeDCutoff     = 50
)

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Percentage returns marks over max as a percentage rounded to two
// decimals. A non-positive max yields 0.
func Percentage(marks, max float64) float64 {
	if max <= 0 {
		return 0
	}
	return round2(marks / max * 100)
}

// GradeFor maps a rounded percentage to its letter grade.
func GradeFor(percentage float64) string {
	switch {
	case percentage >= gradeAPlusCutoff:
		return "A+"
	case percentage >= gradeACutoff:
		return "A"
	case percentage >= gradeBCutoff:
		return "B"
	case percentage >= gradeCCutoff:
		return "C"
	case percentage >= gradeDCutoff:
		return "D"
	default:
		return "F"
	}
}

// AttendancePercentage returns present days over total days rounded to
// two decimals. Zero recorded days yields 0, not an error.
func AttendancePercentage(presentDays, totalDays int) float64 {
	if totalDays <= 0 {
		return 0
	}
	return round2(float64(presentDays) / float64(totalDays) * 100)
}

// IsOverdue reports whether a pending fee's due date has passed as of
// now. Only the Pending status can be overdue; Paid never is, and a fee
// already stored as Overdue carries that state in its status field.
func IsOverdue(status models.FeeStatus, dueDate, now time.Time) bool {
	if status != models.FeePending {
		return false
	}
	return dueDate.Before(now.Truncate(24 * time.Hour))
}

// SectionLabel formats the "{class} - {section}" display label.
func SectionLabel(className, sectionName string) string {
	if className == "" && sectionName == "" {
		return ""
	}
	return className + " - " + sectionName
}
