package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/edudesk/school-api/internal/models"
)

func TestPercentage(t *testing.T) {
	assert.Equal(t, 85.5, Percentage(85.5, 100))
	assert.Equal(t, 66.67, Percentage(2, 3))
	assert.Equal(t, 100.0, Percentage(50, 50))
	assert.Equal(t, 0.0, Percentage(10, 0))
	assert.Equal(t, 0.0, Percentage(10, -5))
}

func TestGradeFor(t *testing.T) {
	cases := []struct {
		percentage float64
		grade      string
	}{
		{100, "A+"},
		{90, "A+"},
		{89.99, "A"},
		{80, "A"},
		{79.99, "B"},
		{70, "B"},
		{69.99, "C"},
		{60, "C"},
		{59.99, "D"},
		{50, "D"},
		{49.99, "F"},
		{0, "F"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.grade, GradeFor(tc.percentage), "percentage %v", tc.percentage)
	}
}

func TestAttendancePercentage(t *testing.T) {
	assert.Equal(t, 0.0, AttendancePercentage(0, 0))
	assert.Equal(t, 100.0, AttendancePercentage(20, 20))
	assert.Equal(t, 66.67, AttendancePercentage(2, 3))
	assert.Equal(t, 0.0, AttendancePercentage(0, 15))
}

func TestIsOverdue(t *testing.T) {
	now := time.Date(2026, 3, 15, 10, 30, 0, 0, time.UTC)

	assert.False(t, IsOverdue(models.FeePaid, now.AddDate(0, -1, 0), now))
	assert.True(t, IsOverdue(models.FeePending, now.AddDate(0, -1, 0), now))
	// a stored Overdue status speaks for itself; the flag derives from Pending only
	assert.False(t, IsOverdue(models.FeeOverdue, now.AddDate(0, -1, 0), now))
	// due today is not overdue yet
	assert.False(t, IsOverdue(models.FeePending, now.Truncate(24*time.Hour), now))
	assert.False(t, IsOverdue(models.FeePending, now.AddDate(0, 0, 7), now))
}

func TestSectionLabel(t *testing.T) {
	assert.Equal(t, "Grade 10 - A", SectionLabel("Grade 10", "A"))
	assert.Equal(t, "", SectionLabel("", ""))
}
