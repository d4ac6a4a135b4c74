package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/edudesk/school-api/internal/models"
)

// DashboardRepository computes the live dashboard counters. Every call
// hits the store; the summary is never cached.
type DashboardRepository struct {
	db *sqlx.DB
}

// NewDashboardRepository constructs a DashboardRepository.
func NewDashboardRepository(db *sqlx.DB) *DashboardRepository {
	return &DashboardRepository{db: db}
}

// Summary gathers all counters in a single round trip.
func (r *DashboardRepository) Summary(ctx context.Context, now time.Time) (*models.DashboardSummary, error) {
	const query = `SELECT
        (SELECT COUNT(*) FROM students) AS total_students,
        (SELECT COUNT(*) FROM teachers) AS total_teachers,
        (SELECT COUNT(*) FROM attendance WHERE date = $1) AS today_attendance,
        (SELECT COUNT(*) FROM exams WHERE active AND start_date >= $2) AS upcoming_exams,
        (SELECT COUNT(*) FROM fees WHERE status = 'PEN') AS pending_fees`

	today := now.UTC().Truncate(24 * time.Hour)
	var summary models.DashboardSummary
	if err := r.db.GetContext(ctx, &summary, query, today, today); err != nil {
		return nil, fmt.Errorf("dashboard summary: %w", err)
	}
	return &summary, nil
}
