package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/edudesk/school-api/internal/models"
	appErrors "github.com/edudesk/school-api/pkg/errors"
)

type dashboardRepository interface {
	Summary(ctx context.Context, now time.Time) (*models.DashboardSummary, error)
}

// DashboardService serves the landing summary. The counters are computed
// fresh on every call so they always reflect the current ledgers.
type DashboardService struct {
	repo   dashboardRepository
	logger *zap.Logger
}

// NewDashboardService constructs the dashboard service.
func NewDashboardService(repo dashboardRepository, logger *zap.Logger) *DashboardService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DashboardService{repo: repo, logger: logger}
}

// Summary returns the current dashboard counters.
func (s *DashboardService) Summary(ctx context.Context) (*models.DashboardSummary, error) {
	summary, err := s.repo.Summary(ctx, time.Now().UTC())
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to compute dashboard summary")
	}
	return summary, nil
}
