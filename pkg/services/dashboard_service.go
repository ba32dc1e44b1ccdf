package services

import (
	"context"

	"go.uber.org/zap"

	"github.com/showcase-labs/showcase-engine/pkg/models"
	"github.com/showcase-labs/showcase-engine/pkg/repositories"
)

// HighlightLimit caps the recent and top dashboard sections.
const HighlightLimit = 3

// Dashboard aggregates the landing-page sections: the full visible feed plus
// short recent and top highlight lists.
type Dashboard struct {
	Feed   []*models.Project `json:"feedProjects"`
	Recent []*models.Project `json:"recentProjects"`
	Top    []*models.Project `json:"topProjects"`
}

// DashboardService assembles the landing-page feed.
type DashboardService interface {
	// Get returns the feed, the newest approved projects and the
	// highest-rated projects visible to the viewer.
	Get(ctx context.Context, viewer *models.Viewer) (*Dashboard, error)
}

// dashboardService implements DashboardService.
type dashboardService struct {
	projects repositories.ProjectRepository
	logger   *zap.Logger
}

// NewDashboardService creates a new dashboard service with dependencies.
func NewDashboardService(projects repositories.ProjectRepository, logger *zap.Logger) DashboardService {
	return &dashboardService{
		projects: projects,
		logger:   logger,
	}
}

func (s *dashboardService) Get(ctx context.Context, viewer *models.Viewer) (*Dashboard, error) {
	feed, err := s.projects.List(ctx, models.ProjectFilter{}, viewer)
	if err != nil {
		return nil, err
	}

	recent, err := s.projects.List(ctx, models.ProjectFilter{
		Status: models.StatusApproved,
		Limit:  HighlightLimit,
	}, viewer)
	if err != nil {
		return nil, err
	}

	top, err := s.projects.ListTop(ctx, viewer, HighlightLimit)
	if err != nil {
		return nil, err
	}

	return &Dashboard{Feed: feed, Recent: recent, Top: top}, nil
}

// Ensure dashboardService implements DashboardService at compile time.
var _ DashboardService = (*dashboardService)(nil)
