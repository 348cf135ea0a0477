package services

import (
	"context"

	"golang.org/x/sync/errgroup"
	"orders-backend/internal/dal"
	"orders-backend/internal/models"
)

type DashboardService struct {
	dal *dal.DAL
}

func NewDashboardService(d *dal.DAL) *DashboardService {
	return &DashboardService{dal: d}
}

// Load fetches the current user and the order list concurrently. It fails
// with ErrUnauthorized when there is no current user.
func (s *DashboardService) Load(ctx context.Context) (*models.DashboardResponse, error) {
	var (
		user   *models.User
		orders []models.OrderWithUser
	)

	// The user lookup is memoized per request, so it must not see gctx.
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		user = s.dal.GetCurrentUser(ctx)
		return nil
	})
	g.Go(func() error {
		var err error
		orders, err = s.dal.GetOrders(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if user == nil {
		return nil, ErrUnauthorized
	}
	return &models.DashboardResponse{User: user, Orders: orders}, nil
}
