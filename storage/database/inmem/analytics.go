package inmemdb

import (
	"context"

	"github.com/projectzone/backend/core/analytics"
)

type analyticsRepository struct {
	db *DB
}

var _ analytics.Repository = (*analyticsRepository)(nil)

func NewAnalyticsRepository(db *DB) *analyticsRepository {
	return &analyticsRepository{db: db}
}

func (repo *analyticsRepository) CreateVisitor(_ context.Context, vis analytics.Visitor) (analytics.Visitor, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	if repo.db.err != nil {
		return analytics.Visitor{}, repo.db.err
	}
	vis.ID = repo.db.nextID()
	repo.db.visitors = append(repo.db.visitors, vis)
	return vis, nil
}

func (repo *analyticsRepository) CreateClick(_ context.Context, clk analytics.Click) (analytics.Click, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	if repo.db.err != nil {
		return analytics.Click{}, repo.db.err
	}
	clk.ID = repo.db.nextID()
	repo.db.clicks = append(repo.db.clicks, clk)
	return clk, nil
}

func (repo *analyticsRepository) RecentVisitors(_ context.Context, limit int) ([]analytics.Visitor, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	if repo.db.err != nil {
		return nil, repo.db.err
	}
	visitors := make([]analytics.Visitor, 0, limit)
	for i := len(repo.db.visitors) - 1; i >= 0 && len(visitors) < limit; i-- {
		visitors = append(visitors, repo.db.visitors[i])
	}
	return visitors, nil
}

func (repo *analyticsRepository) RecentClicks(_ context.Context, limit int) ([]analytics.Click, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	if repo.db.err != nil {
		return nil, repo.db.err
	}
	clicks := make([]analytics.Click, 0, limit)
	for i := len(repo.db.clicks) - 1; i >= 0 && len(clicks) < limit; i-- {
		clicks = append(clicks, repo.db.clicks[i])
	}
	return clicks, nil
}
