package inmemdb

import (
	"context"

	"github.com/projectzone/backend/core/lead"
)

type queryRepository struct {
	db *DB
}

var _ lead.Repository = (*queryRepository)(nil)

func NewQueryRepository(db *DB) *queryRepository {
	return &queryRepository{db: db}
}

func (repo *queryRepository) CreateQuery(_ context.Context, qry lead.Query) (lead.Query, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	if repo.db.err != nil {
		return lead.Query{}, repo.db.err
	}
	qry.ID = repo.db.nextID()
	repo.db.queries = append(repo.db.queries, qry)
	return qry, nil
}

func (repo *queryRepository) RecentQueries(_ context.Context, limit int) ([]lead.Query, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	if repo.db.err != nil {
		return nil, repo.db.err
	}
	// stored in insertion order; return newest first
	queries := make([]lead.Query, 0, limit)
	for i := len(repo.db.queries) - 1; i >= 0 && len(queries) < limit; i-- {
		queries = append(queries, repo.db.queries[i])
	}
	return queries, nil
}
