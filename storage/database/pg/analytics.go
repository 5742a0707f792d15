package pgrepos

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/projectzone/backend/core/analytics"
)

type analyticsRepository struct {
	db *sqlx.DB
}

var _ analytics.Repository = (*analyticsRepository)(nil)

func NewAnalyticsRepository(db *sqlx.DB) *analyticsRepository {
	return &analyticsRepository{db: db}
}

type visitorRow struct {
	ID        int            `db:"id"`
	PagePath  string         `db:"page_path"`
	Referrer  sql.NullString `db:"referrer"`
	UserAgent string         `db:"user_agent"`
	CreatedAt time.Time      `db:"created_at"`
}

func (r visitorRow) toVisitor() analytics.Visitor {
	return analytics.Visitor{
		ID:        r.ID,
		PagePath:  r.PagePath,
		Referrer:  r.Referrer.String,
		UserAgent: r.UserAgent,
		CreatedAt: r.CreatedAt.UTC(),
	}
}

func (repo *analyticsRepository) CreateVisitor(ctx context.Context, vis analytics.Visitor) (analytics.Visitor, error) {
	const q = `
		INSERT INTO visitors (page_path, referrer, user_agent, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`

	row := repo.db.QueryRowContext(ctx, q, vis.PagePath, nullString(vis.Referrer), vis.UserAgent, vis.CreatedAt)
	if err := row.Scan(&vis.ID, &vis.CreatedAt); err != nil {
		return analytics.Visitor{}, errors.Wrap(err, "inserting visitor")
	}
	vis.CreatedAt = vis.CreatedAt.UTC()
	return vis, nil
}

func (repo *analyticsRepository) CreateClick(ctx context.Context, clk analytics.Click) (analytics.Click, error) {
	const q = `
		INSERT INTO whatsapp_clicks (button_location, page_path, created_at)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`

	row := repo.db.QueryRowContext(ctx, q, clk.ButtonLocation, clk.PagePath, clk.CreatedAt)
	if err := row.Scan(&clk.ID, &clk.CreatedAt); err != nil {
		return analytics.Click{}, errors.Wrap(err, "inserting whatsapp click")
	}
	clk.CreatedAt = clk.CreatedAt.UTC()
	return clk, nil
}

func (repo *analyticsRepository) RecentVisitors(ctx context.Context, limit int) ([]analytics.Visitor, error) {
	const q = `
		SELECT id, page_path, referrer, user_agent, created_at
		FROM visitors
		ORDER BY created_at DESC
		LIMIT $1`

	var rows []visitorRow
	if err := repo.db.SelectContext(ctx, &rows, q, limit); err != nil {
		return nil, errors.Wrap(err, "selecting visitors")
	}
	visitors := make([]analytics.Visitor, 0, len(rows))
	for _, row := range rows {
		visitors = append(visitors, row.toVisitor())
	}
	return visitors, nil
}

func (repo *analyticsRepository) RecentClicks(ctx context.Context, limit int) ([]analytics.Click, error) {
	const q = `
		SELECT id, button_location, page_path, created_at
		FROM whatsapp_clicks
		ORDER BY created_at DESC
		LIMIT $1`

	var clicks []analytics.Click
	rows, err := repo.db.QueryxContext(ctx, q, limit)
	if err != nil {
		return nil, errors.Wrap(err, "selecting whatsapp clicks")
	}
	defer func() { _ = rows.Close() }()
	for rows.Next() {
		var clk analytics.Click
		if err = rows.Scan(&clk.ID, &clk.ButtonLocation, &clk.PagePath, &clk.CreatedAt); err != nil {
			return nil, errors.Wrap(err, "scanning whatsapp click")
		}
		clk.CreatedAt = clk.CreatedAt.UTC()
		clicks = append(clicks, clk)
	}
	if err = rows.Err(); err != nil {
		return nil, errors.Wrap(err, "selecting whatsapp clicks")
	}
	return clicks, nil
}
