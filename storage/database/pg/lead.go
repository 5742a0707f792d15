package pgrepos

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/projectzone/backend/core/lead"
)

type queryRepository struct {
	db *sqlx.DB
}

var _ lead.Repository = (*queryRepository)(nil)

func NewQueryRepository(db *sqlx.DB) *queryRepository {
	return &queryRepository{db: db}
}

// queryRow mirrors the contact_queries table; optional columns are NULLable.
type queryRow struct {
	ID             int            `db:"id"`
	Name           string         `db:"name"`
	Email          string         `db:"email"`
	Phone          sql.NullString `db:"phone"`
	ProjectType    string         `db:"project_type"`
	EducationLevel string         `db:"education_level"`
	FieldOfStudy   sql.NullString `db:"field_of_study"`
	Deadline       sql.NullString `db:"deadline"`
	Message        sql.NullString `db:"message"`
	Status         string         `db:"status"`
	CreatedAt      time.Time      `db:"created_at"`
}

func (r queryRow) toQuery() lead.Query {
	return lead.Query{
		ID:             r.ID,
		Name:           r.Name,
		Email:          r.Email,
		Phone:          r.Phone.String,
		ProjectType:    r.ProjectType,
		EducationLevel: r.EducationLevel,
		FieldOfStudy:   r.FieldOfStudy.String,
		Deadline:       r.Deadline.String,
		Message:        r.Message.String,
		Status:         r.Status,
		CreatedAt:      r.CreatedAt.UTC(),
	}
}

func (repo *queryRepository) CreateQuery(ctx context.Context, qry lead.Query) (lead.Query, error) {
	const q = `
		INSERT INTO contact_queries
			(name, email, phone, project_type, education_level, field_of_study, deadline, message, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at`

	row := repo.db.QueryRowContext(ctx, q,
		qry.Name,
		qry.Email,
		nullString(qry.Phone),
		qry.ProjectType,
		qry.EducationLevel,
		nullString(qry.FieldOfStudy),
		nullString(qry.Deadline),
		nullString(qry.Message),
		qry.Status,
		qry.CreatedAt,
	)
	if err := row.Scan(&qry.ID, &qry.CreatedAt); err != nil {
		return lead.Query{}, errors.Wrap(err, "inserting contact query")
	}
	qry.CreatedAt = qry.CreatedAt.UTC()
	return qry, nil
}

func (repo *queryRepository) RecentQueries(ctx context.Context, limit int) ([]lead.Query, error) {
	const q = `
		SELECT id, name, email, phone, project_type, education_level, field_of_study, deadline, message, status, created_at
		FROM contact_queries
		ORDER BY created_at DESC
		LIMIT $1`

	var rows []queryRow
	if err := repo.db.SelectContext(ctx, &rows, q, limit); err != nil {
		return nil, errors.Wrap(err, "selecting contact queries")
	}
	queries := make([]lead.Query, 0, len(rows))
	for _, row := range rows {
		queries = append(queries, row.toQuery())
	}
	return queries, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
