package pgrepos

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/projectzone/backend/core/user"
)

type userRepository struct {
	db *sqlx.DB
}

var _ user.Repository = (*userRepository)(nil)

func NewUserRepository(db *sqlx.DB) *userRepository {
	return &userRepository{db: db}
}

func (repo *userRepository) GetUserByUsername(ctx context.Context, username string) (user.User, error) {
	const q = `
		SELECT id, username, password_hash, created_at
		FROM admin_users
		WHERE username = $1`

	var usr user.User
	row := repo.db.QueryRowContext(ctx, q, username)
	if err := row.Scan(&usr.ID, &usr.Username, &usr.PasswordHash, &usr.CreatedAt); err != nil {
		if err == sql.ErrNoRows {
			return user.User{}, user.ErrNotFound
		}
		return user.User{}, errors.Wrap(err, "selecting admin user")
	}
	usr.CreatedAt = usr.CreatedAt.UTC()
	return usr, nil
}

func (repo *userRepository) CreateUser(ctx context.Context, usr user.User) (user.User, error) {
	const q = `
		INSERT INTO admin_users (username, password_hash, created_at)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`

	row := repo.db.QueryRowContext(ctx, q, usr.Username, usr.PasswordHash, usr.CreatedAt)
	if err := row.Scan(&usr.ID, &usr.CreatedAt); err != nil {
		return user.User{}, errors.Wrap(err, "inserting admin user")
	}
	usr.CreatedAt = usr.CreatedAt.UTC()
	return usr, nil
}

func (repo *userRepository) UpdateOrCreateUser(ctx context.Context, usr user.User) (user.User, error) {
	const q = `
		INSERT INTO admin_users (username, password_hash, created_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (username) DO UPDATE SET password_hash = EXCLUDED.password_hash
		RETURNING id, created_at`

	row := repo.db.QueryRowContext(ctx, q, usr.Username, usr.PasswordHash, usr.CreatedAt)
	if err := row.Scan(&usr.ID, &usr.CreatedAt); err != nil {
		return user.User{}, errors.Wrap(err, "upserting admin user")
	}
	usr.CreatedAt = usr.CreatedAt.UTC()
	return usr, nil
}
