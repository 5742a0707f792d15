package inmemdb

import (
	"context"
	"time"

	"github.com/projectzone/backend/core/user"
)

type userRepository struct {
	db *DB
}

var _ user.Repository = (*userRepository)(nil)

func NewUserRepository(db *DB) *userRepository {
	return &userRepository{db: db}
}

func (repo *userRepository) GetUserByUsername(_ context.Context, username string) (user.User, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	if repo.db.err != nil {
		return user.User{}, repo.db.err
	}
	if usr, ok := repo.db.users[username]; ok {
		return usr, nil
	}
	return user.User{}, user.ErrNotFound
}

func (repo *userRepository) CreateUser(_ context.Context, usr user.User) (user.User, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	if repo.db.err != nil {
		return user.User{}, repo.db.err
	}
	usr.ID = repo.db.nextID()
	if usr.CreatedAt.IsZero() {
		usr.CreatedAt = time.Now().UTC()
	}
	repo.db.users[usr.Username] = usr
	return usr, nil
}

func (repo *userRepository) UpdateOrCreateUser(_ context.Context, usr user.User) (user.User, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	if repo.db.err != nil {
		return user.User{}, repo.db.err
	}
	if existing, ok := repo.db.users[usr.Username]; ok {
		existing.PasswordHash = usr.PasswordHash
		repo.db.users[usr.Username] = existing
		return existing, nil
	}
	usr.ID = repo.db.nextID()
	if usr.CreatedAt.IsZero() {
		usr.CreatedAt = time.Now().UTC()
	}
	repo.db.users[usr.Username] = usr
	return usr, nil
}
