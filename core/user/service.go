package user

import (
	"context"

	"github.com/pkg/errors"

	"github.com/projectzone/backend/core"
)

var (
	ErrNotFound = errors.New("user not found")
	// ErrAuthenticationFailed covers both unknown credentials and lookup
	// errors; the caller sees one generic denial either way.
	ErrAuthenticationFailed = errors.New("authentication failed")
)

type (
	Repository interface {
		GetUserByUsername(ctx context.Context, username string) (User, error)
		CreateUser(ctx context.Context, usr User) (User, error)
		UpdateOrCreateUser(ctx context.Context, usr User) (User, error)
	}

	Service struct {
		repo   Repository
		logger core.Logger
	}
)

func NewService(repo Repository, logger core.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// Authenticate looks up the account by exact username and compares the
// stored password_hash verbatim against the provided secret.
func (svc *Service) Authenticate(ctx context.Context, username, password string) (User, error) {
	usr, err := svc.repo.GetUserByUsername(ctx, core.CleanString(username, true /* lower */))
	if err != nil {
		if err != ErrNotFound {
			svc.logger.Error("looking up admin user", err)
		}
		return User{}, ErrAuthenticationFailed
	}
	if usr.PasswordHash != password {
		return User{}, ErrAuthenticationFailed
	}
	return usr, nil
}

func (svc *Service) GetByUsername(ctx context.Context, username string) (User, error) {
	return svc.repo.GetUserByUsername(ctx, core.CleanString(username, true /* lower */))
}
