package user_test

import (
	"context"
	"errors"
	"io/ioutil"
	"log"
	"testing"
	"time"

	"github.com/projectzone/backend/core/user"
	logsvc "github.com/projectzone/backend/services/logger"
	inmemdb "github.com/projectzone/backend/storage/database/inmem"
)

func setup(t *testing.T) (*user.Service, *inmemdb.DB) {
	t.Helper()

	db, err := inmemdb.Open()
	if err != nil {
		t.Fatalf("inmemdb.Open() failed: %v", err)
	}
	logger := logsvc.NewStdLogger(log.New(ioutil.Discard, "", 0))
	return user.NewService(inmemdb.NewUserRepository(db), logger), db
}

func TestService_Authenticate(t *testing.T) {
	svc, db := setup(t)
	ctx := context.Background()

	usr := user.User{Username: "boss", PasswordHash: "sup3rs3cret", CreatedAt: time.Now().UTC()}
	if _, err := inmemdb.NewUserRepository(db).CreateUser(ctx, usr); err != nil {
		t.Fatalf("CreateUser() failed: %v", err)
	}

	tests := []struct {
		name     string
		username string
		password string
		injected error
		wantErr  error
	}{
		{name: "match", username: "boss", password: "sup3rs3cret"},
		{name: "username is case-insensitive", username: "BOSS", password: "sup3rs3cret"},
		{name: "wrong password", username: "boss", password: "lol", wantErr: user.ErrAuthenticationFailed},
		{name: "unknown user", username: "lol", password: "sup3rs3cret", wantErr: user.ErrAuthenticationFailed},
		{name: "lookup failure", username: "boss", password: "sup3rs3cret", injected: errors.New("db down"), wantErr: user.ErrAuthenticationFailed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db.SetErr(tt.injected)
			defer db.SetErr(nil)

			got, err := svc.Authenticate(ctx, tt.username, tt.password)
			if err != tt.wantErr {
				t.Fatalf("Authenticate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && got.Username != "boss" {
				t.Errorf("Username = %q, want %q", got.Username, "boss")
			}
		})
	}
}

func TestService_GetByUsername(t *testing.T) {
	svc, db := setup(t)
	ctx := context.Background()

	if _, err := svc.GetByUsername(ctx, "lol"); err != user.ErrNotFound {
		t.Errorf("GetByUsername() error = %v, want %v", err, user.ErrNotFound)
	}

	usr := user.User{Username: "boss", PasswordHash: "x"}
	if _, err := inmemdb.NewUserRepository(db).CreateUser(ctx, usr); err != nil {
		t.Fatalf("CreateUser() failed: %v", err)
	}
	got, err := svc.GetByUsername(ctx, "Boss")
	if err != nil {
		t.Fatalf("GetByUsername() failed: %v", err)
	}
	if got.Username != "boss" {
		t.Errorf("Username = %q, want %q", got.Username, "boss")
	}
}
