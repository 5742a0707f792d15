package main

import (
	"context"
	"time"

	"github.com/projectzone/backend/core"
	"github.com/projectzone/backend/core/user"
)

// addAdmin updates or creates a dashboard admin account. The password is
// stored as-is in password_hash; the login compares it verbatim.
func (cli *commandLine) addAdmin(uname, pwd string) error {
	usr := user.User{
		Username:     core.CleanString(uname, true /* lower */),
		PasswordHash: pwd,
		CreatedAt:    time.Now().UTC(),
	}
	if _, err := cli.usrRepo.UpdateOrCreateUser(context.Background(), usr); err != nil {
		return err
	}
	return nil
}
