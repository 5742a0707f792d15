package user

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/projectzone/backend/core"
)

// User is a dashboard admin account. PasswordHash is stored and compared
// verbatim; this is the acknowledged placeholder mechanism inherited from
// the original client, not a security control.
type User struct {
	ID           int       `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"` // UTC
}

// Credentials is the login request payload.
type Credentials struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

func (c *Credentials) Validate(validate *validator.Validate) error {
	c.Username = core.CleanString(c.Username, true /* lower */)
	return validate.Struct(c)
}
