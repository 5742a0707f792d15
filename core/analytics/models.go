package analytics

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/projectzone/backend/core"
)

// Visitor is one page load. Append-only; never mutated after creation.
type Visitor struct {
	ID        int       `json:"id"`
	PagePath  string    `json:"page_path"`
	Referrer  string    `json:"referrer,omitempty"`
	UserAgent string    `json:"user_agent"`
	CreatedAt time.Time `json:"created_at"` // UTC
}

// Click is one press of a WhatsApp affordance, tagged with its location
// on the page. Append-only.
type Click struct {
	ID             int       `json:"id"`
	ButtonLocation string    `json:"button_location"`
	PagePath       string    `json:"page_path"`
	CreatedAt      time.Time `json:"created_at"` // UTC
}

type NewVisitor struct {
	PagePath  string `json:"page_path" validate:"required"`
	Referrer  string `json:"referrer"`
	UserAgent string `json:"user_agent"`
}

func (nv *NewVisitor) Validate(validate *validator.Validate) error {
	nv.PagePath = core.CleanString(nv.PagePath)
	nv.Referrer = core.CleanString(nv.Referrer)
	return validate.Struct(nv)
}

type NewClick struct {
	ButtonLocation string `json:"button_location" validate:"required"`
	PagePath       string `json:"page_path" validate:"required"`
}

func (nc *NewClick) Validate(validate *validator.Validate) error {
	nc.ButtonLocation = core.CleanString(nc.ButtonLocation)
	nc.PagePath = core.CleanString(nc.PagePath)
	return validate.Struct(nc)
}
