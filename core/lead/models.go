package lead

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/projectzone/backend/core"
)

// Query statuses
const (
	StatusNew = "new"
)

var (
	ProjectTypes = []string{
		"Final Year Project",
		"Semester Project",
		"Assignment",
		"Research Paper",
		"IEEE/Conference Paper",
		"Code + Documentation",
		"Report Writing",
		"Viva Preparation",
	}

	EducationLevels = []string{
		"University/Bachelor's",
		"Master's",
		"PhD",
	}

	FieldsOfStudy = []string{
		"Computer Science",
		"Software Engineering",
		"Information Technology",
		"Artificial Intelligence",
		"Data Science",
		"Electronics",
		"Other",
	}

	DeadlineOptions = []string{
		"Less than 1 week",
		"1-2 weeks",
		"2-4 weeks",
		"1-2 months",
		"More than 2 months",
	}
)

// Query is a prospective client's submitted consultation request.
// Optional fields are empty strings in memory and NULLs at rest.
type Query struct {
	ID             int       `json:"id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	Phone          string    `json:"phone,omitempty"`
	ProjectType    string    `json:"project_type"`
	EducationLevel string    `json:"education_level"`
	FieldOfStudy   string    `json:"field_of_study,omitempty"`
	Deadline       string    `json:"deadline,omitempty"`
	Message        string    `json:"message,omitempty"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"created_at"` // UTC
}

// NewQuery contains information needed to submit a new Query.
// Only name, email, project_type and education_level are required.
type NewQuery struct {
	Name           string `json:"name" validate:"required"`
	Email          string `json:"email" validate:"required"`
	Phone          string `json:"phone"`
	ProjectType    string `json:"project_type" validate:"required,projecttype"`
	EducationLevel string `json:"education_level" validate:"required,educationlevel"`
	FieldOfStudy   string `json:"field_of_study" validate:"fieldofstudy"`
	Deadline       string `json:"deadline" validate:"deadlineoption"`
	Message        string `json:"message"`
}

func (nq *NewQuery) Validate(validate *validator.Validate) error {
	nq.Name = core.CleanString(nq.Name)
	nq.Email = core.CleanString(nq.Email, true /* lower */)
	nq.Phone = core.CleanString(nq.Phone)
	nq.Message = core.CleanString(nq.Message)
	return validate.Struct(nq)
}
