package lead_test

import (
	"testing"

	"github.com/projectzone/backend/core/lead"
)

func TestNewQuery_Validate(t *testing.T) {
	validate := newValidate(t)

	valid := lead.NewQuery{
		Name:           "Ali",
		Email:          "A@X.com ",
		ProjectType:    "Assignment",
		EducationLevel: "University/Bachelor's",
	}

	tests := []struct {
		name    string
		mutate  func(nq *lead.NewQuery)
		wantErr bool
	}{
		{name: "required fields only", mutate: func(nq *lead.NewQuery) {}},
		{name: "missing name", mutate: func(nq *lead.NewQuery) { nq.Name = "" }, wantErr: true},
		{name: "missing email", mutate: func(nq *lead.NewQuery) { nq.Email = "" }, wantErr: true},
		{name: "unknown project type", mutate: func(nq *lead.NewQuery) { nq.ProjectType = "Thesis" }, wantErr: true},
		{name: "unknown education level", mutate: func(nq *lead.NewQuery) { nq.EducationLevel = "College" }, wantErr: true},
		{name: "unknown field of study", mutate: func(nq *lead.NewQuery) { nq.FieldOfStudy = "Astrology" }, wantErr: true},
		{name: "unknown deadline", mutate: func(nq *lead.NewQuery) { nq.Deadline = "yesterday" }, wantErr: true},
		{name: "known optionals", mutate: func(nq *lead.NewQuery) {
			nq.FieldOfStudy = "Data Science"
			nq.Deadline = "More than 2 months"
			nq.Phone = "+92 300 1234567"
			nq.Message = "ASAP please"
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nq := valid
			tt.mutate(&nq)
			err := nq.Validate(validate)
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}

	t.Run("email is cleaned and lowered", func(t *testing.T) {
		nq := valid
		if err := nq.Validate(validate); err != nil {
			t.Fatalf("Validate() failed: %v", err)
		}
		if nq.Email != "a@x.com" {
			t.Errorf("Email = %q, want %q", nq.Email, "a@x.com")
		}
	})
}
