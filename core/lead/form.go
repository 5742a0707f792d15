package lead

import (
	"context"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

const (
	minStep = 1
	// MaxStep is the final step; it is the only one a form can be
	// submitted from.
	MaxStep = 4
)

var (
	ErrSubmitInProgress = errors.New("a submission is already in progress")
	ErrFormClosed       = errors.New("form already submitted")
	ErrUnknownField     = errors.New("unknown form field")
	ErrStepIncomplete   = errors.New("current step is incomplete")
)

// Fields holds the form data as the user fills it in. Blank means not
// provided yet.
type Fields struct {
	Name           string `json:"name"`
	Email          string `json:"email"`
	Phone          string `json:"phone"`
	ProjectType    string `json:"project_type"`
	EducationLevel string `json:"education_level"`
	FieldOfStudy   string `json:"field_of_study"`
	Deadline       string `json:"deadline"`
	Message        string `json:"message"`
}

func (f Fields) newQuery() NewQuery {
	return NewQuery{
		Name:           f.Name,
		Email:          f.Email,
		Phone:          f.Phone,
		ProjectType:    f.ProjectType,
		EducationLevel: f.EducationLevel,
		FieldOfStudy:   f.FieldOfStudy,
		Deadline:       f.Deadline,
		Message:        f.Message,
	}
}

type (
	// Form is the multi-step lead capture state machine: 4 steps, each
	// gated on its own required fields, submitted once from the last step.
	Form struct {
		mu         sync.Mutex
		id         string
		fields     Fields
		step       int
		submitting bool
		closed     bool
		createdAt  time.Time
	}

	// FormState is a point-in-time snapshot of a Form.
	FormState struct {
		ID         string `json:"id"`
		Step       int    `json:"step"`
		Fields     Fields `json:"fields"`
		CanAdvance bool   `json:"can_advance"`
		Submitting bool   `json:"submitting"`
		Closed     bool   `json:"closed"`
	}

	// SubmitResult is returned on successful submission.
	SubmitResult struct {
		Query       Query  `json:"query"`
		WhatsAppURL string `json:"whatsapp_url"`
	}
)

func NewForm() *Form {
	return &Form{
		id:        uuid.New().String(),
		step:      minStep,
		createdAt: time.Now().UTC(),
	}
}

func (f *Form) ID() string { return f.id }

// UpdateField sets a single field by its JSON name. It never validates;
// gating happens in CanAdvance.
func (f *Form) UpdateField(name, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return ErrFormClosed
	}
	switch name {
	case "name":
		f.fields.Name = value
	case "email":
		f.fields.Email = value
	case "phone":
		f.fields.Phone = value
	case "project_type":
		f.fields.ProjectType = value
	case "education_level":
		f.fields.EducationLevel = value
	case "field_of_study":
		f.fields.FieldOfStudy = value
	case "deadline":
		f.fields.Deadline = value
	case "message":
		f.fields.Message = value
	default:
		return errors.Wrap(ErrUnknownField, name)
	}
	return nil
}

// CanAdvance reports whether the current step's required fields are all
// populated. The last step has no requirements of its own.
func (f *Form) CanAdvance() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.canAdvance()
}

func (f *Form) canAdvance() bool {
	switch f.step {
	case 1:
		return f.fields.ProjectType != "" && f.fields.EducationLevel != ""
	case 2:
		return f.fields.FieldOfStudy != "" && f.fields.Deadline != ""
	case 3:
		return f.fields.Name != "" && f.fields.Email != ""
	case 4:
		return true
	}
	return false
}

// Advance moves to the next step if the current one is complete.
// It reports whether the step changed; the step never exceeds the last one.
func (f *Form) Advance() bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed || f.step >= MaxStep || !f.canAdvance() {
		return false
	}
	f.step++
	return true
}

// Retreat moves back one step, never below the first.
func (f *Form) Retreat() {
	f.mu.Lock()
	defer f.mu.Unlock()

	if !f.closed && f.step > minStep {
		f.step--
	}
}

func (f *Form) State() FormState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return FormState{
		ID:         f.id,
		Step:       f.step,
		Fields:     f.fields,
		CanAdvance: f.canAdvance(),
		Submitting: f.submitting,
		Closed:     f.closed,
	}
}

// Submit persists the aggregated fields through svc. Only the final step
// can be submitted; earlier steps are rejected regardless of what fields
// have been set. On success the form resets (blank fields, step 1) and
// closes, and the WhatsApp deep link for the submitted query is returned.
// On failure fields and step are left untouched so the user can retry
// without re-entering data. Concurrent submissions are rejected while one
// is in flight; the in-flight flag is always cleared on completion.
func (f *Form) Submit(ctx context.Context, svc *Service, validate *validator.Validate) (SubmitResult, error) {
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return SubmitResult{}, ErrFormClosed
	}
	if f.step != MaxStep {
		f.mu.Unlock()
		return SubmitResult{}, ErrStepIncomplete
	}
	if f.submitting {
		f.mu.Unlock()
		return SubmitResult{}, ErrSubmitInProgress
	}
	f.submitting = true
	fields := f.fields
	f.mu.Unlock()

	defer func() {
		f.mu.Lock()
		f.submitting = false
		f.mu.Unlock()
	}()

	nq := fields.newQuery()
	if err := nq.Validate(validate); err != nil {
		return SubmitResult{}, err
	}
	qry, err := svc.Create(ctx, nq)
	if err != nil {
		return SubmitResult{}, err
	}

	f.mu.Lock()
	f.fields = Fields{}
	f.step = minStep
	f.closed = true
	f.mu.Unlock()

	return SubmitResult{Query: qry, WhatsAppURL: svc.WhatsAppLink(qry)}, nil
}
