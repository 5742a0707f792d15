package lead_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/projectzone/backend/core"
	"github.com/projectzone/backend/core/feed"
	"github.com/projectzone/backend/core/lead"
	emailsvc "github.com/projectzone/backend/services/email"
	inmemdb "github.com/projectzone/backend/storage/database/inmem"
)

func newValidate(t *testing.T) *validator.Validate {
	t.Helper()

	enLocale := en.New()
	translator, _ := ut.New(enLocale, enLocale).GetTranslator("en")
	validate := validator.New()
	core.InitValidators(validate, translator)
	lead.InitValidators(validate, translator)
	return validate
}

func setup(t *testing.T) (*lead.Service, *inmemdb.DB, *validator.Validate) {
	t.Helper()

	db, err := inmemdb.Open()
	if err != nil {
		t.Fatalf("inmemdb.Open() failed: %v", err)
	}
	conf := core.NewConfig()
	svc := lead.NewService(
		inmemdb.NewQueryRepository(db),
		emailsvc.NewConsoleServiceMock(conf),
		conf,
		feed.New(),
	)
	return svc, db, newValidate(t)
}

func fillStep(t *testing.T, frm *lead.Form, fields map[string]string) {
	t.Helper()
	for name, val := range fields {
		if err := frm.UpdateField(name, val); err != nil {
			t.Fatalf("UpdateField(%s) failed: %v", name, err)
		}
	}
}

var (
	step1Fields = map[string]string{"project_type": "Assignment", "education_level": "University/Bachelor's"}
	step2Fields = map[string]string{"field_of_study": "Computer Science", "deadline": "1-2 weeks"}
	step3Fields = map[string]string{"name": "Ali", "email": "a@x.com"}
)

func TestForm_stepGating(t *testing.T) {
	tests := []struct {
		name   string
		fields map[string]string
		want   bool
	}{
		{name: "step 1: empty", fields: nil, want: false},
		{name: "step 1: project type only", fields: map[string]string{"project_type": "Assignment"}, want: false},
		{name: "step 1: education level only", fields: map[string]string{"education_level": "PhD"}, want: false},
		{name: "step 1: complete", fields: step1Fields, want: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			frm := lead.NewForm()
			fillStep(t, frm, tt.fields)
			if got := frm.CanAdvance(); got != tt.want {
				t.Errorf("CanAdvance() = %v, want %v", got, tt.want)
			}
		})
	}

	t.Run("step 2 requires field of study and deadline", func(t *testing.T) {
		frm := lead.NewForm()
		fillStep(t, frm, step1Fields)
		frm.Advance()
		if frm.CanAdvance() {
			t.Error("CanAdvance() = true on empty step 2")
		}
		fillStep(t, frm, map[string]string{"field_of_study": "Other"})
		if frm.CanAdvance() {
			t.Error("CanAdvance() = true without deadline")
		}
		fillStep(t, frm, map[string]string{"deadline": "1-2 weeks"})
		if !frm.CanAdvance() {
			t.Error("CanAdvance() = false on complete step 2")
		}
	})

	t.Run("step 3 requires name and email", func(t *testing.T) {
		frm := lead.NewForm()
		fillStep(t, frm, step1Fields)
		frm.Advance()
		fillStep(t, frm, step2Fields)
		frm.Advance()
		if frm.CanAdvance() {
			t.Error("CanAdvance() = true on empty step 3")
		}
		fillStep(t, frm, step3Fields)
		if !frm.CanAdvance() {
			t.Error("CanAdvance() = false on complete step 3")
		}
	})

	t.Run("step 4 always passes", func(t *testing.T) {
		frm := lead.NewForm()
		fillStep(t, frm, step1Fields)
		frm.Advance()
		fillStep(t, frm, step2Fields)
		frm.Advance()
		fillStep(t, frm, step3Fields)
		frm.Advance()
		if got := frm.State().Step; got != 4 {
			t.Fatalf("Step = %d, want 4", got)
		}
		if !frm.CanAdvance() {
			t.Error("CanAdvance() = false on step 4")
		}
	})
}

func TestForm_AdvanceRetreat(t *testing.T) {
	frm := lead.NewForm()

	// cannot advance past an incomplete step
	if frm.Advance() {
		t.Error("Advance() succeeded on incomplete step 1")
	}

	fillStep(t, frm, step1Fields)
	fillStep(t, frm, step2Fields)
	fillStep(t, frm, step3Fields)
	for i := 0; i < 3; i++ {
		if !frm.Advance() {
			t.Fatalf("Advance() failed at step %d", frm.State().Step)
		}
	}

	// step is capped at the last one
	if frm.Advance() {
		t.Error("Advance() succeeded past the last step")
	}
	if got := frm.State().Step; got != 4 {
		t.Errorf("Step = %d, want 4", got)
	}

	// retreat never goes below the first step
	for i := 0; i < 5; i++ {
		frm.Retreat()
	}
	if got := frm.State().Step; got != 1 {
		t.Errorf("Step = %d, want 1", got)
	}
}

func TestForm_UpdateField(t *testing.T) {
	frm := lead.NewForm()

	if err := frm.UpdateField("lol", "x"); err == nil {
		t.Error("UpdateField() accepted an unknown field")
	}
	if err := frm.UpdateField("message", "hello"); err != nil {
		t.Errorf("UpdateField() failed: %v", err)
	}
	if got := frm.State().Fields.Message; got != "hello" {
		t.Errorf("Message = %q, want %q", got, "hello")
	}
}

func TestForm_Submit(t *testing.T) {
	svc, db, validate := setup(t)
	ctx := context.Background()

	fill := func(frm *lead.Form) {
		fillStep(t, frm, step1Fields)
		fillStep(t, frm, step2Fields)
		fillStep(t, frm, step3Fields)
		for frm.State().Step < lead.MaxStep {
			if !frm.Advance() {
				t.Fatalf("Advance() failed at step %d", frm.State().Step)
			}
		}
	}

	t.Run("success resets and closes", func(t *testing.T) {
		frm := lead.NewForm()
		fill(frm)

		res, err := frm.Submit(ctx, svc, validate)
		if err != nil {
			t.Fatalf("Submit() failed: %v", err)
		}
		if res.Query.ID == 0 {
			t.Error("Query.ID not assigned")
		}
		if res.Query.Status != lead.StatusNew {
			t.Errorf("Status = %q, want %q", res.Query.Status, lead.StatusNew)
		}
		if !strings.Contains(res.WhatsAppURL, "wa.me/923138372573") {
			t.Errorf("WhatsAppURL = %q, want wa.me link", res.WhatsAppURL)
		}

		state := frm.State()
		if !state.Closed {
			t.Error("form not closed after submission")
		}
		if state.Step != 1 {
			t.Errorf("Step = %d, want 1", state.Step)
		}
		if state.Fields != (lead.Fields{}) {
			t.Errorf("Fields = %+v, want blank", state.Fields)
		}
		if state.Submitting {
			t.Error("Submitting flag left set")
		}
	})

	t.Run("only the final step can submit", func(t *testing.T) {
		frm := lead.NewForm()
		// all fields set, but the session never advanced past step 1
		fillStep(t, frm, step1Fields)
		fillStep(t, frm, step2Fields)
		fillStep(t, frm, step3Fields)

		if _, err := frm.Submit(ctx, svc, validate); err != lead.ErrStepIncomplete {
			t.Fatalf("Submit() error = %v, want %v", err, lead.ErrStepIncomplete)
		}
		state := frm.State()
		if state.Closed {
			t.Error("form closed by a rejected submission")
		}
		if state.Step != 1 {
			t.Errorf("Step = %d, want 1", state.Step)
		}
		if state.Fields.Name != "Ali" {
			t.Error("fields wiped by a rejected submission")
		}

		// advancing through the steps makes the same session submittable
		for i := 0; i < 3; i++ {
			if !frm.Advance() {
				t.Fatalf("Advance() failed at step %d", frm.State().Step)
			}
		}
		if _, err := frm.Submit(ctx, svc, validate); err != nil {
			t.Errorf("Submit() from the final step failed: %v", err)
		}
	})

	t.Run("closed form rejects further submissions", func(t *testing.T) {
		frm := lead.NewForm()
		fill(frm)
		if _, err := frm.Submit(ctx, svc, validate); err != nil {
			t.Fatalf("Submit() failed: %v", err)
		}
		if _, err := frm.Submit(ctx, svc, validate); err != lead.ErrFormClosed {
			t.Errorf("Submit() error = %v, want %v", err, lead.ErrFormClosed)
		}
		if err := frm.UpdateField("name", "X"); err != lead.ErrFormClosed {
			t.Errorf("UpdateField() error = %v, want %v", err, lead.ErrFormClosed)
		}
	})

	t.Run("validation failure keeps data", func(t *testing.T) {
		frm := lead.NewForm()
		fill(frm)
		// gating only checks presence, so an unknown choice reaches validation
		if err := frm.UpdateField("project_type", "Thesis"); err != nil {
			t.Fatalf("UpdateField() failed: %v", err)
		}
		if _, err := frm.Submit(ctx, svc, validate); err == nil {
			t.Fatal("Submit() succeeded with an unknown project type")
		}
		state := frm.State()
		if state.Closed {
			t.Error("form closed after failed submission")
		}
		if state.Fields.ProjectType != "Thesis" {
			t.Error("fields wiped after failed submission")
		}
		if state.Submitting {
			t.Error("Submitting flag left set")
		}
	})

	t.Run("persistence failure keeps data and allows retry", func(t *testing.T) {
		frm := lead.NewForm()
		fill(frm)

		db.SetErr(errors.New("injected failure"))
		if _, err := frm.Submit(ctx, svc, validate); err == nil {
			t.Fatal("Submit() succeeded despite repository failure")
		}
		state := frm.State()
		if state.Closed {
			t.Error("form closed after failed submission")
		}
		if state.Fields.Name != "Ali" {
			t.Error("fields wiped after failed submission")
		}

		db.SetErr(nil)
		if _, err := frm.Submit(ctx, svc, validate); err != nil {
			t.Errorf("retry Submit() failed: %v", err)
		}
	})
}

func TestFormStore(t *testing.T) {
	store := lead.NewFormStore()

	frm := store.Open()
	if store.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", store.Len())
	}
	got, ok := store.Get(frm.ID())
	if !ok || got != frm {
		t.Error("Get() did not return the open form")
	}
	if _, ok = store.Get("lol"); ok {
		t.Error("Get() found an unknown id")
	}

	store.Remove(frm.ID())
	if store.Len() != 0 {
		t.Errorf("Len() = %d, want 0", store.Len())
	}

	// closed sessions are pruned regardless of age
	svc, _, validate := setup(t)
	frm = store.Open()
	fillStep(t, frm, step1Fields)
	fillStep(t, frm, step2Fields)
	fillStep(t, frm, step3Fields)
	for i := 0; i < 3; i++ {
		if !frm.Advance() {
			t.Fatalf("Advance() failed at step %d", frm.State().Step)
		}
	}
	if _, err := frm.Submit(context.Background(), svc, validate); err != nil {
		t.Fatalf("Submit() failed: %v", err)
	}
	fresh := store.Open()
	if pruned := store.Prune(time.Hour); pruned != 1 {
		t.Errorf("Prune() = %d, want 1", pruned)
	}
	if _, ok = store.Get(fresh.ID()); !ok {
		t.Error("Prune() dropped a fresh open session")
	}
}
