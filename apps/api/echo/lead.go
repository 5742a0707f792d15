package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/projectzone/backend/core/lead"
)

type queryApi struct {
	svc      *lead.Service
	forms    *lead.FormStore
	validate *validator.Validate
}

func registerQueryAPI(g *echo.Group, svc *lead.Service, forms *lead.FormStore, validate *validator.Validate) {
	api := queryApi{
		svc:      svc,
		forms:    forms,
		validate: validate,
	}

	qg := g.Group("/queries")
	qg.POST("", api.create)

	// multi-step form sessions
	fg := qg.Group("/form")
	fg.POST("", api.formOpen)
	fg.GET("/:id", api.formRetrieve)
	fg.PATCH("/:id", api.formUpdate)
	fg.POST("/:id/advance", api.formAdvance)
	fg.POST("/:id/retreat", api.formRetreat)
	fg.POST("/:id/submit", api.formSubmit)
}

type (
	fieldUpdate struct {
		Field string `json:"field" validate:"required"`
		Value string `json:"value"`
	}

	submitResponse struct {
		Query       lead.Query `json:"query"`
		WhatsAppURL string     `json:"whatsapp_url"`
	}
)

// Handlers

// create accepts a complete query in one shot, bypassing the step machine.
func (api *queryApi) create(ctx echo.Context) error {
	var data lead.NewQuery
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewQuery")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	qry, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusCreated, submitResponse{
		Query:       qry,
		WhatsAppURL: api.svc.WhatsAppLink(qry),
	})
}

func (api *queryApi) formOpen(ctx echo.Context) error {
	frm := api.forms.Open()
	return ctx.JSON(http.StatusCreated, frm.State())
}

func (api *queryApi) formRetrieve(ctx echo.Context) error {
	frm, err := api.contextForm(ctx)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, frm.State())
}

func (api *queryApi) formUpdate(ctx echo.Context) error {
	frm, err := api.contextForm(ctx)
	if err != nil {
		return err
	}

	var data fieldUpdate
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to fieldUpdate")
	}
	if err = api.validate.Struct(&data); err != nil {
		return err
	}

	if err = frm.UpdateField(data.Field, data.Value); err != nil {
		switch errors.Cause(err) {
		case lead.ErrUnknownField:
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		case lead.ErrFormClosed:
			return errHttpConflict
		}
		return err
	}
	return ctx.JSON(http.StatusOK, frm.State())
}

func (api *queryApi) formAdvance(ctx echo.Context) error {
	frm, err := api.contextForm(ctx)
	if err != nil {
		return err
	}
	if !frm.Advance() {
		st := frm.State()
		if st.Closed {
			return errHttpConflict
		}
		if st.Step == lead.MaxStep {
			// already on the last step; nothing to do
			return ctx.JSON(http.StatusOK, st)
		}
		return echo.NewHTTPError(http.StatusBadRequest, lead.ErrStepIncomplete.Error())
	}
	return ctx.JSON(http.StatusOK, frm.State())
}

func (api *queryApi) formRetreat(ctx echo.Context) error {
	frm, err := api.contextForm(ctx)
	if err != nil {
		return err
	}
	frm.Retreat()
	return ctx.JSON(http.StatusOK, frm.State())
}

func (api *queryApi) formSubmit(ctx echo.Context) error {
	frm, err := api.contextForm(ctx)
	if err != nil {
		return err
	}

	res, err := frm.Submit(ctx.Request().Context(), api.svc, api.validate)
	if err != nil {
		switch errors.Cause(err) {
		case lead.ErrSubmitInProgress, lead.ErrFormClosed:
			return errHttpConflict
		case lead.ErrStepIncomplete:
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		// persistence failures bubble up as retryable server errors;
		// the form keeps its data
		return err
	}

	api.forms.Remove(frm.ID())
	return ctx.JSON(http.StatusOK, submitResponse(res))
}

func (api *queryApi) contextForm(ctx echo.Context) (*lead.Form, error) {
	frm, ok := api.forms.Get(ctx.Param("id"))
	if !ok {
		return nil, errHttpNotFound
	}
	return frm, nil
}
