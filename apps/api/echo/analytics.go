package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/projectzone/backend/core/analytics"
)

type trackApi struct {
	svc      *analytics.Service
	validate *validator.Validate
}

func registerTrackAPI(g *echo.Group, svc *analytics.Service, validate *validator.Validate) {
	api := trackApi{svc: svc, validate: validate}

	tg := g.Group("/track")
	tg.POST("/visitors", api.visit)
	tg.POST("/whatsapp-clicks", api.click)
}

type clickResponse struct {
	Click       analytics.Click `json:"click"`
	WhatsAppURL string          `json:"whatsapp_url"`
}

// Handlers

func (api *trackApi) visit(ctx echo.Context) error {
	var data analytics.NewVisitor
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewVisitor")
	}
	if data.UserAgent == "" {
		data.UserAgent = ctx.Request().UserAgent()
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	vis, err := api.svc.TrackVisit(ctx.Request().Context(), data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, vis)
}

func (api *trackApi) click(ctx echo.Context) error {
	var data analytics.NewClick
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewClick")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	clk, err := api.svc.TrackClick(ctx.Request().Context(), data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, clickResponse{
		Click:       clk,
		WhatsAppURL: api.svc.DefaultWhatsAppLink(),
	})
}
