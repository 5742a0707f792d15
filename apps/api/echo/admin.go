package echoapi

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/projectzone/backend/core/analytics"
	"github.com/projectzone/backend/core/feed"
	"github.com/projectzone/backend/core/user"
)

type adminApi struct {
	auth      *auth
	svc       *user.Service
	dashboard *analytics.Dashboard
	bus       *feed.Feed
	validate  *validator.Validate
}

func registerAdminAPI(g *echo.Group, jwt echo.MiddlewareFunc, a *auth, d *ServerDeps) {
	api := adminApi{
		auth:      a,
		svc:       d.UserSvc,
		dashboard: d.Dashboard,
		bus:       d.Bus,
		validate:  d.Validate,
	}

	ag := g.Group("/admin")

	// un-authed endpoints
	ag.POST("/login", api.login)

	// authed endpoints
	tg := ag.Group("", jwt, adminMiddleware())
	tg.POST("/token-refresh", api.refreshToken)
	tg.GET("/dashboard", api.dashboardSnapshot)
	tg.POST("/dashboard/refresh", api.dashboardRefresh)
	tg.GET("/dashboard/stream", api.dashboardStream)
}

type loginResponse struct {
	Token string `json:"token"`
}

// Handlers

func (api *adminApi) login(ctx echo.Context) error {
	var data user.Credentials
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to Credentials")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	claims, err := api.auth.authenticate(ctx, data.Username, data.Password, api.svc)
	if err != nil {
		return err
	}
	token, err := api.auth.generateToken(claims)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, loginResponse{Token: token})
}

func (api *adminApi) refreshToken(ctx echo.Context) error {
	token, err := api.auth.refreshToken(ctx)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, loginResponse{Token: token})
}

func (api *adminApi) dashboardSnapshot(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, api.dashboard.Snapshot())
}

// dashboardRefresh re-runs the bulk load. A failed load degrades
// silently: it is logged and the previous lists stay on screen.
func (api *adminApi) dashboardRefresh(ctx echo.Context) error {
	_ = api.dashboard.Refresh(ctx.Request().Context())
	return ctx.JSON(http.StatusOK, api.dashboard.Snapshot())
}

// dashboardStream pushes live feed events to the client as server-sent
// events until the client disconnects.
func (api *adminApi) dashboardStream(ctx echo.Context) error {
	sub := api.bus.Subscribe(16)
	defer sub.Close()

	res := ctx.Response()
	res.Header().Set(echo.HeaderContentType, "text/event-stream")
	res.Header().Set(echo.HeaderCacheControl, "no-cache")
	res.Header().Set(echo.HeaderConnection, "keep-alive")
	res.WriteHeader(http.StatusOK)
	res.Flush()

	enc := json.NewEncoder(res)
	for {
		select {
		case <-ctx.Request().Context().Done():
			return nil
		case evt, ok := <-sub.C():
			if !ok {
				return nil
			}
			if _, err := fmt.Fprintf(res, "event: %s\ndata: ", evt.Kind); err != nil {
				return nil
			}
			if err := enc.Encode(evt.Payload); err != nil {
				return nil
			}
			if _, err := fmt.Fprint(res, "\n"); err != nil {
				return nil
			}
			res.Flush()
		}
	}
}
