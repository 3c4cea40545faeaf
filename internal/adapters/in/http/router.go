package http

import (
	"context"

	"dormeal/api"
	"dormeal/internal/generated/servers"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"
)

// NewRouter builds the echo instance serving s: request logging, panic
// recovery, session resolution and contract validation run before every handler.
func NewRouter(ctx context.Context, s *Server) (*echo.Echo, error) {
	doc, err := api.Load(ctx)
	if err != nil {
		return nil, err
	}
	if err = registerAPIDoc(doc); err != nil {
		return nil, err
	}
	validate, err := validateRequests(doc)
	if err != nil {
		return nil, err
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = newRequestValidator()
	e.HTTPErrorHandler = s.handleError

	e.Use(middleware.Recover())
	e.Use(resolvePrincipal(s.handlers.ResolveSession))
	e.Use(requestLogger(s.logger))
	e.Use(validate)

	e.GET("/swagger/*", echoSwagger.WrapHandler)
	servers.RegisterHandlers(e, s)

	return e, nil
}
