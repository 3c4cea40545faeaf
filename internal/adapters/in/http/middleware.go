package http

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"dormeal/internal/core/application/usecases/queries"
	"dormeal/internal/core/domain/model/principal"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/getkin/kin-openapi/routers"
	"github.com/getkin/kin-openapi/routers/gorillamux"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

const (
	// SessionCookie carries the session token for browser clients.
	SessionCookie = "dormeal_session"

	principalKey = "dormeal.principal"
)

// principalFrom returns the principal resolved for the request, anonymous if none.
func principalFrom(c echo.Context) principal.Principal {
	if p, ok := c.Get(principalKey).(principal.Principal); ok {
		return p
	}
	return principal.NewAnonymous()
}

// sessionToken reads the bearer token, falling back to the session cookie.
func sessionToken(r *http.Request) string {
	if header := r.Header.Get(echo.HeaderAuthorization); header != "" {
		if token, ok := strings.CutPrefix(header, "Bearer "); ok {
			return strings.TrimSpace(token)
		}
	}
	if cookie, err := r.Cookie(SessionCookie); err == nil {
		return cookie.Value
	}
	return ""
}

// resolvePrincipal attaches the caller's principal to every request.
func resolvePrincipal(resolver queries.ResolveSessionQueryHandler) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			query := queries.NewResolveSessionQuery(sessionToken(c.Request()))
			p, err := resolver.Handle(c.Request().Context(), query)
			if err != nil {
				return err
			}
			c.Set(principalKey, p)
			return next(c)
		}
	}
}

// requestLogger writes one line per request.
func requestLogger(logger *zap.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}
			logger.Info("request",
				zap.String("method", c.Request().Method),
				zap.String("path", c.Path()),
				zap.Int("status", c.Response().Status),
				zap.Duration("latency", time.Since(start)),
				zap.Stringer("principal", principalFrom(c)),
			)
			return nil
		}
	}
}

// validateRequests checks requests against the API contract before they reach
// a handler. Requests for paths outside the contract pass through untouched.
func validateRequests(doc *openapi3.T) (echo.MiddlewareFunc, error) {
	doc.Servers = nil
	router, err := gorillamux.NewRouter(doc)
	if err != nil {
		return nil, err
	}
	options := &openapi3filter.Options{AuthenticationFunc: openapi3filter.NoopAuthenticationFunc}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			route, pathParams, findErr := router.FindRoute(req)
			if errors.Is(findErr, routers.ErrPathNotFound) || errors.Is(findErr, routers.ErrMethodNotAllowed) {
				return next(c)
			}
			if findErr != nil {
				return echo.NewHTTPError(http.StatusBadRequest, findErr.Error())
			}
			input := &openapi3filter.RequestValidationInput{
				Request:    req,
				PathParams: pathParams,
				Route:      route,
				Options:    options,
			}
			if err := openapi3filter.ValidateRequest(req.Context(), input); err != nil {
				return err
			}
			return next(c)
		}
	}, nil
}
