package http

import (
	"errors"
	"net/http"

	"dormeal/internal/core/application/auth"
	"dormeal/internal/core/application/usecases/commands"
	"dormeal/internal/core/domain/model/order"
	"dormeal/internal/core/domain/services"
	"dormeal/internal/generated/servers"
	"dormeal/internal/pkg/errs"

	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// problem is the status and kind an error maps to.
type problem struct {
	status int
	kind   string
}

// classify maps application errors to HTTP problems. ClaimLost wraps a
// version conflict and must be checked before it.
func classify(err error, anonymous bool) problem {
	var httpErr *echo.HTTPError
	var requestErr *openapi3filter.RequestError
	var validationErrs validator.ValidationErrors

	switch {
	case errors.Is(err, errs.ErrObjectNotFound):
		return problem{http.StatusNotFound, "NotFound"}
	case errors.Is(err, commands.ErrClaimLost):
		return problem{http.StatusConflict, "ClaimLost"}
	case errors.Is(err, order.ErrOrderNotAvailable):
		return problem{http.StatusConflict, "OrderNotAvailable"}
	case errors.Is(err, errs.ErrVersionConflict):
		return problem{http.StatusConflict, "VersionConflict"}
	case errors.Is(err, order.ErrInvalidTransition):
		return problem{http.StatusConflict, "InvalidTransition"}
	case errors.Is(err, order.ErrClaimNotStale):
		return problem{http.StatusConflict, "ClaimNotStale"}
	case errors.Is(err, auth.ErrTooManyAttempts):
		return problem{http.StatusTooManyRequests, "TooManyAttempts"}
	case errors.Is(err, auth.ErrInvalidCredentials):
		return problem{http.StatusUnauthorized, "InvalidCredentials"}
	case errors.Is(err, errs.ErrUnauthorized):
		if anonymous {
			return problem{http.StatusUnauthorized, "Unauthenticated"}
		}
		return problem{http.StatusForbidden, "Unauthorized"}
	case errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrValueIsOutOfRange),
		errors.Is(err, errs.ErrVersionIsInvalid),
		errors.Is(err, services.ErrItemNotOnMenu),
		errors.Is(err, services.ErrOptionNotOnItem),
		errors.As(err, &validationErrs),
		errors.As(err, &requestErr):
		return problem{http.StatusBadRequest, "Validation"}
	case errors.As(err, &httpErr):
		return problem{httpErr.Code, http.StatusText(httpErr.Code)}
	}
	return problem{http.StatusInternalServerError, "Internal"}
}

// handleError is the echo.HTTPErrorHandler of the service.
func (s *Server) handleError(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	p := classify(err, principalFrom(c).IsAnonymous())
	message := err.Error()
	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		if m, ok := httpErr.Message.(string); ok {
			message = m
		}
	}
	if p.status >= http.StatusInternalServerError {
		s.logger.Error("request failed",
			zap.String("method", c.Request().Method),
			zap.String("path", c.Path()),
			zap.Error(err),
		)
		message = http.StatusText(p.status)
	}

	if writeErr := c.JSON(p.status, servers.Error{Code: p.status, Kind: p.kind, Message: message}); writeErr != nil {
		s.logger.Warn("failed to write error response", zap.Error(writeErr))
	}
}
