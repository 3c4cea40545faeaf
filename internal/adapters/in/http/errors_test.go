package http

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"dormeal/internal/core/application/auth"
	"dormeal/internal/core/application/usecases/commands"
	"dormeal/internal/core/domain/model/order"
	"dormeal/internal/core/domain/services"
	"dormeal/internal/pkg/errs"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		anonymous bool
		want      problem
	}{
		{"not found", errs.NewObjectNotFoundError("orderID", "x"), false, problem{http.StatusNotFound, "NotFound"}},
		{"claim lost wins over version conflict",
			errors.Join(commands.ErrClaimLost, errs.NewVersionConflictError("o", 1, 2)), false,
			problem{http.StatusConflict, "ClaimLost"}},
		{"not available", fmt.Errorf("claim: %w", order.ErrOrderNotAvailable), false, problem{http.StatusConflict, "OrderNotAvailable"}},
		{"version conflict", errs.NewVersionConflictError("o", 1, 2), false, problem{http.StatusConflict, "VersionConflict"}},
		{"invalid transition", &order.InvalidTransitionError{From: order.Delivered, Event: order.Cancel}, false,
			problem{http.StatusConflict, "InvalidTransition"}},
		{"claim not stale", order.ErrClaimNotStale, false, problem{http.StatusConflict, "ClaimNotStale"}},
		{"throttled", auth.ErrTooManyAttempts, true, problem{http.StatusTooManyRequests, "TooManyAttempts"}},
		{"bad credentials", auth.ErrInvalidCredentials, true, problem{http.StatusUnauthorized, "InvalidCredentials"}},
		{"anonymous caller", errs.NewUnauthorizedError("claim order"), true, problem{http.StatusUnauthorized, "Unauthenticated"}},
		{"wrong role", errs.NewUnauthorizedError("claim order"), false, problem{http.StatusForbidden, "Unauthorized"}},
		{"handoff mismatch", errs.NewUnauthorizedErrorWithCause("mark delivered", order.ErrHandoffCodeMismatch), false,
			problem{http.StatusForbidden, "Unauthorized"}},
		{"required", errs.NewValueIsRequiredError("items"), false, problem{http.StatusBadRequest, "Validation"}},
		{"out of range", errs.NewValueIsOutOfRangeError("quantity", 21, 1, 20), false, problem{http.StatusBadRequest, "Validation"}},
		{"unknown item", fmt.Errorf("items[0]: %w", services.ErrItemNotOnMenu), false, problem{http.StatusBadRequest, "Validation"}},
		{"echo error", echo.NewHTTPError(http.StatusMethodNotAllowed), false, problem{http.StatusMethodNotAllowed, "Method Not Allowed"}},
		{"anything else", errors.New("disk on fire"), false, problem{http.StatusInternalServerError, "Internal"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, classify(tt.err, tt.anonymous))
		})
	}
}
