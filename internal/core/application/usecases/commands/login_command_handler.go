package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"dormeal/internal/core/application/auth"
	"dormeal/internal/core/domain/model/kernel"
	"dormeal/internal/core/domain/model/principal"
	"dormeal/internal/core/ports"
	"dormeal/internal/pkg/errs"
)

// LoginResult is a freshly opened session and the token that refers to it.
type LoginResult struct {
	Token     string
	Principal principal.Principal
	ExpiresAt time.Time
}

// LoginCommandHandler authenticates against the identity provider and opens a session.
//
// Attempts are throttled per username before the provider is asked, so a
// throttled user gets auth.ErrTooManyAttempts even with the right password.
// Any provider failure is reported as auth.ErrInvalidCredentials.
type LoginCommandHandler struct {
	verifier   ports.CredentialVerifier
	throttle   *auth.LoginThrottle
	tokens     *auth.Tokens
	sessions   ports.SessionStore
	sessionTTL time.Duration
	now        func() time.Time
}

func NewLoginCommandHandler(
	verifier ports.CredentialVerifier,
	throttle *auth.LoginThrottle,
	tokens *auth.Tokens,
	sessions ports.SessionStore,
	sessionTTL time.Duration,
	opts ...Option,
) (LoginCommandHandler, error) {
	if verifier == nil || throttle == nil || tokens == nil || sessions == nil {
		return LoginCommandHandler{}, errs.NewValueIsRequiredError("login dependencies")
	}
	if sessionTTL <= 0 {
		return LoginCommandHandler{}, errs.NewValueIsOutOfRangeError("sessionTTL", sessionTTL, "1s", "-")
	}
	return LoginCommandHandler{
		verifier:   verifier,
		throttle:   throttle,
		tokens:     tokens,
		sessions:   sessions,
		sessionTTL: sessionTTL,
		now:        clockFrom(opts),
	}, nil
}

func (h LoginCommandHandler) Handle(ctx context.Context, cmd LoginCommand) (LoginResult, error) {
	if err := cmd.Validate(); err != nil {
		return LoginResult{}, err
	}
	if !h.throttle.Allow(cmd.Username()) {
		return LoginResult{}, auth.ErrTooManyAttempts
	}

	p, err := h.verifier.Verify(ctx, cmd.Username(), cmd.Password())
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			return LoginResult{}, auth.ErrInvalidCredentials
		}
		return LoginResult{}, fmt.Errorf("%w: %v", auth.ErrInvalidCredentials, err)
	}

	issuedAt := h.now()
	session := ports.Session{
		ID:        kernel.NewUUID().String(),
		Principal: p,
		ExpiresAt: issuedAt.Add(h.sessionTTL),
	}
	token, err := h.tokens.Issue(session.ID, issuedAt, session.ExpiresAt)
	if err != nil {
		return LoginResult{}, err
	}
	if err = h.sessions.Save(ctx, session); err != nil {
		return LoginResult{}, err
	}

	return LoginResult{Token: token, Principal: p, ExpiresAt: session.ExpiresAt}, nil
}
