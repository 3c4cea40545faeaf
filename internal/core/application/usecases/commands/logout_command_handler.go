package commands

import (
	"context"

	"dormeal/internal/core/application/auth"
	"dormeal/internal/core/ports"
)

// LogoutCommandHandler deletes the session synchronously, so the same token
// resolves to an anonymous principal on the very next request. Tokens that do
// not parse have no session to delete and are ignored.
type LogoutCommandHandler struct {
	tokens   *auth.Tokens
	sessions ports.SessionStore
}

func NewLogoutCommandHandler(tokens *auth.Tokens, sessions ports.SessionStore) LogoutCommandHandler {
	return LogoutCommandHandler{tokens: tokens, sessions: sessions}
}

func (h LogoutCommandHandler) Handle(ctx context.Context, cmd LogoutCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}
	if cmd.Token() == "" {
		return nil
	}

	sessionID, err := h.tokens.SessionID(cmd.Token())
	if err != nil {
		return nil //nolint:nilerr // nothing to end
	}
	return h.sessions.Delete(ctx, sessionID)
}
