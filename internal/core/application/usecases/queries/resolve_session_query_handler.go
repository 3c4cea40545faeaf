package queries

import (
	"context"

	"dormeal/internal/core/application/auth"
	"dormeal/internal/core/domain/model/principal"
	"dormeal/internal/core/ports"
)

// ResolveSessionQueryHandler never fails a request: a bad signature, an
// unknown or expired session, or a store outage all resolve to anonymous.
type ResolveSessionQueryHandler struct {
	tokens   *auth.Tokens
	sessions ports.SessionStore
}

func NewResolveSessionQueryHandler(tokens *auth.Tokens, sessions ports.SessionStore) ResolveSessionQueryHandler {
	return ResolveSessionQueryHandler{tokens: tokens, sessions: sessions}
}

// Handle only returns an error for a query not built by its constructor.
func (h ResolveSessionQueryHandler) Handle(ctx context.Context, query ResolveSessionQuery) (principal.Principal, error) {
	if err := query.Validate(); err != nil {
		return principal.NewAnonymous(), err
	}
	if query.Token() == "" {
		return principal.NewAnonymous(), nil
	}

	sessionID, err := h.tokens.SessionID(query.Token())
	if err != nil {
		return principal.NewAnonymous(), nil //nolint:nilerr // unreadable token is anonymous
	}
	session, err := h.sessions.Get(ctx, sessionID)
	if err != nil {
		return principal.NewAnonymous(), nil //nolint:nilerr // expired or unknown session is anonymous
	}
	return session.Principal, nil
}
