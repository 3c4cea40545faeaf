package ports

import (
	"context"
	"time"

	"dormeal/internal/core/domain/model/principal"
)

// Session binds an opaque session id to a principal until ExpiresAt.
type Session struct {
	ID        string
	Principal principal.Principal
	ExpiresAt time.Time
}

// SessionStore keeps live sessions. Get returns errs.ObjectNotFoundError for
// unknown or expired ids; Delete of an unknown id is not an error.
type SessionStore interface {
	Save(ctx context.Context, session Session) error
	Get(ctx context.Context, id string) (Session, error)
	Delete(ctx context.Context, id string) error
}

// CredentialVerifier is the external identity provider. Every failure to
// authenticate is auth.ErrInvalidCredentials.
type CredentialVerifier interface {
	Verify(ctx context.Context, username, password string) (principal.Principal, error)
}
