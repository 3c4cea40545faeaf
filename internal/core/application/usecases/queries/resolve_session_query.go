package queries

import (
	"errors"

	"dormeal/internal/pkg/guard"
)

var ErrResolveSessionQueryIsNotConstructed = errors.New(
	"ResolveSessionQuery must be created via NewResolveSessionQuery constructor",
)

// ResolveSessionQuery turns the token a request carries into a principal.
// An empty token is allowed and resolves to anonymous.
type ResolveSessionQuery struct {
	token string

	guard guard.ConstructorGuard
}

func NewResolveSessionQuery(token string) ResolveSessionQuery {
	return ResolveSessionQuery{token: token, guard: guard.NewConstructorGuard()}
}

func (q ResolveSessionQuery) Validate() error {
	return q.guard.Validate(ErrResolveSessionQueryIsNotConstructed)
}

func (q ResolveSessionQuery) Token() string {
	return q.token
}
