package commands

import (
	"errors"

	"dormeal/internal/pkg/guard"
)

var ErrLogoutCommandIsNotConstructed = errors.New(
	"LogoutCommand must be created via NewLogoutCommand constructor",
)

// LogoutCommand ends the session referred to by token. An empty token is allowed.
type LogoutCommand struct {
	token string

	guard guard.ConstructorGuard
}

func NewLogoutCommand(token string) LogoutCommand {
	return LogoutCommand{token: token, guard: guard.NewConstructorGuard()}
}

func (c LogoutCommand) Validate() error {
	return c.guard.Validate(ErrLogoutCommandIsNotConstructed)
}

func (c LogoutCommand) Token() string {
	return c.token
}
