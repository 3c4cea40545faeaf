package commands

import (
	"errors"
	"strings"

	"dormeal/internal/pkg/errs"
	"dormeal/internal/pkg/guard"
)

var ErrLoginCommandIsNotConstructed = errors.New(
	"LoginCommand must be created via NewLoginCommand constructor",
)

// LoginCommand carries the credentials a user typed into the login form.
type LoginCommand struct {
	username string
	password string

	guard guard.ConstructorGuard
}

func NewLoginCommand(username, password string) (LoginCommand, error) {
	username = strings.TrimSpace(username)

	var problems []error
	if username == "" {
		problems = append(problems, errs.NewValueIsRequiredError("username"))
	}
	if password == "" {
		problems = append(problems, errs.NewValueIsRequiredError("password"))
	}
	if err := errors.Join(problems...); err != nil {
		return LoginCommand{}, err
	}

	return LoginCommand{username: username, password: password, guard: guard.NewConstructorGuard()}, nil
}

func (c LoginCommand) Validate() error {
	return c.guard.Validate(ErrLoginCommandIsNotConstructed)
}

func (c LoginCommand) Username() string {
	return c.username
}

func (c LoginCommand) Password() string {
	return c.password
}
