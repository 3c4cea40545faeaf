package commands

import (
	"errors"

	"dormeal/internal/pkg/guard"
)

var (
	ErrReopenStaleClaimsCommandIsNotConstructed = errors.New(
		"ReopenStaleClaimsCommand must be created via NewReopenStaleClaimsCommand constructor",
	)
	ErrAutoDeliverCommandIsNotConstructed = errors.New(
		"AutoDeliverCommand must be created via NewAutoDeliverCommand constructor",
	)
)

// ReopenStaleClaimsCommand looks for claims older than the stale-claim window.
type ReopenStaleClaimsCommand struct {
	guard guard.ConstructorGuard
}

func NewReopenStaleClaimsCommand() ReopenStaleClaimsCommand {
	return ReopenStaleClaimsCommand{guard: guard.NewConstructorGuard()}
}

func (c ReopenStaleClaimsCommand) Validate() error {
	return c.guard.Validate(ErrReopenStaleClaimsCommandIsNotConstructed)
}

// AutoDeliverCommand closes orders that stayed Retrieved past the auto-delivery window.
type AutoDeliverCommand struct {
	guard guard.ConstructorGuard
}

func NewAutoDeliverCommand() AutoDeliverCommand {
	return AutoDeliverCommand{guard: guard.NewConstructorGuard()}
}

func (c AutoDeliverCommand) Validate() error {
	return c.guard.Validate(ErrAutoDeliverCommandIsNotConstructed)
}
