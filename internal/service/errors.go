package service

import (
	"errors"
	"fmt"
	"slices"

	"github.com/warteg-pro/api/internal/state"
)

// Errors returned by the services. Callers match with errors.Is; the
// wrapped message carries the detail.
var (
	ErrValidation        = errors.New("validation failed")
	ErrNotFound          = errors.New("not found")
	ErrOutOfStock        = errors.New("out of stock")
	ErrEmptyCart         = errors.New("cart is empty")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrInvalidState      = errors.New("invalid order state")
	ErrPermission        = errors.New("permission denied")
	ErrConflict          = errors.New("conflict")
)

// authorize checks the actor's role against the roles allowed for an operation.
func authorize(actor state.User, roles ...string) error {
	if slices.Contains(roles, actor.Role) {
		return nil
	}
	return fmt.Errorf("%w: role %q not allowed", ErrPermission, actor.Role)
}
