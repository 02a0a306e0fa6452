package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/warteg-pro/api/internal/enum"
	"github.com/warteg-pro/api/internal/state"
)

// UserService is admin-side account management.
type UserService struct {
	app   *state.App
	store SessionStore
	now   func() time.Time
}

func NewUserService(app *state.App, store SessionStore) *UserService {
	return &UserService{app: app, store: store, now: time.Now}
}

// List returns every user. Admin only.
func (s *UserService) List(actor state.User) ([]state.User, error) {
	if err := authorize(actor, enum.UserRoleAdmin); err != nil {
		return nil, err
	}
	var users []state.User
	s.app.View(func(d *state.Data) {
		users = append([]state.User{}, d.Users...)
	})
	return users, nil
}

// Create adds a user with a fixed role. Admin only.
func (s *UserService) Create(actor state.User, name, email, role string) (state.User, error) {
	if err := authorize(actor, enum.UserRoleAdmin); err != nil {
		return state.User{}, err
	}
	name = strings.TrimSpace(name)
	email = strings.ToLower(strings.TrimSpace(email))
	role = strings.ToUpper(strings.TrimSpace(role))
	if name == "" || email == "" {
		return state.User{}, fmt.Errorf("%w: name and email are required", ErrValidation)
	}
	if !enum.IsValidRole(role) {
		return state.User{}, fmt.Errorf("%w: invalid role %q", ErrValidation, role)
	}

	user := state.User{
		ID:        uuid.NewString(),
		Name:      name,
		Email:     email,
		Role:      role,
		CreatedAt: s.now(),
	}
	err := s.app.Update(func(d *state.Data) error {
		if _, ok := d.UserByEmail(email); ok {
			return fmt.Errorf("%w: email %s already registered", ErrConflict, email)
		}
		d.Users = append(d.Users, user)
		return nil
	})
	if err != nil {
		return state.User{}, err
	}
	return user, nil
}

// Remove deletes a user and clears their session slot, so an outstanding
// token cannot restore the account. Admins cannot remove themselves.
func (s *UserService) Remove(ctx context.Context, actor state.User, id string) error {
	if err := authorize(actor, enum.UserRoleAdmin); err != nil {
		return err
	}
	if id == actor.ID {
		return fmt.Errorf("%w: cannot remove your own account", ErrValidation)
	}
	err := s.app.Update(func(d *state.Data) error {
		idx := d.UserIndex(id)
		if idx < 0 {
			return fmt.Errorf("user %s: %w", id, ErrNotFound)
		}
		d.Users = append(d.Users[:idx], d.Users[idx+1:]...)
		delete(d.Carts, id)
		return nil
	})
	if err != nil {
		return err
	}
	if err := s.store.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}
