package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/warteg-pro/api/internal/enum"
	"github.com/warteg-pro/api/internal/logging"
	"github.com/warteg-pro/api/internal/state"
)

// SessionStore persists the logged-in user in a key-value slot.
// Load reports ok=false for a missing or malformed slot.
// Satisfied by *session.MemoryStore and *session.RedisStore.
type SessionStore interface {
	Save(ctx context.Context, user state.User) error
	Load(ctx context.Context, userID string) (user state.User, ok bool, err error)
	Delete(ctx context.Context, userID string) error
}

// LoginRequest carries the login form. No credential is verified.
type LoginRequest struct {
	Email string
	Name  string
	Role  string
}

// SessionService resolves the current actor.
type SessionService struct {
	app   *state.App
	store SessionStore
	now   func() time.Time
}

func NewSessionService(app *state.App, store SessionStore) *SessionService {
	return &SessionService{app: app, store: store, now: time.Now}
}

// Login accepts any email and role. A known email logs in as the existing
// user, keeping the role it was created with. The user is written to the
// session slot.
func (s *SessionService) Login(ctx context.Context, req LoginRequest) (state.User, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" {
		return state.User{}, fmt.Errorf("%w: email is required", ErrValidation)
	}
	role := strings.ToUpper(strings.TrimSpace(req.Role))
	if role == "" {
		role = enum.UserRoleCustomer
	}
	if !enum.IsValidRole(role) {
		return state.User{}, fmt.Errorf("%w: invalid role %q", ErrValidation, req.Role)
	}

	var user state.User
	_ = s.app.Update(func(d *state.Data) error {
		if existing, ok := d.UserByEmail(email); ok {
			user = existing
			return nil
		}
		user = s.newUser(req.Name, email, role)
		d.Users = append(d.Users, user)
		return nil
	})

	if err := s.store.Save(ctx, user); err != nil {
		return state.User{}, fmt.Errorf("save session: %w", err)
	}
	return user, nil
}

// Register creates a CUSTOMER account and logs it in.
func (s *SessionService) Register(ctx context.Context, name, email string) (state.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	name = strings.TrimSpace(name)
	if email == "" || name == "" {
		return state.User{}, fmt.Errorf("%w: name and email are required", ErrValidation)
	}

	var user state.User
	err := s.app.Update(func(d *state.Data) error {
		if _, ok := d.UserByEmail(email); ok {
			return fmt.Errorf("%w: email %s already registered", ErrConflict, email)
		}
		user = s.newUser(name, email, enum.UserRoleCustomer)
		d.Users = append(d.Users, user)
		return nil
	})
	if err != nil {
		return state.User{}, err
	}

	if err := s.store.Save(ctx, user); err != nil {
		return state.User{}, fmt.Errorf("save session: %w", err)
	}
	return user, nil
}

// Restore reads the session slot for userID. A present, well-formed slot
// restores the user without re-authentication, re-adding it to the user
// table when the process has restarted since login.
func (s *SessionService) Restore(ctx context.Context, userID string) (state.User, error) {
	user, ok, err := s.store.Load(ctx, userID)
	if err != nil {
		return state.User{}, fmt.Errorf("load session: %w", err)
	}
	if !ok {
		return state.User{}, fmt.Errorf("session %s: %w", userID, ErrNotFound)
	}

	_ = s.app.Update(func(d *state.Data) error {
		if d.UserIndex(user.ID) < 0 {
			d.Users = append(d.Users, user)
			logging.FromCtx(ctx).Info("session restored", "user_id", user.ID, "role", user.Role)
		}
		return nil
	})
	return user, nil
}

// Logout clears the session slot and the actor's cart.
func (s *SessionService) Logout(ctx context.Context, actor state.User) error {
	_ = s.app.Update(func(d *state.Data) error {
		delete(d.Carts, actor.ID)
		return nil
	})
	if err := s.store.Delete(ctx, actor.ID); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func (s *SessionService) newUser(name, email, role string) state.User {
	name = strings.TrimSpace(name)
	if name == "" {
		name, _, _ = strings.Cut(email, "@")
	}
	return state.User{
		ID:        uuid.NewString(),
		Name:      name,
		Email:     email,
		Role:      role,
		CreatedAt: s.now(),
	}
}
