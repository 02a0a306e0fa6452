package service

import (
	"context"
	"testing"

	"github.com/warteg-pro/api/internal/enum"
	"github.com/warteg-pro/api/internal/state"
)

func TestUserCreateAndRemove(t *testing.T) {
	app := newTestApp()
	svc := NewUserService(app, newFakeStore())

	u, err := svc.Create(adminUser, "Mbak Sri", "sri@warteg.pro", "kitchen")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if u.Role != enum.UserRoleKitchen {
		t.Errorf("role: got %s, want KITCHEN", u.Role)
	}

	users, _ := svc.List(adminUser)
	if len(users) != 3 {
		t.Errorf("users: got %d, want 3", len(users))
	}

	if err := svc.Remove(context.Background(), adminUser, u.ID); err != nil {
		t.Fatalf("remove: %v", err)
	}
	users, _ = svc.List(adminUser)
	if len(users) != 2 {
		t.Errorf("users after remove: got %d, want 2", len(users))
	}
	expectErr(t, svc.Remove(context.Background(), adminUser, u.ID), ErrNotFound)
}

func TestUserCreate_Errors(t *testing.T) {
	svc := NewUserService(newTestApp(), newFakeStore())

	_, err := svc.Create(adminUser, "X", "", enum.UserRoleCustomer)
	expectErr(t, err, ErrValidation)
	_, err = svc.Create(adminUser, "X", "x@y.z", "OWNER")
	expectErr(t, err, ErrValidation)
	_, err = svc.Create(adminUser, "Dup", "KITCHEN@warteg.pro", enum.UserRoleKitchen)
	expectErr(t, err, ErrConflict)
	_, err = svc.Create(kitchenUser, "X", "x@y.z", enum.UserRoleCustomer)
	expectErr(t, err, ErrPermission)
}

func TestUserRemove_Self(t *testing.T) {
	svc := NewUserService(newTestApp(), newFakeStore())
	expectErr(t, svc.Remove(context.Background(), adminUser, adminUser.ID), ErrValidation)
}

func TestUserRemove_ClearsSession(t *testing.T) {
	ctx := context.Background()
	app := newTestApp()
	store := newFakeStore()
	sessions := NewSessionService(app, store)
	users := NewUserService(app, store)

	u, err := sessions.Login(ctx, LoginRequest{Email: "budi@example.com"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if err := users.Remove(ctx, adminUser, u.ID); err != nil {
		t.Fatalf("remove: %v", err)
	}

	_, err = sessions.Restore(ctx, u.ID)
	expectErr(t, err, ErrNotFound)

	app.View(func(d *state.Data) {
		if d.UserIndex(u.ID) >= 0 {
			t.Error("removed user is back in the user table")
		}
	})
}
