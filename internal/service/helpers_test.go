package service

import (
	"errors"
	"testing"
	"time"

	"github.com/warteg-pro/api/internal/enum"
	"github.com/warteg-pro/api/internal/seed"
	"github.com/warteg-pro/api/internal/state"
)

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

var (
	adminUser   = state.User{ID: "u1", Name: "Super Admin", Email: "admin@warteg.pro", Role: enum.UserRoleAdmin}
	kitchenUser = state.User{ID: "u2", Name: "Chef Juna", Email: "kitchen@warteg.pro", Role: enum.UserRoleKitchen}
	customer    = state.User{ID: "c1", Name: "Budi", Email: "budi@example.com", Role: enum.UserRoleCustomer}
	customer2   = state.User{ID: "c2", Name: "Siti", Email: "siti@example.com", Role: enum.UserRoleCustomer}
)

// newTestApp returns an App with the seeded menu, inventory and staff.
func newTestApp() *state.App {
	return state.New(seed.Data(testNow))
}

func menuItem(t *testing.T, app *state.App, id string) state.CatalogItem {
	t.Helper()
	var (
		item  state.CatalogItem
		found bool
	)
	app.View(func(d *state.Data) {
		if idx := d.MenuIndex(id); idx >= 0 {
			item, found = d.Menu[idx], true
		}
	})
	if !found {
		t.Fatalf("menu item %s not found", id)
	}
	return item
}

func setStock(app *state.App, id string, stock int) {
	_ = app.Update(func(d *state.Data) error {
		d.Menu[d.MenuIndex(id)].Stock = stock
		return nil
	})
}

func expectErr(t *testing.T, err, target error) {
	t.Helper()
	if !errors.Is(err, target) {
		t.Fatalf("expected %v, got: %v", target, err)
	}
}
