package service

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/warteg-pro/api/internal/enum"
	"github.com/warteg-pro/api/internal/state"
)

// CatalogItemSpec is the input for a new menu item.
type CatalogItemSpec struct {
	Name        string
	Price       int64
	Category    string
	Description string
	ImageURL    string
	Stock       int
}

// CatalogItemPatch merges non-nil fields into an existing item.
type CatalogItemPatch struct {
	Name        *string
	Price       *int64
	Category    *string
	Description *string
	ImageURL    *string
	Stock       *int
}

// MenuFilter narrows List. Empty Category (or "All") matches everything;
// Query matches name or description, case-insensitive.
type MenuFilter struct {
	Category string
	Query    string
}

// CatalogService manages the menu and its stock counters.
type CatalogService struct {
	app *state.App
}

func NewCatalogService(app *state.App) *CatalogService {
	return &CatalogService{app: app}
}

// AddItem inserts a menu item with a fresh ID. Admin only.
func (s *CatalogService) AddItem(actor state.User, spec CatalogItemSpec) (state.CatalogItem, error) {
	if err := authorize(actor, enum.UserRoleAdmin); err != nil {
		return state.CatalogItem{}, err
	}
	item := state.CatalogItem{
		ID:          uuid.NewString(),
		Name:        strings.TrimSpace(spec.Name),
		Price:       spec.Price,
		Category:    spec.Category,
		Description: spec.Description,
		ImageURL:    spec.ImageURL,
		Stock:       spec.Stock,
	}
	if item.Category == "" {
		item.Category = enum.CategoryMain
	}
	if err := validateCatalogItem(item); err != nil {
		return state.CatalogItem{}, err
	}

	_ = s.app.Update(func(d *state.Data) error {
		d.Menu = append(d.Menu, item)
		return nil
	})
	return item, nil
}

// UpdateItem merges patch into the item with the given ID. Admin only.
func (s *CatalogService) UpdateItem(actor state.User, id string, patch CatalogItemPatch) (state.CatalogItem, error) {
	if err := authorize(actor, enum.UserRoleAdmin); err != nil {
		return state.CatalogItem{}, err
	}

	var updated state.CatalogItem
	err := s.app.Update(func(d *state.Data) error {
		idx := d.MenuIndex(id)
		if idx < 0 {
			return fmt.Errorf("menu item %s: %w", id, ErrNotFound)
		}
		item := d.Menu[idx]
		if patch.Name != nil {
			item.Name = strings.TrimSpace(*patch.Name)
		}
		if patch.Price != nil {
			item.Price = *patch.Price
		}
		if patch.Category != nil {
			item.Category = *patch.Category
		}
		if patch.Description != nil {
			item.Description = *patch.Description
		}
		if patch.ImageURL != nil {
			item.ImageURL = *patch.ImageURL
		}
		if patch.Stock != nil {
			item.Stock = *patch.Stock
		}
		if err := validateCatalogItem(item); err != nil {
			return err
		}
		d.Menu[idx] = item
		updated = item
		return nil
	})
	return updated, err
}

// RemoveItem deletes a menu item. Admin only.
func (s *CatalogService) RemoveItem(actor state.User, id string) error {
	if err := authorize(actor, enum.UserRoleAdmin); err != nil {
		return err
	}
	return s.app.Update(func(d *state.Data) error {
		idx := d.MenuIndex(id)
		if idx < 0 {
			return fmt.Errorf("menu item %s: %w", id, ErrNotFound)
		}
		d.Menu = append(d.Menu[:idx], d.Menu[idx+1:]...)
		return nil
	})
}

// DecrementStock lowers an item's stock, clamping at zero.
func (s *CatalogService) DecrementStock(id string, amount int) error {
	return s.app.Update(func(d *state.Data) error {
		if !decrementStock(d, id, amount) {
			return fmt.Errorf("menu item %s: %w", id, ErrNotFound)
		}
		return nil
	})
}

// decrementStock must run inside an Update. Reports whether the item exists.
func decrementStock(d *state.Data, id string, amount int) bool {
	idx := d.MenuIndex(id)
	if idx < 0 {
		return false
	}
	d.Menu[idx].Stock = max(0, d.Menu[idx].Stock-amount)
	return true
}

// Get returns a single menu item.
func (s *CatalogService) Get(id string) (state.CatalogItem, error) {
	var (
		item  state.CatalogItem
		found bool
	)
	s.app.View(func(d *state.Data) {
		if idx := d.MenuIndex(id); idx >= 0 {
			item, found = d.Menu[idx], true
		}
	})
	if !found {
		return state.CatalogItem{}, fmt.Errorf("menu item %s: %w", id, ErrNotFound)
	}
	return item, nil
}

// List returns menu items matching filter, in menu order.
func (s *CatalogService) List(filter MenuFilter) []state.CatalogItem {
	query := strings.ToLower(strings.TrimSpace(filter.Query))
	all := filter.Category == "" || filter.Category == "All"

	result := []state.CatalogItem{}
	s.app.View(func(d *state.Data) {
		for _, item := range d.Menu {
			if !all && item.Category != filter.Category {
				continue
			}
			if query != "" &&
				!strings.Contains(strings.ToLower(item.Name), query) &&
				!strings.Contains(strings.ToLower(item.Description), query) {
				continue
			}
			result = append(result, item)
		}
	})
	return result
}

// Categories returns the distinct categories in first-seen menu order.
func (s *CatalogService) Categories() []string {
	var cats []string
	seen := make(map[string]bool)
	s.app.View(func(d *state.Data) {
		for _, item := range d.Menu {
			if !seen[item.Category] {
				seen[item.Category] = true
				cats = append(cats, item.Category)
			}
		}
	})
	return cats
}

func validateCatalogItem(item state.CatalogItem) error {
	if item.Name == "" {
		return fmt.Errorf("%w: name is required", ErrValidation)
	}
	if item.Price < 0 {
		return fmt.Errorf("%w: price must be >= 0", ErrValidation)
	}
	if item.Stock < 0 {
		return fmt.Errorf("%w: stock must be >= 0", ErrValidation)
	}
	return nil
}
