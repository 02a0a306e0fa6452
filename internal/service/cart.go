package service

import (
	"fmt"

	"github.com/warteg-pro/api/internal/enum"
	"github.com/warteg-pro/api/internal/state"
)

// CartView is a cart with its computed totals.
type CartView struct {
	Lines      []state.CartLine `json:"lines"`
	Subtotal   int64            `json:"subtotal"`
	ServiceFee int64            `json:"service_fee"`
	Total      int64            `json:"total"`
}

// NewCartView prices a set of lines. An empty cart has no service fee.
func NewCartView(lines []state.CartLine) CartView {
	v := CartView{Lines: append([]state.CartLine{}, lines...)}
	v.Subtotal = CartTotal(lines)
	if len(lines) > 0 {
		v.ServiceFee = enum.ServiceFee
	}
	v.Total = v.Subtotal + v.ServiceFee
	return v
}

// CartTotal is the sum of price × quantity over all lines.
func CartTotal(lines []state.CartLine) int64 {
	var total int64
	for _, l := range lines {
		total += l.Subtotal()
	}
	return total
}

// CartService manages each customer's in-progress selection.
type CartService struct {
	app *state.App
}

func NewCartService(app *state.App) *CartService {
	return &CartService{app: app}
}

// AddLine adds one unit of a menu item to the actor's cart. Fails with
// ErrOutOfStock when the item has no stock; the cart is left unchanged.
func (s *CartService) AddLine(actor state.User, itemID string) (CartView, error) {
	if err := authorize(actor, enum.UserRoleCustomer); err != nil {
		return CartView{}, err
	}

	var view CartView
	err := s.app.Update(func(d *state.Data) error {
		idx := d.MenuIndex(itemID)
		if idx < 0 {
			return fmt.Errorf("menu item %s: %w", itemID, ErrNotFound)
		}
		item := d.Menu[idx]
		if item.Stock <= 0 {
			return fmt.Errorf("%s: %w", item.Name, ErrOutOfStock)
		}

		lines := d.Carts[actor.ID]
		found := false
		for i := range lines {
			if lines[i].ItemID == itemID {
				lines[i].Quantity++
				found = true
				break
			}
		}
		if !found {
			lines = append(lines, state.CartLine{
				ItemID:   item.ID,
				Name:     item.Name,
				Price:    item.Price,
				Category: item.Category,
				Quantity: 1,
			})
		}
		d.Carts[actor.ID] = lines
		view = NewCartView(lines)
		return nil
	})
	return view, err
}

// RemoveLine deletes the whole line for itemID. Removing an absent line is a no-op.
func (s *CartService) RemoveLine(actor state.User, itemID string) (CartView, error) {
	if err := authorize(actor, enum.UserRoleCustomer); err != nil {
		return CartView{}, err
	}

	var view CartView
	_ = s.app.Update(func(d *state.Data) error {
		lines := d.Carts[actor.ID]
		kept := lines[:0]
		for _, l := range lines {
			if l.ItemID != itemID {
				kept = append(kept, l)
			}
		}
		if len(kept) == 0 {
			delete(d.Carts, actor.ID)
		} else {
			d.Carts[actor.ID] = kept
		}
		view = NewCartView(kept)
		return nil
	})
	return view, nil
}

// Clear empties the actor's cart.
func (s *CartService) Clear(actor state.User) error {
	if err := authorize(actor, enum.UserRoleCustomer); err != nil {
		return err
	}
	return s.app.Update(func(d *state.Data) error {
		delete(d.Carts, actor.ID)
		return nil
	})
}

// Get returns the actor's cart.
func (s *CartService) Get(actor state.User) (CartView, error) {
	if err := authorize(actor, enum.UserRoleCustomer); err != nil {
		return CartView{}, err
	}
	var view CartView
	s.app.View(func(d *state.Data) {
		view = NewCartView(d.Carts[actor.ID])
	})
	return view, nil
}
