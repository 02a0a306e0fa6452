package service

import (
	"encoding/binary"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/warteg-pro/api/internal/enum"
	"github.com/warteg-pro/api/internal/metrics"
	"github.com/warteg-pro/api/internal/state"
)

const (
	maxOrderIDRetries = 3
	orderIDLength     = 6

	// recentCompletedLimit caps the kitchen's "recently cooked" list.
	recentCompletedLimit = 10
)

// allowedTransitions defines valid status transitions.
// Forward-only; skipping intermediate states is allowed. COMPLETED is terminal.
var allowedTransitions = map[string][]string{
	enum.OrderStatusPending:   {enum.OrderStatusPreparing, enum.OrderStatusReady, enum.OrderStatusCompleted},
	enum.OrderStatusPreparing: {enum.OrderStatusReady, enum.OrderStatusCompleted},
	enum.OrderStatusReady:     {enum.OrderStatusCompleted},
}

// validateStatusTransition checks if the transition from current to next is allowed.
func validateStatusTransition(current, next string) error {
	allowed, ok := allowedTransitions[current]
	if !ok {
		return fmt.Errorf("%w: cannot transition from %s", ErrInvalidTransition, current)
	}
	if !slices.Contains(allowed, next) {
		return fmt.Errorf("%w: cannot transition from %s to %s", ErrInvalidTransition, current, next)
	}
	return nil
}

// OrderFilter narrows List. Empty Status matches everything.
type OrderFilter struct {
	Status        string
	PaymentStatus string
}

// KitchenQueue is the kitchen's working view.
type KitchenQueue struct {
	Active          []state.Order `json:"active"`
	RecentCompleted []state.Order `json:"recent_completed"`
	CompletedCount  int           `json:"completed_count"`
}

// OrderService is the order lifecycle engine: checkout, status and payment.
type OrderService struct {
	app   *state.App
	now   func() time.Time
	newID func() string
}

func NewOrderService(app *state.App) *OrderService {
	return &OrderService{app: app, now: time.Now, newID: newOrderCode}
}

// Checkout turns the actor's cart into an order. Catalog stock is
// decremented per line (clamped at zero) and the cart is emptied.
// E-wallet methods settle immediately; VA and CASH start UNPAID.
func (s *OrderService) Checkout(actor state.User, method string) (state.Order, error) {
	if err := authorize(actor, enum.UserRoleCustomer); err != nil {
		return state.Order{}, err
	}
	method = strings.ToUpper(strings.TrimSpace(method))
	if !enum.IsValidPaymentMethod(method) {
		return state.Order{}, fmt.Errorf("%w: unknown payment method %q", ErrValidation, method)
	}

	now := s.now()
	var order state.Order
	err := s.app.Update(func(d *state.Data) error {
		lines := d.Carts[actor.ID]
		if len(lines) == 0 {
			return ErrEmptyCart
		}

		id, err := s.uniqueOrderID(d)
		if err != nil {
			return err
		}

		paymentStatus := enum.PaymentStatusUnpaid
		if enum.IsEWallet(method) {
			paymentStatus = enum.PaymentStatusPaid
		}

		subtotal := CartTotal(lines)
		order = state.Order{
			ID:            id,
			CustomerID:    actor.ID,
			CustomerName:  actor.Name,
			Items:         append([]state.CartLine(nil), lines...),
			Subtotal:      subtotal,
			ServiceFee:    enum.ServiceFee,
			Total:         subtotal + enum.ServiceFee,
			Status:        enum.OrderStatusPending,
			PaymentMethod: method,
			PaymentStatus: paymentStatus,
			CreatedAt:     now,
			UpdatedAt:     now,
		}

		// Items removed from the menu since they were carted have no stock to decrement.
		for _, l := range lines {
			decrementStock(d, l.ItemID, l.Quantity)
		}

		d.Orders = append(d.Orders, order)
		delete(d.Carts, actor.ID)
		return nil
	})
	if err != nil {
		return state.Order{}, err
	}

	metrics.OrdersCreated.WithLabelValues(method).Inc()
	return state.CloneOrder(order), nil
}

// uniqueOrderID retries up to maxOrderIDRetries times on a code collision.
func (s *OrderService) uniqueOrderID(d *state.Data) (string, error) {
	for attempt := 0; attempt < maxOrderIDRetries; attempt++ {
		id := s.newID()
		if d.OrderIndex(id) < 0 {
			return id, nil
		}
	}
	return "", fmt.Errorf("generate order id: %w", ErrConflict)
}

// AdvanceStatus moves an order to newStatus. Entering COMPLETED requires
// the order to be PAID.
func (s *OrderService) AdvanceStatus(actor state.User, orderID, newStatus string) (state.Order, error) {
	if err := authorize(actor, enum.UserRoleKitchen, enum.UserRoleAdmin); err != nil {
		return state.Order{}, err
	}
	newStatus = strings.ToUpper(strings.TrimSpace(newStatus))
	if !enum.IsValidOrderStatus(newStatus) {
		return state.Order{}, fmt.Errorf("%w: invalid status %q", ErrValidation, newStatus)
	}

	var updated state.Order
	err := s.app.Update(func(d *state.Data) error {
		idx := d.OrderIndex(orderID)
		if idx < 0 {
			return fmt.Errorf("order %s: %w", orderID, ErrNotFound)
		}
		o := &d.Orders[idx]
		if err := validateStatusTransition(o.Status, newStatus); err != nil {
			return err
		}
		if newStatus == enum.OrderStatusCompleted && o.PaymentStatus != enum.PaymentStatusPaid {
			return fmt.Errorf("%w: order %s must be paid before completion", ErrInvalidTransition, orderID)
		}
		o.Status = newStatus
		o.UpdatedAt = s.now()
		updated = state.CloneOrder(*o)
		return nil
	})
	if err != nil {
		return state.Order{}, err
	}

	metrics.OrderTransitions.WithLabelValues(newStatus).Inc()
	return updated, nil
}

// ConfirmPayment marks an order PAID. Confirming a paid order is a no-op.
func (s *OrderService) ConfirmPayment(actor state.User, orderID string) (state.Order, error) {
	if err := authorize(actor, enum.UserRoleAdmin); err != nil {
		return state.Order{}, err
	}

	var (
		updated state.Order
		changed bool
	)
	err := s.app.Update(func(d *state.Data) error {
		idx := d.OrderIndex(orderID)
		if idx < 0 {
			return fmt.Errorf("order %s: %w", orderID, ErrNotFound)
		}
		o := &d.Orders[idx]
		if o.PaymentStatus != enum.PaymentStatusPaid {
			o.PaymentStatus = enum.PaymentStatusPaid
			o.UpdatedAt = s.now()
			changed = true
		}
		updated = state.CloneOrder(*o)
		return nil
	})
	if err != nil {
		return state.Order{}, err
	}

	if changed {
		metrics.PaymentsConfirmed.Inc()
	}
	return updated, nil
}

// Get returns one order. Customers may only read their own.
func (s *OrderService) Get(actor state.User, orderID string) (state.Order, error) {
	var (
		o     state.Order
		found bool
	)
	s.app.View(func(d *state.Data) {
		if idx := d.OrderIndex(orderID); idx >= 0 {
			o, found = state.CloneOrder(d.Orders[idx]), true
		}
	})
	if !found || (actor.Role == enum.UserRoleCustomer && o.CustomerID != actor.ID) {
		return state.Order{}, fmt.Errorf("order %s: %w", orderID, ErrNotFound)
	}
	return o, nil
}

// List returns orders most-recent-first. Customers see only their own.
func (s *OrderService) List(actor state.User, filter OrderFilter) []state.Order {
	result := []state.Order{}
	s.app.View(func(d *state.Data) {
		for i := len(d.Orders) - 1; i >= 0; i-- {
			o := d.Orders[i]
			if actor.Role == enum.UserRoleCustomer && o.CustomerID != actor.ID {
				continue
			}
			if filter.Status != "" && o.Status != filter.Status {
				continue
			}
			if filter.PaymentStatus != "" && o.PaymentStatus != filter.PaymentStatus {
				continue
			}
			result = append(result, state.CloneOrder(o))
		}
	})
	return result
}

// Recent returns up to limit of the newest orders, oldest first. Staff only.
func (s *OrderService) Recent(actor state.User, limit int) ([]state.Order, error) {
	if err := authorize(actor, enum.UserRoleKitchen, enum.UserRoleAdmin); err != nil {
		return nil, err
	}
	var result []state.Order
	s.app.View(func(d *state.Data) {
		start := max(0, len(d.Orders)-limit)
		for _, o := range d.Orders[start:] {
			result = append(result, state.CloneOrder(o))
		}
	})
	return result, nil
}

// Queue returns the kitchen view: every non-completed order plus the most
// recent completed ones.
func (s *OrderService) Queue(actor state.User) (KitchenQueue, error) {
	if err := authorize(actor, enum.UserRoleKitchen, enum.UserRoleAdmin); err != nil {
		return KitchenQueue{}, err
	}
	q := KitchenQueue{Active: []state.Order{}, RecentCompleted: []state.Order{}}
	for _, o := range s.List(actor, OrderFilter{}) {
		if o.Status != enum.OrderStatusCompleted {
			q.Active = append(q.Active, o)
			continue
		}
		q.CompletedCount++
		if len(q.RecentCompleted) < recentCompletedLimit {
			q.RecentCompleted = append(q.RecentCompleted, o)
		}
	}
	return q, nil
}

// newOrderCode returns a short uppercase base36 code, e.g. "K3ZQ9A".
func newOrderCode() string {
	id := uuid.New()
	s := strconv.FormatUint(binary.BigEndian.Uint64(id[:8]), 36)
	if len(s) < orderIDLength {
		s = strings.Repeat("0", orderIDLength-len(s)) + s
	}
	return strings.ToUpper(s[len(s)-orderIDLength:])
}
