package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/warteg-pro/api/internal/enum"
	"github.com/warteg-pro/api/internal/state"
)

// ReviewService is the append-only customer feedback ledger.
type ReviewService struct {
	app *state.App
	now func() time.Time
}

func NewReviewService(app *state.App) *ReviewService {
	return &ReviewService{app: app, now: time.Now}
}

// Submit records a review for one of the actor's completed orders.
// More than one review per order is accepted.
func (s *ReviewService) Submit(actor state.User, orderID string, rating int, comment string) (state.Review, error) {
	if err := authorize(actor, enum.UserRoleCustomer); err != nil {
		return state.Review{}, err
	}
	if rating < 1 || rating > 5 {
		return state.Review{}, fmt.Errorf("%w: rating must be between 1 and 5", ErrValidation)
	}

	review := state.Review{
		ID:        uuid.NewString(),
		OrderID:   orderID,
		Rating:    rating,
		Comment:   strings.TrimSpace(comment),
		UserName:  actor.Name,
		CreatedAt: s.now(),
	}
	err := s.app.Update(func(d *state.Data) error {
		idx := d.OrderIndex(orderID)
		if idx < 0 {
			return fmt.Errorf("order %s: %w", orderID, ErrNotFound)
		}
		o := d.Orders[idx]
		if o.CustomerID != actor.ID {
			return fmt.Errorf("%w: order %s belongs to another customer", ErrPermission, orderID)
		}
		if o.Status != enum.OrderStatusCompleted {
			return fmt.Errorf("%w: order %s is %s, not COMPLETED", ErrInvalidState, orderID, o.Status)
		}
		d.Reviews = append(d.Reviews, review)
		return nil
	})
	if err != nil {
		return state.Review{}, err
	}
	return review, nil
}

// List returns every review, oldest first. Admin only.
func (s *ReviewService) List(actor state.User) ([]state.Review, error) {
	if err := authorize(actor, enum.UserRoleAdmin); err != nil {
		return nil, err
	}
	var reviews []state.Review
	s.app.View(func(d *state.Data) {
		reviews = append([]state.Review{}, d.Reviews...)
	})
	return reviews, nil
}
