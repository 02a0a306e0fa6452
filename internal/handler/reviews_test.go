package handler_test

import (
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/warteg-pro/api/internal/handler"
	"github.com/warteg-pro/api/internal/state"
)

func newReviewRouter(env *testEnv) *chi.Mux {
	h := handler.NewReviewHandler(env.reviews)
	return newRouter(func(r chi.Router) {
		r.Route("/reviews", h.RegisterRoutes)
		r.Get("/admin/reviews", h.List)
	})
}

func TestSubmitReview(t *testing.T) {
	env := newTestEnv()
	router := newReviewRouter(env)
	o := env.placeOrder(t, customer, "OVO", "1")

	body := map[string]interface{}{"order_id": o.ID, "rating": 5, "comment": "Enak!"}
	expectStatus(t, doAuthRequest(t, router, "POST", "/reviews", body, &customer), http.StatusConflict)

	if _, err := env.orders.AdvanceStatus(kitchenUser, o.ID, "COMPLETED"); err != nil {
		t.Fatalf("complete: %v", err)
	}
	rr := doAuthRequest(t, router, "POST", "/reviews", body, &customer)
	expectStatus(t, rr, http.StatusCreated)
	var review state.Review
	decodeResponse(t, rr, &review)
	if review.UserName != "Budi" || review.Rating != 5 {
		t.Errorf("review: %+v", review)
	}

	rr = doAuthRequest(t, router, "GET", "/admin/reviews", nil, &adminUser)
	expectStatus(t, rr, http.StatusOK)
	var reviews []state.Review
	decodeResponse(t, rr, &reviews)
	if len(reviews) != 1 {
		t.Errorf("reviews: got %d, want 1", len(reviews))
	}
}

func TestSubmitReview_Errors(t *testing.T) {
	env := newTestEnv()
	router := newReviewRouter(env)
	o := env.placeOrder(t, customer, "OVO", "1")
	if _, err := env.orders.AdvanceStatus(kitchenUser, o.ID, "COMPLETED"); err != nil {
		t.Fatalf("complete: %v", err)
	}

	tests := []struct {
		name  string
		body  map[string]interface{}
		actor state.User
		want  int
	}{
		{"missing order", map[string]interface{}{"rating": 4}, customer, http.StatusBadRequest},
		{"rating too high", map[string]interface{}{"order_id": o.ID, "rating": 6}, customer, http.StatusBadRequest},
		{"unknown order", map[string]interface{}{"order_id": "NOPE00", "rating": 4}, customer, http.StatusNotFound},
		{"not owner", map[string]interface{}{"order_id": o.ID, "rating": 4}, customer2, http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			actor := tt.actor
			expectStatus(t, doAuthRequest(t, router, "POST", "/reviews", tt.body, &actor), tt.want)
		})
	}
}
