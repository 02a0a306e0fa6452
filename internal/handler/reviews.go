package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/warteg-pro/api/internal/state"
)

// ReviewServicer is satisfied by *service.ReviewService.
type ReviewServicer interface {
	Submit(actor state.User, orderID string, rating int, comment string) (state.Review, error)
	List(actor state.User) ([]state.Review, error)
}

type ReviewHandler struct {
	reviews ReviewServicer
}

func NewReviewHandler(reviews ReviewServicer) *ReviewHandler {
	return &ReviewHandler{reviews: reviews}
}

// RegisterRoutes registers customer review submission: /reviews
func (h *ReviewHandler) RegisterRoutes(r chi.Router) {
	r.Post("/", h.Submit)
}

type submitReviewRequest struct {
	OrderID string `json:"order_id"`
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

// Submit handles POST /reviews.
func (h *ReviewHandler) Submit(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	var req submitReviewRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.OrderID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "order_id is required"})
		return
	}

	review, err := h.reviews.Submit(actor, req.OrderID, req.Rating, req.Comment)
	if err != nil {
		writeServiceError(w, r, "submit review", err)
		return
	}
	writeJSON(w, http.StatusCreated, review)
}

// List handles GET /admin/reviews.
func (h *ReviewHandler) List(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	reviews, err := h.reviews.List(actor)
	if err != nil {
		writeServiceError(w, r, "list reviews", err)
		return
	}
	writeJSON(w, http.StatusOK, reviews)
}
