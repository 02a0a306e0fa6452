package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/warteg-pro/api/internal/service"
	"github.com/warteg-pro/api/internal/state"
)

// CartServicer is satisfied by *service.CartService.
type CartServicer interface {
	AddLine(actor state.User, itemID string) (service.CartView, error)
	RemoveLine(actor state.User, itemID string) (service.CartView, error)
	Clear(actor state.User) error
	Get(actor state.User) (service.CartView, error)
}

type CartHandler struct {
	cart CartServicer
}

func NewCartHandler(cart CartServicer) *CartHandler {
	return &CartHandler{cart: cart}
}

// RegisterRoutes registers cart endpoints: /cart
func (h *CartHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.Get)
	r.Delete("/", h.Clear)
	r.Post("/items", h.AddItem)
	r.Delete("/items/{itemID}", h.RemoveItem)
}

type addCartItemRequest struct {
	ItemID string `json:"item_id"`
}

// Get handles GET /cart.
func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	view, err := h.cart.Get(actor)
	if err != nil {
		writeServiceError(w, r, "get cart", err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// AddItem handles POST /cart/items. Adding an item already in the cart
// increments its quantity.
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	var req addCartItemRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.ItemID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "item_id is required"})
		return
	}

	view, err := h.cart.AddLine(actor, req.ItemID)
	if err != nil {
		writeServiceError(w, r, "add cart item", err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// RemoveItem handles DELETE /cart/items/{itemID}.
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	view, err := h.cart.RemoveLine(actor, chi.URLParam(r, "itemID"))
	if err != nil {
		writeServiceError(w, r, "remove cart item", err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// Clear handles DELETE /cart.
func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	if err := h.cart.Clear(actor); err != nil {
		writeServiceError(w, r, "clear cart", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
