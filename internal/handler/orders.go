package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/warteg-pro/api/internal/enum"
	"github.com/warteg-pro/api/internal/service"
	"github.com/warteg-pro/api/internal/state"
	"github.com/warteg-pro/api/internal/ws"
)

// OrderServicer defines the service methods needed by order handlers.
// Satisfied by *service.OrderService; narrow interface for testability.
type OrderServicer interface {
	Checkout(actor state.User, method string) (state.Order, error)
	AdvanceStatus(actor state.User, orderID, newStatus string) (state.Order, error)
	ConfirmPayment(actor state.User, orderID string) (state.Order, error)
	Get(actor state.User, orderID string) (state.Order, error)
	List(actor state.User, filter service.OrderFilter) []state.Order
	Queue(actor state.User) (service.KitchenQueue, error)
}

// OrderPublisher pushes order changes to connected clients.
// Satisfied by *ws.Hub.
type OrderPublisher interface {
	PublishOrder(eventType string, order state.Order)
}

// OrderHandler handles checkout, order reads, kitchen status updates and
// payment confirmation.
type OrderHandler struct {
	orders    OrderServicer
	publisher OrderPublisher
}

func NewOrderHandler(orders OrderServicer, publisher OrderPublisher) *OrderHandler {
	return &OrderHandler{orders: orders, publisher: publisher}
}

// RegisterRoutes registers order reads: /orders
// Checkout is mounted separately so it can be restricted to customers.
func (h *OrderHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Get("/{id}", h.Get)
}

// RegisterKitchenRoutes registers the kitchen board: /kitchen
func (h *OrderHandler) RegisterKitchenRoutes(r chi.Router) {
	r.Get("/queue", h.Queue)
	r.Patch("/orders/{id}/status", h.UpdateStatus)
}

// RegisterAdminRoutes registers admin order endpoints: /admin/orders
func (h *OrderHandler) RegisterAdminRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/{id}/confirm-payment", h.ConfirmPayment)
}

// --- Request types ---

type checkoutRequest struct {
	PaymentMethod string `json:"payment_method"`
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

// --- Handlers ---

// Checkout handles POST /orders.
func (h *OrderHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	var req checkoutRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.PaymentMethod == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "payment_method is required"})
		return
	}

	order, err := h.orders.Checkout(actor, req.PaymentMethod)
	if err != nil {
		writeServiceError(w, r, "checkout", err)
		return
	}
	h.publisher.PublishOrder(ws.EventOrderCreated, order)
	writeJSON(w, http.StatusCreated, order)
}

// List handles GET /orders?status=&payment_status=. Customers see only
// their own orders.
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	filter := service.OrderFilter{
		Status:        r.URL.Query().Get("status"),
		PaymentStatus: r.URL.Query().Get("payment_status"),
	}
	if filter.Status != "" && !enum.IsValidOrderStatus(filter.Status) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid status filter"})
		return
	}
	writeJSON(w, http.StatusOK, h.orders.List(actor, filter))
}

// Get handles GET /orders/{id}.
func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	order, err := h.orders.Get(actor, chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, r, "get order", err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

// Queue handles GET /kitchen/queue.
func (h *OrderHandler) Queue(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	q, err := h.orders.Queue(actor)
	if err != nil {
		writeServiceError(w, r, "kitchen queue", err)
		return
	}
	writeJSON(w, http.StatusOK, q)
}

// UpdateStatus handles PATCH /kitchen/orders/{id}/status.
func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	var req updateStatusRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Status == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "status is required"})
		return
	}

	order, err := h.orders.AdvanceStatus(actor, chi.URLParam(r, "id"), req.Status)
	if err != nil {
		writeServiceError(w, r, "update order status", err)
		return
	}
	h.publisher.PublishOrder(ws.EventOrderStatusChanged, order)
	writeJSON(w, http.StatusOK, order)
}

// ConfirmPayment handles POST /admin/orders/{id}/confirm-payment.
func (h *OrderHandler) ConfirmPayment(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	order, err := h.orders.ConfirmPayment(actor, chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, r, "confirm payment", err)
		return
	}
	h.publisher.PublishOrder(ws.EventOrderPaymentConfirmed, order)
	writeJSON(w, http.StatusOK, order)
}
