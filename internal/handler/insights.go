package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/warteg-pro/api/internal/insight"
	"github.com/warteg-pro/api/internal/state"
)

// insightOrderWindow is how many of the newest orders go into the prompt.
const insightOrderWindow = 10

// Insighter is satisfied by *insight.Adapter.
type Insighter interface {
	RequestInsights(ctx context.Context, inventory []state.InventoryItem, orders []state.Order) *insight.Result
	Last() *insight.Result
	Pending() bool
}

// InsightSources supplies the snapshots sent with an insight request.
type InsightSources interface {
	Inventory(actor state.User) ([]state.InventoryItem, error)
	RecentOrders(actor state.User, limit int) ([]state.Order, error)
}

// InsightHandler serves the admin "smart insights" panel.
type InsightHandler struct {
	adapter Insighter
	sources InsightSources
}

func NewInsightHandler(adapter Insighter, sources InsightSources) *InsightHandler {
	return &InsightHandler{adapter: adapter, sources: sources}
}

// RegisterRoutes registers insight endpoints: /admin/insights
func (h *InsightHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.Latest)
	r.Post("/", h.Request)
}

type insightResponse struct {
	Insight *insight.Result `json:"insight"`
	Pending bool            `json:"pending"`
}

// Request handles POST /admin/insights. An upstream failure yields
// {"insight": null} rather than an error status.
func (h *InsightHandler) Request(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	inv, err := h.sources.Inventory(actor)
	if err != nil {
		writeServiceError(w, r, "insight inventory snapshot", err)
		return
	}
	orders, err := h.sources.RecentOrders(actor, insightOrderWindow)
	if err != nil {
		writeServiceError(w, r, "insight order snapshot", err)
		return
	}

	res := h.adapter.RequestInsights(r.Context(), inv, orders)
	writeJSON(w, http.StatusOK, insightResponse{Insight: res, Pending: h.adapter.Pending()})
}

// Latest handles GET /admin/insights.
func (h *InsightHandler) Latest(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, insightResponse{Insight: h.adapter.Last(), Pending: h.adapter.Pending()})
}

// ServiceSources adapts the inventory and order services to InsightSources.
type ServiceSources struct {
	Inv interface {
		List(state.User) ([]state.InventoryItem, error)
	}
	Orders interface {
		Recent(state.User, int) ([]state.Order, error)
	}
}

func (s ServiceSources) Inventory(actor state.User) ([]state.InventoryItem, error) {
	return s.Inv.List(actor)
}

func (s ServiceSources) RecentOrders(actor state.User, limit int) ([]state.Order, error) {
	return s.Orders.Recent(actor, limit)
}
