package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/warteg-pro/api/internal/service"
	"github.com/warteg-pro/api/internal/state"
)

// InventoryServicer is satisfied by *service.InventoryService.
type InventoryServicer interface {
	AddItem(actor state.User, spec service.InventoryItemSpec) (state.InventoryItem, error)
	Refill(actor state.User, id string, amount decimal.Decimal) (state.InventoryItem, error)
	RecordUsage(actor state.User, usage []service.UsageInput, note string) (state.InventoryReport, error)
	RecordUsageText(actor state.User, text, note string) (state.InventoryReport, []string, error)
	List(actor state.User) ([]state.InventoryItem, error)
	LowStock(actor state.User) ([]state.InventoryItem, error)
	Reports(actor state.User) ([]state.InventoryReport, error)
}

// InventoryHandler handles raw-material stock and kitchen usage reports.
type InventoryHandler struct {
	inv InventoryServicer
}

func NewInventoryHandler(inv InventoryServicer) *InventoryHandler {
	return &InventoryHandler{inv: inv}
}

// RegisterRoutes registers staff read endpoints: /inventory
func (h *InventoryHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Get("/low", h.LowStock)
}

// RegisterAdminRoutes registers stock management: /admin/inventory
func (h *InventoryHandler) RegisterAdminRoutes(r chi.Router) {
	r.Post("/", h.Create)
	r.Post("/{id}/refill", h.Refill)
}

// --- Request / Response types ---

type createInventoryItemRequest struct {
	Name     string          `json:"name"`
	Quantity decimal.Decimal `json:"quantity"`
	Unit     string          `json:"unit"`
	MinStock decimal.Decimal `json:"min_stock"`
}

type refillRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

type usageReportRequest struct {
	Items []usageLineRequest `json:"items"`
	Note  string             `json:"note"`
}

type usageLineRequest struct {
	ItemID string          `json:"item_id"`
	Amount decimal.Decimal `json:"amount"`
}

type usageTextRequest struct {
	Text string `json:"text"`
	Note string `json:"note"`
}

type usageTextResponse struct {
	Report   state.InventoryReport `json:"report"`
	Warnings []string              `json:"warnings"`
}

type inventoryItemResponse struct {
	state.InventoryItem
	Low bool `json:"low"`
}

func toInventoryResponses(items []state.InventoryItem) []inventoryItemResponse {
	resp := make([]inventoryItemResponse, len(items))
	for i, item := range items {
		resp[i] = inventoryItemResponse{InventoryItem: item, Low: service.IsLow(item)}
	}
	return resp
}

// --- Handlers ---

// List handles GET /inventory.
func (h *InventoryHandler) List(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	items, err := h.inv.List(actor)
	if err != nil {
		writeServiceError(w, r, "list inventory", err)
		return
	}
	writeJSON(w, http.StatusOK, toInventoryResponses(items))
}

// LowStock handles GET /inventory/low.
func (h *InventoryHandler) LowStock(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	items, err := h.inv.LowStock(actor)
	if err != nil {
		writeServiceError(w, r, "list low stock", err)
		return
	}
	writeJSON(w, http.StatusOK, toInventoryResponses(items))
}

// Create handles POST /admin/inventory.
func (h *InventoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	var req createInventoryItemRequest
	if !decodeBody(w, r, &req) {
		return
	}

	item, err := h.inv.AddItem(actor, service.InventoryItemSpec{
		Name:     req.Name,
		Quantity: req.Quantity,
		Unit:     req.Unit,
		MinStock: req.MinStock,
	})
	if err != nil {
		writeServiceError(w, r, "create inventory item", err)
		return
	}
	writeJSON(w, http.StatusCreated, inventoryItemResponse{InventoryItem: item, Low: service.IsLow(item)})
}

// Refill handles POST /admin/inventory/{id}/refill.
func (h *InventoryHandler) Refill(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	var req refillRequest
	if !decodeBody(w, r, &req) {
		return
	}

	item, err := h.inv.Refill(actor, chi.URLParam(r, "id"), req.Amount)
	if err != nil {
		writeServiceError(w, r, "refill inventory", err)
		return
	}
	writeJSON(w, http.StatusOK, inventoryItemResponse{InventoryItem: item, Low: service.IsLow(item)})
}

// RecordUsage handles POST /kitchen/reports.
func (h *InventoryHandler) RecordUsage(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	var req usageReportRequest
	if !decodeBody(w, r, &req) {
		return
	}

	usage := make([]service.UsageInput, len(req.Items))
	for i, l := range req.Items {
		usage[i] = service.UsageInput{ItemID: l.ItemID, Amount: l.Amount}
	}

	report, err := h.inv.RecordUsage(actor, usage, req.Note)
	if err != nil {
		writeServiceError(w, r, "record usage", err)
		return
	}
	writeJSON(w, http.StatusCreated, report)
}

// RecordUsageText handles POST /kitchen/reports/text with a free-text note,
// one "item amount [unit]" per line.
func (h *InventoryHandler) RecordUsageText(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	var req usageTextRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "text is required"})
		return
	}

	report, warnings, err := h.inv.RecordUsageText(actor, req.Text, req.Note)
	if err != nil {
		if errors.Is(err, service.ErrValidation) {
			writeJSON(w, http.StatusBadRequest, map[string]interface{}{
				"error":    err.Error(),
				"warnings": warnings,
			})
			return
		}
		writeServiceError(w, r, "record usage text", err)
		return
	}
	if warnings == nil {
		warnings = []string{}
	}
	writeJSON(w, http.StatusCreated, usageTextResponse{Report: report, Warnings: warnings})
}

// Reports handles GET /admin/reports.
func (h *InventoryHandler) Reports(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	reports, err := h.inv.Reports(actor)
	if err != nil {
		writeServiceError(w, r, "list usage reports", err)
		return
	}
	writeJSON(w, http.StatusOK, reports)
}
