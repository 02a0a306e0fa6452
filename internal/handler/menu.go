package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/warteg-pro/api/internal/service"
	"github.com/warteg-pro/api/internal/state"
)

// CatalogServicer defines the catalog methods needed by menu handlers.
// Satisfied by *service.CatalogService.
type CatalogServicer interface {
	AddItem(actor state.User, spec service.CatalogItemSpec) (state.CatalogItem, error)
	UpdateItem(actor state.User, id string, patch service.CatalogItemPatch) (state.CatalogItem, error)
	RemoveItem(actor state.User, id string) error
	Get(id string) (state.CatalogItem, error)
	List(filter service.MenuFilter) []state.CatalogItem
	Categories() []string
}

// MenuHandler handles the public menu and admin menu management.
type MenuHandler struct {
	catalog CatalogServicer
}

func NewMenuHandler(catalog CatalogServicer) *MenuHandler {
	return &MenuHandler{catalog: catalog}
}

// RegisterRoutes registers the public menu endpoints: /menu
func (h *MenuHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Get("/categories", h.Categories)
	r.Get("/{id}", h.Get)
}

// RegisterAdminRoutes registers menu management: /admin/menu
func (h *MenuHandler) RegisterAdminRoutes(r chi.Router) {
	r.Post("/", h.Create)
	r.Patch("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
}

// --- Request / Response types ---

type createMenuItemRequest struct {
	Name        string `json:"name"`
	Price       int64  `json:"price"`
	Category    string `json:"category"`
	Description string `json:"description"`
	ImageURL    string `json:"image_url"`
	Stock       int    `json:"stock"`
}

type updateMenuItemRequest struct {
	Name        *string `json:"name"`
	Price       *int64  `json:"price"`
	Category    *string `json:"category"`
	Description *string `json:"description"`
	ImageURL    *string `json:"image_url"`
	Stock       *int    `json:"stock"`
}

// --- Handlers ---

// List handles GET /menu?category=&q=.
func (h *MenuHandler) List(w http.ResponseWriter, r *http.Request) {
	items := h.catalog.List(service.MenuFilter{
		Category: r.URL.Query().Get("category"),
		Query:    r.URL.Query().Get("q"),
	})
	writeJSON(w, http.StatusOK, items)
}

// Categories handles GET /menu/categories.
func (h *MenuHandler) Categories(w http.ResponseWriter, r *http.Request) {
	cats := h.catalog.Categories()
	if cats == nil {
		cats = []string{}
	}
	writeJSON(w, http.StatusOK, cats)
}

// Get handles GET /menu/{id}.
func (h *MenuHandler) Get(w http.ResponseWriter, r *http.Request) {
	item, err := h.catalog.Get(chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, r, "get menu item", err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

// Create handles POST /admin/menu.
func (h *MenuHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	var req createMenuItemRequest
	if !decodeBody(w, r, &req) {
		return
	}

	item, err := h.catalog.AddItem(actor, service.CatalogItemSpec{
		Name:        req.Name,
		Price:       req.Price,
		Category:    req.Category,
		Description: req.Description,
		ImageURL:    req.ImageURL,
		Stock:       req.Stock,
	})
	if err != nil {
		writeServiceError(w, r, "create menu item", err)
		return
	}
	writeJSON(w, http.StatusCreated, item)
}

// Update handles PATCH /admin/menu/{id}.
func (h *MenuHandler) Update(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	var req updateMenuItemRequest
	if !decodeBody(w, r, &req) {
		return
	}

	item, err := h.catalog.UpdateItem(actor, chi.URLParam(r, "id"), service.CatalogItemPatch{
		Name:        req.Name,
		Price:       req.Price,
		Category:    req.Category,
		Description: req.Description,
		ImageURL:    req.ImageURL,
		Stock:       req.Stock,
	})
	if err != nil {
		writeServiceError(w, r, "update menu item", err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

// Delete handles DELETE /admin/menu/{id}.
func (h *MenuHandler) Delete(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	if err := h.catalog.RemoveItem(actor, chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, r, "delete menu item", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
