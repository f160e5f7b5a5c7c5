package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/pujakart/promotion-service/internal/models"
	"github.com/pujakart/promotion-service/internal/repository"
	"github.com/pujakart/promotion-service/internal/service"
)

type UpsertCatalogItemRequest struct {
	InternalID  *string         `json:"internal_id"`
	Name        string          `json:"name"`
	Category    string          `json:"category"`
	Price       decimal.Decimal `json:"price"`
	ImageURL    string          `json:"image_url"`
	Description string          `json:"description"`
	IsActive    *bool           `json:"is_active"`
}

type CatalogHandler struct {
	service *service.CatalogService
}

func NewCatalogHandler(svc *service.CatalogService) *CatalogHandler {
	return &CatalogHandler{service: svc}
}

// Resolve handles GET /catalog/{kind}/{key}. The key may be a store id or a
// custom id; store-id interpretation wins. A miss is 404, not an error.
func (h *CatalogHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	kind, ok := parseKind(w, r)
	if !ok {
		return
	}

	item, err := h.service.Resolve(r.Context(), kind, chi.URLParam(r, "key"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed_resolve_item")
		return
	}
	if item == nil {
		writeError(w, http.StatusNotFound, "not_found")
		return
	}
	writeJSON(w, http.StatusOK, item)
}

// List handles GET /catalog/{kind}. Every item carries both its store id and
// any custom internal id so admin screens can tell the two apart.
func (h *CatalogHandler) List(w http.ResponseWriter, r *http.Request) {
	kind, ok := parseKind(w, r)
	if !ok {
		return
	}

	items, err := h.service.List(r.Context(), kind)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed_list_items")
		return
	}
	if items == nil {
		items = []models.CatalogItem{}
	}
	writeJSON(w, http.StatusOK, items)
}

// NextInternalID handles GET /admin/catalog/{kind}/next-internal-id.
func (h *CatalogHandler) NextInternalID(w http.ResponseWriter, r *http.Request) {
	kind, ok := parseKind(w, r)
	if !ok {
		return
	}

	next, err := h.service.NextInternalID(r.Context(), kind)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed_next_internal_id")
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"next_internal_id": next})
}

// Create handles POST /admin/catalog/{kind}.
func (h *CatalogHandler) Create(w http.ResponseWriter, r *http.Request) {
	kind, ok := parseKind(w, r)
	if !ok {
		return
	}

	var req UpsertCatalogItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body")
		return
	}

	item, err := h.service.CreateItem(r.Context(), kind, catalogItemFromRequest(req))
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, item)
}

// Update handles PUT /admin/catalog/{kind}/{id}. The id here is always the
// store-assigned identifier.
func (h *CatalogHandler) Update(w http.ResponseWriter, r *http.Request) {
	kind, ok := parseKind(w, r)
	if !ok {
		return
	}

	var req UpsertCatalogItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body")
		return
	}

	item := catalogItemFromRequest(req)
	item.ID = chi.URLParam(r, "id")

	item, err := h.service.UpdateItem(r.Context(), kind, item)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (h *CatalogHandler) writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrNameEmpty):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, repository.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found")
	default:
		writeError(w, http.StatusInternalServerError, "internal_error")
	}
}

func parseKind(w http.ResponseWriter, r *http.Request) (models.CatalogKind, bool) {
	kind, ok := models.ParseCatalogKind(chi.URLParam(r, "kind"))
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid_kind")
		return "", false
	}
	return kind, true
}

func catalogItemFromRequest(req UpsertCatalogItemRequest) models.CatalogItem {
	return models.CatalogItem{
		InternalID:  req.InternalID,
		Name:        req.Name,
		Category:    req.Category,
		Price:       req.Price,
		ImageURL:    req.ImageURL,
		Description: req.Description,
		IsActive:    activeOrDefault(req.IsActive),
	}
}
