package handlers

import (
	"encoding/json"
	"net/http"

	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/garageos/workshop-manager/internal/analytics"
	"github.com/garageos/workshop-manager/internal/db"
	"github.com/garageos/workshop-manager/internal/models"
)

// InventoryHandler serves the parts ledger. Stock is a bookkeeping figure
// only; approving a part request never decrements it.
type InventoryHandler struct {
	inventory         db.InventoryCollection
	lowStockThreshold int
}

// NewInventoryHandler creates a new inventory handler
func NewInventoryHandler(inventory db.InventoryCollection, lowStockThreshold int) *InventoryHandler {
	return &InventoryHandler{inventory: inventory, lowStockThreshold: lowStockThreshold}
}

// CreateItem handles POST /api/inventory
func (h *InventoryHandler) CreateItem(w http.ResponseWriter, r *http.Request) {
	var item models.InventoryItem
	if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if item.Name == "" {
		writeError(w, http.StatusBadRequest, "Item name is required")
		return
	}
	if item.Price < 0 || item.Stock < 0 {
		writeError(w, http.StatusBadRequest, "Price and stock must not be negative")
		return
	}

	// Names are the approval lookup key, so keep them unique.
	if _, err := h.inventory.FindItemByName(r.Context(), item.Name); err == nil {
		writeError(w, http.StatusConflict, "Item with this name already exists")
		return
	}

	id, err := h.inventory.InsertItem(r.Context(), item)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	created, err := h.inventory.FindItemByID(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	log.WithField("item", created.Name).Info("Inventory item created")
	writeJSON(w, http.StatusCreated, created)
}

// ListItems handles GET /api/inventory with an optional category filter
func (h *InventoryHandler) ListItems(w http.ResponseWriter, r *http.Request) {
	filter := bson.M{}
	if category := r.URL.Query().Get("category"); category != "" {
		filter["category"] = category
	}
	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	items, err := h.inventory.FindItems(r.Context(), filter, opts)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

// GetItem handles GET /api/inventory/{id}
func (h *InventoryHandler) GetItem(w http.ResponseWriter, r *http.Request) {
	item, err := h.inventory.FindItemByID(r.Context(), r.PathValue("id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

// PatchItem handles PATCH /api/inventory/{id}
func (h *InventoryHandler) PatchItem(w http.ResponseWriter, r *http.Request) {
	var fields map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if len(fields) == 0 {
		writeError(w, http.StatusBadRequest, "No fields to update")
		return
	}
	if err := h.inventory.PatchItem(r.Context(), r.PathValue("id"), bson.M(fields)); err != nil {
		writeDomainError(w, err)
		return
	}
	item, err := h.inventory.FindItemByID(r.Context(), r.PathValue("id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

// DeleteItem handles DELETE /api/inventory/{id}
func (h *InventoryHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	if err := h.inventory.DeleteItem(r.Context(), r.PathValue("id")); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Item deleted"})
}

// StockAlerts handles GET /api/inventory/alerts
func (h *InventoryHandler) StockAlerts(w http.ResponseWriter, r *http.Request) {
	items, err := h.inventory.FindItems(r.Context(), bson.M{})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, analytics.LowStock(items, h.lowStockThreshold))
}
