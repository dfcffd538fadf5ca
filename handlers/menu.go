package handlers

import (
	"net/http"
	"strings"

	"restaurant-api/models"
	"restaurant-api/store"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// ── Menu ────────────────────────────────────────────────────────────────────

type MenuItemRequest struct {
	Name        string           `json:"name" binding:"required"`
	Description string           `json:"description"`
	Category    string           `json:"category"`
	Price       *decimal.Decimal `json:"price" binding:"required"`
	IsAvailable *bool            `json:"is_available"`
}

type UpdateMenuItemRequest struct {
	Name        *string          `json:"name"`
	Description *string          `json:"description"`
	Category    *string          `json:"category"`
	Price       *decimal.Decimal `json:"price"`
	IsAvailable *bool            `json:"is_available"`
}

// ListMenu returns the menu, filterable by category and availability
func (h *Handler) ListMenu(c *gin.Context) {
	filter := store.MenuFilter{
		Category:      c.Query("category"),
		AvailableOnly: c.Query("available") == "true",
	}
	items, err := h.catalog.ListMenuItems(c.Request.Context(), filter)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(items), "menu": items})
}

func (h *Handler) CreateMenuItem(c *gin.Context) {
	var req MenuItemRequest
	if !bind(c, &req) {
		return
	}
	if !req.Price.IsPositive() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "price must be positive"})
		return
	}
	item := models.MenuItem{
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		Category:    req.Category,
		Price:       *req.Price,
		IsAvailable: req.IsAvailable == nil || *req.IsAvailable,
	}
	if err := h.catalog.CreateMenuItem(c.Request.Context(), &item); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Menu item added", "item": item})
}

// UpdateMenuItem changes catalog fields; orders already placed keep the
// price they were taken at.
func (h *Handler) UpdateMenuItem(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req UpdateMenuItemRequest
	if !bind(c, &req) {
		return
	}
	item, err := h.catalog.MenuItem(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	if req.Name != nil {
		item.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		item.Description = *req.Description
	}
	if req.Category != nil {
		item.Category = *req.Category
	}
	if req.Price != nil {
		if !req.Price.IsPositive() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "price must be positive"})
			return
		}
		item.Price = *req.Price
	}
	if req.IsAvailable != nil {
		item.IsAvailable = *req.IsAvailable
	}
	if err := h.catalog.UpdateMenuItem(c.Request.Context(), item); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Menu item updated", "item": item})
}

func (h *Handler) DeleteMenuItem(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.catalog.DeleteMenuItem(c.Request.Context(), id); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Menu item deleted"})
}

// ── Tables ──────────────────────────────────────────────────────────────────

type TableRequest struct {
	Number   string `json:"number" binding:"required"`
	Seats    int    `json:"seats" binding:"required,min=1"`
	Area     string `json:"area"`
	IsActive *bool  `json:"is_active"`
}

type UpdateTableRequest struct {
	Seats    *int    `json:"seats" binding:"omitempty,min=1"`
	Area     *string `json:"area"`
	IsActive *bool   `json:"is_active"`
}

func (h *Handler) ListTables(c *gin.Context) {
	tables, err := h.catalog.ListTables(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(tables), "tables": tables})
}

func (h *Handler) CreateTable(c *gin.Context) {
	var req TableRequest
	if !bind(c, &req) {
		return
	}
	table := models.Table{
		Number:   strings.TrimSpace(req.Number),
		Seats:    req.Seats,
		Area:     req.Area,
		IsActive: req.IsActive == nil || *req.IsActive,
	}
	if err := h.catalog.CreateTable(c.Request.Context(), &table); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Table created", "table": table})
}

func (h *Handler) UpdateTable(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req UpdateTableRequest
	if !bind(c, &req) {
		return
	}
	table, err := h.catalog.Table(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	if req.Seats != nil {
		table.Seats = *req.Seats
	}
	if req.Area != nil {
		table.Area = *req.Area
	}
	if req.IsActive != nil {
		table.IsActive = *req.IsActive
	}
	if err := h.catalog.UpdateTable(c.Request.Context(), table); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Table updated", "table": table})
}
