package handlers

import (
	"net/http"

	"restaurant-api/middleware"
	"restaurant-api/models"
	"restaurant-api/service"

	"github.com/gin-gonic/gin"
)

type AdvanceKitchenRequest struct {
	Status models.KitchenStatus `json:"status" binding:"required,kitchen_status"`
}

type UpdateKitchenRequest struct {
	StaffID       *uint `json:"staff_id"`
	Priority      *int  `json:"priority"`
	EstimatedTime *int  `json:"estimated_time" binding:"omitempty,min=0"`
}

// KitchenQueue is the kitchen display: waiting and in-progress tickets,
// highest priority first
func (h *Handler) KitchenQueue(c *gin.Context) {
	queue, err := h.svc.KitchenQueue(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(queue), "queue": queue})
}

func (h *Handler) GetKitchenEntry(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	entry, err := h.svc.GetKitchenEntry(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"entry": entry})
}

// AdvanceKitchenEntry moves a ticket to its next stage; the order follows.
func (h *Handler) AdvanceKitchenEntry(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req AdvanceKitchenRequest
	if !bind(c, &req) {
		return
	}
	before, err := h.svc.GetKitchenEntry(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	entry, err := h.svc.AdvanceKitchenStatus(c.Request.Context(), id, req.Status, middleware.Actor(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":         "Kitchen status updated",
		"entry_id":        entry.ID,
		"order_id":        entry.OrderID,
		"previous_status": before.Status,
		"current_status":  entry.Status,
		"entry":           entry,
	})
}

// UpdateKitchenEntry assigns a chef, priority or ETA
func (h *Handler) UpdateKitchenEntry(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req UpdateKitchenRequest
	if !bind(c, &req) {
		return
	}
	entry, err := h.svc.UpdateKitchenEntry(c.Request.Context(), id, service.KitchenUpdate{
		StaffID:       req.StaffID,
		Priority:      req.Priority,
		EstimatedTime: req.EstimatedTime,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Kitchen entry updated", "entry": entry})
}
