package handlers

import (
	"net/http"
	"strconv"

	"restaurant-api/middleware"
	"restaurant-api/models"
	"restaurant-api/service"
	"restaurant-api/store"

	"github.com/gin-gonic/gin"
)

type OrderItemRequest struct {
	MenuItemID     uint   `json:"menu_item_id" binding:"required"`
	Quantity       int    `json:"quantity" binding:"required,min=1"`
	SpecialRequest string `json:"special_request"`
}

type CreateOrderRequest struct {
	TableID       uint               `json:"table_id" binding:"required"`
	ReservationID *uint              `json:"reservation_id"`
	CustomerName  string             `json:"customer_name"`
	CustomerPhone string             `json:"customer_phone"`
	PartySize     int                `json:"party_size" binding:"required,min=1"`
	Notes         string             `json:"notes"`
	Items         []OrderItemRequest `json:"items" binding:"required,min=1,dive"`
}

type AddItemsRequest struct {
	Items []OrderItemRequest `json:"items" binding:"required,min=1,dive"`
}

type CancelOrderRequest struct {
	Reason string `json:"reason"`
}

func itemInputs(items []OrderItemRequest) []service.ItemInput {
	out := make([]service.ItemInput, len(items))
	for i, it := range items {
		out[i] = service.ItemInput{
			MenuItemID:     it.MenuItemID,
			Quantity:       it.Quantity,
			SpecialRequest: it.SpecialRequest,
		}
	}
	return out
}

// CreateOrder takes a new order for a table
func (h *Handler) CreateOrder(c *gin.Context) {
	var req CreateOrderRequest
	if !bind(c, &req) {
		return
	}
	order, err := h.svc.CreateOrder(c.Request.Context(), service.CreateOrderInput{
		TableID:       req.TableID,
		StaffID:       middleware.Actor(c),
		ReservationID: req.ReservationID,
		CustomerName:  req.CustomerName,
		CustomerPhone: req.CustomerPhone,
		PartySize:     req.PartySize,
		Notes:         req.Notes,
		Items:         itemInputs(req.Items),
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Order created", "order": order})
}

// ListOrders supports ?status=, ?table_id=, ?staff_id= and ?limit=
func (h *Handler) ListOrders(c *gin.Context) {
	filter := store.OrderFilter{Status: models.OrderStatus(c.Query("status"))}
	for name, dst := range map[string]*uint{"table_id": &filter.TableID, "staff_id": &filter.StaffID} {
		if v := c.Query(name); v != "" {
			n, err := strconv.ParseUint(v, 10, 64)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + name})
				return
			}
			*dst = uint(n)
		}
	}
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit"})
			return
		}
		filter.Limit = n
	}

	orders, err := h.svc.ListOrders(c.Request.Context(), filter)
	if err != nil {
		h.fail(c, err)
		return
	}

	// dashboard summary
	summary := map[string]int{}
	for _, o := range orders {
		summary[string(o.Status)]++
	}
	c.JSON(http.StatusOK, gin.H{
		"order_summary": summary,
		"count":         len(orders),
		"orders":        orders,
	})
}

func (h *Handler) GetOrder(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	order, err := h.svc.GetOrder(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"order": order})
}

// orderTransition runs a status-changing order operation and reports the
// previous and new status.
func (h *Handler) orderTransition(c *gin.Context, message string, op func(id uint) (*models.Order, error)) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	before, err := h.svc.GetOrder(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	order, err := op(id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":         message,
		"order_id":        order.ID,
		"previous_status": before.Status,
		"current_status":  order.Status,
		"order":           order,
	})
}

// ConfirmOrder sends a pending order to the kitchen
func (h *Handler) ConfirmOrder(c *gin.Context) {
	h.orderTransition(c, "Order confirmed", func(id uint) (*models.Order, error) {
		return h.svc.ConfirmOrder(c.Request.Context(), id, middleware.Actor(c))
	})
}

func (h *Handler) CancelOrder(c *gin.Context) {
	var req CancelOrderRequest
	if c.Request.ContentLength > 0 && !bind(c, &req) {
		return
	}
	h.orderTransition(c, "Order cancelled", func(id uint) (*models.Order, error) {
		return h.svc.CancelOrder(c.Request.Context(), id, req.Reason, middleware.Actor(c))
	})
}

func (h *Handler) CompleteOrder(c *gin.Context) {
	h.orderTransition(c, "Order completed", func(id uint) (*models.Order, error) {
		return h.svc.CompleteOrder(c.Request.Context(), id, middleware.Actor(c))
	})
}

// AddItems appends lines to an order the kitchen has not started
func (h *Handler) AddItems(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req AddItemsRequest
	if !bind(c, &req) {
		return
	}
	order, err := h.svc.AddItems(c.Request.Context(), id, itemInputs(req.Items))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Items added", "order": order})
}

// OrderHistory returns the order's status audit trail
func (h *Handler) OrderHistory(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	events, err := h.svc.OrderEvents(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"order_id": id, "count": len(events), "history": events})
}
