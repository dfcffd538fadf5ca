package handlers

import (
	"net/http"

	"restaurant-api/middleware"
	"restaurant-api/models"
	"restaurant-api/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type DeriveBillRequest struct {
	Discount decimal.Decimal `json:"discount"`
}

type PaymentRequest struct {
	Method        models.PaymentMethod `json:"payment_method" binding:"required,payment_method"`
	Amount        *decimal.Decimal     `json:"amount" binding:"required"`
	TransactionID string               `json:"transaction_id"`
}

// DeriveBill produces the bill for a ready, served or completed order
func (h *Handler) DeriveBill(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req DeriveBillRequest
	if c.Request.ContentLength > 0 && !bind(c, &req) {
		return
	}
	bill, err := h.svc.DeriveBill(c.Request.Context(), id, service.BillInput{
		Discount: req.Discount,
		StaffID:  middleware.Actor(c),
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Bill created", "bill": bill})
}

// GetOrderBill returns the active (non-cancelled) bill of an order
func (h *Handler) GetOrderBill(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	bill, err := h.svc.BillForOrder(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bill": bill})
}

func (h *Handler) GetBill(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	bill, err := h.svc.GetBill(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bill": bill})
}

// PayBill settles a pending bill in full
func (h *Handler) PayBill(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req PaymentRequest
	if !bind(c, &req) {
		return
	}
	bill, err := h.svc.ProcessPayment(c.Request.Context(), id, service.PaymentInput{
		Method:        req.Method,
		Amount:        *req.Amount,
		TransactionID: req.TransactionID,
		StaffID:       middleware.Actor(c),
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":        "Payment received",
		"bill":           bill,
		"change":         bill.ChangeAmount,
		"transaction_id": bill.TransactionID,
	})
}

func (h *Handler) CancelBill(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	bill, err := h.svc.CancelBill(c.Request.Context(), id, middleware.Actor(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Bill cancelled", "bill": bill})
}

func (h *Handler) RefundBill(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	bill, err := h.svc.RefundBill(c.Request.Context(), id, middleware.Actor(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Bill refunded", "bill": bill})
}
