package handlers

import (
	"context"
	"net/http"
	"time"

	"restaurant-api/models"
	"restaurant-api/statemachine"

	"github.com/gin-gonic/gin"
)

func describe[S ~string](m *statemachine.Machine[S], states []S) gin.H {
	var terminal []S
	for _, s := range states {
		if m.Terminal(s) {
			terminal = append(terminal, s)
		}
	}
	return gin.H{
		"transitions":     m.Transitions(),
		"terminal_states": terminal,
	}
}

// GetStateMachineInfo returns every transition table for documentation
func (h *Handler) GetStateMachineInfo(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"order":   describe(statemachine.Order, models.OrderStatuses),
		"kitchen": describe(statemachine.Kitchen, models.KitchenStatuses),
		"payment": describe(statemachine.Payment, models.PaymentStatuses),
		"description": "Restaurant order lifecycle. The order status follows its kitchen entry " +
			"from confirmed to served; payment of a served order completes it.",
	})
}

// Health reports database reachability and open real-time connections
func (h *Handler) Health(c *gin.Context) {
	status, code := "healthy", http.StatusOK
	body := gin.H{
		"service":              "Restaurant Order API",
		"realtime_connections": h.hub.Connections(),
	}
	if h.ping != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := h.ping(ctx); err != nil {
			h.log.Warn("health check failed", "error", err)
			status, code = "degraded", http.StatusServiceUnavailable
			body["database"] = err.Error()
		}
	}
	body["status"] = status
	c.JSON(code, body)
}
