package handlers

import (
	"errors"
	"net/http"

	"restaurant-api/apperr"
	"restaurant-api/middleware"
	"restaurant-api/statemachine"

	"github.com/gin-gonic/gin"
)

func statusFor(err error) int {
	switch {
	case errors.Is(err, apperr.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, apperr.ErrInvalidTransition):
		return http.StatusUnprocessableEntity
	case errors.Is(err, apperr.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, apperr.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperr.ErrInsufficientPayment):
		return http.StatusPaymentRequired
	}
	return http.StatusInternalServerError
}

// fail writes err as a JSON error response. Unclassified errors are logged
// and hidden from the client.
func (h *Handler) fail(c *gin.Context, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		h.log.Error("request failed", "request_id", middleware.RequestID(c), "path", c.FullPath(), "error", err)
		_ = c.Error(err)
		c.JSON(status, gin.H{"error": "Internal server error"})
		return
	}

	body := gin.H{"error": err.Error()}
	var te *statemachine.TransitionError
	if errors.As(err, &te) {
		body["error"] = "Invalid state transition"
		body["reason"] = te.Error()
		body["current_status"] = te.From
		body["requested"] = te.To
		body["valid_next_states"] = te.Valid
	}
	c.JSON(status, body)
}
