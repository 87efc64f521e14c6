package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// POST /api/bookings/:id/pay
func (h *Handler) PayBooking(c *gin.Context) {
	rc, ok := caller(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id", "id booking")
	if !ok {
		return
	}
	b, err := h.Checkout.RetryPayment(c.Request.Context(), rc.UserID, id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"booking": b})
}

type settleRequest struct {
	Method string `json:"method"`
}

// POST /api/bookings/:id/settle
func (h *Handler) SettleBooking(c *gin.Context) {
	id, ok := paramID(c, "id", "id booking")
	if !ok {
		return
	}
	var req settleRequest
	// body is optional; cash by default
	if c.Request.ContentLength > 0 && !BindJSONOrError(c, &req) {
		return
	}
	b, err := h.Checkout.SettleAtCounter(c.Request.Context(), id, req.Method)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"booking": b})
}
