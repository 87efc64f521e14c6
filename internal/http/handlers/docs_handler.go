package handlers

import (
	"context"
	"net/http"

	"evbus/internal/domain/models"

	"github.com/gin-gonic/gin"
)

// GET /api/bookings/:id/ticket
func (h *Handler) BookingTicketPDF(c *gin.Context) {
	h.servePDF(c, true, h.Docs.GenerateETicket)
}

// GET /api/bookings/:id/invoice
func (h *Handler) BookingInvoicePDF(c *gin.Context) {
	h.servePDF(c, false, h.Docs.GenerateInvoice)
}

// servePDF renders a booking document inline. Riders only see their own
// bookings; counter staff see all of them.
func (h *Handler) servePDF(c *gin.Context, requirePaid bool, gen func(context.Context, int64) ([]byte, string, error)) {
	rc, ok := caller(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id", "id booking")
	if !ok {
		return
	}
	if !isStaff(rc) {
		b, err := h.Checkout.BookingFor(c.Request.Context(), rc.UserID, id)
		if err != nil {
			RespondDomainError(c, err)
			return
		}
		if requirePaid && b.PaymentStatus != models.PaymentPaid {
			respondError(c, http.StatusForbidden, "payment_pending", "pembayaran belum lunas", nil)
			return
		}
	}

	pdfBytes, filename, err := gen(c.Request.Context(), id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.Header("Content-Disposition", `inline; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/pdf", pdfBytes)
}
