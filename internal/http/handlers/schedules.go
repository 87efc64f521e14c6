package handlers

import (
	"net/http"
	"strings"

	"evbus/internal/domain/models"
	"evbus/internal/services"

	"github.com/gin-gonic/gin"
)

// GET /api/schedules?date=&origin=&destination=
func (h *Handler) ListSchedules(c *gin.Context) {
	f := models.ScheduleFilter{
		Date:        strings.TrimSpace(c.Query("date")),
		Origin:      strings.TrimSpace(c.Query("origin")),
		Destination: strings.TrimSpace(c.Query("destination")),
	}
	list, err := h.Checkout.ListSchedules(c.Request.Context(), f)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"schedules": list})
}

// GET /api/schedules/:id/seats
func (h *Handler) ScheduleSeats(c *gin.Context) {
	id, ok := paramID(c, "id", "id jadwal")
	if !ok {
		return
	}
	board, err := h.Checkout.LoadSeatBoard(c.Request.Context(), id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, board)
}

type selectionRequest struct {
	Selected []models.SeatPosition `json:"selected"`
	Seat     *models.SeatPosition  `json:"seat"`
}

// POST /api/schedules/:id/selection
func (h *Handler) ToggleSelection(c *gin.Context) {
	id, ok := paramID(c, "id", "id jadwal")
	if !ok {
		return
	}
	var req selectionRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	res, err := h.Checkout.ToggleSeat(c.Request.Context(), id, req.Selected, req.Seat)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

type seatsRequest struct {
	Seats []models.SeatPosition `json:"seats"`
}

// POST /api/schedules/:id/quote
func (h *Handler) ScheduleQuote(c *gin.Context) {
	id, ok := paramID(c, "id", "id jadwal")
	if !ok {
		return
	}
	var req seatsRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	q, err := h.Checkout.Quote(c.Request.Context(), id, req.Seats)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, q)
}

type checkoutRequest struct {
	Seats     []models.SeatPosition `json:"seats"`
	Passenger models.PassengerInput `json:"passenger"`
}

// POST /api/schedules/:id/checkout
func (h *Handler) RiderCheckout(c *gin.Context) {
	h.checkout(c, false)
}

// POST /api/counter/schedules/:id/checkout
func (h *Handler) CounterCheckout(c *gin.Context) {
	h.checkout(c, true)
}

func (h *Handler) checkout(c *gin.Context, guest bool) {
	rc, ok := caller(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id", "id jadwal")
	if !ok {
		return
	}
	var req checkoutRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	in := services.CheckoutInput{
		ScheduleID: id,
		Guest:      guest,
		Seats:      req.Seats,
		Passenger:  req.Passenger,
	}
	if !guest {
		in.UserID = rc.UserID
	}
	res, err := h.Checkout.Confirm(c.Request.Context(), in)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, res)
}

// GET /api/schedules/:id/unpaid
func (h *Handler) ListUnpaid(c *gin.Context) {
	id, ok := paramID(c, "id", "id jadwal")
	if !ok {
		return
	}
	list, err := h.Checkout.ListUnpaid(c.Request.Context(), id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookings": list})
}
