package handlers

import (
	"net/http"
	"strings"
	"time"

	"evbus/internal/domain/models"

	"github.com/gin-gonic/gin"
)

// Driver endpoints act on the vehicle paired to the caller. Prompts
// (choose_trip_mode, not_at_destination) come back as 200 with the prompt in
// state; the app re-sends with mode or force.

// GET /api/driver/state
func (h *Handler) DriverState(c *gin.Context) {
	rc, ok := caller(c)
	if !ok {
		return
	}
	v, err := h.Trips.Load(c.Request.Context(), rc.UserID)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, v)
}

type pairRequest struct {
	VehicleCode string `json:"vehicleCode" binding:"required"`
}

// POST /api/driver/pair
func (h *Handler) PairVehicle(c *gin.Context) {
	rc, ok := caller(c)
	if !ok {
		return
	}
	var req pairRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	v, err := h.Trips.PairVehicle(c.Request.Context(), rc.UserID, strings.TrimSpace(req.VehicleCode))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, v)
}

type routeRequest struct {
	RouteID int64 `json:"routeId" binding:"required,gt=0"`
}

// POST /api/driver/route
func (h *Handler) SelectRoute(c *gin.Context) {
	rc, ok := caller(c)
	if !ok {
		return
	}
	var req routeRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	v, err := h.Trips.SelectRoute(c.Request.Context(), rc.UserID, req.RouteID)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, v)
}

type startTripRequest struct {
	Fix  *models.GeoPoint `json:"fix"`
	Mode models.TripMode  `json:"mode"`
}

// POST /api/driver/trip/start
func (h *Handler) StartTrip(c *gin.Context) {
	rc, ok := caller(c)
	if !ok {
		return
	}
	var req startTripRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	mode := models.TripMode(strings.ToLower(strings.TrimSpace(string(req.Mode))))
	v, err := h.Trips.StartTrip(c.Request.Context(), rc.UserID, req.Fix, mode)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, v)
}

type endTripRequest struct {
	Fix   *models.GeoPoint `json:"fix"`
	Force bool             `json:"force"`
}

// POST /api/driver/trip/end
func (h *Handler) EndTrip(c *gin.Context) {
	rc, ok := caller(c)
	if !ok {
		return
	}
	var req endTripRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	v, err := h.Trips.EndTrip(c.Request.Context(), rc.UserID, req.Fix, req.Force)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, v)
}

// GET /api/driver/board
func (h *Handler) DriverBoard(c *gin.Context) {
	rc, ok := caller(c)
	if !ok {
		return
	}
	b, err := h.Trips.Board(c.Request.Context(), rc.UserID)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

type checkInRequest struct {
	Seats     []models.SeatPosition `json:"seats" binding:"required,min=1"`
	Passenger models.PassengerInput `json:"passenger"`
}

// POST /api/driver/seats/check-in
func (h *Handler) CheckIn(c *gin.Context) {
	rc, ok := caller(c)
	if !ok {
		return
	}
	var req checkInRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	v, err := h.Trips.CheckIn(c.Request.Context(), rc.UserID, req.Seats, req.Passenger)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, v)
}

type checkOutRequest struct {
	Seats []models.SeatPosition `json:"seats" binding:"required,min=1"`
}

// POST /api/driver/seats/check-out
func (h *Handler) CheckOut(c *gin.Context) {
	rc, ok := caller(c)
	if !ok {
		return
	}
	var req checkOutRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	v, err := h.Trips.CheckOut(c.Request.Context(), rc.UserID, req.Seats)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, v)
}

type switchRequest struct {
	From models.SeatPosition `json:"from"`
	To   models.SeatPosition `json:"to"`
}

// POST /api/driver/seats/switch
func (h *Handler) SwitchSeat(c *gin.Context) {
	rc, ok := caller(c)
	if !ok {
		return
	}
	var req switchRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	if req.From.IsZero() || req.To.IsZero() {
		respondError(c, http.StatusBadRequest, "validation_error", "kursi asal dan tujuan wajib diisi", nil)
		return
	}
	v, err := h.Trips.SwitchSeat(c.Request.Context(), rc.UserID, req.From, req.To)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, v)
}

type locationRequest struct {
	Lat        float64    `json:"lat"`
	Lng        float64    `json:"lng"`
	RecordedAt *time.Time `json:"recordedAt"`
}

func (r locationRequest) at() time.Time {
	if r.RecordedAt != nil && !r.RecordedAt.IsZero() {
		return r.RecordedAt.UTC()
	}
	return time.Now().UTC()
}

// POST /api/driver/trips/:id/location
func (h *Handler) ReportLocation(c *gin.Context) {
	rc, ok := caller(c)
	if !ok {
		return
	}
	var req locationRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	fix := models.GeoPoint{Lat: req.Lat, Lng: req.Lng}
	if err := h.Trips.ReportLocation(c.Request.Context(), rc.UserID, c.Param("id"), fix, req.at()); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"message": "lokasi diterima"})
}
