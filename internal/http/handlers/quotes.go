package handlers

import (
	"net/http"
	"strings"

	"evbus/internal/domain/models"

	"github.com/gin-gonic/gin"
)

type distanceQuoteRequest struct {
	// Key identifies the caller's quote slot; a newer request with the same
	// key supersedes an older one still in flight.
	Key         string            `json:"key"`
	Origin      models.GeoPoint   `json:"origin"`
	Destination models.GeoPoint   `json:"destination"`
	Waypoints   []models.GeoPoint `json:"waypoints"`
}

// POST /api/quotes/distance
func (h *Handler) DistanceQuote(c *gin.Context) {
	var req distanceQuoteRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	key := ""
	if k := strings.TrimSpace(req.Key); k != "" {
		key = c.ClientIP() + "|" + k
	}
	q, est, err := h.Quotes.QuoteDistance(c.Request.Context(), key, req.Origin, req.Destination, req.Waypoints)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"quote": q, "estimate": est})
}
