package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

const defaultLocationLimit = 200

// GET /api/trips/:id/locations?limit=
func (h *Handler) TripLocations(c *gin.Context) {
	limit := defaultLocationLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			respondError(c, http.StatusBadRequest, "validation_error", "limit tidak valid", nil)
			return
		}
		limit = n
	}
	list, err := h.Trips.ListLocations(c.Request.Context(), c.Param("id"), limit)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tripId": c.Param("id"), "locations": list})
}
