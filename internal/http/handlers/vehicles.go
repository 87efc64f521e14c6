package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type layoutRequest struct {
	Layout []string `json:"layout"`
}

// PUT /api/vehicles/:id/layout replaces the layout and every seat record.
func (h *Handler) SaveVehicleLayout(c *gin.Context) {
	id, ok := paramID(c, "id", "id kendaraan")
	if !ok {
		return
	}
	var req layoutRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	board, err := h.Layouts.SaveLayout(c.Request.Context(), id, req.Layout)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, board)
}
