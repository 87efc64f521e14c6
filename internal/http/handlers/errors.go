package handlers

import (
	"context"
	"errors"
	"net/http"

	"evbus/internal/domain"
	"evbus/internal/http/middleware"
	"evbus/internal/services"
	"evbus/internal/utils"

	"github.com/gin-gonic/gin"
)

// ErrorResponse standardizes error payloads.
type ErrorResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code,omitempty"`
	Details   any    `json:"details,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

func respondError(c *gin.Context, status int, code, message string, details any) {
	if code == "" {
		code = http.StatusText(status)
	}
	c.JSON(status, ErrorResponse{
		Error:     message,
		Code:      code,
		Details:   details,
		RequestID: middleware.GetRequestID(c),
	})
}

// RespondDomainError maps domain errors to HTTP responses.
func RespondDomainError(c *gin.Context, err error) {
	var biz domain.BusinessError
	switch {
	case domain.IsValidation(err):
		respondError(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
	case domain.IsNotFound(err):
		respondError(c, http.StatusNotFound, "not_found", err.Error(), nil)
	case errors.Is(err, services.ErrSuperseded):
		respondError(c, http.StatusConflict, "superseded", err.Error(), nil)
	case domain.IsConflict(err):
		respondError(c, http.StatusConflict, "conflict", err.Error(), nil)
	case errors.As(err, &biz):
		respondError(c, http.StatusUnprocessableEntity, biz.Code, biz.Error(), biz.Details)
	case domain.IsLocation(err):
		respondError(c, http.StatusUnprocessableEntity, "location_unavailable", err.Error(), nil)
	case errors.Is(err, context.Canceled):
		// client went away; nobody reads this
		c.Status(499)
	default:
		utils.LogEvent(middleware.GetRequestID(c), "http", "error", err.Error())
		respondError(c, http.StatusInternalServerError, "internal_error", "terjadi kesalahan", nil)
	}
}
