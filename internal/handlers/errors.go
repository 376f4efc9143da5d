package handlers

import (
	"errors"
	"net/http"

	"github.com/dcastellanos/obrax-api/internal/services"
	"github.com/gin-gonic/gin"
)

// respondError maps service errors to HTTP status codes
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrValidation), errors.Is(err, services.ErrInvalidState):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrHasRecords), errors.Is(err, services.ErrQuoteAlreadyConverted):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

// actor identifies who performed a mutation, for the audit trail
func actor(c *gin.Context) string {
	if a := c.GetHeader("X-Actor"); a != "" {
		return a
	}
	return "system"
}
