package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/devdesk/backend/services"
)

// handleServiceError maps service-layer errors to HTTP statuses. Bad
// credentials are deliberately a 400, same as validation failures, so the
// response does not reveal which field was wrong.
func handleServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrMissingCredentials),
		errors.Is(err, services.ErrInvalidCredentials),
		errors.Is(err, services.ErrAssigneeNotFound):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrUsernameTaken):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrTicketNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		log.Printf("⚠️ Unhandled service error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
