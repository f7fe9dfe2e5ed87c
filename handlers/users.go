package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/devdesk/backend/services"
)

// UserHandler serves the read-only user routes.
type UserHandler struct {
	users   *services.UserService
	tickets *services.TicketService
}

func NewUserHandler(users *services.UserService, tickets *services.TicketService) *UserHandler {
	return &UserHandler{users: users, tickets: tickets}
}

// List handles GET /api/users
func (h *UserHandler) List(c *gin.Context) {
	users, err := h.users.List(c.Request.Context())
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

// CreatedTickets handles GET /api/users/:id/tickets/created
func (h *UserHandler) CreatedTickets(c *gin.Context) {
	id, ok := userID(c)
	if !ok {
		return
	}

	tickets, err := h.tickets.CreatedBy(c.Request.Context(), id)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, tickets)
}

// AssignedTickets handles GET /api/users/:id/tickets/assigned
func (h *UserHandler) AssignedTickets(c *gin.Context) {
	id, ok := userID(c)
	if !ok {
		return
	}

	tickets, err := h.tickets.AssignedTo(c.Request.Context(), id)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, tickets)
}

func userID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return 0, false
	}
	return uint(id), true
}
