package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/devdesk/backend/middleware"
	"github.com/devdesk/backend/services"
)

// TicketHandler serves the ticket CRUD surface. Every route is behind
// middleware.RequireAuth.
type TicketHandler struct {
	tickets *services.TicketService
}

func NewTicketHandler(tickets *services.TicketService) *TicketHandler {
	return &TicketHandler{tickets: tickets}
}

type TicketRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	Tried       string `json:"tried"`
	AssignedTo  *uint  `json:"assigned_to"`
}

func (r *TicketRequest) fields() services.TicketFields {
	return services.TicketFields{
		Title:       r.Title,
		Description: r.Description,
		Tried:       r.Tried,
		AssignedTo:  r.AssignedTo,
	}
}

// List handles GET /api/tickets
func (h *TicketHandler) List(c *gin.Context) {
	tickets, err := h.tickets.List(c.Request.Context())
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, tickets)
}

// Get handles GET /api/tickets/:id
func (h *TicketHandler) Get(c *gin.Context) {
	id, ok := ticketID(c)
	if !ok {
		return
	}

	ticket, err := h.tickets.Get(c.Request.Context(), id)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, ticket)
}

// Create handles POST /api/tickets. The author is the bearer of the token;
// the response is the full updated list, per the original client contract.
func (h *TicketHandler) Create(c *gin.Context) {
	var req TicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "title is required"})
		return
	}

	authorID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}

	tickets, err := h.tickets.Create(c.Request.Context(), req.fields(), authorID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, tickets)
}

// Update handles PUT /api/tickets/:id
func (h *TicketHandler) Update(c *gin.Context) {
	id, ok := ticketID(c)
	if !ok {
		return
	}

	var req TicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "title is required"})
		return
	}

	ticket, err := h.tickets.Update(c.Request.Context(), id, req.fields())
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, ticket)
}

// Remove handles DELETE /api/tickets/:id and returns the removed row.
func (h *TicketHandler) Remove(c *gin.Context) {
	id, ok := ticketID(c)
	if !ok {
		return
	}

	ticket, err := h.tickets.Remove(c.Request.Context(), id)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, ticket)
}

// ticketID parses the :id route parameter. Non-numeric ids read as a lookup
// of a ticket that cannot exist, so they report 404 rather than 400.
func ticketID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": services.ErrTicketNotFound.Error()})
		return 0, false
	}
	return uint(id), true
}
