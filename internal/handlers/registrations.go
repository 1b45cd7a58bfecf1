package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"wellhub/internal/middleware"
	"wellhub/internal/models"
)

// Register handles POST /api/events/:id/register
func (h *Handlers) Register(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "X-User-ID header required"})
		return
	}

	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	reg, err := h.services.Registrations.Register(c.Request.Context(), c.Param("id"), userID, &req)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, models.RegisterResponse{
		RegistrationID: reg.ID,
		Status:         string(reg.Status),
		PaymentStatus:  reg.PaymentStatus,
	})
}

// CancelRegistration handles PATCH /api/registrations/:id/cancel
func (h *Handlers) CancelRegistration(c *gin.Context) {
	reg, err := h.services.Registrations.Cancel(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, reg)
}

// GetRegistration handles GET /api/registrations/:id
func (h *Handlers) GetRegistration(c *gin.Context) {
	reg, err := h.services.Registrations.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, reg)
}

// GetMyRegistration handles GET /api/events/:id/registration
func (h *Handlers) GetMyRegistration(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "X-User-ID header required"})
		return
	}

	reg, err := h.services.Registrations.GetUserRegistration(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, reg)
}

// ListRegistrations handles GET /api/events/:id/registrations
func (h *Handlers) ListRegistrations(c *gin.Context) {
	regs, err := h.services.Registrations.ListByEvent(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, regs)
}
