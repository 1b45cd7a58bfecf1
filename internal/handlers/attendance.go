package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"wellhub/internal/middleware"
	"wellhub/internal/models"
)

// MarkAttendance handles POST /api/registrations/:id/attendance
func (h *Handlers) MarkAttendance(c *gin.Context) {
	adminID, ok := middleware.AdminID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "X-Admin-ID header required"})
		return
	}

	var req models.MarkAttendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	record, err := h.services.Attendance.Mark(c.Request.Context(), c.Param("id"), &req, adminID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, record)
}

// ListAttendance handles GET /api/events/:id/attendance
func (h *Handlers) ListAttendance(c *gin.Context) {
	records, err := h.services.Attendance.ListByEvent(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, records)
}
