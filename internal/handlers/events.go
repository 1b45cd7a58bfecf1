package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"wellhub/internal/logger"
	"wellhub/internal/models"
)

// CreateEvent handles POST /api/events
func (h *Handlers) CreateEvent(c *gin.Context) {
	var req models.CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	event, err := h.services.Events.Create(c.Request.Context(), &req)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, event)
}

// GetEvent handles GET /api/events/:id
func (h *Handlers) GetEvent(c *gin.Context) {
	event, err := h.services.Events.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, event)
}

// ListEvents handles GET /api/events
//
// Unfiltered pages are served from the Valkey cache when available; any
// filter or search bypasses the cache.
func (h *Handlers) ListEvents(c *gin.Context) {
	ctx := c.Request.Context()
	filter := parseEventFilter(c)

	cacheable := h.valkey != nil && isPlainListing(filter)
	if cacheable {
		if data, err := h.valkey.GetEventsList(ctx, filter.Page, filter.PageSize); err == nil && data != nil {
			c.Data(http.StatusOK, "application/json", data)
			return
		}
	}

	events, err := h.services.Events.List(ctx, filter)
	if err != nil {
		writeError(c, err)
		return
	}

	if cacheable {
		if data, err := json.Marshal(events); err == nil {
			if err := h.valkey.SetEventsList(ctx, filter.Page, filter.PageSize, data); err != nil {
				logger.WithContext(ctx).Warn("failed to cache events list", "error", err)
			}
		}
	}

	c.JSON(http.StatusOK, events)
}

// UpdateEvent handles PATCH /api/events/:id
func (h *Handlers) UpdateEvent(c *gin.Context) {
	var upd models.UpdateEventRequest
	if err := c.ShouldBindJSON(&upd); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	event, err := h.services.Events.Update(c.Request.Context(), c.Param("id"), &upd)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, event)
}

// DeleteEvent handles DELETE /api/events/:id
func (h *Handlers) DeleteEvent(c *gin.Context) {
	if err := h.services.Events.Delete(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// RecountEvent handles GET /api/events/:id/recount
func (h *Handlers) RecountEvent(c *gin.Context) {
	counts, err := h.services.Events.Recount(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"event_id":           counts.EventID,
		"stored_registered":  counts.StoredRegistered,
		"stored_attended":    counts.StoredAttended,
		"derived_registered": counts.DerivedRegistered,
		"derived_attended":   counts.DerivedAttended,
		"in_sync":            counts.InSync(),
	})
}

func parseEventFilter(c *gin.Context) models.EventFilter {
	filter := models.EventFilter{
		Status:       models.EventStatus(c.Query("status")),
		Category:     c.Query("category"),
		LocationType: models.LocationType(c.Query("location_type")),
		Query:        c.Query("query"),
	}

	if v := c.Query("featured"); v != "" {
		featured := v == "true" || v == "1"
		filter.Featured = &featured
	}
	if v := c.Query("from"); v != "" {
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			filter.From = &t
		}
	}
	if v := c.Query("to"); v != "" {
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			filter.To = &t
		}
	}

	filter.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	filter.PageSize, _ = strconv.Atoi(c.DefaultQuery("page_size", "20"))

	return filter
}

func isPlainListing(f models.EventFilter) bool {
	return f.Status == "" && f.Category == "" && f.LocationType == "" &&
		f.Featured == nil && f.Query == "" && f.From == nil && f.To == nil
}
