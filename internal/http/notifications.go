package http

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

func (h *Handler) listNotifications(c *gin.Context) {
	principal, ok := principalOrAbort(c)
	if !ok {
		return
	}
	var isRead *bool
	if raw := strings.TrimSpace(c.Query("is_read")); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid is_read"})
			return
		}
		isRead = &parsed
	}
	limit, ok := queryLimit(c)
	if !ok {
		return
	}

	items, err := h.notifications.List(c.Request.Context(), principal, isRead, limit)
	if err != nil {
		h.handleError(c, err)
		return
	}
	respondData(c, items)
}

func (h *Handler) markNotificationRead(c *gin.Context) {
	principal, ok := principalOrAbort(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	if err := h.notifications.MarkRead(c.Request.Context(), principal, id); err != nil {
		h.handleError(c, err)
		return
	}
	respondMessage(c, "notification marked as read")
}

func (h *Handler) markAllNotificationsRead(c *gin.Context) {
	principal, ok := principalOrAbort(c)
	if !ok {
		return
	}
	updated, err := h.notifications.MarkAllRead(c.Request.Context(), principal)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{"updated": updated}})
}

func (h *Handler) deleteNotification(c *gin.Context) {
	principal, ok := principalOrAbort(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	if err := h.notifications.Delete(c.Request.Context(), principal, id); err != nil {
		h.handleError(c, err)
		return
	}
	respondMessage(c, "notification deleted")
}
