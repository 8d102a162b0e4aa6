package http

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/nurpe/wasteops-admin/internal/model"
	"github.com/nurpe/wasteops-admin/internal/service"
)

func (h *Handler) listSchedules(c *gin.Context) {
	principal, ok := principalOrAbort(c)
	if !ok {
		return
	}
	status, ok := queryEnum(c, "status", model.ScheduleStatus.Valid)
	if !ok {
		return
	}
	date, ok := queryDate(c, "date")
	if !ok {
		return
	}
	collectorID, ok := queryUUID(c, "collector_id")
	if !ok {
		return
	}

	schedules, err := h.schedules.List(c.Request.Context(), principal, model.ScheduleFilter{
		Status:      status,
		Date:        date,
		CollectorID: collectorID,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}
	respondData(c, schedules)
}

func (h *Handler) getSchedule(c *gin.Context) {
	principal, ok := principalOrAbort(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	schedule, err := h.schedules.Get(c.Request.Context(), principal, id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	respondData(c, schedule)
}

func (h *Handler) createSchedule(c *gin.Context) {
	principal, ok := principalOrAbort(c)
	if !ok {
		return
	}
	raw, ok := bindFields(c)
	if !ok {
		return
	}
	result, err := h.schedules.Create(c.Request.Context(), principal, raw)
	if err != nil {
		h.handleError(c, err)
		return
	}
	respondCreated(c, result)
}

func (h *Handler) deleteSchedule(c *gin.Context) {
	principal, ok := principalOrAbort(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	if err := h.schedules.Delete(c.Request.Context(), principal, id); err != nil {
		h.handleError(c, err)
		return
	}
	respondMessage(c, "schedule deleted")
}

func (h *Handler) routeSheet(c *gin.Context) {
	principal, ok := principalOrAbort(c)
	if !ok {
		return
	}
	date, ok := queryDate(c, "date")
	if !ok {
		return
	}
	if date == nil {
		today := time.Now().UTC()
		date = &today
	}
	collectorID, ok := queryUUID(c, "collector_id")
	if !ok {
		return
	}
	target := uuid.Nil
	if collectorID != nil {
		target = *collectorID
	}

	result, err := h.exports.RouteSheet(c.Request.Context(), principal, target, *date)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.Header("Content-Disposition", "attachment; filename=\""+result.FileName+"\"")
	c.Data(http.StatusOK, "application/pdf", result.Content)
}

func queryDate(c *gin.Context, name string) (*time.Time, bool) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return nil, true
	}
	parsed, err := service.ParseDate(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid " + name})
		return nil, false
	}
	return &parsed, true
}
