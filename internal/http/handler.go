package http

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/nurpe/wasteops-admin/internal/http/middleware"
	"github.com/nurpe/wasteops-admin/internal/model"
	"github.com/nurpe/wasteops-admin/internal/service"
)

type Services struct {
	Engine        *service.Engine
	Reports       *service.ReportService
	Schedules     *service.ScheduleService
	Bins          *service.BinService
	Notifications *service.NotificationService
	Exports       *service.ExportService
	Users         *service.UserService
}

type Handler struct {
	engine        *service.Engine
	reports       *service.ReportService
	schedules     *service.ScheduleService
	bins          *service.BinService
	notifications *service.NotificationService
	exports       *service.ExportService
	users         *service.UserService
	log           zerolog.Logger
}

func NewHandler(services Services, log zerolog.Logger) *Handler {
	return &Handler{
		engine:        services.Engine,
		reports:       services.Reports,
		schedules:     services.Schedules,
		bins:          services.Bins,
		notifications: services.Notifications,
		exports:       services.Exports,
		users:         services.Users,
		log:           log,
	}
}

func (h *Handler) Register(router *gin.Engine, authMiddleware gin.HandlerFunc) {
	router.GET("/health", h.health)

	protected := router.Group("/")
	protected.Use(authMiddleware)

	bins := protected.Group("/bins")
	bins.GET("", h.listBins)
	bins.POST("", h.createBin)
	bins.GET("/stats", h.binStats)
	bins.GET("/:id", h.getBin)
	bins.PUT("/:id", h.updateEntity(model.EntityBin))
	bins.DELETE("/:id", h.deleteBin)

	reports := protected.Group("/reports")
	reports.GET("", h.listReports)
	reports.POST("", h.createReport)
	reports.GET("/export", h.exportReports)
	reports.GET("/:id", h.getReport)
	reports.PUT("/:id", h.updateEntity(model.EntityReport))
	reports.DELETE("/:id", h.deleteReport)

	schedules := protected.Group("/schedules")
	schedules.GET("", h.listSchedules)
	schedules.POST("", h.createSchedule)
	schedules.GET("/route-sheet", h.routeSheet)
	schedules.GET("/:id", h.getSchedule)
	schedules.PUT("/:id", h.updateEntity(model.EntitySchedule))
	schedules.DELETE("/:id", h.deleteSchedule)

	notifications := protected.Group("/notifications")
	notifications.GET("", h.listNotifications)
	notifications.PUT("/read-all", h.markAllNotificationsRead)
	notifications.PUT("/:id/read", h.markNotificationRead)
	notifications.DELETE("/:id", h.deleteNotification)

	users := protected.Group("/users")
	users.GET("", h.listUsers)
	users.GET("/role/:role", h.listUsersByRole)
	users.GET("/:id", h.getUser)
}

func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"success": true, "status": "ok"})
}

// updateEntity serves every partial update through the engine; the body is a
// flat JSON object of field name to new value.
func (h *Handler) updateEntity(kind model.EntityKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := principalOrAbort(c)
		if !ok {
			return
		}
		raw, ok := bindFields(c)
		if !ok {
			return
		}

		result, err := h.engine.Apply(c.Request.Context(), service.UpdateRequest{
			Kind:      kind,
			Principal: principal,
			EntityID:  c.Param("id"),
			Fields:    raw,
		})
		if err != nil {
			h.handleError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success":               true,
			"data":                  result.Data,
			"no_op":                 result.NoOp,
			"notifications_emitted": result.NotificationsEmitted,
			"ignored_fields":        fieldNames(result.Denied),
		})
	}
}

func (h *Handler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrPermissionDenied):
		c.JSON(http.StatusForbidden, gin.H{"success": false, "error": err.Error()})
	case errors.Is(err, service.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": err.Error()})
	case errors.Is(err, service.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"success": false, "error": err.Error()})
	default:
		h.log.Error().Err(err).Str("path", c.FullPath()).Msg("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "internal error"})
	}
}

func principalOrAbort(c *gin.Context) (model.Principal, bool) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "error": "missing principal"})
		return model.Principal{}, false
	}
	return principal, true
}

func bindFields(c *gin.Context) (map[string]interface{}, bool) {
	var raw map[string]interface{}
	if err := c.ShouldBindJSON(&raw); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "request body must be a JSON object"})
		return nil, false
	}
	if raw == nil {
		raw = map[string]interface{}{}
	}
	return raw, true
}

func uuidParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(strings.TrimSpace(c.Param(name)))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": service.ErrNotFound.Error()})
		return uuid.Nil, false
	}
	return id, true
}

func queryUUID(c *gin.Context, name string) (*uuid.UUID, bool) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return nil, true
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid " + name})
		return nil, false
	}
	return &id, true
}

func queryLimit(c *gin.Context) (int, bool) {
	raw := strings.TrimSpace(c.Query("limit"))
	if raw == "" {
		return 0, true
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid limit"})
		return 0, false
	}
	return limit, true
}

// queryEnum reads an optional enum query parameter, rejecting unknown values.
func queryEnum[T ~string](c *gin.Context, name string, valid func(T) bool) (*T, bool) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return nil, true
	}
	value := T(strings.ToLower(raw))
	if !valid(value) {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid " + name})
		return nil, false
	}
	return &value, true
}

func fieldNames(fields []service.Field) []string {
	names := make([]string, 0, len(fields))
	for _, field := range fields {
		names = append(names, string(field))
	}
	return names
}

func respondCreated(c *gin.Context, result *service.CreateResult) {
	c.JSON(http.StatusCreated, gin.H{
		"success":               true,
		"data":                  result.Data,
		"notifications_emitted": result.NotificationsEmitted,
	})
}

func respondData(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, gin.H{"success": true, "data": data})
}

func respondMessage(c *gin.Context, message string) {
	c.JSON(http.StatusOK, gin.H{"success": true, "message": message})
}
