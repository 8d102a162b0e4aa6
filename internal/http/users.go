package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nurpe/wasteops-admin/internal/model"
)

func (h *Handler) listUsers(c *gin.Context) {
	principal, ok := principalOrAbort(c)
	if !ok {
		return
	}
	role, ok := queryEnum(c, "role", model.Role.Valid)
	if !ok {
		return
	}
	users, err := h.users.List(c.Request.Context(), principal, role)
	if err != nil {
		h.handleError(c, err)
		return
	}
	respondData(c, users)
}

func (h *Handler) listUsersByRole(c *gin.Context) {
	principal, ok := principalOrAbort(c)
	if !ok {
		return
	}
	role, valid := model.ParseRole(c.Param("role"))
	if !valid {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid role"})
		return
	}
	users, err := h.users.List(c.Request.Context(), principal, &role)
	if err != nil {
		h.handleError(c, err)
		return
	}
	respondData(c, users)
}

func (h *Handler) getUser(c *gin.Context) {
	principal, ok := principalOrAbort(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	user, err := h.users.Get(c.Request.Context(), principal, id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	respondData(c, user)
}
