package http

import (
	"github.com/gin-gonic/gin"

	"github.com/nurpe/wasteops-admin/internal/model"
)

func (h *Handler) listBins(c *gin.Context) {
	principal, ok := principalOrAbort(c)
	if !ok {
		return
	}
	status, ok := queryEnum(c, "status", model.BinStatus.Valid)
	if !ok {
		return
	}
	binType, ok := queryEnum(c, "type", model.BinType.Valid)
	if !ok {
		return
	}
	limit, ok := queryLimit(c)
	if !ok {
		return
	}

	bins, err := h.bins.List(c.Request.Context(), principal, model.BinFilter{
		Status: status,
		Type:   binType,
		Limit:  limit,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}
	respondData(c, bins)
}

func (h *Handler) getBin(c *gin.Context) {
	principal, ok := principalOrAbort(c)
	if !ok {
		return
	}
	bin, err := h.bins.Get(c.Request.Context(), principal, c.Param("id"))
	if err != nil {
		h.handleError(c, err)
		return
	}
	respondData(c, bin)
}

func (h *Handler) createBin(c *gin.Context) {
	principal, ok := principalOrAbort(c)
	if !ok {
		return
	}
	raw, ok := bindFields(c)
	if !ok {
		return
	}
	result, err := h.bins.Create(c.Request.Context(), principal, raw)
	if err != nil {
		h.handleError(c, err)
		return
	}
	respondCreated(c, result)
}

func (h *Handler) deleteBin(c *gin.Context) {
	principal, ok := principalOrAbort(c)
	if !ok {
		return
	}
	if err := h.bins.Delete(c.Request.Context(), principal, c.Param("id")); err != nil {
		h.handleError(c, err)
		return
	}
	respondMessage(c, "bin deleted")
}

func (h *Handler) binStats(c *gin.Context) {
	principal, ok := principalOrAbort(c)
	if !ok {
		return
	}
	stats, err := h.bins.Stats(c.Request.Context(), principal)
	if err != nil {
		h.handleError(c, err)
		return
	}
	respondData(c, stats)
}
