package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nurpe/wasteops-admin/internal/model"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

func (h *Handler) listReports(c *gin.Context) {
	principal, ok := principalOrAbort(c)
	if !ok {
		return
	}
	filter, ok := reportFilter(c)
	if !ok {
		return
	}
	reports, err := h.reports.List(c.Request.Context(), principal, filter)
	if err != nil {
		h.handleError(c, err)
		return
	}
	respondData(c, reports)
}

func (h *Handler) getReport(c *gin.Context) {
	principal, ok := principalOrAbort(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	report, err := h.reports.Get(c.Request.Context(), principal, id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	respondData(c, report)
}

func (h *Handler) createReport(c *gin.Context) {
	principal, ok := principalOrAbort(c)
	if !ok {
		return
	}
	raw, ok := bindFields(c)
	if !ok {
		return
	}
	result, err := h.reports.Create(c.Request.Context(), principal, raw)
	if err != nil {
		h.handleError(c, err)
		return
	}
	respondCreated(c, result)
}

func (h *Handler) deleteReport(c *gin.Context) {
	principal, ok := principalOrAbort(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	if err := h.reports.Delete(c.Request.Context(), principal, id); err != nil {
		h.handleError(c, err)
		return
	}
	respondMessage(c, "report deleted")
}

func (h *Handler) exportReports(c *gin.Context) {
	principal, ok := principalOrAbort(c)
	if !ok {
		return
	}
	filter, ok := reportFilter(c)
	if !ok {
		return
	}
	result, err := h.exports.ExportReports(c.Request.Context(), principal, filter)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.Header("Content-Disposition", "attachment; filename=\""+result.FileName+"\"")
	c.Data(http.StatusOK, xlsxContentType, result.Content)
}

func reportFilter(c *gin.Context) (model.ReportFilter, bool) {
	status, ok := queryEnum(c, "status", model.ReportStatus.Valid)
	if !ok {
		return model.ReportFilter{}, false
	}
	issueType, ok := queryEnum(c, "issue_type", model.IssueType.Valid)
	if !ok {
		return model.ReportFilter{}, false
	}
	priority, ok := queryEnum(c, "priority", model.Priority.Valid)
	if !ok {
		return model.ReportFilter{}, false
	}
	return model.ReportFilter{
		Status:    status,
		IssueType: issueType,
		Priority:  priority,
	}, true
}
