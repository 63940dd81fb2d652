package handler

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/luffy229/ticktock-timetracker-tentwenty/internal/service"
	"github.com/luffy229/ticktock-timetracker-tentwenty/pkg/response"
)

const (
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	contentTypeICS  = "text/calendar; charset=utf-8"
)

// ExportHandler 导出模块 HTTP 处理器
type ExportHandler struct {
	exportSvc service.ExportService
}

// NewExportHandler 创建 ExportHandler
func NewExportHandler(exportSvc service.ExportService) *ExportHandler {
	return &ExportHandler{exportSvc: exportSvc}
}

// ExportTimesheets 导出全部周报汇总表
// GET /api/v1/export/timesheets
func (h *ExportHandler) ExportTimesheets(c *gin.Context) {
	buf, filename, err := h.exportSvc.ExportTimesheets(c.Request.Context())
	if err != nil {
		h.handleExportError(c, err)
		return
	}

	// 设置下载响应头
	encodedFilename := url.QueryEscape(filename)
	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+encodedFilename)
	c.Header("Content-Type", contentTypeXLSX)
	c.Data(http.StatusOK, contentTypeXLSX, buf.Bytes())
}

// ExportWeekCalendar 导出单周任务日历
// GET /api/v1/export/timesheets/:id/calendar
func (h *ExportHandler) ExportWeekCalendar(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "周报ID不能为空")
		return
	}

	buf, filename, err := h.exportSvc.ExportWeekCalendar(c.Request.Context(), id)
	if err != nil {
		h.handleExportError(c, err)
		return
	}

	encodedFilename := url.QueryEscape(filename)
	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+encodedFilename)
	c.Header("Content-Type", contentTypeICS)
	c.Data(http.StatusOK, contentTypeICS, buf.Bytes())
}

func (h *ExportHandler) handleExportError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrTimesheetNotFound):
		response.NotFound(c, 12001, "周报不存在")
	case errors.Is(err, service.ErrExportEmpty):
		response.NotFound(c, 16001, "没有可导出的周报")
	case errors.Is(err, service.ErrExportGenerateFail):
		response.InternalError(c)
	default:
		response.InternalError(c)
	}
}
