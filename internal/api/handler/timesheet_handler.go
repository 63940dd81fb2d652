package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/luffy229/ticktock-timetracker-tentwenty/internal/dto"
	"github.com/luffy229/ticktock-timetracker-tentwenty/internal/service"
	"github.com/luffy229/ticktock-timetracker-tentwenty/pkg/response"
)

// TimesheetHandler 周报模块 HTTP 处理器
type TimesheetHandler struct {
	tsSvc service.TimesheetService
}

// NewTimesheetHandler 创建 TimesheetHandler
func NewTimesheetHandler(tsSvc service.TimesheetService) *TimesheetHandler {
	return &TimesheetHandler{tsSvc: tsSvc}
}

// ListTimesheets 获取周报列表（按周次倒序）
// GET /api/v1/timesheets
func (h *TimesheetHandler) ListTimesheets(c *gin.Context) {
	timesheets, err := h.tsSvc.List(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, gin.H{"list": timesheets})
}

// GetTimesheet 获取周报详情
// GET /api/v1/timesheets/:id
func (h *TimesheetHandler) GetTimesheet(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "周报ID不能为空")
		return
	}

	ts, err := h.tsSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleTimesheetError(c, err)
		return
	}

	response.OK(c, ts)
}

// CreateTimesheet 创建周报
// POST /api/v1/timesheets
func (h *TimesheetHandler) CreateTimesheet(c *gin.Context) {
	var req dto.CreateTimesheetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	ts, err := h.tsSvc.Create(c.Request.Context(), &req)
	if err != nil {
		h.handleTimesheetError(c, err)
		return
	}

	response.Created(c, ts)
}

// UpdateTimesheet 更新周报
// PUT /api/v1/timesheets/:id
func (h *TimesheetHandler) UpdateTimesheet(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "周报ID不能为空")
		return
	}

	var req dto.UpdateTimesheetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	ts, err := h.tsSvc.Update(c.Request.Context(), id, &req)
	if err != nil {
		h.handleTimesheetError(c, err)
		return
	}

	response.OK(c, ts)
}

// DeleteTimesheet 删除周报（级联删除其任务）
// DELETE /api/v1/timesheets/:id
func (h *TimesheetHandler) DeleteTimesheet(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "周报ID不能为空")
		return
	}

	if err := h.tsSvc.Delete(c.Request.Context(), id); err != nil {
		h.handleTimesheetError(c, err)
		return
	}

	response.OK(c, nil)
}

// handleTimesheetError 统一处理周报模块业务错误
func (h *TimesheetHandler) handleTimesheetError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrTimesheetNotFound):
		response.NotFound(c, 12001, "周报不存在")
	case errors.Is(err, service.ErrInvalidStartDate):
		response.BadRequest(c, 12002, "起始日期格式无效")
	case errors.Is(err, service.ErrInvalidHours):
		response.BadRequest(c, 12003, "工时必须为非负的半小时倍数")
	default:
		response.InternalError(c)
	}
}
