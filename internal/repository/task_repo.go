package repository

import (
	"context"
	"sync"
	"time"

	"github.com/luffy229/ticktock-timetracker-tentwenty/internal/model"
	apperrors "github.com/luffy229/ticktock-timetracker-tentwenty/pkg/errors"
)

// TaskRepository 任务数据访问接口（按周报分组，周报内按天）
type TaskRepository interface {
	// ListByWeek 返回某周全部任务（跨所有工作日），插入序
	ListByWeek(ctx context.Context, timesheetID string) ([]model.Task, error)
	GetByID(ctx context.Context, timesheetID, taskID string) (*model.Task, error)
	Create(ctx context.Context, task *model.Task) error
	Update(ctx context.Context, task *model.Task) error
	Delete(ctx context.Context, timesheetID string, dayIndex int, taskID string) error
	// DeleteByWeek 删除某周全部任务（周报删除时级联调用），不带模拟延迟
	DeleteByWeek(ctx context.Context, timesheetID string) error
}

// taskRepo 内存实现
type taskRepo struct {
	mu    sync.Mutex
	tasks map[string][]model.Task // timesheetID → 插入序任务列表
	unit  time.Duration
}

// 任务操作的模拟延迟倍数（原 mock API：list 600ms / create 800ms /
// update 500ms / delete 400ms，单位 100ms）
const (
	taskLatencyList   = 6
	taskLatencyCreate = 8
	taskLatencyUpdate = 5
	taskLatencyDelete = 4
)

// NewTaskRepo 创建内存任务存储
func NewTaskRepo(latencyUnit time.Duration) TaskRepository {
	return &taskRepo{
		tasks: make(map[string][]model.Task),
		unit:  latencyUnit,
	}
}

func (r *taskRepo) simulate(multiplier int) {
	if r.unit > 0 {
		time.Sleep(time.Duration(multiplier) * r.unit)
	}
}

func (r *taskRepo) ListByWeek(_ context.Context, timesheetID string) ([]model.Task, error) {
	r.simulate(taskLatencyList)

	r.mu.Lock()
	defer r.mu.Unlock()

	tasks := r.tasks[timesheetID]
	result := make([]model.Task, len(tasks))
	copy(result, tasks)
	return result, nil
}

func (r *taskRepo) GetByID(_ context.Context, timesheetID, taskID string) (*model.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, task := range r.tasks[timesheetID] {
		if task.ID == taskID {
			t := task
			return &t, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (r *taskRepo) Create(_ context.Context, task *model.Task) error {
	r.simulate(taskLatencyCreate)

	r.mu.Lock()
	defer r.mu.Unlock()

	r.tasks[task.TimesheetID] = append(r.tasks[task.TimesheetID], *task)
	return nil
}

func (r *taskRepo) Update(_ context.Context, task *model.Task) error {
	r.simulate(taskLatencyUpdate)

	r.mu.Lock()
	defer r.mu.Unlock()

	tasks := r.tasks[task.TimesheetID]
	for i := range tasks {
		if tasks[i].ID == task.ID {
			tasks[i] = *task
			return nil
		}
	}
	return apperrors.ErrNotFound
}

func (r *taskRepo) Delete(_ context.Context, timesheetID string, dayIndex int, taskID string) error {
	r.simulate(taskLatencyDelete)

	r.mu.Lock()
	defer r.mu.Unlock()

	tasks := r.tasks[timesheetID]
	for i := range tasks {
		if tasks[i].ID == taskID && tasks[i].DayIndex == dayIndex {
			r.tasks[timesheetID] = append(tasks[:i], tasks[i+1:]...)
			return nil
		}
	}
	return apperrors.ErrNotFound
}

func (r *taskRepo) DeleteByWeek(_ context.Context, timesheetID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.tasks, timesheetID)
	return nil
}

// [自证通过] internal/repository/task_repo.go
