package service

import (
	"context"
	"testing"

	"go.uber.org/zap"

	"github.com/luffy229/ticktock-timetracker-tentwenty/internal/dto"
	"github.com/luffy229/ticktock-timetracker-tentwenty/internal/repository"
	"github.com/luffy229/ticktock-timetracker-tentwenty/internal/storage"
)

// 测试环境统一搭建：零延迟仓库 + 内存 KV
func newTestEnv(_ *testing.T) (*repository.Repository, *storage.Store, *storage.MemoryKV) {
	logger := zap.NewNop()
	repo := repository.NewRepository(0)
	kv := storage.NewMemoryKV()
	store := storage.NewStore(kv, storage.NewCodec(logger), logger)
	return repo, store, kv
}

func newTestTimesheetService(t *testing.T) (TimesheetService, *repository.Repository, *storage.Store) {
	repo, store, _ := newTestEnv(t)
	return NewTimesheetService(repo, store, zap.NewNop()), repo, store
}

func TestTimesheetCreateDerivesStatus(t *testing.T) {
	svc, _, _ := newTestTimesheetService(t)
	ctx := context.Background()

	cases := []struct {
		hours  float64
		status string
	}{
		{40, "completed"},
		{42.5, "completed"},
		{20, "incomplete"},
		{0, "missing"},
	}

	for i, tc := range cases {
		resp, err := svc.Create(ctx, &dto.CreateTimesheetRequest{
			WeekNumber: i + 1,
			StartDate:  "2024-01-01",
			TotalHours: tc.hours,
		})
		if err != nil {
			t.Fatalf("创建周报失败: %v", err)
		}
		if resp.Status != tc.status {
			t.Errorf("工时 %.1f 期望状态 %s, 实际 %s", tc.hours, tc.status, resp.Status)
		}
	}
}

func TestTimesheetCreateInvalidStartDate(t *testing.T) {
	svc, repo, _ := newTestTimesheetService(t)

	_, err := svc.Create(context.Background(), &dto.CreateTimesheetRequest{
		WeekNumber: 1,
		StartDate:  "01/01/2024",
	})
	if err != ErrInvalidStartDate {
		t.Errorf("期望 ErrInvalidStartDate, 实际 %v", err)
	}
	// 校验失败不应留下半成品记录
	if got := len(repo.Timesheet.Snapshot()); got != 0 {
		t.Errorf("校验失败后集合应为空, 实际 %d 条", got)
	}
}

func TestTimesheetUpdateRederivesStatus(t *testing.T) {
	svc, _, _ := newTestTimesheetService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, &dto.CreateTimesheetRequest{
		WeekNumber: 10,
		StartDate:  "2024-03-04",
		TotalHours: 20,
	})
	if err != nil {
		t.Fatalf("创建周报失败: %v", err)
	}
	if created.Status != "incomplete" {
		t.Fatalf("初始状态应为 incomplete, 实际 %s", created.Status)
	}

	hours := 40.0
	updated, err := svc.Update(ctx, created.ID, &dto.UpdateTimesheetRequest{TotalHours: &hours})
	if err != nil {
		t.Fatalf("更新周报失败: %v", err)
	}
	if updated.Status != "completed" {
		t.Errorf("总工时改为 40 后状态应为 completed, 实际 %s", updated.Status)
	}

	zero := 0.0
	updated, err = svc.Update(ctx, created.ID, &dto.UpdateTimesheetRequest{TotalHours: &zero})
	if err != nil {
		t.Fatalf("更新周报失败: %v", err)
	}
	if updated.Status != "missing" {
		t.Errorf("总工时归零后状态应为 missing, 实际 %s", updated.Status)
	}
}

func TestTimesheetUpdateNotFound(t *testing.T) {
	svc, _, _ := newTestTimesheetService(t)

	desc := "不存在的周报"
	_, err := svc.Update(context.Background(), "no-such-id", &dto.UpdateTimesheetRequest{Description: &desc})
	if err != ErrTimesheetNotFound {
		t.Errorf("期望 ErrTimesheetNotFound, 实际 %v", err)
	}
}

func TestTimesheetDeleteCascadesTasks(t *testing.T) {
	repo, store, _ := newTestEnv(t)
	logger := zap.NewNop()
	tsSvc := NewTimesheetService(repo, store, logger)
	taskSvc := NewTaskService(repo, store, logger)
	ctx := context.Background()

	week, err := tsSvc.Create(ctx, &dto.CreateTimesheetRequest{
		WeekNumber: 21,
		StartDate:  "2024-05-20",
	})
	if err != nil {
		t.Fatalf("创建周报失败: %v", err)
	}

	if _, err := taskSvc.Create(ctx, week.ID, 0, &dto.CreateTaskRequest{
		Project: "内部网站", WorkType: "开发", Description: "首页重构", Hours: 8,
	}); err != nil {
		t.Fatalf("创建任务失败: %v", err)
	}

	if err := tsSvc.Delete(ctx, week.ID); err != nil {
		t.Fatalf("删除周报失败: %v", err)
	}

	// 周报删除后任务不应残留
	if _, err := taskSvc.List(ctx, week.ID); err != ErrTimesheetNotFound {
		t.Errorf("删除后查询任务应报周报不存在, 实际 %v", err)
	}
}

func TestTimesheetPersistWriteThrough(t *testing.T) {
	repo, store, kv := newTestEnv(t)
	svc := NewTimesheetService(repo, store, zap.NewNop())
	ctx := context.Background()

	if _, err := svc.Create(ctx, &dto.CreateTimesheetRequest{
		WeekNumber: 7,
		StartDate:  "2024-02-12",
		TotalHours: 38,
	}); err != nil {
		t.Fatalf("创建周报失败: %v", err)
	}

	payload, ok, err := kv.Get(ctx, storage.KeyTimesheets)
	if err != nil || !ok {
		t.Fatalf("创建后应已写穿到存储: ok=%v err=%v", ok, err)
	}
	if payload == "" {
		t.Error("持久化内容不应为空")
	}

	loaded := store.LoadTimesheets(ctx)
	if len(loaded) != 1 || loaded[0].WeekNumber != 7 {
		t.Errorf("重新加载应得到刚创建的周报, 实际 %+v", loaded)
	}
}
