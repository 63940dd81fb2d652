package service

import (
	"context"
	"testing"

	"go.uber.org/zap"

	"github.com/luffy229/ticktock-timetracker-tentwenty/internal/dto"
	"github.com/luffy229/ticktock-timetracker-tentwenty/internal/repository"
	"github.com/luffy229/ticktock-timetracker-tentwenty/internal/storage"
)

func newTestTaskEnv(t *testing.T) (TaskService, TimesheetService, *repository.Repository) {
	repo, store, _ := newTestEnv(t)
	logger := zap.NewNop()
	return NewTaskService(repo, store, logger), NewTimesheetService(repo, store, logger), repo
}

func createWeek(t *testing.T, svc TimesheetService, hours float64) *dto.TimesheetResponse {
	t.Helper()
	week, err := svc.Create(context.Background(), &dto.CreateTimesheetRequest{
		WeekNumber: 30,
		StartDate:  "2024-07-22",
		TotalHours: hours,
	})
	if err != nil {
		t.Fatalf("创建周报失败: %v", err)
	}
	return week
}

func TestTaskCreateRecomputesWeekTotal(t *testing.T) {
	taskSvc, tsSvc, _ := newTestTaskEnv(t)
	ctx := context.Background()
	week := createWeek(t, tsSvc, 0)

	// 分布在不同工作日的任务都计入同一周总工时
	add := func(day int, hours float64) {
		t.Helper()
		if _, err := taskSvc.Create(ctx, week.ID, day, &dto.CreateTaskRequest{
			Project: "内部网站", WorkType: "开发", Description: "功能迭代", Hours: hours,
		}); err != nil {
			t.Fatalf("创建任务失败: %v", err)
		}
	}
	add(0, 12)
	add(2, 12)
	add(4, 8)

	got, err := tsSvc.GetByID(ctx, week.ID)
	if err != nil {
		t.Fatalf("查询周报失败: %v", err)
	}
	if got.TotalHours != 32 {
		t.Errorf("周总工时应为 32, 实际 %.1f", got.TotalHours)
	}
	if got.Status != "incomplete" {
		t.Errorf("32 小时应为 incomplete, 实际 %s", got.Status)
	}

	// 补满 8 小时恰好到达 40，状态翻转为 completed
	add(1, 8)
	got, _ = tsSvc.GetByID(ctx, week.ID)
	if got.TotalHours != 40 {
		t.Errorf("周总工时应为 40, 实际 %.1f", got.TotalHours)
	}
	if got.Status != "completed" {
		t.Errorf("恰好 40 小时应为 completed, 实际 %s", got.Status)
	}
}

func TestTaskDeleteLastTaskMakesWeekMissing(t *testing.T) {
	taskSvc, tsSvc, _ := newTestTaskEnv(t)
	ctx := context.Background()
	week := createWeek(t, tsSvc, 0)

	task, err := taskSvc.Create(ctx, week.ID, 1, &dto.CreateTaskRequest{
		Project: "客户门户", WorkType: "测试", Description: "回归用例", Hours: 6,
	})
	if err != nil {
		t.Fatalf("创建任务失败: %v", err)
	}

	if err := taskSvc.Delete(ctx, week.ID, 1, task.ID); err != nil {
		t.Fatalf("删除任务失败: %v", err)
	}

	got, _ := tsSvc.GetByID(ctx, week.ID)
	if got.TotalHours != 0 {
		t.Errorf("删除最后一个任务后总工时应为 0, 实际 %.1f", got.TotalHours)
	}
	if got.Status != "missing" {
		t.Errorf("总工时归零后状态应为 missing, 实际 %s", got.Status)
	}
}

func TestTaskUpdateHoursRecomputes(t *testing.T) {
	taskSvc, tsSvc, _ := newTestTaskEnv(t)
	ctx := context.Background()
	week := createWeek(t, tsSvc, 0)

	task, err := taskSvc.Create(ctx, week.ID, 3, &dto.CreateTaskRequest{
		Project: "内部网站", WorkType: "开发", Description: "接口联调", Hours: 4,
	})
	if err != nil {
		t.Fatalf("创建任务失败: %v", err)
	}

	hours := 7.5
	if _, err := taskSvc.Update(ctx, week.ID, 3, task.ID, &dto.UpdateTaskRequest{Hours: &hours}); err != nil {
		t.Fatalf("更新任务失败: %v", err)
	}

	got, _ := tsSvc.GetByID(ctx, week.ID)
	if got.TotalHours != 7.5 {
		t.Errorf("更新后总工时应为 7.5, 实际 %.1f", got.TotalHours)
	}
}

func TestTaskAdjustHoursStepAndClamp(t *testing.T) {
	taskSvc, tsSvc, _ := newTestTaskEnv(t)
	ctx := context.Background()
	week := createWeek(t, tsSvc, 0)

	task, err := taskSvc.Create(ctx, week.ID, 0, &dto.CreateTaskRequest{
		Project: "客户门户", WorkType: "开发", Description: "样式修复", Hours: 0.5,
	})
	if err != nil {
		t.Fatalf("创建任务失败: %v", err)
	}

	up, err := taskSvc.AdjustHours(ctx, week.ID, 0, task.ID, "increment")
	if err != nil {
		t.Fatalf("递增失败: %v", err)
	}
	if up.Hours != 1.0 {
		t.Errorf("0.5 递增后应为 1.0, 实际 %.1f", up.Hours)
	}

	down, _ := taskSvc.AdjustHours(ctx, week.ID, 0, task.ID, "decrement")
	down, _ = taskSvc.AdjustHours(ctx, week.ID, 0, down.ID, "decrement")
	if down.Hours != 0 {
		t.Errorf("连续递减后应为 0, 实际 %.1f", down.Hours)
	}

	// 已到下限再递减保持 0
	down, err = taskSvc.AdjustHours(ctx, week.ID, 0, task.ID, "decrement")
	if err != nil {
		t.Fatalf("下限递减不应报错: %v", err)
	}
	if down.Hours != 0 {
		t.Errorf("下限处递减应保持 0, 实际 %.1f", down.Hours)
	}

	got, _ := tsSvc.GetByID(ctx, week.ID)
	if got.TotalHours != 0 {
		t.Errorf("任务归零后周总工时应为 0, 实际 %.1f", got.TotalHours)
	}
	if got.Status != "missing" {
		t.Errorf("周状态应为 missing, 实际 %s", got.Status)
	}
}

func TestTaskCreateValidation(t *testing.T) {
	taskSvc, tsSvc, _ := newTestTaskEnv(t)
	ctx := context.Background()
	week := createWeek(t, tsSvc, 0)

	if _, err := taskSvc.Create(ctx, week.ID, 5, &dto.CreateTaskRequest{
		Project: "p", WorkType: "w", Description: "d",
	}); err != ErrTaskInvalidDay {
		t.Errorf("日序号越界期望 ErrTaskInvalidDay, 实际 %v", err)
	}

	if _, err := taskSvc.Create(ctx, week.ID, 0, &dto.CreateTaskRequest{
		Project: "  ", WorkType: "开发", Description: "描述",
	}); err != ErrTaskMissingFields {
		t.Errorf("空白项目期望 ErrTaskMissingFields, 实际 %v", err)
	}

	if _, err := taskSvc.Create(ctx, week.ID, 0, &dto.CreateTaskRequest{
		Project: "p", WorkType: "w", Description: "d", Hours: 3.3,
	}); err != ErrInvalidHours {
		t.Errorf("非半小时倍数期望 ErrInvalidHours, 实际 %v", err)
	}

	if _, err := taskSvc.Create(ctx, "no-such-week", 0, &dto.CreateTaskRequest{
		Project: "p", WorkType: "w", Description: "d",
	}); err != ErrTimesheetNotFound {
		t.Errorf("周报不存在期望 ErrTimesheetNotFound, 实际 %v", err)
	}
}

func TestTaskUpdateDayMismatch(t *testing.T) {
	taskSvc, tsSvc, _ := newTestTaskEnv(t)
	ctx := context.Background()
	week := createWeek(t, tsSvc, 0)

	task, err := taskSvc.Create(ctx, week.ID, 2, &dto.CreateTaskRequest{
		Project: "p", WorkType: "w", Description: "d", Hours: 2,
	})
	if err != nil {
		t.Fatalf("创建任务失败: %v", err)
	}

	// 任务只在其归属日下可见
	desc := "改描述"
	if _, err := taskSvc.Update(ctx, week.ID, 3, task.ID, &dto.UpdateTaskRequest{Description: &desc}); err != ErrTaskNotFound {
		t.Errorf("日序号不匹配期望 ErrTaskNotFound, 实际 %v", err)
	}
}

func TestTaskDateFollowsWeekDay(t *testing.T) {
	taskSvc, tsSvc, _ := newTestTaskEnv(t)
	ctx := context.Background()
	week := createWeek(t, tsSvc, 0) // 起始 2024-07-22 周一

	task, err := taskSvc.Create(ctx, week.ID, 4, &dto.CreateTaskRequest{
		Project: "p", WorkType: "w", Description: "d", Hours: 1,
	})
	if err != nil {
		t.Fatalf("创建任务失败: %v", err)
	}
	if task.Date != "2024-07-26" {
		t.Errorf("第 4 日（周五）日期应为 2024-07-26, 实际 %s", task.Date)
	}
}
