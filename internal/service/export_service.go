package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/luffy229/ticktock-timetracker-tentwenty/internal/model"
	"github.com/luffy229/ticktock-timetracker-tentwenty/internal/repository"
	apperrors "github.com/luffy229/ticktock-timetracker-tentwenty/pkg/errors"
)

// ── 导出模块业务错误 ──

var (
	ErrExportEmpty        = errors.New("没有可导出的周报")
	ErrExportGenerateFail = errors.New("导出文件生成失败")
)

// ExportService 导出业务接口
type ExportService interface {
	// ExportTimesheets 导出全部周报为 xlsx，返回文件内容与文件名
	ExportTimesheets(ctx context.Context) (*bytes.Buffer, string, error)
	// ExportWeekCalendar 导出单周任务为 ics 日历，每个任务一个全天事件
	ExportWeekCalendar(ctx context.Context, timesheetID string) (*bytes.Buffer, string, error)
}

type exportService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewExportService 创建 ExportService 实例
func NewExportService(repo *repository.Repository, logger *zap.Logger) ExportService {
	return &exportService{repo: repo, logger: logger}
}

// ────────────────────── ExportTimesheets ──────────────────────

func (s *exportService) ExportTimesheets(ctx context.Context) (*bytes.Buffer, string, error) {
	timesheets, err := s.repo.Timesheet.List(ctx)
	if err != nil {
		s.logger.Error("读取周报列表失败", zap.Error(err))
		return nil, "", err
	}
	if len(timesheets) == 0 {
		return nil, "", ErrExportEmpty
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "周报汇总"
	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, "", ErrExportGenerateFail
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	headers := []string{"周次", "起始日期", "总工时", "状态", "备注"}
	widths := []float64{10, 16, 12, 14, 40}
	for i, w := range widths {
		f.SetColWidth(sheet, colName(i), colName(i), w)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return nil, "", ErrExportGenerateFail
	}
	for i, h := range headers {
		f.SetCellValue(sheet, cell(i, 1), h)
	}
	f.SetCellStyle(sheet, cell(0, 1), cell(len(headers)-1, 1), headerStyle)

	for i := range timesheets {
		ts := &timesheets[i]
		row := i + 2
		f.SetCellValue(sheet, cell(0, row), ts.WeekNumber)
		f.SetCellValue(sheet, cell(1, row), ts.StartDate.Format(startDateLayout))
		f.SetCellValue(sheet, cell(2, row), ts.TotalHours)
		f.SetCellValue(sheet, cell(3, row), statusLabel(ts.Status))
		f.SetCellValue(sheet, cell(4, row), ts.Description)
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("写出 xlsx 失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	filename := fmt.Sprintf("timesheets_%s.xlsx", time.Now().Format("20060102"))
	return buf, filename, nil
}

// ────────────────────── ExportWeekCalendar ──────────────────────

func (s *exportService) ExportWeekCalendar(ctx context.Context, timesheetID string) (*bytes.Buffer, string, error) {
	week, err := s.repo.Timesheet.GetByID(ctx, timesheetID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, "", ErrTimesheetNotFound
		}
		return nil, "", err
	}

	tasks, err := s.repo.Task.ListByWeek(ctx, timesheetID)
	if err != nil {
		s.logger.Error("读取周任务失败", zap.String("timesheet_id", timesheetID), zap.Error(err))
		return nil, "", err
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//ticktock//timetracker//CN")

	for i := range tasks {
		task := &tasks[i]
		event := cal.AddEvent(fmt.Sprintf("%s@ticktock", task.ID))
		event.SetAllDayStartAt(task.Date)
		event.SetAllDayEndAt(task.Date.AddDate(0, 0, 1))
		event.SetSummary(fmt.Sprintf("%s (%.1fh)", task.Project, task.Hours))
		event.SetDescription(fmt.Sprintf("%s: %s", task.WorkType, task.Description))
		event.SetDtStampTime(time.Now())
	}

	buf := new(bytes.Buffer)
	if err := cal.SerializeTo(buf); err != nil {
		s.logger.Error("写出 ics 失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	filename := fmt.Sprintf("week_%d.ics", week.WeekNumber)
	return buf, filename, nil
}

// ── 内部辅助方法 ──

func statusLabel(status model.Status) string {
	switch status {
	case model.StatusCompleted:
		return "已完成"
	case model.StatusIncomplete:
		return "未完成"
	default:
		return "缺失"
	}
}

// colName 列序号转字母（仅支持 A-Z，导出列数有限够用）
func colName(idx int) string {
	return string(rune('A' + idx))
}

func cell(col, row int) string {
	return fmt.Sprintf("%s%d", colName(col), row)
}
