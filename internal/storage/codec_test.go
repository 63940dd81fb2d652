package storage

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/luffy229/ticktock-timetracker-tentwenty/internal/model"
)

func newTestCodec() *Codec {
	return NewCodec(zap.NewNop())
}

// ── 往返测试 ──

func TestCodec_RoundTrip(t *testing.T) {
	codec := newTestCodec()
	original := DefaultTimesheets(time.Now())

	payload, err := codec.Serialize(original)
	if err != nil {
		t.Fatalf("Serialize 失败: %v", err)
	}

	restored := codec.Deserialize(payload)
	if len(restored) != len(original) {
		t.Fatalf("期望 %d 条记录，实际 %d", len(original), len(restored))
	}

	for i := range original {
		a, b := &original[i], &restored[i]
		if a.ID != b.ID || a.WeekNumber != b.WeekNumber ||
			a.TotalHours != b.TotalHours || a.Status != b.Status ||
			a.Description != b.Description {
			t.Errorf("记录 %d 字段不一致: %+v vs %+v", i, a, b)
		}
		if !a.StartDate.Equal(b.StartDate) {
			t.Errorf("记录 %d StartDate 不一致: %v vs %v", i, a.StartDate, b.StartDate)
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			t.Errorf("记录 %d CreatedAt 不一致: %v vs %v", i, a.CreatedAt, b.CreatedAt)
		}
		if !a.UpdatedAt.Equal(b.UpdatedAt) {
			t.Errorf("记录 %d UpdatedAt 不一致: %v vs %v", i, a.UpdatedAt, b.UpdatedAt)
		}
	}
}

func TestCodec_RoundTrip_BoundaryDates(t *testing.T) {
	codec := newTestCodec()
	original := []model.Timesheet{
		{
			ID:         "ts-jan1",
			WeekNumber: 1,
			StartDate:  time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			TotalHours: 40,
			Status:     model.StatusCompleted,
			CreatedAt:  time.Date(2023, 12, 31, 23, 59, 59, 0, time.UTC),
			UpdatedAt:  time.Date(2024, 1, 1, 8, 30, 0, 0, time.UTC),
		},
		{
			ID:         "ts-dec31",
			WeekNumber: 53,
			StartDate:  time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC),
			TotalHours: 12.5,
			Status:     model.StatusIncomplete,
			CreatedAt:  time.Date(2024, 12, 30, 0, 0, 0, 0, time.UTC),
			UpdatedAt:  time.Date(2024, 12, 31, 17, 0, 0, 500000000, time.UTC),
		},
	}

	payload, err := codec.Serialize(original)
	if err != nil {
		t.Fatalf("Serialize 失败: %v", err)
	}

	restored := codec.Deserialize(payload)
	if len(restored) != 2 {
		t.Fatalf("期望 2 条记录，实际 %d", len(restored))
	}

	for i := range original {
		if !original[i].StartDate.Equal(restored[i].StartDate) {
			t.Errorf("边界日期往返失败: %v vs %v", original[i].StartDate, restored[i].StartDate)
		}
		if !original[i].UpdatedAt.Equal(restored[i].UpdatedAt) {
			t.Errorf("UpdatedAt 往返失败: %v vs %v", original[i].UpdatedAt, restored[i].UpdatedAt)
		}
	}
}

// ── 回退测试 ──

func TestCodec_Deserialize_EmptyPayload(t *testing.T) {
	codec := newTestCodec()

	restored := codec.Deserialize("")
	if len(restored) != 5 {
		t.Fatalf("空载荷期望回退 5 条默认记录，实际 %d", len(restored))
	}

	for _, ts := range restored {
		if ts.Status != model.DeriveStatus(ts.TotalHours) {
			t.Errorf("默认记录状态与工时不一致: hours=%v status=%s", ts.TotalHours, ts.Status)
		}
	}
}

func TestCodec_Deserialize_MalformedPayload(t *testing.T) {
	codec := newTestCodec()

	for _, payload := range []string{"{not valid}", "[{\"id\":1}", "null garbage"} {
		restored := codec.Deserialize(payload)
		if len(restored) != 5 {
			t.Errorf("损坏载荷 %q 期望回退 5 条默认记录，实际 %d", payload, len(restored))
		}
	}
}

func TestCodec_Deserialize_MalformedDate(t *testing.T) {
	codec := newTestCodec()

	payload := `[{"id":"x","week_number":1,"start_date":"not-a-date","total_hours":8,"status":"incomplete","created_at":"not-a-date","updated_at":"not-a-date"}]`
	restored := codec.Deserialize(payload)
	if len(restored) != 5 {
		t.Errorf("日期损坏期望回退默认数据集，实际 %d 条", len(restored))
	}
}

// ── 默认数据集测试 ──

func TestDefaultTimesheets(t *testing.T) {
	now := time.Date(2024, 11, 27, 15, 0, 0, 0, time.UTC) // 周三
	timesheets := DefaultTimesheets(now)

	if len(timesheets) != 5 {
		t.Fatalf("期望 5 条默认记录，实际 %d", len(timesheets))
	}

	// 三种状态均应出现
	seen := map[model.Status]bool{}
	for _, ts := range timesheets {
		seen[ts.Status] = true
		if ts.Status != model.DeriveStatus(ts.TotalHours) {
			t.Errorf("状态必须由工时派生: hours=%v status=%s", ts.TotalHours, ts.Status)
		}
		if ts.StartDate.Weekday() != time.Monday {
			t.Errorf("周起始日期应为周一，实际 %v", ts.StartDate.Weekday())
		}
	}
	for _, s := range []model.Status{model.StatusCompleted, model.StatusIncomplete, model.StatusMissing} {
		if !seen[s] {
			t.Errorf("默认数据集应覆盖状态 %s", s)
		}
	}

	// 最近一周在前
	if !timesheets[0].StartDate.After(timesheets[4].StartDate) {
		t.Error("默认数据集应按周起始日期倒序")
	}
}

// ── Store 门面测试 ──

func TestStore_SaveAndLoad(t *testing.T) {
	kv := NewMemoryKV()
	store := NewStore(kv, newTestCodec(), zap.NewNop())
	ctx := context.Background()

	original := DefaultTimesheets(time.Now())
	if err := store.SaveTimesheets(ctx, original); err != nil {
		t.Fatalf("SaveTimesheets 失败: %v", err)
	}

	loaded := store.LoadTimesheets(ctx)
	if len(loaded) != len(original) {
		t.Fatalf("期望 %d 条记录，实际 %d", len(original), len(loaded))
	}
	if loaded[0].ID != original[0].ID {
		t.Errorf("期望 ID=%s，实际=%s", original[0].ID, loaded[0].ID)
	}
}

func TestStore_LoadWithoutPayload_FallsBack(t *testing.T) {
	store := NewStore(NewMemoryKV(), newTestCodec(), zap.NewNop())

	loaded := store.LoadTimesheets(context.Background())
	if len(loaded) != 5 {
		t.Errorf("无载荷期望默认数据集 5 条，实际 %d", len(loaded))
	}
}

func TestStore_UserRoundTrip(t *testing.T) {
	kv := NewMemoryKV()
	store := NewStore(kv, newTestCodec(), zap.NewNop())
	ctx := context.Background()

	user := &model.User{ID: "1", Name: "John Doe", Email: "demo@timetracker.com"}
	if err := store.SaveUser(ctx, user); err != nil {
		t.Fatalf("SaveUser 失败: %v", err)
	}

	if _, ok, _ := kv.Get(ctx, KeyUser); !ok {
		t.Error("会话主体应已持久化")
	}

	if err := store.ClearUser(ctx); err != nil {
		t.Fatalf("ClearUser 失败: %v", err)
	}
	if _, ok, _ := kv.Get(ctx, KeyUser); ok {
		t.Error("登出后会话主体应被清除")
	}
}
