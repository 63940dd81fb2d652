package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/luffy229/ticktock-timetracker-tentwenty/pkg/response"
)

// MustGetUserID 从 Gin 上下文中安全提取 user_id。
// 如果 JWT 中间件未正确注入 user_id，返回 false 并写入 401 响应。
// 调用方应在 ok=false 时直接 return。
func MustGetUserID(c *gin.Context) (string, bool) {
	v, exists := c.Get("user_id")
	if !exists {
		response.Unauthorized(c, 10002, "未认证")
		return "", false
	}
	s, ok := v.(string)
	if !ok || s == "" {
		response.Unauthorized(c, 10002, "未认证")
		return "", false
	}
	return s, true
}

// GetTokenMeta 提取中间件注入的 Token 标识与过期时间，缺失时返回零值。
func GetTokenMeta(c *gin.Context) (jti string, expiresAt time.Time) {
	if v, exists := c.Get("jti"); exists {
		jti, _ = v.(string)
	}
	if v, exists := c.Get("expires_at"); exists {
		expiresAt, _ = v.(time.Time)
	}
	return jti, expiresAt
}
