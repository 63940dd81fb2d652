package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/luffy229/ticktock-timetracker-tentwenty/config"
	"github.com/luffy229/ticktock-timetracker-tentwenty/internal/api/handler"
	"github.com/luffy229/ticktock-timetracker-tentwenty/internal/api/middleware"
	"github.com/luffy229/ticktock-timetracker-tentwenty/pkg/jwt"
	"github.com/luffy229/ticktock-timetracker-tentwenty/pkg/redis"
)

// Setup 初始化并返回 Gin 路由引擎
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, rdb *redis.Client, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.BodyLimit(1 << 20))

	// ── 健康检查 ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	{
		// 认证模块（无需认证，登录接口带限流）
		auth := v1.Group("/auth")
		{
			auth.POST("/login", middleware.RateLimit(rdb, 10, time.Minute), h.Auth.Login)
		}

		// 需要认证的路由
		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth(jwtMgr, rdb))
		{
			// 认证模块（需要认证）
			authorized.POST("/auth/logout", h.Auth.Logout)
			authorized.GET("/auth/me", h.Auth.GetCurrentUser)

			// 周报模块
			timesheets := authorized.Group("/timesheets")
			{
				timesheets.GET("", h.Timesheet.ListTimesheets)
				timesheets.GET("/:id", h.Timesheet.GetTimesheet)
				timesheets.POST("", h.Timesheet.CreateTimesheet)
				timesheets.PUT("/:id", h.Timesheet.UpdateTimesheet)
				timesheets.DELETE("/:id", h.Timesheet.DeleteTimesheet)

				// 任务模块（任务归属于周报的某个工作日）
				timesheets.GET("/:id/tasks", h.Task.ListTasks)
				timesheets.POST("/:id/days/:day/tasks", h.Task.CreateTask)
				timesheets.PUT("/:id/days/:day/tasks/:taskId", h.Task.UpdateTask)
				timesheets.DELETE("/:id/days/:day/tasks/:taskId", h.Task.DeleteTask)
				timesheets.PATCH("/:id/days/:day/tasks/:taskId/hours", h.Task.AdjustTaskHours)
			}

			// 导出模块
			export := authorized.Group("/export")
			{
				export.GET("/timesheets", h.Export.ExportTimesheets)
				export.GET("/timesheets/:id/calendar", h.Export.ExportWeekCalendar)
			}
		}
	}

	return r
}
