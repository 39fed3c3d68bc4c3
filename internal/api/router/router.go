package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/PriyanshuSingh9/enrollio/config"
	"github.com/PriyanshuSingh9/enrollio/internal/api/handler"
	"github.com/PriyanshuSingh9/enrollio/internal/api/middleware"
	"github.com/PriyanshuSingh9/enrollio/pkg/idtoken"
	"github.com/PriyanshuSingh9/enrollio/pkg/redis"
)

// 请求体上限：表单与自定义问题回答都是短文本
const maxBodyBytes = 1 << 20 // 1 MiB

// Setup 初始化并返回 Gin 路由引擎
func Setup(cfg *config.Config, h *handler.Handler, verifier *idtoken.Verifier, rdb *redis.Client, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.BodyLimit(maxBodyBytes))

	// ── 健康检查 ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	{
		// 公开路由（浏览项目无需登录）
		v1.GET("/programs", h.Program.List)
		v1.GET("/programs/:id", h.Program.Get)
		v1.GET("/programs/:id/calendar.ics", h.Program.Calendar)

		// 需要认证的路由（角色鉴权在 Service 层，以数据库 role 为准）
		authorized := v1.Group("")
		authorized.Use(middleware.Auth(verifier))
		{
			// 账号同步与个人资料
			authorized.POST("/auth/sync", h.Auth.Sync)
			authorized.GET("/users/me", h.User.GetMe)
			authorized.PUT("/users/me", h.User.UpdateMe)
			authorized.PUT("/users/:id/role", h.User.AssignRole)

			// 项目管理
			authorized.POST("/programs", h.Program.Create)
			authorized.GET("/programs/:id/applications", h.Application.ListByProgram)
			authorized.GET("/programs/:id/applications/export", h.Application.ExportApplicants)

			// 报名向导
			enrollment := authorized.Group("/programs/:id/enrollment")
			{
				enrollment.POST("", h.Enrollment.Start)
				enrollment.GET("", h.Enrollment.Get)
				enrollment.POST("/next", h.Enrollment.Next)
				enrollment.POST("/back", h.Enrollment.Back)
				enrollment.PUT("/form", h.Enrollment.UpdateForm)
				enrollment.PUT("/responses", h.Enrollment.SetResponses)
				enrollment.POST("/submit", middleware.RateLimit(rdb, 10, time.Minute), h.Enrollment.Submit)
				enrollment.DELETE("", h.Enrollment.Abandon)
			}

			// 申请查询与审核
			authorized.GET("/applications/my", h.Application.ListMine)
			authorized.PUT("/applications/:id/status", h.Application.Review)
		}
	}

	return r
}

