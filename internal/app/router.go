package app

import (
	"devtrack_backend/docs"
	"devtrack_backend/internal/config"
	"devtrack_backend/internal/middleware"
	"devtrack_backend/internal/model"
	"devtrack_backend/pkg/monitoring"
	"devtrack_backend/pkg/security"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, repos *repositories, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// 1. 公共路由(无需登录)
	a.registerPublicRoutes(router, c)

	// 2. 需要授权的路由
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg), middleware.ActivityMiddleware(repos.user))
	{
		a.registerStudentRoutes(authGroup, c, cfg)

		// 3. 管理员接口
		admin := authGroup.Group("/admin")
		admin.Use(middleware.RoleMiddleware(model.Admin))
		{
			admin.POST("/sync/stale", c.sync.SyncStale)
		}
	}
}

func (a *App) registerPublicRoutes(router *gin.Engine, c *controllers) {
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/register", c.auth.Register)
		public.POST("/login", c.auth.Login)
	}
}

func (a *App) registerStudentRoutes(rg *gin.RouterGroup, c *controllers, cfg *config.Config) {
	// 账号
	rg.GET("/profile", c.auth.GetProfile)
	rg.GET("/profile/handles", c.user.GetHandles)
	rg.PUT("/profile/handles", c.user.UpdateHandles)

	// 学习记录与做题记录
	rg.POST("/sessions", c.session.Create)
	rg.GET("/sessions", c.session.List)
	rg.DELETE("/sessions/:id", c.session.Delete)
	rg.POST("/attempts", c.attempt.Record)
	rg.GET("/attempts", c.attempt.List)

	// 学习路线
	rg.GET("/roadmap", c.roadmap.Get)
	rg.PUT("/roadmap/:topic", c.roadmap.Update)

	// 同步
	// 每次同步会请求三个外部平台，单独按用户限流
	rg.POST("/sync", security.KeyedRateLimiter("sync", cfg.RateLimit.SyncPerHour, time.Hour, middleware.UserRateKey), c.sync.Sync)
	rg.GET("/sync/status", c.sync.Status)

	// 统计与画像
	rg.GET("/stats/snapshots", c.stats.Snapshots)
	rg.GET("/stats/activity", c.stats.Activity)
	rg.GET("/stats/topics", c.stats.Topics)
	rg.GET("/skill-profile", c.stats.SkillProfile)

	rg.GET("/recommendations", c.recommendation.Recommend)
	rg.POST("/coaching/analysis", c.coaching.Analyze)
	rg.GET("/leaderboard", c.leaderboard.Top)
}
