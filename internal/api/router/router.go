package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"duty-tracker/config"
	"duty-tracker/internal/api/handler"
	"duty-tracker/internal/api/middleware"
	"duty-tracker/pkg/jwt"
	"duty-tracker/pkg/metrics"
)

// Deps 路由依赖；Limiter 为 nil 时导入接口不限流
type Deps struct {
	Config   *config.Config
	Handler  *handler.Handler
	JWT      *jwt.Manager
	Limiter  middleware.RateLimiter
	Metrics  *metrics.Metrics
	Gatherer prometheus.Gatherer
	Logger   *zap.Logger
}

// Setup 初始化并返回 Gin 路由引擎
func Setup(d Deps) *gin.Engine {
	cfg, h := d.Config, d.Handler

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(d.Logger))
	r.Use(middleware.Metrics(d.Metrics))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.BodyLimit(cfg.Server.MaxBodyBytes))

	// ── 健康检查与指标 ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	gatherer := d.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	admin := middleware.AdminAuth(d.JWT, cfg.Auth.AuthEnabled())

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	{
		v1.POST("/auth/login", h.Auth.Login)

		// 人员
		personnel := v1.Group("/personnel")
		{
			personnel.GET("", h.Person.ListPersonnel)
			personnel.GET("/:id", h.Person.GetPerson)
			personnel.GET("/:id/details", h.Person.GetPersonDetails)
			personnel.POST("", admin, h.Person.CreatePerson)
			personnel.PUT("/:id", admin, h.Person.UpdatePerson)
			personnel.DELETE("/:id", admin, h.Person.DeactivatePerson)
		}

		// 岗位
		v1.GET("/post-types", h.Post.ListPostTypes)
		v1.POST("/post-types", admin, h.Post.CreatePostType)
		posts := v1.Group("/posts")
		{
			posts.GET("", h.Post.ListPosts)
			posts.POST("", admin, h.Post.CreatePost)
			posts.POST("/setup", admin, h.Post.SetupPosts)
		}

		// 排班记录
		assignments := v1.Group("/assignments")
		{
			assignments.GET("", h.Assignment.ListAssignments)
			assignments.GET("/:id", h.Assignment.GetAssignment)
			assignments.POST("", admin, h.Assignment.CreateAssignment)
			assignments.PUT("/:id/status", admin, h.Assignment.UpdateAssignmentStatus)
			assignments.DELETE("/:id", admin, h.Assignment.DeleteAssignment)
		}

		// 公平性
		fairness := v1.Group("/fairness")
		{
			fairness.GET("", h.Fairness.ListFairness)
			fairness.GET("/suggest", h.Fairness.Suggest)
			fairness.POST("/recalculate", admin, h.Fairness.Recalculate)
		}

		// 统计
		v1.GET("/distribution", h.Distribution.GetDistribution)
		v1.GET("/dashboard", h.Distribution.Dashboard)

		// 群聊导入
		v1.POST("/import/chat",
			admin,
			middleware.RateLimit(d.Limiter, cfg.Import.RateLimit, cfg.Import.RateWindow),
			h.Import.ImportChat,
		)

		// 导出
		export := v1.Group("/export")
		{
			export.GET("/distribution", h.Export.ExportDistribution)
			export.GET("/personnel/:id/calendar.ics", h.Export.ExportPersonCalendar)
		}
	}

	return r
}
