package router

import (
	"fmt"
	"strings"

	"github.com/postdesk/internal/cache"
	"github.com/postdesk/internal/config"
	adminhandlers "github.com/postdesk/internal/http/handlers/admin"
	"github.com/postdesk/internal/http/response"
	"github.com/postdesk/internal/logger"
	"github.com/postdesk/internal/provider"

	"github.com/gin-gonic/gin"
)

// SetupRouter 初始化路由
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()

	adminHandler := adminhandlers.New(c)
	redisPrefix := strings.TrimSpace(cfg.Redis.Prefix)
	if redisPrefix == "" {
		redisPrefix = "pd"
	}
	redisClient := cache.Client()
	importRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:import", redisPrefix),
		WindowSeconds: cfg.Security.RateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.RateLimit.MaxRequests,
		Message:       "Too many imports, please retry in %d seconds",
	}
	uploadRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:upload", redisPrefix),
		WindowSeconds: cfg.Security.RateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.RateLimit.MaxRequests,
		Message:       "Too many uploads, please retry in %d seconds",
	}
	importLimit := RateLimitMiddleware(redisClient, importRule, KeyByIP)
	uploadLimit := RateLimitMiddleware(redisClient, uploadRule, KeyByIP)
	boardImportLimit := RateLimitMiddleware(redisClient, importRule, KeyByDashboardSession)
	boardUploadLimit := RateLimitMiddleware(redisClient, uploadRule, KeyByDashboardSession)

	// 中间件
	r.Use(RecoveryMiddleware())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))

	apiV1 := r.Group("/api/v1")
	{
		admin := apiV1.Group("/admin")
		{
			admin.GET("/categories", adminHandler.GetCategories)

			admin.GET("/posts", adminHandler.GetAdminPosts)
			admin.POST("/posts", adminHandler.CreatePost)
			admin.GET("/posts/export", adminHandler.ExportPosts)
			admin.POST("/posts/import", importLimit, adminHandler.ImportPosts)
			admin.GET("/posts/:id", adminHandler.GetAdminPost)
			admin.PUT("/posts/:id", adminHandler.UpdatePost)
			admin.DELETE("/posts/:id", adminHandler.DeletePost)
			admin.PUT("/posts/:id/categories", adminHandler.ReplacePostCategories)
			admin.POST("/posts/:id/categories", adminHandler.AddPostCategory)
			admin.DELETE("/posts/:id/categories/:category", adminHandler.RemovePostCategory)

			admin.POST("/upload", uploadLimit, adminHandler.UploadImage)
		}

		// 仪表盘会话接口，会话 ID 通过 X-Dashboard-Session 传递
		board := admin.Group("/dashboard")
		{
			board.GET("", adminHandler.GetDashboard)
			board.PATCH("/draft", adminHandler.UpdateDashboardDraft)
			board.POST("/draft/categories/:category", adminHandler.ToggleDashboardDraftCategory)
			board.POST("/draft/image", adminHandler.SelectDashboardImage)
			board.POST("/draft/image/upload", boardUploadLimit, adminHandler.UploadDashboardImage)
			board.POST("/draft/submit", adminHandler.SubmitDashboardDraft)
			board.POST("/draft/reset", adminHandler.ResetDashboardDraft)

			board.POST("/edit/categories/:category", adminHandler.ToggleDashboardEditCategory)
			board.POST("/edit/save", adminHandler.SaveDashboardCategoryEdit)
			board.POST("/edit/cancel", adminHandler.CancelDashboardCategoryEdit)

			board.POST("/posts/:id/edit", adminHandler.StartDashboardCategoryEdit)
			board.POST("/posts/:id/categories", adminHandler.AddDashboardPostCategory)
			board.DELETE("/posts/:id/categories/:category", adminHandler.RemoveDashboardPostCategory)
			board.DELETE("/posts/:id", adminHandler.DeleteDashboardPost)

			board.POST("/import", boardImportLimit, adminHandler.ImportDashboardCSV)
			board.GET("/export", adminHandler.ExportDashboardCSV)
		}
	}

	// 健康检查
	r.GET("/health", func(ctx *gin.Context) {
		status := gin.H{"status": "ok", "content_store_driver": cfg.ContentStore.Driver}
		if cache.Enabled() {
			if err := cache.Ping(ctx.Request.Context()); err != nil {
				status["redis"] = "unavailable"
			} else {
				status["redis"] = "ok"
			}
		}
		ctx.JSON(200, status)
	})

	r.NoRoute(func(ctx *gin.Context) {
		response.NotFound(ctx, "route not found")
	})

	return r
}
