package provider

import (
	"strings"

	"github.com/postdesk/internal/cache"
	"github.com/postdesk/internal/config"
	"github.com/postdesk/internal/contentstore"
	"github.com/postdesk/internal/dashboard"
	"github.com/postdesk/internal/logger"
	"github.com/postdesk/internal/repository"
	"github.com/postdesk/internal/service"
)

// Container 依赖注入容器
type Container struct {
	Config       *config.Config
	ContentStore *contentstore.Client

	// Repositories
	PostRepo repository.PostRepository

	// Services
	CategoryService     *service.CategoryService
	PostService         *service.PostService
	PostTransferService *service.PostTransferService
	UploadService       *service.UploadService

	// Dashboard
	SessionStore        dashboard.SessionStore
	DashboardController *dashboard.Controller
}

// NewContainer 初始化容器
func NewContainer(cfg *config.Config) *Container {
	// 初始化缓存
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

	c := &Container{Config: cfg}
	c.initRepositories()
	c.initServices()
	c.initDashboard()
	return c
}

// NewContainerWithRepository 使用指定仓库初始化容器（测试与种子数据使用）
func NewContainerWithRepository(cfg *config.Config, repo repository.PostRepository) *Container {
	c := &Container{Config: cfg, PostRepo: repo}
	c.initServices()
	c.initDashboard()
	return c
}

func (c *Container) initRepositories() {
	driver := strings.ToLower(strings.TrimSpace(c.Config.ContentStore.Driver))
	switch driver {
	case config.ContentStoreDriverMemory:
		// memory 驱动不连接远端，也不提供图片上传
		c.PostRepo = repository.NewMemoryPostRepository()
	default:
		cs := c.Config.ContentStore
		c.ContentStore = contentstore.NewClient(contentstore.Config{
			ProjectID:  cs.ProjectID,
			Dataset:    cs.Dataset,
			Token:      cs.WriteToken,
			APIVersion: cs.APIVersion,
			APIHost:    cs.APIHost,
			Timeout:    cs.Timeout(),
		})
		if err := c.ContentStore.Config().ValidateRead(); err != nil {
			logger.Warnw("provider_content_store_config_incomplete", "error", err)
		}
		c.PostRepo = repository.NewPostRepository(c.ContentStore)
	}
	logger.Infow("provider_post_repository_ready", "driver", driver)
}

func (c *Container) initServices() {
	c.CategoryService = service.NewCategoryService(c.Config.Categories)
	c.PostService = service.NewPostService(c.PostRepo, c.CategoryService, c.Config.ContentStore.MaxPatchAttempts)
	c.PostTransferService = service.NewPostTransferService(c.PostService, c.Config.Export.FilenamePrefix)

	var uploader service.AssetUploader
	if c.ContentStore != nil {
		uploader = c.ContentStore
	}
	c.UploadService = service.NewUploadService(c.Config.Upload, uploader)
}

func (c *Container) initDashboard() {
	c.SessionStore = dashboard.NewSessionStore(c.Config.Dashboard.SessionTTL())
	c.DashboardController = dashboard.NewController(dashboard.Options{
		Posts:            c.PostService,
		Transfer:         c.PostTransferService,
		Uploads:          c.UploadService,
		Categories:       c.CategoryService,
		Store:            c.SessionStore,
		Logger:           logger.Z(),
		SuppressPatterns: c.Config.Log.SuppressPatterns,
	})
}
