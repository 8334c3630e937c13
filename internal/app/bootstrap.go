package app

import (
	"errors"

	"github.com/postdesk/internal/cache"
	"github.com/postdesk/internal/config"
	"github.com/postdesk/internal/provider"
	"github.com/postdesk/internal/router"
)

// BuildRunner 构建服务运行器
func BuildRunner(cfg *config.Config) (*Runner, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}

	container := provider.NewContainer(cfg)
	engine := router.SetupRouter(cfg, container)
	httpService := NewHTTPService(cfg.Server.Host+":"+cfg.Server.Port, engine)

	return NewRunner(httpService, newCacheService()), nil
}

// Run 应用启动入口
func Run(opts Options) error {
	opts = normalizeOptions(opts)
	if opts.Config == nil {
		return errors.New("config is nil")
	}

	runner, err := BuildRunner(opts.Config)
	if err != nil {
		return err
	}

	opts.Logger.Infow("app_start",
		"addr", opts.Config.Server.Host+":"+opts.Config.Server.Port,
		"content_store_driver", opts.Config.ContentStore.Driver,
		"redis_enabled", cache.Enabled(),
	)
	return RunWithOptions(runner, opts)
}
