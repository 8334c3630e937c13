package main

import (
	"fmt"
	"os"
	"syscall"

	"github.com/postdesk/internal/app"
	"github.com/postdesk/internal/config"
	"github.com/postdesk/internal/logger"

	"github.com/gin-gonic/gin"
)

const (
	ansiReset = "\033[0m"
	ansiBold  = "\033[1m"
	ansiDim   = "\033[2m"
	ansiCyan  = "\033[36m"
)

func main() {
	printStartupBanner()

	// 加载配置
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()

	if cfg.ContentStore.Driver != config.ContentStoreDriverMemory {
		if cfg.ContentStore.ProjectID == "" || cfg.ContentStore.Dataset == "" {
			stdLog.Printf("警告: 未配置 content_store.project_id 或 content_store.dataset，文章列表将无法读取")
		}
		if cfg.ContentStore.WriteToken == "" {
			stdLog.Printf("警告: 未配置 content_store.write_token，创建、修改、删除与上传将失败")
		}
	}

	// 设置 Gin 模式
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := app.Run(app.Options{
		Config:  cfg,
		Logger:  logger.S(),
		Signals: []os.Signal{syscall.SIGINT, syscall.SIGTERM},
	}); err != nil {
		stdLog.Fatalf("服务运行失败: %v", err)
	}
}

func printStartupBanner() {
	fmt.Println(ansiCyan + ansiBold + "postdesk" + ansiReset + ansiDim + "  content post admin service" + ansiReset)
	fmt.Println(ansiDim + "--------------------------------------------------------------" + ansiReset)
}
