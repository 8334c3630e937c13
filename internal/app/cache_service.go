package app

import (
	"context"

	"github.com/postdesk/internal/cache"
)

// cacheService 随应用生命周期关闭 Redis 连接
type cacheService struct{}

func newCacheService() *cacheService {
	return &cacheService{}
}

// Name 服务名称
func (s *cacheService) Name() string {
	return "cache"
}

// Start 阻塞到退出信号
func (s *cacheService) Start(ctx context.Context) error {
	<-ctx.Done()
	return nil
}

// Stop 关闭连接
func (s *cacheService) Stop(ctx context.Context) error {
	return cache.Close()
}
