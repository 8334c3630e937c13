package repository

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/postdesk/internal/models"
)

// MemoryPostRepository 内存实现，用于本地运行与测试
type MemoryPostRepository struct {
	mu    sync.RWMutex
	posts map[string]*models.Post
	now   func() time.Time
}

// NewMemoryPostRepository 创建内存文章仓库
func NewMemoryPostRepository() *MemoryPostRepository {
	return &MemoryPostRepository{
		posts: make(map[string]*models.Post),
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// WithClock 指定时间来源
func (r *MemoryPostRepository) WithClock(now func() time.Time) *MemoryPostRepository {
	if now != nil {
		r.now = now
	}
	return r
}

func clonePost(post *models.Post) models.Post {
	copied := *post
	copied.Categories = append(models.Categories{}, post.Categories...)
	return copied
}

func newRevision() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:22]
}

// List 按创建时间倒序返回全部文章
func (r *MemoryPostRepository) List(ctx context.Context) ([]models.Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	posts := make([]models.Post, 0, len(r.posts))
	for _, post := range r.posts {
		posts = append(posts, clonePost(post))
	}
	sort.SliceStable(posts, func(i, j int) bool {
		if posts[i].CreatedAt.Equal(posts[j].CreatedAt) {
			return posts[i].ID > posts[j].ID
		}
		return posts[i].CreatedAt.After(posts[j].CreatedAt)
	})
	return posts, nil
}

// GetByID 根据 ID 获取文章，不存在时返回 nil
func (r *MemoryPostRepository) GetByID(ctx context.Context, id string) (*models.Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	post, ok := r.posts[id]
	if !ok {
		return nil, nil
	}
	copied := clonePost(post)
	return &copied, nil
}

// CountBySlug 统计 slug 数量（不区分大小写）
func (r *MemoryPostRepository) CountBySlug(ctx context.Context, slug string, excludeID *string) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	target := strings.ToLower(strings.TrimSpace(slug))
	var count int64
	for id, post := range r.posts {
		if excludeID != nil && id == *excludeID {
			continue
		}
		if strings.ToLower(post.Slug) == target {
			count++
		}
	}
	return count, nil
}

// Create 创建文章
func (r *MemoryPostRepository) Create(ctx context.Context, post *models.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	post.ID = uuid.NewString()
	post.Revision = newRevision()
	post.CreatedAt = r.now()
	stored := clonePost(post)
	r.posts[post.ID] = &stored
	return nil
}

// Update 整体更新文章字段
func (r *MemoryPostRepository) Update(ctx context.Context, post *models.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.posts[post.ID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrDocumentNotFound, post.ID)
	}
	if post.Revision != "" && post.Revision != current.Revision {
		return fmt.Errorf("%w: %s", ErrRevisionConflict, post.ID)
	}
	post.CreatedAt = current.CreatedAt
	post.Revision = newRevision()
	stored := clonePost(post)
	r.posts[post.ID] = &stored
	return nil
}

// SetCategories 覆盖分类集合
func (r *MemoryPostRepository) SetCategories(ctx context.Context, id string, categories models.Categories, ifRevision string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.posts[id]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrDocumentNotFound, id)
	}
	if ifRevision != "" && ifRevision != current.Revision {
		return "", fmt.Errorf("%w: %s", ErrRevisionConflict, id)
	}
	current.Categories = append(models.Categories{}, categories...)
	current.Revision = newRevision()
	return current.Revision, nil
}

// Delete 删除文章，不存在时视为成功
func (r *MemoryPostRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.posts, id)
	return nil
}
