package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/postdesk/internal/logger"
	"github.com/postdesk/internal/models"
	"github.com/postdesk/internal/repository"
	"github.com/postdesk/internal/slug"
)

const defaultMaxPatchAttempts = 3

// PostService 文章业务服务
type PostService struct {
	repo             repository.PostRepository
	categories       *CategoryService
	maxPatchAttempts int
}

// NewPostService 创建文章服务
func NewPostService(repo repository.PostRepository, categories *CategoryService, maxPatchAttempts int) *PostService {
	if maxPatchAttempts <= 0 {
		maxPatchAttempts = defaultMaxPatchAttempts
	}
	return &PostService{repo: repo, categories: categories, maxPatchAttempts: maxPatchAttempts}
}

// CreatePostInput 创建/更新文章输入
type CreatePostInput struct {
	Title      string
	Slug       string
	Content    string
	Image      string
	Price      models.Money
	Categories models.Categories
}

func (s *PostService) normalizeInput(input CreatePostInput) (CreatePostInput, error) {
	input.Title = strings.TrimSpace(input.Title)
	input.Content = strings.TrimSpace(input.Content)
	input.Image = strings.TrimSpace(input.Image)
	if input.Title == "" {
		return input, fmt.Errorf("%w: title is required", ErrValidationFailed)
	}
	input.Slug = slug.Normalize(input.Slug)
	if input.Slug == "" {
		input.Slug = slug.Generate(input.Title)
	}
	if input.Slug == "" {
		return input, fmt.Errorf("%w: slug is required", ErrValidationFailed)
	}
	if input.Price.IsNegative() {
		return input, fmt.Errorf("%w: price must not be negative", ErrValidationFailed)
	}
	input.Categories = models.NewCategories(input.Categories...)
	if len(input.Categories) == 0 {
		return input, ErrEmptySelection
	}
	if err := s.categories.Validate(input.Categories); err != nil {
		return input, err
	}
	return input, nil
}

func (s *PostService) ensureSlugAvailable(ctx context.Context, value string, excludeID *string) error {
	count, err := s.repo.CountBySlug(ctx, value, excludeID)
	if err != nil {
		return err
	}
	if count > 0 {
		return fmt.Errorf("%w: a post with the slug %q already exists, please choose a different slug", ErrDuplicateSlug, value)
	}
	return nil
}

// Create 创建文章
func (s *PostService) Create(ctx context.Context, input CreatePostInput) (*models.Post, error) {
	normalized, err := s.normalizeInput(input)
	if err != nil {
		return nil, err
	}
	if err := s.ensureSlugAvailable(ctx, normalized.Slug, nil); err != nil {
		return nil, err
	}

	post := models.Post{
		Title:      normalized.Title,
		Slug:       normalized.Slug,
		Content:    normalized.Content,
		Image:      normalized.Image,
		Price:      models.NewMoneyFromDecimal(normalized.Price.Decimal),
		Categories: normalized.Categories,
	}
	if err := s.repo.Create(ctx, &post); err != nil {
		return nil, err
	}
	return &post, nil
}

// List 按创建时间倒序获取全部文章
func (s *PostService) List(ctx context.Context) ([]models.Post, error) {
	posts, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	if posts == nil {
		posts = []models.Post{}
	}
	return posts, nil
}

// Get 获取文章详情
func (s *PostService) Get(ctx context.Context, id string) (*models.Post, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, ErrNotFound
	}
	post, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, ErrNotFound
	}
	return post, nil
}

// Update 整体更新文章
func (s *PostService) Update(ctx context.Context, id string, input CreatePostInput) (*models.Post, error) {
	post, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	normalized, err := s.normalizeInput(input)
	if err != nil {
		return nil, err
	}
	if err := s.ensureSlugAvailable(ctx, normalized.Slug, &post.ID); err != nil {
		return nil, err
	}

	post.Title = normalized.Title
	post.Slug = normalized.Slug
	post.Content = normalized.Content
	post.Image = normalized.Image
	post.Price = models.NewMoneyFromDecimal(normalized.Price.Decimal)
	post.Categories = normalized.Categories

	if err := s.repo.Update(ctx, post); err != nil {
		return nil, s.mapWriteError(err)
	}
	return post, nil
}

// Delete 删除文章
func (s *PostService) Delete(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return ErrNotFound
	}
	return s.repo.Delete(ctx, id)
}

// ReplaceCategories 整体覆盖分类集合
func (s *PostService) ReplaceCategories(ctx context.Context, id string, categories []string) error {
	normalized := models.NewCategories(categories...)
	if len(normalized) == 0 {
		return ErrEmptySelection
	}
	if err := s.categories.Validate(normalized); err != nil {
		return err
	}
	if _, err := s.repo.SetCategories(ctx, strings.TrimSpace(id), normalized, ""); err != nil {
		return s.mapWriteError(err)
	}
	return nil
}

// AddCategory 追加分类；已存在时不写入并返回 false
func (s *PostService) AddCategory(ctx context.Context, id, category string) (bool, error) {
	category = strings.TrimSpace(category)
	if category == "" {
		return false, fmt.Errorf("%w: category is required", ErrValidationFailed)
	}
	if err := s.categories.Validate(models.Categories{category}); err != nil {
		return false, err
	}
	return s.mutateCategories(ctx, id, func(current models.Categories) (models.Categories, bool) {
		if current.Contains(category) {
			return current, false
		}
		return current.With(category), true
	})
}

// RemoveCategory 移除分类；允许移除最后一个分类
func (s *PostService) RemoveCategory(ctx context.Context, id, category string) (bool, error) {
	category = strings.TrimSpace(category)
	if category == "" {
		return false, fmt.Errorf("%w: category is required", ErrValidationFailed)
	}
	return s.mutateCategories(ctx, id, func(current models.Categories) (models.Categories, bool) {
		if !current.Contains(category) {
			return current, false
		}
		return current.Without(category), true
	})
}

// mutateCategories 读取-合并-带修订号写回，冲突时重新读取重试
func (s *PostService) mutateCategories(ctx context.Context, id string, apply func(models.Categories) (models.Categories, bool)) (bool, error) {
	for attempt := 1; attempt <= s.maxPatchAttempts; attempt++ {
		post, err := s.Get(ctx, id)
		if err != nil {
			return false, err
		}
		next, changed := apply(post.Categories)
		if !changed {
			return false, nil
		}
		_, err = s.repo.SetCategories(ctx, post.ID, next, post.Revision)
		if err == nil {
			return true, nil
		}
		if !errors.Is(err, repository.ErrRevisionConflict) {
			return false, s.mapWriteError(err)
		}
		logger.Warnw("post_category_patch_conflict",
			"post_id", post.ID,
			"revision", post.Revision,
			"attempt", attempt,
		)
	}
	return false, ErrConcurrentModification
}

func (s *PostService) mapWriteError(err error) error {
	switch {
	case errors.Is(err, repository.ErrDocumentNotFound):
		return ErrNotFound
	case errors.Is(err, repository.ErrRevisionConflict):
		return ErrConcurrentModification
	default:
		return err
	}
}
