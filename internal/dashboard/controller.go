package dashboard

import (
	"context"
	"fmt"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"go.uber.org/zap"

	"github.com/postdesk/internal/logger"
	"github.com/postdesk/internal/models"
	"github.com/postdesk/internal/service"
	"github.com/postdesk/internal/slug"
)

// Controller 仪表盘控制器：维护会话状态并调用业务服务
type Controller struct {
	posts      *service.PostService
	transfer   *service.PostTransferService
	uploads    *service.UploadService
	categories *service.CategoryService
	store      SessionStore
	log        *zap.SugaredLogger
}

// Options 控制器依赖
type Options struct {
	Posts            *service.PostService
	Transfer         *service.PostTransferService
	Uploads          *service.UploadService
	Categories       *service.CategoryService
	Store            SessionStore
	Logger           *zap.Logger
	SuppressPatterns []string // 只在控制器内生效的日志屏蔽片段
}

// NewController 创建控制器
func NewController(opts Options) *Controller {
	store := opts.Store
	if store == nil {
		store = NewMemorySessionStore(0)
	}
	return &Controller{
		posts:      opts.Posts,
		transfer:   opts.Transfer,
		uploads:    opts.Uploads,
		categories: opts.Categories,
		store:      store,
		log:        logger.WithSuppressed(opts.Logger, opts.SuppressPatterns...).Sugar(),
	}
}

// Overview 仪表盘首页数据
type Overview struct {
	Session    SessionView             `json:"session"`
	Posts      []models.Post           `json:"posts"`
	Categories []models.CategoryOption `json:"categories"`
}

// DraftPatch 表单字段更新，nil 表示不修改
type DraftPatch struct {
	Title   *string `json:"title"`
	Slug    *string `json:"slug"`
	Content *string `json:"content"`
	Price   *string `json:"price"`
	Image   *string `json:"image"`
}

func (c *Controller) mutate(ctx context.Context, id string, fn func(*Session)) (*Session, error) {
	session, err := c.store.Load(ctx, id)
	if err != nil {
		return nil, err
	}
	fn(session)
	if err := c.store.Save(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// Get 读取会话
func (c *Controller) Get(ctx context.Context, id string) (*Session, error) {
	return c.store.Load(ctx, id)
}

// Overview 读取会话与文章列表
func (c *Controller) Overview(ctx context.Context, id string) (*Overview, error) {
	session, err := c.store.Load(ctx, id)
	if err != nil {
		return nil, err
	}
	posts, err := c.posts.List(ctx)
	if err != nil {
		c.log.Errorw("dashboard_list_posts_failed", "session_id", id, "error", err)
		return nil, err
	}
	return &Overview{Session: session.View(), Posts: posts, Categories: c.categories.List()}, nil
}

// UpdateDraft 更新表单；slug 为空时由标题派生，手动输入的 slug 会被格式化
func (c *Controller) UpdateDraft(ctx context.Context, id string, patch DraftPatch) (*Session, error) {
	return c.mutate(ctx, id, func(s *Session) {
		if patch.Title != nil {
			s.Form.Title = *patch.Title
			if s.Form.Slug == "" {
				s.Form.Slug = slug.Format(*patch.Title)
			}
		}
		if patch.Slug != nil {
			s.Form.Slug = slug.Format(*patch.Slug)
		}
		if patch.Content != nil {
			s.Form.Content = *patch.Content
		}
		if patch.Price != nil {
			s.Form.Price = *patch.Price
		}
		if patch.Image != nil {
			s.Form.Image = strings.TrimSpace(*patch.Image)
		}
	})
}

// ToggleCategory 切换表单中的分类
func (c *Controller) ToggleCategory(ctx context.Context, id, category string) (*Session, error) {
	return c.mutate(ctx, id, func(s *Session) {
		category = strings.TrimSpace(category)
		if category == "" || c.categories.Validate(models.Categories{category}) != nil {
			s.fail(fmt.Sprintf("Unknown category: %q", category))
			return
		}
		s.Form.Categories = toggle(s.Form.Categories, category)
	})
}

// SelectImage 选择待上传图片并生成预览
func (c *Controller) SelectImage(ctx context.Context, id, filename, contentType string, data []byte) (*Session, error) {
	return c.mutate(ctx, id, func(s *Session) {
		if len(data) == 0 {
			s.fail("Please select an image file first")
			return
		}
		contentType = strings.TrimSpace(contentType)
		if contentType == "" || contentType == "application/octet-stream" {
			contentType = mimetype.Detect(data).String()
		}
		s.PendingImage = &PendingImage{Filename: filename, ContentType: contentType, Data: data}
		s.Preview = previewDataURL(contentType, data)
	})
}

// UploadImage 上传已选择的图片，成功后写入表单图片地址
func (c *Controller) UploadImage(ctx context.Context, id string) (*Session, error) {
	return c.mutate(ctx, id, func(s *Session) {
		if s.PendingImage == nil {
			s.fail("Please select an image file first")
			return
		}
		pending := s.PendingImage
		result, err := c.uploads.UploadBytes(ctx, pending.Filename, pending.ContentType, pending.Data)
		if err != nil {
			c.log.Errorw("dashboard_image_upload_failed", "session_id", id, "filename", pending.Filename, "error", err)
			s.fail("Error uploading image: " + DescribeError(err))
			return
		}
		s.Form.Image = result.URL
		s.success("Image uploaded successfully!")
	})
}

// Submit 提交表单创建文章，成功后重置表单
func (c *Controller) Submit(ctx context.Context, id string) (*Session, error) {
	return c.mutate(ctx, id, func(s *Session) {
		s.Message = nil
		if len(s.Form.Categories) == 0 {
			s.fail("Please select at least one category")
			return
		}
		price, err := models.ParseMoney(s.Form.Price)
		if err != nil {
			s.fail("Error adding post: Price must be a number")
			return
		}
		post, err := c.posts.Create(ctx, service.CreatePostInput{
			Title:      s.Form.Title,
			Slug:       s.Form.Slug,
			Content:    s.Form.Content,
			Image:      s.Form.Image,
			Price:      price,
			Categories: s.Form.Categories,
		})
		if err != nil {
			c.log.Errorw("dashboard_post_create_failed", "session_id", id, "slug", s.Form.Slug, "error", err)
			s.fail("Error adding post: " + describeWriteError(err))
			return
		}
		c.log.Infow("dashboard_post_created", "session_id", id, "post_id", post.ID, "slug", post.Slug)
		s.resetForm()
		s.success("Post added successfully!")
	})
}

// Reset 清空表单与提示
func (c *Controller) Reset(ctx context.Context, id string) (*Session, error) {
	return c.mutate(ctx, id, func(s *Session) {
		s.resetForm()
		s.Message = nil
	})
}

// StartCategoryEdit 进入分类编辑
func (c *Controller) StartCategoryEdit(ctx context.Context, id, postID string) (*Session, error) {
	return c.mutate(ctx, id, func(s *Session) {
		post, err := c.posts.Get(ctx, postID)
		if err != nil {
			s.fail("Error: " + DescribeError(err))
			return
		}
		s.Editing = &CategoryEdit{PostID: post.ID, Categories: append(models.Categories{}, post.Categories...)}
	})
}

// ToggleEditCategory 切换编辑中的分类
func (c *Controller) ToggleEditCategory(ctx context.Context, id, category string) (*Session, error) {
	return c.mutate(ctx, id, func(s *Session) {
		if s.Editing == nil {
			s.fail("No post is being edited")
			return
		}
		category = strings.TrimSpace(category)
		if category == "" {
			return
		}
		s.Editing.Categories = toggle(s.Editing.Categories, category)
	})
}

// SaveCategoryEdit 保存编辑中的分类集合
func (c *Controller) SaveCategoryEdit(ctx context.Context, id string) (*Session, error) {
	return c.mutate(ctx, id, func(s *Session) {
		if s.Editing == nil {
			s.fail("No post is being edited")
			return
		}
		if len(s.Editing.Categories) == 0 {
			s.fail("Please select at least one category")
			return
		}
		if err := c.posts.ReplaceCategories(ctx, s.Editing.PostID, s.Editing.Categories); err != nil {
			c.log.Errorw("dashboard_categories_update_failed", "session_id", id, "post_id", s.Editing.PostID, "error", err)
			s.fail("Error updating categories: " + DescribeError(err))
			return
		}
		s.Editing = nil
		s.success("Categories updated successfully!")
	})
}

// CancelCategoryEdit 退出分类编辑
func (c *Controller) CancelCategoryEdit(ctx context.Context, id string) (*Session, error) {
	return c.mutate(ctx, id, func(s *Session) {
		s.Editing = nil
	})
}

// AddCategory 为文章追加分类
func (c *Controller) AddCategory(ctx context.Context, id, postID, category string) (*Session, error) {
	return c.mutate(ctx, id, func(s *Session) {
		changed, err := c.posts.AddCategory(ctx, postID, category)
		if err != nil {
			c.log.Errorw("dashboard_category_add_failed", "session_id", id, "post_id", postID, "category", category, "error", err)
			s.fail("Error: " + DescribeError(err))
			return
		}
		if !changed {
			s.info("Category already exists")
			return
		}
		s.success("Category added successfully!")
	})
}

// RemoveCategory 从文章移除分类
func (c *Controller) RemoveCategory(ctx context.Context, id, postID, category string) (*Session, error) {
	return c.mutate(ctx, id, func(s *Session) {
		if _, err := c.posts.RemoveCategory(ctx, postID, category); err != nil {
			c.log.Errorw("dashboard_category_remove_failed", "session_id", id, "post_id", postID, "category", category, "error", err)
			s.fail("Error: " + DescribeError(err))
			return
		}
		s.success("Category removed successfully!")
	})
}

// DeletePost 删除文章
func (c *Controller) DeletePost(ctx context.Context, id, postID string) (*Session, error) {
	return c.mutate(ctx, id, func(s *Session) {
		if err := c.posts.Delete(ctx, postID); err != nil {
			c.log.Errorw("dashboard_post_delete_failed", "session_id", id, "post_id", postID, "error", err)
			s.fail("Error deleting post: " + DescribeError(err))
			return
		}
		if s.Editing != nil && s.Editing.PostID == postID {
			s.Editing = nil
		}
		s.success("Post deleted successfully!")
	})
}

// ImportCSV 导入 CSV 并汇总结果
func (c *Controller) ImportCSV(ctx context.Context, id, text string) (*Session, *service.ImportResult, error) {
	var result *service.ImportResult
	session, err := c.mutate(ctx, id, func(s *Session) {
		imported, err := c.transfer.ImportCSV(ctx, text)
		if err != nil {
			c.log.Errorw("dashboard_csv_import_failed", "session_id", id, "error", err)
			s.fail("Error importing CSV: " + DescribeError(err))
			result = imported
			return
		}
		result = imported

		summary := fmt.Sprintf("Successfully imported %d post(s)", imported.Imported)
		if len(imported.Errors) > 0 {
			summary += "\n\nErrors:\n" + strings.Join(imported.Errors, "\n")
		}
		s.success(summary)
	})
	return session, result, err
}

// ExportCSV 导出 CSV
func (c *Controller) ExportCSV(ctx context.Context, id string) (*Session, *service.ExportResult, error) {
	var result *service.ExportResult
	session, err := c.mutate(ctx, id, func(s *Session) {
		exported, err := c.transfer.ExportCSV(ctx)
		if err != nil {
			c.log.Errorw("dashboard_csv_export_failed", "session_id", id, "error", err)
			s.fail("Error exporting CSV: " + DescribeError(err))
			return
		}
		result = exported
		s.success(fmt.Sprintf("Successfully exported %d posts to CSV", exported.Count))
	})
	return session, result, err
}
