package admin

import (
	"github.com/postdesk/internal/http/response"
	"github.com/postdesk/internal/models"
	"github.com/postdesk/internal/service"

	"github.com/gin-gonic/gin"
)

// PostUpsertRequest 文章创建/更新请求
type PostUpsertRequest struct {
	Title      string            `json:"title" binding:"required"`
	Slug       string            `json:"slug"`
	Content    string            `json:"content"`
	Image      string            `json:"image"`
	Price      models.Money      `json:"price"`
	Categories models.Categories `json:"categories"`
}

func (r PostUpsertRequest) toInput() service.CreatePostInput {
	return service.CreatePostInput{
		Title:      r.Title,
		Slug:       r.Slug,
		Content:    r.Content,
		Image:      r.Image,
		Price:      r.Price,
		Categories: r.Categories,
	}
}

// CategoriesRequest 分类覆盖请求
type CategoriesRequest struct {
	Categories []string `json:"categories"`
}

// CategoryRequest 单个分类追加请求
type CategoryRequest struct {
	Category string `json:"category" binding:"required"`
}

// GetAdminPosts 获取文章列表（按创建时间倒序）
func (h *Handler) GetAdminPosts(c *gin.Context) {
	posts, err := h.PostService.List(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, posts)
}

// GetAdminPost 获取文章详情
func (h *Handler) GetAdminPost(c *gin.Context) {
	post, err := h.PostService.Get(c.Request.Context(), pathParam(c, "id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, post)
}

// CreatePost 创建文章
func (h *Handler) CreatePost(c *gin.Context) {
	var req PostUpsertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", nil)
		return
	}
	post, err := h.PostService.Create(c.Request.Context(), req.toInput())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	requestLog(c).Infow("admin_post_created", "post_id", post.ID, "slug", post.Slug)
	response.SuccessWithMsg(c, "Post added successfully!", post)
}

// UpdatePost 更新文章
func (h *Handler) UpdatePost(c *gin.Context) {
	var req PostUpsertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", nil)
		return
	}
	post, err := h.PostService.Update(c.Request.Context(), pathParam(c, "id"), req.toInput())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.SuccessWithMsg(c, "Post updated successfully!", post)
}

// DeletePost 删除文章
func (h *Handler) DeletePost(c *gin.Context) {
	id := pathParam(c, "id")
	if err := h.PostService.Delete(c.Request.Context(), id); err != nil {
		respondServiceError(c, err)
		return
	}
	requestLog(c).Infow("admin_post_deleted", "post_id", id)
	response.SuccessWithMsg(c, "Post deleted successfully!", nil)
}

// ReplacePostCategories 覆盖文章分类集合
func (h *Handler) ReplacePostCategories(c *gin.Context) {
	var req CategoriesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", nil)
		return
	}
	if err := h.PostService.ReplaceCategories(c.Request.Context(), pathParam(c, "id"), req.Categories); err != nil {
		respondServiceError(c, err)
		return
	}
	response.SuccessWithMsg(c, "Categories updated successfully!", nil)
}

// AddPostCategory 追加单个分类
func (h *Handler) AddPostCategory(c *gin.Context) {
	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "category is required", nil)
		return
	}
	changed, err := h.PostService.AddCategory(c.Request.Context(), pathParam(c, "id"), req.Category)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	msg := "Category added successfully!"
	if !changed {
		msg = "Category already exists"
	}
	response.SuccessWithMsg(c, msg, gin.H{"changed": changed})
}

// RemovePostCategory 移除单个分类
func (h *Handler) RemovePostCategory(c *gin.Context) {
	changed, err := h.PostService.RemoveCategory(c.Request.Context(), pathParam(c, "id"), pathParam(c, "category"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.SuccessWithMsg(c, "Category removed successfully!", gin.H{"changed": changed})
}

// GetCategories 获取分类词表
func (h *Handler) GetCategories(c *gin.Context) {
	response.Success(c, gin.H{
		"restricted": h.CategoryService.Restricted(),
		"items":      h.CategoryService.List(),
	})
}
