package repository

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/postdesk/internal/constants"
	"github.com/postdesk/internal/contentstore"
	"github.com/postdesk/internal/models"
)

var (
	// ErrDocumentNotFound 远端文档不存在
	ErrDocumentNotFound = errors.New("document not found")
	// ErrRevisionConflict 修订号不匹配
	ErrRevisionConflict = contentstore.ErrRevisionConflict
)

const postProjection = `{_id,_createdAt,_rev,title,slug,content,image,price,category}`

var (
	listPostsQuery   = `*[_type == "` + constants.DocumentTypePost + `"] | order(_createdAt desc)` + postProjection
	getPostByIDQuery = `*[_type == "` + constants.DocumentTypePost + `" && _id == $id][0]` + postProjection
	countBySlugQuery = `count(*[_type == "` + constants.DocumentTypePost + `" && lower(slug.current) == $slug && _id != $excludeID])`
)

// PostRepository 文章数据访问接口
type PostRepository interface {
	List(ctx context.Context) ([]models.Post, error)
	GetByID(ctx context.Context, id string) (*models.Post, error)
	CountBySlug(ctx context.Context, slug string, excludeID *string) (int64, error)
	Create(ctx context.Context, post *models.Post) error
	Update(ctx context.Context, post *models.Post) error
	SetCategories(ctx context.Context, id string, categories models.Categories, ifRevision string) (string, error)
	Delete(ctx context.Context, id string) error
}

// RemotePostRepository 基于远端内容平台的实现
type RemotePostRepository struct {
	client *contentstore.Client
}

// NewPostRepository 创建文章仓库
func NewPostRepository(client *contentstore.Client) *RemotePostRepository {
	return &RemotePostRepository{client: client}
}

type slugField struct {
	Type    string `json:"_type,omitempty"`
	Current string `json:"current"`
}

// postDocument 远端文档结构，category 兼容历史字符串形态
type postDocument struct {
	ID        string            `json:"_id"`
	CreatedAt string            `json:"_createdAt"`
	Rev       string            `json:"_rev"`
	Title     string            `json:"title"`
	Slug      *slugField        `json:"slug"`
	Content   string            `json:"content"`
	Image     string            `json:"image"`
	Price     models.Money      `json:"price"`
	Category  models.Categories `json:"category"`
}

func (d *postDocument) toModel() models.Post {
	post := models.Post{
		ID:         d.ID,
		Revision:   d.Rev,
		Title:      d.Title,
		Content:    d.Content,
		Image:      d.Image,
		Price:      d.Price,
		Categories: d.Category,
	}
	if d.Slug != nil {
		post.Slug = d.Slug.Current
	}
	if post.Categories == nil {
		post.Categories = models.Categories{}
	}
	if createdAt, err := time.Parse(time.RFC3339Nano, d.CreatedAt); err == nil {
		post.CreatedAt = createdAt
	}
	return post
}

func postFields(post *models.Post) map[string]interface{} {
	categories := post.Categories
	if categories == nil {
		categories = models.Categories{}
	}
	fields := map[string]interface{}{
		"title":    post.Title,
		"slug":     slugField{Type: constants.DocumentTypeSlug, Current: post.Slug},
		"content":  post.Content,
		"price":    post.Price.Number(),
		"category": categories,
	}
	if post.Image != "" {
		fields["image"] = post.Image
	}
	return fields
}

// List 按创建时间倒序返回全部文章
func (r *RemotePostRepository) List(ctx context.Context) ([]models.Post, error) {
	var docs []postDocument
	if _, err := r.client.Query(ctx, listPostsQuery, nil, &docs); err != nil {
		return nil, err
	}
	posts := make([]models.Post, 0, len(docs))
	for i := range docs {
		posts = append(posts, docs[i].toModel())
	}
	return posts, nil
}

// GetByID 根据 ID 获取文章，不存在时返回 nil
func (r *RemotePostRepository) GetByID(ctx context.Context, id string) (*models.Post, error) {
	var doc postDocument
	found, err := r.client.Query(ctx, getPostByIDQuery, map[string]interface{}{"id": id}, &doc)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}
	post := doc.toModel()
	return &post, nil
}

// CountBySlug 统计 slug 数量（不区分大小写）
func (r *RemotePostRepository) CountBySlug(ctx context.Context, slug string, excludeID *string) (int64, error) {
	exclude := ""
	if excludeID != nil {
		exclude = *excludeID
	}
	params := map[string]interface{}{
		"slug":      strings.ToLower(strings.TrimSpace(slug)),
		"excludeID": exclude,
	}
	var count int64
	if _, err := r.client.Query(ctx, countBySlugQuery, params, &count); err != nil {
		return 0, err
	}
	return count, nil
}

// Create 创建文章，回填 ID、修订号与创建时间
func (r *RemotePostRepository) Create(ctx context.Context, post *models.Post) error {
	doc := postFields(post)
	doc["_type"] = constants.DocumentTypePost
	result, err := r.client.Mutate(ctx, contentstore.Create(doc))
	if err != nil {
		return err
	}
	return applyMutationResult(result, post)
}

// Update 整体更新文章字段
func (r *RemotePostRepository) Update(ctx context.Context, post *models.Post) error {
	mutation := contentstore.PatchIfRevision(post.ID, post.Revision, postFields(post))
	if post.Image == "" {
		mutation.Patch.Unset = []string{"image"}
	}
	result, err := r.client.Mutate(ctx, mutation)
	if err != nil {
		return mapNotFound(err)
	}
	return applyMutationResult(result, post)
}

// SetCategories 覆盖分类集合；ifRevision 非空时要求修订号一致，返回新修订号
func (r *RemotePostRepository) SetCategories(ctx context.Context, id string, categories models.Categories, ifRevision string) (string, error) {
	if categories == nil {
		categories = models.Categories{}
	}
	set := map[string]interface{}{"category": categories}
	result, err := r.client.Mutate(ctx, contentstore.PatchIfRevision(id, ifRevision, set))
	if err != nil {
		return "", mapNotFound(err)
	}
	var doc postDocument
	if _, err := result.FirstDocument(&doc); err != nil {
		return "", fmt.Errorf("%w: %v", contentstore.ErrResponseInvalid, err)
	}
	return doc.Rev, nil
}

// Delete 删除文章
func (r *RemotePostRepository) Delete(ctx context.Context, id string) error {
	_, err := r.client.Mutate(ctx, contentstore.Delete(id))
	return err
}

func applyMutationResult(result *contentstore.MutateResult, post *models.Post) error {
	var doc postDocument
	found, err := result.FirstDocument(&doc)
	if err != nil {
		return fmt.Errorf("%w: %v", contentstore.ErrResponseInvalid, err)
	}
	if !found {
		if len(result.Results) > 0 && result.Results[0].ID != "" {
			post.ID = result.Results[0].ID
			return nil
		}
		return fmt.Errorf("%w: mutation returned no document", contentstore.ErrResponseInvalid)
	}
	saved := doc.toModel()
	post.ID = saved.ID
	post.Revision = saved.Revision
	if !saved.CreatedAt.IsZero() {
		post.CreatedAt = saved.CreatedAt
	}
	return nil
}

func mapNotFound(err error) error {
	var statusErr *contentstore.StatusError
	if errors.As(err, &statusErr) && statusErr.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%w: %v", ErrDocumentNotFound, err)
	}
	return err
}
