package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/postdesk/internal/csvcodec"
	"github.com/postdesk/internal/logger"
)

// PostTransferService CSV 导入导出服务
type PostTransferService struct {
	posts          *PostService
	filenamePrefix string
	now            func() time.Time
}

// NewPostTransferService 创建导入导出服务
func NewPostTransferService(posts *PostService, filenamePrefix string) *PostTransferService {
	return &PostTransferService{
		posts:          posts,
		filenamePrefix: filenamePrefix,
		now:            time.Now,
	}
}

// ExportResult 导出结果
type ExportResult struct {
	Filename string `json:"filename"`
	CSV      string `json:"csv"`
	Count    int    `json:"count"`
}

// ImportResult 导入结果
type ImportResult struct {
	Imported int      `json:"imported"`
	Errors   []string `json:"errors,omitempty"`
}

// ExportCSV 导出全部文章
func (s *PostTransferService) ExportCSV(ctx context.Context) (*ExportResult, error) {
	posts, err := s.posts.List(ctx)
	if err != nil {
		return nil, err
	}
	return &ExportResult{
		Filename: csvcodec.Filename(s.filenamePrefix, s.now()),
		CSV:      csvcodec.Encode(posts),
		Count:    len(posts),
	}, nil
}

// ImportCSV 逐行顺序导入，单行失败只记录错误不中断
func (s *PostTransferService) ImportCSV(ctx context.Context, text string) (*ImportResult, error) {
	rows, err := csvcodec.Decode(text)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrValidationFailed, err)
	}

	result := &ImportResult{}
	for _, row := range rows {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		if row.Err != nil {
			result.Errors = append(result.Errors, row.Err.Error())
			continue
		}
		_, err := s.posts.Create(ctx, CreatePostInput{
			Title:      row.Title,
			Slug:       row.Slug,
			Content:    row.Content,
			Image:      row.Image,
			Price:      row.Price,
			Categories: row.Categories,
		})
		if err != nil {
			rowErr := &csvcodec.RowError{Line: row.Line, Title: row.Title, Err: err}
			result.Errors = append(result.Errors, rowErr.Error())
			if !errors.Is(err, ErrValidationFailed) && !errors.Is(err, ErrDuplicateSlug) {
				logger.Warnw("post_import_row_failed", "line", row.Line, "error", err)
			}
			continue
		}
		result.Imported++
	}
	return result, nil
}
