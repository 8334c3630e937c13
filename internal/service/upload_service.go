package service

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/postdesk/internal/config"
	"github.com/postdesk/internal/contentstore"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/webp"
)

// AssetUploader 远端资源上传接口
type AssetUploader interface {
	UploadImage(ctx context.Context, body io.Reader, filename, contentType string) (*contentstore.Asset, error)
}

// UploadService 图片上传服务：本地校验后转存到远端资源库
type UploadService struct {
	cfg      config.UploadConfig
	uploader AssetUploader
}

// NewUploadService 创建上传服务
func NewUploadService(cfg config.UploadConfig, uploader AssetUploader) *UploadService {
	return &UploadService{cfg: cfg, uploader: uploader}
}

// UploadInput 上传输入
type UploadInput struct {
	Filename    string
	ContentType string // 客户端声明的类型，为空时使用探测结果
	Size        int64
	Body        io.ReadSeeker
}

// UploadResult 上传结果
type UploadResult struct {
	URL         string `json:"url"`
	AssetID     string `json:"asset_id"`
	ContentType string `json:"content_type"`
	Width       int    `json:"width"`
	Height      int    `json:"height"`
}

// UploadFile 上传 multipart 文件
func (s *UploadService) UploadFile(ctx context.Context, file *multipart.FileHeader) (*UploadResult, error) {
	if file == nil {
		return nil, fmt.Errorf("%w: no file provided", ErrUploadRejected)
	}
	src, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer src.Close()

	return s.UploadImage(ctx, UploadInput{
		Filename:    file.Filename,
		ContentType: file.Header.Get("Content-Type"),
		Size:        file.Size,
		Body:        src,
	})
}

// UploadBytes 上传内存中的文件内容
func (s *UploadService) UploadBytes(ctx context.Context, filename, contentType string, data []byte) (*UploadResult, error) {
	return s.UploadImage(ctx, UploadInput{
		Filename:    filename,
		ContentType: contentType,
		Size:        int64(len(data)),
		Body:        bytes.NewReader(data),
	})
}

// UploadImage 校验并上传图片
func (s *UploadService) UploadImage(ctx context.Context, input UploadInput) (*UploadResult, error) {
	if input.Body == nil {
		return nil, fmt.Errorf("%w: no file provided", ErrUploadRejected)
	}
	filename := filepath.Base(strings.TrimSpace(input.Filename))
	if filename == "" || filename == "." || filename == string(filepath.Separator) {
		return nil, fmt.Errorf("%w: filename is required", ErrUploadRejected)
	}

	if s.cfg.MaxSize > 0 && input.Size > s.cfg.MaxSize {
		return nil, fmt.Errorf("%w: file exceeds size limit (max %d MB)", ErrUploadRejected, s.cfg.MaxSize/1024/1024)
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if len(s.cfg.AllowedExtensions) > 0 {
		if ext == "" || !isAllowedExtension(ext, s.cfg.AllowedExtensions) {
			return nil, fmt.Errorf("%w: file extension not allowed: %s", ErrUploadRejected, ext)
		}
	}

	detected, err := mimetype.DetectReader(input.Body)
	if err != nil {
		return nil, err
	}
	if len(s.cfg.AllowedTypes) > 0 && !isAllowedType(detected, s.cfg.AllowedTypes) {
		return nil, fmt.Errorf("%w: file type not allowed: %s", ErrUploadRejected, detected.String())
	}

	result := &UploadResult{ContentType: detected.String()}
	if strings.HasPrefix(detected.String(), "image/") {
		if _, err := input.Body.Seek(0, io.SeekStart); err != nil {
			return nil, err
		}
		cfg, _, err := image.DecodeConfig(input.Body)
		if err != nil {
			return nil, fmt.Errorf("%w: unable to decode image: %v", ErrUploadRejected, err)
		}
		if s.cfg.MaxWidth > 0 && cfg.Width > s.cfg.MaxWidth {
			return nil, fmt.Errorf("%w: image width exceeds limit (max %d)", ErrUploadRejected, s.cfg.MaxWidth)
		}
		if s.cfg.MaxHeight > 0 && cfg.Height > s.cfg.MaxHeight {
			return nil, fmt.Errorf("%w: image height exceeds limit (max %d)", ErrUploadRejected, s.cfg.MaxHeight)
		}
		result.Width, result.Height = cfg.Width, cfg.Height
	}

	if _, err := input.Body.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}

	contentType := strings.TrimSpace(input.ContentType)
	if contentType == "" || strings.EqualFold(contentType, "application/octet-stream") {
		contentType = detected.String()
	}

	if s.uploader == nil {
		return nil, fmt.Errorf("%w: asset uploader is not configured", contentstore.ErrConfigMissing)
	}
	asset, err := s.uploader.UploadImage(ctx, input.Body, filename, contentType)
	if err != nil {
		return nil, err
	}
	if asset == nil || strings.TrimSpace(asset.URL) == "" {
		return nil, ErrNoURLReturned
	}
	result.URL = asset.URL
	result.AssetID = asset.ID
	return result, nil
}

func isAllowedExtension(ext string, allowed []string) bool {
	for _, allowedExt := range allowed {
		normalized := strings.ToLower(strings.TrimSpace(allowedExt))
		if normalized == "" {
			continue
		}
		if !strings.HasPrefix(normalized, ".") {
			normalized = "." + normalized
		}
		if strings.EqualFold(ext, normalized) {
			return true
		}
	}
	return false
}

func isAllowedType(detected *mimetype.MIME, allowed []string) bool {
	for _, t := range allowed {
		if trimmed := strings.TrimSpace(t); trimmed != "" && detected.Is(trimmed) {
			return true
		}
	}
	return false
}
