package service

import (
	"fmt"
	"strings"

	"github.com/postdesk/internal/models"
)

// CategoryService 分类词表服务
type CategoryService struct {
	options []models.CategoryOption
	index   map[string]models.CategoryOption
}

// NewCategoryService 创建分类服务，词表为空时不限制取值
func NewCategoryService(options []models.CategoryOption) *CategoryService {
	s := &CategoryService{index: make(map[string]models.CategoryOption, len(options))}
	for _, option := range options {
		value := strings.TrimSpace(option.Value)
		if value == "" {
			continue
		}
		if _, ok := s.index[value]; ok {
			continue
		}
		label := strings.TrimSpace(option.Label)
		if label == "" {
			label = value
		}
		normalized := models.CategoryOption{Value: value, Label: label}
		s.options = append(s.options, normalized)
		s.index[value] = normalized
	}
	return s
}

// List 获取分类词表
func (s *CategoryService) List() []models.CategoryOption {
	result := make([]models.CategoryOption, len(s.options))
	copy(result, s.options)
	return result
}

// Restricted 是否配置了词表
func (s *CategoryService) Restricted() bool {
	return s != nil && len(s.options) > 0
}

// Validate 校验分类均在词表内
func (s *CategoryService) Validate(categories models.Categories) error {
	if !s.Restricted() {
		return nil
	}
	for _, category := range categories {
		if _, ok := s.index[category]; !ok {
			return fmt.Errorf("%w: %q", ErrUnknownCategory, category)
		}
	}
	return nil
}

// Label 返回分类展示名，未知分类原样返回
func (s *CategoryService) Label(value string) string {
	if s != nil {
		if option, ok := s.index[value]; ok {
			return option.Label
		}
	}
	return value
}
