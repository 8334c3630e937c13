package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Categories 文章分类集合
// 按顺序存储但语义上是集合：不含空值与重复值
type Categories []string

// NewCategories 由任意字符串切片构造规范化的分类集合
func NewCategories(values ...string) Categories {
	result := make(Categories, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, value := range values {
		trimmed := strings.TrimSpace(value)
		if trimmed == "" {
			continue
		}
		if _, ok := seen[trimmed]; ok {
			continue
		}
		seen[trimmed] = struct{}{}
		result = append(result, trimmed)
	}
	return result
}

// UnmarshalJSON 兼容历史数据：null → 空集合，字符串 → 单元素集合，数组 → 保留其中的字符串元素
func (c *Categories) UnmarshalJSON(b []byte) error {
	trimmed := bytes.TrimSpace(b)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*c = Categories{}
		return nil
	}
	switch trimmed[0] {
	case '"':
		var single string
		if err := json.Unmarshal(trimmed, &single); err != nil {
			return err
		}
		*c = NewCategories(single)
		return nil
	case '[':
		var items []json.RawMessage
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return err
		}
		list := make([]string, 0, len(items))
		for _, item := range items {
			var value string
			// 非字符串元素直接丢弃
			if err := json.Unmarshal(item, &value); err == nil {
				list = append(list, value)
			}
		}
		*c = NewCategories(list...)
		return nil
	default:
		return fmt.Errorf("unsupported category value: %s", string(trimmed))
	}
}

// MarshalJSON 始终输出数组
func (c Categories) MarshalJSON() ([]byte, error) {
	if c == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]string(c))
}

// Contains 判断是否包含分类
func (c Categories) Contains(category string) bool {
	target := strings.TrimSpace(category)
	for _, item := range c {
		if item == target {
			return true
		}
	}
	return false
}

// With 返回追加分类后的新集合
func (c Categories) With(category string) Categories {
	values := append([]string{}, c...)
	return NewCategories(append(values, category)...)
}

// Without 返回移除分类后的新集合
func (c Categories) Without(category string) Categories {
	target := strings.TrimSpace(category)
	result := make(Categories, 0, len(c))
	for _, item := range c {
		if item == target {
			continue
		}
		result = append(result, item)
	}
	return result
}

// Join 以分隔符拼接
func (c Categories) Join(sep string) string {
	return strings.Join(c, sep)
}

// CategoryOption 分类词表条目
type CategoryOption struct {
	Value string `json:"value" mapstructure:"value"`
	Label string `json:"label" mapstructure:"label"`
}
