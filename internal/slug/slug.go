// Package slug 从任意文本生成 URL 友好的 slug
package slug

import (
	"regexp"
	"strings"
)

var (
	disallowed      = regexp.MustCompile(`[^a-z0-9_\s-]`)
	whitespaceRuns  = regexp.MustCompile(`\s+`)
	multipleHyphens = regexp.MustCompile(`-{2,}`)
)

// Format 逐字输入时使用：小写、去除非法字符、空白转连字符，保留首尾连字符
// 例如 "my-post-" 保持不变
func Format(s string) string {
	result := strings.ToLower(strings.TrimSpace(s))
	result = disallowed.ReplaceAllString(result, "")
	result = whitespaceRuns.ReplaceAllString(result, "-")
	return multipleHyphens.ReplaceAllString(result, "-")
}

// Generate 生成最终 slug，额外去掉首尾连字符
// 例如 "Hello, World! 2026" → "hello-world-2026"
func Generate(s string) string {
	return strings.Trim(Format(s), "-")
}

// Normalize 规范化用户提交的 slug，仅做小写与去空白，用于唯一性比较
func Normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
