package logger

import (
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// suppressCore 丢弃消息或 error 字段包含指定片段的日志
// 只作用于包装后的 logger，不影响全局 logger
type suppressCore struct {
	zapcore.Core
	patterns []string
}

// WithSuppressed 返回屏蔽指定日志片段的 logger
func WithSuppressed(base *zap.Logger, patterns ...string) *zap.Logger {
	if base == nil {
		base = Z()
	}
	cleaned := make([]string, 0, len(patterns))
	for _, pattern := range patterns {
		if trimmed := strings.TrimSpace(pattern); trimmed != "" {
			cleaned = append(cleaned, trimmed)
		}
	}
	if len(cleaned) == 0 {
		return base
	}
	return base.WithOptions(zap.WrapCore(func(core zapcore.Core) zapcore.Core {
		return &suppressCore{Core: core, patterns: cleaned}
	}))
}

func (c *suppressCore) With(fields []zapcore.Field) zapcore.Core {
	return &suppressCore{Core: c.Core.With(fields), patterns: c.patterns}
}

func (c *suppressCore) Check(entry zapcore.Entry, checked *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.matches(entry.Message) {
		return checked
	}
	if c.Core.Enabled(entry.Level) {
		return checked.AddCore(entry, c)
	}
	return checked
}

func (c *suppressCore) Write(entry zapcore.Entry, fields []zapcore.Field) error {
	for _, field := range fields {
		if field.Type == zapcore.ErrorType {
			if err, ok := field.Interface.(error); ok && err != nil && c.matches(err.Error()) {
				return nil
			}
		}
		if field.Type == zapcore.StringType && c.matches(field.String) {
			return nil
		}
	}
	return c.Core.Write(entry, fields)
}

func (c *suppressCore) matches(text string) bool {
	if text == "" {
		return false
	}
	for _, pattern := range c.patterns {
		if strings.Contains(text, pattern) {
			return true
		}
	}
	return false
}
