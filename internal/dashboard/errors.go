package dashboard

import (
	"errors"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/postdesk/internal/contentstore"
	"github.com/postdesk/internal/csvcodec"
	"github.com/postdesk/internal/service"
)

const permissionDeniedMessage = `Permission denied: your write token does not have write permission for this operation. ` +
	`Please check your write token's permissions and use a token with the Editor or Administrator role.`

const writeTokenChecklist = "\n\nPlease check:\n" +
	"1. The write token is configured (content_store.write_token)\n" +
	"2. The token has write permissions in your content platform project"

// DescribeError 将错误转换为展示给操作员的纯文本
func DescribeError(err error) string {
	if err == nil {
		return ""
	}
	switch {
	case errors.Is(err, contentstore.ErrPermissionDenied):
		return permissionDeniedMessage
	case errors.Is(err, service.ErrConcurrentModification):
		return "The post was changed by someone else while saving. Please try again."
	case errors.Is(err, service.ErrNotFound):
		return "Post not found"
	case errors.Is(err, service.ErrNoURLReturned):
		return "Upload succeeded but no URL was returned by the content platform"
	case errors.Is(err, csvcodec.ErrNoDataRows):
		return csvcodec.ErrNoDataRows.Error()
	case errors.Is(err, service.ErrDuplicateSlug):
		return capitalize(trimSentinel(err, service.ErrDuplicateSlug))
	case errors.Is(err, service.ErrValidationFailed):
		return capitalize(trimSentinel(err, service.ErrValidationFailed))
	default:
		return capitalize(err.Error())
	}
}

// describeWriteError 写入失败时对配置与权限问题追加排查提示
func describeWriteError(err error) string {
	text := DescribeError(err)
	if errors.Is(err, contentstore.ErrConfigMissing) || errors.Is(err, contentstore.ErrPermissionDenied) {
		return text + writeTokenChecklist
	}
	return text
}

func trimSentinel(err, sentinel error) string {
	text := err.Error()
	prefix := sentinel.Error() + ": "
	for strings.HasPrefix(text, prefix) {
		text = strings.TrimPrefix(text, prefix)
	}
	return text
}

func capitalize(text string) string {
	r, size := utf8.DecodeRuneInString(text)
	if r == utf8.RuneError {
		return text
	}
	return string(unicode.ToUpper(r)) + text[size:]
}
