package shared

import (
	"errors"

	"github.com/postdesk/internal/constants"
	"github.com/postdesk/internal/contentstore"
	"github.com/postdesk/internal/csvcodec"
	"github.com/postdesk/internal/dashboard"
	"github.com/postdesk/internal/http/response"
	"github.com/postdesk/internal/logger"
	"github.com/postdesk/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RequestLog 提供携带 request_id 的日志实例。
func RequestLog(c *gin.Context) *zap.SugaredLogger {
	if c == nil {
		return logger.S()
	}
	if requestID, ok := c.Get(constants.RequestIDKey); ok {
		if id, ok := requestID.(string); ok && id != "" {
			return logger.SW("request_id", id)
		}
	}
	return logger.S()
}

// RespondError 返回错误响应，并在有原始错误时记录日志。
func RespondError(c *gin.Context, code int, msg string, err error) {
	appErr := response.WrapError(code, msg, err)
	if err != nil {
		RequestLog(c).Errorw("handler_error",
			"code", appErr.Code,
			"message", appErr.Message,
			"error", err,
		)
	}
	response.Error(c, appErr.Code, appErr.Message)
}

// RespondServiceError 按错误类型映射状态码，消息为操作员可读的纯文本。
func RespondServiceError(c *gin.Context, err error) {
	code := StatusCodeFor(err)
	msg := dashboard.DescribeError(err)
	if appErr, ok := response.AsAppError(err); ok {
		msg = appErr.Message
	}
	if code >= response.CodeInternal {
		RespondError(c, code, msg, err)
		return
	}
	response.Error(c, code, msg)
}

// StatusCodeFor 错误到业务状态码的映射。
func StatusCodeFor(err error) int {
	if err == nil {
		return response.CodeOK
	}
	if appErr, ok := response.AsAppError(err); ok {
		return appErr.Code
	}
	switch {
	case errors.Is(err, service.ErrNotFound):
		return response.CodeNotFound
	case errors.Is(err, service.ErrDuplicateSlug),
		errors.Is(err, contentstore.ErrRevisionConflict):
		return response.CodeConflict
	case errors.Is(err, service.ErrValidationFailed),
		errors.Is(err, csvcodec.ErrNoDataRows):
		return response.CodeBadRequest
	case errors.Is(err, contentstore.ErrPermissionDenied):
		return response.CodeForbidden
	case errors.Is(err, contentstore.ErrRequestFailed),
		errors.Is(err, contentstore.ErrResponseInvalid):
		return response.CodeBadGateway
	default:
		return response.CodeInternal
	}
}
