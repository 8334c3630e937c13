package response

import "errors"

// AppError 携带业务状态码的错误
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return e.Message + ": " + e.Err.Error()
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// WrapError 包装错误，code 非法时按内部错误处理
func WrapError(code int, message string, err error) *AppError {
	if code <= CodeOK {
		code = CodeInternal
	}
	if message == "" && err != nil {
		message = err.Error()
	}
	return &AppError{Code: code, Message: message, Err: err}
}

// AsAppError 从错误链中取出 AppError
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}
