package service

import (
	"errors"
	"fmt"

	"github.com/postdesk/internal/contentstore"
)

var (
	ErrNotFound         = errors.New("post not found")
	ErrValidationFailed = errors.New("validation failed")
	ErrDuplicateSlug    = errors.New("duplicate slug")
	ErrEmptySelection   = fmt.Errorf("%w: please select at least one category", ErrValidationFailed)
	ErrUnknownCategory  = fmt.Errorf("%w: unknown category", ErrValidationFailed)
	ErrUploadRejected   = fmt.Errorf("%w: upload rejected", ErrValidationFailed)
	// ErrConcurrentModification 多次重试后修订号仍冲突
	ErrConcurrentModification = fmt.Errorf("%w: post was modified concurrently", contentstore.ErrRevisionConflict)
	// ErrNoURLReturned 上传成功但响应缺少资源地址
	ErrNoURLReturned = fmt.Errorf("%w: upload succeeded but no URL returned", contentstore.ErrResponseInvalid)
)
