package processor

import (
	"errors"
	"fmt"
)

// 定义基础错误类型
var (
	ErrParseFailed       = errors.New("解析输入文本失败")
	ErrUnsupportedFormat = errors.New("不支持的文件格式")
	ErrNotFound          = errors.New("记录不存在")
	ErrValidationFailed  = errors.New("请求参数校验失败")
	ErrStorageFailed     = errors.New("存储操作失败")
)

// ProcessError 包含详细错误信息的自定义错误
type ProcessError struct {
	EntityID string
	Op       string
	BaseErr  error
	Detail   string
}

func (e *ProcessError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s (操作:%s, ID:%s): %s", e.BaseErr, e.Op, e.EntityID, e.Detail)
	}
	return fmt.Sprintf("%s (操作:%s, ID:%s)", e.BaseErr, e.Op, e.EntityID)
}

func (e *ProcessError) Unwrap() error {
	return e.BaseErr
}

// Is 实现 errors.Is 接口以支持错误比较
func (e *ProcessError) Is(target error) bool {
	return errors.Is(e.BaseErr, target)
}

// 错误构造函数
func NewParseError(id, detail string) error {
	return &ProcessError{
		EntityID: id,
		Op:       "parse",
		BaseErr:  ErrParseFailed,
		Detail:   detail,
	}
}

func NewUnsupportedFormatError(filename string) error {
	return &ProcessError{
		EntityID: filename,
		Op:       "extract",
		BaseErr:  ErrUnsupportedFormat,
		Detail:   filename,
	}
}

func NewNotFoundError(id, detail string) error {
	return &ProcessError{
		EntityID: id,
		Op:       "lookup",
		BaseErr:  ErrNotFound,
		Detail:   detail,
	}
}

func NewValidationError(detail string) error {
	return &ProcessError{
		Op:      "validate",
		BaseErr: ErrValidationFailed,
		Detail:  detail,
	}
}

func NewStorageError(id, detail string) error {
	return &ProcessError{
		EntityID: id,
		Op:       "storage",
		BaseErr:  ErrStorageFailed,
		Detail:   detail,
	}
}
