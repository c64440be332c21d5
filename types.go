package unzip

import (
	"fmt"
	"time"
)

// 失败原因 (写入报告的固定文本)
const (
	ReasonNotFound  = "archive not found"
	ReasonCorrupted = "archive corrupted"
)

// ArchiveTask 一个待解压的压缩包及其解压结果
type ArchiveTask struct {
	Source  string  `json:"source"`  // 压缩包路径
	Outcome Outcome `json:"outcome"` // 解压结果(由解压器设置一次)
}

// Outcome 单个压缩包的解压结果
type Outcome struct {
	Success    bool          `json:"success"`     // 是否成功
	EntryCount int           `json:"entry_count"` // 写出的条目数
	OutputDir  string        `json:"output_dir"`  // 实际解压目录(未开始解压时为空)
	TotalSize  int64         `json:"total_size"`  // 写出的总字节数
	Skipped    []string      `json:"skipped"`     // 因路径不安全被跳过的条目
	Warnings   []string      `json:"warnings"`    // 非致命警告
	Duration   time.Duration `json:"duration"`
	Err        *ExtractError `json:"-"`
}

// Reason 返回失败原因，成功时为空
func (o Outcome) Reason() string {
	if o.Success || o.Err == nil {
		return ""
	}
	switch o.Err.Type {
	case ErrArchiveNotFound:
		return ReasonNotFound
	case ErrCorruptedArchive:
		return ReasonCorrupted
	}
	return o.Err.Error()
}

// ExtractError 解压错误类型
type ExtractError struct {
	Type    ErrorType
	Message string
	Path    string
	Cause   error
}

// Error 实现error接口
func (e *ExtractError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Type, e.Message)
	if e.Path != "" {
		msg = fmt.Sprintf("%s (path: %s)", msg, e.Path)
	}
	if e.Cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

// Unwrap 返回原始错误
func (e *ExtractError) Unwrap() error {
	return e.Cause
}

// ErrorType 错误类型枚举
type ErrorType string

const (
	// ErrArchiveNotFound 压缩包在发现后消失
	ErrArchiveNotFound ErrorType = "ARCHIVE_NOT_FOUND"

	// ErrPasswordRequired 需要密码或密码错误
	ErrPasswordRequired ErrorType = "PASSWORD_REQUIRED"

	// ErrCorruptedArchive 压缩包损坏
	ErrCorruptedArchive ErrorType = "CORRUPTED_ARCHIVE"

	// ErrPathTraversal 路径遍历攻击
	ErrPathTraversal ErrorType = "PATH_TRAVERSAL"

	// ErrPermissionDenied 权限拒绝
	ErrPermissionDenied ErrorType = "PERMISSION_DENIED"

	// ErrDiskFull 磁盘空间不足
	ErrDiskFull ErrorType = "DISK_FULL"

	// ErrInternalError 内部错误
	ErrInternalError ErrorType = "INTERNAL_ERROR"
)

// String 返回错误类型字符串
func (et ErrorType) String() string {
	return string(et)
}

// NewExtractError 创建解压错误
func NewExtractError(errType ErrorType, message, path string, cause error) *ExtractError {
	return &ExtractError{
		Type:    errType,
		Message: message,
		Path:    path,
		Cause:   cause,
	}
}
