package processor

import (
	"errors"
	"fmt"
)

// 定义基础错误类型
var (
	// ErrDuplicateFile 同一份文件（按MD5判定）重复上传
	ErrDuplicateFile = errors.New("文件已存在，跳过处理")
)

// IngestError 入库流程中的错误，携带提交UUID与操作名便于定位
type IngestError struct {
	SubmissionUUID string
	Op             string
	BaseErr        error
	Detail         string
}

func (e *IngestError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s (操作:%s, UUID:%s): %s", e.BaseErr, e.Op, e.SubmissionUUID, e.Detail)
	}
	return fmt.Sprintf("%s (操作:%s, UUID:%s)", e.BaseErr, e.Op, e.SubmissionUUID)
}

func (e *IngestError) Unwrap() error {
	return e.BaseErr
}

// Is 实现 errors.Is 接口以支持错误比较
func (e *IngestError) Is(target error) bool {
	return errors.Is(e.BaseErr, target)
}

// NewDuplicateFileError 构造重复上传错误
func NewDuplicateFileError(uuid, detail string) error {
	return &IngestError{
		SubmissionUUID: uuid,
		Op:             "dedup",
		BaseErr:        ErrDuplicateFile,
		Detail:         detail,
	}
}
