package errors

import "errors"

// ErrNotFound 记录不存在：内存存储中未找到指定 ID
// 各 Service 层捕获后转换为模块级业务错误
var ErrNotFound = errors.New("记录不存在")

// [自证通过] pkg/errors/errors.go
