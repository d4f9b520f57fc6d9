package user

import (
	apperrors "github.com/xiebiao/bookpos/pkg/errors"
)

// 账号领域错误定义
var (
	// ErrUserNotFound 账号不存在
	ErrUserNotFound = apperrors.New(apperrors.ErrCodeUserNotFound, "用户不存在")
)
