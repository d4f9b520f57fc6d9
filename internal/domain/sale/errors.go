package sale

import (
	apperrors "github.com/xiebiao/bookpos/pkg/errors"
)

// 销售领域错误定义
var (
	// ErrInvalidQuantity 售出数量必须大于0
	ErrInvalidQuantity = apperrors.New(apperrors.ErrCodeInvalidParams, "售出数量必须大于0")
)
