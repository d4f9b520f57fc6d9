package user

import (
	"context"
)

// Repository 账号仓储接口
// 接口定义在domain层，具体实现在infrastructure/persistence/mysql层，
// 便于单元测试时Mock
type Repository interface {
	// Create 创建账号（首次启动引导时使用）
	Create(ctx context.Context, user *User) error

	// FindByID 根据ID查找账号
	// 不存在时返回errors.ErrUserNotFound
	FindByID(ctx context.Context, id uint) (*User, error)

	// FindByUsername 根据用户名精确查找账号
	// 不存在时返回errors.ErrUserNotFound
	FindByUsername(ctx context.Context, username string) (*User, error)

	// Count 账号总数（用于判断是否需要引导默认账号）
	Count(ctx context.Context) (int64, error)
}
