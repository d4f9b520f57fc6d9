package user

import (
	"time"
)

// User 员工账号实体（聚合根）
// 设计说明：
// 1. 密码只保存bcrypt哈希，不提供任何返回明文的途径
// 2. 账号仅在系统首次启动时创建（默认管理员），不开放注册
// 3. 领域实体不带GORM tag，由infrastructure层的Repository负责映射
type User struct {
	ID        uint
	Username  string
	Password  string // bcrypt哈希值
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewUser 创建账号（工厂方法）
// hashedPassword必须是bcrypt加密后的密码
func NewUser(username, hashedPassword string) *User {
	now := time.Now()
	return &User{
		Username:  username,
		Password:  hashedPassword,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
