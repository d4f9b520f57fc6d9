package user

import (
	"context"
	"errors"

	"golang.org/x/crypto/bcrypt"

	apperrors "github.com/xiebiao/bookpos/pkg/errors"
)

// Service 账号领域服务
// 设计说明：
// 1. Service包含不属于单个实体的业务逻辑（密码加密、凭证校验）
// 2. 依赖Repository接口，不依赖具体实现（依赖倒置）
type Service interface {
	// Authenticate 校验登录凭证
	// 用户不存在与密码错误统一返回ErrInvalidCredentials，不区分原因
	Authenticate(ctx context.Context, username, password string) (*User, error)
}

type service struct {
	repo Repository
}

// NewService 创建账号服务
func NewService(repo Repository) Service {
	return &service{repo: repo}
}

// Authenticate 校验登录凭证
func (s *service) Authenticate(ctx context.Context, username, password string) (*User, error) {
	u, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		// 用户不存在同样返回统一的凭证错误
		if errors.Is(err, ErrUserNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, apperrors.Wrap(err, apperrors.ErrCodeInternal, "密码校验失败")
	}

	return u, nil
}

// HashPassword 生成密码哈希
// bcrypt自动加盐，cost=12平衡安全性与性能
func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), 12)
	if err != nil {
		return "", apperrors.Wrap(err, apperrors.ErrCodeInternal, "密码加密失败")
	}
	return string(hashed), nil
}
