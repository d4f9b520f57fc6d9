package mysql

import (
	"context"

	"go.uber.org/zap"

	"github.com/xiebiao/bookpos/internal/domain/book"
	"github.com/xiebiao/bookpos/internal/domain/user"
	"github.com/xiebiao/bookpos/internal/infrastructure/config"
	"github.com/xiebiao/bookpos/pkg/logger"
)

// Bootstrap 初始化种子数据
// 设计说明：
// 1. 仅在users表为空时创建管理员账号（账号密码来自配置）
// 2. 仅在books表为空时导入示例图书，便于开箱即用
// 3. 幂等：重启不会重复插入
func Bootstrap(ctx context.Context, cfg *config.Config, userRepo user.Repository, bookRepo book.Repository) error {
	if err := seedAdmin(ctx, cfg, userRepo); err != nil {
		return err
	}
	return seedBooks(ctx, bookRepo)
}

func seedAdmin(ctx context.Context, cfg *config.Config, userRepo user.Repository) error {
	count, err := userRepo.Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hashed, err := user.HashPassword(cfg.Admin.Password)
	if err != nil {
		return err
	}
	admin := user.NewUser(cfg.Admin.Username, hashed)
	if err := userRepo.Create(ctx, admin); err != nil {
		return err
	}
	logger.L.Info("已创建初始管理员账号", zap.String("username", cfg.Admin.Username))
	return nil
}

func seedBooks(ctx context.Context, bookRepo book.Repository) error {
	count, err := bookRepo.Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	samples := []*book.Book{
		book.NewBook("978-1476770383", "Ugly Love", "Colleen Hoover", 85000, 15, "Romance", "pics/ugly-love.jpg"),
		book.NewBook("978-0857197689", "The Psychology of Money", "Morgan Housel", 150000, 10, "Finance", "pics/psychology-of-money.jpg"),
		book.NewBook("978-0735211292", "Atomic Habits", "James Clear", 100000, 5, "Self-Help", "pics/atomic-habits.jpg"),
		book.NewBook("978-1285740621", "Calculus", "James Stewart", 250000, 3, "Education", "pics/calculus.jpg"),
	}
	for _, b := range samples {
		if err := bookRepo.Create(ctx, b); err != nil {
			return err
		}
	}
	logger.L.Info("已导入示例图书", zap.Int("count", len(samples)))
	return nil
}
