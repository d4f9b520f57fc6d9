package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/xiebiao/bookpos/internal/domain/user"
	apperrors "github.com/xiebiao/bookpos/pkg/errors"
)

// userRepository 账号仓储的MySQL实现
type userRepository struct {
	db *gorm.DB
}

// NewUserRepository 创建账号仓储
func NewUserRepository(db *gorm.DB) user.Repository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, u *user.User) error {
	model := r.toModel(u)
	if err := getDB(ctx, r.db).Create(model).Error; err != nil {
		if isDuplicateError(err) {
			return apperrors.New(apperrors.ErrCodeDuplicateEntry, "用户名已存在")
		}
		return apperrors.Wrap(err, apperrors.ErrCodeDatabaseError, "创建用户失败")
	}
	u.ID = model.ID
	return nil
}

func (r *userRepository) FindByID(ctx context.Context, id uint) (*user.User, error) {
	var model UserModel
	err := getDB(ctx, r.db).First(&model, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, user.ErrUserNotFound
		}
		return nil, apperrors.Wrap(err, apperrors.ErrCodeDatabaseError, "查询用户失败")
	}
	return r.toEntity(&model), nil
}

func (r *userRepository) FindByUsername(ctx context.Context, username string) (*user.User, error) {
	var model UserModel
	err := getDB(ctx, r.db).Where("username = ?", username).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, user.ErrUserNotFound
		}
		return nil, apperrors.Wrap(err, apperrors.ErrCodeDatabaseError, "查询用户失败")
	}
	return r.toEntity(&model), nil
}

func (r *userRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := getDB(ctx, r.db).Model(&UserModel{}).Count(&count).Error
	if err != nil {
		return 0, apperrors.Wrap(err, apperrors.ErrCodeDatabaseError, "统计用户失败")
	}
	return count, nil
}

// toEntity 数据模型转领域实体
func (r *userRepository) toEntity(m *UserModel) *user.User {
	return &user.User{
		ID:        m.ID,
		Username:  m.Username,
		Password:  m.Password,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

// toModel 领域实体转数据模型
func (r *userRepository) toModel(u *user.User) *UserModel {
	return &UserModel{
		ID:        u.ID,
		Username:  u.Username,
		Password:  u.Password,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
