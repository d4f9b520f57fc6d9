package auth

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/xiebiao/bookpos/internal/domain/user"
	"github.com/xiebiao/bookpos/internal/infrastructure/persistence/redis"
	"github.com/xiebiao/bookpos/pkg/jwt"
	"github.com/xiebiao/bookpos/pkg/logger"
)

// LoginUseCase 登录用例
// 设计说明：
// 1. 验证用户名密码
// 2. 生成会话Token
// 3. 保存会话到Redis
type LoginUseCase struct {
	userService  user.Service
	jwtManager   *jwt.Manager
	sessionStore *redis.SessionStore
}

// NewLoginUseCase 创建登录用例
func NewLoginUseCase(
	userService user.Service,
	jwtManager *jwt.Manager,
	sessionStore *redis.SessionStore,
) *LoginUseCase {
	return &LoginUseCase{
		userService:  userService,
		jwtManager:   jwtManager,
		sessionStore: sessionStore,
	}
}

// LoginRequest 登录请求
type LoginRequest struct {
	Username string
	Password string
	IP       string
}

// LoginResponse 登录响应
type LoginResponse struct {
	UserID   uint
	Username string
	Token    string
}

// Execute 执行登录
// 验证失败时返回统一的"用户名或密码错误"，不泄露账号是否存在
func (uc *LoginUseCase) Execute(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	u, err := uc.userService.Authenticate(ctx, req.Username, req.Password)
	if err != nil {
		return nil, err
	}

	token, err := uc.jwtManager.GenerateToken(u.ID, u.Username)
	if err != nil {
		return nil, err
	}

	sessionData := map[string]interface{}{
		"user_id":  u.ID,
		"username": u.Username,
		"login_at": time.Now().Unix(),
		"ip":       req.IP,
	}
	if err := uc.sessionStore.SaveSession(ctx, u.ID, sessionData, uc.jwtManager.SessionExpire()); err != nil {
		// 会话保存失败不影响登录，只记录日志
		logger.L.Warn("保存会话失败", zap.Uint("user_id", u.ID), zap.Error(err))
	}

	return &LoginResponse{
		UserID:   u.ID,
		Username: u.Username,
		Token:    token,
	}, nil
}

// LogoutUseCase 登出用例
type LogoutUseCase struct {
	jwtManager   *jwt.Manager
	sessionStore *redis.SessionStore
}

// NewLogoutUseCase 创建登出用例
func NewLogoutUseCase(jwtManager *jwt.Manager, sessionStore *redis.SessionStore) *LogoutUseCase {
	return &LogoutUseCase{jwtManager: jwtManager, sessionStore: sessionStore}
}

// Execute 执行登出
// 删除会话并将Token加入黑名单，防止Token在过期前继续使用
func (uc *LogoutUseCase) Execute(ctx context.Context, userID uint, token string) error {
	if err := uc.sessionStore.DeleteSession(ctx, userID); err != nil {
		return err
	}
	return uc.sessionStore.AddToBlacklist(ctx, token, uc.jwtManager.SessionExpire())
}
