package middleware

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/xiebiao/bookpos/internal/infrastructure/persistence/redis"
	"github.com/xiebiao/bookpos/pkg/jwt"
)

// CookieName 会话Cookie名称
const CookieName = "bookpos_session"

// AuthMiddleware 登录认证中间件
// 设计说明：
// 1. 优先从Cookie提取会话Token，兼容Authorization头（API调用）
// 2. 先验证Token本身，再查黑名单（无效Token不必访问Redis）
// 3. 未登录统一重定向到登录页，并通过next参数记住原始地址
// 4. 将用户信息注入Context
type AuthMiddleware struct {
	jwtManager   *jwt.Manager
	sessionStore *redis.SessionStore
}

// NewAuthMiddleware 创建认证中间件
func NewAuthMiddleware(jwtManager *jwt.Manager, sessionStore *redis.SessionStore) *AuthMiddleware {
	return &AuthMiddleware{
		jwtManager:   jwtManager,
		sessionStore: sessionStore,
	}
}

// RequireLogin 要求登录
// 未登录时302跳转到 /login?next=<原始路径>
func (m *AuthMiddleware) RequireLogin() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			redirectToLogin(c)
			return
		}

		claims, err := m.jwtManager.ParseToken(token)
		if err != nil {
			redirectToLogin(c)
			return
		}

		// 登出过的Token在黑名单中，立即失效
		blacklisted, err := m.sessionStore.IsInBlacklist(c.Request.Context(), token)
		if err != nil || blacklisted {
			redirectToLogin(c)
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("username", claims.Username)
		c.Set("token", token)
		c.Next()
	}
}

// extractToken 从Cookie或Authorization头提取Token
func extractToken(c *gin.Context) string {
	if cookie, err := c.Cookie(CookieName); err == nil && cookie != "" {
		return cookie
	}
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return ""
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return ""
	}
	return parts[1]
}

// redirectToLogin 重定向到登录页并记住原始地址
func redirectToLogin(c *gin.Context) {
	next := c.Request.URL.RequestURI()
	c.Redirect(http.StatusFound, "/login?next="+url.QueryEscape(next))
	c.Abort()
}

// GetUserID 从Context获取当前登录用户ID，未登录返回0
func GetUserID(c *gin.Context) uint {
	if v, exists := c.Get("user_id"); exists {
		if id, ok := v.(uint); ok {
			return id
		}
	}
	return 0
}

// MustGetUserID 获取当前登录用户ID
// 仅在RequireLogin保护的路由中使用，未登录时panic说明路由配置有误
func MustGetUserID(c *gin.Context) uint {
	id := GetUserID(c)
	if id == 0 {
		panic("middleware: user_id not found in context, route missing RequireLogin")
	}
	return id
}

// GetUsername 从Context获取当前登录用户名
func GetUsername(c *gin.Context) string {
	if v, exists := c.Get("username"); exists {
		if name, ok := v.(string); ok {
			return name
		}
	}
	return ""
}

// GetToken 从Context获取当前会话Token
func GetToken(c *gin.Context) string {
	if v, exists := c.Get("token"); exists {
		if token, ok := v.(string); ok {
			return token
		}
	}
	return ""
}
