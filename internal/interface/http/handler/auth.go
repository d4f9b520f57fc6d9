package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/xiebiao/bookpos/internal/application/auth"
	"github.com/xiebiao/bookpos/internal/infrastructure/persistence/redis"
	"github.com/xiebiao/bookpos/internal/interface/http/dto"
	"github.com/xiebiao/bookpos/internal/interface/http/middleware"
	"github.com/xiebiao/bookpos/pkg/jwt"
	"github.com/xiebiao/bookpos/pkg/logger"
	"github.com/xiebiao/bookpos/pkg/response"
)

// AuthHandler 登录登出HTTP处理器
type AuthHandler struct {
	loginUseCase  *auth.LoginUseCase
	logoutUseCase *auth.LogoutUseCase
	jwtManager    *jwt.Manager
	sessionStore  *redis.SessionStore
}

// NewAuthHandler 创建认证处理器
func NewAuthHandler(
	loginUseCase *auth.LoginUseCase,
	logoutUseCase *auth.LogoutUseCase,
	jwtManager *jwt.Manager,
	sessionStore *redis.SessionStore,
) *AuthHandler {
	return &AuthHandler{
		loginUseCase:  loginUseCase,
		logoutUseCase: logoutUseCase,
		jwtManager:    jwtManager,
		sessionStore:  sessionStore,
	}
}

// ShowLogin 登录页
// 已登录用户访问时直接跳转首页
// @Summary      登录页
// @Tags         认证
// @Produce      json
// @Success      200 {object} response.Response
// @Router       /login [get]
func (h *AuthHandler) ShowLogin(c *gin.Context) {
	if h.isAuthenticated(c) {
		c.Redirect(http.StatusFound, "/")
		return
	}
	response.Success(c, gin.H{
		"next": c.Query("next"),
	})
}

// Login 提交登录
// 成功后种下会话Cookie并跳转到next指定的页面（默认首页）；
// 失败时在登录页就地提示，不区分"用户不存在"和"密码错误"
// @Summary      登录
// @Tags         认证
// @Accept       x-www-form-urlencoded
// @Produce      json
// @Param        username formData string true "用户名"
// @Param        password formData string true "密码"
// @Success      303 "登录成功，跳转"
// @Failure      200 {object} response.Response "用户名或密码错误"
// @Router       /login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var form dto.LoginForm
	if err := c.ShouldBind(&form); err != nil {
		response.ErrorWithCode(c, 40901, "请输入用户名和密码")
		return
	}

	result, err := h.loginUseCase.Execute(c.Request.Context(), auth.LoginRequest{
		Username: form.Username,
		Password: form.Password,
		IP:       c.ClientIP(),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	maxAge := int(h.jwtManager.SessionExpire().Seconds())
	c.SetCookie(middleware.CookieName, result.Token, maxAge, "/", "", false, true)

	if err := h.sessionStore.PushFlash(c.Request.Context(), result.UserID, "success", "登录成功，欢迎回来"); err != nil {
		logger.L.Warn("写入提示消息失败", zap.Error(err))
	}

	next := c.PostForm("next")
	if next == "" || next[0] != '/' {
		next = "/"
	}
	c.Redirect(http.StatusSeeOther, next)
}

// Logout 登出
// 删除会话、拉黑Token、清除Cookie后回到登录页
// @Summary      登出
// @Tags         认证
// @Security     CookieAuth
// @Success      302 "跳转到登录页"
// @Router       /logout [get]
func (h *AuthHandler) Logout(c *gin.Context) {
	userID := middleware.MustGetUserID(c)
	token := middleware.GetToken(c)

	if err := h.logoutUseCase.Execute(c.Request.Context(), userID, token); err != nil {
		logger.L.Warn("登出清理失败", zap.Uint("user_id", userID), zap.Error(err))
	}

	c.SetCookie(middleware.CookieName, "", -1, "/", "", false, true)
	c.Redirect(http.StatusFound, "/login")
}

// isAuthenticated 判断请求是否携带有效会话
func (h *AuthHandler) isAuthenticated(c *gin.Context) bool {
	cookie, err := c.Cookie(middleware.CookieName)
	if err != nil || cookie == "" {
		return false
	}
	if _, err := h.jwtManager.ParseToken(cookie); err != nil {
		return false
	}
	blacklisted, err := h.sessionStore.IsInBlacklist(c.Request.Context(), cookie)
	return err == nil && !blacklisted
}
