package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/xiebiao/bookpos/pkg/jwt"
)

func setupRouter(m *AuthMiddleware) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/inventory", m.RequireLogin(), func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
	return r
}

func TestRequireLogin(t *testing.T) {
	jwtManager := jwt.NewManager("test-secret", time.Hour)
	// 黑名单依赖Redis，以下场景在解析Token前或解析失败时就返回，不会触达Redis
	m := NewAuthMiddleware(jwtManager, nil)
	r := setupRouter(m)

	t.Run("未携带会话时跳转登录页并记住原地址", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/inventory", nil)
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, "/login?next=%2Finventory", w.Header().Get("Location"))
	})

	t.Run("伪造Token跳转登录页", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/inventory", nil)
		req.AddCookie(&http.Cookie{Name: CookieName, Value: "not-a-jwt"})
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusFound, w.Code)
		assert.Contains(t, w.Header().Get("Location"), "/login?next=")
	})

	t.Run("他人密钥签发的Token无效", func(t *testing.T) {
		otherManager := jwt.NewManager("other-secret", time.Hour)
		token, err := otherManager.GenerateToken(1, "Brenda B")
		assert.NoError(t, err)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/inventory", nil)
		req.AddCookie(&http.Cookie{Name: CookieName, Value: token})
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusFound, w.Code)
	})

	t.Run("过期Token无效", func(t *testing.T) {
		expiredManager := jwt.NewManager("test-secret", -time.Minute)
		token, err := expiredManager.GenerateToken(1, "Brenda B")
		assert.NoError(t, err)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/inventory", nil)
		req.AddCookie(&http.Cookie{Name: CookieName, Value: token})
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusFound, w.Code)
	})
}

func TestExtractToken(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("Cookie优先", func(t *testing.T) {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
		c.Request.AddCookie(&http.Cookie{Name: CookieName, Value: "cookie-token"})
		c.Request.Header.Set("Authorization", "Bearer header-token")

		assert.Equal(t, "cookie-token", extractToken(c))
	})

	t.Run("无Cookie时回退到Authorization头", func(t *testing.T) {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
		c.Request.Header.Set("Authorization", "Bearer header-token")

		assert.Equal(t, "header-token", extractToken(c))
	})

	t.Run("格式错误的Authorization头忽略", func(t *testing.T) {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
		c.Request.Header.Set("Authorization", "Basic abc")

		assert.Empty(t, extractToken(c))
	})
}
