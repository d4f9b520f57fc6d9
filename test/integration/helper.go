package integration

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// 集成测试辅助工具
// 前置条件：服务已在本地启动（含MySQL和Redis），
// 管理员账号为配置中的默认值。服务未启动时测试自动跳过。

const (
	// BaseURL 服务基础URL
	BaseURL = "http://localhost:8080"
	// Timeout HTTP请求超时时间
	Timeout = 10 * time.Second

	// AdminUsername 默认管理员账号
	AdminUsername = "Brenda B"
	// AdminPassword 默认管理员密码
	AdminPassword = "chebet05"
)

// Response 统一响应结构
type Response struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// BookData 图书响应数据
type BookData struct {
	ID        uint   `json:"id"`
	ISBN      string `json:"isbn"`
	Title     string `json:"title"`
	Author    string `json:"author"`
	Price     int64  `json:"price"`
	PriceYuan string `json:"price_yuan"`
	Stock     int    `json:"stock"`
	Category  string `json:"category"`
}

// SaleData 销售记录响应数据
type SaleData struct {
	ID         uint   `json:"id"`
	BookID     uint   `json:"book_id"`
	BookTitle  string `json:"book_title"`
	Quantity   int    `json:"quantity"`
	TotalPrice int64  `json:"total_price"`
}

// SkipIfServerDown 服务未启动时跳过测试
func SkipIfServerDown(t *testing.T) {
	t.Helper()
	client := &http.Client{Timeout: 2 * time.Second}
	resp, err := client.Get(BaseURL + "/ping")
	if err != nil {
		t.Skipf("服务未启动，跳过集成测试: %v", err)
	}
	resp.Body.Close()
}

// NewClient 创建带Cookie存储的HTTP客户端
// 不自动跟随重定向，便于断言302/303跳转
func NewClient(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &http.Client{
		Timeout: Timeout,
		Jar:     jar,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

// Login 以管理员身份登录，返回已持有会话Cookie的客户端
func Login(t *testing.T) *http.Client {
	t.Helper()
	client := NewClient(t)

	resp := PostForm(t, client, "/login", url.Values{
		"username": {AdminUsername},
		"password": {AdminPassword},
	})
	defer resp.Body.Close()
	require.Equal(t, http.StatusSeeOther, resp.StatusCode, "登录应303跳转")

	return client
}

// PostForm 发送表单POST请求
func PostForm(t *testing.T, client *http.Client, path string, form url.Values) *http.Response {
	t.Helper()
	req, err := http.NewRequest(http.MethodPost, BaseURL+path, strings.NewReader(form.Encode()))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := client.Do(req)
	require.NoError(t, err, "POST %s 请求失败", path)
	return resp
}

// GetJSON 发送GET请求并解析统一响应
func GetJSON(t *testing.T, client *http.Client, path string) *Response {
	t.Helper()
	resp, err := client.Get(BaseURL + path)
	require.NoError(t, err, "GET %s 请求失败", path)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var result Response
	require.NoError(t, json.Unmarshal(body, &result), "解析响应失败: %s", string(body))
	return &result
}

// GenerateTestISBN 生成不重复的测试ISBN
func GenerateTestISBN() string {
	return fmt.Sprintf("978-%d", time.Now().UnixNano()%10000000000)
}
