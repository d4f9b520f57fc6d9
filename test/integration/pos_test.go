package integration

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 端到端流程测试
// 覆盖：登录门禁、图书增删改、卖书扣库存、搜索、报表

func TestLoginGate(t *testing.T) {
	SkipIfServerDown(t)

	t.Run("未登录访问受保护页面跳转登录页", func(t *testing.T) {
		client := NewClient(t)
		resp, err := client.Get(BaseURL + "/inventory")
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusFound, resp.StatusCode)
		location := resp.Header.Get("Location")
		assert.Contains(t, location, "/login")
		assert.Contains(t, location, "next=", "应记住原始地址")
	})

	t.Run("错误凭证登录失败", func(t *testing.T) {
		client := NewClient(t)
		resp := PostForm(t, client, "/login", url.Values{
			"username": {AdminUsername},
			"password": {"wrong-password"},
		})
		defer resp.Body.Close()

		assert.Equal(t, http.StatusOK, resp.StatusCode, "登录失败就地提示，不跳转")
	})

	t.Run("正确凭证登录后可访问首页", func(t *testing.T) {
		client := Login(t)
		resp := GetJSON(t, client, "/")
		assert.Equal(t, 0, resp.Code)
	})

	t.Run("登出后会话失效", func(t *testing.T) {
		client := Login(t)

		resp, err := client.Get(BaseURL + "/logout")
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusFound, resp.StatusCode)

		resp, err = client.Get(BaseURL + "/inventory")
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusFound, resp.StatusCode, "登出后再访问应跳转登录页")
	})
}

func TestBookLifecycle(t *testing.T) {
	SkipIfServerDown(t)
	client := Login(t)

	isbn := GenerateTestISBN()

	// 新增
	resp := PostForm(t, client, "/add_book", url.Values{
		"isbn":     {isbn},
		"title":    {"集成测试用书"},
		"author":   {"测试作者"},
		"price":    {"89.50"},
		"stock":    {"10"},
		"category": {"Test"},
	})
	resp.Body.Close()
	require.Equal(t, http.StatusSeeOther, resp.StatusCode, "新增成功后应303跳转")

	// 搜索找回并取得ID
	searchResp := GetJSON(t, client, "/search?q="+url.QueryEscape(isbn))
	require.Equal(t, 0, searchResp.Code)

	var searchData struct {
		Books []BookData `json:"books"`
	}
	require.NoError(t, json.Unmarshal(searchResp.Data, &searchData))
	require.Len(t, searchData.Books, 1, "按ISBN应唯一命中")

	book := searchData.Books[0]
	assert.Equal(t, int64(8950), book.Price, "价格应以分存储")
	bookID := strconv.FormatUint(uint64(book.ID), 10)

	t.Run("重复ISBN拒绝", func(t *testing.T) {
		resp := PostForm(t, client, "/add_book", url.Values{
			"isbn":   {isbn},
			"title":  {"另一本"},
			"author": {"别人"},
			"price":  {"10"},
		})
		defer resp.Body.Close()
		// 业务拒绝后flash提示并跳回表单页
		assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
		assert.Equal(t, "/add_book", resp.Header.Get("Location"))
	})

	t.Run("卖书扣减库存并产生交易记录", func(t *testing.T) {
		resp := PostForm(t, client, "/sell_book/"+bookID, url.Values{
			"quantity": {"3"},
		})
		resp.Body.Close()
		require.Equal(t, http.StatusSeeOther, resp.StatusCode)

		searchResp := GetJSON(t, client, "/search?q="+url.QueryEscape(isbn))
		var after struct {
			Books []BookData `json:"books"`
		}
		require.NoError(t, json.Unmarshal(searchResp.Data, &after))
		require.Len(t, after.Books, 1)
		assert.Equal(t, 7, after.Books[0].Stock)

		txResp := GetJSON(t, client, "/transactions")
		require.Equal(t, 0, txResp.Code)
		var txData struct {
			Sales []SaleData `json:"sales"`
		}
		require.NoError(t, json.Unmarshal(txResp.Data, &txData))

		found := false
		for _, s := range txData.Sales {
			if s.BookID == book.ID && s.Quantity == 3 && s.TotalPrice == 26850 {
				found = true
				break
			}
		}
		assert.True(t, found, "交易流水中应有本次售出记录（总价=8950×3）")
	})

	t.Run("库存不足时拒绝卖出", func(t *testing.T) {
		resp := PostForm(t, client, "/sell_book/"+bookID, url.Values{
			"quantity": {"100"},
		})
		resp.Body.Close()
		require.Equal(t, http.StatusSeeOther, resp.StatusCode, "业务拒绝后跳回库存页")

		searchResp := GetJSON(t, client, "/search?q="+url.QueryEscape(isbn))
		var after struct {
			Books []BookData `json:"books"`
		}
		require.NoError(t, json.Unmarshal(searchResp.Data, &after))
		require.Len(t, after.Books, 1)
		assert.Equal(t, 7, after.Books[0].Stock, "失败的售出不能改变库存")
	})

	t.Run("编辑不影响历史成交价", func(t *testing.T) {
		resp := PostForm(t, client, "/edit_book/"+bookID, url.Values{
			"isbn":   {isbn},
			"title":  {"集成测试用书（改价）"},
			"author": {"测试作者"},
			"price":  {"999.00"},
			"stock":  {"7"},
		})
		resp.Body.Close()
		require.Equal(t, http.StatusSeeOther, resp.StatusCode)

		txResp := GetJSON(t, client, "/transactions")
		var txData struct {
			Sales []SaleData `json:"sales"`
		}
		require.NoError(t, json.Unmarshal(txResp.Data, &txData))
		for _, s := range txData.Sales {
			if s.BookID == book.ID {
				assert.Equal(t, int64(26850), s.TotalPrice, "历史成交价不随改价变化")
			}
		}
	})

	t.Run("删除级联清理交易记录", func(t *testing.T) {
		resp := PostForm(t, client, "/delete_book/"+bookID, nil)
		resp.Body.Close()
		require.Equal(t, http.StatusSeeOther, resp.StatusCode)

		searchResp := GetJSON(t, client, "/search?q="+url.QueryEscape(isbn))
		var after struct {
			Books []BookData `json:"books"`
		}
		require.NoError(t, json.Unmarshal(searchResp.Data, &after))
		assert.Empty(t, after.Books, "删除后搜索不应命中")

		txResp := GetJSON(t, client, "/transactions")
		var txData struct {
			Sales []SaleData `json:"sales"`
		}
		require.NoError(t, json.Unmarshal(txResp.Data, &txData))
		for _, s := range txData.Sales {
			assert.NotEqual(t, book.ID, s.BookID, "删除后不能留下孤儿交易记录")
		}
	})

	t.Run("删除后ISBN可重新录入", func(t *testing.T) {
		resp := PostForm(t, client, "/add_book", url.Values{
			"isbn":   {isbn},
			"title":  {"重新上架"},
			"author": {"测试作者"},
			"price":  {"10"},
			"stock":  {"1"},
		})
		resp.Body.Close()
		require.Equal(t, http.StatusSeeOther, resp.StatusCode)
		assert.Equal(t, "/inventory", resp.Header.Get("Location"), "已删除图书的ISBN应允许再次使用")

		// 清理重新录入的图书
		searchResp := GetJSON(t, client, "/search?q="+url.QueryEscape(isbn))
		var again struct {
			Books []BookData `json:"books"`
		}
		require.NoError(t, json.Unmarshal(searchResp.Data, &again))
		require.Len(t, again.Books, 1)
		newID := strconv.FormatUint(uint64(again.Books[0].ID), 10)
		resp = PostForm(t, client, "/delete_book/"+newID, nil)
		resp.Body.Close()
		require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	})

	t.Run("操作不存在的图书返回404", func(t *testing.T) {
		resp := PostForm(t, client, "/sell_book/99999999", url.Values{"quantity": {"1"}})
		defer resp.Body.Close()
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestReports(t *testing.T) {
	SkipIfServerDown(t)
	client := Login(t)

	resp := GetJSON(t, client, "/reports")
	require.Equal(t, 0, resp.Code)

	var data struct {
		TotalRevenue     int64  `json:"total_revenue"`
		TotalRevenueYuan string `json:"total_revenue_yuan"`
		TopSellers       []struct {
			BookID    uint  `json:"book_id"`
			TotalSold int64 `json:"total_sold"`
		} `json:"top_sellers"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &data))

	assert.GreaterOrEqual(t, data.TotalRevenue, int64(0))
	assert.LessOrEqual(t, len(data.TopSellers), 5, "排行榜最多5条")
	for i := 1; i < len(data.TopSellers); i++ {
		assert.GreaterOrEqual(t, data.TopSellers[i-1].TotalSold, data.TopSellers[i].TotalSold, "排行应按销量倒序")
	}
}
