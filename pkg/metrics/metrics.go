// Package metrics 基于Prometheus的指标收集
//
// 指标一览：
//   - http_requests_total{method,path,status}  请求计数
//   - http_request_duration_seconds{method,path}  请求耗时分布
//   - books_sold_total  售出图书册数
//   - sales_revenue_fen_total  销售额累计（分）
//   - books_created_total / books_deleted_total  图书增删计数
//
// 通过GET /metrics暴露，由Prometheus抓取。
package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequestsTotal HTTP请求总数
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "HTTP请求总数",
	}, []string{"method", "path", "status"})

	// HTTPRequestDuration HTTP请求耗时分布
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP请求耗时（秒）",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path"})

	// BooksSoldTotal 售出图书册数累计
	BooksSoldTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "books_sold_total",
		Help: "售出图书册数累计",
	})

	// SalesRevenueFenTotal 销售额累计（单位：分）
	SalesRevenueFenTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sales_revenue_fen_total",
		Help: "销售额累计（分）",
	})

	// BooksCreatedTotal 新增图书计数
	BooksCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "books_created_total",
		Help: "新增图书计数",
	})

	// BooksDeletedTotal 删除图书计数
	BooksDeletedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "books_deleted_total",
		Help: "删除图书计数",
	})
)

// RecordSale 记录一笔销售
func RecordSale(quantity int, totalFen int64) {
	BooksSoldTotal.Add(float64(quantity))
	SalesRevenueFenTotal.Add(float64(totalFen))
}

// GinMiddleware HTTP指标中间件
// 使用路由模板（c.FullPath）作为path标签，避免/edit_book/123导致标签爆炸
func GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}

		HTTPRequestsTotal.WithLabelValues(
			c.Request.Method,
			path,
			strconv.Itoa(c.Writer.Status()),
		).Inc()

		HTTPRequestDuration.WithLabelValues(
			c.Request.Method,
			path,
		).Observe(time.Since(start).Seconds())
	}
}
