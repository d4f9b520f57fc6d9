package sale

import (
	"context"
	"time"

	"github.com/xiebiao/bookpos/internal/domain/book"
	"github.com/xiebiao/bookpos/internal/domain/sale"
)

// DashboardUseCase 首页看板用例
// 汇总库存总数、低库存数、今日销售额和最新上架图书
type DashboardUseCase struct {
	bookService       book.Service
	saleRepo          sale.Repository
	lowStockThreshold int
	latestLimit       int
	now               func() time.Time // 可注入，便于测试日界
}

// NewDashboardUseCase 创建看板用例
func NewDashboardUseCase(
	bookService book.Service,
	saleRepo sale.Repository,
	lowStockThreshold int,
	latestLimit int,
) *DashboardUseCase {
	return &DashboardUseCase{
		bookService:       bookService,
		saleRepo:          saleRepo,
		lowStockThreshold: lowStockThreshold,
		latestLimit:       latestLimit,
		now:               time.Now,
	}
}

// DashboardResponse 看板响应
type DashboardResponse struct {
	TotalBooks    int64
	LowStockCount int64
	TodayRevenue  int64 // 分
	LatestBooks   []*book.Book
}

// Execute 查询看板数据
// 今日销售额按本地时区的[当日零点, 次日零点)统计
func (uc *DashboardUseCase) Execute(ctx context.Context) (*DashboardResponse, error) {
	totalBooks, err := uc.bookService.Count(ctx)
	if err != nil {
		return nil, err
	}

	lowStockCount, err := uc.bookService.CountLowStock(ctx, uc.lowStockThreshold)
	if err != nil {
		return nil, err
	}

	now := uc.now()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	todayRevenue, err := uc.saleRepo.SumTotalBetween(ctx, dayStart, dayStart.Add(24*time.Hour))
	if err != nil {
		return nil, err
	}

	latest, err := uc.bookService.Latest(ctx, uc.latestLimit)
	if err != nil {
		return nil, err
	}

	return &DashboardResponse{
		TotalBooks:    totalBooks,
		LowStockCount: lowStockCount,
		TodayRevenue:  todayRevenue,
		LatestBooks:   latest,
	}, nil
}
