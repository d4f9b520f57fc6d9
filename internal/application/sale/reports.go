package sale

import (
	"context"

	"github.com/xiebiao/bookpos/internal/domain/sale"
)

// topSellersLimit 销量排行榜条数
const topSellersLimit = 5

// TransactionsUseCase 交易流水用例
type TransactionsUseCase struct {
	saleRepo sale.Repository
}

// NewTransactionsUseCase 创建交易流水用例
func NewTransactionsUseCase(saleRepo sale.Repository) *TransactionsUseCase {
	return &TransactionsUseCase{saleRepo: saleRepo}
}

// Execute 查询全部销售记录，按成交时间倒序
func (uc *TransactionsUseCase) Execute(ctx context.Context) ([]*sale.Record, error) {
	return uc.saleRepo.ListAll(ctx)
}

// ReportsUseCase 销售报表用例
// 汇总累计销售额和销量排行
type ReportsUseCase struct {
	saleRepo sale.Repository
}

// NewReportsUseCase 创建报表用例
func NewReportsUseCase(saleRepo sale.Repository) *ReportsUseCase {
	return &ReportsUseCase{saleRepo: saleRepo}
}

// ReportsResponse 报表响应
type ReportsResponse struct {
	TotalRevenue int64 // 分
	TopSellers   []*sale.TopSeller
}

// Execute 查询报表数据
// 排行按总销量倒序，销量相同时按图书ID升序
func (uc *ReportsUseCase) Execute(ctx context.Context) (*ReportsResponse, error) {
	total, err := uc.saleRepo.SumTotal(ctx)
	if err != nil {
		return nil, err
	}
	top, err := uc.saleRepo.TopSellers(ctx, topSellersLimit)
	if err != nil {
		return nil, err
	}
	return &ReportsResponse{TotalRevenue: total, TopSellers: top}, nil
}
