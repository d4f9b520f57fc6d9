package sale

import (
	"context"

	"github.com/xiebiao/bookpos/internal/domain/book"
	"github.com/xiebiao/bookpos/internal/domain/sale"
	"github.com/xiebiao/bookpos/pkg/metrics"
)

// TxManager 事务管理器
// 由调用方注入具体实现（MySQL事务），便于测试时替换
type TxManager interface {
	Transaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// SellBookUseCase 卖书用例
// 设计说明：防止超卖的完整流程
// 1. SELECT FOR UPDATE锁定库存行
// 2. 锁内检查库存是否充足
// 3. 按锁定时的单价生成销售记录（改价不回溯）
// 4. 条件扣减库存（数据库层二次兜底）
// 5. COMMIT释放锁
type SellBookUseCase struct {
	bookRepo  book.Repository
	saleRepo  sale.Repository
	txManager TxManager
}

// NewSellBookUseCase 创建卖书用例
func NewSellBookUseCase(
	bookRepo book.Repository,
	saleRepo sale.Repository,
	txManager TxManager,
) *SellBookUseCase {
	return &SellBookUseCase{
		bookRepo:  bookRepo,
		saleRepo:  saleRepo,
		txManager: txManager,
	}
}

// SellBookRequest 卖书请求
type SellBookRequest struct {
	BookID   uint
	Quantity int
}

// SellBookResponse 卖书响应
type SellBookResponse struct {
	Sale      *sale.Sale
	BookTitle string
	Stock     int // 扣减后的剩余库存
}

// Execute 执行卖书
// 数量不合法返回book.ErrInvalidQuantity，
// 库存不足返回book.ErrInsufficientStock，库存保持不变
func (uc *SellBookUseCase) Execute(ctx context.Context, req SellBookRequest) (*SellBookResponse, error) {
	if req.Quantity <= 0 {
		return nil, book.ErrInvalidQuantity
	}

	var resp *SellBookResponse
	err := uc.txManager.Transaction(ctx, func(txCtx context.Context) error {
		b, err := uc.bookRepo.LockByID(txCtx, req.BookID)
		if err != nil {
			return err
		}

		// 必须在持锁后检查，否则并发扣减会超卖
		if b.Stock < req.Quantity {
			return book.ErrInsufficientStock
		}

		s, err := sale.NewSale(b.ID, req.Quantity, b.Price)
		if err != nil {
			return err
		}
		if err := uc.saleRepo.Create(txCtx, s); err != nil {
			return err
		}
		if err := uc.bookRepo.UpdateStock(txCtx, b.ID, -req.Quantity); err != nil {
			return err
		}

		resp = &SellBookResponse{
			Sale:      s,
			BookTitle: b.Title,
			Stock:     b.Stock - req.Quantity,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.RecordSale(req.Quantity, resp.Sale.TotalPrice)
	return resp, nil
}
