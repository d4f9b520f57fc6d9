package book

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

// DeleteBookUseCase 删除图书用例
// 设计说明：
// 1. 级联删除：先物理删除该书的全部销售记录，再删除图书
// 2. 两步必须在同一事务中，要么全成功要么全失败
// 3. 删除后报表不再包含该书的历史销量
type DeleteBookUseCase struct {
	bookRepo  book.Repository
	saleRepo  sale.Repository
	txManager TxManager
}

// NewDeleteBookUseCase 创建删除图书用例
func NewDeleteBookUseCase(
	bookRepo book.Repository,
	saleRepo sale.Repository,
	txManager TxManager,
) *DeleteBookUseCase {
	return &DeleteBookUseCase{
		bookRepo:  bookRepo,
		saleRepo:  saleRepo,
		txManager: txManager,
	}
}

// Execute 执行删除
// 图书不存在时返回book.ErrBookNotFound
func (uc *DeleteBookUseCase) Execute(ctx context.Context, id uint) (*book.Book, error) {
	var deleted *book.Book
	err := uc.txManager.Transaction(ctx, func(txCtx context.Context) error {
		b, err := uc.bookRepo.FindByID(txCtx, id)
		if err != nil {
			return err
		}

		if err := uc.saleRepo.DeleteByBookID(txCtx, id); err != nil {
			return err
		}
		if err := uc.bookRepo.Delete(txCtx, id); err != nil {
			return err
		}

		deleted = b
		return nil
	})
	if err != nil {
		return nil, err
	}
	metrics.BooksDeletedTotal.Inc()
	return deleted, nil
}
