package book

import (
	"context"

	"github.com/xiebiao/bookpos/internal/domain/book"
)

// InventoryUseCase 库存清单用例
// 为库存页提供全量书目和低库存清单
type InventoryUseCase struct {
	bookService       book.Service
	lowStockThreshold int
}

// NewInventoryUseCase 创建库存清单用例
func NewInventoryUseCase(bookService book.Service, lowStockThreshold int) *InventoryUseCase {
	return &InventoryUseCase{
		bookService:       bookService,
		lowStockThreshold: lowStockThreshold,
	}
}

// InventoryResponse 库存清单响应
type InventoryResponse struct {
	Books    []*book.Book
	LowStock []*book.Book
}

// Execute 查询库存清单
func (uc *InventoryUseCase) Execute(ctx context.Context) (*InventoryResponse, error) {
	books, err := uc.bookService.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	lowStock, err := uc.bookService.LowStock(ctx, uc.lowStockThreshold)
	if err != nil {
		return nil, err
	}
	return &InventoryResponse{Books: books, LowStock: lowStock}, nil
}

// SearchUseCase 图书搜索用例
// 关键字为空时返回空结果而非全量书目
type SearchUseCase struct {
	bookService book.Service
}

// NewSearchUseCase 创建搜索用例
func NewSearchUseCase(bookService book.Service) *SearchUseCase {
	return &SearchUseCase{bookService: bookService}
}

// Execute 按关键字搜索书名、作者、ISBN（模糊匹配）
func (uc *SearchUseCase) Execute(ctx context.Context, keyword string) ([]*book.Book, error) {
	return uc.bookService.Search(ctx, keyword)
}
