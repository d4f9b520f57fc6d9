package book

import (
	"context"

	"github.com/xiebiao/bookpos/internal/domain/book"
	"github.com/xiebiao/bookpos/pkg/metrics"
)

// AddBookUseCase 新增图书用例
type AddBookUseCase struct {
	bookService book.Service
}

// NewAddBookUseCase 创建新增图书用例
func NewAddBookUseCase(bookService book.Service) *AddBookUseCase {
	return &AddBookUseCase{bookService: bookService}
}

// AddBookRequest 新增图书请求
type AddBookRequest struct {
	ISBN     string
	Title    string
	Author   string
	Price    int64 // 分
	Stock    int
	Category string
	CoverURL string
}

// Execute 执行新增图书
// 字段校验和ISBN查重由领域服务完成
func (uc *AddBookUseCase) Execute(ctx context.Context, req AddBookRequest) (*book.Book, error) {
	b, err := uc.bookService.AddBook(ctx, req.ISBN, req.Title, req.Author, req.Price, req.Stock, req.Category, req.CoverURL)
	if err != nil {
		return nil, err
	}
	metrics.BooksCreatedTotal.Inc()
	return b, nil
}
