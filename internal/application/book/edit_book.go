package book

import (
	"context"

	"github.com/xiebiao/bookpos/internal/domain/book"
)

// EditBookUseCase 编辑图书用例
// 整体覆盖式更新：表单提交的全部字段直接替换原值
type EditBookUseCase struct {
	bookService book.Service
}

// NewEditBookUseCase 创建编辑图书用例
func NewEditBookUseCase(bookService book.Service) *EditBookUseCase {
	return &EditBookUseCase{bookService: bookService}
}

// EditBookRequest 编辑图书请求
type EditBookRequest struct {
	ID       uint
	ISBN     string
	Title    string
	Author   string
	Price    int64 // 分
	Stock    int
	Category string
	CoverURL string
}

// Execute 执行编辑图书
// 历史销售记录的成交价不受改价影响
func (uc *EditBookUseCase) Execute(ctx context.Context, req EditBookRequest) (*book.Book, error) {
	return uc.bookService.EditBook(ctx, req.ID, req.ISBN, req.Title, req.Author, req.Price, req.Stock, req.Category, req.CoverURL)
}

// GetBookUseCase 查询单本图书用例（编辑页回显）
type GetBookUseCase struct {
	bookService book.Service
}

// NewGetBookUseCase 创建查询图书用例
func NewGetBookUseCase(bookService book.Service) *GetBookUseCase {
	return &GetBookUseCase{bookService: bookService}
}

// Execute 按ID查询图书
func (uc *GetBookUseCase) Execute(ctx context.Context, id uint) (*book.Book, error) {
	return uc.bookService.GetBook(ctx, id)
}
