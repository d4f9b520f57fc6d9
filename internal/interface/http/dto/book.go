package dto

import (
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/xiebiao/bookpos/internal/domain/book"
	"github.com/xiebiao/bookpos/internal/domain/sale"
)

// BookForm 新增/编辑图书表单
// 价格以十进制字符串提交（如"850.00"），服务端转为分存储
type BookForm struct {
	ISBN     string `form:"isbn" binding:"required,max=20" example:"978-1476770383"`
	Title    string `form:"title" binding:"required,max=200" example:"Ugly Love"`
	Author   string `form:"author" binding:"required,max=200" example:"Colleen Hoover"`
	Price    string `form:"price" binding:"required" example:"850.00"` // 元
	Stock    int    `form:"stock" binding:"omitempty,min=0" example:"15"`
	Category string `form:"category" binding:"omitempty,max=100" example:"Romance"`
	CoverURL string `form:"cover_url" binding:"omitempty,max=500" example:"pics/ugly-love.jpg"`
}

// PriceFen 将表单的十进制价格转为分
// "850"、"850.5"、"850.00"均合法，负数和非数字返回错误
func (f *BookForm) PriceFen() (int64, error) {
	v, err := strconv.ParseFloat(f.Price, 64)
	if err != nil {
		return 0, fmt.Errorf("价格格式不正确: %q", f.Price)
	}
	if v < 0 {
		return 0, fmt.Errorf("价格不能为负数: %q", f.Price)
	}
	return int64(math.Round(v * 100)), nil
}

// SellForm 卖书表单
// 数量缺省时按1处理
type SellForm struct {
	Quantity int `form:"quantity" binding:"omitempty,min=1" example:"1"`
}

// SearchForm 搜索表单
type SearchForm struct {
	Keyword string `form:"q" binding:"omitempty,max=100" example:"love"`
}

// BookResponse 图书响应
type BookResponse struct {
	ID        uint   `json:"id" example:"1"`
	ISBN      string `json:"isbn" example:"978-1476770383"`
	Title     string `json:"title" example:"Ugly Love"`
	Author    string `json:"author" example:"Colleen Hoover"`
	Price     int64  `json:"price" example:"85000"`      // 价格(分)
	PriceYuan string `json:"price_yuan" example:"850.00"` // 价格(元)
	Stock     int    `json:"stock" example:"15"`
	Category  string `json:"category" example:"Romance"`
	CoverURL  string `json:"cover_url" example:"pics/ugly-love.jpg"`
	CreatedAt string `json:"created_at" example:"2024-01-15 10:30:00"`
}

// SaleRecordResponse 销售记录响应
type SaleRecordResponse struct {
	ID         uint   `json:"id" example:"1"`
	BookID     uint   `json:"book_id" example:"1"`
	BookTitle  string `json:"book_title" example:"Ugly Love"`
	BookISBN   string `json:"book_isbn" example:"978-1476770383"`
	Quantity   int    `json:"quantity" example:"2"`
	TotalPrice int64  `json:"total_price" example:"170000"`
	TotalYuan  string `json:"total_yuan" example:"1700.00"`
	SaleDate   string `json:"sale_date" example:"2024-01-15 10:30:00"`
}

// TopSellerResponse 销量排行项
type TopSellerResponse struct {
	BookID    uint   `json:"book_id" example:"1"`
	Title     string `json:"title" example:"Ugly Love"`
	ISBN      string `json:"isbn" example:"978-1476770383"`
	TotalSold int64  `json:"total_sold" example:"42"`
}

// FlashMessage 一次性提示消息
type FlashMessage struct {
	Category string `json:"category" example:"success"`
	Message  string `json:"message" example:"图书添加成功"`
}

// FormatPriceYuan 分转元的显示字符串
func FormatPriceYuan(fen int64) string {
	return fmt.Sprintf("%.2f", float64(fen)/100)
}

// FormatTime 统一的时间显示格式
func FormatTime(t time.Time) string {
	return t.Format("2006-01-02 15:04:05")
}

// ToBookResponse 领域实体转图书响应
func ToBookResponse(b *book.Book) *BookResponse {
	return &BookResponse{
		ID:        b.ID,
		ISBN:      b.ISBN,
		Title:     b.Title,
		Author:    b.Author,
		Price:     b.Price,
		PriceYuan: FormatPriceYuan(b.Price),
		Stock:     b.Stock,
		Category:  b.Category,
		CoverURL:  b.CoverURL,
		CreatedAt: FormatTime(b.CreatedAt),
	}
}

// ToBookResponses 批量转换
func ToBookResponses(books []*book.Book) []*BookResponse {
	items := make([]*BookResponse, 0, len(books))
	for _, b := range books {
		items = append(items, ToBookResponse(b))
	}
	return items
}

// ToSaleRecordResponses 销售记录批量转换
func ToSaleRecordResponses(records []*sale.Record) []*SaleRecordResponse {
	items := make([]*SaleRecordResponse, 0, len(records))
	for _, r := range records {
		items = append(items, &SaleRecordResponse{
			ID:         r.ID,
			BookID:     r.BookID,
			BookTitle:  r.BookTitle,
			BookISBN:   r.BookISBN,
			Quantity:   r.Quantity,
			TotalPrice: r.TotalPrice,
			TotalYuan:  FormatPriceYuan(r.TotalPrice),
			SaleDate:   FormatTime(r.SaleDate),
		})
	}
	return items
}

// ToTopSellerResponses 排行榜批量转换
func ToTopSellerResponses(sellers []*sale.TopSeller) []*TopSellerResponse {
	items := make([]*TopSellerResponse, 0, len(sellers))
	for _, s := range sellers {
		items = append(items, &TopSellerResponse{
			BookID:    s.BookID,
			Title:     s.Title,
			ISBN:      s.ISBN,
			TotalSold: s.TotalSold,
		})
	}
	return items
}
