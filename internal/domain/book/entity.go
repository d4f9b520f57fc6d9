package book

import (
	"time"
)

// DefaultCoverURL 默认封面图路径（未上传封面时使用）
const DefaultCoverURL = "pics/default-book.jpg"

// Book 图书实体(聚合根)
// 设计说明:
// 1. 价格使用int64存储"分"为单位(避免浮点数精度问题)
// 2. ISBN作为业务唯一标识,始终按字符串处理(保留前导零与连字符,
//    数据库层保证唯一性)
// 3. 库存数量不变量:任何操作后Stock >= 0
type Book struct {
	ID        uint
	ISBN      string // ISBN号(国际标准书号)
	Title     string // 书名
	Author    string // 作者
	Price     int64  // 单价(单位:分,1元=100分)
	Stock     int    // 库存数量
	Category  string // 分类(自由文本)
	CoverURL  string // 封面图片路径/URL
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewBook 创建新图书(工厂方法)
// coverURL为空时使用默认封面
func NewBook(isbn, title, author string, price int64, stock int, category, coverURL string) *Book {
	if coverURL == "" {
		coverURL = DefaultCoverURL
	}
	now := time.Now()
	return &Book{
		ISBN:      isbn,
		Title:     title,
		Author:    author,
		Price:     price,
		Stock:     stock,
		Category:  category,
		CoverURL:  coverURL,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// ApplyEdit 整体覆盖可编辑字段(编辑操作)
// 不触碰销售历史;价格变更不回溯已有销售记录的总价
func (b *Book) ApplyEdit(isbn, title, author string, price int64, stock int, category, coverURL string) error {
	if price < 0 {
		return ErrInvalidPrice
	}
	if stock < 0 {
		return ErrInvalidStock
	}
	if coverURL == "" {
		coverURL = DefaultCoverURL
	}
	b.ISBN = isbn
	b.Title = title
	b.Author = author
	b.Price = price
	b.Stock = stock
	b.Category = category
	b.CoverURL = coverURL
	b.UpdatedAt = time.Now()
	return nil
}

// DecrStock 扣减库存(用于销售)
// 业务规则:扣减后库存不能为负数
func (b *Book) DecrStock(quantity int) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}
	if b.Stock < quantity {
		return ErrInsufficientStock
	}
	b.Stock -= quantity
	b.UpdatedAt = time.Now()
	return nil
}

// IsLowStock 是否低库存(库存严格低于阈值)
func (b *Book) IsLowStock(threshold int) bool {
	return b.Stock < threshold
}
