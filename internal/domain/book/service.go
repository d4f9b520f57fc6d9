package book

import (
	"context"
	"strings"
)

// Service 图书领域服务接口
// 封装图书的业务规则校验,不依赖具体的Repository实现
type Service interface {
	// AddBook 入库新书
	// 业务规则:
	// - ISBN/书名/作者必填
	// - 价格、库存不能为负
	// - ISBN不能重复(违反时返回ErrISBNDuplicate而非笼统的数据库错误)
	AddBook(ctx context.Context, isbn, title, author string, price int64, stock int, category, coverURL string) (*Book, error)

	// GetBook 根据ID获取图书
	GetBook(ctx context.Context, id uint) (*Book, error)

	// EditBook 编辑图书(整体覆盖可编辑字段)
	// 图书不存在时返回ErrBookNotFound;不触碰销售历史
	EditBook(ctx context.Context, id uint, isbn, title, author string, price int64, stock int, category, coverURL string) (*Book, error)

	// ListAll 全量图书列表
	ListAll(ctx context.Context) ([]*Book, error)

	// Search 关键词搜索
	// 空关键词返回空结果,而非全部图书
	Search(ctx context.Context, keyword string) ([]*Book, error)

	// Latest 最近添加的图书
	Latest(ctx context.Context, limit int) ([]*Book, error)

	// Count 图书总数
	Count(ctx context.Context) (int64, error)

	// LowStock 低库存图书及数量
	LowStock(ctx context.Context, threshold int) ([]*Book, error)
	CountLowStock(ctx context.Context, threshold int) (int64, error)
}

// service 领域服务实现
type service struct {
	repo Repository
}

// NewService 创建图书领域服务
func NewService(repo Repository) Service {
	return &service{repo: repo}
}

// AddBook 入库新书
func (s *service) AddBook(ctx context.Context, isbn, title, author string, price int64, stock int, category, coverURL string) (*Book, error) {
	if err := validateFields(isbn, title, author, price, stock); err != nil {
		return nil, err
	}

	b := NewBook(isbn, title, author, price, stock, category, coverURL)

	// ISBN唯一性由数据库UNIQUE索引保证,Repository将冲突转换为ErrISBNDuplicate
	if err := s.repo.Create(ctx, b); err != nil {
		return nil, err
	}

	return b, nil
}

// GetBook 根据ID获取图书
func (s *service) GetBook(ctx context.Context, id uint) (*Book, error) {
	return s.repo.FindByID(ctx, id)
}

// EditBook 编辑图书
func (s *service) EditBook(ctx context.Context, id uint, isbn, title, author string, price int64, stock int, category, coverURL string) (*Book, error) {
	if err := validateFields(isbn, title, author, price, stock); err != nil {
		return nil, err
	}

	b, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := b.ApplyEdit(isbn, title, author, price, stock, category, coverURL); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, b); err != nil {
		return nil, err
	}

	return b, nil
}

// ListAll 全量图书列表
func (s *service) ListAll(ctx context.Context) ([]*Book, error) {
	return s.repo.ListAll(ctx)
}

// Search 关键词搜索
func (s *service) Search(ctx context.Context, keyword string) ([]*Book, error) {
	// 空关键词返回空结果(不是全部图书)
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return []*Book{}, nil
	}
	return s.repo.Search(ctx, keyword)
}

// Latest 最近添加的图书
func (s *service) Latest(ctx context.Context, limit int) ([]*Book, error) {
	return s.repo.Latest(ctx, limit)
}

// Count 图书总数
func (s *service) Count(ctx context.Context) (int64, error) {
	return s.repo.Count(ctx)
}

// LowStock 低库存图书
func (s *service) LowStock(ctx context.Context, threshold int) ([]*Book, error) {
	return s.repo.ListBelowStock(ctx, threshold)
}

// CountLowStock 低库存图书数量
func (s *service) CountLowStock(ctx context.Context, threshold int) (int64, error) {
	return s.repo.CountBelowStock(ctx, threshold)
}

// validateFields 入库/编辑共用的字段校验
func validateFields(isbn, title, author string, price int64, stock int) error {
	if strings.TrimSpace(isbn) == "" || strings.TrimSpace(title) == "" || strings.TrimSpace(author) == "" {
		return ErrMissingFields
	}
	if price < 0 {
		return ErrInvalidPrice
	}
	if stock < 0 {
		return ErrInvalidStock
	}
	return nil
}
