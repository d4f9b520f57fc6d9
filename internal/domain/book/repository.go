package book

import (
	"context"
)

// Repository 图书仓储接口(依赖倒置原则)
// 由domain层定义接口,infrastructure层实现,便于Mock测试
type Repository interface {
	// Create 创建图书
	// ISBN重复时返回ErrISBNDuplicate(由数据库唯一索引保证)
	Create(ctx context.Context, book *Book) error

	// FindByID 根据ID查找图书
	FindByID(ctx context.Context, id uint) (*Book, error)

	// Update 整体更新图书
	Update(ctx context.Context, book *Book) error

	// Delete 删除图书(软删除)
	// 注意:必须先删除该图书的所有销售记录,调用方负责把两步放进同一事务
	Delete(ctx context.Context, id uint) error

	// ListAll 全量图书列表(单店库存规模,不分页)
	ListAll(ctx context.Context) ([]*Book, error)

	// Search 关键词搜索(标题/作者/ISBN子串匹配,大小写不敏感)
	// 空关键词的"空结果"语义由上层保证,仓储不做此判断
	Search(ctx context.Context, keyword string) ([]*Book, error)

	// Latest 最近添加的图书,最新在前,最多limit条
	Latest(ctx context.Context, limit int) ([]*Book, error)

	// Count 图书总数
	Count(ctx context.Context) (int64, error)

	// ListBelowStock 库存严格低于threshold的图书
	ListBelowStock(ctx context.Context, threshold int) ([]*Book, error)

	// CountBelowStock 库存严格低于threshold的图书数量
	CountBelowStock(ctx context.Context, threshold int) (int64, error)

	// LockByID 悲观锁查询图书(用于销售时锁定库存)
	// 使用SELECT FOR UPDATE锁定行,必须在事务内调用
	LockByID(ctx context.Context, id uint) (*Book, error)

	// UpdateStock 更新库存(原子操作)
	// delta为正数表示增加,负数表示减少
	// 内部保证扣减后不为负,不足时返回ErrInsufficientStock
	UpdateStock(ctx context.Context, id uint, delta int) error
}
