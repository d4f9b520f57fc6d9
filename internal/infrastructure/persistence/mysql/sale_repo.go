package mysql

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/xiebiao/bookpos/internal/domain/sale"
	apperrors "github.com/xiebiao/bookpos/pkg/errors"
)

// saleRepository 销售记录仓储的MySQL实现
type saleRepository struct {
	db *gorm.DB
}

// NewSaleRepository 创建销售记录仓储
func NewSaleRepository(db *gorm.DB) sale.Repository {
	return &saleRepository{db: db}
}

func (r *saleRepository) Create(ctx context.Context, s *sale.Sale) error {
	model := r.toModel(s)
	if err := getDB(ctx, r.db).Create(model).Error; err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeDatabaseError, "创建销售记录失败")
	}
	s.ID = model.ID
	return nil
}

// DeleteByBookID 物理删除某图书的全部销售记录
// 仅在图书级联删除事务中调用
func (r *saleRepository) DeleteByBookID(ctx context.Context, bookID uint) error {
	err := getDB(ctx, r.db).Where("book_id = ?", bookID).Delete(&SaleModel{}).Error
	if err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeDatabaseError, "删除销售记录失败")
	}
	return nil
}

// saleRow 联表查询结果
type saleRow struct {
	SaleModel
	BookTitle string
	BookISBN  string
}

// ListAll 查询全部销售记录，按成交时间倒序
// 联表补充书名和ISBN；图书被删时销售记录已级联删除，
// 因此用INNER JOIN即可
func (r *saleRepository) ListAll(ctx context.Context) ([]*sale.Record, error) {
	var rows []saleRow
	err := getDB(ctx, r.db).
		Table("sales").
		Select("sales.*, books.title AS book_title, books.isbn AS book_isbn").
		Joins("JOIN books ON books.id = sales.book_id").
		Order("sales.id DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeDatabaseError, "查询销售记录失败")
	}
	return r.toRecords(rows), nil
}

func (r *saleRepository) ListByBookID(ctx context.Context, bookID uint) ([]*sale.Sale, error) {
	var models []SaleModel
	err := getDB(ctx, r.db).
		Where("book_id = ?", bookID).
		Order("id DESC").
		Find(&models).Error
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeDatabaseError, "查询销售记录失败")
	}
	sales := make([]*sale.Sale, 0, len(models))
	for i := range models {
		m := &models[i]
		sales = append(sales, &sale.Sale{
			ID:         m.ID,
			BookID:     m.BookID,
			Quantity:   m.Quantity,
			TotalPrice: m.TotalPrice,
			SaleDate:   m.SaleDate,
		})
	}
	return sales, nil
}

// SumTotal 累计销售额（分）
func (r *saleRepository) SumTotal(ctx context.Context) (int64, error) {
	var total int64
	err := getDB(ctx, r.db).Model(&SaleModel{}).
		Select("COALESCE(SUM(total_price), 0)").
		Scan(&total).Error
	if err != nil {
		return 0, apperrors.Wrap(err, apperrors.ErrCodeDatabaseError, "统计销售额失败")
	}
	return total, nil
}

// SumTotalBetween 统计[from, to)区间内的销售额（分）
func (r *saleRepository) SumTotalBetween(ctx context.Context, from, to time.Time) (int64, error) {
	var total int64
	err := getDB(ctx, r.db).Model(&SaleModel{}).
		Select("COALESCE(SUM(total_price), 0)").
		Where("sale_date >= ? AND sale_date < ?", from, to).
		Scan(&total).Error
	if err != nil {
		return 0, apperrors.Wrap(err, apperrors.ErrCodeDatabaseError, "统计销售额失败")
	}
	return total, nil
}

// TopSellers 销量排行
// 按总销量倒序，销量相同时按图书ID升序保证结果稳定
func (r *saleRepository) TopSellers(ctx context.Context, limit int) ([]*sale.TopSeller, error) {
	var rows []struct {
		BookID    uint
		Title     string
		ISBN      string
		TotalSold int64
	}
	err := getDB(ctx, r.db).
		Table("sales").
		Select("sales.book_id, books.title, books.isbn, SUM(sales.quantity) AS total_sold").
		Joins("JOIN books ON books.id = sales.book_id").
		Group("sales.book_id, books.title, books.isbn").
		Order("total_sold DESC, sales.book_id ASC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeDatabaseError, "统计销量排行失败")
	}

	sellers := make([]*sale.TopSeller, 0, len(rows))
	for _, row := range rows {
		sellers = append(sellers, &sale.TopSeller{
			BookID:    row.BookID,
			Title:     row.Title,
			ISBN:      row.ISBN,
			TotalSold: row.TotalSold,
		})
	}
	return sellers, nil
}

func (r *saleRepository) toRecords(rows []saleRow) []*sale.Record {
	records := make([]*sale.Record, 0, len(rows))
	for i := range rows {
		row := &rows[i]
		records = append(records, &sale.Record{
			Sale: sale.Sale{
				ID:         row.ID,
				BookID:     row.BookID,
				Quantity:   row.Quantity,
				TotalPrice: row.TotalPrice,
				SaleDate:   row.SaleDate,
			},
			BookTitle: row.BookTitle,
			BookISBN:  row.BookISBN,
		})
	}
	return records
}

// toModel 领域实体转数据模型
func (r *saleRepository) toModel(s *sale.Sale) *SaleModel {
	return &SaleModel{
		ID:         s.ID,
		BookID:     s.BookID,
		Quantity:   s.Quantity,
		TotalPrice: s.TotalPrice,
		SaleDate:   s.SaleDate,
	}
}
