package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/xiebiao/bookpos/internal/domain/book"
	apperrors "github.com/xiebiao/bookpos/pkg/errors"
)

// bookRepository 图书仓储的MySQL实现
type bookRepository struct {
	db *gorm.DB
}

// NewBookRepository 创建图书仓储
func NewBookRepository(db *gorm.DB) book.Repository {
	return &bookRepository{db: db}
}

func (r *bookRepository) Create(ctx context.Context, b *book.Book) error {
	model := r.toModel(b)
	if err := getDB(ctx, r.db).Create(model).Error; err != nil {
		if isDuplicateError(err) {
			return book.ErrISBNDuplicate
		}
		return apperrors.Wrap(err, apperrors.ErrCodeDatabaseError, "创建图书失败")
	}
	b.ID = model.ID
	return nil
}

func (r *bookRepository) FindByID(ctx context.Context, id uint) (*book.Book, error) {
	var model BookModel
	err := getDB(ctx, r.db).First(&model, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, book.ErrBookNotFound
		}
		return nil, apperrors.Wrap(err, apperrors.ErrCodeDatabaseError, "查询图书失败")
	}
	return r.toEntity(&model), nil
}

func (r *bookRepository) Update(ctx context.Context, b *book.Book) error {
	model := r.toModel(b)
	// Select保证零值字段（如库存清零）也能写入
	err := getDB(ctx, r.db).Model(&BookModel{ID: b.ID}).
		Select("isbn", "title", "author", "price", "stock", "category", "cover_url").
		Updates(model).Error
	if err != nil {
		if isDuplicateError(err) {
			return book.ErrISBNDuplicate
		}
		return apperrors.Wrap(err, apperrors.ErrCodeDatabaseError, "更新图书失败")
	}
	return nil
}

// Delete 物理删除图书，删除后该ISBN可重新录入
func (r *bookRepository) Delete(ctx context.Context, id uint) error {
	result := getDB(ctx, r.db).Delete(&BookModel{}, id)
	if result.Error != nil {
		return apperrors.Wrap(result.Error, apperrors.ErrCodeDatabaseError, "删除图书失败")
	}
	if result.RowsAffected == 0 {
		return book.ErrBookNotFound
	}
	return nil
}

func (r *bookRepository) ListAll(ctx context.Context) ([]*book.Book, error) {
	var models []BookModel
	err := getDB(ctx, r.db).Order("id ASC").Find(&models).Error
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeDatabaseError, "查询图书列表失败")
	}
	return r.toEntities(models), nil
}

func (r *bookRepository) Search(ctx context.Context, keyword string) ([]*book.Book, error) {
	var models []BookModel
	pattern := "%" + escapeLike(keyword) + "%"
	err := getDB(ctx, r.db).
		Where("title LIKE ? OR author LIKE ? OR isbn LIKE ?", pattern, pattern, pattern).
		Order("id ASC").
		Find(&models).Error
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeDatabaseError, "搜索图书失败")
	}
	return r.toEntities(models), nil
}

func (r *bookRepository) Latest(ctx context.Context, limit int) ([]*book.Book, error) {
	var models []BookModel
	err := getDB(ctx, r.db).Order("id DESC").Limit(limit).Find(&models).Error
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeDatabaseError, "查询最新图书失败")
	}
	return r.toEntities(models), nil
}

func (r *bookRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := getDB(ctx, r.db).Model(&BookModel{}).Count(&count).Error
	if err != nil {
		return 0, apperrors.Wrap(err, apperrors.ErrCodeDatabaseError, "统计图书失败")
	}
	return count, nil
}

func (r *bookRepository) ListBelowStock(ctx context.Context, threshold int) ([]*book.Book, error) {
	var models []BookModel
	err := getDB(ctx, r.db).Where("stock < ?", threshold).Order("stock ASC").Find(&models).Error
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeDatabaseError, "查询低库存图书失败")
	}
	return r.toEntities(models), nil
}

func (r *bookRepository) CountBelowStock(ctx context.Context, threshold int) (int64, error) {
	var count int64
	err := getDB(ctx, r.db).Model(&BookModel{}).Where("stock < ?", threshold).Count(&count).Error
	if err != nil {
		return 0, apperrors.Wrap(err, apperrors.ErrCodeDatabaseError, "统计低库存图书失败")
	}
	return count, nil
}

// LockByID 悲观锁查询（SELECT ... FOR UPDATE）
// 必须在事务中调用，否则锁没有意义
func (r *bookRepository) LockByID(ctx context.Context, id uint) (*book.Book, error) {
	var model BookModel
	err := getDB(ctx, r.db).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&model, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, book.ErrBookNotFound
		}
		return nil, apperrors.Wrap(err, apperrors.ErrCodeDatabaseError, "锁定图书失败")
	}
	return r.toEntity(&model), nil
}

// UpdateStock 原子更新库存
// 条件stock + ? >= 0在数据库层兜底，防止并发下超卖；
// RowsAffected为0时需区分"图书不存在"和"库存不足"
func (r *bookRepository) UpdateStock(ctx context.Context, id uint, delta int) error {
	db := getDB(ctx, r.db)
	result := db.Model(&BookModel{}).
		Where("id = ? AND stock + ? >= 0", id, delta).
		Update("stock", gorm.Expr("stock + ?", delta))
	if result.Error != nil {
		return apperrors.Wrap(result.Error, apperrors.ErrCodeDatabaseError, "更新库存失败")
	}
	if result.RowsAffected == 0 {
		var count int64
		if err := db.Model(&BookModel{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return apperrors.Wrap(err, apperrors.ErrCodeDatabaseError, "更新库存失败")
		}
		if count == 0 {
			return book.ErrBookNotFound
		}
		return book.ErrInsufficientStock
	}
	return nil
}

// toEntity 数据模型转领域实体
func (r *bookRepository) toEntity(m *BookModel) *book.Book {
	return &book.Book{
		ID:        m.ID,
		ISBN:      m.ISBN,
		Title:     m.Title,
		Author:    m.Author,
		Price:     m.Price,
		Stock:     m.Stock,
		Category:  m.Category,
		CoverURL:  m.CoverURL,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

func (r *bookRepository) toEntities(models []BookModel) []*book.Book {
	books := make([]*book.Book, 0, len(models))
	for i := range models {
		books = append(books, r.toEntity(&models[i]))
	}
	return books
}

// toModel 领域实体转数据模型
func (r *bookRepository) toModel(b *book.Book) *BookModel {
	return &BookModel{
		ID:       b.ID,
		ISBN:     b.ISBN,
		Title:    b.Title,
		Author:   b.Author,
		Price:    b.Price,
		Stock:    b.Stock,
		Category: b.Category,
		CoverURL: b.CoverURL,
	}
}
