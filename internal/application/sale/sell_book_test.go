package sale

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/bookpos/internal/domain/book"
	domainsale "github.com/xiebiao/bookpos/internal/domain/sale"
)

// fakeBookRepo 内存图书仓储（并发安全）
type fakeBookRepo struct {
	mu    sync.Mutex
	books map[uint]*book.Book
}

func newFakeBookRepo(books ...*book.Book) *fakeBookRepo {
	r := &fakeBookRepo{books: make(map[uint]*book.Book)}
	for _, b := range books {
		copied := *b
		r.books[b.ID] = &copied
	}
	return r
}

func (r *fakeBookRepo) Create(ctx context.Context, b *book.Book) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *b
	r.books[b.ID] = &copied
	return nil
}

func (r *fakeBookRepo) FindByID(ctx context.Context, id uint) (*book.Book, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.books[id]
	if !ok {
		return nil, book.ErrBookNotFound
	}
	copied := *b
	return &copied, nil
}

func (r *fakeBookRepo) Update(ctx context.Context, b *book.Book) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.books[b.ID]; !ok {
		return book.ErrBookNotFound
	}
	copied := *b
	r.books[b.ID] = &copied
	return nil
}

func (r *fakeBookRepo) Delete(ctx context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.books[id]; !ok {
		return book.ErrBookNotFound
	}
	delete(r.books, id)
	return nil
}

func (r *fakeBookRepo) ListAll(ctx context.Context) ([]*book.Book, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*book.Book, 0, len(r.books))
	for _, b := range r.books {
		copied := *b
		out = append(out, &copied)
	}
	return out, nil
}

func (r *fakeBookRepo) Search(ctx context.Context, keyword string) ([]*book.Book, error) {
	return nil, nil
}

func (r *fakeBookRepo) Latest(ctx context.Context, limit int) ([]*book.Book, error) {
	all, _ := r.ListAll(ctx)
	if len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

func (r *fakeBookRepo) Count(ctx context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.books)), nil
}

func (r *fakeBookRepo) ListBelowStock(ctx context.Context, threshold int) ([]*book.Book, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*book.Book
	for _, b := range r.books {
		if b.Stock < threshold {
			copied := *b
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *fakeBookRepo) CountBelowStock(ctx context.Context, threshold int) (int64, error) {
	list, _ := r.ListBelowStock(ctx, threshold)
	return int64(len(list)), nil
}

func (r *fakeBookRepo) LockByID(ctx context.Context, id uint) (*book.Book, error) {
	// 事务管理器整体串行化，等价于行锁
	return r.FindByID(ctx, id)
}

func (r *fakeBookRepo) UpdateStock(ctx context.Context, id uint, delta int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.books[id]
	if !ok {
		return book.ErrBookNotFound
	}
	if b.Stock+delta < 0 {
		return book.ErrInsufficientStock
	}
	b.Stock += delta
	return nil
}

// fakeSaleRepo 内存销售记录仓储（并发安全）
type fakeSaleRepo struct {
	mu     sync.Mutex
	sales  []*domainsale.Sale
	nextID uint
}

func newFakeSaleRepo() *fakeSaleRepo {
	return &fakeSaleRepo{nextID: 1}
}

func (r *fakeSaleRepo) Create(ctx context.Context, s *domainsale.Sale) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s.ID = r.nextID
	r.nextID++
	copied := *s
	r.sales = append(r.sales, &copied)
	return nil
}

func (r *fakeSaleRepo) DeleteByBookID(ctx context.Context, bookID uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.sales[:0]
	for _, s := range r.sales {
		if s.BookID != bookID {
			kept = append(kept, s)
		}
	}
	r.sales = kept
	return nil
}

func (r *fakeSaleRepo) ListAll(ctx context.Context) ([]*domainsale.Record, error) {
	return nil, nil
}

func (r *fakeSaleRepo) ListByBookID(ctx context.Context, bookID uint) ([]*domainsale.Sale, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domainsale.Sale
	for _, s := range r.sales {
		if s.BookID == bookID {
			copied := *s
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *fakeSaleRepo) SumTotal(ctx context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var total int64
	for _, s := range r.sales {
		total += s.TotalPrice
	}
	return total, nil
}

func (r *fakeSaleRepo) SumTotalBetween(ctx context.Context, from, to time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var total int64
	for _, s := range r.sales {
		if !s.SaleDate.Before(from) && s.SaleDate.Before(to) {
			total += s.TotalPrice
		}
	}
	return total, nil
}

func (r *fakeSaleRepo) TopSellers(ctx context.Context, limit int) ([]*domainsale.TopSeller, error) {
	return nil, nil
}

func (r *fakeSaleRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sales)
}

// fakeTxManager 用互斥锁串行化事务，模拟行锁的互斥效果
type fakeTxManager struct {
	mu sync.Mutex
}

func (m *fakeTxManager) Transaction(ctx context.Context, fn func(ctx context.Context) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return fn(ctx)
}

func TestSellBook(t *testing.T) {
	ctx := context.Background()

	newBook := func(id uint, stock int, price int64) *book.Book {
		return &book.Book{ID: id, ISBN: "isbn-1", Title: "Ugly Love", Author: "Colleen Hoover", Price: price, Stock: stock}
	}

	t.Run("正常售出并扣减库存", func(t *testing.T) {
		bookRepo := newFakeBookRepo(newBook(1, 5, 1000))
		saleRepo := newFakeSaleRepo()
		uc := NewSellBookUseCase(bookRepo, saleRepo, &fakeTxManager{})

		resp, err := uc.Execute(ctx, SellBookRequest{BookID: 1, Quantity: 3})
		require.NoError(t, err)
		assert.Equal(t, 2, resp.Stock)
		assert.Equal(t, int64(3000), resp.Sale.TotalPrice, "总价=单价×数量")

		b, err := bookRepo.FindByID(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, 2, b.Stock)
		assert.Equal(t, 1, saleRepo.count(), "应产生一条销售记录")
	})

	t.Run("库存不足时拒绝且不产生记录", func(t *testing.T) {
		bookRepo := newFakeBookRepo(newBook(1, 2, 1000))
		saleRepo := newFakeSaleRepo()
		uc := NewSellBookUseCase(bookRepo, saleRepo, &fakeTxManager{})

		_, err := uc.Execute(ctx, SellBookRequest{BookID: 1, Quantity: 3})
		assert.ErrorIs(t, err, book.ErrInsufficientStock)

		b, _ := bookRepo.FindByID(ctx, 1)
		assert.Equal(t, 2, b.Stock, "失败的售出不能改变库存")
		assert.Zero(t, saleRepo.count(), "失败的售出不能留下记录")
	})

	t.Run("数量非法", func(t *testing.T) {
		bookRepo := newFakeBookRepo(newBook(1, 5, 1000))
		uc := NewSellBookUseCase(bookRepo, newFakeSaleRepo(), &fakeTxManager{})

		_, err := uc.Execute(ctx, SellBookRequest{BookID: 1, Quantity: 0})
		assert.ErrorIs(t, err, book.ErrInvalidQuantity)

		_, err = uc.Execute(ctx, SellBookRequest{BookID: 1, Quantity: -1})
		assert.ErrorIs(t, err, book.ErrInvalidQuantity)
	})

	t.Run("图书不存在", func(t *testing.T) {
		uc := NewSellBookUseCase(newFakeBookRepo(), newFakeSaleRepo(), &fakeTxManager{})
		_, err := uc.Execute(ctx, SellBookRequest{BookID: 999, Quantity: 1})
		assert.ErrorIs(t, err, book.ErrBookNotFound)
	})

	t.Run("成交价在售出时冻结", func(t *testing.T) {
		bookRepo := newFakeBookRepo(newBook(1, 10, 1000))
		saleRepo := newFakeSaleRepo()
		uc := NewSellBookUseCase(bookRepo, saleRepo, &fakeTxManager{})

		resp, err := uc.Execute(ctx, SellBookRequest{BookID: 1, Quantity: 2})
		require.NoError(t, err)
		require.Equal(t, int64(2000), resp.Sale.TotalPrice)

		// 改价后历史记录的总价不变
		b, _ := bookRepo.FindByID(ctx, 1)
		require.NoError(t, b.ApplyEdit(b.ISBN, b.Title, b.Author, 99900, b.Stock, b.Category, b.CoverURL))
		require.NoError(t, bookRepo.Update(ctx, b))

		sales, err := saleRepo.ListByBookID(ctx, 1)
		require.NoError(t, err)
		require.Len(t, sales, 1)
		assert.Equal(t, int64(2000), sales[0].TotalPrice)
	})

	t.Run("并发售出不超卖", func(t *testing.T) {
		// 库存5，两个并发请求各买3，只能成功一个
		bookRepo := newFakeBookRepo(newBook(1, 5, 1000))
		saleRepo := newFakeSaleRepo()
		uc := NewSellBookUseCase(bookRepo, saleRepo, &fakeTxManager{})

		var wg sync.WaitGroup
		errs := make([]error, 2)
		for i := 0; i < 2; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				_, errs[i] = uc.Execute(ctx, SellBookRequest{BookID: 1, Quantity: 3})
			}(i)
		}
		wg.Wait()

		var succeeded, failed int
		for _, err := range errs {
			if err == nil {
				succeeded++
			} else {
				assert.ErrorIs(t, err, book.ErrInsufficientStock)
				failed++
			}
		}
		assert.Equal(t, 1, succeeded, "只能有一个请求成功")
		assert.Equal(t, 1, failed)

		b, _ := bookRepo.FindByID(ctx, 1)
		assert.Equal(t, 2, b.Stock)
		assert.Equal(t, 1, saleRepo.count())
	})
}
