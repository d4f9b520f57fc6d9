package sale

import (
	"context"
	"time"
)

// Repository 销售记录仓储接口(依赖倒置原则)
// 销售记录不可变,因此没有Update;删除只有按图书级联一种形态
type Repository interface {
	// Create 写入一条销售记录
	// 必须与库存扣减处于同一事务(通过context传递事务)
	Create(ctx context.Context, sale *Sale) error

	// DeleteByBookID 删除某图书的全部销售记录(级联删除第一步)
	// 必须与图书删除处于同一事务
	DeleteByBookID(ctx context.Context, bookID uint) error

	// ListAll 全部交易流水,最新在前,附带图书信息
	ListAll(ctx context.Context) ([]*Record, error)

	// ListByBookID 某图书的销售记录(测试与对账用)
	ListByBookID(ctx context.Context, bookID uint) ([]*Sale, error)

	// SumTotal 全部销售记录的总价合计(无记录时为0)
	SumTotal(ctx context.Context) (int64, error)

	// SumTotalBetween 成交时间落在[from, to)区间内的总价合计
	SumTotalBetween(ctx context.Context, from, to time.Time) (int64, error)

	// TopSellers 按累计售出数量降序的前limit名图书
	// 并列名次按图书ID升序,属稳定但未定义的业务顺序
	TopSellers(ctx context.Context, limit int) ([]*TopSeller, error)
}
