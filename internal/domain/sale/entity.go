package sale

import (
	"time"
)

// Sale 销售记录实体
// 设计说明:
// 1. 不可变的财务记录:创建后不提供任何修改方法,仓储也没有Update
// 2. TotalPrice是"成交时刻"的单价×数量快照,图书后续改价不回溯
// 3. 只保存BookID,不直接引用Book对象(避免跨聚合引用)
// 4. 生命周期:只能由售书操作创建,只能随所属图书被级联删除
type Sale struct {
	ID         uint
	BookID     uint      // 所属图书ID(必填)
	Quantity   int       // 售出数量(>0)
	TotalPrice int64     // 成交总价(分),成交时冻结
	SaleDate   time.Time // 成交时间
}

// NewSale 创建销售记录(工厂方法)
// unitPrice为成交时刻的图书单价(分)
func NewSale(bookID uint, quantity int, unitPrice int64) (*Sale, error) {
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}
	return &Sale{
		BookID:     bookID,
		Quantity:   quantity,
		TotalPrice: unitPrice * int64(quantity),
		SaleDate:   time.Now(),
	}, nil
}

// Record 交易流水项(销售记录+所属图书信息)
// 用于交易日志展示,由仓储联表查询填充
type Record struct {
	Sale
	BookTitle string // 图书书名
	BookISBN  string // 图书ISBN
}

// TopSeller 畅销榜条目
// TotalSold为该图书历史累计售出数量
type TopSeller struct {
	BookID    uint
	Title     string
	ISBN      string
	TotalSold int64
}
