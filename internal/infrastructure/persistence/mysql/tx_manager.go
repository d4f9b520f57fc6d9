package mysql

import (
	"context"

	"gorm.io/gorm"
)

// txKey 事务在context中的键
type txKey struct{}

// TxManager 事务管理器
// 设计说明：
// 1. 通过context传递事务对象，Repository对调用方是否在事务中无感知
// 2. fn返回error时自动回滚，返回nil时自动提交
// 3. 应用层（use case）定义自己的TxManager接口，由本实现满足
type TxManager struct {
	db *gorm.DB
}

// NewTxManager 创建事务管理器
func NewTxManager(db *gorm.DB) *TxManager {
	return &TxManager{db: db}
}

// Transaction 在事务中执行fn
func (m *TxManager) Transaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txCtx := context.WithValue(ctx, txKey{}, tx)
		return fn(txCtx)
	})
}

// getDB 从context中取出事务对象，不在事务中时返回默认连接
// 所有Repository的数据库访问都经过这里，保证事务内外行为一致
func getDB(ctx context.Context, db *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return tx
	}
	return db.WithContext(ctx)
}
