package mysql

import (
	"fmt"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/xiebiao/bookpos/internal/infrastructure/config"
	"github.com/xiebiao/bookpos/pkg/logger"
)

// NewDB 创建数据库连接
// 设计说明：
// 1. 使用GORM v2作为ORM框架
// 2. 配置连接池参数（MaxOpenConns、MaxIdleConns、ConnMaxLifetime）
// 3. 开发环境开启SQL日志，生产环境关闭
// 4. 自动迁移表结构（AutoMigrate）
func NewDB(cfg *config.Config) (*gorm.DB, error) {
	dsn := cfg.Database.DSN()

	logLevel := gormlogger.Silent
	if cfg.Server.Mode == "debug" {
		logLevel = gormlogger.Info // 开发环境打印SQL
	}

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("连接数据库失败: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("获取SQL DB失败: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("数据库连接测试失败: %w", err)
	}

	logger.L.Info("数据库连接成功")

	if err := autoMigrate(db); err != nil {
		return nil, fmt.Errorf("数据库迁移失败: %w", err)
	}

	return db, nil
}

// autoMigrate 自动迁移表结构
// AutoMigrate只会创建表、添加字段，不会删除或修改现有字段；
// 生产环境应使用版本化的迁移脚本
func autoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&UserModel{},
		&BookModel{},
		&SaleModel{},
	)
}

// UserModel GORM账号模型
// 设计说明：
// 1. 这是infrastructure层的数据模型，包含GORM tag
// 2. domain/user/entity.go是领域实体，不依赖GORM
// 3. Repository负责两者之间的转换
type UserModel struct {
	ID        uint           `gorm:"primaryKey"`
	Username  string         `gorm:"uniqueIndex;size:80;not null;comment:用户名"`
	Password  string         `gorm:"size:255;not null;comment:密码（bcrypt哈希）"`
	CreatedAt time.Time      `gorm:"comment:创建时间"`
	UpdatedAt time.Time      `gorm:"comment:更新时间"`
	DeletedAt gorm.DeletedAt `gorm:"index;comment:删除时间（软删除）"`
}

// TableName 指定表名
func (UserModel) TableName() string {
	return "users"
}

// BookModel GORM图书模型
// 设计说明:
// 1. 价格使用int64存储"分"为单位(避免浮点数精度问题)
// 2. ISBN为字符串并带唯一索引(保留前导零与连字符,绝不按数字处理)
// 3. 标题/作者带搜索索引
// 4. 删除为物理删除:软删除会让唯一索引永久占用ISBN,
//    导致同号图书无法重新上架
type BookModel struct {
	ID        uint      `gorm:"primaryKey"`
	ISBN      string    `gorm:"uniqueIndex;size:20;not null;comment:ISBN号"`
	Title     string    `gorm:"index:idx_search;size:200;not null;comment:书名"`
	Author    string    `gorm:"index:idx_search;size:200;not null;comment:作者"`
	Price     int64     `gorm:"not null;comment:单价(分)"`
	Stock     int       `gorm:"default:0;comment:库存数量"`
	Category  string    `gorm:"size:100;comment:分类"`
	CoverURL  string    `gorm:"size:500;comment:封面图片路径"`
	CreatedAt time.Time `gorm:"index;comment:创建时间"`
	UpdatedAt time.Time `gorm:"comment:更新时间"`
}

// TableName 指定表名
func (BookModel) TableName() string {
	return "books"
}

// SaleModel GORM销售记录模型
// 设计说明:
// 1. 不可变财务记录:没有UpdatedAt,也不做软删除
//    (删除只发生在图书级联删除时,且为物理删除)
// 2. TotalPrice为成交时刻的快照,图书改价不回溯
type SaleModel struct {
	ID         uint      `gorm:"primaryKey"`
	BookID     uint      `gorm:"index;not null;comment:图书ID"`
	Quantity   int       `gorm:"not null;comment:售出数量"`
	TotalPrice int64     `gorm:"not null;comment:成交总价(分)"`
	SaleDate   time.Time `gorm:"index;comment:成交时间"`
}

// TableName 指定表名
func (SaleModel) TableName() string {
	return "sales"
}
