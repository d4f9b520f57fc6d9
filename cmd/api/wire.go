//go:build wireinject
// +build wireinject

// Wire依赖注入配置
//
// 使用方式：
// 1. 运行 `wire gen ./cmd/api` 生成wire_gen.go
// 2. main.go改为调用InitializeApp()
// 当前main.go仍使用手动注入，本文件作为Wire迁移的起点

package main

import (
	"github.com/gin-gonic/gin"
	"github.com/google/wire"
	goredis "github.com/redis/go-redis/v9"

	appauth "github.com/xiebiao/bookpos/internal/application/auth"
	appbook "github.com/xiebiao/bookpos/internal/application/book"
	appsale "github.com/xiebiao/bookpos/internal/application/sale"
	"github.com/xiebiao/bookpos/internal/domain/book"
	"github.com/xiebiao/bookpos/internal/domain/sale"
	"github.com/xiebiao/bookpos/internal/domain/user"
	"github.com/xiebiao/bookpos/internal/infrastructure/config"
	"github.com/xiebiao/bookpos/internal/infrastructure/persistence/mysql"
	"github.com/xiebiao/bookpos/internal/infrastructure/persistence/redis"
	"github.com/xiebiao/bookpos/internal/interface/http/handler"
	"github.com/xiebiao/bookpos/internal/interface/http/middleware"
	"github.com/xiebiao/bookpos/pkg/jwt"
	"github.com/xiebiao/bookpos/pkg/metrics"
)

// infrastructureSet 基础设施层依赖
var infrastructureSet = wire.NewSet(
	config.Load,
	mysql.NewDB,
	redis.NewClient,
)

// repositorySet 仓储层依赖
var repositorySet = wire.NewSet(
	mysql.NewUserRepository,
	mysql.NewBookRepository,
	mysql.NewSaleRepository,
	mysql.NewTxManager,
	wire.Bind(new(appbook.TxManager), new(*mysql.TxManager)),
	wire.Bind(new(appsale.TxManager), new(*mysql.TxManager)),
)

// domainSet 领域层依赖
var domainSet = wire.NewSet(
	user.NewService,
	book.NewService,
)

// applicationSet 应用层依赖
var applicationSet = wire.NewSet(
	appauth.NewLoginUseCase,
	appauth.NewLogoutUseCase,
	appbook.NewAddBookUseCase,
	appbook.NewEditBookUseCase,
	appbook.NewGetBookUseCase,
	appbook.NewDeleteBookUseCase,
	provideInventoryUseCase,
	appbook.NewSearchUseCase,
	appsale.NewSellBookUseCase,
	provideDashboardUseCase,
	appsale.NewTransactionsUseCase,
	appsale.NewReportsUseCase,
)

// middlewareSet 中间件依赖
var middlewareSet = wire.NewSet(
	provideJWTManager,
	provideSessionStore,
	middleware.NewAuthMiddleware,
)

// handlerSet HTTP处理器依赖
var handlerSet = wire.NewSet(
	handler.NewAuthHandler,
	handler.NewBookHandler,
	handler.NewSaleHandler,
	handler.NewReportHandler,
)

// provideJWTManager 从配置创建JWT管理器
func provideJWTManager(cfg *config.Config) *jwt.Manager {
	return jwt.NewManager(cfg.JWT.Secret, cfg.JWT.SessionExpire)
}

// provideSessionStore 从Redis客户端创建会话存储
func provideSessionStore(client *goredis.Client) *redis.SessionStore {
	return redis.NewSessionStore(client)
}

// provideInventoryUseCase 库存清单用例（阈值来自配置）
func provideInventoryUseCase(bookService book.Service, cfg *config.Config) *appbook.InventoryUseCase {
	return appbook.NewInventoryUseCase(bookService, cfg.Inventory.LowStockThreshold)
}

// provideDashboardUseCase 看板用例（阈值和条数来自配置）
func provideDashboardUseCase(bookService book.Service, saleRepo sale.Repository, cfg *config.Config) *appsale.DashboardUseCase {
	return appsale.NewDashboardUseCase(bookService, saleRepo, cfg.Inventory.LowStockThreshold, cfg.Inventory.DashboardLatest)
}

// provideGinEngine 创建并配置Gin引擎
func provideGinEngine(
	cfg *config.Config,
	authHandler *handler.AuthHandler,
	bookHandler *handler.BookHandler,
	saleHandler *handler.SaleHandler,
	reportHandler *handler.ReportHandler,
	authMiddleware *middleware.AuthMiddleware,
) *gin.Engine {
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()
	r.Use(metrics.GinMiddleware())
	registerRoutes(r, authHandler, bookHandler, saleHandler, reportHandler, authMiddleware)
	return r
}

// InitializeApp Wire注入器入口
func InitializeApp() (*gin.Engine, error) {
	wire.Build(
		infrastructureSet,
		repositorySet,
		domainSet,
		applicationSet,
		middlewareSet,
		handlerSet,
		provideGinEngine,
	)
	return nil, nil
}
