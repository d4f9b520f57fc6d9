package main

import (
	"context"
	"fmt"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	appauth "github.com/xiebiao/bookpos/internal/application/auth"
	appbook "github.com/xiebiao/bookpos/internal/application/book"
	appsale "github.com/xiebiao/bookpos/internal/application/sale"
	"github.com/xiebiao/bookpos/internal/domain/book"
	"github.com/xiebiao/bookpos/internal/domain/user"
	"github.com/xiebiao/bookpos/internal/infrastructure/config"
	"github.com/xiebiao/bookpos/internal/infrastructure/persistence/mysql"
	"github.com/xiebiao/bookpos/internal/infrastructure/persistence/redis"
	"github.com/xiebiao/bookpos/internal/interface/http/handler"
	"github.com/xiebiao/bookpos/internal/interface/http/middleware"
	"github.com/xiebiao/bookpos/pkg/jwt"
	"github.com/xiebiao/bookpos/pkg/logger"
	"github.com/xiebiao/bookpos/pkg/metrics"
	"github.com/xiebiao/bookpos/pkg/response"
)

// main 主程序入口（手动依赖注入）
func main() {
	// 1. 加载配置
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}

	// 2. 初始化日志
	if err := logger.Init(cfg.Log.Level, cfg.Log.Format, cfg.Log.Output); err != nil {
		log.Fatalf("初始化日志失败: %v", err)
	}
	defer logger.Sync()

	logger.L.Info("配置加载成功",
		zap.Int("port", cfg.Server.Port),
		zap.String("mode", cfg.Server.Mode),
		zap.String("database", fmt.Sprintf("%s:%d/%s", cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)),
		zap.String("redis", cfg.Redis.Addr()),
	)

	// 3. 初始化数据库连接
	db, err := mysql.NewDB(cfg)
	if err != nil {
		logger.L.Fatal("初始化数据库失败", zap.Error(err))
	}

	// 4. 初始化Redis连接
	redisClient, err := redis.NewClient(cfg)
	if err != nil {
		logger.L.Fatal("初始化Redis失败", zap.Error(err))
	}

	// 5. 依赖注入（手动组装）
	// Repository ← Service ← UseCase ← Handler

	// 基础设施层
	userRepo := mysql.NewUserRepository(db)
	bookRepo := mysql.NewBookRepository(db)
	saleRepo := mysql.NewSaleRepository(db)
	txManager := mysql.NewTxManager(db)
	sessionStore := redis.NewSessionStore(redisClient)
	jwtManager := jwt.NewManager(cfg.JWT.Secret, cfg.JWT.SessionExpire)

	// 种子数据（首次启动时创建管理员和示例图书）
	if err := mysql.Bootstrap(context.Background(), cfg, userRepo, bookRepo); err != nil {
		logger.L.Fatal("初始化种子数据失败", zap.Error(err))
	}

	// 领域层
	userService := user.NewService(userRepo)
	bookService := book.NewService(bookRepo)

	// 应用层
	loginUseCase := appauth.NewLoginUseCase(userService, jwtManager, sessionStore)
	logoutUseCase := appauth.NewLogoutUseCase(jwtManager, sessionStore)
	addBookUseCase := appbook.NewAddBookUseCase(bookService)
	editBookUseCase := appbook.NewEditBookUseCase(bookService)
	getBookUseCase := appbook.NewGetBookUseCase(bookService)
	deleteBookUseCase := appbook.NewDeleteBookUseCase(bookRepo, saleRepo, txManager)
	inventoryUseCase := appbook.NewInventoryUseCase(bookService, cfg.Inventory.LowStockThreshold)
	searchUseCase := appbook.NewSearchUseCase(bookService)
	sellBookUseCase := appsale.NewSellBookUseCase(bookRepo, saleRepo, txManager)
	dashboardUseCase := appsale.NewDashboardUseCase(bookService, saleRepo, cfg.Inventory.LowStockThreshold, cfg.Inventory.DashboardLatest)
	transactionsUseCase := appsale.NewTransactionsUseCase(saleRepo)
	reportsUseCase := appsale.NewReportsUseCase(saleRepo)

	// 接口层
	authHandler := handler.NewAuthHandler(loginUseCase, logoutUseCase, jwtManager, sessionStore)
	bookHandler := handler.NewBookHandler(addBookUseCase, editBookUseCase, getBookUseCase, deleteBookUseCase, inventoryUseCase, searchUseCase, sessionStore)
	saleHandler := handler.NewSaleHandler(sellBookUseCase, dashboardUseCase, sessionStore)
	reportHandler := handler.NewReportHandler(transactionsUseCase, reportsUseCase)
	authMiddleware := middleware.NewAuthMiddleware(jwtManager, sessionStore)

	// 6. 初始化Gin引擎
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.Default()
	r.Use(metrics.GinMiddleware())

	// 7. 注册路由
	registerRoutes(r, authHandler, bookHandler, saleHandler, reportHandler, authMiddleware)

	// 8. 启动服务
	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	logger.L.Info("服务启动", zap.String("addr", addr))
	if err := r.Run(addr); err != nil {
		logger.L.Fatal("启动服务失败", zap.Error(err))
	}
}

// registerRoutes 注册路由
// 登录页和登录提交是仅有的公开页面，其余页面都要求登录
func registerRoutes(
	r *gin.Engine,
	authHandler *handler.AuthHandler,
	bookHandler *handler.BookHandler,
	saleHandler *handler.SaleHandler,
	reportHandler *handler.ReportHandler,
	authMiddleware *middleware.AuthMiddleware,
) {
	// 健康检查
	r.GET("/ping", func(c *gin.Context) {
		response.Success(c, gin.H{
			"message": "pong",
			"status":  "healthy",
		})
	})

	// 监控指标
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Swagger文档
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// 公开页面
	r.GET("/login", authHandler.ShowLogin)
	r.POST("/login", authHandler.Login)

	// 登录后页面
	authorized := r.Group("")
	authorized.Use(authMiddleware.RequireLogin())
	{
		authorized.GET("/", saleHandler.Dashboard)
		authorized.GET("/logout", authHandler.Logout)

		authorized.GET("/inventory", bookHandler.Inventory)
		authorized.GET("/search", bookHandler.Search)
		authorized.GET("/add_book", bookHandler.ShowAddBook)
		authorized.POST("/add_book", bookHandler.AddBook)
		authorized.GET("/edit_book/:id", bookHandler.ShowEditBook)
		authorized.POST("/edit_book/:id", bookHandler.EditBook)
		authorized.POST("/delete_book/:id", bookHandler.DeleteBook)

		authorized.POST("/sell_book/:id", saleHandler.SellBook)
		authorized.GET("/transactions", reportHandler.Transactions)
		authorized.GET("/reports", reportHandler.Reports)
	}
}
