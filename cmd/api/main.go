package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	_ "github.com/xiebiao/cafearoma/docs"
	appinventory "github.com/xiebiao/cafearoma/internal/application/inventory"
	appstaff "github.com/xiebiao/cafearoma/internal/application/staff"
	"github.com/xiebiao/cafearoma/internal/domain/inventory"
	"github.com/xiebiao/cafearoma/internal/domain/staff"
	"github.com/xiebiao/cafearoma/internal/infrastructure/config"
	"github.com/xiebiao/cafearoma/internal/infrastructure/messaging"
	"github.com/xiebiao/cafearoma/internal/infrastructure/persistence/mysql"
	"github.com/xiebiao/cafearoma/internal/infrastructure/persistence/redis"
	"github.com/xiebiao/cafearoma/internal/interface/http/handler"
	"github.com/xiebiao/cafearoma/internal/interface/http/middleware"
	"github.com/xiebiao/cafearoma/internal/interface/http/router"
	"github.com/xiebiao/cafearoma/pkg/jwt"
	"github.com/xiebiao/cafearoma/pkg/logger"
	"github.com/xiebiao/cafearoma/pkg/metrics"
	"github.com/xiebiao/cafearoma/pkg/tracing"
)

// @title           Café Aroma 库存管理 API
// @version         1.0
// @description     咖啡豆库存：入库、出库、新增商品，支持按会话撤销
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in              header
// @name            Authorization
func main() {
	// 1. 加载配置
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}

	// 2. 日志
	zapLogger, err := logger.New(logger.Options{
		Level:        cfg.Log.Level,
		Format:       cfg.Log.Format,
		Output:       cfg.Log.Output,
		EnableCaller: cfg.Log.EnableCaller,
	})
	if err != nil {
		log.Fatalf("初始化日志失败: %v", err)
	}
	defer func() { _ = zapLogger.Sync() }()
	zap.ReplaceGlobals(zapLogger)

	zapLogger.Info("配置加载成功",
		zap.Int("port", cfg.Server.Port),
		zap.String("mode", cfg.Server.Mode),
		zap.String("database", fmt.Sprintf("%s:%d/%s", cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)),
		zap.String("redis", cfg.Redis.Addr()),
		zap.String("messaging", cfg.Messaging.Driver),
	)

	// 3. 链路追踪、指标
	if cfg.Tracing.Enabled {
		shutdown, err := tracing.InitTracer(cfg.Tracing.ServiceName, cfg.Tracing.Endpoint, cfg.Tracing.SampleRatio)
		if err != nil {
			zapLogger.Fatal("初始化链路追踪失败", zap.Error(err))
		}
		defer func() {
			if err := shutdown(context.Background()); err != nil {
				zapLogger.Warn("关闭链路追踪失败", zap.Error(err))
			}
		}()
	}
	if cfg.Metrics.Enabled {
		metrics.InitMetrics()
	}

	// 4. MySQL、Redis、消息
	db, err := mysql.NewDB(cfg, zapLogger)
	if err != nil {
		zapLogger.Fatal("初始化数据库失败", zap.Error(err))
	}
	redisClient, err := redis.NewClient(cfg, zapLogger)
	if err != nil {
		zapLogger.Fatal("初始化Redis失败", zap.Error(err))
	}
	defer func() { _ = redisClient.Close() }()

	publisher, err := messaging.NewPublisher(cfg, zapLogger)
	if err != nil {
		zapLogger.Fatal("初始化消息发布失败", zap.Error(err))
	}
	defer func() { _ = publisher.Close() }()

	defaultMinStock, err := decimal.NewFromString(cfg.Inventory.DefaultMinStockKg)
	if err != nil {
		zapLogger.Fatal("inventory.default_min_stock_kg无效", zap.Error(err))
	}

	// 5. 依赖注入：Repository ← Service ← UseCase ← Handler
	staffRepo := mysql.NewStaffRepository(db)
	inventoryRepo := mysql.NewInventoryRepository(db)
	txManager := mysql.NewTxManager(db)
	sessionStore := redis.NewSessionStore(redisClient)
	historyStore := redis.NewHistoryStore(redisClient, cfg.Session.TTL, cfg.Session.HistoryMaxEntries)
	jwtManager := jwt.NewManager(cfg.JWT.Secret, cfg.JWT.AccessTokenExpire, cfg.JWT.RefreshTokenExpire)

	staffService := staff.NewService(staffRepo)
	notifier := inventory.NewNotifier(appinventory.NewLowStockAlert(publisher, zapLogger))
	invoker := appinventory.NewCommandInvoker(inventoryRepo, historyStore, txManager, notifier, cfg.Inventory.CommandTimeout, zapLogger)

	staffHandler := handler.NewStaffHandler(
		appstaff.NewRegisterUseCase(staffService),
		appstaff.NewLoginUseCase(staffService, jwtManager, sessionStore, cfg.Session.TTL, zapLogger),
		appstaff.NewRefreshUseCase(jwtManager, sessionStore, zapLogger),
		appstaff.NewLogoutUseCase(sessionStore, historyStore, zapLogger),
	)
	inventoryHandler := handler.NewInventoryHandler(
		appinventory.NewCommandUseCase(invoker, defaultMinStock),
		appinventory.NewDashboardUseCase(inventoryRepo, invoker),
		appinventory.NewReportUseCase(inventoryRepo),
	)
	authMiddleware := middleware.NewAuthMiddleware(jwtManager, sessionStore)

	// 6. 路由
	gin.SetMode(cfg.Server.Mode)
	engine := router.New(cfg, zapLogger, staffHandler, inventoryHandler, authMiddleware)

	// 7. 启动服务，收到SIGINT/SIGTERM后优雅关闭
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		zapLogger.Info("服务启动", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLogger.Fatal("启动服务失败", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zapLogger.Info("正在关闭服务...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		zapLogger.Error("服务关闭超时", zap.Error(err))
	}
	zapLogger.Info("服务已停止")
}
