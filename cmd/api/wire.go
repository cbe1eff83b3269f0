//go:build wireinject
// +build wireinject

// Wire依赖注入配置
// 运行 `wire gen ./cmd/api` 生成wire_gen.go，与main.go中的手动组装是同一张依赖图

package main

import (
	"github.com/gin-gonic/gin"
	"github.com/google/wire"
	goredis "github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	appinventory "github.com/xiebiao/cafearoma/internal/application/inventory"
	appstaff "github.com/xiebiao/cafearoma/internal/application/staff"
	"github.com/xiebiao/cafearoma/internal/domain/command"
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
)

// infrastructureSet 配置、日志、MySQL、Redis、消息
var infrastructureSet = wire.NewSet(
	config.Load,
	provideLogger,
	mysql.NewDB,
	redis.NewClient,
	providePublisher,
)

// repositorySet 仓储和存储
var repositorySet = wire.NewSet(
	mysql.NewStaffRepository,
	mysql.NewInventoryRepository,
	mysql.NewTxManager,
	wire.Bind(new(appinventory.Transactor), new(*mysql.TxManager)),
	redis.NewSessionStore,
	provideHistoryStore,
)

// domainSet 领域服务
var domainSet = wire.NewSet(
	staff.NewService,
	provideNotifier,
)

// applicationSet 用例
var applicationSet = wire.NewSet(
	provideCommandInvoker,
	provideCommandUseCase,
	appinventory.NewDashboardUseCase,
	appinventory.NewReportUseCase,
	appstaff.NewRegisterUseCase,
	provideLoginUseCase,
	appstaff.NewRefreshUseCase,
	appstaff.NewLogoutUseCase,
)

// interfaceSet 中间件和Handler
var interfaceSet = wire.NewSet(
	provideJWTManager,
	middleware.NewAuthMiddleware,
	handler.NewStaffHandler,
	handler.NewInventoryHandler,
	provideGinEngine,
)

func provideLogger(cfg *config.Config) (*zap.Logger, error) {
	return logger.New(logger.Options{
		Level:        cfg.Log.Level,
		Format:       cfg.Log.Format,
		Output:       cfg.Log.Output,
		EnableCaller: cfg.Log.EnableCaller,
	})
}

// providePublisher cleanup关闭连接
func providePublisher(cfg *config.Config, log *zap.Logger) (messaging.Publisher, func(), error) {
	publisher, err := messaging.NewPublisher(cfg, log)
	if err != nil {
		return nil, nil, err
	}
	return publisher, func() { _ = publisher.Close() }, nil
}

func provideHistoryStore(cfg *config.Config, client *goredis.Client) command.HistoryStore {
	return redis.NewHistoryStore(client, cfg.Session.TTL, cfg.Session.HistoryMaxEntries)
}

func provideNotifier(publisher messaging.Publisher, log *zap.Logger) *inventory.Notifier {
	return inventory.NewNotifier(appinventory.NewLowStockAlert(publisher, log))
}

func provideCommandInvoker(
	cfg *config.Config,
	repo inventory.Repository,
	history command.HistoryStore,
	tx appinventory.Transactor,
	notifier *inventory.Notifier,
	log *zap.Logger,
) *appinventory.CommandInvoker {
	return appinventory.NewCommandInvoker(repo, history, tx, notifier, cfg.Inventory.CommandTimeout, log)
}

func provideCommandUseCase(cfg *config.Config, invoker *appinventory.CommandInvoker) (*appinventory.CommandUseCase, error) {
	minStock, err := decimal.NewFromString(cfg.Inventory.DefaultMinStockKg)
	if err != nil {
		return nil, err
	}
	return appinventory.NewCommandUseCase(invoker, minStock), nil
}

func provideLoginUseCase(
	cfg *config.Config,
	staffService staff.Service,
	jwtManager *jwt.Manager,
	sessionStore *redis.SessionStore,
	log *zap.Logger,
) *appstaff.LoginUseCase {
	return appstaff.NewLoginUseCase(staffService, jwtManager, sessionStore, cfg.Session.TTL, log)
}

func provideJWTManager(cfg *config.Config) *jwt.Manager {
	return jwt.NewManager(cfg.JWT.Secret, cfg.JWT.AccessTokenExpire, cfg.JWT.RefreshTokenExpire)
}

func provideGinEngine(
	cfg *config.Config,
	log *zap.Logger,
	staffHandler *handler.StaffHandler,
	inventoryHandler *handler.InventoryHandler,
	authMiddleware *middleware.AuthMiddleware,
) *gin.Engine {
	gin.SetMode(cfg.Server.Mode)
	return router.New(cfg, log, staffHandler, inventoryHandler, authMiddleware)
}

// InitializeApp 组装整个应用，cleanup关闭消息连接
func InitializeApp() (*gin.Engine, func(), error) {
	wire.Build(
		infrastructureSet,
		repositorySet,
		domainSet,
		applicationSet,
		interfaceSet,
	)
	return nil, nil, nil
}
