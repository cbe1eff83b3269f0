package mysql

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/xiebiao/cafearoma/internal/infrastructure/config"
)

// NewDB 创建数据库连接
// debug模式下SQL日志写入zap，其它模式只记录慢查询
func NewDB(cfg *config.Config, log *zap.Logger) (*gorm.DB, error) {
	logLevel := logger.Warn
	if cfg.Server.Mode == "debug" {
		logLevel = logger.Info
	}
	gormLogger := logger.New(zap.NewStdLog(log.Named("gorm")), logger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  logLevel,
		IgnoreRecordNotFoundError: true,
	})

	db, err := gorm.Open(mysql.Open(cfg.Database.DSN()), &gorm.Config{
		Logger:         gormLogger,
		TranslateError: true,
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
	log.Info("数据库连接成功", zap.String("host", cfg.Database.Host), zap.String("dbname", cfg.Database.DBName))

	// 生产环境用迁移脚本，这里只在开发环境打开
	if cfg.Database.AutoMigrate {
		if err := AutoMigrate(db); err != nil {
			return nil, fmt.Errorf("数据库迁移失败: %w", err)
		}
	}

	return db, nil
}

// AutoMigrate 创建或补齐表结构，只加不减
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&StaffModel{},
		&InventoryItemModel{},
		&PurchaseOrderModel{},
	)
}

// StaffModel 店员表
type StaffModel struct {
	ID        uint           `gorm:"primaryKey"`
	Email     string         `gorm:"uniqueIndex;size:100;not null;comment:邮箱"`
	Password  string         `gorm:"size:255;not null;comment:密码（bcrypt加密）"`
	Name      string         `gorm:"size:50;not null;comment:姓名"`
	CreatedAt time.Time      `gorm:"comment:创建时间"`
	UpdatedAt time.Time      `gorm:"comment:更新时间"`
	DeletedAt gorm.DeletedAt `gorm:"index;comment:删除时间（软删除）"`
}

func (StaffModel) TableName() string {
	return "staff"
}

// InventoryItemModel 库存商品表
// 数量使用decimal(12,3)精确到克；商品是硬删除，撤销新增商品后SKU可以再次使用
type InventoryItemModel struct {
	ID         uint            `gorm:"primaryKey"`
	SKU        string          `gorm:"column:sku;uniqueIndex;size:50;not null;comment:SKU"`
	Name       string          `gorm:"size:100;not null;comment:名称"`
	GrainType  string          `gorm:"size:2;not null;index;comment:咖啡豆类型(AR/RO/BL)"`
	StockKg    decimal.Decimal `gorm:"type:decimal(12,3);not null;default:0;comment:库存(kg)"`
	MinStockKg decimal.Decimal `gorm:"type:decimal(12,3);not null;default:10;comment:最低库存(kg)"`
	CreatedAt  time.Time       `gorm:"comment:创建时间"`
	UpdatedAt  time.Time       `gorm:"comment:更新时间"`
}

func (InventoryItemModel) TableName() string {
	return "inventory_items"
}

// PurchaseOrderModel 采购单表
// sku不设外键，撤销新增商品时硬删除商品不受采购单约束
type PurchaseOrderModel struct {
	ID        uint            `gorm:"primaryKey"`
	SKU       string          `gorm:"column:sku;size:50;not null;index:idx_sku_status;comment:SKU"`
	Supplier  string          `gorm:"size:200;not null;comment:供应商"`
	QtyKg     decimal.Decimal `gorm:"type:decimal(12,3);not null;comment:采购数量(kg)"`
	Status    string          `gorm:"size:10;not null;default:PENDING;index:idx_sku_status;comment:状态(PENDING/ORDERED/RECEIVED/CANCELLED)"`
	CreatedAt time.Time       `gorm:"comment:创建时间"`
	UpdatedAt time.Time       `gorm:"comment:更新时间"`
}

func (PurchaseOrderModel) TableName() string {
	return "purchase_orders"
}
