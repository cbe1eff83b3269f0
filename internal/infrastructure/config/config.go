package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config 全局配置
// YAML文件 + 环境变量覆盖（CAFEAROMA_DATABASE_PASSWORD → database.password）
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Redis     RedisConfig     `mapstructure:"redis"`
	JWT       JWTConfig       `mapstructure:"jwt"`
	Log       LogConfig       `mapstructure:"log"`
	Session   SessionConfig   `mapstructure:"session"`
	Inventory InventoryConfig `mapstructure:"inventory"`
	Messaging MessagingConfig `mapstructure:"messaging"`
	Tracing   TracingConfig   `mapstructure:"tracing"`
	Metrics   MetricsConfig   `mapstructure:"metrics"`
}

type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	Mode            string        `mapstructure:"mode"` // debug | release | test
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"dbname"`
	Charset         string        `mapstructure:"charset"`
	ParseTime       bool          `mapstructure:"parse_time"`
	Loc             string        `mapstructure:"loc"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	AutoMigrate     bool          `mapstructure:"auto_migrate"`
}

// DSN MySQL连接字符串，loc需要URL编码（America/Bogota → America%2FBogota）
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.Charset, d.ParseTime, url.QueryEscape(d.Loc))
}

type RedisConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	Password     string        `mapstructure:"password"`
	DB           int           `mapstructure:"db"`
	PoolSize     int           `mapstructure:"pool_size"`
	MinIdleConns int           `mapstructure:"min_idle_conns"`
	DialTimeout  time.Duration `mapstructure:"dial_timeout"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// Addr Redis地址
func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

type JWTConfig struct {
	Secret             string        `mapstructure:"secret"`
	AccessTokenExpire  time.Duration `mapstructure:"access_token_expire"`
	RefreshTokenExpire time.Duration `mapstructure:"refresh_token_expire"`
}

type LogConfig struct {
	Level        string `mapstructure:"level"`  // debug | info | warn | error
	Format       string `mapstructure:"format"` // console | json
	Output       string `mapstructure:"output"` // stdout | stderr | /path/to/file
	EnableCaller bool   `mapstructure:"enable_caller"`
}

// SessionConfig 店员会话，命令历史与会话同寿命
type SessionConfig struct {
	TTL               time.Duration `mapstructure:"ttl"`
	HistoryMaxEntries int           `mapstructure:"history_max_entries"` // 超出后丢弃最早的记录，0表示不限
}

// InventoryConfig 库存命令
type InventoryConfig struct {
	CommandTimeout    time.Duration `mapstructure:"command_timeout"`      // 单条命令（事务+历史）的超时
	DefaultMinStockKg string        `mapstructure:"default_min_stock_kg"` // 新品未指定最低库存时使用
	RestockSupplier   string        `mapstructure:"restock_supplier"`     // 自动采购单的默认供应商
}

// MessagingConfig 低库存事件投递
type MessagingConfig struct {
	Driver   string         `mapstructure:"driver"` // rabbitmq | kafka | log
	RabbitMQ RabbitMQConfig `mapstructure:"rabbitmq"`
	Kafka    KafkaConfig    `mapstructure:"kafka"`
	Breaker  BreakerConfig  `mapstructure:"breaker"`
}

type RabbitMQConfig struct {
	URL          string `mapstructure:"url"`
	Exchange     string `mapstructure:"exchange"`
	ExchangeType string `mapstructure:"exchange_type"`
	Queue        string `mapstructure:"queue"` // restock-notifier消费的队列
}

type KafkaConfig struct {
	Brokers      []string      `mapstructure:"brokers"`
	Topic        string        `mapstructure:"topic"`
	GroupID      string        `mapstructure:"group_id"` // restock-notifier的消费者组
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// BreakerConfig 事件发布熔断器
type BreakerConfig struct {
	MaxRequests         uint32        `mapstructure:"max_requests"`
	Interval            time.Duration `mapstructure:"interval"`
	Timeout             time.Duration `mapstructure:"timeout"`
	ConsecutiveFailures uint32        `mapstructure:"consecutive_failures"`
}

type TracingConfig struct {
	Enabled     bool    `mapstructure:"enabled"`
	ServiceName string  `mapstructure:"service_name"`
	Endpoint    string  `mapstructure:"endpoint"`
	SampleRatio float64 `mapstructure:"sample_ratio"`
}

type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// Load 加载配置
// 1. 默认读取 ./config/config.yaml
// 2. CAFEAROMA_ENV=prod 时读取 config.prod.yaml
// 3. 环境变量覆盖
func Load() (*Config, error) {
	name := "config"
	if env := os.Getenv("CAFEAROMA_ENV"); env != "" {
		name = "config." + env
	}

	v := newViper()
	v.SetConfigName(name)
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")
	v.AddConfigPath(".")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("读取配置文件失败: %w", err)
	}
	return decode(v)
}

// LoadFile 从指定文件加载配置（测试和命令行参数使用）
func LoadFile(path string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("读取配置文件失败: %w", err)
	}
	return decode(v)
}

func newViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix("CAFEAROMA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "debug")
	v.SetDefault("server.read_timeout", 10*time.Second)
	v.SetDefault("server.write_timeout", 10*time.Second)
	v.SetDefault("server.shutdown_timeout", 5*time.Second)

	v.SetDefault("database.charset", "utf8mb4")
	v.SetDefault("database.parse_time", true)
	v.SetDefault("database.loc", "Local")
	v.SetDefault("database.max_open_conns", 50)
	v.SetDefault("database.max_idle_conns", 10)
	v.SetDefault("database.conn_max_lifetime", time.Hour)

	v.SetDefault("redis.pool_size", 20)
	v.SetDefault("redis.dial_timeout", 5*time.Second)
	v.SetDefault("redis.read_timeout", 3*time.Second)
	v.SetDefault("redis.write_timeout", 3*time.Second)

	v.SetDefault("jwt.access_token_expire", 2*time.Hour)
	v.SetDefault("jwt.refresh_token_expire", 7*24*time.Hour)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("log.output", "stdout")

	v.SetDefault("session.ttl", 8*time.Hour)
	v.SetDefault("session.history_max_entries", 100)

	v.SetDefault("inventory.command_timeout", 5*time.Second)
	v.SetDefault("inventory.default_min_stock_kg", "10")
	v.SetDefault("inventory.restock_supplier", "Proveedor Base")

	v.SetDefault("messaging.driver", "log")
	v.SetDefault("messaging.rabbitmq.exchange", "cafearoma.events")
	v.SetDefault("messaging.rabbitmq.exchange_type", "topic")
	v.SetDefault("messaging.rabbitmq.queue", "cafearoma.restock")
	v.SetDefault("messaging.kafka.topic", "cafearoma.inventory")
	v.SetDefault("messaging.kafka.group_id", "restock-notifier")
	v.SetDefault("messaging.kafka.write_timeout", 5*time.Second)
	v.SetDefault("messaging.breaker.max_requests", 1)
	v.SetDefault("messaging.breaker.interval", 60*time.Second)
	v.SetDefault("messaging.breaker.timeout", 30*time.Second)
	v.SetDefault("messaging.breaker.consecutive_failures", 5)

	v.SetDefault("tracing.service_name", "cafearoma-api")
	v.SetDefault("tracing.endpoint", "localhost:4317")
	v.SetDefault("tracing.sample_ratio", 1.0)

	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.path", "/metrics")
}

func decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("解析配置失败: %w", err)
	}
	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// validate 配置校验
func validate(cfg *Config) error {
	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		return fmt.Errorf("无效的服务端口: %d", cfg.Server.Port)
	}

	if cfg.JWT.Secret == "" {
		return fmt.Errorf("jwt.secret不能为空")
	}
	if cfg.JWT.Secret == "change-me-in-production" && cfg.Server.Mode == "release" {
		return fmt.Errorf("生产环境必须修改JWT密钥")
	}

	if cfg.Session.TTL <= 0 {
		return fmt.Errorf("无效的会话有效期: %s", cfg.Session.TTL)
	}
	if cfg.Session.HistoryMaxEntries < 0 {
		return fmt.Errorf("无效的历史记录上限: %d", cfg.Session.HistoryMaxEntries)
	}

	switch cfg.Messaging.Driver {
	case "log":
	case "rabbitmq":
		if cfg.Messaging.RabbitMQ.URL == "" {
			return fmt.Errorf("messaging.driver=rabbitmq时必须配置messaging.rabbitmq.url")
		}
	case "kafka":
		if len(cfg.Messaging.Kafka.Brokers) == 0 {
			return fmt.Errorf("messaging.driver=kafka时必须配置messaging.kafka.brokers")
		}
	default:
		return fmt.Errorf("不支持的消息驱动: %s", cfg.Messaging.Driver)
	}

	return nil
}
