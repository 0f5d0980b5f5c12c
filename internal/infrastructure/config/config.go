package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config 全局配置结构
// 设计说明：使用Viper管理配置，支持YAML文件、环境变量覆盖；文件缺失时使用默认值
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Lock     LockConfig     `mapstructure:"lock"`
	Log      LogConfig      `mapstructure:"log"`
	Tracing  TracingConfig  `mapstructure:"tracing"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
}

type ServerConfig struct {
	Port         int           `mapstructure:"port"`
	Mode         string        `mapstructure:"mode"` // debug | release | test
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// 支持的数据库驱动
const (
	DriverMySQL  = "mysql"
	DriverSQLite = "sqlite"
)

type DatabaseConfig struct {
	Driver          string        `mapstructure:"driver"` // mysql | sqlite
	Path            string        `mapstructure:"path"`   // sqlite数据库文件路径
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
}

// DSN 生成连接字符串
// mysql格式：user:password@tcp(host:port)/dbname?charset=utf8mb4&parseTime=True&loc=Local
// sqlite格式：file:library.db?_busy_timeout=5000&_foreign_keys=1
func (d DatabaseConfig) DSN() string {
	if d.Driver == DriverSQLite {
		return fmt.Sprintf("file:%s?_busy_timeout=5000&_foreign_keys=1", d.Path)
	}
	// loc参数需要URL编码（Asia/Shanghai → Asia%2FShanghai）
	loc := url.QueryEscape(d.Loc)
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.Charset, d.ParseTime, loc)
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

// Addr 返回Redis地址
func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// 支持的锁后端
const (
	LockBackendMemory = "memory"
	LockBackendRedis  = "redis"
)

// LockConfig 单条记录串行化锁配置
type LockConfig struct {
	Backend       string        `mapstructure:"backend"`        // memory | redis
	TTL           time.Duration `mapstructure:"ttl"`            // Redis锁自动过期时间（防止进程崩溃后死锁）
	WaitTimeout   time.Duration `mapstructure:"wait_timeout"`   // 等待锁的最长时间
	RetryInterval time.Duration `mapstructure:"retry_interval"` // Redis锁重试间隔

	// Redis不可用时的熔断：连续失败BreakerFailures次后，BreakerTimeout内加锁直接失败
	BreakerFailures uint32        `mapstructure:"breaker_failures"`
	BreakerTimeout  time.Duration `mapstructure:"breaker_timeout"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`  // debug | info | warn | error
	Format string `mapstructure:"format"` // console | json
}

type TracingConfig struct {
	Enabled     bool   `mapstructure:"enabled"`
	ServiceName string `mapstructure:"service_name"`
	Endpoint    string `mapstructure:"endpoint"` // OTLP gRPC端点，如 localhost:4317
}

type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled"`
	// SyncInterval books_borrowed用数据库校准的周期，0表示只在启动时校准
	SyncInterval time.Duration `mapstructure:"sync_interval"`
}

// Load 加载配置文件
// 支持：
// 1. 环境变量LIBRARY_CONFIG指定配置文件路径
// 2. 默认依次查找 ./config/config.yaml、./config.yaml
// 3. 环境变量覆盖（如LIBRARY_DATABASE_DRIVER → database.driver）
func Load() (*Config, error) {
	return LoadFrom(os.Getenv("LIBRARY_CONFIG"))
}

// LoadFrom 从指定路径加载配置，path为空时按默认路径查找
func LoadFrom(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		// 未找到默认配置文件时使用默认值；显式指定的文件必须存在
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("读取配置文件失败: %w", err)
		}
	}

	// 环境变量绑定（database.driver → LIBRARY_DATABASE_DRIVER）
	v.SetEnvPrefix("LIBRARY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("解析配置失败: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// setDefaults 默认配置：单机sqlite + 进程内锁，与旧版服务的部署方式一致
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "debug")
	v.SetDefault("server.read_timeout", 10*time.Second)
	v.SetDefault("server.write_timeout", 10*time.Second)

	v.SetDefault("database.driver", DriverSQLite)
	v.SetDefault("database.path", "./library.db")
	v.SetDefault("database.host", "127.0.0.1")
	v.SetDefault("database.port", 3306)
	v.SetDefault("database.user", "root")
	v.SetDefault("database.password", "")
	v.SetDefault("database.dbname", "library")
	v.SetDefault("database.charset", "utf8mb4")
	v.SetDefault("database.parse_time", true)
	v.SetDefault("database.loc", "Local")
	v.SetDefault("database.max_open_conns", 20)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", time.Hour)

	v.SetDefault("redis.host", "")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.min_idle_conns", 0)
	v.SetDefault("redis.pool_size", 10)
	v.SetDefault("redis.dial_timeout", 5*time.Second)
	v.SetDefault("redis.read_timeout", 3*time.Second)
	v.SetDefault("redis.write_timeout", 3*time.Second)

	v.SetDefault("lock.backend", LockBackendMemory)
	v.SetDefault("lock.ttl", 10*time.Second)
	v.SetDefault("lock.wait_timeout", 5*time.Second)
	v.SetDefault("lock.retry_interval", 50*time.Millisecond)
	v.SetDefault("lock.breaker_failures", 5)
	v.SetDefault("lock.breaker_timeout", 30*time.Second)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")

	v.SetDefault("tracing.enabled", false)
	v.SetDefault("tracing.service_name", "library-service")
	v.SetDefault("tracing.endpoint", "localhost:4317")

	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.sync_interval", 30*time.Second)
}

// validate 配置校验
func validate(cfg *Config) error {
	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		return fmt.Errorf("无效的服务端口: %d", cfg.Server.Port)
	}

	switch cfg.Database.Driver {
	case DriverMySQL:
		if cfg.Database.Host == "" || cfg.Database.DBName == "" {
			return fmt.Errorf("mysql驱动需要配置host和dbname")
		}
	case DriverSQLite:
		if cfg.Database.Path == "" {
			return fmt.Errorf("sqlite驱动需要配置path")
		}
	default:
		return fmt.Errorf("不支持的数据库驱动: %s", cfg.Database.Driver)
	}

	switch cfg.Lock.Backend {
	case LockBackendMemory:
	case LockBackendRedis:
		if cfg.Redis.Host == "" {
			return fmt.Errorf("redis锁需要配置redis.host")
		}
		if cfg.Lock.TTL <= 0 {
			return fmt.Errorf("redis锁的ttl必须大于0")
		}
	default:
		return fmt.Errorf("不支持的锁类型: %s", cfg.Lock.Backend)
	}

	return nil
}
