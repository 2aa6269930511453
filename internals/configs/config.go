package configs

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	gormLogger "gorm.io/gorm/logger"
	"gorm.io/gorm/utils"

	"github.com/yourdesigncoza/wecoza-core-sub001/internals/logger"
)

// =======================
// ENV LOADER
// =======================

// LoadEnv reads .env into the process environment when not running on a
// managed platform. Missing .env is not an error.
func LoadEnv() {
	if os.Getenv("RAILWAY_ENVIRONMENT") != "" {
		logger.Logger.Info("running on managed platform, using system env")
		return
	}
	if err := godotenv.Load(); err != nil {
		logger.Logger.Warn(".env not found, using system env")
		return
	}
	logger.Logger.Info(".env loaded")
}

// =======================
// TYPED CONFIG
// =======================

type DBConfig struct {
	Host               string `mapstructure:"host"`
	Port               string `mapstructure:"port"`
	User               string `mapstructure:"user"`
	Password           string `mapstructure:"password"`
	Name               string `mapstructure:"name"`
	SSLMode            string `mapstructure:"sslmode"`
	StatementTimeoutMS int    `mapstructure:"statement_timeout_ms"`
	MaxOpenConns       int    `mapstructure:"max_open_conns"`
	MaxIdleConns       int    `mapstructure:"max_idle_conns"`
}

// DSN builds a postgres URL with statement_timeout applied per session.
func (d DBConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s&application_name=wecoza&options=-c%%20statement_timeout=%d",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode, d.StatementTimeoutMS,
	)
}

type CacheConfig struct {
	Dir string        `mapstructure:"dir"`
	TTL time.Duration `mapstructure:"ttl"`
}

type Config struct {
	Port             string      `mapstructure:"port"`
	JWTSecret        string      `mapstructure:"jwt_secret"`
	LogJSON          bool        `mapstructure:"log_json"`
	CORSAllowOrigins string      `mapstructure:"cors_allow_origins"`
	RateLimitMax     int         `mapstructure:"rate_limit_max"`
	DB               DBConfig    `mapstructure:"db"`
	Cache            CacheConfig `mapstructure:"cache"`
}

// SetDefaults registers every key so AutomaticEnv can resolve it.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("port", "3000")
	v.SetDefault("jwt_secret", "")
	v.SetDefault("log_json", false)
	v.SetDefault("cors_allow_origins", "http://localhost:5173")
	v.SetDefault("rate_limit_max", 100)

	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", "5432")
	v.SetDefault("db.user", "postgres")
	v.SetDefault("db.password", "")
	v.SetDefault("db.name", "wecoza")
	v.SetDefault("db.sslmode", "require")
	v.SetDefault("db.statement_timeout_ms", 3000)
	v.SetDefault("db.max_open_conns", 20)
	v.SetDefault("db.max_idle_conns", 10)

	v.SetDefault("cache.dir", "")
	v.SetDefault("cache.ttl", 5*time.Minute)
}

// Load resolves Config from the environment: DB_HOST -> db.host, CACHE_TTL -> cache.ttl, ...
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	SetDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "unmarshal config")
	}
	if cfg.JWTSecret == "" {
		logger.Logger.Warn("JWT_SECRET is not set")
	}
	return &cfg, nil
}

// =======================
// GORM LOGGER
// =======================

// GormLogger routes gorm statements into zap with a slow-query threshold.
type GormLogger struct {
	SlowThreshold time.Duration
	LogLevel      gormLogger.LogLevel
}

func NewGormLogger() gormLogger.Interface {
	return &GormLogger{
		SlowThreshold: 200 * time.Millisecond,
		LogLevel:      gormLogger.Warn,
	}
}

func (l *GormLogger) LogMode(level gormLogger.LogLevel) gormLogger.Interface {
	nl := *l
	nl.LogLevel = level
	return &nl
}

func (l *GormLogger) Info(ctx context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= gormLogger.Info {
		logger.Logger.Infof(msg, data...)
	}
}

func (l *GormLogger) Warn(ctx context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= gormLogger.Warn {
		logger.Logger.Warnf(msg, data...)
	}
}

func (l *GormLogger) Error(ctx context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= gormLogger.Error {
		logger.Logger.Errorf(msg, data...)
	}
}

func (l *GormLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.LogLevel <= gormLogger.Silent {
		return
	}
	elapsed := time.Since(begin)
	sql, rows := fc()
	file := utils.FileWithLineNum()

	switch {
	case err != nil && l.LogLevel >= gormLogger.Error:
		logger.Logger.Errorw("sql error", "file", file, "error", err, "elapsed", elapsed, "rows", rows, "sql", sql)
	case elapsed > l.SlowThreshold && l.LogLevel >= gormLogger.Warn:
		logger.Logger.Warnw("slow sql", "file", file, "elapsed", elapsed, "rows", rows, "sql", sql)
	case l.LogLevel >= gormLogger.Info:
		logger.Logger.Debugw("sql", "file", file, "elapsed", elapsed, "rows", rows, "sql", sql)
	}
}

// ParamsFilter keeps bound values out of logged SQL.
func (l *GormLogger) ParamsFilter(ctx context.Context, sql string, params ...interface{}) (string, []interface{}) {
	return sql, nil
}
