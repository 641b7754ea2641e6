package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const EnvPrefix = ""

const (
	AppEnvDev  = "development"
	AppEnvProd = "production"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	FeatureFlags FeatureFlagsConfig
	Telegram     TelegramConfig
	Broadcast    BroadcastConfig
	Cron         CronConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"MAHALLA_APP_ENV" required:"true"`
	Port         string `envconfig:"MAHALLA_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"MAHALLA_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"MAHALLA_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"MAHALLA_DB_DSN"`
	Driver string `envconfig:"MAHALLA_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"MAHALLA_DB_HOST"`
	LegacyPort     int    `envconfig:"MAHALLA_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"MAHALLA_DB_USER"`
	LegacyPassword string `envconfig:"MAHALLA_DB_PASSWORD"`
	LegacyName     string `envconfig:"MAHALLA_DB_NAME"`
	LegacySSLMode  string `envconfig:"MAHALLA_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"MAHALLA_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"MAHALLA_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"MAHALLA_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"MAHALLA_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

func (d *DBConfig) ensureDSN() error {
	if d.DSN != "" {
		return nil
	}
	if d.LegacyHost == "" || d.LegacyUser == "" || d.LegacyName == "" {
		return fmt.Errorf("database DSN or host/user/name settings are required")
	}
	userInfo := url.UserPassword(d.LegacyUser, d.LegacyPassword)
	d.DSN = fmt.Sprintf(
		"postgres://%s@%s:%d/%s?sslmode=%s",
		userInfo.String(), d.LegacyHost, d.LegacyPort, d.LegacyName, d.LegacySSLMode,
	)
	return nil
}

type RedisConfig struct {
	URL          string        `envconfig:"MAHALLA_REDIS_URL"`
	Address      string        `envconfig:"MAHALLA_REDIS_ADDR"`
	Password     string        `envconfig:"MAHALLA_REDIS_PASSWORD"`
	DB           int           `envconfig:"MAHALLA_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"MAHALLA_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"MAHALLA_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"MAHALLA_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"MAHALLA_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"MAHALLA_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"MAHALLA_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"MAHALLA_JWT_ISSUER" default:"mahalla-backend"`
	ExpirationMinutes int    `envconfig:"MAHALLA_JWT_EXPIRATION_MINUTES" default:"720"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"MAHALLA_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"MAHALLA_AUTO_MIGRATE" default:"false"`
}

type TelegramConfig struct {
	BotToken         string        `envconfig:"MAHALLA_TELEGRAM_BOT_TOKEN"`
	APIBaseURL       string        `envconfig:"MAHALLA_TELEGRAM_API_BASE_URL" default:"https://api.telegram.org"`
	RequestTimeout   time.Duration `envconfig:"MAHALLA_TELEGRAM_REQUEST_TIMEOUT" default:"10s"`
	ModerationChatID int64         `envconfig:"MAHALLA_TELEGRAM_MODERATION_CHAT_ID"`
}

type BroadcastConfig struct {
	QueueSize    int           `envconfig:"MAHALLA_BROADCAST_QUEUE_SIZE" default:"64"`
	SendDelay    time.Duration `envconfig:"MAHALLA_BROADCAST_SEND_DELAY" default:"80ms"`
	RunLockTTL   time.Duration `envconfig:"MAHALLA_BROADCAST_RUN_LOCK_TTL" default:"10m"`
	DefaultHours int           `envconfig:"MAHALLA_NOTICE_DEFAULT_EXPIRY_HOURS" default:"48"`
}

type CronConfig struct {
	Interval           time.Duration `envconfig:"MAHALLA_CRON_INTERVAL" default:"1h"`
	LockTTL            time.Duration `envconfig:"MAHALLA_CRON_LOCK_TTL" default:"55m"`
	AuditRetentionDays int           `envconfig:"MAHALLA_AUDIT_RETENTION_DAYS" default:"90"`
}
