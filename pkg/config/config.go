package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App     AppConfig
	Service ServiceConfig
	DB      DBConfig
	Redis   RedisConfig
	Shopify ShopifyConfig
	Sweeper SweeperConfig
	Cache   CacheConfig
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
	Env          string `envconfig:"XENO_APP_ENV" required:"true"`
	Port         string `envconfig:"XENO_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"XENO_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"XENO_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type ServiceConfig struct {
	Kind string `envconfig:"XENO_SERVICE_KIND" default:"api"`
}

type DBConfig struct {
	DSN    string `envconfig:"XENO_DB_DSN"`
	Driver string `envconfig:"XENO_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"XENO_DB_HOST"`
	LegacyPort     int    `envconfig:"XENO_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"XENO_DB_USER"`
	LegacyPassword string `envconfig:"XENO_DB_PASSWORD"`
	LegacyName     string `envconfig:"XENO_DB_NAME"`
	LegacySSLMode  string `envconfig:"XENO_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"XENO_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"XENO_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"XENO_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"XENO_DB_CONN_MAX_IDLE_TIME" default:"10m"`

	AutoMigrate bool `envconfig:"XENO_AUTO_MIGRATE" default:"false"`
}

type RedisConfig struct {
	URL          string        `envconfig:"XENO_REDIS_URL" required:"true"`
	Address      string        `envconfig:"XENO_REDIS_ADDR"`
	Password     string        `envconfig:"XENO_REDIS_PASSWORD"`
	DB           int           `envconfig:"XENO_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"XENO_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"XENO_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"XENO_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"XENO_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"XENO_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type ShopifyConfig struct {
	APIKey        string        `envconfig:"XENO_SHOPIFY_API_KEY"`
	APISecret     string        `envconfig:"XENO_SHOPIFY_API_SECRET"`
	PageSize      int           `envconfig:"XENO_SHOPIFY_PAGE_SIZE" default:"250"`
	PageDelay     time.Duration `envconfig:"XENO_SHOPIFY_PAGE_DELAY" default:"500ms"`
	RequestExpiry time.Duration `envconfig:"XENO_SHOPIFY_REQUEST_TIMEOUT" default:"30s"`
}

type SweeperConfig struct {
	Interval  time.Duration `envconfig:"XENO_SWEEPER_INTERVAL" default:"15m"`
	Threshold time.Duration `envconfig:"XENO_SWEEPER_THRESHOLD" default:"1h"`
	LockTTL   time.Duration `envconfig:"XENO_SWEEPER_LOCK_TTL" default:"14m"`
}

type CacheConfig struct {
	MetricsTTL time.Duration `envconfig:"XENO_CACHE_METRICS_TTL" default:"2m"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
