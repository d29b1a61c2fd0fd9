package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = ""

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvDBDSN  = "TECLEGACY_DB_DSN"
	EnvDBHost = "TECLEGACY_DB_HOST"
	EnvDBUser = "TECLEGACY_DB_USER"
	EnvDBName = "TECLEGACY_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	Session      SessionConfig
	Checkout     CheckoutConfig
	FeatureFlags FeatureFlagsConfig
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
	Env          string `envconfig:"TECLEGACY_APP_ENV" required:"true"`
	Port         string `envconfig:"TECLEGACY_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"TECLEGACY_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"TECLEGACY_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"TECLEGACY_DB_DSN"`
	Driver string `envconfig:"TECLEGACY_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"TECLEGACY_DB_HOST"`
	LegacyPort     int    `envconfig:"TECLEGACY_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"TECLEGACY_DB_USER"`
	LegacyPassword string `envconfig:"TECLEGACY_DB_PASSWORD"`
	LegacyName     string `envconfig:"TECLEGACY_DB_NAME"`
	LegacySSLMode  string `envconfig:"TECLEGACY_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"TECLEGACY_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"TECLEGACY_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"TECLEGACY_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"TECLEGACY_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"TECLEGACY_REDIS_URL"`
	Password     string        `envconfig:"TECLEGACY_REDIS_PASSWORD"`
	DB           int           `envconfig:"TECLEGACY_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"TECLEGACY_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"TECLEGACY_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"TECLEGACY_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"TECLEGACY_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"TECLEGACY_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret string `envconfig:"TECLEGACY_JWT_SECRET" required:"true"`
	Issuer string `envconfig:"TECLEGACY_JWT_ISSUER" default:"teclegacy-identity"`
}

type SessionConfig struct {
	CookieName   string        `envconfig:"TECLEGACY_SESSION_COOKIE_NAME" default:"tl_session"`
	CookieMaxAge time.Duration `envconfig:"TECLEGACY_SESSION_COOKIE_MAX_AGE" default:"720h"`
	CookieSecure bool          `envconfig:"TECLEGACY_SESSION_COOKIE_SECURE" default:"false"`
}

type CheckoutConfig struct {
	SubmitLockTTL time.Duration `envconfig:"TECLEGACY_CHECKOUT_SUBMIT_LOCK_TTL" default:"30s"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"TECLEGACY_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"TECLEGACY_AUTO_MIGRATE" default:"false"`
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
