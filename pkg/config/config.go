package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App           AppConfig
	Service       ServiceConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	FeatureFlags  FeatureFlagsConfig
	Billing       BillingConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	if err := cfg.Billing.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"EDUSPHERE_APP_ENV" required:"true"`
	Port         string `envconfig:"EDUSPHERE_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"EDUSPHERE_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"EDUSPHERE_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type ServiceConfig struct {
	Kind string `envconfig:"EDUSPHERE_SERVICE_KIND" default:"api"`
}

type DBConfig struct {
	DSN    string `envconfig:"EDUSPHERE_DB_DSN"`
	Driver string `envconfig:"EDUSPHERE_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"EDUSPHERE_DB_HOST"`
	LegacyPort     int    `envconfig:"EDUSPHERE_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"EDUSPHERE_DB_USER"`
	LegacyPassword string `envconfig:"EDUSPHERE_DB_PASSWORD"`
	LegacyName     string `envconfig:"EDUSPHERE_DB_NAME"`
	LegacySSLMode  string `envconfig:"EDUSPHERE_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"EDUSPHERE_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"EDUSPHERE_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"EDUSPHERE_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"EDUSPHERE_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"EDUSPHERE_REDIS_URL" required:"true"`
	Address      string        `envconfig:"EDUSPHERE_REDIS_ADDR"`
	Password     string        `envconfig:"EDUSPHERE_REDIS_PASSWORD"`
	DB           int           `envconfig:"EDUSPHERE_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"EDUSPHERE_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"EDUSPHERE_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"EDUSPHERE_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"EDUSPHERE_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"EDUSPHERE_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"EDUSPHERE_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"EDUSPHERE_JWT_ISSUER" required:"true"`
	ExpirationMinutes      int    `envconfig:"EDUSPHERE_JWT_EXPIRATION_MINUTES" required:"true"`
	RefreshTokenTTLMinutes int    `envconfig:"EDUSPHERE_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"EDUSPHERE_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"EDUSPHERE_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"EDUSPHERE_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"EDUSPHERE_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"EDUSPHERE_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow     time.Duration `envconfig:"EDUSPHERE_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit int           `envconfig:"EDUSPHERE_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit    int           `envconfig:"EDUSPHERE_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"EDUSPHERE_AUTO_MIGRATE" default:"false"`
}

// BillingConfig tunes the invoice generation and proration behavior.
type BillingConfig struct {
	// Timezone is the deployment calendar used to resolve absence
	// timestamps to local dates before weekday counting.
	Timezone        string `envconfig:"EDUSPHERE_BILLING_TIMEZONE" default:"Europe/Bucharest"`
	DueDay          int    `envconfig:"EDUSPHERE_BILLING_DUE_DAY" default:"15"`
	CurrencyCode    string `envconfig:"EDUSPHERE_BILLING_CURRENCY" default:"RON"`
	CronIntervalMin int    `envconfig:"EDUSPHERE_BILLING_CRON_INTERVAL_MINUTES" default:"1440"`
}

func (b BillingConfig) validate() error {
	if b.DueDay < 1 || b.DueDay > 28 {
		return fmt.Errorf("%s must be between 1 and 28", EnvBillingDueDay)
	}
	if _, err := b.Location(); err != nil {
		return fmt.Errorf("%s: %w", EnvBillingTimezone, err)
	}
	return nil
}

// Location resolves the configured billing timezone.
func (b BillingConfig) Location() (*time.Location, error) {
	return time.LoadLocation(b.Timezone)
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
