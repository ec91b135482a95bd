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
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	AuthRateLimit AuthRateLimitConfig
	FeatureFlags  FeatureFlagsConfig
	Cart          CartConfig
	CORS          CORSConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if cfg.FeatureFlags.UseSQLite {
		cfg.DB.Driver = DBDriverSQLite
	}
	if err := cfg.DB.ensureDSN(cfg.FeatureFlags.UseSQLite); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"CARDSHOP_APP_ENV" required:"true"`
	Port         string `envconfig:"CARDSHOP_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"CARDSHOP_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"CARDSHOP_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd) || strings.EqualFold(a.Env, "production")
}

type DBConfig struct {
	DSN    string `envconfig:"CARDSHOP_DB_DSN"`
	Driver string `envconfig:"CARDSHOP_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"CARDSHOP_DB_HOST"`
	LegacyPort     int    `envconfig:"CARDSHOP_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"CARDSHOP_DB_USER"`
	LegacyPassword string `envconfig:"CARDSHOP_DB_PASSWORD"`
	LegacyName     string `envconfig:"CARDSHOP_DB_NAME"`
	LegacySSLMode  string `envconfig:"CARDSHOP_DB_SSLMODE" default:"disable"`

	SQLitePath string `envconfig:"CARDSHOP_DB_SQLITE_PATH" default:"cardshop.db"`

	MaxOpenConns    int           `envconfig:"CARDSHOP_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"CARDSHOP_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"CARDSHOP_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"CARDSHOP_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"CARDSHOP_REDIS_URL"`
	Address      string        `envconfig:"CARDSHOP_REDIS_ADDR"`
	Password     string        `envconfig:"CARDSHOP_REDIS_PASSWORD"`
	DB           int           `envconfig:"CARDSHOP_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"CARDSHOP_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"CARDSHOP_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"CARDSHOP_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"CARDSHOP_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"CARDSHOP_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"CARDSHOP_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"CARDSHOP_JWT_ISSUER" default:"cardshop"`
	ExpirationMinutes int    `envconfig:"CARDSHOP_JWT_EXPIRATION_MINUTES" default:"1440"`
}

// TTL returns the access token lifetime.
func (j JWTConfig) TTL() time.Duration {
	if j.ExpirationMinutes <= 0 {
		return 0
	}
	return time.Duration(j.ExpirationMinutes) * time.Minute
}

type AuthRateLimitConfig struct {
	LoginWindow     time.Duration `envconfig:"CARDSHOP_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit int           `envconfig:"CARDSHOP_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit    int           `envconfig:"CARDSHOP_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"CARDSHOP_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"CARDSHOP_AUTO_MIGRATE" default:"false"`
	DevLogin    bool `envconfig:"CARDSHOP_FEATURE_DEV_LOGIN" default:"true"`
}

type CartConfig struct {
	TTL time.Duration `envconfig:"CARDSHOP_CART_TTL" default:"720h"`
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"CARDSHOP_CORS_ALLOWED_ORIGINS" default:"http://localhost:3000"`
}

// IsSQLite reports whether the embedded SQLite driver is selected.
func (db DBConfig) IsSQLite() bool {
	return strings.EqualFold(db.Driver, DBDriverSQLite)
}

func (db *DBConfig) ensureDSN(useSQLite bool) error {
	if db.DSN != "" || useSQLite {
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
