package config

// EnvPrefix is passed to envconfig; every field carries an explicit key so the
// prefix only matters for fields without one.
const EnvPrefix = "CARDSHOP"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	DBDriverPostgres = "postgres"
	DBDriverSQLite   = "sqlite"
)

const (
	EnvAppEnv      = "CARDSHOP_APP_ENV"
	EnvPort        = "CARDSHOP_APP_PORT"
	EnvLogLevel    = "CARDSHOP_LOG_LEVEL"
	EnvDBDSN       = "CARDSHOP_DB_DSN"
	EnvDBHost      = "CARDSHOP_DB_HOST"
	EnvDBPort      = "CARDSHOP_DB_PORT"
	EnvDBUser      = "CARDSHOP_DB_USER"
	EnvDBPassword  = "CARDSHOP_DB_PASSWORD"
	EnvDBName      = "CARDSHOP_DB_NAME"
	EnvUseSQLite   = "CARDSHOP_USE_SQLITE"
	EnvRedisURL    = "CARDSHOP_REDIS_URL"
	EnvJWTSecret   = "CARDSHOP_JWT_SECRET"
	EnvJWTIssuer   = "CARDSHOP_JWT_ISSUER"
	EnvJWTExpMins  = "CARDSHOP_JWT_EXPIRATION_MINUTES"
	EnvCartTTL     = "CARDSHOP_CART_TTL"
	EnvCORSOrigins = "CARDSHOP_CORS_ALLOWED_ORIGINS"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
