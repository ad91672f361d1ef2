package config

// EnvPrefix is the envconfig prefix for all EDUSPHERE_* variables.
const EnvPrefix = "EDUSPHERE"

const (
	AppEnvDev  = "development"
	AppEnvProd = "production"
)

const (
	EnvAppEnv  = "EDUSPHERE_APP_ENV"
	EnvAppPort = "EDUSPHERE_APP_PORT"

	EnvDBDSN  = "EDUSPHERE_DB_DSN"
	EnvDBHost = "EDUSPHERE_DB_HOST"
	EnvDBUser = "EDUSPHERE_DB_USER"
	EnvDBName = "EDUSPHERE_DB_NAME"

	EnvRedisURL = "EDUSPHERE_REDIS_URL"

	EnvJWTSecret            = "EDUSPHERE_JWT_SECRET"
	EnvJWTIssuer            = "EDUSPHERE_JWT_ISSUER"
	EnvJWTExpirationMinutes = "EDUSPHERE_JWT_EXPIRATION_MINUTES"

	EnvBillingTimezone = "EDUSPHERE_BILLING_TIMEZONE"
	EnvBillingDueDay   = "EDUSPHERE_BILLING_DUE_DAY"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
