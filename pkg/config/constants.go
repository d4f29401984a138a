package config

const (
	// EnvPrefix is handed to envconfig; every tag carries the full variable name.
	EnvPrefix = "STOREFRONT"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"

	defaultSQLiteDSN = "file:storefront.db?cache=shared&_foreign_keys=on"
)

const (
	EnvAppEnv                 = "STOREFRONT_APP_ENV"
	EnvPort                   = "STOREFRONT_APP_PORT"
	EnvDBDSN                  = "STOREFRONT_DB_DSN"
	EnvDBHost                 = "STOREFRONT_DB_HOST"
	EnvDBUser                 = "STOREFRONT_DB_USER"
	EnvDBName                 = "STOREFRONT_DB_NAME"
	EnvDBPassword             = "STOREFRONT_DB_PASSWORD"
	EnvUseSQLite              = "STOREFRONT_USE_SQLITE"
	EnvRedisURL               = "STOREFRONT_REDIS_URL"
	EnvJWTSecret              = "STOREFRONT_JWT_SECRET"
	EnvJWTIssuer              = "STOREFRONT_JWT_ISSUER"
	EnvJWTExpMins             = "STOREFRONT_JWT_EXPIRATION_MINUTES"
	EnvRefreshTokenTTLMinutes = "STOREFRONT_REFRESH_TOKEN_TTL_MINUTES"
	EnvMailAdminAddress       = "STOREFRONT_MAIL_ADMIN_ADDRESS"
	EnvSMTPHost               = "STOREFRONT_SMTP_HOST"
	EnvCartSessionTTL         = "STOREFRONT_CART_SESSION_TTL"
	EnvCORSOrigins            = "STOREFRONT_CORS_ORIGINS"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
