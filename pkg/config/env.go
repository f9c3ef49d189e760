package config

const EnvPrefix = "GIFTSHOP"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvAppEnv   = "GIFTSHOP_APP_ENV"
	EnvPort     = "GIFTSHOP_APP_PORT"
	EnvLogLevel = "GIFTSHOP_LOG_LEVEL"

	EnvDBDSN  = "GIFTSHOP_DB_DSN"
	EnvDBHost = "GIFTSHOP_DB_HOST"
	EnvDBUser = "GIFTSHOP_DB_USER"
	EnvDBName = "GIFTSHOP_DB_NAME"

	EnvRedisURL = "GIFTSHOP_REDIS_URL"

	EnvJWTSecret = "GIFTSHOP_JWT_SECRET"
	EnvJWTIssuer = "GIFTSHOP_JWT_ISSUER"

	EnvCORSOrigins  = "GIFTSHOP_CORS_ALLOWED_ORIGINS"
	EnvUseSQLite    = "GIFTSHOP_USE_SQLITE"
	EnvGCSBucket    = "GIFTSHOP_GCS_BUCKET_NAME"
	EnvMediaFolder  = "GIFTSHOP_MEDIA_FOLDER"
	EnvCronInterval = "GIFTSHOP_CRON_INTERVAL"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
