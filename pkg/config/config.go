package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	CORS         CORSConfig
	Cart         CartConfig
	RateLimit    RateLimitConfig
	FeatureFlags FeatureFlagsConfig
	GCP          GCPConfig
	GCS          GCSConfig
	Media        MediaConfig
	Budget       BudgetConfig
	Cron         CronConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(cfg.FeatureFlags.UseSQLite); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env             string        `envconfig:"GIFTSHOP_APP_ENV" required:"true"`
	Port            string        `envconfig:"GIFTSHOP_APP_PORT" default:"8080"`
	LogLevel        string        `envconfig:"GIFTSHOP_LOG_LEVEL" default:"info"`
	LogWarnStack    bool          `envconfig:"GIFTSHOP_LOG_WARN_STACK" default:"false"`
	RequestTimeout  time.Duration `envconfig:"GIFTSHOP_REQUEST_TIMEOUT" default:"15s"`
	ShutdownTimeout time.Duration `envconfig:"GIFTSHOP_SHUTDOWN_TIMEOUT" default:"10s"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN string `envconfig:"GIFTSHOP_DB_DSN"`

	LegacyHost     string `envconfig:"GIFTSHOP_DB_HOST"`
	LegacyPort     int    `envconfig:"GIFTSHOP_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"GIFTSHOP_DB_USER"`
	LegacyPassword string `envconfig:"GIFTSHOP_DB_PASSWORD"`
	LegacyName     string `envconfig:"GIFTSHOP_DB_NAME"`
	LegacySSLMode  string `envconfig:"GIFTSHOP_DB_SSLMODE" default:"disable"`

	SQLitePath string `envconfig:"GIFTSHOP_SQLITE_PATH" default:"giftshop.db"`

	MaxOpenConns    int           `envconfig:"GIFTSHOP_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"GIFTSHOP_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"GIFTSHOP_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"GIFTSHOP_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"GIFTSHOP_REDIS_URL"`
	Address      string        `envconfig:"GIFTSHOP_REDIS_ADDR"`
	Password     string        `envconfig:"GIFTSHOP_REDIS_PASSWORD"`
	DB           int           `envconfig:"GIFTSHOP_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"GIFTSHOP_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"GIFTSHOP_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"GIFTSHOP_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"GIFTSHOP_REDIS_READ_TIMEOUT" default:"3s"`
	WriteTimeout time.Duration `envconfig:"GIFTSHOP_REDIS_WRITE_TIMEOUT" default:"3s"`
}

// JWTConfig describes the tokens issued by the identity provider.
type JWTConfig struct {
	Secret            string `envconfig:"GIFTSHOP_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"GIFTSHOP_JWT_ISSUER" required:"true"`
	Audience          string `envconfig:"GIFTSHOP_JWT_AUDIENCE"`
	ExpirationMinutes int    `envconfig:"GIFTSHOP_JWT_EXPIRATION_MINUTES" default:"60"`
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"GIFTSHOP_CORS_ALLOWED_ORIGINS" default:"http://localhost:4321,http://localhost:3000"`
}

type CartConfig struct {
	CookieName string `envconfig:"GIFTSHOP_CART_COOKIE_NAME" default:"cart"`
	MaxAgeDays int    `envconfig:"GIFTSHOP_CART_MAX_AGE_DAYS" default:"30"`
	Secure     bool   `envconfig:"GIFTSHOP_CART_COOKIE_SECURE" default:"false"`
	Domain     string `envconfig:"GIFTSHOP_CART_COOKIE_DOMAIN"`
}

// MaxAge returns the cookie lifetime.
func (c CartConfig) MaxAge() time.Duration {
	if c.MaxAgeDays <= 0 {
		return 0
	}
	return time.Duration(c.MaxAgeDays) * 24 * time.Hour
}

type RateLimitConfig struct {
	SubmitWindow      time.Duration `envconfig:"GIFTSHOP_RATE_LIMIT_SUBMIT_WINDOW" default:"10m"`
	SubmitIPLimit     int           `envconfig:"GIFTSHOP_RATE_LIMIT_SUBMIT_IP_LIMIT" default:"10"`
	SubmitEmailLimit  int           `envconfig:"GIFTSHOP_RATE_LIMIT_SUBMIT_EMAIL_LIMIT" default:"5"`
	ContactWindow     time.Duration `envconfig:"GIFTSHOP_RATE_LIMIT_CONTACT_WINDOW" default:"10m"`
	ContactIPLimit    int           `envconfig:"GIFTSHOP_RATE_LIMIT_CONTACT_IP_LIMIT" default:"5"`
	ContactEmailLimit int           `envconfig:"GIFTSHOP_RATE_LIMIT_CONTACT_EMAIL_LIMIT" default:"3"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"GIFTSHOP_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"GIFTSHOP_AUTO_MIGRATE" default:"false"`
}

type GCPConfig struct {
	ProjectID              string `envconfig:"GIFTSHOP_GCP_PROJECT_ID"`
	CredentialsJSON        string `envconfig:"GIFTSHOP_GCP_CREDENTIALS_JSON"`
	ApplicationCredentials string `envconfig:"GIFTSHOP_GOOGLE_APPLICATION_CREDENTIALS"`
}

type GCSConfig struct {
	BucketName    string `envconfig:"GIFTSHOP_GCS_BUCKET_NAME" required:"true"`
	PublicBaseURL string `envconfig:"GIFTSHOP_GCS_PUBLIC_BASE_URL" default:"https://storage.googleapis.com"`
	Endpoint      string `envconfig:"GIFTSHOP_GCS_ENDPOINT"`
}

type MediaConfig struct {
	MaxUploadMB  int    `envconfig:"GIFTSHOP_MAX_UPLOAD_MB" default:"10"`
	Folder       string `envconfig:"GIFTSHOP_MEDIA_FOLDER" default:"giftshop"`
	SyncPageSize int    `envconfig:"GIFTSHOP_MEDIA_SYNC_PAGE_SIZE" default:"500"`
}

// MaxUploadBytes returns the upload limit in bytes.
func (m MediaConfig) MaxUploadBytes() int64 {
	if m.MaxUploadMB <= 0 {
		return 10 << 20
	}
	return int64(m.MaxUploadMB) << 20
}

type BudgetConfig struct {
	DefaultValidityDays int    `envconfig:"GIFTSHOP_BUDGET_VALIDITY_DAYS" default:"15"`
	CurrencySymbol      string `envconfig:"GIFTSHOP_CURRENCY_SYMBOL" default:"$"`
}

type CronConfig struct {
	Interval time.Duration `envconfig:"GIFTSHOP_CRON_INTERVAL" default:"1h"`
	LockTTL  time.Duration `envconfig:"GIFTSHOP_CRON_LOCK_TTL" default:"55m"`
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
