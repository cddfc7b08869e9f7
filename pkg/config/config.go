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

	EnvDBDSN  = "DESHCART_DB_DSN"
	EnvDBHost = "DESHCART_DB_HOST"
	EnvDBUser = "DESHCART_DB_USER"
	EnvDBName = "DESHCART_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App          AppConfig
	Service      ServiceConfig
	DB           DBConfig
	Redis        RedisConfig
	Admin        AdminConfig
	Insight      InsightConfig
	Growth       GrowthConfig
	Cron         CronConfig
	GCP          GCPConfig
	PubSub       PubSubConfig
	Eventing     EventingConfig
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
	Env          string `envconfig:"DESHCART_APP_ENV" required:"true"`
	Port         string `envconfig:"DESHCART_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"DESHCART_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"DESHCART_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type ServiceConfig struct {
	Kind string `envconfig:"DESHCART_SERVICE_KIND" default:"api"`
}

type DBConfig struct {
	DSN    string `envconfig:"DESHCART_DB_DSN"`
	Driver string `envconfig:"DESHCART_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"DESHCART_DB_HOST"`
	LegacyPort     int    `envconfig:"DESHCART_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"DESHCART_DB_USER"`
	LegacyPassword string `envconfig:"DESHCART_DB_PASSWORD"`
	LegacyName     string `envconfig:"DESHCART_DB_NAME"`
	LegacySSLMode  string `envconfig:"DESHCART_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"DESHCART_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"DESHCART_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"DESHCART_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"DESHCART_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"DESHCART_REDIS_URL" required:"true"`
	Address      string        `envconfig:"DESHCART_REDIS_ADDR"`
	Password     string        `envconfig:"DESHCART_REDIS_PASSWORD"`
	DB           int           `envconfig:"DESHCART_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"DESHCART_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"DESHCART_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"DESHCART_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"DESHCART_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"DESHCART_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// AdminConfig guards the back-office API surface.
type AdminConfig struct {
	APIKey string `envconfig:"DESHCART_ADMIN_API_KEY" required:"true"`
}

// InsightConfig points at the external analytics service.
type InsightConfig struct {
	BaseURL string        `envconfig:"DESHCART_INSIGHT_BASE_URL" required:"true"`
	APIKey  string        `envconfig:"DESHCART_INSIGHT_API_KEY"`
	Timeout time.Duration `envconfig:"DESHCART_INSIGHT_TIMEOUT" default:"15s"`
}

// GrowthConfig tunes the order growth map engine.
type GrowthConfig struct {
	CacheTTL         time.Duration `envconfig:"DESHCART_GROWTH_CACHE_TTL" default:"5m"`
	SessionIdleTTL   time.Duration `envconfig:"DESHCART_GROWTH_SESSION_IDLE_TTL" default:"15m"`
	DefaultSpeedMS   int           `envconfig:"DESHCART_GROWTH_DEFAULT_SPEED_MS" default:"500"`
	DefaultTimeframe int           `envconfig:"DESHCART_GROWTH_DEFAULT_TIMEFRAME_MONTHS" default:"6"`
	LiveBucketTTL    time.Duration `envconfig:"DESHCART_GROWTH_LIVE_BUCKET_TTL" default:"48h"`
	MergeLiveBuckets bool          `envconfig:"DESHCART_GROWTH_MERGE_LIVE_BUCKETS" default:"true"`
}

// DefaultSpeed returns the playback cadence as a duration.
func (g GrowthConfig) DefaultSpeed() time.Duration {
	if g.DefaultSpeedMS <= 0 {
		return 500 * time.Millisecond
	}
	return time.Duration(g.DefaultSpeedMS) * time.Millisecond
}

type CronConfig struct {
	Interval  time.Duration `envconfig:"DESHCART_CRON_INTERVAL" default:"10m"`
	LockTTL   time.Duration `envconfig:"DESHCART_CRON_LOCK_TTL" default:"5m"`
	Divisions []string      `envconfig:"DESHCART_CRON_WARM_DIVISIONS"`
}

type GCPConfig struct {
	ProjectID              string `envconfig:"DESHCART_GCP_PROJECT_ID"`
	CredentialsJSON        string `envconfig:"DESHCART_GCP_CREDENTIALS_JSON"`
	ApplicationCredentials string `envconfig:"DESHCART_GOOGLE_APPLICATION_CREDENTIALS"`
}

type PubSubConfig struct {
	OrdersTopic        string `envconfig:"DESHCART_PUBSUB_ORDERS_TOPIC"`
	OrdersSubscription string `envconfig:"DESHCART_PUBSUB_ORDERS_SUBSCRIPTION"`
}

type EventingConfig struct {
	IdempotencyTTL time.Duration `envconfig:"DESHCART_EVENTING_IDEMPOTENCY_TTL" default:"720h"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"DESHCART_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"DESHCART_AUTO_MIGRATE" default:"false"`
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
