package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	// EnvPrefix scopes every environment variable the service reads.
	EnvPrefix = "KRISHI"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvDBDSN  = "KRISHI_DB_DSN"
	EnvDBHost = "KRISHI_DB_HOST"
	EnvDBUser = "KRISHI_DB_USER"
	EnvDBName = "KRISHI_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	Razorpay      RazorpayConfig
	MLAPI         MLAPIConfig
	GCP           GCPConfig
	PubSub        PubSubConfig
	Orders        OrdersConfig
	AuthRateLimit AuthRateLimitConfig
	FeatureFlags  FeatureFlagsConfig
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
	Env          string `envconfig:"KRISHI_APP_ENV" required:"true"`
	Port         string `envconfig:"KRISHI_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"KRISHI_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"KRISHI_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"KRISHI_DB_DSN"`
	Driver string `envconfig:"KRISHI_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"KRISHI_DB_HOST"`
	LegacyPort     int    `envconfig:"KRISHI_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"KRISHI_DB_USER"`
	LegacyPassword string `envconfig:"KRISHI_DB_PASSWORD"`
	LegacyName     string `envconfig:"KRISHI_DB_NAME"`
	LegacySSLMode  string `envconfig:"KRISHI_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"KRISHI_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"KRISHI_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"KRISHI_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"KRISHI_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"KRISHI_REDIS_URL" required:"true"`
	Address      string        `envconfig:"KRISHI_REDIS_ADDR"`
	Password     string        `envconfig:"KRISHI_REDIS_PASSWORD"`
	DB           int           `envconfig:"KRISHI_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"KRISHI_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"KRISHI_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"KRISHI_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"KRISHI_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"KRISHI_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"KRISHI_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"KRISHI_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"KRISHI_JWT_EXPIRATION_MINUTES" default:"10080"`
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"KRISHI_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"KRISHI_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"KRISHI_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"KRISHI_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"KRISHI_ARGON_KEY_LEN" default:"32"`
}

// RazorpayConfig carries the gateway credentials and the shared callback secret.
type RazorpayConfig struct {
	KeyID     string `envconfig:"KRISHI_RAZORPAY_KEY_ID" required:"true"`
	KeySecret string `envconfig:"KRISHI_RAZORPAY_KEY_SECRET" required:"true"`
	Currency  string `envconfig:"KRISHI_RAZORPAY_CURRENCY" default:"INR"`
}

type MLAPIConfig struct {
	BaseURL string        `envconfig:"KRISHI_ML_API_URL" default:"http://localhost:5000"`
	Timeout time.Duration `envconfig:"KRISHI_ML_API_TIMEOUT" default:"10s"`
}

type GCPConfig struct {
	ProjectID string `envconfig:"KRISHI_GCP_PROJECT_ID"`
}

type PubSubConfig struct {
	OrdersTopic      string `envconfig:"KRISHI_PUBSUB_ORDERS_TOPIC" default:"kc-order-events"`
	LeaderboardTopic string `envconfig:"KRISHI_PUBSUB_LEADERBOARD_TOPIC" default:"kc-leaderboard-events"`
}

type OrdersConfig struct {
	// PendingTTL is how long a created order may wait for a gateway callback
	// before the reaper cancels it.
	PendingTTL time.Duration `envconfig:"KRISHI_ORDERS_PENDING_TTL" default:"24h"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"KRISHI_AUTH_RL_LOGIN_WINDOW" default:"5m"`
	LoginIPLimit       int           `envconfig:"KRISHI_AUTH_RL_LOGIN_IP_LIMIT" default:"20"`
	LoginEmailLimit    int           `envconfig:"KRISHI_AUTH_RL_LOGIN_EMAIL_LIMIT" default:"10"`
	RegisterWindow     time.Duration `envconfig:"KRISHI_AUTH_RL_REGISTER_WINDOW" default:"1h"`
	RegisterIPLimit    int           `envconfig:"KRISHI_AUTH_RL_REGISTER_IP_LIMIT" default:"10"`
	RegisterEmailLimit int           `envconfig:"KRISHI_AUTH_RL_REGISTER_EMAIL_LIMIT" default:"5"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"KRISHI_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"KRISHI_AUTO_MIGRATE" default:"false"`
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
