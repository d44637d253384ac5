package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App      AppConfig
	DB       DBConfig
	Redis    RedisConfig
	JWT      JWTConfig
	Password PasswordConfig
	Admin    AdminConfig
	Cart     CartConfig
	GCP      GCPConfig
	PubSub   PubSubConfig
	Flags    FeatureFlagsConfig
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
	Env          string `envconfig:"SHOP_APP_ENV" required:"true"`
	Port         string `envconfig:"SHOP_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"SHOP_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"SHOP_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"SHOP_DB_DSN"`
	Driver string `envconfig:"SHOP_DB_DRIVER" default:"postgres"`

	Host     string `envconfig:"SHOP_DB_HOST"`
	Port     int    `envconfig:"SHOP_DB_PORT" default:"5432"`
	User     string `envconfig:"SHOP_DB_USER"`
	Password string `envconfig:"SHOP_DB_PASSWORD"`
	Name     string `envconfig:"SHOP_DB_NAME"`
	SSLMode  string `envconfig:"SHOP_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"SHOP_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"SHOP_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"SHOP_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"SHOP_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"SHOP_REDIS_URL"`
	Address      string        `envconfig:"SHOP_REDIS_ADDR"`
	Password     string        `envconfig:"SHOP_REDIS_PASSWORD"`
	DB           int           `envconfig:"SHOP_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"SHOP_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"SHOP_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"SHOP_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"SHOP_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"SHOP_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"SHOP_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"SHOP_JWT_ISSUER" required:"true"`
	ExpirationMinutes      int    `envconfig:"SHOP_JWT_EXPIRATION_MINUTES" default:"60"`
	RefreshTokenTTLMinutes int    `envconfig:"SHOP_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"SHOP_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"SHOP_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"SHOP_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"SHOP_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"SHOP_ARGON_KEY_LEN" default:"32"`
}

// AdminConfig marks which registration email is promoted to the admin role.
type AdminConfig struct {
	Email string `envconfig:"SHOP_ADMIN_EMAIL"`
}

// CartConfig tunes the cart session store and the remote mirror.
type CartConfig struct {
	SessionTTL   time.Duration `envconfig:"SHOP_CART_SESSION_TTL" default:"720h"`
	SyncTimeout  time.Duration `envconfig:"SHOP_CART_SYNC_TIMEOUT" default:"5s"`
	FreeShipOver string        `envconfig:"SHOP_CART_FREE_SHIPPING_OVER" default:"1000"`
	ShippingFee  string        `envconfig:"SHOP_CART_SHIPPING_FEE" default:"99"`
	VATRate      string        `envconfig:"SHOP_CART_VAT_RATE" default:"0.15"`
}

type GCPConfig struct {
	ProjectID              string `envconfig:"SHOP_GCP_PROJECT_ID"`
	CredentialsJSON        string `envconfig:"SHOP_GCP_CREDENTIALS_JSON"`
	ApplicationCredentials string `envconfig:"SHOP_GOOGLE_APPLICATION_CREDENTIALS"`
}

type PubSubConfig struct {
	OrdersTopic              string `envconfig:"SHOP_PUBSUB_ORDERS_TOPIC" default:"shop-order-events"`
	OrdersSubscription       string `envconfig:"SHOP_PUBSUB_ORDERS_SUBSCRIPTION"`
	NotificationSubscription string `envconfig:"SHOP_PUBSUB_NOTIFICATION_SUBSCRIPTION"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"SHOP_AUTO_MIGRATE" default:"false"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	values := map[string]string{
		EnvDBHost: db.Host,
		EnvDBUser: db.User,
		EnvDBName: db.Name,
	}
	for _, env := range requiredDBEnvVars {
		if values[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.User)
	if db.Password != "" {
		userInfo = url.UserPassword(db.User, db.Password)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.Host, db.Port),
		Path:   db.Name,
	}

	if db.SSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.SSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
