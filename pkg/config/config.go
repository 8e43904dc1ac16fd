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
	Admin         AdminConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	FeatureFlags  FeatureFlagsConfig
	Time          TimeConfig
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
	Env          string `envconfig:"EVENTOCAIXA_APP_ENV" required:"true"`
	Port         string `envconfig:"EVENTOCAIXA_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"EVENTOCAIXA_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"EVENTOCAIXA_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	// Driver selects the backing store: "postgres" for the hosted database,
	// "sqlite" for a single-file embedded database (small event deployments).
	Driver     string `envconfig:"EVENTOCAIXA_DB_DRIVER" default:"postgres"`
	DSN        string `envconfig:"EVENTOCAIXA_DB_DSN"`
	SQLitePath string `envconfig:"EVENTOCAIXA_DB_SQLITE_PATH" default:"eventocaixa.db"`

	Host     string `envconfig:"EVENTOCAIXA_DB_HOST"`
	Port     int    `envconfig:"EVENTOCAIXA_DB_PORT" default:"5432"`
	User     string `envconfig:"EVENTOCAIXA_DB_USER"`
	Password string `envconfig:"EVENTOCAIXA_DB_PASSWORD"`
	Name     string `envconfig:"EVENTOCAIXA_DB_NAME"`
	SSLMode  string `envconfig:"EVENTOCAIXA_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"EVENTOCAIXA_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"EVENTOCAIXA_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"EVENTOCAIXA_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"EVENTOCAIXA_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

func (db DBConfig) IsSQLite() bool {
	return strings.EqualFold(db.Driver, DriverSQLite)
}

type RedisConfig struct {
	URL          string        `envconfig:"EVENTOCAIXA_REDIS_URL" required:"true"`
	Address      string        `envconfig:"EVENTOCAIXA_REDIS_ADDR"`
	Password     string        `envconfig:"EVENTOCAIXA_REDIS_PASSWORD"`
	DB           int           `envconfig:"EVENTOCAIXA_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"EVENTOCAIXA_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"EVENTOCAIXA_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"EVENTOCAIXA_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"EVENTOCAIXA_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"EVENTOCAIXA_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"EVENTOCAIXA_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"EVENTOCAIXA_JWT_ISSUER" default:"eventocaixa"`
	ExpirationMinutes int    `envconfig:"EVENTOCAIXA_JWT_EXPIRATION_MINUTES" default:"480"`
}

// AccessTokenTTL returns the access token lifetime; the admin session in Redis
// shares this TTL so "logged in" lasts only as long as the interactive session.
func (j JWTConfig) AccessTokenTTL() time.Duration {
	if j.ExpirationMinutes <= 0 {
		return 0
	}
	return time.Duration(j.ExpirationMinutes) * time.Minute
}

type AdminConfig struct {
	Username     string `envconfig:"EVENTOCAIXA_ADMIN_USERNAME" default:"admin"`
	PasswordHash string `envconfig:"EVENTOCAIXA_ADMIN_PASSWORD_HASH" required:"true"`
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"EVENTOCAIXA_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"EVENTOCAIXA_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"EVENTOCAIXA_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"EVENTOCAIXA_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"EVENTOCAIXA_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow    time.Duration `envconfig:"EVENTOCAIXA_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginUserLimit int           `envconfig:"EVENTOCAIXA_AUTH_RATE_LIMIT_LOGIN_USER_LIMIT" default:"5"`
	LoginIPLimit   int           `envconfig:"EVENTOCAIXA_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"EVENTOCAIXA_AUTO_MIGRATE" default:"false"`
}

type TimeConfig struct {
	// Zone is the civil timezone sessions are keyed by. The system was built
	// for events in Brazil, hence the default.
	Zone string `envconfig:"EVENTOCAIXA_TIME_ZONE" default:"America/Sao_Paulo"`
}

func (db *DBConfig) ensureDSN() error {
	if db.IsSQLite() {
		if db.SQLitePath == "" {
			return fmt.Errorf("%s is required for the sqlite driver", EnvDBSQLitePath)
		}
		return nil
	}
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
