package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "workshop"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvDBDSN  = "WORKSHOP_DB_DSN"
	EnvDBHost = "WORKSHOP_DB_HOST"
	EnvDBUser = "WORKSHOP_DB_USER"
	EnvDBName = "WORKSHOP_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App      AppConfig
	DB       DBConfig
	Redis    RedisConfig
	JWT      JWTConfig
	Password PasswordConfig
	Features FeatureFlagsConfig
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
	Env          string   `envconfig:"WORKSHOP_APP_ENV" required:"true"`
	Port         string   `envconfig:"WORKSHOP_APP_PORT" default:"8080"`
	LogLevel     string   `envconfig:"WORKSHOP_LOG_LEVEL" default:"info"`
	LogWarnStack bool     `envconfig:"WORKSHOP_LOG_WARN_STACK" default:"false"`
	CORSOrigins  []string `envconfig:"WORKSHOP_CORS_ORIGINS"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN string `envconfig:"WORKSHOP_DB_DSN"`

	LegacyHost     string `envconfig:"WORKSHOP_DB_HOST"`
	LegacyPort     int    `envconfig:"WORKSHOP_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"WORKSHOP_DB_USER"`
	LegacyPassword string `envconfig:"WORKSHOP_DB_PASSWORD"`
	LegacyName     string `envconfig:"WORKSHOP_DB_NAME"`
	LegacySSLMode  string `envconfig:"WORKSHOP_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"WORKSHOP_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"WORKSHOP_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"WORKSHOP_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"WORKSHOP_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"WORKSHOP_REDIS_URL"`
	Address      string        `envconfig:"WORKSHOP_REDIS_ADDR"`
	Password     string        `envconfig:"WORKSHOP_REDIS_PASSWORD"`
	DB           int           `envconfig:"WORKSHOP_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"WORKSHOP_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"WORKSHOP_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"WORKSHOP_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"WORKSHOP_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"WORKSHOP_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"WORKSHOP_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"WORKSHOP_JWT_ISSUER" default:"workshop-backend"`
	ExpirationMinutes int    `envconfig:"WORKSHOP_JWT_EXPIRATION_MINUTES" default:"480"`
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"WORKSHOP_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"WORKSHOP_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"WORKSHOP_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"WORKSHOP_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"WORKSHOP_ARGON_KEY_LEN" default:"32"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"WORKSHOP_AUTO_MIGRATE" default:"false"`
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
