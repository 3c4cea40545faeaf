package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"dormeal/internal/core/domain/model/order"
	"dormeal/internal/core/domain/model/principal"
	"dormeal/internal/pkg/errs"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	DBDriverPostgres = "postgres"
	DBDriverSQLite   = "sqlite"
	DBDriverMemory   = "memory"

	SessionStoreMemory = "memory"
	SessionStoreRedis  = "redis"
)

type Config struct {
	HTTPPort string

	DBDriver   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string
	SQLitePath string

	SessionStore string
	RedisAddr    string
	SessionTTL   time.Duration
	JWTSecret    string
	SecureCookie bool

	ClaimMaxAttempts      int
	StaleClaimAfter       time.Duration
	AutoReopenStaleClaims bool
	AutoDeliverAfter      time.Duration
	DeliveryPolicy        order.DeliveryPolicy

	KafkaHost              string
	KafkaOrderChangedTopic string
	OutboxBatchSize        int

	CatalogCacheTTL    time.Duration
	CatalogSeedFile    string
	LoginRatePerMinute int
	SeedAccounts       []SeedAccount

	LogLevel     string
	OTLPEndpoint string
}

// SeedAccount is one "username:password:role" entry of SEED_ACCOUNTS.
type SeedAccount struct {
	Username string
	Password string
	Role     principal.Role
}

// PostgresDSN is the keyword/value DSN shared by gorm and lib/pq.
func (c Config) PostgresDSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSslMode)
}

// LoadConfig reads an optional .env file, then the environment.
func LoadConfig() (Config, error) {
	if err := godotenv.Load(".env"); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("HTTP_PORT", "8080")
	v.SetDefault("DB_DRIVER", DBDriverPostgres)
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "dormeal")
	v.SetDefault("DB_PASSWORD", "dormeal")
	v.SetDefault("DB_NAME", "dormeal")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("SQLITE_PATH", "dormeal.db")
	v.SetDefault("SESSION_STORE", SessionStoreMemory)
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("SESSION_TTL", "24h")
	v.SetDefault("SECURE_COOKIE", false)
	v.SetDefault("CLAIM_MAX_ATTEMPTS", 3)
	v.SetDefault("STALE_CLAIM_AFTER", "30m")
	v.SetDefault("AUTO_REOPEN_STALE_CLAIMS", false)
	v.SetDefault("AUTO_DELIVER_AFTER", "0s")
	v.SetDefault("DELIVERY_POLICY", order.ConsumerConfirms.String())
	v.SetDefault("KAFKA_ORDER_CHANGED_TOPIC", "order.status.changed")
	v.SetDefault("OUTBOX_BATCH_SIZE", 100)
	v.SetDefault("CATALOG_CACHE_TTL", "5m")
	v.SetDefault("LOGIN_RATE_PER_MINUTE", 10)
	v.SetDefault("LOG_LEVEL", "info")

	cfg := Config{
		HTTPPort:               v.GetString("HTTP_PORT"),
		DBDriver:               strings.ToLower(v.GetString("DB_DRIVER")),
		DBHost:                 v.GetString("DB_HOST"),
		DBPort:                 v.GetString("DB_PORT"),
		DBUser:                 v.GetString("DB_USER"),
		DBPassword:             v.GetString("DB_PASSWORD"),
		DBName:                 v.GetString("DB_NAME"),
		DBSslMode:              v.GetString("DB_SSLMODE"),
		SQLitePath:             v.GetString("SQLITE_PATH"),
		SessionStore:           strings.ToLower(v.GetString("SESSION_STORE")),
		RedisAddr:              v.GetString("REDIS_ADDR"),
		JWTSecret:              v.GetString("JWT_SECRET"),
		SecureCookie:           v.GetBool("SECURE_COOKIE"),
		ClaimMaxAttempts:       v.GetInt("CLAIM_MAX_ATTEMPTS"),
		AutoReopenStaleClaims:  v.GetBool("AUTO_REOPEN_STALE_CLAIMS"),
		KafkaHost:              v.GetString("KAFKA_HOST"),
		KafkaOrderChangedTopic: v.GetString("KAFKA_ORDER_CHANGED_TOPIC"),
		OutboxBatchSize:        v.GetInt("OUTBOX_BATCH_SIZE"),
		CatalogSeedFile:        v.GetString("CATALOG_SEED_FILE"),
		LoginRatePerMinute:     v.GetInt("LOGIN_RATE_PER_MINUTE"),
		LogLevel:               v.GetString("LOG_LEVEL"),
		OTLPEndpoint:           v.GetString("OTEL_EXPORTER_OTLP_ENDPOINT"),
	}

	var problems []error
	duration := func(key string) time.Duration {
		d, err := time.ParseDuration(v.GetString(key))
		if err != nil {
			problems = append(problems, errs.NewValueIsInvalidErrorWithCause(key, err))
		}
		return d
	}
	cfg.SessionTTL = duration("SESSION_TTL")
	cfg.StaleClaimAfter = duration("STALE_CLAIM_AFTER")
	cfg.AutoDeliverAfter = duration("AUTO_DELIVER_AFTER")
	cfg.CatalogCacheTTL = duration("CATALOG_CACHE_TTL")

	policy, err := order.ParseDeliveryPolicy(v.GetString("DELIVERY_POLICY"))
	if err != nil {
		problems = append(problems, err)
	}
	cfg.DeliveryPolicy = policy

	seeds, err := parseSeedAccounts(v.GetString("SEED_ACCOUNTS"))
	if err != nil {
		problems = append(problems, err)
	}
	cfg.SeedAccounts = seeds

	problems = append(problems, cfg.validate()...)
	if err := errors.Join(problems...); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() []error {
	var problems []error
	switch c.DBDriver {
	case DBDriverPostgres, DBDriverSQLite, DBDriverMemory:
	default:
		problems = append(problems, errs.NewValueIsInvalidErrorWithCause("DB_DRIVER", fmt.Errorf("unknown driver %q", c.DBDriver)))
	}
	switch c.SessionStore {
	case SessionStoreMemory, SessionStoreRedis:
	default:
		problems = append(problems, errs.NewValueIsInvalidErrorWithCause("SESSION_STORE", fmt.Errorf("unknown store %q", c.SessionStore)))
	}
	if len(c.JWTSecret) < 32 {
		problems = append(problems, errs.NewValueIsOutOfRangeError("JWT_SECRET length", len(c.JWTSecret), 32, "-"))
	}
	if c.ClaimMaxAttempts < 1 {
		problems = append(problems, errs.NewValueIsOutOfRangeError("CLAIM_MAX_ATTEMPTS", c.ClaimMaxAttempts, 1, "-"))
	}
	if c.SessionTTL <= 0 {
		problems = append(problems, errs.NewValueIsOutOfRangeError("SESSION_TTL", c.SessionTTL, "1s", "-"))
	}
	if c.StaleClaimAfter <= 0 {
		problems = append(problems, errs.NewValueIsOutOfRangeError("STALE_CLAIM_AFTER", c.StaleClaimAfter, "1s", "-"))
	}
	if c.AutoDeliverAfter < 0 {
		problems = append(problems, errs.NewValueIsOutOfRangeError("AUTO_DELIVER_AFTER", c.AutoDeliverAfter, "0s", "-"))
	}
	return problems
}

// parseSeedAccounts reads a comma separated list of username:password:role.
func parseSeedAccounts(raw string) ([]SeedAccount, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}

	var accounts []SeedAccount
	for _, entry := range strings.Split(raw, ",") {
		parts := strings.SplitN(strings.TrimSpace(entry), ":", 3)
		if len(parts) != 3 {
			return nil, errs.NewValueIsInvalidErrorWithCause("SEED_ACCOUNTS", fmt.Errorf("want username:password:role, got %d fields", len(parts)))
		}
		role, err := principal.ParseRole(parts[2])
		if err != nil {
			return nil, errs.NewValueIsInvalidErrorWithCause("SEED_ACCOUNTS", err)
		}
		accounts = append(accounts, SeedAccount{Username: parts[0], Password: parts[1], Role: role})
	}
	return accounts, nil
}
