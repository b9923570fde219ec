package config

import (
	"flag"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

const (
	defaultServerAddress = ":3000"
	defaultDatabaseDSN   = ""
	defaultSQLitePath    = "./data/chinpay.db"
	defaultPlansFile     = "./data/plans.toml"
	defaultLogLevel      = "info"
	defaultOrderTTL      = 5 * time.Minute
	defaultSweepInterval = 5 * time.Second
	defaultRetireGrace   = 60 * time.Second
)

type Config struct {
	ServerAddr    string        `env:"RUN_ADDRESS"`
	DatabaseDSN   string        `env:"DATABASE_URI"`
	SQLitePath    string        `env:"SQLITE_PATH"`
	PlansFile     string        `env:"PLANS_FILE"`
	LogLevel      string        `env:"LOG_LEVEL"`
	OrderTTL      time.Duration `env:"ORDER_TTL"`
	SweepInterval time.Duration `env:"SWEEP_INTERVAL"`
	RetireGrace   time.Duration `env:"RETIRE_GRACE"`

	KafkaBrokers []string `env:"KAFKA_BROKERS" envSeparator:","`
	KafkaTopic   string   `env:"KAFKA_TOPIC" envDefault:"chinpay.events"`

	RedisAddr   string  `env:"REDIS_ADDR"`
	RedeemRate  float64 `env:"REDEEM_RATE" envDefault:"1"`
	RedeemBurst int     `env:"REDEEM_BURST" envDefault:"5"`

	AdminPasswordHash string `env:"ADMIN_PASSWORD_HASH"`
	AuthTokenKey      string `env:"AUTH_TOKEN_KEY"`
}

var (
	once      sync.Once
	singleton *Config
	parseErr  error
)

// New returns new Config. It parses command line and environment variables only once.
// Flags set defaults, environment variables (and .env file) override them.
func New() (*Config, error) {
	once.Do(func() {
		singleton, parseErr = parse(flag.CommandLine, os.Args[1:])
	})

	return singleton, parseErr
}

func parse(fs *flag.FlagSet, args []string) (*Config, error) {
	cfg := Config{}

	// initialize flags
	fs.StringVar(&cfg.ServerAddr, "a", defaultServerAddress, "server address")
	fs.StringVar(&cfg.DatabaseDSN, "d", defaultDatabaseDSN, "postgres DSN, embedded sqlite is used if empty")
	fs.StringVar(&cfg.SQLitePath, "s", defaultSQLitePath, "sqlite database file")
	fs.StringVar(&cfg.PlansFile, "p", defaultPlansFile, "plan catalog file")
	fs.StringVar(&cfg.LogLevel, "l", defaultLogLevel, "log level")
	fs.DurationVar(&cfg.OrderTTL, "ttl", defaultOrderTTL, "time after which order is evicted from memory")
	fs.DurationVar(&cfg.SweepInterval, "sweep", defaultSweepInterval, "registry sweep interval")
	fs.DurationVar(&cfg.RetireGrace, "grace", defaultRetireGrace, "time completed order stays in memory after it has been polled")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	// .env is optional
	_ = godotenv.Load()

	// if environment variable is set, then using it
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}

	if cfg.OrderTTL <= 0 || cfg.SweepInterval <= 0 || cfg.RetireGrace <= 0 {
		return nil, fmt.Errorf("ttl, sweep interval and grace must be positive")
	}

	return &cfg, nil
}
