package config

import (
	"fmt"
	"log"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"

	"github.com/segyhp/amortization-engine/internal/domain"
)

// Config holds all configuration for our application.
// Keys are flat environment variable names; nested sections are squashed.
type Config struct {
	Server    ServerConfig    `mapstructure:",squash"`
	Database  DatabaseConfig  `mapstructure:",squash"`
	Redis     RedisConfig     `mapstructure:",squash"`
	Scheduler SchedulerConfig `mapstructure:",squash"`
	Business  BusinessConfig  `mapstructure:",squash"`
	Health    HealthConfig    `mapstructure:",squash"`
}

type ServerConfig struct {
	Port         string        `mapstructure:"SERVER_PORT"`
	Host         string        `mapstructure:"SERVER_HOST"`
	Env          string        `mapstructure:"ENV"`
	ReadTimeout  time.Duration `mapstructure:"SERVER_READ_TIMEOUT"`
	WriteTimeout time.Duration `mapstructure:"SERVER_WRITE_TIMEOUT"`
}

type DatabaseConfig struct {
	URL             string        `mapstructure:"DATABASE_URL"`
	Host            string        `mapstructure:"DATABASE_HOST"`
	Port            string        `mapstructure:"DATABASE_PORT"`
	Name            string        `mapstructure:"DATABASE_NAME"`
	User            string        `mapstructure:"DATABASE_USER"`
	Password        string        `mapstructure:"DATABASE_PASSWORD"`
	SSLMode         string        `mapstructure:"DATABASE_SSLMODE"`
	MaxOpenConns    int           `mapstructure:"DATABASE_MAX_OPEN_CONNS"`
	MaxIdleConns    int           `mapstructure:"DATABASE_MAX_IDLE_CONNS"`
	ConnMaxLifetime time.Duration `mapstructure:"DATABASE_CONN_MAX_LIFETIME"`
}

type RedisConfig struct {
	Host     string        `mapstructure:"REDIS_HOST"`
	Port     string        `mapstructure:"REDIS_PORT"`
	Password string        `mapstructure:"REDIS_PASSWORD"`
	DB       int           `mapstructure:"REDIS_DB"`
	CacheTTL time.Duration `mapstructure:"CACHE_TTL"`
}

type SchedulerConfig struct {
	Cron      string        `mapstructure:"SCHEDULER_CRON"`
	Timezone  string        `mapstructure:"SCHEDULER_TIMEZONE"`
	Retention time.Duration `mapstructure:"CALCULATION_RETENTION"`
}

type BusinessConfig struct {
	DefaultInterestRate  string `mapstructure:"DEFAULT_INTEREST_RATE"`
	DefaultLoanYears     int    `mapstructure:"DEFAULT_LOAN_YEARS"`
	DefaultFrequency     string `mapstructure:"DEFAULT_FREQUENCY"`
	GSTRate              string `mapstructure:"GST_RATE"`
	MaxLoanYears         int    `mapstructure:"MAX_LOAN_YEARS"`
	MaxAnnualRatePercent string `mapstructure:"MAX_ANNUAL_RATE_PERCENT"`
}

type HealthConfig struct {
	Timeout time.Duration `mapstructure:"HEALTH_CHECK_TIMEOUT"`
}

var defaults = map[string]interface{}{
	"SERVER_PORT":                "8080",
	"SERVER_HOST":                "0.0.0.0",
	"ENV":                        "development",
	"SERVER_READ_TIMEOUT":        "15s",
	"SERVER_WRITE_TIMEOUT":       "15s",
	"DATABASE_URL":               "",
	"DATABASE_HOST":              "localhost",
	"DATABASE_PORT":              "5432",
	"DATABASE_NAME":              "amortization",
	"DATABASE_USER":              "postgres",
	"DATABASE_PASSWORD":          "",
	"DATABASE_SSLMODE":           "disable",
	"DATABASE_MAX_OPEN_CONNS":    25,
	"DATABASE_MAX_IDLE_CONNS":    5,
	"DATABASE_CONN_MAX_LIFETIME": "5m",
	"REDIS_HOST":                 "localhost",
	"REDIS_PORT":                 "6379",
	"REDIS_PASSWORD":             "",
	"REDIS_DB":                   0,
	"CACHE_TTL":                  "1h",
	"SCHEDULER_CRON":             "0 0 0 * * *",
	"SCHEDULER_TIMEZONE":         "Asia/Jakarta",
	"CALCULATION_RETENTION":      "720h",
	"DEFAULT_INTEREST_RATE":      "9.5",
	"DEFAULT_LOAN_YEARS":         15,
	"DEFAULT_FREQUENCY":          "monthly",
	"GST_RATE":                   "0.18",
	"MAX_LOAN_YEARS":             40,
	"MAX_ANNUAL_RATE_PERCENT":    "25",
	"HEALTH_CHECK_TIMEOUT":       "5s",
}

// Load reads configuration from environment variables and files
func Load() (*Config, error) {
	// Pull a local .env into the environment; missing files are fine
	_ = godotenv.Load()

	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	// Read from environment variables
	v.AutomaticEnv()

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// Validate configuration
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("SERVER_PORT is required")
	}

	if c.Database.URL == "" && c.Database.Host == "" {
		return fmt.Errorf("DATABASE_URL or DATABASE_HOST is required")
	}

	if c.Business.DefaultLoanYears <= 0 {
		return fmt.Errorf("DEFAULT_LOAN_YEARS must be greater than 0")
	}

	if c.Business.MaxLoanYears < c.Business.DefaultLoanYears {
		return fmt.Errorf("MAX_LOAN_YEARS must be at least DEFAULT_LOAN_YEARS")
	}

	rate, err := decimal.NewFromString(c.Business.DefaultInterestRate)
	if err != nil {
		return fmt.Errorf("DEFAULT_INTEREST_RATE must be a valid decimal: %w", err)
	}
	if rate.IsNegative() {
		return fmt.Errorf("DEFAULT_INTEREST_RATE must not be negative")
	}

	maxRate, err := decimal.NewFromString(c.Business.MaxAnnualRatePercent)
	if err != nil {
		return fmt.Errorf("MAX_ANNUAL_RATE_PERCENT must be a valid decimal: %w", err)
	}
	if maxRate.IsNegative() {
		return fmt.Errorf("MAX_ANNUAL_RATE_PERCENT must not be negative")
	}
	if maxRate.IsPositive() && maxRate.LessThan(rate) {
		return fmt.Errorf("MAX_ANNUAL_RATE_PERCENT must be at least DEFAULT_INTEREST_RATE")
	}

	gst, err := decimal.NewFromString(c.Business.GSTRate)
	if err != nil {
		return fmt.Errorf("GST_RATE must be a valid decimal: %w", err)
	}
	if gst.IsNegative() {
		return fmt.Errorf("GST_RATE must not be negative")
	}

	if _, err := domain.ParseFrequency(c.Business.DefaultFrequency); err != nil {
		return fmt.Errorf("DEFAULT_FREQUENCY is invalid: %w", err)
	}

	if c.Redis.CacheTTL < 0 {
		return fmt.Errorf("CACHE_TTL must not be negative")
	}

	if c.Scheduler.Retention <= 0 {
		return fmt.Errorf("CALCULATION_RETENTION must be greater than 0")
	}

	if _, err := cron.NewParser(cronSpecParser).Parse(c.Scheduler.Cron); err != nil {
		return fmt.Errorf("SCHEDULER_CRON must be a valid cron expression: %w", err)
	}

	if _, err := time.LoadLocation(c.Scheduler.Timezone); err != nil {
		return fmt.Errorf("SCHEDULER_TIMEZONE must be a valid location: %w", err)
	}

	if c.Health.Timeout <= 0 {
		return fmt.Errorf("HEALTH_CHECK_TIMEOUT must be greater than 0")
	}

	return nil
}

// cronSpecParser matches cron.WithSeconds()
const cronSpecParser = cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor

// DSN returns the postgres connection string
func (d DatabaseConfig) DSN() string {
	if d.URL != "" {
		return d.URL
	}
	parts := []string{
		"host=" + d.Host,
		"port=" + d.Port,
		"user=" + d.User,
		"dbname=" + d.Name,
		"sslmode=" + d.SSLMode,
	}
	if d.Password != "" {
		parts = append(parts, "password="+d.Password)
	}
	return strings.Join(parts, " ")
}

// Addr returns the redis host:port
func (r RedisConfig) Addr() string {
	return r.Host + ":" + r.Port
}

// IsDevelopment returns true if running in development environment
func (c *Config) IsDevelopment() bool {
	return c.Server.Env == "development" || c.Server.Env == "dev"
}

// LogFlags returns the standard logger flags; development adds file:line
func (c *Config) LogFlags() int {
	if c.IsDevelopment() {
		return log.LstdFlags | log.Lshortfile
	}
	return log.LstdFlags | log.LUTC
}

// GetDefaultInterestRate returns the default annual interest rate in percent
func (c *Config) GetDefaultInterestRate() decimal.Decimal {
	rate, _ := decimal.NewFromString(c.Business.DefaultInterestRate)
	return rate
}

// GetMaxAnnualRatePercent returns the highest rate a request may use. Zero
// disables the bound.
func (c *Config) GetMaxAnnualRatePercent() decimal.Decimal {
	rate, _ := decimal.NewFromString(c.Business.MaxAnnualRatePercent)
	return rate
}

// GetGSTRate returns the tax rate applied to financed upfront fees
func (c *Config) GetGSTRate() decimal.Decimal {
	rate, _ := decimal.NewFromString(c.Business.GSTRate)
	return rate
}

// GetDefaultFrequency returns the frequency used when a request names none
func (c *Config) GetDefaultFrequency() domain.Frequency {
	frequency, err := domain.ParseFrequency(c.Business.DefaultFrequency)
	if err != nil {
		return domain.FrequencyMonthly
	}
	return frequency
}

// GetSchedulerLocation returns the timezone cron jobs run in
func (c *Config) GetSchedulerLocation() *time.Location {
	location, err := time.LoadLocation(c.Scheduler.Timezone)
	if err != nil {
		return time.UTC
	}
	return location
}
