package internal

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Server       ServerConfig       `mapstructure:"http_server"`
	Database     DatabaseConfig     `mapstructure:"database"`
	Organization OrganizationConfig `mapstructure:"organization"`
	Sponsorship  SponsorshipConfig  `mapstructure:"sponsorship"`
	Logging      LoggingConfig      `mapstructure:"logging"`
}

type ServerConfig struct {
	Port              int           `mapstructure:"port"`
	BaseURL           string        `mapstructure:"base_url"`
	AllowedOrigins    string        `mapstructure:"allowed_origins"`
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout"`
	ReadTimeout       time.Duration `mapstructure:"read_timeout"`
	IdleTimeout       time.Duration `mapstructure:"idle_timeout"`
	WriteTimeout      time.Duration `mapstructure:"write_timeout"`
}

type DatabaseConfig struct {
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"`
	Source          string        `mapstructure:"source"`
}

// OrganizationConfig is the fixed header block printed on every receipt.
type OrganizationConfig struct {
	Name    string `mapstructure:"name"`
	Address string `mapstructure:"address"`
	City    string `mapstructure:"city"`
	Phone   string `mapstructure:"phone"`
	Email   string `mapstructure:"email"`
	TaxID   string `mapstructure:"tax_id"`
}

// SponsorshipConfig carries the ledger conventions. CurrentMonthIndex is a
// configured constant, not derived from the host clock: mapping the civil
// date to a Hebrew month needs a real calendar conversion this service does
// not perform.
type SponsorshipConfig struct {
	CurrentMonthIndex int   `mapstructure:"current_month_index"`
	StartYear         int   `mapstructure:"start_year"`
	EndYear           int   `mapstructure:"end_year"`
	WriteRetries      int   `mapstructure:"write_retries"`
	WriteBackoffMs    int64 `mapstructure:"write_backoff_ms"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// ----------------- HELPERS -----------------

func getEnv(key, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultVal
}

// LoadConfigFromEnv builds a Config entirely from environment variables, for
// container deployments where no config.yml is mounted.
func LoadConfigFromEnv() *Config {
	return &Config{
		Server: ServerConfig{
			Port:              getEnvAsInt("HTTP_PORT", 8080),
			BaseURL:           getEnv("BASE_URL", "http://localhost:8080"),
			AllowedOrigins:    getEnv("ALLOWED_ORIGINS", "*"),
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       15 * time.Second,
			WriteTimeout:      15 * time.Second,
			IdleTimeout:       60 * time.Second,
		},
		Database: DatabaseConfig{
			Source:          getEnv("DATABASE_URL", ""),
			MaxOpenConns:    getEnvAsInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    getEnvAsInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: 30 * time.Minute,
			ConnMaxIdleTime: 5 * time.Minute,
		},
		Organization: OrganizationConfig{
			Name:    getEnv("ORG_NAME", "CONG. TIFERES YECHEZKEL OF BELED"),
			Address: getEnv("ORG_ADDRESS", "1379 58th Street"),
			City:    getEnv("ORG_CITY", "Brooklyn, NY 11219"),
			Phone:   getEnv("ORG_PHONE", "(718) 436-8334"),
			Email:   getEnv("ORG_EMAIL", "info@beledsynagogue.org"),
			TaxID:   getEnv("ORG_TAX_ID", "11-3090728"),
		},
		Sponsorship: SponsorshipConfig{
			CurrentMonthIndex: getEnvAsInt("CURRENT_MONTH_INDEX", 0),
			StartYear:         getEnvAsInt("SPONSOR_START_YEAR", 5784),
			EndYear:           getEnvAsInt("SPONSOR_END_YEAR", 5788),
			WriteRetries:      getEnvAsInt("WRITE_RETRIES", 3),
			WriteBackoffMs:    int64(getEnvAsInt("WRITE_BACKOFF_MS", 200)),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}
}

// ----------------- VALIDATION -----------------

func (c *Config) Validate() error {
	var errs []string

	if err := c.Server.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("server config: %v", err))
	}
	if err := c.Database.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("database config: %v", err))
	}
	if err := c.Sponsorship.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("sponsorship config: %v", err))
	}
	if err := c.Organization.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("organization config: %v", err))
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

func (c *ServerConfig) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	if c.ReadTimeout < c.ReadHeaderTimeout {
		return errors.New("read_timeout must be >= read_header_timeout")
	}
	return nil
}

func (c *DatabaseConfig) Validate() error {
	if c.Source == "" {
		return errors.New("database source is required")
	}
	if c.MaxIdleConns > c.MaxOpenConns {
		return errors.New("max_idle_conns cannot be greater than max_open_conns")
	}
	return nil
}

func (c *SponsorshipConfig) Validate() error {
	if c.CurrentMonthIndex < 0 || c.CurrentMonthIndex > 11 {
		return fmt.Errorf("current_month_index must be 0-11, got %d", c.CurrentMonthIndex)
	}
	if c.StartYear > c.EndYear {
		return errors.New("start_year cannot be greater than end_year")
	}
	return nil
}

func (c *OrganizationConfig) Validate() error {
	if c.Name == "" {
		return errors.New("organization name is required")
	}
	return nil
}

func (c *DatabaseConfig) GetDSN() string {
	return c.Source
}

// Years returns the selectable Hebrew year partition keys, inclusive.
func (c *SponsorshipConfig) Years() []int {
	years := make([]int, 0, c.EndYear-c.StartYear+1)
	for y := c.StartYear; y <= c.EndYear; y++ {
		years = append(years, y)
	}
	return years
}

// ValidYear reports whether year is inside the configured selector set.
func (c *SponsorshipConfig) ValidYear(year int) bool {
	return year >= c.StartYear && year <= c.EndYear
}
