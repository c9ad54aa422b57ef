package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

type Config struct {
	Database  DatabaseConfig
	JWT       JWTConfig
	App       AppConfig
	Statutory StatutoryConfig
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret string
}

// AppConfig holds application configuration
type AppConfig struct {
	Port        int
	Env         string
	LogLevel    string
	FrontendURL string
}

// StatutoryConfig holds the versioned statutory rate table. Values default to
// the current gazetted rates and can be overridden per deployment without a
// code change.
type StatutoryConfig struct {
	RateTableVersion         string
	SocialSecurityTier1Limit decimal.Decimal
	SocialSecurityTier1Rate  decimal.Decimal
	SocialSecurityTier2Limit decimal.Decimal
	SocialSecurityTier2Rate  decimal.Decimal
	HealthLevyRate           decimal.Decimal
	HealthLevyMinimum        decimal.Decimal
	HousingLevyRate          decimal.Decimal
	PersonalRelief           decimal.Decimal
	// TaxBrackets is a comma-separated list of limit:rate pairs, ordered by
	// limit ascending, with "inf" for the unbounded top bracket.
	TaxBrackets string
}

func Load() (*Config, error) {
	// Missing .env is fine in containerized deployments; env vars win either way.
	_ = godotenv.Load()

	config := &Config{}

	// Database configuration
	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}

	config.Database = DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     dbPort,
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "payroll"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
	}

	// Application configuration
	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	config.App = AppConfig{
		Port:        appPort,
		Env:         getEnv("APP_ENV", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		FrontendURL: getEnv("FRONTEND_URL", "http://localhost:3000"),
	}

	// JWT configuration
	config.JWT = JWTConfig{
		Secret: getEnv("JWT_SECRET_KEY", ""),
	}

	// Statutory rate table
	statutory := StatutoryConfig{
		RateTableVersion: getEnv("STATUTORY_RATE_TABLE_VERSION", "2025-02"),
		TaxBrackets:      getEnv("TAX_BRACKETS", "24000:0.10,32333:0.25,500000:0.30,800000:0.325,inf:0.35"),
	}
	statutoryDecimals := []struct {
		dst      *decimal.Decimal
		key      string
		fallback string
	}{
		{&statutory.SocialSecurityTier1Limit, "SOCIAL_SECURITY_TIER1_LIMIT", "8000"},
		{&statutory.SocialSecurityTier1Rate, "SOCIAL_SECURITY_TIER1_RATE", "0.06"},
		{&statutory.SocialSecurityTier2Limit, "SOCIAL_SECURITY_TIER2_LIMIT", "72000"},
		{&statutory.SocialSecurityTier2Rate, "SOCIAL_SECURITY_TIER2_RATE", "0.06"},
		{&statutory.HealthLevyRate, "HEALTH_LEVY_RATE", "0.0275"},
		{&statutory.HealthLevyMinimum, "HEALTH_LEVY_MINIMUM", "300"},
		{&statutory.HousingLevyRate, "HOUSING_LEVY_RATE", "0.015"},
		{&statutory.PersonalRelief, "PERSONAL_RELIEF", "2400"},
	}
	for _, entry := range statutoryDecimals {
		value, err := decimal.NewFromString(getEnv(entry.key, entry.fallback))
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", entry.key, err)
		}
		*entry.dst = value
	}
	config.Statutory = statutory

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Database.Password == "" {
		return fmt.Errorf("DB_PASSWORD is required")
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	if c.Statutory.SocialSecurityTier1Limit.GreaterThan(c.Statutory.SocialSecurityTier2Limit) {
		return fmt.Errorf("SOCIAL_SECURITY_TIER1_LIMIT must not exceed SOCIAL_SECURITY_TIER2_LIMIT")
	}
	if strings.TrimSpace(c.Statutory.TaxBrackets) == "" {
		return fmt.Errorf("TAX_BRACKETS is required")
	}
	return nil
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
