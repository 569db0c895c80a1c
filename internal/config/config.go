// Package config loads server configuration from the environment, with an
// optional .env file for local development.
package config

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"docpress/internal/core/types"
	"docpress/internal/render"
)

// Config is the full server configuration.
type Config struct {
	Env      string `envconfig:"APP_ENV" default:"development"`
	Port     string `envconfig:"APP_PORT" default:"8080"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	// DatabaseURL enables the Postgres storage backend. Empty runs the
	// server on the in-memory repository and file-backed counters.
	DatabaseURL string `envconfig:"DATABASE_URL"`

	// CountersFile backs the numbering counters when Postgres is off.
	CountersFile string `envconfig:"COUNTERS_FILE" default:"data/counters.json"`

	// ArtifactsDir is where the render CLI drops PDF files.
	ArtifactsDir string `envconfig:"ARTIFACTS_DIR" default:"artifacts"`

	TaxRate    string `envconfig:"TAX_RATE" default:"0.16"`
	IncludeTax bool   `envconfig:"INCLUDE_TAX" default:"true"`

	BaseCurrency    string `envconfig:"BASE_CURRENCY" default:"Ksh"`
	DisplayCurrency string `envconfig:"DISPLAY_CURRENCY"`

	Company CompanyConfig
}

// CompanyConfig is the issuing company profile.
type CompanyConfig struct {
	Name     string `envconfig:"COMPANY_NAME" default:"Docpress Ltd"`
	Address1 string `envconfig:"COMPANY_ADDRESS1"`
	Address2 string `envconfig:"COMPANY_ADDRESS2"`
	Phone    string `envconfig:"COMPANY_PHONE"`
	Email    string `envconfig:"COMPANY_EMAIL"`
	TaxID    string `envconfig:"COMPANY_TAX_ID"`
	LogoPath string `envconfig:"COMPANY_LOGO_PATH"`
}

// Load reads configuration from the environment. A .env file in the working
// directory is merged in first when present.
func Load() (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, fmt.Errorf("process environment: %w", err)
	}
	return cfg, nil
}

// ParsedTaxRate parses the configured tax fraction.
func (c Config) ParsedTaxRate() (types.Money, error) {
	rate, err := types.NewMoneyFromString(c.TaxRate)
	if err != nil {
		return types.Money{}, fmt.Errorf("parse TAX_RATE %q: %w", c.TaxRate, err)
	}
	return rate, nil
}

// RenderSettings builds the server-wide render settings.
func (c Config) RenderSettings() (render.Settings, error) {
	s := render.DefaultSettings()
	rate, err := c.ParsedTaxRate()
	if err != nil {
		return render.Settings{}, err
	}
	s.TaxRate = rate
	s.IncludeTax = c.IncludeTax
	s.BaseCurrency = c.BaseCurrency
	if c.DisplayCurrency != "" {
		s.DisplayCurrency = c.DisplayCurrency
	} else {
		s.DisplayCurrency = c.BaseCurrency
	}
	return s, nil
}

// RenderCompany builds the renderer company profile.
func (c Config) RenderCompany() render.Company {
	return render.Company{
		Name:     c.Company.Name,
		Address1: c.Company.Address1,
		Address2: c.Company.Address2,
		Phone:    c.Company.Phone,
		Email:    c.Company.Email,
		TaxID:    c.Company.TaxID,
		LogoPath: c.Company.LogoPath,
	}
}
