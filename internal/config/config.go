// Package config builds the process configuration from the environment.
// It is read once at startup and passed down explicitly.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"itsync/internal/core/domain"
	"itsync/internal/logger"
)

const (
	defaultPort           = "8080"
	defaultMerakiBaseURL  = "https://api.meraki.com/api/v1"
	defaultGraphBaseURL   = "https://graph.microsoft.com/v1.0"
	defaultLoginBaseURL   = "https://login.microsoftonline.com"
	defaultWorkers        = 8
	defaultHTTPTimeout    = 30 * time.Second
	defaultLookbackDays   = 7
	defaultDirectoryPages = 50
	defaultMerakiPages    = 100
)

// Config is the full process configuration.
type Config struct {
	Port        string
	DatabaseURL string
	// DeviceCSV seeds the in-memory store when no database is configured.
	DeviceCSV   string
	Workers     int
	HTTPTimeout time.Duration
	Log         logger.Config

	Meraki       MerakiConfig
	Freshservice FreshserviceConfig
	Azure        AzureConfig
}

type MerakiConfig struct {
	APIKey       string
	BaseURL      string
	ReportDays   float64
	ProductTypes []string
	MaxPages     int
}

// Enabled reports whether the integration has credentials.
func (c MerakiConfig) Enabled() bool { return c.APIKey != "" }

type FreshserviceConfig struct {
	APIKey       string
	Domain       string
	BaseURL      string // overrides https://<Domain>, used by tests
	LookbackDays int
}

func (c FreshserviceConfig) Enabled() bool {
	return c.APIKey != "" && (c.Domain != "" || c.BaseURL != "")
}

type AzureTenant struct {
	Prefix       string
	TenantID     string
	ClientID     string
	ClientSecret string
	CompanyName  string
}

type AzureConfig struct {
	Tenants      []AzureTenant
	GraphBaseURL string
	LoginBaseURL string
	MaxPages     int
}

func (c AzureConfig) Enabled() bool { return len(c.Tenants) > 0 }

// defaultCompanies keeps the historical tenant prefixes working without an
// explicit <P>_AZURE_COMPANY_NAME.
var defaultCompanies = map[string]string{
	"SE":  "Samuel Engineering",
	"EPC": "Samuel EPC",
}

// Load reads the configuration from the environment.
func Load() (*Config, error) {
	cfg := &Config{
		Port:        getEnv("PORT", defaultPort),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		DeviceCSV:   os.Getenv("DEVICE_CSV"),
		Log:         logger.DefaultConfig(),
	}

	var err error

	if cfg.Workers, err = getInt("SYNC_WORKERS", defaultWorkers); err != nil {
		return nil, err
	}
	if cfg.Workers <= 0 {
		return nil, fmt.Errorf("SYNC_WORKERS must be positive, got %d", cfg.Workers)
	}

	if cfg.HTTPTimeout, err = getDuration("HTTP_TIMEOUT", defaultHTTPTimeout); err != nil {
		return nil, err
	}

	if cfg.Meraki, err = loadMeraki(); err != nil {
		return nil, err
	}

	if cfg.Freshservice, err = loadFreshservice(); err != nil {
		return nil, err
	}

	if cfg.Azure, err = loadAzure(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func loadMeraki() (MerakiConfig, error) {
	days, err := getFloat("MERAKI_REPORT_DAYS", 7)
	if err != nil {
		return MerakiConfig{}, err
	}
	if err := domain.ValidateWindowDays(days); err != nil {
		return MerakiConfig{}, fmt.Errorf("MERAKI_REPORT_DAYS: %w", err)
	}

	pages, err := getInt("MERAKI_MAX_PAGES", defaultMerakiPages)
	if err != nil {
		return MerakiConfig{}, err
	}

	return MerakiConfig{
		APIKey:       os.Getenv("MERAKI_API_KEY"),
		BaseURL:      strings.TrimRight(getEnv("MERAKI_BASE_URL", defaultMerakiBaseURL), "/"),
		ReportDays:   days,
		ProductTypes: splitList(getEnv("MERAKI_PRODUCT_TYPES", "switch,wireless,sensor")),
		MaxPages:     pages,
	}, nil
}

func loadFreshservice() (FreshserviceConfig, error) {
	days, err := getInt("FRESH_SERVICE_LOOKBACK_DAYS", defaultLookbackDays)
	if err != nil {
		return FreshserviceConfig{}, err
	}

	return FreshserviceConfig{
		APIKey:       os.Getenv("FRESH_SERVICE_API_KEY"),
		Domain:       os.Getenv("FRESH_SERVICE_DOMAIN"),
		BaseURL:      strings.TrimRight(os.Getenv("FRESH_SERVICE_BASE_URL"), "/"),
		LookbackDays: days,
	}, nil
}

func loadAzure() (AzureConfig, error) {
	pages, err := getInt("AZURE_MAX_PAGES", defaultDirectoryPages)
	if err != nil {
		return AzureConfig{}, err
	}

	cfg := AzureConfig{
		GraphBaseURL: strings.TrimRight(getEnv("AZURE_GRAPH_BASE_URL", defaultGraphBaseURL), "/"),
		LoginBaseURL: strings.TrimRight(getEnv("AZURE_LOGIN_BASE_URL", defaultLoginBaseURL), "/"),
		MaxPages:     pages,
	}

	for _, prefix := range splitList(getEnv("AZURE_TENANTS", "SE,EPC")) {
		prefix = strings.ToUpper(prefix)

		tenant := AzureTenant{
			Prefix:       prefix,
			TenantID:     os.Getenv(prefix + "_AZURE_TENANT_ID"),
			ClientID:     os.Getenv(prefix + "_AZURE_CLIENT_ID"),
			ClientSecret: os.Getenv(prefix + "_AZURE_CLIENT_SECRET"),
			CompanyName:  getEnv(prefix+"_AZURE_COMPANY_NAME", defaultCompanies[prefix]),
		}

		if tenant.TenantID == "" && tenant.ClientID == "" && tenant.ClientSecret == "" {
			continue
		}

		if tenant.TenantID == "" || tenant.ClientID == "" || tenant.ClientSecret == "" {
			return AzureConfig{}, fmt.Errorf("missing %s Azure environment variables", prefix)
		}

		if tenant.CompanyName == "" {
			return AzureConfig{}, fmt.Errorf("%s_AZURE_COMPANY_NAME is required", prefix)
		}

		cfg.Tenants = append(cfg.Tenants, tenant)
	}

	return cfg, nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getInt(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}

	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

func getFloat(key string, def float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}

	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return f, nil
}

func getDuration(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}

	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
