package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	apperrors "giftsgiver/internal/common/errors"
)

func Load() (*Config, error) {
	loadEnvFile()

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./configs")
	viper.AddConfigPath("../../configs")
	viper.AddConfigPath(".")

	// Enable ENV override like EBAY_CLIENT_ID
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading base config: %w", err)
		}
	}

	expandEnvVars(viper.GetViper())

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	overrideEmptyConfig(&cfg)
	applyDefaults(&cfg)

	if err := validateConfig(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// LoadFromFile loads configuration from a specific file path.
func LoadFromFile(path string) (*Config, error) {
	loadEnvFile()

	viper.SetConfigFile(path)
	viper.SetConfigType("yaml")

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	expandEnvVars(viper.GetViper())

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	overrideEmptyConfig(&cfg)
	applyDefaults(&cfg)

	if err := validateConfig(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// loadEnvFile tries .env from the usual locations relative to the binary
// and test working directories.
func loadEnvFile() {
	possiblePaths := []string{
		".env",
		"../.env",
		"../../.env",
		"../../../.env",
	}

	if rootDir := findProjectRoot(); rootDir != "" {
		possiblePaths = append(possiblePaths, filepath.Join(rootDir, ".env"))
	}

	for _, path := range possiblePaths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Load(path); err == nil {
				return
			}
		}
	}
}

// findProjectRoot walks up directories looking for go.mod.
func findProjectRoot() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return ""
}

// expandEnvVars resolves ${VAR} placeholders in string config values.
// Unset variables expand to "", so a leftover "${VAR}" literal can
// never pose as a real credential, campaign id or address.
func expandEnvVars(v *viper.Viper) {
	for _, key := range v.AllKeys() {
		val := v.Get(key)

		if strVal, ok := val.(string); ok {
			if strings.Contains(strVal, "${") || (strings.HasPrefix(strVal, "$") && len(strVal) > 1) {
				v.Set(key, os.ExpandEnv(strVal))
			}
		}
	}
}

// overrideEmptyConfig applies direct env fallbacks for values that are
// still empty after viper binding.
func overrideEmptyConfig(cfg *Config) {
	if cfg.EBay.ClientID == "" {
		if val := os.Getenv("EBAY_CLIENT_ID"); val != "" {
			cfg.EBay.ClientID = val
		}
	}
	if cfg.EBay.ClientSecret == "" {
		if val := os.Getenv("EBAY_CLIENT_SECRET"); val != "" {
			cfg.EBay.ClientSecret = val
		}
	}
	if cfg.Affiliate.CampaignID == "" {
		if val := os.Getenv("EPN_CAMPAIGN_ID"); val != "" {
			cfg.Affiliate.CampaignID = val
		}
	}
	if cfg.Affiliate.CustomID == "" {
		if val := os.Getenv("EPN_CUSTOM_ID"); val != "" {
			cfg.Affiliate.CustomID = val
		}
	}
	if cfg.Redis.Address == "" {
		if val := os.Getenv("REDIS_ADDRESS"); val != "" {
			cfg.Redis.Address = val
		}
	}
}

// applyDefaults sets default values for optional configuration fields.
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "giftsgiver"
	}
	if cfg.Server.Address == "" {
		cfg.Server.Address = ":8080"
	}

	if cfg.EBay.Scope == "" {
		cfg.EBay.Scope = "https://api.ebay.com/oauth/api_scope"
	}
	if cfg.EBay.TokenURL == "" {
		cfg.EBay.TokenURL = "https://api.ebay.com/identity/v1/oauth2/token"
	}
	if cfg.EBay.BrowseURL == "" {
		cfg.EBay.BrowseURL = "https://api.ebay.com/buy/browse/v1/item_summary/search"
	}
	if cfg.EBay.Timeout == 0 {
		cfg.EBay.Timeout = 30000
	}

	if cfg.Affiliate.CustomID == "" {
		cfg.Affiliate.CustomID = "giftsgiver"
	}

	if cfg.Search.Limit == 0 {
		cfg.Search.Limit = 12
	}
	if cfg.Search.Sort == "" {
		cfg.Search.Sort = "price"
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
}

// validateConfig validates critical configuration fields. Missing eBay
// credentials are fatal: the process must not start without them.
func validateConfig(cfg *Config) error {
	var missing []string
	if cfg.EBay.ClientID == "" {
		missing = append(missing, "EBAY_CLIENT_ID")
	}
	if cfg.EBay.ClientSecret == "" {
		missing = append(missing, "EBAY_CLIENT_SECRET")
	}
	if len(missing) > 0 {
		return apperrors.NewMissingCredentialsError(strings.Join(missing, ", "))
	}
	return nil
}

// GetDuration converts milliseconds from config to time.Duration.
func GetDuration(milliseconds int) time.Duration {
	return time.Duration(milliseconds) * time.Millisecond
}
