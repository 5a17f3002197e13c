package config

// Config is the main application configuration struct.
type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Server    ServerConfig    `mapstructure:"server"`
	EBay      EBayConfig      `mapstructure:"ebay"`
	Affiliate AffiliateConfig `mapstructure:"affiliate"`
	Search    SearchConfig    `mapstructure:"search"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

// --- Core App/Infrastructure Config ---

type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type ServerConfig struct {
	Address string `mapstructure:"address"`
}

// EBayConfig holds credentials and endpoints for the eBay Browse API.
type EBayConfig struct {
	ClientID     string `mapstructure:"client_id"`
	ClientSecret string `mapstructure:"client_secret"`
	Scope        string `mapstructure:"scope"`
	TokenURL     string `mapstructure:"token_url"`
	BrowseURL    string `mapstructure:"browse_url"`
	Timeout      int    `mapstructure:"timeout"` // milliseconds
}

// AffiliateConfig holds EPN tracking identifiers. An empty campaign id
// turns affiliate wrapping into a no-op.
type AffiliateConfig struct {
	CampaignID string `mapstructure:"campaign_id"`
	CustomID   string `mapstructure:"custom_id"`
}

// SearchConfig holds request-shaping settings for the search call.
type SearchConfig struct {
	Limit int    `mapstructure:"limit"`
	Sort  string `mapstructure:"sort"`
}

// RedisConfig enables the shared token cache when Address is set.
type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}
