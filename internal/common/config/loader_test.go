// internal/common/config/loader_test.go
package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "giftsgiver/internal/common/errors"
)

func TestLoadAppliesDefaults(t *testing.T) {
	t.Setenv("EBAY_CLIENT_ID", "test-client")
	t.Setenv("EBAY_CLIENT_SECRET", "test-secret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "test-client", cfg.EBay.ClientID)
	assert.Equal(t, ":8080", cfg.Server.Address)
	assert.Equal(t, "https://api.ebay.com/oauth/api_scope", cfg.EBay.Scope)
	assert.Equal(t, "https://api.ebay.com/identity/v1/oauth2/token", cfg.EBay.TokenURL)
	assert.Equal(t, "https://api.ebay.com/buy/browse/v1/item_summary/search", cfg.EBay.BrowseURL)
	assert.Equal(t, 30000, cfg.EBay.Timeout)
	assert.Equal(t, "giftsgiver", cfg.Affiliate.CustomID)
	assert.Equal(t, 12, cfg.Search.Limit)
	assert.Equal(t, "price", cfg.Search.Sort)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("EBAY_CLIENT_ID", "test-client")
	t.Setenv("EBAY_CLIENT_SECRET", "test-secret")
	t.Setenv("EPN_CAMPAIGN_ID", "5338")
	t.Setenv("EPN_CUSTOM_ID", "my-custom")
	t.Setenv("REDIS_ADDRESS", "localhost:6379")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "5338", cfg.Affiliate.CampaignID)
	assert.Equal(t, "my-custom", cfg.Affiliate.CustomID)
	assert.Equal(t, "localhost:6379", cfg.Redis.Address)
}

func TestLoadFailsWithoutCredentials(t *testing.T) {
	t.Setenv("EBAY_CLIENT_ID", "")
	t.Setenv("EBAY_CLIENT_SECRET", "")

	_, err := Load()
	require.Error(t, err)

	se := apperrors.AsStandardError(err)
	require.NotNil(t, se)
	assert.Equal(t, apperrors.ErrCodeMissingCredentials, se.Code)
	assert.Contains(t, se.Details, "EBAY_CLIENT_ID")
	assert.Contains(t, se.Details, "EBAY_CLIENT_SECRET")
}

func TestLoadFromFileBlanksUnsetPlaceholders(t *testing.T) {
	t.Cleanup(viper.Reset)

	t.Setenv("EBAY_CLIENT_ID", "test-client")
	t.Setenv("EBAY_CLIENT_SECRET", "test-secret")
	t.Setenv("EPN_CAMPAIGN_ID", "")
	t.Setenv("REDIS_ADDRESS", "")

	cfg, err := LoadFromFile("../../../configs/config.yaml")
	require.NoError(t, err)

	// An unset ${VAR} must not survive as a literal value: the campaign
	// id stays empty (affiliate wrapping is a no-op) and Redis stays
	// disabled.
	assert.Equal(t, "", cfg.Affiliate.CampaignID)
	assert.Equal(t, "", cfg.Redis.Address)
	assert.Equal(t, "test-client", cfg.EBay.ClientID)
}

func TestLoadFromFileFailsOnUnsetCredentialPlaceholders(t *testing.T) {
	t.Cleanup(viper.Reset)

	t.Setenv("EBAY_CLIENT_ID", "")
	t.Setenv("EBAY_CLIENT_SECRET", "")

	_, err := LoadFromFile("../../../configs/config.yaml")
	require.Error(t, err)

	se := apperrors.AsStandardError(err)
	require.NotNil(t, se)
	assert.Equal(t, apperrors.ErrCodeMissingCredentials, se.Code)
}

func TestGetDuration(t *testing.T) {
	assert.Equal(t, 30*time.Second, GetDuration(30000))
	assert.Equal(t, time.Duration(0), GetDuration(0))
}
