package ebay

import (
	"strings"

	"giftsgiver/internal/common/config"
)

// Affiliate rewrites item URLs to embed EPN tracking identifiers using
// the query-append strategy: campid (and customid when set) are added to
// the existing query string. Wrapping is a no-op without a campaign id.
type Affiliate struct {
	campaignID string
	customID   string
}

func NewAffiliate(cfg config.AffiliateConfig) Affiliate {
	return Affiliate{
		campaignID: cfg.CampaignID,
		customID:   cfg.CustomID,
	}
}

// Wrap appends the tracking parameters to rawURL. Empty input and
// already-wrapped URLs are returned unchanged, so wrapping happens at
// most once per URL.
func (a Affiliate) Wrap(rawURL string) string {
	if a.campaignID == "" || rawURL == "" {
		return rawURL
	}
	if strings.Contains(rawURL, "campid=") {
		return rawURL
	}

	sep := "?"
	if strings.Contains(rawURL, "?") {
		sep = "&"
	}

	tail := "campid=" + a.campaignID
	if a.customID != "" {
		tail += "&customid=" + a.customID
	}
	return rawURL + sep + tail
}
