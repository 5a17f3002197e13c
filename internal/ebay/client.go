package ebay

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"giftsgiver/internal/common/config"
	apperrors "giftsgiver/internal/common/errors"
	"giftsgiver/internal/common/logger"
)

// Client issues authenticated Browse API searches and maps the results
// into normalized Items with affiliate-wrapped links.
type Client struct {
	cfg        config.EBayConfig
	sort       string
	tokens     TokenCache
	affiliate  Affiliate
	httpClient *http.Client
	logger     logger.Logger
}

func NewClient(cfg config.EBayConfig, search config.SearchConfig, tokens TokenCache, affiliate Affiliate, log logger.Logger) *Client {
	return &Client{
		cfg:       cfg,
		sort:      search.Sort,
		tokens:    tokens,
		affiliate: affiliate,
		httpClient: &http.Client{
			Timeout: config.GetDuration(cfg.Timeout),
		},
		logger: log.WithFields(map[string]interface{}{"component": "ebay"}),
	}
}

// Search runs a free-text item search with optional price bounds.
// Results come back sorted by ascending price; sorting itself is
// delegated to the API.
func (c *Client) Search(ctx context.Context, q string, priceMin, priceMax *float64, limit int) ([]Item, error) {
	token, err := c.tokens.Token(ctx)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.buildSearchURL(q, priceMin, priceMax, limit), nil)
	if err != nil {
		return nil, apperrors.NewUpstreamTransportError(err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded ||
			strings.Contains(err.Error(), "timeout") ||
			strings.Contains(err.Error(), "deadline") ||
			strings.Contains(err.Error(), "Client.Timeout") {
			return nil, apperrors.NewUpstreamTimeoutError()
		}
		return nil, apperrors.NewUpstreamTransportError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		c.logger.Error("search failed", map[string]interface{}{
			"status": resp.StatusCode,
			"body":   string(body),
		})
		return nil, apperrors.NewUpstreamError(resp.StatusCode, string(body))
	}

	var sr searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return nil, apperrors.NewUpstreamTransportError(err)
	}

	// A 2xx body can still carry a provider-side errors array; surface
	// it instead of treating it as zero results.
	if len(sr.Errors) > 0 {
		first := sr.Errors[0]
		msg := first.LongMessage
		if msg == "" {
			msg = first.Message
		}
		c.logger.Error("search returned provider errors", map[string]interface{}{
			"errorId": first.ErrorID,
			"message": msg,
		})
		return nil, apperrors.NewUpstreamError(resp.StatusCode, msg)
	}

	items := make([]Item, 0, len(sr.ItemSummaries))
	for _, it := range sr.ItemSummaries {
		items = append(items, c.mapItem(it))
	}

	c.logger.Info("search completed", map[string]interface{}{
		"q":           q,
		"resultCount": len(items),
	})

	return items, nil
}

func (c *Client) buildSearchURL(q string, priceMin, priceMax *float64, limit int) string {
	baseURL, _ := url.Parse(c.cfg.BrowseURL)
	params := url.Values{}
	params.Set("q", q)
	params.Set("limit", strconv.Itoa(limit))
	params.Set("sort", c.sort)

	if filter := priceFilter(priceMin, priceMax); filter != "" {
		params.Set("filter", filter)
	}

	baseURL.RawQuery = params.Encode()
	return baseURL.String()
}

// priceFilter renders the single combined Browse price range
// expression: [min..max], [min..], or [..max].
func priceFilter(priceMin, priceMax *float64) string {
	switch {
	case priceMin != nil && priceMax != nil:
		return "price:[" + formatPrice(*priceMin) + ".." + formatPrice(*priceMax) + "]"
	case priceMin != nil:
		return "price:[" + formatPrice(*priceMin) + "..]"
	case priceMax != nil:
		return "price:[.." + formatPrice(*priceMax) + "]"
	default:
		return ""
	}
}

func formatPrice(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// mapItem normalizes one upstream record. Missing sub-fields degrade to
// absent; the URL prefers the direct web URL over the affiliate one and
// is wrapped exactly once here.
func (c *Client) mapItem(it itemSummary) Item {
	item := Item{
		Title:     it.Title,
		ItemID:    it.ItemID,
		Condition: it.Condition,
	}

	if it.Price != nil {
		item.Price = parsePrice(it.Price.Value)
		item.Currency = it.Price.Currency
	}

	u := it.ItemWebURL
	if u == "" {
		u = it.ItemAffiliateWebURL
	}
	if u != "" {
		u = c.affiliate.Wrap(u)
	}
	item.URL = u

	if it.Image != nil && it.Image.ImageURL != "" {
		item.Image = it.Image.ImageURL
	} else if len(it.ThumbnailImages) > 0 {
		item.Image = it.ThumbnailImages[0].ImageURL
	}

	if it.Seller != nil {
		item.Seller = it.Seller.Username
	}

	return item
}

func parsePrice(s string) *float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &f
}
