package ebay

// Item is a normalized search result returned to callers. Missing
// upstream sub-fields degrade to zero values, never to an error.
type Item struct {
	Title     string   `json:"title,omitempty"`
	Price     *float64 `json:"price"`
	Currency  string   `json:"currency,omitempty"`
	URL       string   `json:"url"`
	Image     string   `json:"image,omitempty"`
	ItemID    string   `json:"item_id,omitempty"`
	Condition string   `json:"condition,omitempty"`
	Seller    string   `json:"seller,omitempty"`
}

// tokenResponse holds the response from the OAuth token endpoint.
type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
	TokenType   string `json:"token_type"`
}

// Wire shapes for the Browse item_summary/search response. Only the
// fields the mapper reads are declared.

type searchResponse struct {
	ItemSummaries []itemSummary `json:"itemSummaries"`
	Errors        []apiError    `json:"errors"`
}

type apiError struct {
	ErrorID     int64  `json:"errorId"`
	Message     string `json:"message"`
	LongMessage string `json:"longMessage"`
}

type itemSummary struct {
	ItemID              string       `json:"itemId"`
	Title               string       `json:"title"`
	Price               *priceField  `json:"price"`
	ItemWebURL          string       `json:"itemWebUrl"`
	ItemAffiliateWebURL string       `json:"itemAffiliateWebUrl"`
	Image               *imageField  `json:"image"`
	ThumbnailImages     []imageField `json:"thumbnailImages"`
	Condition           string       `json:"condition"`
	Seller              *sellerField `json:"seller"`
}

// priceField carries the value as a string on the wire.
type priceField struct {
	Value    string `json:"value"`
	Currency string `json:"currency"`
}

type imageField struct {
	ImageURL string `json:"imageUrl"`
}

type sellerField struct {
	Username string `json:"username"`
}
