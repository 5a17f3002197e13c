package suggest

// FormPayload is the raw, loosely-structured object submitted by an
// external form or CRM system. Keys are not standardized; multiple
// aliases may refer to the same semantic field.
type FormPayload map[string]interface{}

// Canonical holds the field values resolved from a FormPayload. It is
// echoed back in responses for diagnostics; the search call itself only
// uses the derived SearchQuery.
type Canonical struct {
	Recipient            string   `json:"recipient,omitempty"`
	Relationship         string   `json:"relationship,omitempty"`
	AgeRange             string   `json:"age_range,omitempty"`
	Gender               string   `json:"gender,omitempty"`
	Occasion             string   `json:"occasion,omitempty"`
	HobbiesInterests     []string `json:"hobbies_interests"`
	FavoriteBrands       []string `json:"favorite_brands"`
	FavoriteColorsStyles []string `json:"favorite_colors_styles"`
	Dislikes             []string `json:"dislikes"`
	GiftTypePreference   string   `json:"gift_type_preference,omitempty"`
	LocationCity         string   `json:"location_city,omitempty"`
	BudgetRangeRaw       string   `json:"budget_range_raw,omitempty"`
	BudgetMin            *float64 `json:"budget_min"`
	BudgetMax            *float64 `json:"budget_max"`
}

// SearchQuery is the result of building a query from a form payload.
// Constructed once per request, never persisted.
type SearchQuery struct {
	Q        string    `json:"q"`
	PriceMin *float64  `json:"price_min"`
	PriceMax *float64  `json:"price_max"`
	Mapping  Canonical `json:"raw_mapping"`
}
