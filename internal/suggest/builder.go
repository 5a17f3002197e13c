package suggest

import "strings"

// Alias lists per canonical field, evaluated first-match-wins. The odd
// concatenated spellings (recipient_namenickname, hobbiesinterests) are
// how the form vendor flattens its field labels.
var (
	recipientAliases    = []string{"recipient_namenickname", "recipient_name", "recipient"}
	relationshipAliases = []string{"relationship_to_you", "relationship"}
	ageRangeAliases     = []string{"age_range"}
	genderAliases       = []string{"genderpronouns", "gender_pronouns", "gender"}
	occasionAliases     = []string{"occasion"}
	hobbiesAliases      = []string{"hobbiesinterests", "hobbies", "interests"}
	brandsAliases       = []string{"favorite_brandsstores", "favorite_brands", "brand_likes"}
	colorsAliases       = []string{"favorite_colorsstyles", "favorite_colors", "style"}
	dislikesAliases     = []string{"anything_they_dont_like__avoid", "dislikes", "avoid"}
	giftTypeAliases     = []string{"gift_type_preference", "gift_type"}
	locationAliases     = []string{"locationcity", "city"}
	budgetAliases       = []string{"budget_range", "budget"}
)

// fallbackQuery is used when a payload yields no usable terms at all.
const fallbackQuery = "gift ideas"

// pick returns the first present, non-empty value among the candidate
// keys. An empty string counts as "not provided".
func pick(form FormPayload, keys []string) interface{} {
	for _, k := range keys {
		v, ok := form[k]
		if !ok || v == nil {
			continue
		}
		if s, isStr := v.(string); isStr && s == "" {
			continue
		}
		return v
	}
	return nil
}

// flatten merges a nested "contact" sub-mapping into the top level.
// Top-level keys win on collision.
func flatten(raw FormPayload) FormPayload {
	contact, ok := raw["contact"].(map[string]interface{})
	if !ok {
		return raw
	}
	base := make(FormPayload, len(contact)+len(raw))
	for k, v := range contact {
		base[k] = v
	}
	for k, v := range raw {
		if k != "contact" {
			base[k] = v
		}
	}
	return base
}

// BuildQuery maps a raw form payload to a search query. It never fails:
// unknown keys are ignored and a payload with no recognized fields
// still produces the fallback query.
func BuildQuery(raw FormPayload) *SearchQuery {
	form := flatten(raw)

	c := Canonical{
		Recipient:            NormalizeText(pick(form, recipientAliases)),
		Relationship:         NormalizeText(pick(form, relationshipAliases)),
		AgeRange:             NormalizeText(pick(form, ageRangeAliases)),
		Gender:               NormalizeText(pick(form, genderAliases)),
		Occasion:             NormalizeText(pick(form, occasionAliases)),
		HobbiesInterests:     CoerceToList(pick(form, hobbiesAliases)),
		FavoriteBrands:       CoerceToList(pick(form, brandsAliases)),
		FavoriteColorsStyles: CoerceToList(pick(form, colorsAliases)),
		Dislikes:             CoerceToList(pick(form, dislikesAliases)),
		GiftTypePreference:   NormalizeText(pick(form, giftTypeAliases)),
		LocationCity:         NormalizeText(pick(form, locationAliases)),
	}

	budgetRaw := pick(form, budgetAliases)
	c.BudgetRangeRaw = NormalizeText(budgetRaw)
	c.BudgetMin, c.BudgetMax = ParseBudgetRange(budgetRaw)

	q := JoinTerms(
		c.Relationship,
		c.Occasion,
		c.HobbiesInterests,
		c.FavoriteBrands,
		c.FavoriteColorsStyles,
		c.GiftTypePreference,
	)

	// Soft terms broaden recall without being primary filters; order is
	// fixed: age range, gender, location, then negated dislikes.
	var soft []string
	if c.AgeRange != "" {
		soft = append(soft, c.AgeRange)
	}
	if c.Gender != "" {
		soft = append(soft, c.Gender)
	}
	if c.LocationCity != "" {
		soft = append(soft, c.LocationCity)
	}
	for _, d := range c.Dislikes {
		soft = append(soft, "not "+d)
	}
	if len(soft) > 0 {
		q = strings.TrimSpace(q + " " + strings.Join(soft, " "))
	}

	if strings.TrimSpace(q) == "" {
		q = fallbackQuery
	}

	return &SearchQuery{
		Q:        strings.TrimSpace(q),
		PriceMin: c.BudgetMin,
		PriceMax: c.BudgetMax,
		Mapping:  c,
	}
}
