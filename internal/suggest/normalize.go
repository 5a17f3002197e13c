package suggest

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Pure text/number normalizers. No I/O, no state; every function
// degrades to "absent" rather than returning an error.

var (
	// Two decimal numbers separated by -, "to", en dash, em dash or "..".
	rangePattern  = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*(?:-|to|\x{2013}|\x{2014}|\.\.)\s*(\d+(?:\.\d+)?)`)
	numberPattern = regexp.MustCompile(`\d+(?:\.\d+)?`)
)

// NormalizeText returns the trimmed string form of v, or "" for absent input.
func NormalizeText(v interface{}) string {
	if v == nil {
		return ""
	}
	return strings.TrimSpace(stringify(v))
}

// ToFloat coerces a currency-like value ("$1,250.50") to a float.
// Returns nil for empty or unparseable input; it never fails.
func ToFloat(v interface{}) *float64 {
	if v == nil {
		return nil
	}
	s := stringify(v)
	s = strings.ReplaceAll(s, "$", "")
	s = strings.ReplaceAll(s, ",", "")
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

// ParseBudgetRange extracts price bounds from arbitrary free text.
// A two-number range returns both bounds ordered low-then-high; a single
// standalone number is treated as an upper bound only.
func ParseBudgetRange(raw interface{}) (*float64, *float64) {
	if raw == nil {
		return nil, nil
	}
	s := stringify(raw)
	for _, word := range []string{"$", "USD", "usd", "dollars"} {
		s = strings.ReplaceAll(s, word, "")
	}

	if m := rangePattern.FindStringSubmatch(s); m != nil {
		lo := ToFloat(m[1])
		hi := ToFloat(m[2])
		if lo != nil && hi != nil && *lo > *hi {
			lo, hi = hi, lo
		}
		return lo, hi
	}

	nums := numberPattern.FindAllString(s, -1)
	if len(nums) == 1 {
		return nil, ToFloat(nums[0])
	}
	return nil, nil
}

// CoerceToList turns an absent, list or scalar value into a list of
// trimmed non-empty strings. Scalars are split on commas after
// normalizing semicolons to commas. Order is preserved; duplicates are
// kept.
func CoerceToList(v interface{}) []string {
	result := []string{}
	if v == nil {
		return result
	}

	switch vv := v.(type) {
	case []string:
		for _, s := range vv {
			if t := strings.TrimSpace(s); t != "" {
				result = append(result, t)
			}
		}
	case []interface{}:
		for _, item := range vv {
			if t := strings.TrimSpace(stringify(item)); t != "" {
				result = append(result, t)
			}
		}
	default:
		s := strings.ReplaceAll(stringify(v), ";", ",")
		for _, tok := range strings.Split(s, ",") {
			if t := strings.TrimSpace(tok); t != "" {
				result = append(result, t)
			}
		}
	}

	return result
}

// JoinTerms flattens a mix of scalars and lists into an ordered sequence
// of trimmed non-empty tokens (scalars are additionally comma-split) and
// joins them with single spaces.
func JoinTerms(parts ...interface{}) string {
	var tokens []string
	for _, p := range parts {
		if p == nil {
			continue
		}
		switch pv := p.(type) {
		case []string:
			for _, s := range pv {
				if t := strings.TrimSpace(s); t != "" {
					tokens = append(tokens, t)
				}
			}
		case []interface{}:
			for _, item := range pv {
				if t := strings.TrimSpace(stringify(item)); t != "" {
					tokens = append(tokens, t)
				}
			}
		default:
			for _, tok := range strings.Split(stringify(p), ",") {
				if t := strings.TrimSpace(tok); t != "" {
					tokens = append(tokens, t)
				}
			}
		}
	}
	return strings.Join(tokens, " ")
}

// stringify renders a scalar the way the form systems send it: JSON
// numbers arrive as float64, so integral values drop the ".0" suffix.
func stringify(v interface{}) string {
	switch vv := v.(type) {
	case string:
		return vv
	case float64:
		return strconv.FormatFloat(vv, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(vv), 'f', -1, 32)
	case int:
		return strconv.Itoa(vv)
	case int64:
		return strconv.FormatInt(vv, 10)
	case bool:
		return strconv.FormatBool(vv)
	default:
		return fmt.Sprintf("%v", vv)
	}
}
