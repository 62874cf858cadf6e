package normalize

import (
	"strconv"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/yungbote/cinesync/internal/domain"
)

// crewSep is the fixed delimiter upstream ingestion uses for both names and
// roles inside a single crew string.
const crewSep = ", "

// ParseCrew splits a dirty crew string into sequential (name, role) pairs,
// preserving source order. A trailing token with no role is dropped; the
// upstream format gives no way to tell whether it is a name or a role.
func ParseCrew(raw string) []domain.CrewEntry {
	entries := []domain.CrewEntry{}
	if raw == "" {
		return entries
	}
	parts := strings.Split(raw, crewSep)
	for i := 0; i+1 < len(parts); i += 2 {
		entries = append(entries, domain.CrewEntry{
			Name: strings.TrimSpace(parts[i]),
			Role: strings.TrimSpace(parts[i+1]),
		})
	}
	return entries
}

// ParseDelimitedList splits and trims, dropping empty tokens.
func ParseDelimitedList(raw, sep string) []string {
	out := []string{}
	if strings.TrimSpace(raw) == "" {
		return out
	}
	for _, tok := range strings.Split(raw, sep) {
		if tok = strings.TrimSpace(tok); tok != "" {
			out = append(out, tok)
		}
	}
	return out
}

// ParseCurrency converts a loosely-typed numeric field to a float. Currency
// symbols and thousands separators are stripped first. Anything absent or
// unparseable is 0.0: unknown money is treated as zero rather than an error,
// so noisy records still flow through aggregation.
func ParseCurrency(raw any) float64 {
	switch v := raw.(type) {
	case nil:
		return 0
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	case int32:
		return float64(v)
	case int64:
		return float64(v)
	case string:
		cleaned := strings.ReplaceAll(v, "$", "")
		cleaned = strings.ReplaceAll(cleaned, ",", "")
		cleaned = strings.TrimSpace(cleaned)
		if cleaned == "" {
			return 0
		}
		f, err := strconv.ParseFloat(cleaned, 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}

// NormalizeTitle is the canonical cross-store join key: lowercased, with
// everything but ASCII letters and digits stripped. It is pure and
// locale-independent; two stores agree on a title exactly when this
// function maps both spellings to the same string.
func NormalizeTitle(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range raw {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r >= 'A' && r <= 'Z':
			b.WriteRune(r + ('a' - 'A'))
		}
	}
	return b.String()
}

// ParseBooleanFlag matches a case-insensitive allow-list of truthy tokens.
// Everything else, including the empty string, is false.
func ParseBooleanFlag(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "true", "1", "yes":
		return true
	default:
		return false
	}
}

// ParseDate reports (zero, false) instead of an error when the string does
// not match the layout. Movie release dates use MonthDayYearLayout.
func ParseDate(raw, layout string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(layout, raw)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// MonthDayYearLayout is the fixed month/day/year release-date format.
const MonthDayYearLayout = "01/02/2006"

// ParseObjectIDOrRaw converts an identifier to the store-native key type
// when possible and falls back to the raw string otherwise, so one
// unconvertible id narrows a filter instead of aborting the query.
func ParseObjectIDOrRaw(raw string) any {
	if oid, err := primitive.ObjectIDFromHex(raw); err == nil {
		return oid
	}
	return raw
}
