/*
normalize.go - Key normalization, date parsing, and numeric coercion

PURPOSE:
  Every raw field crosses through this file before any business logic
  sees it. Mismatched registration-number padding is the single largest
  source of silent reconciliation failure in the feeding systems, and
  NaN propagation through unsanitized numeric fields is a documented
  defect class, so normalization is centralized and strict.

GUARANTEES:
  - NormalizeRegistrationID is idempotent: f(f(x)) == f(x)
  - ParseFlexibleDate never panics; unknown formats return ok=false
  - CoerceDecimal maps null/NaN/Inf/non-numeric inputs to zero

SEE ALSO:
  - reconcile.go: joins on the normalized registration id
  - api/dto.go: applies coercion at the HTTP boundary
*/
package engine

import (
	"math"
	"strings"
	"time"
	"unicode"

	"github.com/shopspring/decimal"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// registrationIDWidth is the canonical zero-padded width of a gym
// membership number (matrícula).
const registrationIDWidth = 6

// NormalizeRegistrationID strips all non-digit characters and left-pads
// with zeros to six digits. Sales and discounts must both pass through
// here before any join. An input with no digits at all normalizes to the
// empty string so it can never match a real membership.
func NormalizeRegistrationID(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()
	if digits == "" {
		return ""
	}
	if len(digits) >= registrationIDWidth {
		return digits
	}
	return strings.Repeat("0", registrationIDWidth-len(digits)) + digits
}

// =============================================================================
// FLEXIBLE DATE PARSING
// =============================================================================

var dateLayouts = []string{
	"2006-01-02",
	"02/01/2006",
	"02-01-2006",
}

// ParseFlexibleDate accepts ISO (YYYY-MM-DD, optionally with a trailing
// time component), DD/MM/YYYY, and DD-MM-YYYY. Unrecognized input
// returns the zero time and ok=false; it never returns an error and
// never panics.
func ParseFlexibleDate(raw string) (time.Time, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, false
	}
	// ISO timestamps: keep only the date part.
	if len(s) > 10 && (s[10] == 'T' || s[10] == ' ') && strings.Count(s[:10], "-") == 2 {
		s = s[:10]
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// =============================================================================
// NUMERIC COERCION
// =============================================================================

// CoerceDecimal converts an untyped raw value into a finite decimal.
// nil, NaN, Inf, and non-numeric strings all coerce to zero. Downstream
// sums must use the coerced value, never the raw field.
func CoerceDecimal(raw any) decimal.Decimal {
	switch v := raw.(type) {
	case nil:
		return decimal.Zero
	case decimal.Decimal:
		return v
	case float64:
		return coerceFloat(v)
	case float32:
		return coerceFloat(float64(v))
	case int:
		return decimal.NewFromInt(int64(v))
	case int64:
		return decimal.NewFromInt(v)
	case string:
		return coerceString(v)
	default:
		return decimal.Zero
	}
}

func coerceFloat(f float64) decimal.Decimal {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return decimal.Zero
	}
	return decimal.NewFromFloat(f)
}

func coerceString(s string) decimal.Decimal {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero
	}
	// Brazilian POS exports use comma as the decimal separator.
	if strings.Contains(s, ",") && !strings.Contains(s, ".") {
		s = strings.ReplaceAll(s, ",", ".")
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// =============================================================================
// TEXT FOLDING - Case- and accent-insensitive matching
// =============================================================================

var accentStripper = transform.Chain(
	norm.NFD,
	runes.Remove(runes.In(unicode.Mn)),
	norm.NFC,
)

// FoldText lowercases and strips accents so "Diária", "DIARIA" and
// "diaria" all compare equal. Used by every free-text classification
// rule in the engine.
func FoldText(s string) string {
	folded, _, err := transform.String(accentStripper, s)
	if err != nil {
		folded = s
	}
	return strings.ToLower(strings.TrimSpace(folded))
}
