// Package guard implements pattern-based validation and sanitization for
// user-supplied fields: shape constraints per field kind plus a fixed battery
// of injection signatures. It is a rejection layer in front of the
// parameterized queries at the data access layer, not a security boundary of
// its own; the battery is heuristic and errs toward rejecting
// suspicious-looking text.
package guard

import (
	"regexp"
	"strings"
)

// MaxPrice is the upper bound accepted for any price value, in the store
// currency. Anything above it is treated as operator error.
const MaxPrice = 1_000_000

// Rule selects the shape constraints applied to a sanitized value.
type Rule int

const (
	// Identifier allows letters, digits, underscore and hyphen, 1-50 chars.
	Identifier Rule = iota
	// Email requires a plausible address no longer than 255 chars.
	Email
	// ShortText allows up to 100 chars, e.g. names and titles.
	ShortText
	// MediumText allows up to 255 chars, e.g. categories and brands.
	MediumText
	// LongText allows up to 2000 chars, e.g. descriptions.
	LongText
)

var (
	identifierRe = regexp.MustCompile(`^[A-Za-z0-9_-]{1,50}$`)
	emailRe      = regexp.MustCompile(`^[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}$`)
)

// injectionPatterns is the fixed battery of injection signatures. It is
// always checked against the raw input, before any normalization, so that
// stripping quotes cannot hide a payload from it.
var injectionPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\bunion\b[\s(]*\bselect\b`),
	regexp.MustCompile(`(?i)\bselect\b[\s\S]+\bfrom\b`),
	regexp.MustCompile(`(?i)\binsert\s+into\b`),
	regexp.MustCompile(`(?i)\bdelete\s+from\b`),
	regexp.MustCompile(`(?i)\bdrop\s+(table|database)\b`),
	regexp.MustCompile(`(?i)\bupdate\s+\S+\s+set\b`),
	regexp.MustCompile(`(?i);\s*(select|insert|update|delete|drop|alter|create|exec|execute)\b`),
	regexp.MustCompile(`(?i)'\s*or\s*'[^']*'\s*=\s*'`),
	regexp.MustCompile(`(?i)\bor\s+\d+\s*=\s*\d+`),
	regexp.MustCompile(`--`),
	regexp.MustCompile(`#`),
	regexp.MustCompile(`/\*[\s\S]*?\*/`),
	regexp.MustCompile(`(?i)<\s*script\b`),
	regexp.MustCompile(`(?i)\bjavascript\s*:`),
	regexp.MustCompile(`(?i)\bon\w+\s*=`),
}

// dangerousKeywords marks where sanitization truncates: everything from the
// first recognized SQL keyword onward is dropped.
var dangerousKeywords = regexp.MustCompile(`(?i)\b(select|insert|update|delete|drop|union|alter|create|truncate|exec|execute|script)\b`)

// ContainsInjection reports whether raw matches any signature in the battery.
func ContainsInjection(raw string) bool {
	for _, re := range injectionPatterns {
		if re.MatchString(raw) {
			return true
		}
	}
	return false
}

// Sanitize normalizes a value that already passed the injection check: it
// strips control characters (keeping tab and newline), quotes and
// backslashes, truncates at the first dangerous keyword, and trims
// surrounding whitespace.
func Sanitize(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range raw {
		if r == '\n' || r == '\t' {
			b.WriteRune(r)
			continue
		}
		if r < 0x20 || r == 0x7f {
			continue
		}
		switch r {
		case '\'', '"', '`', '\\':
			continue
		}
		b.WriteRune(r)
	}
	s := b.String()
	if loc := dangerousKeywords.FindStringIndex(s); loc != nil {
		s = s[:loc[0]]
	}
	return strings.TrimSpace(s)
}

// ValidateAndSanitize checks raw against the injection battery, then
// sanitizes it and applies the rule's shape constraints. ok is false when the
// input must be rejected; the cleaned value is returned only when it
// satisfies both checks.
func ValidateAndSanitize(raw string, rule Rule) (cleaned string, ok bool) {
	if ContainsInjection(raw) {
		return "", false
	}
	s := Sanitize(raw)
	if !shapeOK(s, rule) {
		return "", false
	}
	return s, true
}

func shapeOK(s string, rule Rule) bool {
	switch rule {
	case Identifier:
		return identifierRe.MatchString(s)
	case Email:
		return len(s) <= 255 && emailRe.MatchString(s)
	case ShortText:
		return len(s) >= 1 && len(s) <= 100
	case MediumText:
		return len(s) >= 1 && len(s) <= 255
	case LongText:
		return len(s) >= 1 && len(s) <= 2000
	}
	return false
}

// ValidPrice reports whether v is a positive price within the accepted bound.
func ValidPrice(v float64) bool {
	return v > 0 && v <= MaxPrice
}

// ValidPriceRange reports whether [min, max] is a well-formed price window.
func ValidPriceRange(min, max float64) bool {
	return min >= 0 && max <= MaxPrice && min <= max
}
