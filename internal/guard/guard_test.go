package guard

import "testing"

// ---------------------------------------------------------------------------
// Injection battery
// ---------------------------------------------------------------------------

func TestContainsInjection_MaliciousInputs(t *testing.T) {
	cases := []string{
		"'; DROP TABLE products; --",
		"1 UNION SELECT username, password FROM users",
		"union(select 1,2,3)",
		"admin' OR '1'='1",
		"x OR 1=1",
		"DELETE FROM orders WHERE 1=1",
		"INSERT INTO users VALUES ('x')",
		"UPDATE products SET price=0",
		"drop database catalog",
		"name; select * from users",
		"note -- trailing comment",
		"value # comment",
		"text /* hidden */ more",
		"<script>alert(1)</script>",
		"<SCRIPT src=x>",
		"javascript:alert(document.cookie)",
		"<img onerror=alert(1)>",
	}
	for _, in := range cases {
		if !ContainsInjection(in) {
			t.Errorf("ContainsInjection(%q) = false, want true", in)
		}
	}
}

func TestContainsInjection_BenignInputs(t *testing.T) {
	cases := []string{
		"electric guitar",
		"Fender Stratocaster 62 Reissue",
		"alice",
		"alice@example.com",
		"6-string bass with active pickups",
		"Selected works of Bach",
		"dropped D tuning songbook",
		"update on your order",
	}
	for _, in := range cases {
		if ContainsInjection(in) {
			t.Errorf("ContainsInjection(%q) = true, want false", in)
		}
	}
}

// ---------------------------------------------------------------------------
// Sanitize
// ---------------------------------------------------------------------------

func TestSanitize(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"trims whitespace", "  electric guitar  ", "electric guitar"},
		{"strips quotes", `it's a "great" deal`, "its a great deal"},
		{"strips backslash", `C:\path\to`, "C:pathto"},
		{"strips control chars", "line\x00one\x07", "lineone"},
		{"keeps tab and newline", "a\tb\nc", "a\tb\nc"},
		{"truncates at keyword", "nice amp DROP TABLE x", "nice amp"},
		{"keyword case-insensitive", "foo SeLeCt bar", "foo"},
		{"keyword mid-word untouched", "dropped beats selection", "dropped beats selection"},
		{"empty stays empty", "", ""},
	}
	for _, tc := range cases {
		if got := Sanitize(tc.in); got != tc.want {
			t.Errorf("%s: Sanitize(%q) = %q, want %q", tc.name, tc.in, got, tc.want)
		}
	}
}

// ---------------------------------------------------------------------------
// ValidateAndSanitize
// ---------------------------------------------------------------------------

func TestValidateAndSanitize_RejectsInjectionBeforeSanitizing(t *testing.T) {
	// The quotes would be stripped by Sanitize, so the raw input must be the
	// one checked against the battery.
	if _, ok := ValidateAndSanitize("'; DROP TABLE products; --", LongText); ok {
		t.Error("injection-shaped input must be rejected")
	}
}

func TestValidateAndSanitize_ReturnsTrimmedValue(t *testing.T) {
	got, ok := ValidateAndSanitize("  electric guitar  ", ShortText)
	if !ok {
		t.Fatal("benign input rejected")
	}
	if got != "electric guitar" {
		t.Errorf("got %q, want %q", got, "electric guitar")
	}
}

func TestValidateAndSanitize_Identifier(t *testing.T) {
	cases := []struct {
		in string
		ok bool
	}{
		{"alice", true},
		{"alice_bob-99", true},
		{"", false},
		{"has space", false},
		{"tilde~", false},
		{"ñandú", false},
		{"aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa", true},   // 50 chars
		{"aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa", false}, // 51 chars
	}
	for _, tc := range cases {
		if _, ok := ValidateAndSanitize(tc.in, Identifier); ok != tc.ok {
			t.Errorf("Identifier %q: ok=%v, want %v", tc.in, ok, tc.ok)
		}
	}
}

func TestValidateAndSanitize_Email(t *testing.T) {
	cases := []struct {
		in string
		ok bool
	}{
		{"alice@x.com", true},
		{"first.last+tag@sub.domain.io", true},
		{"not-an-email", false},
		{"a@b", false},
		{"", false},
	}
	for _, tc := range cases {
		if _, ok := ValidateAndSanitize(tc.in, Email); ok != tc.ok {
			t.Errorf("Email %q: ok=%v, want %v", tc.in, ok, tc.ok)
		}
	}
}

func TestValidateAndSanitize_TextLengthBounds(t *testing.T) {
	long := func(n int) string {
		b := make([]byte, n)
		for i := range b {
			b[i] = 'x'
		}
		return string(b)
	}

	cases := []struct {
		rule Rule
		in   string
		ok   bool
	}{
		{ShortText, long(100), true},
		{ShortText, long(101), false},
		{MediumText, long(255), true},
		{MediumText, long(256), false},
		{LongText, long(2000), true},
		{LongText, long(2001), false},
		{LongText, "", false},
		{LongText, "   ", false}, // trims to empty
	}
	for _, tc := range cases {
		if _, ok := ValidateAndSanitize(tc.in, tc.rule); ok != tc.ok {
			t.Errorf("rule=%d len=%d: ok=%v, want %v", tc.rule, len(tc.in), ok, tc.ok)
		}
	}
}

// ---------------------------------------------------------------------------
// Numeric validators
// ---------------------------------------------------------------------------

func TestValidPrice(t *testing.T) {
	cases := []struct {
		v  float64
		ok bool
	}{
		{0.01, true},
		{999.99, true},
		{MaxPrice, true},
		{0, false},
		{-5, false},
		{MaxPrice + 1, false},
	}
	for _, tc := range cases {
		if got := ValidPrice(tc.v); got != tc.ok {
			t.Errorf("ValidPrice(%v) = %v, want %v", tc.v, got, tc.ok)
		}
	}
}

func TestValidPriceRange(t *testing.T) {
	cases := []struct {
		min, max float64
		ok       bool
	}{
		{0, 100, true},
		{50, 50, true},
		{100, 50, false},
		{-1, 100, false},
		{0, MaxPrice + 1, false},
	}
	for _, tc := range cases {
		if got := ValidPriceRange(tc.min, tc.max); got != tc.ok {
			t.Errorf("ValidPriceRange(%v, %v) = %v, want %v", tc.min, tc.max, got, tc.ok)
		}
	}
}
