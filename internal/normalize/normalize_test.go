package normalize

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNormalizeRejectsShortInput(t *testing.T) {
	n := New()
	for _, raw := range []string{"", "   ", "ab", "  ab  ", "ôi", "\t\n"} {
		if got, ok := n.Normalize(raw); ok {
			t.Fatalf("Normalize(%q) = %q, expected rejection", raw, got)
		}
	}
	if _, ok := n.Normalize("vui"); !ok {
		t.Fatal("three characters must be accepted")
	}
}

func TestNormalizeExpandsShorthand(t *testing.T) {
	n := New()
	got, ok := n.Normalize("  Hôm nay RAT vui  ")
	if !ok {
		t.Fatal("expected a normalized value")
	}
	if got != "hôm nay rất vui" {
		t.Fatalf("unexpected normalization: %q", got)
	}
}

func TestNormalizeTable(t *testing.T) {
	n := New()
	tests := []struct {
		raw  string
		want string
	}{
		{"Hôm nay tôi rất vui", "hôm nay tôi rất vui"},
		{"phim nay ko hay", "phim nay không hay"},
		{"tôi k biết", "tôi không biết"},
		{"cái ntn vậy", "cái như thế nào vậy"},
		{"cái nt thì thôi", "cái như thế thì thôi"},
		{"món này bt thôi", "món này bình thường thôi"},
		{"phim nay do qua", "phim nay dở qua"},
		{"có ng đến", "có người đến"},
		{"đi học dc không", "đi học được không"},
		{"tôi đi hom qua", "tôi đi hôm qua"},
		{"hẹn gặp hom sau nhé", "hẹn gặp hôm sau nhé"},
		{"tôi\t\trất   vui\n lắm", "tôi rất vui lắm"},
	}
	for _, tt := range tests {
		got, ok := n.Normalize(tt.raw)
		if !ok {
			t.Fatalf("Normalize(%q) rejected", tt.raw)
		}
		if got != tt.want {
			t.Fatalf("Normalize(%q) = %q, want %q", tt.raw, got, tt.want)
		}
	}
}

func TestNormalizeIsSubstringNotWordBounded(t *testing.T) {
	n := New()

	// " hom nay" has no trailing space so it fires inside a longer token.
	got, _ := n.Normalize("xem hom naylon")
	if got != "xem hôm naylon" {
		t.Fatalf("expected substring match inside longer word, got %q", got)
	}

	// Patterns need a leading space, so the first token is never rewritten.
	got, _ = n.Normalize("rat vui qua")
	if got != "rat vui qua" {
		t.Fatalf("expected leading shorthand to be left alone, got %q", got)
	}

	// Matches do not overlap: the shared space is consumed by the first hit.
	got, _ = n.Normalize("tôi k k biết")
	if got != "tôi không k biết" {
		t.Fatalf("unexpected overlapping replacement result: %q", got)
	}
}

func TestNormalizeRulesApplyInOrder(t *testing.T) {
	n := New(Rule{Pattern: " rất ", Replacement: " rất là "})
	got, _ := n.Normalize("tôi rat vui")
	if got != "tôi rất là vui" {
		t.Fatalf("expected later rule to act on earlier output, got %q", got)
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	n := New()
	for _, raw := range []string{
		"  Hôm nay RAT vui  ",
		"Sản phẩm   này KHÔNG tốt",
		"phim nay ko hay",
		"Trung   tính thôi",
	} {
		once, ok := n.Normalize(raw)
		if !ok {
			t.Fatalf("Normalize(%q) rejected", raw)
		}
		twice, ok := n.Normalize(once)
		if !ok || twice != once {
			t.Fatalf("Normalize not idempotent for %q: %q then %q", raw, once, twice)
		}
	}
}

func TestNormalizeComposesDiacritics(t *testing.T) {
	n := New()
	decomposed := "Ho\u0302m nay vui"
	got, ok := n.Normalize(decomposed)
	if !ok || got != "hôm nay vui" {
		t.Fatalf("expected NFC output, got %q", got)
	}
}

func TestNormalizeLengthCheckedBeforeRules(t *testing.T) {
	n := New(Rule{Pattern: "abc", Replacement: ""})
	got, ok := n.Normalize("abc")
	if !ok {
		t.Fatal("input passes the length check and must not be rejected")
	}
	if got != "" {
		t.Fatalf("expected empty post-rule output, got %q", got)
	}
}

func TestLoadRules(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shorthand.yaml")
	content := `
rules:
  - pattern: " vs "
    replacement: " với "
  - pattern: " j "
    replacement: " gì "
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write rules: %v", err)
	}

	rules, err := LoadRules(path)
	if err != nil {
		t.Fatalf("LoadRules error: %v", err)
	}
	if len(rules) != 2 || rules[0].Replacement != " với " {
		t.Fatalf("unexpected rules: %+v", rules)
	}

	n, err := NewFromFile(path)
	if err != nil {
		t.Fatalf("NewFromFile error: %v", err)
	}
	if len(n.Rules()) != len(DefaultRules)+2 {
		t.Fatalf("expected extra rules after defaults, got %d", len(n.Rules()))
	}
	got, _ := n.Normalize("đi vs tôi làm j đó")
	if got != "đi với tôi làm gì đó" {
		t.Fatalf("unexpected normalization with file rules: %q", got)
	}
}

func TestLoadRulesRejectsEmptyPattern(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("rules:\n  - pattern: \"\"\n    replacement: x\n"), 0o644); err != nil {
		t.Fatalf("write rules: %v", err)
	}
	if _, err := LoadRules(path); err == nil || !strings.Contains(err.Error(), "empty pattern") {
		t.Fatalf("expected empty pattern error, got %v", err)
	}
	if _, err := LoadRules(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestNewFromFileEmptyPath(t *testing.T) {
	n, err := NewFromFile("")
	if err != nil {
		t.Fatalf("NewFromFile(\"\") error: %v", err)
	}
	if len(n.Rules()) != len(DefaultRules) {
		t.Fatalf("expected default rules only, got %d", len(n.Rules()))
	}
}
