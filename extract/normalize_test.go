package extract

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"whitespace only", " \t\r\n ", ""},
		{"trims and collapses", "  Hello\n\tWorld  ", "Hello World"},
		{"inner runs", "a   b\n\n\nc", "a b c"},
		{"non-breaking space", "10\u00a0USD", "10 USD"},
		{"control characters dropped", "pri\x00ce\x07", "price"},
		{"already clean", "Apple", "Apple"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.in); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalize_Truncates(t *testing.T) {
	in := strings.Repeat("x", 600)
	got := Normalize(in)

	if want := strings.Repeat("x", 500) + "..."; got != want {
		t.Fatalf("got %d runes, want 500 x's followed by the marker", utf8.RuneCountInString(got))
	}
}

func TestNormalize_TruncatesRunesNotBytes(t *testing.T) {
	in := strings.Repeat("é", 501)
	got := Normalize(in)

	if n := utf8.RuneCountInString(got); n != 503 {
		t.Errorf("rune count = %d, want 503", n)
	}
	if !utf8.ValidString(got) {
		t.Error("truncation split a multi-byte rune")
	}
	if short := strings.Repeat("é", 500); Normalize(short) != short {
		t.Error("500 runes should not be truncated")
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := []string{
		"",
		"  Hello\n\tWorld  ",
		strings.Repeat("word ", 200),
		strings.Repeat("ab\t", 300),
		"x\x01y\r\nz",
	}
	for _, in := range inputs {
		once := Normalize(in)
		if twice := Normalize(once); twice != once {
			t.Errorf("Normalize not idempotent for %q: %q then %q", in, once, twice)
		}
		if n := utf8.RuneCountInString(once); n > 503 {
			t.Errorf("Normalize(%q) has %d runes, want <= 503", in, n)
		}
	}
}
