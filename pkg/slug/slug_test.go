package slug

import (
	"strings"
	"testing"
)

func TestMake(t *testing.T) {
	tests := map[string]string{
		"Taza Térmica 500ml":       "taza-termica-500ml",
		"  Lapicera   Ñandú  ":     "lapicera-nandu",
		"Bolso/Mochila (Premium)!": "bolso-mochila-premium",
		"¡Oferta!":                 "oferta",
		"":                         "",
	}
	for in, want := range tests {
		if got := Make(in); got != want {
			t.Fatalf("Make(%q): expected %q got %q", in, want, got)
		}
	}
}

func TestMakeTruncates(t *testing.T) {
	got := Make(strings.Repeat("ab ", 80))
	if len(got) > maxLength || strings.HasSuffix(got, "-") {
		t.Fatalf("unexpected truncated slug %q (%d)", got, len(got))
	}
}

func TestWithSuffix(t *testing.T) {
	if WithSuffix("taza", 1) != "taza" || WithSuffix("taza", 12) != "taza-12" {
		t.Fatal("unexpected suffix handling")
	}
}
