package money

import "testing"

func TestParseMinor(t *testing.T) {
	tests := []struct {
		in   string
		want int64
	}{
		{"5", 500},
		{"5.00", 500},
		{"1234.5", 123450},
		{"1.234,50", 123450},
		{"1,234.50", 123450},
		{"$ 99,99", 9999},
		{"0.005", 1},
		{"10.9949", 1099},
		{"1.234.567,00", 123456700},
	}
	for _, tt := range tests {
		got, err := ParseMinor(tt.in)
		if err != nil {
			t.Fatalf("ParseMinor(%q) error: %v", tt.in, err)
		}
		if got != tt.want {
			t.Fatalf("ParseMinor(%q): expected %d got %d", tt.in, tt.want, got)
		}
	}

	for _, bad := range []string{"", "abc", "-3", "1.234", "$ 10.994"} {
		if _, err := ParseMinor(bad); err == nil {
			t.Fatalf("expected error for %q", bad)
		}
	}
}

func TestFormat(t *testing.T) {
	tests := []struct {
		minor  int64
		symbol string
		want   string
	}{
		{0, "$", "$ 0,00"},
		{500, "$", "$ 5,00"},
		{123450, "$", "$ 1.234,50"},
		{123456789, "", "1.234.567,89"},
		{-1000, "$", "$ -10,00"},
	}
	for _, tt := range tests {
		if got := Format(tt.minor, tt.symbol); got != tt.want {
			t.Fatalf("Format(%d): expected %q got %q", tt.minor, tt.want, got)
		}
	}
}

func TestPlain(t *testing.T) {
	if got := Plain(1000); got != "10.00" {
		t.Fatalf("expected 10.00, got %q", got)
	}
}
