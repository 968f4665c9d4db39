package language_test

import (
	"testing"

	"github.com/manualmanul/XBN/internal/language"
)

func TestToISO3(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"en", "eng"},
		{"eng", "eng"},
		{"English", "eng"},
		{"  ENGLISH  ", "eng"},
		{"fre", "fra"},
		{"german", "deu"},
		{"xyz", "xyz"},
		{"zz", "und"},
		{"", "und"},
	}
	for _, tc := range cases {
		if got := language.ToISO3(tc.in); got != tc.want {
			t.Fatalf("ToISO3(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestDisplayName(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"en", "English"},
		{"deu", "German"},
		{"ger", "German"},
		{"xx", "XX"},
		{"", "Unknown"},
	}
	for _, tc := range cases {
		if got := language.DisplayName(tc.in); got != tc.want {
			t.Fatalf("DisplayName(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
