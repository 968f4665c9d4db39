package naming_test

import (
	"testing"

	"github.com/manualmanul/XBN/internal/naming"
)

func TestOutputName(t *testing.T) {
	cases := []struct {
		name     string
		template string
		slug     string
		epnum    string
		epName   string
		want     string
	}{
		{
			name:     "slug lowercased",
			template: "{slug}-{epnum}.{ext}",
			slug:     "XANA",
			epnum:    "142",
			want:     "xana-142.mp3",
		},
		{
			name:     "name placeholder",
			template: "{slug}-{epnum}-{name}.{ext}",
			slug:     "tech",
			epnum:    "7",
			epName:   "The Big One",
			want:     "tech-7-The Big One.mp3",
		},
		{
			name:     "unsafe characters stripped",
			template: "{slug}-{epnum}-{name}.{ext}",
			slug:     "show",
			epnum:    "1",
			epName:   "What? A/B <test>",
			want:     "show-1-What A-B test.mp3",
		},
		{
			name:     "unknown placeholder passes through",
			template: "{slug}-{weird}.{ext}",
			slug:     "show",
			epnum:    "1",
			want:     "show-{weird}.mp3",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := naming.OutputName(tc.template, tc.slug, tc.epnum, tc.epName)
			if got != tc.want {
				t.Fatalf("OutputName = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestEpisodeTitle(t *testing.T) {
	got := naming.EpisodeTitle("{slug} {epnum}: {name}", "XANA Creations", "142", "The Big One")
	if got != "XANA Creations 142: The Big One" {
		t.Fatalf("EpisodeTitle = %q", got)
	}
}

func TestSanitizeFileName(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"plain.mp3", "plain.mp3"},
		{"a/b\\c:d", "a-b-c-d"},
		{"what?.mp3", "what.mp3"},
		{"  padded  ", "padded"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := naming.SanitizeFileName(tc.in); got != tc.want {
			t.Fatalf("SanitizeFileName(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestDeriveTitle(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"/captures/xana_142_the-big-one.wav", "Xana 142 The Big One"},
		{"episode.final.mix.wav", "Episode Final Mix"},
		{"/captures/###.wav", ""},
		{"", ""},
	}
	for _, tc := range cases {
		if got := naming.DeriveTitle(tc.in); got != tc.want {
			t.Fatalf("DeriveTitle(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
