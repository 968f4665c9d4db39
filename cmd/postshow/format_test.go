package main

import "testing"

func TestFormatTimestamp(t *testing.T) {
	cases := []struct {
		ms   int64
		want string
	}{
		{0, "00:00.000"},
		{-5, "00:00.000"},
		{1_500, "00:01.500"},
		{61_500, "01:01.500"},
		{3_599_999, "59:59.999"},
		{3_600_000, "1:00:00.000"},
		{7_323_042, "2:02:03.042"},
	}
	for _, tc := range cases {
		if got := formatTimestamp(tc.ms); got != tc.want {
			t.Errorf("formatTimestamp(%d) = %q, want %q", tc.ms, got, tc.want)
		}
	}
}

func TestFormatPlayTime(t *testing.T) {
	cases := []struct {
		ms   int64
		want string
	}{
		{0, "00:00"},
		{499, "00:00"},
		{500, "00:01"},
		{83_000, "01:23"},
		{3_599_499, "59:59"},
		{3_600_000, "1:00:00"},
		{3_723_000, "1:02:03"},
	}
	for _, tc := range cases {
		if got := formatPlayTime(tc.ms); got != tc.want {
			t.Errorf("formatPlayTime(%d) = %q, want %q", tc.ms, got, tc.want)
		}
	}
}

func TestPaint(t *testing.T) {
	if got := paint("ok", ansiGreen, false); got != "ok" {
		t.Errorf("paint disabled = %q, want plain text", got)
	}
	want := ansiGreen + "ok" + ansiReset
	if got := paint("ok", ansiGreen, true); got != want {
		t.Errorf("paint enabled = %q, want %q", got, want)
	}
}
