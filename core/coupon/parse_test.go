package coupon

import (
	"testing"
	"time"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		name string
		text string
		want float64
	}{
		{name: "plain integer", text: "100", want: 100},
		{name: "currency symbol", text: "100₪", want: 100},
		{name: "currency prefix", text: "₪ 250", want: 250},
		{name: "decimal", text: "99.90", want: 99.9},
		{name: "multiplication x", text: "50x5", want: 250},
		{name: "multiplication spaced", text: "50 x 5", want: 250},
		{name: "multiplication star", text: "50*5", want: 250},
		{name: "multiplication upper", text: "50X5", want: 250},
		{name: "decimal factors", text: "2.5 x 4", want: 10},
		{name: "text around number", text: "gift 75 nis", want: 75},
		{name: "no number", text: "abc", want: 0},
		{name: "empty", text: "", want: 0},
		{name: "whitespace", text: "   ", want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseAmount(tt.text); got != tt.want {
				t.Errorf("ParseAmount(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestParseExpiry(t *testing.T) {
	date := func(y int, m time.Month, d int) *time.Time {
		t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
		return &t
	}

	tests := []struct {
		name string
		text string
		want *time.Time
	}{
		{name: "DD/MM/YYYY", text: "31/12/2025", want: date(2025, time.December, 31)},
		{name: "DD/MM/YY", text: "31/12/25", want: date(2025, time.December, 31)},
		{name: "MM/YY", text: "12/25", want: date(2025, time.December, 1)},
		{name: "MM/YYYY", text: "12/2025", want: date(2025, time.December, 1)},
		{name: "ISO", text: "2025-12-31", want: date(2025, time.December, 31)},
		{name: "trailing time", text: "31/12/2025 00:00:00", want: date(2025, time.December, 31)},
		{name: "surrounding space", text: " 31/12/2025 ", want: date(2025, time.December, 31)},
		{name: "invalid month", text: "13/13/2025", want: nil},
		{name: "garbage", text: "soon", want: nil},
		{name: "none literal", text: "None", want: nil},
		{name: "empty", text: "", want: nil},
		{name: "whitespace", text: "  ", want: nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseExpiry(tt.text)
			if (got == nil) != (tt.want == nil) {
				t.Fatalf("ParseExpiry(%q) = %v, want %v", tt.text, got, tt.want)
			}
			if got != nil && !got.Equal(*tt.want) {
				t.Errorf("ParseExpiry(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestDaysUntil(t *testing.T) {
	today := time.Date(2025, time.June, 15, 13, 45, 0, 0, time.UTC)

	tests := []struct {
		name string
		t    time.Time
		want int
	}{
		{name: "same day", t: time.Date(2025, time.June, 15, 1, 0, 0, 0, time.UTC), want: 0},
		{name: "tomorrow", t: time.Date(2025, time.June, 16, 0, 0, 0, 0, time.UTC), want: 1},
		{name: "two weeks", t: time.Date(2025, time.June, 29, 23, 0, 0, 0, time.UTC), want: 14},
		{name: "yesterday", t: time.Date(2025, time.June, 14, 23, 59, 0, 0, time.UTC), want: -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DaysUntil(tt.t, today); got != tt.want {
				t.Errorf("DaysUntil() = %v, want %v", got, tt.want)
			}
		})
	}
}
