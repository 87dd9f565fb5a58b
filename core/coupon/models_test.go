package coupon

import (
	"testing"
	"time"
)

func TestCouponUrgencyAt(t *testing.T) {
	today := time.Date(2025, time.June, 15, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		expiry string
		want   string
	}{
		{name: "expired", expiry: "01/01/2020", want: UrgencyExpired},
		{name: "expired yesterday", expiry: "14/06/2025", want: UrgencyExpired},
		{name: "expires today", expiry: "15/06/2025", want: UrgencySoon},
		{name: "inside window", expiry: "28/06/2025", want: UrgencySoon},
		{name: "just outside window", expiry: "29/06/2025", want: UrgencyOK},
		{name: "far future", expiry: "01/01/2030", want: UrgencyOK},
		{name: "blank never urgent", expiry: "", want: UrgencyOK},
		{name: "unparseable never urgent", expiry: "13/13/2025", want: UrgencyOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Coupon{Network: "Acme", Value: "100", Expiry: tt.expiry, Status: StatusActive}
			if got := c.UrgencyAt(today); got != tt.want {
				t.Errorf("UrgencyAt() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCouponMatches(t *testing.T) {
	c := Coupon{
		Network:    "SuperPharm",
		Value:      "50x5",
		Kind:       KindCode,
		CodeOrLink: "ABCD-1234",
		Expiry:     "31/12/2025",
		Note:       "birthday gift",
		Status:     StatusActive,
	}

	tests := []struct {
		name   string
		search string
		want   bool
	}{
		{name: "empty matches all", search: "", want: true},
		{name: "network", search: "superpharm", want: true},
		{name: "network mixed case", search: "SuPeRpHaRm", want: true},
		{name: "code fragment", search: "abcd", want: true},
		{name: "note fragment", search: "birthday", want: true},
		{name: "expiry fragment", search: "12/2025", want: true},
		{name: "no match", search: "zara", want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := c.Matches(tt.search); got != tt.want {
				t.Errorf("Matches(%q) = %v, want %v", tt.search, got, tt.want)
			}
		})
	}
}
