package coupon

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Accepted textual expiry formats, tried in order. A trailing time component
// ("31/12/2025 00:00:00") is stripped before matching.
var expiryLayouts = []string{
	"02/01/2006", // DD/MM/YYYY
	"02/01/06",   // DD/MM/YY
	"01/06",      // MM/YY
	"01/2006",    // MM/YYYY
	"2006-01-02", // ISO
}

// maxExpiry is the sort sentinel for coupons with no parseable expiry,
// so they always order last. It is never exposed; the canonical
// representation of "no expiry" is nil.
var maxExpiry = time.Date(9999, time.December, 31, 0, 0, 0, 0, time.UTC)

var (
	multiplyRe = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*[x*]\s*(\d+(?:\.\d+)?)`)
	numberRe   = regexp.MustCompile(`\d+(?:\.\d+)?`)
)

// ParseAmount extracts a numeric amount from free-text values like
// "100", "50x5" or "50₪". It never fails: anything non-numeric is 0.
func ParseAmount(text string) float64 {
	s := strings.TrimSpace(text)
	if s == "" {
		return 0
	}
	if m := multiplyRe.FindStringSubmatch(s); m != nil {
		a, errA := strconv.ParseFloat(m[1], 64)
		b, errB := strconv.ParseFloat(m[2], 64)
		if errA == nil && errB == nil {
			return a * b
		}
	}
	if num := numberRe.FindString(s); num != "" {
		if f, err := strconv.ParseFloat(num, 64); err == nil {
			return f
		}
	}
	return 0
}

// ParseExpiry parses a textual expiry date. It returns nil for blank,
// "None" or unparseable input; callers treat nil as non-expiring.
func ParseExpiry(text string) *time.Time {
	s := strings.TrimSpace(text)
	if s == "" || strings.EqualFold(s, "none") {
		return nil
	}
	// strip a trailing time component
	s = strings.SplitN(s, " ", 2)[0]

	for _, layout := range expiryLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			t = t.UTC()
			return &t
		}
	}
	return nil
}

// expiryOrMax maps nil expiries to the max sentinel for sorting.
func expiryOrMax(c *Coupon) time.Time {
	if exp := c.ExpiryDate(); exp != nil {
		return *exp
	}
	return maxExpiry
}

// DaysUntil returns the whole number of calendar days from today until t.
// Negative when t is in the past.
func DaysUntil(t, today time.Time) int {
	return int(midnight(t).Sub(midnight(today)).Hours() / 24)
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
