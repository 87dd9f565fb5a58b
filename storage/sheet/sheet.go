// Package sheet holds the whole-table codec shared by every backing-store
// backend: a coupon table is a header row plus one row per record, and
// every mutation rewrites the complete table.
package sheet

import (
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/kuponim/kuponim/core"
	"github.com/kuponim/kuponim/core/coupon"
)

// Canonical coupon columns, in write order.
var CouponColumns = []string{
	"id", "network", "value", "type", "code_or_link", "expiry", "cvv", "note", "status", "last_alert_date",
}

// Legacy header aliases accepted on read and rewritten canonically on save.
var columnAliases = map[string]string{
	"notes":   "note",
	"sstatus": "status",
	"kind":    "type",
}

// Settings columns, single data row.
var SettingsColumns = []string{"recipient", "threshold_days", "enabled"}

// DecodeCoupons turns a raw table into records. Header names are trimmed and
// lower-cased, aliases mapped, and missing columns synthesized as empty
// strings. A blank status defaults to active; a blank id gets a fresh uuid
// (persisted by the next whole-table save).
func DecodeCoupons(rows [][]string) []coupon.Coupon {
	if len(rows) == 0 {
		return []coupon.Coupon{}
	}

	index := make(map[string]int, len(rows[0]))
	for i, name := range rows[0] {
		name = core.CleanString(name, true /* lower */)
		if canonical, ok := columnAliases[name]; ok {
			name = canonical
		}
		index[name] = i
	}

	coupons := make([]coupon.Coupon, 0, len(rows)-1)
	for _, row := range rows[1:] {
		get := func(col string) string {
			i, ok := index[col]
			if !ok || i >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[i])
		}

		c := coupon.Coupon{
			ID:            get("id"),
			Network:       get("network"),
			Value:         get("value"),
			Kind:          get("type"),
			CodeOrLink:    get("code_or_link"),
			Expiry:        get("expiry"),
			CVV:           get("cvv"),
			Note:          get("note"),
			Status:        strings.ToLower(get("status")),
			LastAlertDate: get("last_alert_date"),
		}
		if c.Status == "" {
			c.Status = coupon.StatusActive
		}
		if c.ID == "" {
			c.ID = uuid.New().String()
		}
		coupons = append(coupons, c)
	}
	return coupons
}

// EncodeCoupons writes records back in canonical column order. Derived
// fields (amount, parsed expiry, urgency) are never part of the table.
func EncodeCoupons(coupons []coupon.Coupon) [][]string {
	rows := make([][]string, 0, len(coupons)+1)
	rows = append(rows, CouponColumns)
	for _, c := range coupons {
		rows = append(rows, []string{
			c.ID, c.Network, c.Value, c.Kind, c.CodeOrLink, c.Expiry, c.CVV, c.Note, c.Status, c.LastAlertDate,
		})
	}
	return rows
}

// DecodeSettings reads the single settings row; ok is false when the table
// holds no data row yet.
func DecodeSettings(rows [][]string) (coupon.Settings, bool) {
	if len(rows) < 2 {
		return coupon.Settings{}, false
	}

	index := make(map[string]int, len(rows[0]))
	for i, name := range rows[0] {
		index[core.CleanString(name, true /* lower */)] = i
	}
	row := rows[1]
	get := func(col string) string {
		i, ok := index[col]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	s := coupon.Settings{
		Recipient: get("recipient"),
		Enabled:   get("enabled") != "false",
	}
	for _, part := range strings.Split(get("threshold_days"), ",") {
		if n, err := strconv.Atoi(strings.TrimSpace(part)); err == nil && n > 0 {
			s.ThresholdDays = append(s.ThresholdDays, n)
		}
	}
	return s, true
}

// EncodeSettings writes the settings as a header plus a single data row.
func EncodeSettings(s coupon.Settings) [][]string {
	days := make([]string, 0, len(s.ThresholdDays))
	for _, d := range s.ThresholdDays {
		days = append(days, strconv.Itoa(d))
	}
	return [][]string{
		SettingsColumns,
		{s.Recipient, strings.Join(days, ","), strconv.FormatBool(s.Enabled)},
	}
}
