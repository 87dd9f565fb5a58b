package coupon

import (
	"strings"
	"time"

	"github.com/kuponim/kuponim/core"
)

// Statuses. A record is always in exactly one of them; blank means active.
const (
	StatusActive = "active"
	StatusUsed   = "used"
)

// Kinds. Free-form by design: the sheet is hand-edited and holds whatever
// the user typed; these are only the values the add form offers.
const (
	KindLink       = "Link"
	KindCode       = "Code"
	KindCreditCard = "Credit Card"
)

// Urgency display states, derived from the expiry date. Never persisted.
const (
	UrgencyExpired = "expired"
	UrgencySoon    = "expiring_soon"
	UrgencyOK      = "ok"
)

// SoonThresholdDays is the window before expiry in which a coupon is flagged expiring_soon.
const SoonThresholdDays = 14

// DateLayout is the ISO layout used for LastAlertDate.
const DateLayout = "2006-01-02"

// Coupon is one voucher entry in the backing sheet.
// ID is a generated stable identifier; all mutations address it, never a row position.
type Coupon struct {
	ID            string `json:"id"`
	Network       string `json:"network"`
	Value         string `json:"value"`
	Kind          string `json:"kind"`
	CodeOrLink    string `json:"code_or_link"`
	Expiry        string `json:"expiry"`
	CVV           string `json:"cvv"`
	Note          string `json:"note"`
	Status        string `json:"status"`
	LastAlertDate string `json:"last_alert_date"`
}

// Amount is the numeric value parsed from the free-text Value field.
func (c *Coupon) Amount() float64 { return ParseAmount(c.Value) }

// ExpiryDate is the parsed expiry; nil when blank or unparseable.
func (c *Coupon) ExpiryDate() *time.Time { return ParseExpiry(c.Expiry) }

func (c *Coupon) IsActive() bool { return c.Status == StatusActive }

// UrgencyAt classifies the coupon for display relative to today.
// Coupons with no parseable expiry are treated as non-expiring.
func (c *Coupon) UrgencyAt(today time.Time) string {
	exp := c.ExpiryDate()
	if exp == nil {
		return UrgencyOK
	}
	days := DaysUntil(*exp, today)
	switch {
	case days < 0:
		return UrgencyExpired
	case days < SoonThresholdDays:
		return UrgencySoon
	default:
		return UrgencyOK
	}
}

// Matches reports whether the lower-cased search string is a substring of
// the concatenated string form of any field of the record.
func (c *Coupon) Matches(search string) bool {
	if search == "" {
		return true
	}
	haystack := strings.ToLower(strings.Join([]string{
		c.Network, c.Value, c.Kind, c.CodeOrLink, c.Expiry, c.CVV, c.Note, c.Status,
	}, " "))
	return strings.Contains(haystack, strings.ToLower(search))
}

// NewCoupon contains information needed to create a new Coupon.
type NewCoupon struct {
	Network    string `json:"network" validate:"required"`
	Value      string `json:"value" validate:"required"`
	Kind       string `json:"kind"`
	CodeOrLink string `json:"code_or_link"`
	Expiry     string `json:"expiry"`
	CVV        string `json:"cvv"`
	Note       string `json:"note"`
}

func (nc *NewCoupon) Validate() error {
	nc.Network = core.CleanString(nc.Network)
	nc.Value = core.CleanString(nc.Value)
	nc.Expiry = core.CleanString(nc.Expiry)
	return core.Validate.Struct(nc)
}

// UpdateCoupon defines what information may be provided to modify an existing Coupon.
// Empty fields keep the original value.
type UpdateCoupon struct {
	Network    string `json:"network"`
	Value      string `json:"value"`
	Kind       string `json:"kind"`
	CodeOrLink string `json:"code_or_link"`
	Expiry     string `json:"expiry"`
	CVV        string `json:"cvv"`
	Note       string `json:"note"`
}

func (uc *UpdateCoupon) Validate(orig Coupon) error {
	if net := core.CleanString(uc.Network); net != "" {
		uc.Network = net
	} else {
		uc.Network = orig.Network
	}
	if val := core.CleanString(uc.Value); val != "" {
		uc.Value = val
	} else {
		uc.Value = orig.Value
	}
	if uc.Kind == "" {
		uc.Kind = orig.Kind
	}
	if uc.CodeOrLink == "" {
		uc.CodeOrLink = orig.CodeOrLink
	}
	if uc.Expiry == "" {
		uc.Expiry = orig.Expiry
	} else {
		uc.Expiry = core.CleanString(uc.Expiry)
	}
	if uc.CVV == "" {
		uc.CVV = orig.CVV
	}
	if uc.Note == "" {
		uc.Note = orig.Note
	}
	return core.Validate.Struct(uc)
}

// StatusUpdate toggles a coupon between the active wallet and the archive.
type StatusUpdate struct {
	Status string `json:"status" validate:"required,oneof=active used"`
}

func (su *StatusUpdate) Validate() error {
	su.Status = core.CleanString(su.Status, true /* lower */)
	return core.Validate.Struct(su)
}

// QueryFilter narrows the wallet view. Status defaults to active.
type QueryFilter struct {
	Search string `query:"search"`
	Status string `query:"status" validate:"omitempty,oneof=active used"`
}

func (qf *QueryFilter) Clean() {
	qf.Search = core.CleanString(qf.Search)
	qf.Status = core.CleanString(qf.Status, true /* lower */)
	if qf.Status == "" {
		qf.Status = StatusActive
	}
}

func (qf *QueryFilter) Validate() error {
	qf.Clean()
	return core.Validate.Struct(qf)
}

// Settings is the alerting configuration persisted in the Settings sheet.
type Settings struct {
	Recipient     string `json:"recipient" validate:"omitempty,email"`
	ThresholdDays []int  `json:"threshold_days" validate:"dive,gt=0"`
	Enabled       bool   `json:"enabled"`
}

func (s *Settings) Validate() error {
	s.Recipient = core.CleanString(s.Recipient, true /* lower */)
	return core.Validate.Struct(s)
}

// Wallet view types (derived, never persisted).
type (
	WalletItem struct {
		Coupon
		Amount  float64 `json:"amount"`
		Urgency string  `json:"urgency"`
	}

	WalletGroup struct {
		Network  string       `json:"network"`
		Count    int          `json:"count"`
		Subtotal float64      `json:"subtotal"`
		Coupons  []WalletItem `json:"coupons"`
	}

	Wallet struct {
		Status       string        `json:"status"`
		Count        int           `json:"count"`
		Total        float64       `json:"total"`
		ExpiredCount int           `json:"expired_count"`
		Groups       []WalletGroup `json:"groups"`
	}
)
