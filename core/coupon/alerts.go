package coupon

import (
	"fmt"
	"net/mail"
	"time"

	"github.com/pkg/errors"

	"github.com/kuponim/kuponim/core"
)

// nowFunc is mockable for tests.
var nowFunc = time.Now

const (
	alertTemplateName = "expiry_alert"
	testTemplateName  = "test_email"
)

// SentAlert describes one alert email that went out.
type SentAlert struct {
	CouponID string `json:"coupon_id"`
	Network  string `json:"network"`
	Value    string `json:"value"`
	Expiry   string `json:"expiry"`
	DaysLeft int    `json:"days_left"`
}

func (a SentAlert) String() string {
	return fmt.Sprintf("%s (%d days)", a.Network, a.DaysLeft)
}

type alertData struct {
	Network    string
	Value      string
	Expiry     string
	CodeOrLink string
	DaysLeft   int
}

// RunAlerts scans active coupons whose expiry lands exactly on one of the
// configured day thresholds and emails an alert for each, at most once per
// record per calendar day. Send failures are logged and never block the
// remaining records. Stamped LastAlertDate changes are persisted with a
// single whole-table save at the end.
func (svc *Service) RunAlerts(today time.Time) ([]SentAlert, error) {
	settings, err := svc.Settings()
	if err != nil {
		return nil, errors.Wrap(err, "loading alert settings")
	}
	if !settings.Enabled {
		return nil, nil
	}
	if settings.Recipient == "" {
		svc.logger.Warn("expiry alerts enabled but no recipient configured")
		return nil, nil
	}

	coupons, err := svc.repo.LoadCoupons()
	if err != nil {
		return nil, errors.Wrap(err, "loading coupons")
	}

	todayStr := today.Format(DateLayout)
	var sent []SentAlert
	var stamped bool

	for i := range coupons {
		c := &coupons[i]
		if !c.IsActive() {
			continue
		}
		exp := c.ExpiryDate()
		if exp == nil {
			continue
		}

		daysLeft := DaysUntil(*exp, today)
		if !containsInt(settings.ThresholdDays, daysLeft) {
			continue
		}
		if c.LastAlertDate == todayStr {
			continue // already alerted today
		}

		msg := &core.EmailMessage{
			To:           []mail.Address{{Address: settings.Recipient}},
			Subject:      fmt.Sprintf("Expiry alert: %s coupon expires in %d days", c.Network, daysLeft),
			TemplateName: alertTemplateName,
			TemplateData: alertData{
				Network:    c.Network,
				Value:      c.Value,
				Expiry:     c.Expiry,
				CodeOrLink: c.CodeOrLink,
				DaysLeft:   daysLeft,
			},
		}
		if err := svc.mailSvc.SendMessage(msg); err != nil {
			svc.logger.Error(fmt.Sprintf("sending expiry alert for %q: %v", c.Network, err), err)
			continue
		}

		c.LastAlertDate = todayStr
		stamped = true
		sent = append(sent, SentAlert{
			CouponID: c.ID,
			Network:  c.Network,
			Value:    c.Value,
			Expiry:   c.Expiry,
			DaysLeft: daysLeft,
		})
	}

	if stamped {
		if err = svc.repo.SaveCoupons(coupons); err != nil {
			return sent, errors.Wrap(err, "saving alert stamps")
		}
	}
	return sent, nil
}

// SendTestEmail sends a short message to the configured recipient so the
// user can verify the mail transport from the settings screen. An explicit
// recipient overrides the stored one.
func (svc *Service) SendTestEmail(recipient ...string) error {
	var to string
	if len(recipient) > 0 {
		to = recipient[0]
	}
	if to == "" {
		settings, err := svc.Settings()
		if err != nil {
			return errors.Wrap(err, "loading alert settings")
		}
		to = settings.Recipient
	}
	if to == "" {
		return core.NewValidationError(nil, core.FieldError{Field: "recipient", Error: "no alert recipient configured"})
	}

	msg := &core.EmailMessage{
		To:           []mail.Address{{Address: to}},
		Subject:      "Test email",
		TemplateName: testTemplateName,
	}
	return svc.mailSvc.SendMessage(msg)
}

func containsInt(list []int, n int) bool {
	for _, v := range list {
		if v == n {
			return true
		}
	}
	return false
}
