package coupon

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRunAlerts(t *testing.T) {
	today := time.Date(2025, time.June, 15, 8, 0, 0, 0, time.UTC)

	repo := &fakeRepo{coupons: []Coupon{
		{ID: "1", Network: "Acme", Value: "100", Expiry: "29/06/2025", Status: StatusActive},  // 14 days
		{ID: "2", Network: "Zara", Value: "50", Expiry: "22/06/2025", Status: StatusActive},   // 7 days
		{ID: "3", Network: "Fox", Value: "25", Expiry: "16/06/2025", Status: StatusActive},    // 1 day
		{ID: "4", Network: "Ikea", Value: "80", Expiry: "20/06/2025", Status: StatusActive},   // 5 days: no threshold
		{ID: "5", Network: "Golf", Value: "60", Expiry: "29/06/2025", Status: StatusUsed},     // used: skipped
		{ID: "6", Network: "Blank", Value: "10", Status: StatusActive},                        // no expiry: skipped
		{ID: "7", Network: "Bad", Value: "10", Expiry: "13/13/2025", Status: StatusActive},    // unparseable: skipped
		{ID: "8", Network: "Done", Value: "10", Expiry: "22/06/2025", Status: StatusActive, LastAlertDate: "2025-06-15"}, // already alerted today
	}}
	mailer := &fakeMailer{}
	svc := newTestService(repo, mailer)

	sent, err := svc.RunAlerts(today)
	if err != nil {
		t.Fatalf("RunAlerts() failed: %v", err)
	}

	if assert.Len(t, sent, 3) {
		assert.Equal(t, "Acme", sent[0].Network)
		assert.Equal(t, 14, sent[0].DaysLeft)
		assert.Equal(t, "Zara", sent[1].Network)
		assert.Equal(t, 7, sent[1].DaysLeft)
		assert.Equal(t, "Fox", sent[2].Network)
		assert.Equal(t, 1, sent[2].DaysLeft)
	}
	assert.Len(t, mailer.sent, 3)
	assert.Equal(t, 1, repo.saves) // one whole-table save for all stamps

	// stamped records carry today's date
	assert.Equal(t, "2025-06-15", repo.coupons[0].LastAlertDate)
	assert.Equal(t, "2025-06-15", repo.coupons[1].LastAlertDate)
	assert.Equal(t, "2025-06-15", repo.coupons[2].LastAlertDate)
	assert.Empty(t, repo.coupons[3].LastAlertDate)
}

func TestRunAlertsIdempotentPerDay(t *testing.T) {
	today := time.Date(2025, time.June, 15, 8, 0, 0, 0, time.UTC)

	repo := &fakeRepo{coupons: []Coupon{
		{ID: "1", Network: "Acme", Value: "100", Expiry: "22/06/2025", Status: StatusActive},
	}}
	mailer := &fakeMailer{}
	svc := newTestService(repo, mailer)

	sent, err := svc.RunAlerts(today)
	if err != nil {
		t.Fatalf("RunAlerts() failed: %v", err)
	}
	assert.Len(t, sent, 1)

	// second run on the same day sends nothing
	sent, err = svc.RunAlerts(today)
	if err != nil {
		t.Fatalf("RunAlerts() failed: %v", err)
	}
	assert.Empty(t, sent)
	assert.Len(t, mailer.sent, 1)
	assert.Equal(t, 1, repo.saves)
}

func TestRunAlertsSendFailureDoesNotBlockOthers(t *testing.T) {
	today := time.Date(2025, time.June, 15, 8, 0, 0, 0, time.UTC)

	repo := &fakeRepo{coupons: []Coupon{
		{ID: "1", Network: "Acme", Value: "100", Expiry: "22/06/2025", Status: StatusActive},
		{ID: "2", Network: "Zara", Value: "50", Expiry: "16/06/2025", Status: StatusActive},
	}}
	mailer := &fakeMailer{failTimes: 1}
	svc := newTestService(repo, mailer)

	sent, err := svc.RunAlerts(today)
	if err != nil {
		t.Fatalf("RunAlerts() failed: %v", err)
	}

	// the first send failed; the second still went out and got stamped
	if assert.Len(t, sent, 1) {
		assert.Equal(t, "Zara", sent[0].Network)
	}
	assert.Empty(t, repo.coupons[0].LastAlertDate) // failed send is not stamped
	assert.Equal(t, "2025-06-15", repo.coupons[1].LastAlertDate)

	// next run retries the failed one (same threshold day, not stamped)
	sent, err = svc.RunAlerts(today)
	if err != nil {
		t.Fatalf("RunAlerts() failed: %v", err)
	}
	if assert.Len(t, sent, 1) {
		assert.Equal(t, "Acme", sent[0].Network)
	}
}

func TestRunAlertsDisabled(t *testing.T) {
	repo := &fakeRepo{coupons: []Coupon{
		{ID: "1", Network: "Acme", Value: "100", Expiry: "22/06/2025", Status: StatusActive},
	}}
	repo.settings = &Settings{Recipient: "owner@test.test", ThresholdDays: []int{7}, Enabled: false}
	mailer := &fakeMailer{}
	svc := newTestService(repo, mailer)

	sent, err := svc.RunAlerts(time.Date(2025, time.June, 15, 8, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("RunAlerts() failed: %v", err)
	}
	assert.Empty(t, sent)
	assert.Empty(t, mailer.sent)
}

func TestSendTestEmail(t *testing.T) {
	mailer := &fakeMailer{}
	svc := newTestService(&fakeRepo{}, mailer)

	if err := svc.SendTestEmail(); err != nil {
		t.Fatalf("SendTestEmail() failed: %v", err)
	}
	if assert.Len(t, mailer.sent, 1) {
		assert.Equal(t, "owner@test.test", mailer.sent[0].To[0].Address)
	}

	// no recipient configured anywhere
	svc = newTestService(&fakeRepo{}, mailer)
	svc.conf.Alerts.Recipient = ""
	if err := svc.SendTestEmail(); err == nil {
		t.Errorf("SendTestEmail() expected error without recipient")
	}

	// an explicit recipient overrides the stored one
	if err := svc.SendTestEmail("explicit@test.test"); err != nil {
		t.Fatalf("SendTestEmail() failed: %v", err)
	}
	assert.Equal(t, "explicit@test.test", mailer.sent[1].To[0].Address)
}
