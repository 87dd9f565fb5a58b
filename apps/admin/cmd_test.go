package main

import (
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"

	"github.com/kuponim/kuponim/core"
	"github.com/kuponim/kuponim/core/coupon"
	emailsvc "github.com/kuponim/kuponim/services/email"
	"github.com/kuponim/kuponim/storage/sheet/inmem"
)

type nopLogger struct{}

func (nopLogger) Enable(bool)                  {}
func (nopLogger) Debug(string, ...interface{}) {}
func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}
func (nopLogger) Fatal(string, ...interface{}) {}

func setup(t *testing.T) (*commandLine, *inmem.Repository) {
	t.Helper()

	conf := &core.Config{TestMode: true, AppName: "Kuponim", WorkDir: core.Getwd()}
	conf.Alerts.Enabled = true
	conf.Alerts.ThresholdDays = []int{14, 7, 1}

	logger := nopLogger{}
	core.InitValidators(validator.New(), core.NewTranslator())
	core.ParseEmailTemplates(conf, logger)
	emailsvc.ClearSentMessages()

	repo := inmem.NewRepository()
	svc := coupon.NewService(repo, emailsvc.NewConsoleServiceMock(conf), conf, logger)
	return &commandLine{svc: svc}, repo
}

type cliTest struct {
	name    string
	args    []string // without program name
	pwd     string
	wantErr error
}

func Test_commandLine_run(t *testing.T) {
	cli, _ := setup(t)

	tests := []cliTest{
		{name: "no command", wantErr: errHelp},
		{name: "unknown command", args: []string{"lol"}, wantErr: errHelp},
		{name: "hashpassword: empty password", args: []string{"hashpassword"}, wantErr: errHelp},
		{name: "hashpassword", args: []string{"hashpassword"}, pwd: "hunter2"},
	}
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)

		readPasswordFunc = func(fd int) ([]byte, error) {
			return []byte(tt.pwd), nil
		}

		t.Run(tt.name, func(t *testing.T) {
			if err := cli.run(args); err != tt.wantErr {
				t.Errorf("cli.run() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func Test_hashPassword(t *testing.T) {
	hash, err := hashPassword("hunter2")
	assert.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("hunter2")))
	assert.Error(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("hunter3")))
}

func Test_commandLine_runalerts(t *testing.T) {
	cli, repo := setup(t)

	err := repo.SaveSettings(coupon.Settings{Recipient: "me@example.com", ThresholdDays: []int{7}, Enabled: true})
	assert.NoError(t, err)

	expiry := time.Now().AddDate(0, 0, 7).Format("02/01/2006")
	err = repo.SaveCoupons([]coupon.Coupon{
		{ID: "due", Network: "BuyMe", Value: "50", Expiry: expiry, Status: coupon.StatusActive},
		{ID: "far", Network: "Wolt", Value: "30", Expiry: "31/12/2040", Status: coupon.StatusActive},
	})
	assert.NoError(t, err)

	assert.NoError(t, cli.run([]string{"admin", "runalerts"}))
	assert.Len(t, emailsvc.SentMessages, 1)

	// the alerted coupon is stamped so a rerun stays quiet
	coupons, err := repo.LoadCoupons()
	assert.NoError(t, err)
	today := time.Now().Format(coupon.DateLayout)
	assert.Equal(t, today, coupons[0].LastAlertDate)
	assert.Empty(t, coupons[1].LastAlertDate)

	assert.NoError(t, cli.run([]string{"admin", "runalerts"}))
	assert.Len(t, emailsvc.SentMessages, 1)
}

func Test_commandLine_sendtestmail(t *testing.T) {
	cli, repo := setup(t)

	// no recipient anywhere
	assert.Error(t, cli.run([]string{"admin", "sendtestmail"}))
	assert.Empty(t, emailsvc.SentMessages)

	// explicit recipient
	assert.NoError(t, cli.run([]string{"admin", "sendtestmail", "-to", "me@example.com"}))
	assert.Len(t, emailsvc.SentMessages, 1)

	// stored recipient
	err := repo.SaveSettings(coupon.Settings{Recipient: "stored@example.com", Enabled: true})
	assert.NoError(t, err)
	assert.NoError(t, cli.run([]string{"admin", "sendtestmail"}))
	assert.Len(t, emailsvc.SentMessages, 2)
	assert.Equal(t, "stored@example.com", emailsvc.SentMessages[1].To[0].Address)
}
