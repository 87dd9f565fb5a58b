package echoapi_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"reflect"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"

	. "github.com/kuponim/kuponim/apps/api/echo"
	"github.com/kuponim/kuponim/core"
	"github.com/kuponim/kuponim/core/coupon"
	emailsvc "github.com/kuponim/kuponim/services/email"
	"github.com/kuponim/kuponim/storage/sheet/inmem"
)

const testPassword = "s3cr3t-w4llet"

var (
	conf *core.Config
	app  Server
	repo *inmem.Repository

	errMissingToken = httpErr{Error: "missing or malformed jwt"}
)

type nopLogger struct{}

func (nopLogger) Enable(bool)                  {}
func (nopLogger) Debug(string, ...interface{}) {}
func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}
func (nopLogger) Fatal(string, ...interface{}) {}

func TestMain(m *testing.M) {
	hash, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	if err != nil {
		panic(err)
	}

	conf = &core.Config{
		TestMode:  true,
		AppName:   "Kuponim",
		SecretKey: "secret",
		WorkDir:   core.Getwd(),
	}
	conf.Server.JWTExpirationDelta = 10 * time.Minute
	conf.Auth.PasswordHash = string(hash)
	conf.Alerts.Enabled = true
	conf.Alerts.ThresholdDays = []int{14, 7, 1}

	logger := nopLogger{}
	core.InitValidators(validator.New(), core.NewTranslator())
	core.ParseEmailTemplates(conf, logger)

	repo = inmem.NewRepository()
	mailSvc := emailsvc.NewConsoleServiceMock(conf)
	couponSvc := coupon.NewService(repo, mailSvc, conf, logger)

	app = NewServer(ServerDeps{
		Conf:           conf,
		Logger:         logger,
		CouponSvc:      couponSvc,
		DisableReqLogs: true,
	})

	os.Exit(m.Run())
}

type httpErr struct {
	Error string `json:"error"`
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	token    string
	wantCode int
	wantData []byte
}

func newAuthRequest(method, path, token string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	return req, rec
}

func newRequest(method, path string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	return newAuthRequest(method, path, "", data...)
}

func getToken(t *testing.T) string {
	t.Helper()
	token, err := GenerateToken(GetOwnerClaims(conf), conf)
	if err != nil {
		t.Fatalf("getToken(): %v", err)
	}
	return token
}

func marchallObj(t *testing.T, obj interface{}) []byte {
	t.Helper()
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marchallObj(): %v", err)
	}
	return data
}

func unmarchallObj(t *testing.T, data []byte, obj interface{}) {
	t.Helper()
	if err := json.Unmarshal(data, obj); err != nil {
		t.Fatalf("unmarchallObj(): %v; data %s", err, data)
	}
}

func jsonBytesEqual(b1, b2 []byte) (bool, error) {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	return reflect.DeepEqual(j1, j2), nil
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	t.Helper()
	if rec.Code != tt.wantCode {
		t.Errorf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
	}
	ok, err := jsonBytesEqual(rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}

// resetStore empties the coupon and settings tables between tests.
func resetStore(t *testing.T) {
	t.Helper()
	if err := repo.SaveCoupons(nil); err != nil {
		t.Fatalf("resetStore(): %v", err)
	}
	emailsvc.ClearSentMessages()
}
