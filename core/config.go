package core

import (
	"fmt"
	"log"
	"net/mail"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type (
	serverConfig struct {
		Host                      string
		DebugHost                 string
		ShutdownTimeout           time.Duration
		JWTExpirationDelta        time.Duration
		JWTRefreshExpirationDelta time.Duration
	}

	authConfig struct {
		// PasswordHash is the bcrypt hash of the shared wallet password.
		// Generate one with the admin `hashpassword` command.
		PasswordHash string
	}

	sheetConfig struct {
		Backend         string // gsheets | csvfile
		SpreadsheetID   string
		CredentialsFile string
		CouponsSheet    string
		SettingsSheet   string
		CSVDir          string
	}

	mailConfig struct {
		Backend        string // console | sendgrid | smtp
		SendgridAPIKey string
		SMTPHost       string
		SMTPPort       int
		SMTPUser       string
		SMTPPassword   string
	}

	alertsConfig struct {
		Enabled       bool
		Recipient     string
		ThresholdDays []int
	}

	Config struct {
		Debug            bool
		TestMode         bool
		Env              string
		Build            string
		AppName          string
		SecretKey        string
		ServerName       string
		FrontendBaseURL  string
		WorkDir          string
		RollbarToken     string
		defaultFromEmail string

		Server serverConfig
		Auth   authConfig
		Sheet  sheetConfig
		Mail   mailConfig
		Alerts alertsConfig
	}
)

func NewConfig() *Config {
	v := viper.New()
	v.SetTypeByDefaultValue(true)

	// defaults
	v.SetDefault("debug", true)
	v.SetDefault("build", "dev")
	v.SetDefault("appName", "Kuponim")
	v.SetDefault("secretKey", "h2(h!x)#*c2(#yg4h^$cegm2emy-poq5-wer)enb$+57=dz&uox")
	v.SetDefault("serverName", "localhost")
	v.SetDefault("defaultFromEmail", "noreply@localhost")
	v.SetDefault("frontendBaseUrl", "http://localhost:8080")
	v.SetDefault("server.host", "0.0.0.0:8080")
	v.SetDefault("server.debugHost", "0.0.0.0:4000")
	v.SetDefault("server.shutdownTimeout", 5*time.Second)
	v.SetDefault("server.jwtExpirationDelta", 7*24*time.Hour)
	v.SetDefault("server.jwtRefreshExpirationDelta", 4*time.Hour)
	v.SetDefault("sheet.backend", "csvfile")
	v.SetDefault("sheet.couponsSheet", "Coupons")
	v.SetDefault("sheet.settingsSheet", "Settings")
	v.SetDefault("mail.backend", "console")
	v.SetDefault("mail.smtpPort", 587)
	v.SetDefault("alerts.enabled", true)
	v.SetDefault("alerts.thresholdDays", []int{14, 7, 1})

	env := strings.ToUpper(os.Getenv("ENV")) // DEV (local; default), TEST, QA, PROD
	if env == "" {
		env = "DEV"
	}

	wd := Getwd()

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join(wd, "config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
	}

	v.SetEnvPrefix(env)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	conf := &Config{
		Debug:            v.GetBool("debug"),
		TestMode:         env == "TEST",
		Env:              env,
		Build:            v.GetString("build"),
		AppName:          v.GetString("appName"),
		SecretKey:        v.GetString("secretKey"),
		ServerName:       v.GetString("serverName"),
		FrontendBaseURL:  v.GetString("frontendBaseUrl"),
		WorkDir:          wd,
		RollbarToken:     v.GetString("rollbarToken"),
		defaultFromEmail: v.GetString("defaultFromEmail"),
		Server: serverConfig{
			Host:                      v.GetString("server.host"),
			DebugHost:                 v.GetString("server.debugHost"),
			ShutdownTimeout:           v.GetDuration("server.shutdownTimeout"),
			JWTExpirationDelta:        v.GetDuration("server.jwtExpirationDelta"),
			JWTRefreshExpirationDelta: v.GetDuration("server.jwtRefreshExpirationDelta"),
		},
		Auth: authConfig{
			PasswordHash: v.GetString("auth.passwordHash"),
		},
		Sheet: sheetConfig{
			Backend:         v.GetString("sheet.backend"),
			SpreadsheetID:   v.GetString("sheet.spreadsheetId"),
			CredentialsFile: v.GetString("sheet.credentialsFile"),
			CouponsSheet:    v.GetString("sheet.couponsSheet"),
			SettingsSheet:   v.GetString("sheet.settingsSheet"),
			CSVDir:          v.GetString("sheet.csvDir"),
		},
		Mail: mailConfig{
			Backend:        v.GetString("mail.backend"),
			SendgridAPIKey: v.GetString("mail.sendgridApiKey"),
			SMTPHost:       v.GetString("mail.smtpHost"),
			SMTPPort:       v.GetInt("mail.smtpPort"),
			SMTPUser:       v.GetString("mail.smtpUser"),
			SMTPPassword:   v.GetString("mail.smtpPassword"),
		},
		Alerts: alertsConfig{
			Enabled:       v.GetBool("alerts.enabled"),
			Recipient:     v.GetString("alerts.recipient"),
			ThresholdDays: v.GetIntSlice("alerts.thresholdDays"),
		},
	}
	if conf.Sheet.CSVDir == "" {
		conf.Sheet.CSVDir = filepath.Join(wd, "data")
	}
	return conf
}

func (c *Config) DefaultFromEmail() mail.Address {
	return mail.Address{Name: c.AppName, Address: c.defaultFromEmail}
}

func (c *Config) SMTPAddr() string {
	return fmt.Sprintf("%s:%d", c.Mail.SMTPHost, c.Mail.SMTPPort)
}
