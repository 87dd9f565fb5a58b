package main

import (
	"context"
	"expvar"
	"fmt"
	"log"
	"net/http"
	_ "net/http/pprof"
	"os"

	"github.com/go-playground/validator/v10"

	echoapi "github.com/kuponim/kuponim/apps/api/echo"
	"github.com/kuponim/kuponim/core"
	"github.com/kuponim/kuponim/core/coupon"
	emailsvc "github.com/kuponim/kuponim/services/email"
	logsvc "github.com/kuponim/kuponim/services/logger"
	"github.com/kuponim/kuponim/storage/sheet/csvfile"
	"github.com/kuponim/kuponim/storage/sheet/gsheets"
)

func main() {
	// =========================================================================
	// Set up Dependencies

	conf := core.NewConfig()

	var logger core.Logger
	if conf.Debug {
		logger = logsvc.NewLogrusLogger(conf)
	} else {
		logger = logsvc.NewRollbarLogger(
			log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
			conf,
		)
	}

	// set up the backing sheet
	repo, err := newRepository(conf)
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up sheet repository: %v", err), err)
	}

	// set up services
	mailSvc := newMailService(conf, logger)
	couponSvc := coupon.NewService(repo, mailSvc, conf, logger)

	// =========================================================================
	// Initialize App

	logger.Info(fmt.Sprintf("Application initializing : version %q", conf.Build))
	defer logger.Info("Application stopped")

	core.InitValidators(validator.New(), core.NewTranslator())
	core.ParseEmailTemplates(conf, logger)

	// =========================================================================
	// Start Debug Service
	//
	// /debug/pprof - Added to the default mux by importing the net/http/pprof package.
	// /debug/vars - Added to the default mux by importing the expvar package.

	expvar.NewString("build").Set(conf.Build)
	expvar.NewString("env").Set(conf.Env)

	go func() {
		if err := http.ListenAndServe(conf.Server.DebugHost, http.DefaultServeMux); err != nil {
			logger.Error(fmt.Sprintf("debug server closed: %v", err), err)
		}
	}()

	// =========================================================================
	// Start API Service

	server := echoapi.NewServer(
		echoapi.ServerDeps{
			Conf:      conf,
			Logger:    logger,
			CouponSvc: couponSvc,
		},
	)

	go func() {
		server.Start()
	}()

	// =========================================================================
	// Shutdown

	select {
	case err := <-server.Errors():
		logger.Fatal(fmt.Sprintf("server error: %v", err), err)

	case sig := <-server.ShutdownSignal():
		logger.Info(fmt.Sprintf("%v: Start shutdown...", sig))

		// give outstanding requests a deadline for completion
		ctx, cancel := context.WithTimeout(context.Background(), conf.Server.ShutdownTimeout)
		defer cancel()

		// asking listener to shutdown and shed load
		if err := server.Shutdown(ctx); err != nil {
			logger.Error(fmt.Sprintf("could not stop server gracefully: %v", err), err)

			if err = server.Close(); err != nil {
				logger.Fatal(fmt.Sprintf("could not force stop server: %v", err), err)
			}
		}
	}
}

func newRepository(conf *core.Config) (coupon.Repository, error) {
	switch conf.Sheet.Backend {
	case "gsheets":
		return gsheets.NewRepository(context.Background(), conf)
	case "csvfile":
		return csvfile.NewRepository(conf)
	default:
		return nil, fmt.Errorf("unknown sheet backend %q", conf.Sheet.Backend)
	}
}

func newMailService(conf *core.Config, logger core.Logger) core.EmailService {
	switch conf.Mail.Backend {
	case "sendgrid":
		return emailsvc.NewSendgridService(conf, logger)
	case "smtp":
		return emailsvc.NewSMTPService(conf, logger)
	default:
		return emailsvc.NewConsoleService(conf)
	}
}
