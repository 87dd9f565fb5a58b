package main

import (
	"context"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"

	"github.com/kuponim/kuponim/core"
	"github.com/kuponim/kuponim/core/coupon"
	emailsvc "github.com/kuponim/kuponim/services/email"
	logsvc "github.com/kuponim/kuponim/services/logger"
	"github.com/kuponim/kuponim/storage/sheet/csvfile"
	"github.com/kuponim/kuponim/storage/sheet/gsheets"
)

func main() {
	conf := core.NewConfig()
	logger := logsvc.NewLogrusLogger(conf)

	core.InitValidators(validator.New(), core.NewTranslator())
	core.ParseEmailTemplates(conf, logger)

	repo, err := newRepository(conf)
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up sheet repository: %v", err), err)
	}
	svc := coupon.NewService(repo, newMailService(conf, logger), conf, logger)

	cli := commandLine{svc: svc}
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			fmt.Fprintf(os.Stderr, "\nerror: %s\n", err)
		}
		os.Exit(1)
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
