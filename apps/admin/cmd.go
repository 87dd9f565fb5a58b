package main

import (
	"errors"
	"flag"
	"fmt"
	"syscall"
	"time"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/term"

	"github.com/kuponim/kuponim/core/coupon"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errHelp = errors.New("help provided")
)

type commandLine struct {
	svc *coupon.Service
}

func (cli *commandLine) printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  hashpassword            - hash the wallet password for the AUTH_PASSWORDHASH setting")
	fmt.Println("  runalerts               - scan for expiring coupons and send alert emails")
	fmt.Println("  sendtestmail [-to ADDR] - send a test email to verify the mail transport")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	sendTestMailCmd := flag.NewFlagSet("sendtestmail", flag.ExitOnError)
	sendTestMailTo := sendTestMailCmd.String("to", "", "Recipient address; defaults to the configured alert recipient.")

	switch args[1] {
	case "hashpassword":
		fmt.Print("Enter password:")
		pwd, err := readPasswordFunc(syscall.Stdin)
		fmt.Println()
		if err != nil {
			return err
		}
		if len(pwd) == 0 {
			cli.printUsage()
			return errHelp
		}
		hash, err := hashPassword(string(pwd))
		if err != nil {
			return err
		}
		fmt.Println("Set this as the AUTH_PASSWORDHASH setting (quote it, bcrypt hashes contain $):")
		fmt.Println(hash)
		return nil
	case "runalerts":
		return cli.runAlerts()
	case "sendtestmail":
		if err := sendTestMailCmd.Parse(args[2:]); err != nil {
			return err
		}
		return cli.svc.SendTestEmail(*sendTestMailTo)
	default:
		cli.printUsage()
		return errHelp
	}
}

func (cli *commandLine) runAlerts() error {
	sent, err := cli.svc.RunAlerts(time.Now())
	if err != nil {
		return err
	}
	if len(sent) == 0 {
		fmt.Println("No alerts due.")
		return nil
	}
	for _, alert := range sent {
		fmt.Printf("Alerted: %s\n", alert)
	}
	return nil
}

func hashPassword(pwd string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(pwd), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
