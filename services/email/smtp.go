package emailsvc

import (
	"encoding/base64"
	"fmt"
	"net/smtp"

	"github.com/jordan-wright/email"
	"github.com/pkg/errors"

	"github.com/kuponim/kuponim/core"
)

// smtpService delivers through a plain SMTP relay (e.g. a Gmail app
// password), which is how the wallet's alerts were originally sent.
type smtpService struct {
	addr       string
	auth       smtp.Auth
	from       string
	subjPrefix string
	logger     core.Logger
}

var _ core.EmailService = (*smtpService)(nil)

func NewSMTPService(conf *core.Config, logger core.Logger) *smtpService {
	from := conf.DefaultFromEmail()
	return &smtpService{
		addr:       conf.SMTPAddr(),
		auth:       smtp.PlainAuth("", conf.Mail.SMTPUser, conf.Mail.SMTPPassword, conf.Mail.SMTPHost),
		from:       from.String(),
		subjPrefix: "[" + conf.AppName + "] ",
		logger:     logger,
	}
}

func (svc *smtpService) SendMessages(messages ...*core.EmailMessage) {
	for _, msg := range messages {
		msg := msg
		go func() {
			if err := svc.SendMessage(msg); err != nil {
				svc.logger.Error(fmt.Sprintf("sending email: %v", err), err)
			}
		}()
	}
}

func (svc *smtpService) SendMessage(msg *core.EmailMessage) error {
	if err := msg.Render(); err != nil {
		return errors.Wrap(err, "rendering email")
	}
	if !msg.HasRecipients() || !(msg.HasContent() || msg.HasAttachments()) {
		return nil
	}

	e := email.NewEmail()
	e.From = svc.from
	for _, to := range msg.To {
		e.To = append(e.To, to.String())
	}
	for _, cc := range msg.Cc {
		e.Cc = append(e.Cc, cc.String())
	}
	for _, bcc := range msg.Bcc {
		e.Bcc = append(e.Bcc, bcc.String())
	}
	e.Subject = svc.subjPrefix + msg.Subject
	e.Text = []byte(msg.TextContent)
	if msg.HTMLContent != "" {
		e.HTML = []byte(msg.HTMLContent)
	}
	for _, at := range msg.Attachments {
		// Attachment.Content is stored base64-encoded; the library encodes itself.
		raw := base64.NewDecoder(base64.StdEncoding, at.Content)
		if _, err := e.Attach(raw, at.Filename, at.ContentType); err != nil {
			return errors.Wrap(err, "attaching file")
		}
	}

	return errors.Wrap(e.Send(svc.addr, svc.auth), "sending email")
}
