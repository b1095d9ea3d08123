// Package mailer sends the weekly digest over SMTP.
package mailer

import (
	"fmt"

	"github.com/wneessen/go-mail"

	"callwatch/internal/config"
)

const subject = "Resumen semanal de convocatorias"

// SendDigest mails the rendered digest as plain text to every
// configured recipient.
func SendDigest(cfg *config.Mail, body string) error {
	msg := mail.NewMsg()
	if err := msg.From(cfg.User); err != nil {
		return fmt.Errorf("set sender: %w", err)
	}
	if err := msg.To(cfg.Recipients...); err != nil {
		return fmt.Errorf("set recipients: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextPlain, body)

	client, err := mail.NewClient(cfg.SMTPHost,
		mail.WithPort(cfg.SMTPPort),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(cfg.User),
		mail.WithPassword(cfg.Password),
		mail.WithTLSPolicy(mail.TLSMandatory),
	)
	if err != nil {
		return fmt.Errorf("build SMTP client: %w", err)
	}

	if err := client.DialAndSend(msg); err != nil {
		return fmt.Errorf("send digest: %w", err)
	}
	return nil
}
