package util

import (
	"embed"

	"gopkg.in/gomail.v2"
)

//go:embed template/*.html
var TemplateFS embed.FS

func SendEmail(smtpHost string, smtpPort int, senderName string, senderEmail string, senderPassword string, receiverEmail string, subject string, body string) error {
	mailer := gomail.NewMessage()
	mailer.SetHeader("From", senderName)
	mailer.SetHeader("To", receiverEmail)
	mailer.SetHeader("Subject", subject)
	mailer.SetBody("text/html", body)

	dialer := gomail.NewDialer(
		smtpHost,
		smtpPort,
		senderEmail,
		senderPassword,
	)

	return dialer.DialAndSend(mailer)
}
