package mail

import (
	"context"
	"fmt"
	"net/smtp"
)

// SMTPMailer sends plain-text mail over authenticated SMTP.
// It satisfies the mailer port.
type SMTPMailer struct {
	Host string
	Port int
	User string
	Pass string
	From string
}

func NewSMTPMailer(host string, port int, user, pass, from string) *SMTPMailer {
	return &SMTPMailer{Host: host, Port: port, User: user, Pass: pass, From: from}
}

func (m *SMTPMailer) Send(ctx context.Context, to, subject, body string) error {
	if m == nil || m.Host == "" || m.User == "" {
		return fmt.Errorf("smtp not configured")
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	addr := fmt.Sprintf("%s:%d", m.Host, m.Port)
	auth := smtp.PlainAuth("", m.User, m.Pass, m.Host)
	msg := []byte("To: " + to + "\r\n" +
		"Subject: " + subject + "\r\n" +
		"Content-Type: text/plain; charset=utf-8\r\n" +
		"\r\n" + body + "\r\n")
	return smtp.SendMail(addr, auth, m.From, []string{to}, msg)
}
