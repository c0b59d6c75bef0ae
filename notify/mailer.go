// Package notify delivers the transactional emails fired off status
// transitions. Sends are best effort: a failed send is logged and dropped,
// it never fails or rolls back the write that triggered it.
package notify

import (
	"fmt"
	"os"
	"strconv"

	gomail "gopkg.in/gomail.v2"
)

type Message struct {
	To      string
	Subject string
	Body    string
}

type Mailer interface {
	Send(msg Message) error
}

// SMTPMailer sends through a plain SMTP relay configured from the
// environment (SMTP_HOST, SMTP_PORT, SMTP_USER, SMTP_PASSWORD, SMTP_FROM).
type SMTPMailer struct {
	dialer *gomail.Dialer
	from   string
}

func NewSMTPMailerFromEnv() (*SMTPMailer, error) {
	host := os.Getenv("SMTP_HOST")
	from := os.Getenv("SMTP_FROM")
	if host == "" || from == "" {
		return nil, fmt.Errorf("missing SMTP_HOST or SMTP_FROM env vars")
	}

	port, err := strconv.Atoi(os.Getenv("SMTP_PORT"))
	if err != nil || port <= 0 {
		port = 587
	}

	d := gomail.NewDialer(host, port, os.Getenv("SMTP_USER"), os.Getenv("SMTP_PASSWORD"))
	return &SMTPMailer{dialer: d, from: from}, nil
}

func (m *SMTPMailer) Send(msg Message) error {
	mail := gomail.NewMessage()
	mail.SetHeader("From", m.from)
	mail.SetHeader("To", msg.To)
	mail.SetHeader("Subject", msg.Subject)
	mail.SetBody("text/plain", msg.Body)
	return m.dialer.DialAndSend(mail)
}
