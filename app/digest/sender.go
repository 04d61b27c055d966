package digest

import (
	"fmt"
	"net/smtp"
	"strings"
)

// Sender delivers a rendered digest. Delivery failure is reported to the
// caller; it is never fatal to the processing loop.
type Sender interface {
	Send(subject, body string) error
}

var _ Sender = (*SMTPSender)(nil)

type SMTPSender struct {
	host       string
	port       int
	username   string
	password   string
	from       string
	recipients []string
}

func NewSMTPSender(host string, port int, username, password, from string, recipients []string) *SMTPSender {
	return &SMTPSender{
		host:       host,
		port:       port,
		username:   username,
		password:   password,
		from:       from,
		recipients: recipients,
	}
}

// Configured reports whether delivery settings are complete enough to
// attempt a send.
func (s *SMTPSender) Configured() bool {
	return s.host != "" && s.from != "" && len(s.recipients) > 0
}

func (s *SMTPSender) Send(subject, body string) error {
	if !s.Configured() {
		return fmt.Errorf("digest delivery is not configured")
	}

	var msg strings.Builder
	msg.WriteString(fmt.Sprintf("From: %s\r\n", s.from))
	msg.WriteString(fmt.Sprintf("To: %s\r\n", strings.Join(s.recipients, ", ")))
	msg.WriteString(fmt.Sprintf("Subject: %s\r\n", subject))
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/plain; charset=\"UTF-8\"\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(body)

	addr := fmt.Sprintf("%s:%d", s.host, s.port)
	auth := smtp.PlainAuth("", s.username, s.password, s.host)

	if err := smtp.SendMail(addr, auth, s.from, s.recipients, []byte(msg.String())); err != nil {
		return fmt.Errorf("failed to send digest: %w", err)
	}

	return nil
}
