package mail

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"
)

// SMTPSender delivers messages through a plain SMTP relay.
type SMTPSender struct {
	host string
	port int
	from string
}

// NewSMTPSender constructs an SMTPSender.
func NewSMTPSender(host string, port int, from string) *SMTPSender {
	return &SMTPSender{host: host, port: port, from: from}
}

// Send delivers the message through the relay.
func (s *SMTPSender) Send(ctx context.Context, msg Message) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", s.from)
	fmt.Fprintf(&b, "To: %s\r\n", msg.To)
	fmt.Fprintf(&b, "Subject: %s\r\n", msg.Subject)
	b.WriteString("MIME-Version: 1.0\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n")
	b.WriteString(msg.Body)

	addr := fmt.Sprintf("%s:%d", s.host, s.port)
	if err := smtp.SendMail(addr, nil, s.from, []string{msg.To}, []byte(b.String())); err != nil {
		return Result{}, fmt.Errorf("mail: smtp send: %w", err)
	}
	return Result{Delivered: true}, nil
}

var _ Sender = (*SMTPSender)(nil)
