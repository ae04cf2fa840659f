package services

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/smtp"
	"strings"
)

// SMTPEmailSender delivers passcode emails over plain SMTP, the way the
// hosted Gmail setup does.
type SMTPEmailSender struct {
	host     string
	port     int
	username string
	password string
	from     string
	fromName string
	useTLS   bool
}

func NewSMTPEmailSender(host string, port int, username, password, from, fromName string, useTLS bool) (*SMTPEmailSender, error) {
	if strings.TrimSpace(host) == "" {
		return nil, fmt.Errorf("smtp host is required")
	}
	if strings.TrimSpace(from) == "" {
		return nil, fmt.Errorf("smtp from address is required")
	}
	if port == 0 {
		port = 587
	}
	return &SMTPEmailSender{
		host:     host,
		port:     port,
		username: username,
		password: password,
		from:     from,
		fromName: fromName,
		useTLS:   useTLS,
	}, nil
}

func (s *SMTPEmailSender) SendPasscode(_ context.Context, email, name, code string) error {
	if strings.TrimSpace(email) == "" {
		return fmt.Errorf("recipient email is required")
	}

	greeting := "Hello"
	if name != "" {
		greeting = "Hello " + name
	}

	subject := "AMICUS - Email Verification Code"
	body := fmt.Sprintf("%s,\r\n\r\nYour AMICUS verification code is: %s\r\n\r\nThis code will expire in 10 minutes.\r\nIf you didn't request this code, please ignore this email.\r\n", greeting, code)

	msg := s.buildMessage(email, subject, body)
	addr := fmt.Sprintf("%s:%d", s.host, s.port)

	var auth smtp.Auth
	if s.username != "" {
		auth = smtp.PlainAuth("", s.username, s.password, s.host)
	}

	if s.useTLS {
		return s.sendTLS(addr, email, msg, auth)
	}

	return smtp.SendMail(addr, auth, s.from, []string{email}, []byte(msg))
}

func (s *SMTPEmailSender) sendTLS(addr, to, msg string, auth smtp.Auth) error {
	conn, err := tls.Dial("tcp", addr, &tls.Config{ServerName: s.host})
	if err != nil {
		return err
	}
	defer conn.Close()

	client, err := smtp.NewClient(conn, s.host)
	if err != nil {
		return err
	}
	defer client.Quit()

	if auth != nil {
		if err := client.Auth(auth); err != nil {
			return err
		}
	}
	if err := client.Mail(s.from); err != nil {
		return err
	}
	if err := client.Rcpt(to); err != nil {
		return err
	}
	writer, err := client.Data()
	if err != nil {
		return err
	}
	if _, err := writer.Write([]byte(msg)); err != nil {
		_ = writer.Close()
		return err
	}
	return writer.Close()
}

func (s *SMTPEmailSender) buildMessage(to, subject, body string) string {
	fromHeader := s.from
	if strings.TrimSpace(s.fromName) != "" {
		fromHeader = fmt.Sprintf("%s <%s>", s.fromName, s.from)
	}

	headers := []string{
		"From: " + fromHeader,
		"To: " + to,
		"Subject: " + subject,
		"MIME-Version: 1.0",
		`Content-Type: text/plain; charset="UTF-8"`,
	}

	return strings.Join(headers, "\r\n") + "\r\n\r\n" + body
}
