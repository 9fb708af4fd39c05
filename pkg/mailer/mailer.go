package mailer

import (
	"fmt"
	"log"
	"net/smtp"
	"os"
)

// Mailer delivers transactional email (password reset links).
type Mailer interface {
	SendPasswordResetEmail(toEmail, resetLink string) error
}

type smtpMailer struct {
	from     string
	password string
	host     string
	port     string
}

// NewSMTPMailer builds a Mailer from SMTP_* environment variables.
func NewSMTPMailer() Mailer {
	return &smtpMailer{
		from:     os.Getenv("SMTP_EMAIL"),
		password: os.Getenv("SMTP_PASSWORD"),
		host:     valueOrDefault("SMTP_HOST", "smtp.gmail.com"),
		port:     valueOrDefault("SMTP_PORT", "587"),
	}
}

func (m *smtpMailer) SendPasswordResetEmail(toEmail, resetLink string) error {
	// Without credentials fall back to logging so local development still works
	if m.from == "" || m.password == "" {
		log.Printf("SMTP credentials not set, skipping email to %s (link: %s)", toEmail, resetLink)
		return nil
	}

	subject := "Subject: Password Reset Request\n"
	mime := "MIME-version: 1.0;\nContent-Type: text/html; charset=\"UTF-8\";\n\n"
	body := fmt.Sprintf(`
		<html>
			<body>
				<p>Dear User,</p>
				<p>Click the link below to reset your password:</p>
				<a href="%s">Reset Your Password</a>
				<p>This link will expire in 15 minutes.</p>
				<p>If you did not request this, you can ignore this email.</p>
				<p>MedShare Support Team</p>
			</body>
		</html>
	`, resetLink)

	message := []byte(subject + mime + body)

	auth := smtp.PlainAuth("", m.from, m.password, m.host)

	if err := smtp.SendMail(m.host+":"+m.port, auth, m.from, []string{toEmail}, message); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}

func valueOrDefault(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}
