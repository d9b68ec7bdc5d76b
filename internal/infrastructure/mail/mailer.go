// Package mail sends transactional email over SMTP.
package mail

import (
	"bytes"
	"fmt"
	"html/template"
	"time"

	"mediconnect/config"

	"gopkg.in/gomail.v2"
)

// Email represents an email message.
type Email struct {
	To       []string
	Subject  string
	Body     string
	HTMLBody string
}

// ConfirmationDetails is the data rendered into an appointment confirmation
type ConfirmationDetails struct {
	PatientName string
	DoctorName  string
	Hospital    string
	TimeSlot    string
	Date        string
	Message     string
}

type Mailer interface {
	SendVerificationCode(to, code string) error
	SendAppointmentConfirmation(to string, details ConfirmationDetails) error
}

type verificationData struct {
	Code    string
	Expires string
}

type smtpMailer struct {
	from    string
	codeTTL time.Duration
	dialer  *gomail.Dialer
}

// NewSMTPMailer sends through the configured relay. codeTTL is the lifetime
// quoted in verification emails.
func NewSMTPMailer(cfg config.SMTPConfig, codeTTL time.Duration) Mailer {
	return &smtpMailer{
		from:    cfg.From,
		codeTTL: codeTTL,
		dialer:  gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password),
	}
}

func (m *smtpMailer) SendVerificationCode(to, code string) error {
	data := verificationData{Code: code, Expires: describeDuration(m.codeTTL)}
	html, err := render(verificationTemplate, data)
	if err != nil {
		return err
	}

	return m.send(Email{
		To:       []string{to},
		Subject:  "Your MediConnect verification code",
		Body:     fmt.Sprintf("Your verification code is %s. It expires in %s.", data.Code, data.Expires),
		HTMLBody: html,
	})
}

// describeDuration renders d as "10 minutes", "1 hour" or "90 seconds"
func describeDuration(d time.Duration) string {
	unit, n := "second", int64(d/time.Second)
	switch {
	case d >= time.Hour && d%time.Hour == 0:
		unit, n = "hour", int64(d/time.Hour)
	case d >= time.Minute && d%time.Minute == 0:
		unit, n = "minute", int64(d/time.Minute)
	}
	if n == 1 {
		return "1 " + unit
	}
	return fmt.Sprintf("%d %ss", n, unit)
}

func (m *smtpMailer) SendAppointmentConfirmation(to string, details ConfirmationDetails) error {
	html, err := render(confirmationTemplate, details)
	if err != nil {
		return err
	}

	return m.send(Email{
		To:       []string{to},
		Subject:  "Appointment confirmed",
		Body:     details.Message,
		HTMLBody: html,
	})
}

func (m *smtpMailer) send(email Email) error {
	if len(email.To) == 0 {
		return fmt.Errorf("no recipients specified")
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", email.To...)
	msg.SetHeader("Subject", email.Subject)

	if email.HTMLBody != "" {
		msg.SetBody("text/html", email.HTMLBody)
		if email.Body != "" {
			msg.AddAlternative("text/plain", email.Body)
		}
	} else {
		msg.SetBody("text/plain", email.Body)
	}

	return m.dialer.DialAndSend(msg)
}

func render(tmpl *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render email: %w", err)
	}
	return buf.String(), nil
}
