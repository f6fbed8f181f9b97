package notification

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"net"
	"net/smtp"
	"strconv"
	"strings"

	"classbook/internal/config"
	"classbook/internal/domain"

	"go.uber.org/zap"
)

type UserLookup interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
}

// SendFunc has the signature of smtp.SendMail.
type SendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// Mailer emails the booking owner a confirmation on creation and a notice
// when an admin changes the status.
type Mailer struct {
	cfg   config.MailConfig
	users UserLookup
	send  SendFunc
	log   *zap.Logger
}

func NewMailer(cfg config.MailConfig, users UserLookup, log *zap.Logger) *Mailer {
	return &Mailer{cfg: cfg, users: users, send: smtp.SendMail, log: log}
}

func (m *Mailer) Name() string { return "email" }

func (m *Mailer) Deliver(ctx context.Context, ev Event) error {
	if ev.Booking == nil {
		return nil
	}

	var (
		subject string
		tmpl    *template.Template
	)
	switch {
	case ev.Type == BookingCreated:
		subject = "Classroom Booking Confirmation"
		tmpl = confirmationTmpl
	case ev.Type == BookingUpdated && ev.Action == ActionStatusChanged:
		st := string(ev.Booking.Status)
		subject = "Classroom Booking " + strings.ToUpper(st[:1]) + st[1:]
		tmpl = statusTmpl
	default:
		return nil
	}

	user, err := m.users.GetByID(ctx, ev.Booking.UserID)
	if err != nil {
		return fmt.Errorf("mail: load owner %d: %w", ev.Booking.UserID, err)
	}

	var body bytes.Buffer
	if err := tmpl.Execute(&body, mailData{User: user, Booking: ev.Booking, Classroom: ev.Classroom}); err != nil {
		return fmt.Errorf("mail: render: %w", err)
	}

	msg := buildMessage(m.cfg.From, user.Email, subject, body.String())
	addr := net.JoinHostPort(m.cfg.SMTPHost, strconv.Itoa(m.cfg.SMTPPort))

	var auth smtp.Auth
	if m.cfg.Username != "" {
		auth = smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.SMTPHost)
	}
	if err := m.send(addr, auth, envelopeAddress(m.cfg.From), []string{user.Email}, msg); err != nil {
		return fmt.Errorf("mail: send to %s: %w", user.Email, err)
	}
	m.log.Info("email sent", zap.String("to", user.Email), zap.String("subject", subject))
	return nil
}

type mailData struct {
	User      *domain.User
	Booking   *domain.Booking
	Classroom *domain.Classroom
}

func (d mailData) StatusPhrase() string {
	switch d.Booking.Status {
	case domain.BookingConfirmed:
		return "has been confirmed"
	case domain.BookingRejected:
		return "has been rejected"
	case domain.BookingCancelled:
		return "has been cancelled"
	}
	return "is now " + string(d.Booking.Status)
}

var confirmationTmpl = template.Must(template.New("confirmation").Parse(`<h1>Booking Confirmation</h1>
<p>Dear {{.User.Name}},</p>
<p>Your booking has been received:</p>
<ul>
  <li><strong>Classroom:</strong> {{if .Classroom}}{{.Classroom.Name}} ({{.Classroom.Building}}, Room {{.Classroom.RoomNumber}}){{else}}{{.Booking.ClassroomName}}{{end}}</li>
  <li><strong>Date:</strong> {{.Booking.Date}}</li>
  <li><strong>Time:</strong> {{.Booking.StartTime}} - {{.Booking.EndTime}}</li>
  <li><strong>Purpose:</strong> {{.Booking.Purpose}}</li>
  <li><strong>Status:</strong> {{.Booking.Status}}</li>
</ul>
<p>Thank you for using our Classroom Booking System.</p>
`))

var statusTmpl = template.Must(template.New("status").Parse(`<h1>Booking Update</h1>
<p>Dear {{.User.Name}},</p>
<p>Your booking for {{.Booking.ClassroomName}} on {{.Booking.Date}} ({{.Booking.StartTime}} - {{.Booking.EndTime}}) {{.StatusPhrase}}.</p>
{{if eq (print .Booking.Status) "rejected"}}<p>Please contact administration for more information.</p>
{{end}}<p>Thank you for using our Classroom Booking System.</p>
`))

func buildMessage(from, to, subject, html string) []byte {
	var b strings.Builder
	b.WriteString("From: " + from + "\r\n")
	b.WriteString("To: " + to + "\r\n")
	b.WriteString("Subject: " + subject + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(html)
	return []byte(b.String())
}

// envelopeAddress extracts the bare address from "Name <addr>".
func envelopeAddress(from string) string {
	if i := strings.LastIndex(from, "<"); i >= 0 {
		if j := strings.LastIndex(from, ">"); j > i {
			return from[i+1 : j]
		}
	}
	return strings.TrimSpace(from)
}
