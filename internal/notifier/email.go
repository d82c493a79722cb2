package notifier

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"mime"
	"net"
	"net/mail"
	"net/smtp"
	"strconv"
	"strings"
	"time"

	"github.com/resend/resend-go/v2"

	"github.com/pfrederiksen/wevity-contests/internal/contest"
	"github.com/pfrederiksen/wevity-contests/internal/logger"
)

// Message is a single HTML email
type Message struct {
	From    mail.Address
	To      []string
	Subject string
	HTML    string
}

// Mailer delivers a Message
type Mailer interface {
	Send(ctx context.Context, msg *Message) error
}

// SMTPConfig holds the SMTP server and account settings
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
}

type sendMailFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// SMTPMailer sends mail through an SMTP server with PLAIN auth.
// smtp.SendMail upgrades the connection with STARTTLS when the server offers it.
type SMTPMailer struct {
	cfg      SMTPConfig
	sendMail sendMailFunc
	now      func() time.Time
}

// NewSMTPMailer creates an SMTP mailer. Username and password are required.
func NewSMTPMailer(cfg SMTPConfig) (*SMTPMailer, error) {
	if cfg.Username == "" || cfg.Password == "" {
		return nil, fmt.Errorf("missing SMTP credentials (set EMAIL and PASSWORD)")
	}
	if cfg.Host == "" {
		return nil, fmt.Errorf("missing SMTP host")
	}
	if cfg.Port == 0 {
		cfg.Port = 587
	}
	return &SMTPMailer{cfg: cfg, sendMail: smtp.SendMail, now: time.Now}, nil
}

// Send delivers msg. net/smtp has no context support, so ctx is only checked before dialing.
func (m *SMTPMailer) Send(ctx context.Context, msg *Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if len(msg.To) == 0 {
		return fmt.Errorf("no recipients")
	}

	addr := net.JoinHostPort(m.cfg.Host, strconv.Itoa(m.cfg.Port))
	auth := smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)

	if err := m.sendMail(addr, auth, msg.From.Address, msg.To, buildMIME(msg, m.now())); err != nil {
		return fmt.Errorf("sending mail via %s: %w", addr, err)
	}
	return nil
}

// buildMIME renders msg as a single-part text/html message with a base64 body
func buildMIME(msg *Message, date time.Time) []byte {
	var b bytes.Buffer

	header := func(k, v string) {
		b.WriteString(k + ": " + v + "\r\n")
	}
	header("From", msg.From.String())
	header("To", strings.Join(msg.To, ", "))
	header("Subject", mime.BEncoding.Encode("UTF-8", msg.Subject))
	header("Date", date.Format(time.RFC1123Z))
	header("MIME-Version", "1.0")
	header("Content-Type", `text/html; charset="UTF-8"`)
	header("Content-Transfer-Encoding", "base64")
	b.WriteString("\r\n")

	encoded := base64.StdEncoding.EncodeToString([]byte(msg.HTML))
	for len(encoded) > 76 {
		b.WriteString(encoded[:76] + "\r\n")
		encoded = encoded[76:]
	}
	b.WriteString(encoded + "\r\n")

	return b.Bytes()
}

type resendEmails interface {
	SendWithContext(ctx context.Context, params *resend.SendEmailRequest) (*resend.SendEmailResponse, error)
}

// ResendMailer sends mail through the Resend API
type ResendMailer struct {
	emails resendEmails
	log    *logger.Logger
}

// NewResendMailer creates a Resend mailer for apiKey
func NewResendMailer(apiKey string, log *logger.Logger) (*ResendMailer, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("missing Resend API key (set RESEND_API_KEY)")
	}
	if log == nil {
		log = logger.Nop()
	}
	return &ResendMailer{emails: resend.NewClient(apiKey).Emails, log: log}, nil
}

// Send delivers msg with a single API call
func (m *ResendMailer) Send(ctx context.Context, msg *Message) error {
	sent, err := m.emails.SendWithContext(ctx, &resend.SendEmailRequest{
		From:    msg.From.String(),
		To:      msg.To,
		Subject: msg.Subject,
		Html:    msg.HTML,
	})
	if err != nil {
		return fmt.Errorf("resend send failed: %w", err)
	}

	m.log.Info("Resend accepted message", logger.Fields{"message_id": sent.Id, "to": strings.Join(msg.To, ",")})
	return nil
}

// EmailNotifier renders the newsletter and hands it to a Mailer
type EmailNotifier struct {
	mailer Mailer
	from   mail.Address
	to     []string
	now    func() time.Time
	log    *logger.Logger
}

// NewEmailNotifier creates an email notifier. to is a comma separated recipient list.
func NewEmailNotifier(mailer Mailer, from mail.Address, to string, now func() time.Time, log *logger.Logger) (*EmailNotifier, error) {
	recipients, err := ParseRecipients(to)
	if err != nil {
		return nil, err
	}
	if now == nil {
		now = time.Now
	}
	if log == nil {
		log = logger.Nop()
	}
	return &EmailNotifier{mailer: mailer, from: from, to: recipients, now: now, log: log}, nil
}

// Notify sends one newsletter containing all records
func (n *EmailNotifier) Notify(ctx context.Context, records []*contest.Record) error {
	if len(records) == 0 {
		return ErrNoRecords
	}

	letter, err := RenderNewsletter(records, n.now())
	if err != nil {
		return err
	}

	start := time.Now()
	if err := n.mailer.Send(ctx, &Message{
		From:    n.from,
		To:      n.to,
		Subject: letter.Subject,
		HTML:    letter.HTML,
	}); err != nil {
		n.log.Metrics().IncrCounter("email.failed")
		return err
	}

	n.log.Metrics().RecordTiming("email.send", time.Since(start))
	n.log.Metrics().IncrCounter("email.sent")
	n.log.Info("Newsletter sent", logger.Fields{"records": len(records), "recipients": len(n.to)})
	return nil
}

// ParseRecipients splits and validates a comma separated address list
func ParseRecipients(to string) ([]string, error) {
	if strings.TrimSpace(to) == "" {
		return nil, fmt.Errorf("no recipients given")
	}

	list, err := mail.ParseAddressList(to)
	if err != nil {
		return nil, fmt.Errorf("invalid recipient list %q: %w", to, err)
	}

	out := make([]string, 0, len(list))
	for _, addr := range list {
		out = append(out, addr.Address)
	}
	return out, nil
}
