package mailer

import (
	"bytes"
	"context"
	"fmt"
	"html"
	"strings"

	"github.com/antinvestor/service-catalogue/config"
	"github.com/pkg/errors"
	"github.com/wneessen/go-mail"
)

// Attachment is one file carried by an outbound message.
type Attachment struct {
	Name     string `json:"name"`
	MimeType string `json:"mimeType"`
	Content  []byte `json:"content"`
}

// EmailMessage is the structured message accepted by the mailer and by
// the email send queue.
type EmailMessage struct {
	To          []string     `json:"to"`
	Subject     string       `json:"subject"`
	Body        string       `json:"body"`
	Attachments []Attachment `json:"attachments,omitempty"`
}

// Mailer delivers messages over SMTP.
type Mailer interface {
	Send(ctx context.Context, message *EmailMessage) error
}

func NewMailer(cfg *config.CatalogueConfig) Mailer {
	return &smtpMailer{
		host:     cfg.SmtpHost,
		port:     cfg.SmtpPort,
		username: cfg.SmtpUsername,
		password: cfg.SmtpPassword,
		from:     cfg.EmailFrom,
	}
}

type smtpMailer struct {
	host     string
	port     int
	username string
	password string
	from     string
}

func (sm *smtpMailer) Send(ctx context.Context, message *EmailMessage) error {
	if len(message.To) == 0 {
		return errors.New("email message has no recipients")
	}

	msg := mail.NewMsg()

	err := msg.From(sm.from)
	if err != nil {
		return errors.Wrap(err, "invalid sender address")
	}

	err = msg.To(message.To...)
	if err != nil {
		return errors.Wrap(err, "invalid recipient address")
	}

	msg.Subject(message.Subject)
	msg.SetBodyString(mail.TypeTextHTML, renderBody(message.Subject, message.Body))

	for _, attachment := range message.Attachments {
		err = msg.AttachReader(attachment.Name, bytes.NewReader(attachment.Content))
		if err != nil {
			return errors.Wrapf(err, "could not attach %s", attachment.Name)
		}
	}

	client, err := mail.NewClient(sm.host,
		mail.WithPort(sm.port),
		mail.WithSMTPAuth(mail.SMTPAuthLogin),
		mail.WithUsername(sm.username),
		mail.WithPassword(sm.password),
		mail.WithSSLPort(true),
	)
	if err != nil {
		return errors.Wrap(err, "could not create smtp client")
	}

	return client.DialAndSendWithContext(ctx, msg)
}

func renderBody(subject, body string) string {
	var b strings.Builder
	b.WriteString(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: auto;">`)
	b.WriteString(fmt.Sprintf("<h2>%s</h2>", html.EscapeString(subject)))
	for _, line := range strings.Split(body, "\n") {
		b.WriteString(fmt.Sprintf("<p>%s</p>", html.EscapeString(line)))
	}
	b.WriteString(`<p style="font-size: 12px; color: #666;">This is an automated notification.</p>`)
	b.WriteString("</div>")
	return b.String()
}
