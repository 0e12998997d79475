package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/mail"

	"github.com/pocketbase/pocketbase/core"
	"github.com/pocketbase/pocketbase/tools/mailer"
)

// Email is an outgoing HTML message to a single recipient.
type Email struct {
	ToAddress   string
	ToName      string
	Subject     string
	HTML        string
	Attachments map[string][]byte
}

// Mailer delivers emails.
type Mailer interface {
	Send(ctx context.Context, msg Email) error
}

// PocketBaseMailer sends through the app's configured mail client (SMTP when
// enabled in the app settings, sendmail otherwise).
type PocketBaseMailer struct {
	app  core.App
	from mail.Address
}

// NewPocketBaseMailer returns a Mailer sending as fromName <fromAddress>.
func NewPocketBaseMailer(app core.App, fromName, fromAddress string) *PocketBaseMailer {
	return &PocketBaseMailer{
		app:  app,
		from: mail.Address{Name: fromName, Address: fromAddress},
	}
}

func (m *PocketBaseMailer) Send(ctx context.Context, msg Email) error {
	message := &mailer.Message{
		From:    m.from,
		To:      []mail.Address{{Name: msg.ToName, Address: msg.ToAddress}},
		Subject: msg.Subject,
		HTML:    msg.HTML,
	}
	if len(msg.Attachments) > 0 {
		message.Attachments = make(map[string]io.Reader, len(msg.Attachments))
		for name, data := range msg.Attachments {
			message.Attachments[name] = bytes.NewReader(data)
		}
	}

	if err := m.app.NewMailClient().Send(message); err != nil {
		return fmt.Errorf("send email to %s: %w", msg.ToAddress, err)
	}
	return nil
}
