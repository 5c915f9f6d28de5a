package core

import "net/mail"

type (
	// EmailMessage is a simple text/plain message.
	EmailMessage struct {
		To      []mail.Address
		Subject string
		Body    string
	}

	// EmailService is any service that can send emails.
	//
	// SendMessages is best-effort: implementations send concurrently and
	// must never propagate delivery failures to the caller.
	EmailService interface {
		SendMessages(messages ...*EmailMessage)
	}
)

func (m *EmailMessage) HasRecipients() bool { return len(m.To) > 0 }
func (m *EmailMessage) HasContent() bool    { return m.Body != "" }
