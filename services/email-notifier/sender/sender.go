package sender

import "context"

type Email struct {
	From    string
	To      string
	Subject string
	HTML    string
}

// EmailSender dispatches one email and returns the provider message id.
type EmailSender interface {
	Send(ctx context.Context, email Email) (string, error)
	Name() string
}
