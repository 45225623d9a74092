package sender

import "context"

// htmlMailer is satisfied by pkg/aws.SESClient.
type htmlMailer interface {
	SendHTML(ctx context.Context, from, to, subject, html string) (string, error)
}

type SESSender struct {
	client htmlMailer
}

func NewSESSender(client htmlMailer) *SESSender {
	return &SESSender{client: client}
}

func (s *SESSender) Name() string { return "ses" }

func (s *SESSender) Send(ctx context.Context, email Email) (string, error) {
	return s.client.SendHTML(ctx, email.From, email.To, email.Subject, email.HTML)
}
