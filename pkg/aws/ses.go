package aws

import (
	"context"
	"fmt"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"
)

type sesAPI interface {
	SendEmail(ctx context.Context, params *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error)
}

// SESClient sends single-recipient HTML mail through SES v2.
type SESClient struct {
	client sesAPI
}

func NewSESClient(cfg sdkaws.Config) *SESClient {
	return &SESClient{client: sesv2.NewFromConfig(cfg)}
}

// SendHTML sends one message and returns the SES message id.
func (s *SESClient) SendHTML(ctx context.Context, from, to, subject, html string) (string, error) {
	out, err := s.client.SendEmail(ctx, &sesv2.SendEmailInput{
		FromEmailAddress: sdkaws.String(from),
		Destination:      &types.Destination{ToAddresses: []string{to}},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: sdkaws.String(subject), Charset: sdkaws.String("UTF-8")},
				Body: &types.Body{
					Html: &types.Content{Data: sdkaws.String(html), Charset: sdkaws.String("UTF-8")},
				},
			},
		},
	})
	if err != nil {
		return "", fmt.Errorf("ses send to %s failed: %w", to, err)
	}
	return sdkaws.ToString(out.MessageId), nil
}
