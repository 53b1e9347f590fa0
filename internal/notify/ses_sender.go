package notify

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
)

// emailAPI is the slice of the SES client the sender uses.
type emailAPI interface {
	SendEmail(ctx context.Context, input *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

// SESSenderConfig holds configuration for the SES email sender.
type SESSenderConfig struct {
	// Region is the AWS region (required).
	Region string

	// FromAddress is the verified sender address (required).
	FromAddress string
}

// SESSender delivers notifications by email through AWS SES.
type SESSender struct {
	client emailAPI
	from   string
}

// NewSESSender creates an SES-backed sender using the default AWS
// credential chain.
func NewSESSender(ctx context.Context, cfg SESSenderConfig) (*SESSender, error) {
	if cfg.Region == "" {
		return nil, fmt.Errorf("notify: SES region not configured")
	}
	if cfg.FromAddress == "" {
		return nil, fmt.Errorf("notify: SES from-address not configured")
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("notify: load AWS config: %w", err)
	}

	return &SESSender{
		client: ses.NewFromConfig(awsCfg),
		from:   cfg.FromAddress,
	}, nil
}

// Send delivers the notification by email.
func (s *SESSender) Send(ctx context.Context, n Notification) error {
	if n.Email == "" {
		return fmt.Errorf("notify: no email address for user %s", n.UserID)
	}

	_, err := s.client.SendEmail(ctx, &ses.SendEmailInput{
		Source: &s.from,
		Destination: &types.Destination{
			ToAddresses: []string{n.Email},
		},
		Message: &types.Message{
			Subject: &types.Content{Data: &n.Subject},
			Body: &types.Body{
				Text: &types.Content{Data: &n.Body},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("notify: send email to user %s: %w", n.UserID, err)
	}
	return nil
}
