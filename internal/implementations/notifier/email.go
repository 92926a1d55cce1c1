package notifier

import (
	"context"
	"strings"
	"thursday/internal/core/domain/reminder"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
)

const (
	EmailChannelName = "email"
	emailSubject     = "Thursday reminder"
	emailCharset     = "UTF-8"
)

type sesClient interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

// Email delivers plain text notices through Amazon SES.
type Email struct {
	ses sesClient
	// This address must be verified with Amazon SES.
	sender    string
	recipient string
}

func NewEmail(awsConfig aws.Config, sender string, recipient string) *Email {
	return newEmail(ses.NewFromConfig(awsConfig), sender, recipient)
}

func newEmail(client sesClient, sender string, recipient string) *Email {
	return &Email{ses: client, sender: sender, recipient: recipient}
}

func (s *Email) Name() string {
	return EmailChannelName
}

func (s *Email) Send(ctx context.Context, text string) error {
	if s.sender == "" || s.recipient == "" {
		return notConfigured(EmailChannelName)
	}

	_, err := s.ses.SendEmail(
		ctx,
		&ses.SendEmailInput{
			Source: aws.String(s.sender),
			Destination: &types.Destination{
				CcAddresses: []string{},
				ToAddresses: []string{s.recipient},
			},
			Message: &types.Message{
				Subject: &types.Content{Data: aws.String(subject(text)), Charset: aws.String(emailCharset)},
				Body: &types.Body{
					Text: &types.Content{Data: aws.String(text), Charset: aws.String(emailCharset)},
				},
			},
		},
	)
	if err != nil {
		return reminder.NewDeliveryError(EmailChannelName, 0, err)
	}
	return nil
}

// subject uses the first line of the notice, e.g. "⏰ Reminder set!".
func subject(text string) string {
	line, _, _ := strings.Cut(strings.TrimSpace(text), "\n")
	if line == "" {
		return emailSubject
	}
	return line
}
