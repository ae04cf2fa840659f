package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
)

// EmailSender delivers a verification passcode. Delivery is best-effort:
// the signup flow logs failures and carries on, it never depends on them.
type EmailSender interface {
	SendPasscode(ctx context.Context, email, name, code string) error
}

// AWSSESEmailSender sends passcode emails using AWS SES
type AWSSESEmailSender struct {
	sesClient   *ses.Client
	fromAddress string
	fromName    string
	logger      *slog.Logger
}

// NewAWSSESEmailSender creates a new AWS SES email sender
func NewAWSSESEmailSender(region, fromAddress, fromName string, logger *slog.Logger) (*AWSSESEmailSender, error) {
	cfg, err := awsconfig.LoadDefaultConfig(context.Background(), awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return &AWSSESEmailSender{
		sesClient:   ses.NewFromConfig(cfg),
		fromAddress: fromAddress,
		fromName:    fromName,
		logger:      logger,
	}, nil
}

// SendPasscode emails the 6-digit verification code to the user
func (s *AWSSESEmailSender) SendPasscode(ctx context.Context, email, name, code string) error {
	greeting := "Hello"
	if name != "" {
		greeting = "Hello " + name
	}

	htmlBody := fmt.Sprintf(`
<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;">
    <h2 style="color: #1e3a5f; text-align: center;">AMICUS Email Verification</h2>
    <p style="color: #333; font-size: 16px;">%s,</p>
    <p style="color: #333; font-size: 16px;">Your verification code is:</p>
    <div style="background: #f5f5f5; padding: 20px; text-align: center; border-radius: 8px; margin: 20px 0;">
        <span style="font-size: 32px; font-weight: bold; letter-spacing: 8px; color: #1e3a5f;">%s</span>
    </div>
    <p style="color: #666; font-size: 14px;">This code will expire in 10 minutes.</p>
    <p style="color: #666; font-size: 14px;">If you didn't request this code, please ignore this email.</p>
    <hr style="border: none; border-top: 1px solid #eee; margin: 20px 0;">
    <p style="color: #999; font-size: 12px; text-align: center;">AMICUS - Your AI Legal Assistant</p>
</div>
`, greeting, code)

	textBody := fmt.Sprintf(`%s,

Your AMICUS verification code is: %s

This code will expire in 10 minutes.
If you didn't request this code, please ignore this email.
`, greeting, code)

	input := &ses.SendEmailInput{
		Source: aws.String(fmt.Sprintf("%s <%s>", s.fromName, s.fromAddress)),
		Destination: &types.Destination{
			ToAddresses: []string{email},
		},
		Message: &types.Message{
			Subject: &types.Content{
				Data: aws.String("AMICUS - Email Verification Code"),
			},
			Body: &types.Body{
				Html: &types.Content{
					Data: aws.String(htmlBody),
				},
				Text: &types.Content{
					Data: aws.String(textBody),
				},
			},
		},
	}

	result, err := s.sesClient.SendEmail(ctx, input)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	s.logger.Info("passcode email sent",
		slog.String("message_id", aws.ToString(result.MessageId)))

	return nil
}
