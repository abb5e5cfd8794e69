package service

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"

	"sparkacademy/internal/config"
	"sparkacademy/internal/logger"
)

// sesAPI is the part of the SES client used for sending
type sesAPI interface {
	SendEmail(ctx context.Context, params *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error)
}

// EmailService handles sending emails via Amazon SES
type EmailService struct {
	client     sesAPI
	fromEmail  string
	fromName   string
	appBaseURL string
	enabled    bool
	log        *logger.Logger
}

// NewEmailService creates a new email service. A disabled config or a
// missing sender address yields a service that skips every send.
func NewEmailService(ctx context.Context, cfg config.EmailConfig, log *logger.Logger) (*EmailService, error) {
	if log == nil {
		log = logger.NewNop()
	}
	if !cfg.Enabled || cfg.FromEmail == "" {
		log.Info("email service disabled")
		return &EmailService{enabled: false, log: log}, nil
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWSRegion))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	log.Info("email service enabled", "from", cfg.FromEmail, "region", cfg.AWSRegion)
	return newEmailService(sesv2.NewFromConfig(awsCfg), cfg, log), nil
}

func newEmailService(client sesAPI, cfg config.EmailConfig, log *logger.Logger) *EmailService {
	return &EmailService{
		client:     client,
		fromEmail:  cfg.FromEmail,
		fromName:   cfg.FromName,
		appBaseURL: cfg.AppBaseURL,
		enabled:    true,
		log:        log,
	}
}

// IsEnabled returns whether the email service is enabled
func (s *EmailService) IsEnabled() bool {
	return s.enabled
}

// SendWelcomeEmail sends a welcome email to new learners
func (s *EmailService) SendWelcomeEmail(ctx context.Context, toEmail, toName string) error {
	if !s.enabled {
		s.log.Debug("skipping welcome email, service disabled", "email", toEmail)
		return nil
	}

	subject := "Welcome to Spark AI Academy!"
	htmlBody := fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
	<meta charset="UTF-8">
	<style>
		body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
		.container { max-width: 600px; margin: 0 auto; padding: 20px; }
		.header { background-color: #7c3aed; color: white; padding: 20px; text-align: center; border-radius: 5px 5px 0 0; }
		.content { background-color: #f9f9f9; padding: 30px; border-radius: 0 0 5px 5px; }
		.button { display: inline-block; padding: 12px 30px; background-color: #7c3aed; color: white; text-decoration: none; border-radius: 5px; margin: 20px 0; }
		.footer { text-align: center; margin-top: 20px; font-size: 12px; color: #666; }
	</style>
</head>
<body>
	<div class="container">
		<div class="header">
			<h1>Welcome to Spark AI Academy!</h1>
		</div>
		<div class="content">
			<p>Hi %s,</p>
			<p>Your robot guide is powered up and ready to go! Spark AI Academy teaches you about computers and artificial intelligence one mission at a time.</p>
			<p>Here's what you can do next:</p>
			<ul>
				<li>Start the "What is AI?" course</li>
				<li>Collect stars by finishing missions</li>
				<li>Keep your daily streak going</li>
				<li>Earn badges for your trophy shelf</li>
			</ul>
			<p style="text-align: center;">
				<a href="%s/login" class="button">Start Learning</a>
			</p>
		</div>
		<div class="footer">
			<p>This is an automated email from Spark AI Academy. Please do not reply.</p>
		</div>
	</div>
</body>
</html>
`, toName, s.appBaseURL)

	textBody := fmt.Sprintf(`Hi %s,

Your robot guide is powered up and ready to go! Spark AI Academy teaches you about computers and artificial intelligence one mission at a time.

Here's what you can do next:
- Start the "What is AI?" course
- Collect stars by finishing missions
- Keep your daily streak going
- Earn badges for your trophy shelf

Start learning: %s/login

---
This is an automated email from Spark AI Academy. Please do not reply.
`, toName, s.appBaseURL)

	return s.sendEmail(ctx, toEmail, subject, htmlBody, textBody)
}

// sendEmail sends an email using Amazon SES
func (s *EmailService) sendEmail(ctx context.Context, toEmail, subject, htmlBody, textBody string) error {
	fromAddress := s.fromEmail
	if s.fromName != "" {
		fromAddress = fmt.Sprintf("%s <%s>", s.fromName, s.fromEmail)
	}

	input := &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(fromAddress),
		Destination: &types.Destination{
			ToAddresses: []string{toEmail},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{
					Data:    aws.String(subject),
					Charset: aws.String("UTF-8"),
				},
				Body: &types.Body{
					Html: &types.Content{
						Data:    aws.String(htmlBody),
						Charset: aws.String("UTF-8"),
					},
					Text: &types.Content{
						Data:    aws.String(textBody),
						Charset: aws.String("UTF-8"),
					},
				},
			},
		},
	}

	result, err := s.client.SendEmail(ctx, input)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	messageID := ""
	if result != nil && result.MessageId != nil {
		messageID = *result.MessageId
	}
	s.log.Info("email sent", "email", toEmail, "subject", subject, "message_id", messageID)
	return nil
}
